package auth

// OAuth scopes recognized by the dogsteps service.
const (
	ScopeWalksWrite   = "walks:write"
	ScopeWalksRead    = "walks:read"
	ScopeProfileWrite = "profile:write"
)
