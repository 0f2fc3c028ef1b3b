// Package api exposes HTTP handlers for the dogsteps service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/b1ms/Doggysteps-sub001/internal/activity"
	"github.com/b1ms/Doggysteps-sub001/internal/auth"
	"github.com/b1ms/Doggysteps-sub001/internal/breed"
	"github.com/b1ms/Doggysteps-sub001/internal/domain"
	"github.com/b1ms/Doggysteps-sub001/internal/persistence"
)

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
	catalog *breed.Catalog
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service, catalog *breed.Catalog) *Handler {
	return &Handler{service: service, catalog: catalog}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/walks", h.walks)
	mux.HandleFunc("/v1/walks/", h.walkByID)
	mux.HandleFunc("/v1/activity/daily", h.dailyActivity)
	mux.HandleFunc("/v1/activity/weekly", h.weeklyActivity)
	mux.HandleFunc("/v1/breeds", h.breeds)
	mux.HandleFunc("/v1/breeds/", h.breedByName)
	mux.HandleFunc("/v1/profile", h.profile)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) walks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.recordWalk(w, r)
	case http.MethodGet:
		h.listWalks(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) walkByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/walks/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing walk id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getWalk(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) recordWalk(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeWalksWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope walks:write required")
		return
	}

	var req RecordWalkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")

	session, replay, err := h.service.RecordWalk(r.Context(), domain.RecordWalkInput{
		UserID:         claims.Subject,
		StartedAt:      req.StartedAt,
		HumanSteps:     req.HumanSteps,
		DistanceMeters: req.DistanceMeters,
		Source:         req.Source,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := RecordWalkResponse{
		Walk:   toWalkView(*session),
		Replay: replay,
	}

	status := http.StatusCreated
	if replay {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

func (h *Handler) getWalk(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := requireReadScope(w, r)
	if !ok {
		return
	}

	session, err := h.service.GetWalk(r.Context(), claims.Subject, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toWalkView(*session))
}

func (h *Handler) listWalks(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireReadScope(w, r)
	if !ok {
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			if parsed > 100 {
				parsed = 100
			}
			limit = parsed
		}
	}

	cursorToken := r.URL.Query().Get("cursor")
	cursor, err := persistence.DecodeCursor(cursorToken)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid cursor")
		return
	}

	sessions, next, err := h.service.ListWalks(r.Context(), claims.Subject, cursor, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]WalkView, 0, len(sessions))
	for _, session := range sessions {
		items = append(items, toWalkView(session))
	}

	resp := ListWalksResponse{
		Items:      items,
		NextCursor: persistence.EncodeCursor(next),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) dailyActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := requireReadScope(w, r)
	if !ok {
		return
	}

	day := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "date must be formatted YYYY-MM-DD")
			return
		}
		day = parsed
	}

	record, err := h.service.DailyActivity(r.Context(), claims.Subject, day)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "no_activity", "no walks tracked for this day")
		return
	}

	writeJSON(w, http.StatusOK, toDayView(*record))
}

func (h *Handler) weeklyActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := requireReadScope(w, r)
	if !ok {
		return
	}

	records, trend, err := h.service.WeeklyActivity(r.Context(), claims.Subject, time.Now().UTC())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	days := make([]DayView, 0, len(records))
	for _, record := range records {
		days = append(days, toDayView(record))
	}

	writeJSON(w, http.StatusOK, WeeklyActivityResponse{Days: days, Trend: trend})
}

func (h *Handler) breeds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	if _, ok := auth.FromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	query := r.URL.Query().Get("query")
	entries := h.catalog.Search(query)

	writeJSON(w, http.StatusOK, BreedListResponse{Items: entries, Total: len(entries)})
}

func (h *Handler) breedByName(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	if _, ok := auth.FromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/v1/breeds/")
	if name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing breed name")
		return
	}

	entry, ok := h.catalog.FindByName(name)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "breed not found")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getProfile(w, r)
	case http.MethodPut:
		h.upsertProfile(w, r)
	case http.MethodDelete:
		h.deleteProfile(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireReadScope(w, r)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(r.Context(), claims.Subject)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileView(*profile))
}

func (h *Handler) upsertProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeProfileWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope profile:write required")
		return
	}

	var req UpsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	profile, err := h.service.UpsertProfile(r.Context(), domain.DogProfile{
		UserID:        claims.Subject,
		DogName:       req.DogName,
		BreedName:     req.BreedName,
		Gender:        domain.Gender(req.Gender),
		BodyCondition: domain.BodyCondition(req.BodyCondition),
		AgeYears:      req.AgeYears,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileView(*profile))
}

func (h *Handler) deleteProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeProfileWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope profile:write required")
		return
	}

	if err := h.service.DeleteProfile(r.Context(), claims.Subject); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// requireReadScope authorizes read endpoints; writers may read too.
func requireReadScope(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return nil, false
	}
	if !claims.HasScope(auth.ScopeWalksRead) && !claims.HasScope(auth.ScopeWalksWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope walks:read required")
		return nil, false
	}
	return claims, true
}

// RecordWalkRequest is the payload for POST /v1/walks.
type RecordWalkRequest struct {
	StartedAt      time.Time `json:"started_at"`
	HumanSteps     int       `json:"human_steps"`
	DistanceMeters float64   `json:"distance_m"`
	Source         string    `json:"source"`
}

// Validate ensures request correctness.
func (r RecordWalkRequest) Validate() error {
	if r.StartedAt.IsZero() {
		return errors.New("started_at is required")
	}
	if r.HumanSteps < 0 {
		return errors.New("human_steps must be non-negative")
	}
	if r.DistanceMeters < 0 {
		return errors.New("distance_m must be non-negative")
	}
	if strings.TrimSpace(r.Source) == "" {
		return errors.New("source is required")
	}
	return nil
}

// RecordWalkResponse describes the response body for walk creation.
type RecordWalkResponse struct {
	Walk   WalkView `json:"walk"`
	Replay bool     `json:"idempotent_replay"`
}

// WalkView exposes a stored walk session.
type WalkView struct {
	WalkID            string    `json:"walk_id"`
	UserID            string    `json:"user_id"`
	StartedAt         time.Time `json:"started_at"`
	HumanSteps        int       `json:"human_steps"`
	EstimatedDogSteps int       `json:"estimated_dog_steps"`
	DistanceMeters    float64   `json:"distance_m"`
	Source            string    `json:"source"`
	CreatedAt         time.Time `json:"created_at"`
}

// ListWalksResponse packages list results.
type ListWalksResponse struct {
	Items      []WalkView `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// DayView is the aggregated activity for one calendar day.
type DayView struct {
	Date              string  `json:"date"`
	HumanSteps        int     `json:"human_steps"`
	EstimatedDogSteps int     `json:"estimated_dog_steps"`
	DistanceMeters    float64 `json:"distance_m"`
	BreedName         string  `json:"breed_name"`
	BreedMultiplier   float64 `json:"breed_multiplier"`
	Confidence        string  `json:"confidence"`
	ActivityLevel     string  `json:"activity_level"`
	GoalSteps         int     `json:"goal_steps"`
}

// WeeklyActivityResponse carries the last week of day records plus the trend label.
type WeeklyActivityResponse struct {
	Days  []DayView `json:"days"`
	Trend string    `json:"trend"`
}

// BreedListResponse packages catalog search results.
type BreedListResponse struct {
	Items []breed.Entry `json:"items"`
	Total int           `json:"total"`
}

// UpsertProfileRequest is the payload for PUT /v1/profile.
type UpsertProfileRequest struct {
	DogName       string `json:"dog_name"`
	BreedName     string `json:"breed_name"`
	Gender        string `json:"gender"`
	BodyCondition string `json:"body_condition"`
	AgeYears      *int   `json:"age_years,omitempty"`
}

// ProfileView exposes the stored dog profile.
type ProfileView struct {
	UserID        string    `json:"user_id"`
	DogName       string    `json:"dog_name"`
	BreedName     string    `json:"breed_name"`
	Gender        string    `json:"gender"`
	BodyCondition string    `json:"body_condition"`
	AgeYears      *int      `json:"age_years,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidWalk), errors.Is(err, domain.ErrInvalidProfile):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, domain.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "profile_not_found", "no dog profile for this user")
	case errors.Is(err, domain.ErrWalkNotFound):
		writeError(w, http.StatusNotFound, "not_found", "walk not found")
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toWalkView(session activity.WalkSession) WalkView {
	return WalkView{
		WalkID:            session.ID,
		UserID:            session.UserID,
		StartedAt:         session.StartedAt,
		HumanSteps:        session.HumanSteps,
		EstimatedDogSteps: session.EstimatedDogSteps,
		DistanceMeters:    session.DistanceMeters,
		Source:            session.Source,
		CreatedAt:         session.CreatedAt,
	}
}

func toDayView(record activity.DayRecord) DayView {
	return DayView{
		Date:              record.Date.Format("2006-01-02"),
		HumanSteps:        record.HumanSteps,
		EstimatedDogSteps: record.EstimatedDogSteps,
		DistanceMeters:    record.DistanceMeters,
		BreedName:         record.BreedName,
		BreedMultiplier:   record.BreedMultiplier,
		Confidence:        record.Confidence,
		ActivityLevel:     record.ActivityLevel,
		GoalSteps:         record.GoalSteps,
	}
}

func toProfileView(profile domain.DogProfile) ProfileView {
	return ProfileView{
		UserID:        profile.UserID,
		DogName:       profile.DogName,
		BreedName:     profile.BreedName,
		Gender:        string(profile.Gender),
		BodyCondition: string(profile.BodyCondition),
		AgeYears:      profile.AgeYears,
		CreatedAt:     profile.CreatedAt,
		UpdatedAt:     profile.UpdatedAt,
	}
}
