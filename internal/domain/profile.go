package domain

import "time"

// Gender of the dog on the profile.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// BodyCondition is the owner-reported body condition score.
type BodyCondition string

const (
	ConditionSkinny    BodyCondition = "skinny"
	ConditionJustRight BodyCondition = "just_right"
	ConditionChubby    BodyCondition = "chubby"
)

// DogProfile is the single active dog record for a user. Created during
// onboarding, updated via explicit edits, deleted on reset.
type DogProfile struct {
	UserID        string
	DogName       string
	BreedName     string
	Gender        Gender
	BodyCondition BodyCondition
	// AgeYears is nil when the owner has not provided an age. Unknown age is
	// an explicit state resolved to the adult factors, never a hidden default.
	AgeYears  *int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func validGender(g Gender) bool {
	switch g {
	case GenderMale, GenderFemale, GenderUnknown:
		return true
	}
	return false
}

func validBodyCondition(c BodyCondition) bool {
	switch c {
	case ConditionSkinny, ConditionJustRight, ConditionChubby:
		return true
	}
	return false
}
