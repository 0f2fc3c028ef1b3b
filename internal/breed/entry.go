// Package breed holds the breed reference catalog and the human-to-dog
// step multiplier model derived from it.
package breed

import (
	"errors"
	"fmt"
	"strings"
)

// SizeCategory buckets breeds by overall stature.
type SizeCategory string

const (
	SizeToy        SizeCategory = "toy"
	SizeSmall      SizeCategory = "small"
	SizeMedium     SizeCategory = "medium"
	SizeLarge      SizeCategory = "large"
	SizeExtraLarge SizeCategory = "extra_large"
)

// Label returns the human-readable size label used in search matching.
func (s SizeCategory) Label() string {
	switch s {
	case SizeToy:
		return "Toy"
	case SizeSmall:
		return "Small"
	case SizeMedium:
		return "Medium"
	case SizeLarge:
		return "Large"
	case SizeExtraLarge:
		return "Extra Large"
	default:
		return string(s)
	}
}

// BodyType describes the build of a breed.
type BodyType string

const (
	BodyCompact   BodyType = "compact"
	BodyAthletic  BodyType = "athletic"
	BodyElongated BodyType = "elongated"
	BodyHeavy     BodyType = "heavy"
)

// EnergyLevel describes typical movement intensity.
type EnergyLevel string

const (
	EnergyLow      EnergyLevel = "low"
	EnergyModerate EnergyLevel = "moderate"
	EnergyHigh     EnergyLevel = "high"
	EnergyVeryHigh EnergyLevel = "very_high"
)

// Physical captures measurable body attributes.
type Physical struct {
	AverageLegLengthCm float64  `json:"average_leg_length_cm"`
	AverageWeightKg    float64  `json:"average_weight_kg"`
	BodyType           BodyType `json:"body_type"`
}

// Movement captures behavioural movement attributes.
type Movement struct {
	EnergyLevel EnergyLevel `json:"energy_level"`
}

// AgeFactors scale the multiplier by life stage.
type AgeFactors struct {
	Puppy  float64 `json:"puppy_multiplier"`
	Adult  float64 `json:"adult_multiplier"`
	Senior float64 `json:"senior_multiplier"`
}

// Entry is one immutable breed record. Entries are loaded once at startup
// and never mutated afterwards.
type Entry struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	SizeCategory SizeCategory `json:"size_category"`
	Physical     Physical     `json:"physical"`
	Movement     Movement     `json:"movement"`
	AgeFactors   AgeFactors   `json:"age_factors"`
}

// ErrInvalidEntry indicates a catalog record failed validation.
var ErrInvalidEntry = errors.New("invalid breed entry")

// Validate checks the positivity constraints the multiplier model relies on.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEntry)
	}
	if e.Physical.AverageLegLengthCm <= 0 {
		return fmt.Errorf("%w: %s: average_leg_length_cm must be > 0", ErrInvalidEntry, e.Name)
	}
	if e.Physical.AverageWeightKg <= 0 {
		return fmt.Errorf("%w: %s: average_weight_kg must be > 0", ErrInvalidEntry, e.Name)
	}
	if e.AgeFactors.Puppy <= 0 || e.AgeFactors.Adult <= 0 || e.AgeFactors.Senior <= 0 {
		return fmt.Errorf("%w: %s: age factors must be > 0", ErrInvalidEntry, e.Name)
	}
	return nil
}
