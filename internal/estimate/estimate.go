// Package estimate converts raw human step counts into dog step estimates.
package estimate

import (
	"errors"
	"math"
)

// ErrNegativeSteps is returned when a caller supplies a negative human step
// count. Negative input is a caller bug, never silently converted.
var ErrNegativeSteps = errors.New("human step count must be non-negative")

// DogSteps applies the breed multiplier to a human step count. The result is
// truncated, not rounded, so the same inputs always reproduce the same
// estimate across platforms.
func DogSteps(humanSteps int, multiplier float64) (int, error) {
	if humanSteps < 0 {
		return 0, ErrNegativeSteps
	}
	if multiplier < 0 {
		multiplier = 0
	}
	return int(math.Floor(float64(humanSteps) * multiplier)), nil
}
