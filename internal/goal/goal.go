// Package goal computes daily step goals per breed with a separate
// age-based adjustment step.
package goal

import "strings"

// DefaultBaseGoal is used for breed names the table does not know.
const DefaultBaseGoal = 8000

// baseGoals is the canonical per-breed daily step goal table, keyed by
// lowercase breed name.
var baseGoals = map[string]int{
	"mixed breed":        8000,
	"labrador retriever": 12000,
	"german shepherd":    12000,
	"golden retriever":   11000,
	"border collie":      14000,
	"french bulldog":     6000,
	"dachshund":          7000,
	"chihuahua":          5000,
	"beagle":             9000,
	"poodle":             9000,
	"siberian husky":     14000,
	"great dane":         8000,
	"pug":                5500,
	"boxer":              11000,
	"shih tzu":           5500,
}

// BaseForBreed looks up the daily base goal for a breed name. Unknown names
// resolve to DefaultBaseGoal; a miss is recoverable, never an error.
func BaseForBreed(breedName string) int {
	if base, ok := baseGoals[strings.ToLower(strings.TrimSpace(breedName))]; ok {
		return base
	}
	return DefaultBaseGoal
}

// ForAge scales a base goal by life stage: puppies and very old dogs walk
// materially less than adults.
func ForAge(base, ageYears int) int {
	switch {
	case ageYears <= 1:
		return int(float64(base) * 0.6)
	case ageYears <= 7:
		return base
	case ageYears <= 12:
		return int(float64(base) * 0.8)
	default:
		return int(float64(base) * 0.6)
	}
}
