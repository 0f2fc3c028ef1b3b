package breed

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
)

// DefaultBreedName is the catalog entry every lookup can fall back to. The
// fallback set always contains it, so resolving the default never fails.
const DefaultBreedName = "Mixed Breed"

// Catalog is an immutable, load-once view of the breed reference data.
// Construct it with Load (or Fallback) at startup and pass it by reference.
type Catalog struct {
	entries []Entry
	byName  map[string]int
}

// Load reads the JSON catalog at path. A missing or malformed file degrades
// to the built-in fallback set so downstream lookups always have data.
func Load(path string, logger *log.Logger) *Catalog {
	if logger == nil {
		logger = log.Default()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Printf("breed catalog: unreadable source %q, using fallback set: %v", path, err)
		return Fallback()
	}

	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		logger.Printf("breed catalog: malformed source %q, using fallback set: %v", path, err)
		return Fallback()
	}

	catalog, err := New(entries)
	if err != nil {
		logger.Printf("breed catalog: rejected source %q, using fallback set: %v", path, err)
		return Fallback()
	}

	if _, ok := catalog.FindByName(DefaultBreedName); !ok {
		logger.Printf("breed catalog: source %q lacks %q, using fallback set", path, DefaultBreedName)
		return Fallback()
	}
	return catalog
}

// New builds a catalog from validated entries, preserving load order.
// Duplicate names (case-insensitive) are rejected.
func New(entries []Entry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: empty catalog", ErrInvalidEntry)
	}

	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return nil, err
		}
		key := normalizeName(entry.Name)
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidEntry, entry.Name)
		}
		c.byName[key] = len(c.entries)
		c.entries = append(c.entries, entry)
	}
	return c, nil
}

// Entries returns the catalog in load order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// FindByName performs a case-insensitive exact match.
func (c *Catalog) FindByName(name string) (Entry, bool) {
	idx, ok := c.byName[normalizeName(name)]
	if !ok {
		return Entry{}, false
	}
	return c.entries[idx], true
}

// Default returns the guaranteed fallback entry used when a profile names a
// breed the catalog does not know.
func (c *Catalog) Default() Entry {
	entry, ok := c.FindByName(DefaultBreedName)
	if !ok {
		// Load and New guarantee the default entry is present; reaching here
		// means the catalog was constructed bypassing both.
		return fallbackEntries()[0]
	}
	return entry
}

// Search performs a case-insensitive substring match against name,
// description, and size label. An empty query returns the full catalog.
func (c *Catalog) Search(query string) []Entry {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return c.Entries()
	}

	results := make([]Entry, 0)
	for _, entry := range c.entries {
		if strings.Contains(strings.ToLower(entry.Name), normalized) ||
			strings.Contains(strings.ToLower(entry.Description), normalized) ||
			strings.Contains(strings.ToLower(entry.SizeCategory.Label()), normalized) {
			results = append(results, entry)
		}
	}
	return results
}

// Len reports the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Fallback returns the built-in minimal catalog.
func Fallback() *Catalog {
	catalog, err := New(fallbackEntries())
	if err != nil {
		// The fallback set is static and validated by tests.
		panic(fmt.Sprintf("breed: invalid fallback catalog: %v", err))
	}
	return catalog
}

func fallbackEntries() []Entry {
	return []Entry{
		{
			Name:         DefaultBreedName,
			Description:  "Average profile used when the exact breed is unknown or not listed.",
			SizeCategory: SizeMedium,
			Physical:     Physical{AverageLegLengthCm: 28, AverageWeightKg: 20, BodyType: BodyAthletic},
			Movement:     Movement{EnergyLevel: EnergyModerate},
			AgeFactors:   AgeFactors{Puppy: 1.15, Adult: 1.0, Senior: 0.9},
		},
		{
			Name:         "Labrador Retriever",
			Description:  "Friendly, outgoing retriever with a steady athletic gait.",
			SizeCategory: SizeLarge,
			Physical:     Physical{AverageLegLengthCm: 33, AverageWeightKg: 31, BodyType: BodyAthletic},
			Movement:     Movement{EnergyLevel: EnergyHigh},
			AgeFactors:   AgeFactors{Puppy: 1.2, Adult: 1.0, Senior: 0.85},
		},
		{
			Name:         "German Shepherd",
			Description:  "Confident working breed with long, efficient strides.",
			SizeCategory: SizeLarge,
			Physical:     Physical{AverageLegLengthCm: 35, AverageWeightKg: 34, BodyType: BodyAthletic},
			Movement:     Movement{EnergyLevel: EnergyHigh},
			AgeFactors:   AgeFactors{Puppy: 1.2, Adult: 1.0, Senior: 0.85},
		},
		{
			Name:         "Golden Retriever",
			Description:  "Gentle family retriever, moderate build and even pace.",
			SizeCategory: SizeLarge,
			Physical:     Physical{AverageLegLengthCm: 32, AverageWeightKg: 30, BodyType: BodyAthletic},
			Movement:     Movement{EnergyLevel: EnergyHigh},
			AgeFactors:   AgeFactors{Puppy: 1.2, Adult: 1.0, Senior: 0.85},
		},
		{
			Name:         "French Bulldog",
			Description:  "Compact companion breed with a short, choppy stride.",
			SizeCategory: SizeSmall,
			Physical:     Physical{AverageLegLengthCm: 15, AverageWeightKg: 11, BodyType: BodyCompact},
			Movement:     Movement{EnergyLevel: EnergyLow},
			AgeFactors:   AgeFactors{Puppy: 1.1, Adult: 1.0, Senior: 0.9},
		},
		{
			Name:         "Dachshund",
			Description:  "Elongated low-set hound bred for tracking.",
			SizeCategory: SizeSmall,
			Physical:     Physical{AverageLegLengthCm: 12, AverageWeightKg: 9, BodyType: BodyElongated},
			Movement:     Movement{EnergyLevel: EnergyModerate},
			AgeFactors:   AgeFactors{Puppy: 1.1, Adult: 1.0, Senior: 0.9},
		},
		{
			Name:         "Chihuahua",
			Description:  "Tiny, alert toy breed taking many quick steps.",
			SizeCategory: SizeToy,
			Physical:     Physical{AverageLegLengthCm: 9, AverageWeightKg: 2.5, BodyType: BodyCompact},
			Movement:     Movement{EnergyLevel: EnergyModerate},
			AgeFactors:   AgeFactors{Puppy: 1.1, Adult: 1.0, Senior: 0.9},
		},
		{
			Name:         "Border Collie",
			Description:  "Highly driven herding breed, remarkably efficient mover.",
			SizeCategory: SizeMedium,
			Physical:     Physical{AverageLegLengthCm: 30, AverageWeightKg: 18, BodyType: BodyAthletic},
			Movement:     Movement{EnergyLevel: EnergyVeryHigh},
			AgeFactors:   AgeFactors{Puppy: 1.2, Adult: 1.0, Senior: 0.85},
		},
	}
}
