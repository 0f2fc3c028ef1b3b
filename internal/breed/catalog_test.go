package breed

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestLoadFallsBackWhenSourceMissing(t *testing.T) {
	catalog := Load(filepath.Join(t.TempDir(), "missing.json"), discardLogger())

	require.NotZero(t, catalog.Len())
	_, ok := catalog.FindByName(DefaultBreedName)
	require.True(t, ok, "fallback set must contain the default breed")
}

func TestLoadFallsBackWhenSourceMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "breeds.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	catalog := Load(path, discardLogger())
	_, ok := catalog.FindByName(DefaultBreedName)
	require.True(t, ok)
}

func TestLoadReadsWellFormedSource(t *testing.T) {
	payload := `[
      {
        "name": "Mixed Breed",
        "description": "Average profile.",
        "size_category": "medium",
        "physical": {"average_leg_length_cm": 28, "average_weight_kg": 20, "body_type": "athletic"},
        "movement": {"energy_level": "moderate"},
        "age_factors": {"puppy_multiplier": 1.15, "adult_multiplier": 1.0, "senior_multiplier": 0.9}
      },
      {
        "name": "Beagle",
        "description": "Compact scent hound.",
        "size_category": "small",
        "physical": {"average_leg_length_cm": 20, "average_weight_kg": 10, "body_type": "compact"},
        "movement": {"energy_level": "high"},
        "age_factors": {"puppy_multiplier": 1.1, "adult_multiplier": 1.0, "senior_multiplier": 0.9}
      }
    ]`
	path := filepath.Join(t.TempDir(), "breeds.json")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	catalog := Load(path, discardLogger())
	require.Equal(t, 2, catalog.Len())

	beagle, ok := catalog.FindByName("beagle")
	require.True(t, ok)
	require.Equal(t, "Beagle", beagle.Name)
}

func TestFindByNameIsCaseInsensitiveExact(t *testing.T) {
	catalog := Fallback()

	_, ok := catalog.FindByName("lABRADOR rETRIEVER")
	require.True(t, ok)

	_, ok = catalog.FindByName("Labrador")
	require.False(t, ok, "partial names must not match")
}

func TestSearchMatchesNameDescriptionAndSizeLabel(t *testing.T) {
	catalog := Fallback()

	byName := catalog.Search("collie")
	require.Len(t, byName, 1)
	require.Equal(t, "Border Collie", byName[0].Name)

	byDescription := catalog.Search("herding")
	require.Len(t, byDescription, 1)
	require.Equal(t, "Border Collie", byDescription[0].Name)

	bySize := catalog.Search("toy")
	require.NotEmpty(t, bySize)
	for _, entry := range bySize {
		require.Equal(t, SizeToy, entry.SizeCategory)
	}
}

func TestSearchEmptyQueryReturnsFullCatalog(t *testing.T) {
	catalog := Fallback()
	require.Len(t, catalog.Search("  "), catalog.Len())
}

func TestNewRejectsDuplicatesAndInvalidEntries(t *testing.T) {
	valid := fallbackEntries()[0]

	_, err := New([]Entry{valid, valid})
	require.ErrorIs(t, err, ErrInvalidEntry)

	broken := valid
	broken.Physical.AverageLegLengthCm = 0
	_, err = New([]Entry{broken})
	require.ErrorIs(t, err, ErrInvalidEntry)

	_, err = New(nil)
	require.ErrorIs(t, err, ErrInvalidEntry)
}

func TestDefaultAlwaysResolves(t *testing.T) {
	catalog := Fallback()
	entry := catalog.Default()
	require.Equal(t, DefaultBreedName, entry.Name)
}
