package estimate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDogStepsTruncates(t *testing.T) {
	got, err := DogSteps(10, 1.49)
	require.NoError(t, err)
	require.Equal(t, 14, got, "estimate must truncate, not round")
}

func TestDogStepsReferenceScenario(t *testing.T) {
	got, err := DogSteps(10000, 1.309)
	require.NoError(t, err)
	require.Equal(t, 13090, got)
}

func TestDogStepsRejectsNegativeInput(t *testing.T) {
	_, err := DogSteps(-1, 1.0)
	require.ErrorIs(t, err, ErrNegativeSteps)
}

func TestDogStepsMonotonicInHumanSteps(t *testing.T) {
	multipliers := []float64{0, 0.5, 1.0, 1.309, 2.75}
	for _, m := range multipliers {
		prev := -1
		for steps := 0; steps <= 5000; steps += 137 {
			got, err := DogSteps(steps, m)
			require.NoError(t, err)
			require.GreaterOrEqual(t, got, prev, "multiplier %.3f at %d steps", m, steps)
			prev = got
		}
	}
}

func TestDogStepsZeroInputs(t *testing.T) {
	got, err := DogSteps(0, 1.309)
	require.NoError(t, err)
	require.Equal(t, 0, got)

	got, err = DogSteps(5000, 0)
	require.NoError(t, err)
	require.Equal(t, 0, got)
}
