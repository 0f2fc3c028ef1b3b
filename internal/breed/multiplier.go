package breed

// humanStrideCm is the average adult human stride length the model is
// calibrated against.
const humanStrideCm = 65.0

// dogStrideRatio converts average leg length to an effective stride length.
const dogStrideRatio = 1.6

// Multiplier derives the human-to-dog step conversion factor for a breed at
// a given age. The result is strictly positive for any entry that passes
// Validate and any age >= 0.
func Multiplier(entry Entry, ageYears int) float64 {
	dogStrideCm := entry.Physical.AverageLegLengthCm * dogStrideRatio
	base := humanStrideCm / dogStrideCm
	return base *
		energyFactor(entry.Movement.EnergyLevel) *
		bodyTypeFactor(entry.Physical.BodyType) *
		weightFactor(entry.Physical.AverageWeightKg) *
		ageFactor(entry.AgeFactors, ageYears)
}

// AdultMultiplier is the explicit "age unknown" path: it applies the adult
// age factor instead of assuming a hidden default age.
func AdultMultiplier(entry Entry) float64 {
	return Multiplier(entry, 3)
}

// energyFactor: higher energy implies longer strides relative to size, hence
// fewer dog steps per human step.
func energyFactor(level EnergyLevel) float64 {
	switch level {
	case EnergyLow:
		return 1.10
	case EnergyHigh:
		return 0.95
	case EnergyVeryHigh:
		return 0.90
	default:
		return 1.00
	}
}

func bodyTypeFactor(bodyType BodyType) float64 {
	switch bodyType {
	case BodyCompact:
		return 1.15
	case BodyElongated:
		return 0.90
	case BodyHeavy:
		return 1.05
	default:
		return 1.00
	}
}

func weightFactor(weightKg float64) float64 {
	switch {
	case weightKg < 5:
		return 1.20
	case weightKg < 15:
		return 1.10
	case weightKg < 30:
		return 1.00
	case weightKg < 50:
		return 0.95
	default:
		return 0.90
	}
}

// ageFactor buckets: 0-1 puppy, 2-7 adult, 8 and up senior. No upper bound
// check; age is validated upstream.
func ageFactor(factors AgeFactors, ageYears int) float64 {
	switch {
	case ageYears <= 1:
		return factors.Puppy
	case ageYears <= 7:
		return factors.Adult
	default:
		return factors.Senior
	}
}
