package activity

import "time"

// Confidence and activity-level labels stamped on day records. Session-
// sourced data is always high confidence; there is no sensor-only fallback.
const (
	ConfidenceHigh = "High"

	LevelHigh     = "High"
	LevelModerate = "Moderate"
)

// Trend labels produced by Trend.
const (
	TrendUp        = "trending up"
	TrendDecreased = "decreased"
	TrendStable    = "stable"
)

// trendThresholdSteps is the mean dog-step difference that separates a real
// trend from day-to-day noise.
const trendThresholdSteps = 500

// trendSampleSize is how many records from each end of the window feed the
// trend means.
const trendSampleSize = 3

// trendWindow caps how many records the trend looks at.
const trendWindow = 7

// Reference carries the profile-derived values stamped onto each day record.
type Reference struct {
	BreedName  string
	Multiplier float64
	GoalSteps  int
}

// DayRecord is the derived daily activity view. It is never persisted, only
// recomputed from walk sessions on demand.
type DayRecord struct {
	Date              time.Time
	HumanSteps        int
	EstimatedDogSteps int
	DistanceMeters    float64
	BreedName         string
	BreedMultiplier   float64
	Confidence        string
	ActivityLevel     string
	GoalSteps         int
}

// RecordForDay folds the sessions whose start time falls on the same
// calendar day as day (in day's location) into a single record. A day with
// no sessions yields nil: absence, never a zero-valued record.
func RecordForDay(sessions []WalkSession, day time.Time, ref Reference) *DayRecord {
	record := DayRecord{
		Date:            startOfDay(day),
		BreedName:       ref.BreedName,
		BreedMultiplier: ref.Multiplier,
		GoalSteps:       ref.GoalSteps,
		Confidence:      ConfidenceHigh,
	}

	matched := false
	for _, s := range sessions {
		if !sameDay(s.StartedAt, day) {
			continue
		}
		matched = true
		record.HumanSteps += s.HumanSteps
		record.EstimatedDogSteps += s.EstimatedDogSteps
		record.DistanceMeters += s.DistanceMeters
	}
	if !matched {
		return nil
	}

	record.ActivityLevel = LevelModerate
	if record.EstimatedDogSteps >= ref.GoalSteps {
		record.ActivityLevel = LevelHigh
	}
	return &record
}

// Week computes the day records for the 7 days ending today, most recent
// first. Days without sessions are omitted.
func Week(sessions []WalkSession, today time.Time, ref Reference) []DayRecord {
	records := make([]DayRecord, 0, 7)
	for offset := 0; offset < 7; offset++ {
		day := today.AddDate(0, 0, -offset)
		if record := RecordForDay(sessions, day, ref); record != nil {
			records = append(records, *record)
		}
	}
	return records
}

// Trend classifies the direction of recent activity by comparing the mean
// dog steps of the 3 most recent records against the 3 oldest within a
// 7-record window. records must be ordered most recent first, as returned
// by Week. Fewer than 6 records cannot form two disjoint samples and report
// stable.
func Trend(records []DayRecord) string {
	window := records
	if len(window) > trendWindow {
		window = window[:trendWindow]
	}
	if len(window) < 2*trendSampleSize {
		return TrendStable
	}

	recent := meanDogSteps(window[:trendSampleSize])
	oldest := meanDogSteps(window[len(window)-trendSampleSize:])

	switch {
	case recent-oldest > trendThresholdSteps:
		return TrendUp
	case oldest-recent > trendThresholdSteps:
		return TrendDecreased
	default:
		return TrendStable
	}
}

func meanDogSteps(records []DayRecord) float64 {
	total := 0
	for _, r := range records {
		total += r.EstimatedDogSteps
	}
	return float64(total) / float64(len(records))
}

func sameDay(t, day time.Time) bool {
	loc := day.Location()
	y1, m1, d1 := t.In(loc).Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
