// Package activity owns walk session records and the pure aggregation that
// turns them into daily and weekly activity views.
package activity

import "time"

// RetentionDays is the rolling window walk sessions are kept for. Sessions
// older than this are dropped whenever the session set is persisted.
const RetentionDays = 30

// WalkSession is the immutable record of one completed walk. It is created
// when a walk ends and never mutated afterwards; these records are the sole
// source of truth for all step and distance figures.
type WalkSession struct {
	ID                string
	UserID            string
	StartedAt         time.Time
	HumanSteps        int
	EstimatedDogSteps int
	DistanceMeters    float64
	Source            string
	CreatedAt         time.Time
}

// Prune returns the sessions whose start time falls within the retention
// window ending at now. Input order is preserved.
func Prune(sessions []WalkSession, now time.Time) []WalkSession {
	cutoff := now.AddDate(0, 0, -RetentionDays)
	kept := make([]WalkSession, 0, len(sessions))
	for _, s := range sessions {
		if !s.StartedAt.Before(cutoff) {
			kept = append(kept, s)
		}
	}
	return kept
}
