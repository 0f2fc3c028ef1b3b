// Package events defines the event payloads published by the outbox.
package events

import "time"

// WalkRecorded is emitted when a new walk session is accepted.
type WalkRecorded struct {
	WalkID            string    `json:"walk_id"`
	UserID            string    `json:"user_id"`
	StartedAt         time.Time `json:"started_at"`
	HumanSteps        int       `json:"human_steps"`
	EstimatedDogSteps int       `json:"estimated_dog_steps"`
	DistanceMeters    float64   `json:"distance_m"`
	Source            string    `json:"source"`
}

// DayActivityUpdated carries the recomputed day totals after each walk so
// downstream consumers (widgets, notifications) refresh without polling.
type DayActivityUpdated struct {
	UserID            string    `json:"user_id"`
	Date              string    `json:"date"`
	HumanSteps        int       `json:"human_steps"`
	EstimatedDogSteps int       `json:"estimated_dog_steps"`
	DistanceMeters    float64   `json:"distance_m"`
	BreedName         string    `json:"breed_name"`
	GoalSteps         int       `json:"goal_steps"`
	ActivityLevel     string    `json:"activity_level"`
	OccurredAt        time.Time `json:"occurred_at"`
}
