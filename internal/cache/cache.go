// Package cache provides a short-lived cache for computed day records.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/b1ms/Doggysteps-sub001/internal/activity"
)

// ErrMiss reports an absent cache key.
var ErrMiss = errors.New("cache miss")

// DayRecords caches aggregated day records keyed by user and calendar day.
type DayRecords interface {
	Get(ctx context.Context, userID string, day time.Time) (*activity.DayRecord, error)
	Set(ctx context.Context, userID string, day time.Time, record activity.DayRecord) error
	Invalidate(ctx context.Context, userID string, day time.Time) error
}

// Noop is a no-op implementation for tests and cache-less deployments.
type Noop struct{}

// Get always misses.
func (Noop) Get(context.Context, string, time.Time) (*activity.DayRecord, error) {
	return nil, ErrMiss
}

// Set performs no action.
func (Noop) Set(context.Context, string, time.Time, activity.DayRecord) error { return nil }

// Invalidate performs no action.
func (Noop) Invalidate(context.Context, string, time.Time) error { return nil }
