package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/b1ms/Doggysteps-sub001/internal/activity"
)

// RedisDayRecords stores serialized day records in Redis with a short TTL.
type RedisDayRecords struct {
	c   *redis.Client
	ttl time.Duration
}

// NewRedisDayRecords constructs a cache backed by the provided client.
func NewRedisDayRecords(c *redis.Client, ttl time.Duration) *RedisDayRecords {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisDayRecords{c: c, ttl: ttl}
}

// Get implements DayRecords.
func (r *RedisDayRecords) Get(ctx context.Context, userID string, day time.Time) (*activity.DayRecord, error) {
	val, err := r.c.Get(ctx, dayKey(userID, day)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrMiss
		}
		return nil, err
	}

	var record activity.DayRecord
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		// A corrupt entry behaves like a miss; the caller recomputes.
		return nil, ErrMiss
	}
	return &record, nil
}

// Set implements DayRecords.
func (r *RedisDayRecords) Set(ctx context.Context, userID string, day time.Time, record activity.DayRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return r.c.Set(ctx, dayKey(userID, day), string(raw), r.ttl).Err()
}

// Invalidate implements DayRecords.
func (r *RedisDayRecords) Invalidate(ctx context.Context, userID string, day time.Time) error {
	return r.c.Del(ctx, dayKey(userID, day)).Err()
}

func dayKey(userID string, day time.Time) string {
	return fmt.Sprintf("day:%s:%s", userID, day.Format("2006-01-02"))
}
