// Package postgres provides pgx-backed persistence for walk sessions, dog
// profiles, and outbox events.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/b1ms/Doggysteps-sub001/internal/activity"
	"github.com/b1ms/Doggysteps-sub001/internal/domain"
	"github.com/b1ms/Doggysteps-sub001/internal/events"
	"github.com/b1ms/Doggysteps-sub001/internal/observability"
)

// Repository provides Postgres-backed persistence. All statements run inside
// a transaction scoped to the requesting user via row-level security.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const walkColumns = `walk_id, user_id, started_at, human_steps, estimated_dog_steps, distance_m, source, created_at`

// FindByIdempotency checks if a walk already exists for the supplied
// idempotency key.
func (r *Repository) FindByIdempotency(ctx context.Context, userID, idempotencyKey string) (*activity.WalkSession, error) {
	if idempotencyKey == "" {
		return nil, nil
	}

	query := `SELECT ` + walkColumns + ` FROM walk_sessions WHERE user_id=$1 AND idempotency_key=$2`

	var session activity.WalkSession
	err := withUserTx(ctx, r.pool, userID, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, query, userID, idempotencyKey)
		return scanWalk(row, &session)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Create persists the session, prunes sessions past the retention window,
// and records outbox events inside a single transaction.
func (r *Repository) Create(ctx context.Context, session activity.WalkSession, idempotencyKey string, day activity.DayRecord) error {
	err := withUserTx(ctx, r.pool, session.UserID, func(tx pgx.Tx) error {
		// Pruning precedes the insert so a freshly saved set never carries
		// sessions outside the rolling window.
		cutoff := session.CreatedAt.AddDate(0, 0, -activity.RetentionDays)
		if _, err := tx.Exec(ctx, `DELETE FROM walk_sessions WHERE user_id=$1 AND started_at < $2`, session.UserID, cutoff); err != nil {
			return err
		}

		const insertWalk = `INSERT INTO walk_sessions (walk_id, user_id, started_at, human_steps, estimated_dog_steps, distance_m, source, idempotency_key, created_at)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

		if _, err := tx.Exec(ctx, insertWalk,
			session.ID,
			session.UserID,
			session.StartedAt,
			session.HumanSteps,
			session.EstimatedDogSteps,
			session.DistanceMeters,
			session.Source,
			nullIfEmpty(idempotencyKey),
			session.CreatedAt,
		); err != nil {
			return err
		}

		if err := insertOutbox(ctx, tx, session, "walk.recorded", events.WalkRecorded{
			WalkID:            session.ID,
			UserID:            session.UserID,
			StartedAt:         session.StartedAt,
			HumanSteps:        session.HumanSteps,
			EstimatedDogSteps: session.EstimatedDogSteps,
			DistanceMeters:    session.DistanceMeters,
			Source:            session.Source,
		}); err != nil {
			return err
		}

		return insertOutbox(ctx, tx, session, "activity.day_updated", events.DayActivityUpdated{
			UserID:            session.UserID,
			Date:              day.Date.Format("2006-01-02"),
			HumanSteps:        day.HumanSteps,
			EstimatedDogSteps: day.EstimatedDogSteps,
			DistanceMeters:    day.DistanceMeters,
			BreedName:         day.BreedName,
			GoalSteps:         day.GoalSteps,
			ActivityLevel:     day.ActivityLevel,
			OccurredAt:        session.CreatedAt,
		})
	})
	if err != nil {
		return err
	}

	observability.RecordWalkPersisted(session.CreatedAt)
	return nil
}

// Get retrieves a walk session by ID.
func (r *Repository) Get(ctx context.Context, userID, walkID string) (*activity.WalkSession, error) {
	query := `SELECT ` + walkColumns + ` FROM walk_sessions WHERE user_id=$1 AND walk_id=$2`

	var session activity.WalkSession
	err := withUserTx(ctx, r.pool, userID, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, query, userID, walkID)
		return scanWalk(row, &session)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListByUser returns walk sessions ordered newest first with cursor
// pagination.
func (r *Repository) ListByUser(ctx context.Context, userID string, cursor *domain.Cursor, limit int) ([]activity.WalkSession, *domain.Cursor, error) {
	args := []interface{}{userID, limit}
	query := `SELECT ` + walkColumns + ` FROM walk_sessions WHERE user_id=$1`

	if cursor != nil {
		query += ` AND (started_at, walk_id) < ($3, $4)`
		args = append(args, cursor.StartedAt, cursor.ID)
	}
	query += ` ORDER BY started_at DESC, walk_id DESC LIMIT $2`

	results := make([]activity.WalkSession, 0, limit)
	err := withUserTx(ctx, r.pool, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var session activity.WalkSession
			if err := scanWalk(rows, &session); err != nil {
				return err
			}
			results = append(results, session)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, nil, err
	}

	var next *domain.Cursor
	if len(results) == limit {
		last := results[len(results)-1]
		next = &domain.Cursor{StartedAt: last.StartedAt, ID: last.ID}
	}
	return results, next, nil
}

// ListWindow returns sessions with started_at in [from, to), oldest first.
func (r *Repository) ListWindow(ctx context.Context, userID string, from, to time.Time) ([]activity.WalkSession, error) {
	query := `SELECT ` + walkColumns + ` FROM walk_sessions
        WHERE user_id=$1 AND started_at >= $2 AND started_at < $3
        ORDER BY started_at ASC`

	results := make([]activity.WalkSession, 0)
	err := withUserTx(ctx, r.pool, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, userID, from, to)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var session activity.WalkSession
			if err := scanWalk(rows, &session); err != nil {
				return err
			}
			results = append(results, session)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// DeleteByUser removes all walk sessions for a user (profile reset).
func (r *Repository) DeleteByUser(ctx context.Context, userID string) error {
	return withUserTx(ctx, r.pool, userID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM walk_sessions WHERE user_id=$1`, userID)
		return err
	})
}

// ProfileRepository provides Postgres-backed persistence for dog profiles.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository constructs a ProfileRepository.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// Get returns the dog profile for a user, nil when absent.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*domain.DogProfile, error) {
	const query = `SELECT user_id, dog_name, breed_name, gender, body_condition, age_years, created_at, updated_at
        FROM dog_profiles WHERE user_id=$1`

	var profile domain.DogProfile
	err := withUserTx(ctx, r.pool, userID, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, query, userID)
		return row.Scan(&profile.UserID, &profile.DogName, &profile.BreedName, &profile.Gender, &profile.BodyCondition, &profile.AgeYears, &profile.CreatedAt, &profile.UpdatedAt)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert creates or replaces the single profile row for a user.
func (r *ProfileRepository) Upsert(ctx context.Context, profile domain.DogProfile) error {
	const stmt = `INSERT INTO dog_profiles (user_id, dog_name, breed_name, gender, body_condition, age_years, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (user_id) DO UPDATE SET
            dog_name = EXCLUDED.dog_name,
            breed_name = EXCLUDED.breed_name,
            gender = EXCLUDED.gender,
            body_condition = EXCLUDED.body_condition,
            age_years = EXCLUDED.age_years,
            updated_at = EXCLUDED.updated_at`

	return withUserTx(ctx, r.pool, profile.UserID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, stmt,
			profile.UserID,
			profile.DogName,
			profile.BreedName,
			profile.Gender,
			profile.BodyCondition,
			profile.AgeYears,
			profile.CreatedAt,
			profile.UpdatedAt,
		)
		return err
	})
}

// Delete removes the profile row for a user.
func (r *ProfileRepository) Delete(ctx context.Context, userID string) error {
	return withUserTx(ctx, r.pool, userID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM dog_profiles WHERE user_id=$1`, userID)
		return err
	})
}

// withUserTx runs fn inside a transaction with the user RLS setting applied.
func withUserTx(ctx context.Context, pool *pgxpool.Pool, userID string, fn func(tx pgx.Tx) error) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "SELECT set_config('app.user_id', $1, true)", userID); err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWalk(row rowScanner, session *activity.WalkSession) error {
	return row.Scan(
		&session.ID,
		&session.UserID,
		&session.StartedAt,
		&session.HumanSteps,
		&session.EstimatedDogSteps,
		&session.DistanceMeters,
		&session.Source,
		&session.CreatedAt,
	)
}

func insertOutbox(ctx context.Context, tx pgx.Tx, session activity.WalkSession, eventType string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	meta, ok := eventCatalog[eventType]
	if !ok {
		return fmt.Errorf("unknown event type: %s", eventType)
	}

	partitionKey := meta.PartitionKeyFn(session)

	const stmt = `INSERT INTO outbox (user_id, aggregate_type, aggregate_id, event_type, topic, schema_subject, partition_key, payload)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err = tx.Exec(ctx, stmt,
		session.UserID,
		"walk",
		session.ID,
		eventType,
		meta.Topic,
		meta.SchemaSubject,
		partitionKey,
		body,
	)
	return err
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

// EventMetadata describes how to route an outbox event.
type EventMetadata struct {
	Topic          string
	SchemaSubject  string
	PartitionKeyFn func(activity.WalkSession) string
}

var eventCatalog = map[string]EventMetadata{
	"walk.recorded": {
		Topic:         "walk_events",
		SchemaSubject: "walk_events-value",
		PartitionKeyFn: func(s activity.WalkSession) string {
			return s.UserID
		},
	},
	"activity.day_updated": {
		Topic:         "daily_activity",
		SchemaSubject: "daily_activity-value",
		PartitionKeyFn: func(s activity.WalkSession) string {
			return fmt.Sprintf("%s:%s", s.UserID, s.StartedAt.Format("2006-01-02"))
		},
	},
}
