//go:build integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/b1ms/Doggysteps-sub001/internal/activity"
)

func TestRepositoryRespectsUserIsolation(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("dogsteps"),
		postgrescontainer.WithUsername("platform"),
		postgrescontainer.WithPassword("platform"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))

	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	repo := NewRepository(pool)

	session := activity.WalkSession{
		ID:                uuid.NewString(),
		UserID:            uuid.NewString(),
		StartedAt:         time.Now().UTC().Add(-time.Hour),
		HumanSteps:        1000,
		EstimatedDogSteps: 1450,
		DistanceMeters:    650,
		Source:            "integration-test",
		CreatedAt:         time.Now().UTC(),
	}
	day := activity.DayRecord{
		Date:              session.StartedAt,
		HumanSteps:        session.HumanSteps,
		EstimatedDogSteps: session.EstimatedDogSteps,
		DistanceMeters:    session.DistanceMeters,
		BreedName:         "Mixed Breed",
		GoalSteps:         8000,
		ActivityLevel:     "Moderate",
	}

	err = repo.Create(ctx, session, "key-1", day)
	require.NoError(t, err)

	stored, err := repo.Get(ctx, session.UserID, session.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, session.ID, stored.ID)

	otherUser := uuid.NewString()
	storedOther, err := repo.Get(ctx, otherUser, session.ID)
	require.NoError(t, err)
	require.Nil(t, storedOther, "RLS should prevent cross-user access")

	replay, err := repo.FindByIdempotency(ctx, session.UserID, "key-1")
	require.NoError(t, err)
	require.NotNil(t, replay)
	require.Equal(t, session.ID, replay.ID)
}

func TestRepositoryPrunesRetentionWindowOnCreate(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("dogsteps"),
		postgrescontainer.WithUsername("platform"),
		postgrescontainer.WithPassword("platform"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))
	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	repo := NewRepository(pool)
	userID := uuid.NewString()
	now := time.Now().UTC()

	stale := activity.WalkSession{
		ID:                uuid.NewString(),
		UserID:            userID,
		StartedAt:         now.AddDate(0, 0, -(activity.RetentionDays + 5)),
		HumanSteps:        500,
		EstimatedDogSteps: 725,
		Source:            "integration-test",
		CreatedAt:         now.AddDate(0, 0, -(activity.RetentionDays + 5)),
	}
	require.NoError(t, repo.Create(ctx, stale, "", activity.DayRecord{Date: stale.StartedAt, BreedName: "Mixed Breed"}))

	fresh := stale
	fresh.ID = uuid.NewString()
	fresh.StartedAt = now.Add(-time.Hour)
	fresh.CreatedAt = now
	require.NoError(t, repo.Create(ctx, fresh, "", activity.DayRecord{Date: fresh.StartedAt, BreedName: "Mixed Breed"}))

	gone, err := repo.Get(ctx, userID, stale.ID)
	require.NoError(t, err)
	require.Nil(t, gone, "sessions past the retention window should be pruned on save")

	kept, err := repo.Get(ctx, userID, fresh.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)
}

func runMigrations(t *testing.T, ctx context.Context, connStr string) {
	files := []string{
		"../../../db/postgres/migrations/0001_init.up.sql",
		"../../../db/postgres/migrations/0002_outbox_dlq_retry.up.sql",
	}

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	for _, rel := range files {
		path := resolvePath(t, rel)
		contents, readErr := os.ReadFile(path)
		require.NoError(t, readErr)

		_, execErr := pool.Exec(ctx, string(contents))
		require.NoError(t, execErr)
	}
}

func resolvePath(t *testing.T, rel string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), rel)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
