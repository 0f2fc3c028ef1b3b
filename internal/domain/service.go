// Package domain defines the business logic for the dogsteps service.
package domain

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/b1ms/Doggysteps-sub001/internal/activity"
	"github.com/b1ms/Doggysteps-sub001/internal/breed"
	"github.com/b1ms/Doggysteps-sub001/internal/cache"
	"github.com/b1ms/Doggysteps-sub001/internal/estimate"
	"github.com/b1ms/Doggysteps-sub001/internal/goal"
	"github.com/b1ms/Doggysteps-sub001/internal/observability"
)

var (
	// ErrWalkNotFound is returned when a walk session cannot be located.
	ErrWalkNotFound = errors.New("walk session not found")
	// ErrProfileNotFound is returned when the user has no dog profile yet.
	ErrProfileNotFound = errors.New("dog profile not found")
	// ErrInvalidWalk indicates the walk payload failed boundary validation.
	ErrInvalidWalk = errors.New("invalid walk session")
	// ErrInvalidProfile indicates the profile payload failed validation.
	ErrInvalidProfile = errors.New("invalid dog profile")
)

// futureSkew is how far a walk start may sit ahead of the server clock
// before it is rejected as malformed.
const futureSkew = 5 * time.Minute

// Cursor models the pagination token for walk listings.
type Cursor struct {
	StartedAt time.Time
	ID        string
}

// WalkRepository captures persistence operations for walk sessions.
type WalkRepository interface {
	FindByIdempotency(ctx context.Context, userID, idempotencyKey string) (*activity.WalkSession, error)
	// Create persists the session, prunes sessions older than the retention
	// window, and records outbox events in a single transaction.
	Create(ctx context.Context, session activity.WalkSession, idempotencyKey string, day activity.DayRecord) error
	Get(ctx context.Context, userID, walkID string) (*activity.WalkSession, error)
	ListByUser(ctx context.Context, userID string, cursor *Cursor, limit int) ([]activity.WalkSession, *Cursor, error)
	ListWindow(ctx context.Context, userID string, from, to time.Time) ([]activity.WalkSession, error)
	DeleteByUser(ctx context.Context, userID string) error
}

// ProfileRepository captures persistence operations for dog profiles.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*DogProfile, error)
	Upsert(ctx context.Context, profile DogProfile) error
	Delete(ctx context.Context, userID string) error
}

// Service orchestrates walk recording, activity aggregation, and profile
// management around the pure estimation core.
type Service struct {
	walks    WalkRepository
	profiles ProfileRepository
	catalog  *breed.Catalog
	days     cache.DayRecords
	logger   *log.Logger
	now      func() time.Time
}

// Option configures optional Service behaviour.
type Option func(*Service)

// WithLogger overrides the logger used for soft warnings.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithDayCache attaches a cache for computed day records.
func WithDayCache(days cache.DayRecords) Option {
	return func(s *Service) { s.days = days }
}

// NewService constructs a Service.
func NewService(walks WalkRepository, profiles ProfileRepository, catalog *breed.Catalog, opts ...Option) *Service {
	s := &Service{
		walks:    walks,
		profiles: profiles,
		catalog:  catalog,
		days:     cache.Noop{},
		logger:   log.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordWalkInput captures a completed walk reported by the sensor
// collaborator on the device.
type RecordWalkInput struct {
	UserID         string
	StartedAt      time.Time
	HumanSteps     int
	DistanceMeters float64
	Source         string
	IdempotencyKey string
}

// RecordWalk estimates dog steps for a completed walk and persists the
// session plus its outbox events. The bool result reports an idempotent
// replay of an earlier submission.
func (s *Service) RecordWalk(ctx context.Context, input RecordWalkInput) (*activity.WalkSession, bool, error) {
	if err := s.validateWalk(input); err != nil {
		return nil, false, err
	}

	if existing, err := s.walks.FindByIdempotency(ctx, input.UserID, input.IdempotencyKey); err == nil && existing != nil {
		return existing, true, nil
	}

	profile, err := s.profiles.Get(ctx, input.UserID)
	if err != nil {
		return nil, false, err
	}
	if profile == nil {
		return nil, false, ErrProfileNotFound
	}

	ref := s.reference(*profile)

	dogSteps, err := estimate.DogSteps(input.HumanSteps, ref.Multiplier)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidWalk, err)
	}

	now := s.now().UTC()
	session := activity.WalkSession{
		ID:                uuid.NewString(),
		UserID:            input.UserID,
		StartedAt:         input.StartedAt.UTC(),
		HumanSteps:        input.HumanSteps,
		EstimatedDogSteps: dogSteps,
		DistanceMeters:    input.DistanceMeters,
		Source:            input.Source,
		CreatedAt:         now,
	}

	day, err := s.dayAfterWalk(ctx, session, ref)
	if err != nil {
		return nil, false, err
	}

	if err := s.walks.Create(ctx, session, input.IdempotencyKey, day); err != nil {
		return nil, false, err
	}
	observability.RecordStepsEstimated(input.HumanSteps, dogSteps)

	if err := s.days.Invalidate(ctx, session.UserID, session.StartedAt); err != nil {
		s.logger.Printf("day cache invalidation failed (user=%s): %v", session.UserID, err)
	}

	return &session, false, nil
}

// dayAfterWalk recomputes the day record the new session belongs to,
// including the not-yet-persisted session, for the day-updated event.
func (s *Service) dayAfterWalk(ctx context.Context, session activity.WalkSession, ref activity.Reference) (activity.DayRecord, error) {
	existing, err := s.walks.ListWindow(ctx, session.UserID, startOfDay(session.StartedAt), startOfDay(session.StartedAt).AddDate(0, 0, 1))
	if err != nil {
		return activity.DayRecord{}, err
	}
	record := activity.RecordForDay(append(existing, session), session.StartedAt, ref)
	if record == nil {
		// The new session always falls on its own start day.
		return activity.DayRecord{}, fmt.Errorf("day record missing for session %s", session.ID)
	}
	return *record, nil
}

// GetWalk fetches a walk session by ID.
func (s *Service) GetWalk(ctx context.Context, userID, walkID string) (*activity.WalkSession, error) {
	session, err := s.walks.Get(ctx, userID, walkID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrWalkNotFound
	}
	return session, nil
}

// ListWalks fetches walk sessions with cursor pagination, newest first.
func (s *Service) ListWalks(ctx context.Context, userID string, cursor *Cursor, limit int) ([]activity.WalkSession, *Cursor, error) {
	return s.walks.ListByUser(ctx, userID, cursor, limit)
}

// DailyActivity returns the aggregated record for one calendar day, or nil
// when no walk was tracked that day. Absence is not an error and not a
// zero-valued record.
func (s *Service) DailyActivity(ctx context.Context, userID string, day time.Time) (*activity.DayRecord, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	if cached, err := s.days.Get(ctx, userID, day); err == nil && cached != nil {
		return cached, nil
	} else if err != nil && !errors.Is(err, cache.ErrMiss) {
		s.logger.Printf("day cache read failed (user=%s): %v", userID, err)
	}

	sessions, err := s.walks.ListWindow(ctx, userID, startOfDay(day), startOfDay(day).AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	record := activity.RecordForDay(sessions, day, s.reference(*profile))
	if record == nil {
		return nil, nil
	}

	if err := s.days.Set(ctx, userID, day, *record); err != nil {
		s.logger.Printf("day cache write failed (user=%s): %v", userID, err)
	}
	return record, nil
}

// WeeklyActivity returns day records for the 7 days ending today, most
// recent first, along with the activity trend label.
func (s *Service) WeeklyActivity(ctx context.Context, userID string, today time.Time) ([]activity.DayRecord, string, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if profile == nil {
		return nil, "", ErrProfileNotFound
	}

	from := startOfDay(today).AddDate(0, 0, -6)
	to := startOfDay(today).AddDate(0, 0, 1)
	sessions, err := s.walks.ListWindow(ctx, userID, from, to)
	if err != nil {
		return nil, "", err
	}

	records := activity.Week(sessions, today, s.reference(*profile))
	return records, activity.Trend(records), nil
}

// GetProfile returns the user's dog profile.
func (s *Service) GetProfile(ctx context.Context, userID string) (*DogProfile, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// UpsertProfile creates or replaces the user's dog profile. A breed name the
// catalog does not know is allowed; estimation falls back to the default
// breed entry.
func (s *Service) UpsertProfile(ctx context.Context, profile DogProfile) (*DogProfile, error) {
	if strings.TrimSpace(profile.UserID) == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidProfile)
	}
	if strings.TrimSpace(profile.DogName) == "" {
		return nil, fmt.Errorf("%w: dog name is required", ErrInvalidProfile)
	}
	if strings.TrimSpace(profile.BreedName) == "" {
		return nil, fmt.Errorf("%w: breed name is required", ErrInvalidProfile)
	}
	if !validGender(profile.Gender) {
		return nil, fmt.Errorf("%w: unknown gender %q", ErrInvalidProfile, profile.Gender)
	}
	if !validBodyCondition(profile.BodyCondition) {
		return nil, fmt.Errorf("%w: unknown body condition %q", ErrInvalidProfile, profile.BodyCondition)
	}
	if profile.AgeYears != nil && *profile.AgeYears < 0 {
		return nil, fmt.Errorf("%w: age must be non-negative", ErrInvalidProfile)
	}

	if _, ok := s.catalog.FindByName(profile.BreedName); !ok {
		s.logger.Printf("profile breed %q not in catalog, estimates will use %q", profile.BreedName, breed.DefaultBreedName)
	}

	now := s.now().UTC()
	existing, err := s.profiles.Get(ctx, profile.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		profile.CreatedAt = existing.CreatedAt
	} else {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// DeleteProfile resets the installation: the profile and all its walk
// sessions are removed.
func (s *Service) DeleteProfile(ctx context.Context, userID string) error {
	existing, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrProfileNotFound
	}
	if err := s.walks.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	return s.profiles.Delete(ctx, userID)
}

// reference resolves the profile into the breed-derived values every day
// record carries. A breed name the catalog does not know degrades to the
// default entry with a soft warning.
func (s *Service) reference(profile DogProfile) activity.Reference {
	entry, ok := s.catalog.FindByName(profile.BreedName)
	if !ok {
		s.logger.Printf("breed %q not in catalog, using %q (user=%s)", profile.BreedName, breed.DefaultBreedName, profile.UserID)
		observability.RecordBreedFallback()
		entry = s.catalog.Default()
	}

	base := goal.BaseForBreed(profile.BreedName)

	var multiplier float64
	goalSteps := base
	if profile.AgeYears != nil {
		multiplier = breed.Multiplier(entry, *profile.AgeYears)
		goalSteps = goal.ForAge(base, *profile.AgeYears)
	} else {
		multiplier = breed.AdultMultiplier(entry)
	}

	return activity.Reference{
		// Records carry the profile's breed name even when estimation fell
		// back to the default entry.
		BreedName:  profile.BreedName,
		Multiplier: multiplier,
		GoalSteps:  goalSteps,
	}
}

func (s *Service) validateWalk(input RecordWalkInput) error {
	if strings.TrimSpace(input.UserID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidWalk)
	}
	if input.HumanSteps < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidWalk, estimate.ErrNegativeSteps)
	}
	if input.DistanceMeters < 0 {
		return fmt.Errorf("%w: distance must be non-negative", ErrInvalidWalk)
	}
	if input.StartedAt.IsZero() {
		return fmt.Errorf("%w: started_at is required", ErrInvalidWalk)
	}
	if input.StartedAt.After(s.now().Add(futureSkew)) {
		return fmt.Errorf("%w: started_at is in the future", ErrInvalidWalk)
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
