package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/fixture"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

// FixtureChangePublisher hands a fixture change to the change feed.
type FixtureChangePublisher interface {
	PublishFixtureChange(ctx context.Context, change fixture.Change) error
}

type RecordResultInput struct {
	FixtureID string
	HomeScore int
	AwayScore int
}

type UpdateScheduleInput struct {
	FixtureID    string
	NewKickoffAt time.Time
}

// ResultService owns the admin writes that can move a fixture's status or
// schedule.
type ResultService struct {
	fixtureRepo fixture.Repository
	publisher   FixtureChangePublisher
	logger      *logging.Logger
	now         func() time.Time
}

func NewResultService(fixtureRepo fixture.Repository, publisher FixtureChangePublisher, logger *logging.Logger) *ResultService {
	if logger == nil {
		logger = logging.Default()
	}
	if publisher == nil {
		publisher = NopFixtureChangePublisher{}
	}

	return &ResultService{
		fixtureRepo: fixtureRepo,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// RecordResult writes status and both scores in one update. Saving the same
// score on a finished fixture is accepted; a different one is a conflict.
func (s *ResultService) RecordResult(ctx context.Context, input RecordResultInput) (fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.RecordResult")
	defer span.End()

	fixtureID := strings.TrimSpace(input.FixtureID)
	if fixtureID == "" {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}
	if input.HomeScore < 0 || input.AwayScore < 0 {
		return fixture.Fixture{}, fmt.Errorf("%w: scores must be >= 0", ErrInvalidInput)
	}

	change, err := s.fixtureRepo.UpdateResult(ctx, fixtureID, input.HomeScore, input.AwayScore, s.now().UTC())
	if err != nil {
		return fixture.Fixture{}, mapFixtureWriteError(fixtureID, "record result", err)
	}

	if err := s.publish(ctx, change); err != nil {
		return change.After, err
	}

	return change.After, nil
}

// UpdateSchedule moves kickoff and deadline and appends the replaced values to
// the fixture's schedule history. Finished fixtures are refused.
func (s *ResultService) UpdateSchedule(ctx context.Context, input UpdateScheduleInput) (fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultService.UpdateSchedule")
	defer span.End()

	fixtureID := strings.TrimSpace(input.FixtureID)
	if fixtureID == "" {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}
	if input.NewKickoffAt.IsZero() {
		return fixture.Fixture{}, fmt.Errorf("%w: new kickoff time is required", ErrInvalidInput)
	}

	change, err := s.fixtureRepo.UpdateSchedule(ctx, fixtureID, input.NewKickoffAt.UTC(), s.now().UTC())
	if err != nil {
		return fixture.Fixture{}, mapFixtureWriteError(fixtureID, "update schedule", err)
	}

	if err := s.publish(ctx, change); err != nil {
		return change.After, err
	}

	return change.After, nil
}

func (s *ResultService) publish(ctx context.Context, change fixture.Change) error {
	if err := s.publisher.PublishFixtureChange(ctx, change); err != nil {
		s.logger.ErrorContext(ctx, "publish fixture change failed",
			"fixture_id", change.After.ID,
			"status", change.After.Status,
			"error", err,
		)
		return fmt.Errorf("%w: fixture %s saved but change was not published, run a scoring rerun: %v", ErrDependencyUnavailable, change.After.ID, err)
	}
	return nil
}

func mapFixtureWriteError(fixtureID, op string, err error) error {
	switch {
	case errors.Is(err, fixture.ErrNotFound):
		return fmt.Errorf("%w: fixture=%s", ErrNotFound, fixtureID)
	case errors.Is(err, fixture.ErrAlreadyFinished):
		return fmt.Errorf("%w: fixture=%s is already finished", ErrConflict, fixtureID)
	case errors.Is(err, fixture.ErrInvalidFixture):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		return fmt.Errorf("%s for fixture=%s: %w", op, fixtureID, err)
	}
}

// NopFixtureChangePublisher is used when the database itself emits changes.
type NopFixtureChangePublisher struct{}

func (NopFixtureChangePublisher) PublishFixtureChange(context.Context, fixture.Change) error {
	return nil
}
