package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/fixture"
	"github.com/riskibarqy/prediction-league/internal/domain/team"
)

const (
	defaultUpcomingLimit = 10
	maxUpcomingLimit     = 50
)

type FixtureService struct {
	fixtureRepo fixture.Repository
	teamRepo    team.Repository
	now         func() time.Time
}

func NewFixtureService(fixtureRepo fixture.Repository, teamRepo team.Repository) *FixtureService {
	return &FixtureService{
		fixtureRepo: fixtureRepo,
		teamRepo:    teamRepo,
		now:         time.Now,
	}
}

func (s *FixtureService) GetByID(ctx context.Context, fixtureID string) (fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.GetByID")
	defer span.End()

	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}

	item, exists, err := s.fixtureRepo.GetByID(ctx, fixtureID)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("get fixture: %w", err)
	}
	if !exists {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture=%s", ErrNotFound, fixtureID)
	}

	return item, nil
}

func (s *FixtureService) ListByGameweek(ctx context.Context, gameweek int) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListByGameweek")
	defer span.End()

	if gameweek <= 0 {
		return nil, fmt.Errorf("%w: gameweek must be > 0", ErrInvalidInput)
	}

	items, err := s.fixtureRepo.ListByGameweek(ctx, gameweek)
	if err != nil {
		return nil, fmt.Errorf("list fixtures by gameweek: %w", err)
	}

	return items, nil
}

func (s *FixtureService) ListUpcoming(ctx context.Context, limit int) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListUpcoming")
	defer span.End()

	items, err := s.fixtureRepo.ListUpcoming(ctx, s.now().UTC(), clampLimit(limit, defaultUpcomingLimit, maxUpcomingLimit))
	if err != nil {
		return nil, fmt.Errorf("list upcoming fixtures: %w", err)
	}

	return items, nil
}

func (s *FixtureService) ListTeams(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListTeams")
	defer span.End()

	items, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	return items, nil
}

func clampLimit(limit, fallback, upper int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > upper {
		return upper
	}
	return limit
}
