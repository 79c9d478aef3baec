package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/fixture"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/userstats"
	"github.com/sourcegraph/conc/pool"
)

const dashboardUpcomingLimit = 10

type Dashboard struct {
	UserID              string
	DisplayName         string
	Stats               userstats.Stats
	Rank                int
	NextGameweek        int
	UpcomingFixtures    []fixture.Fixture
	GameweekPredictions []prediction.Prediction
}

type DashboardService struct {
	userRepo       userstats.Repository
	fixtureRepo    fixture.Repository
	predictionRepo prediction.Repository
	now            func() time.Time
}

func NewDashboardService(
	userRepo userstats.Repository,
	fixtureRepo fixture.Repository,
	predictionRepo prediction.Repository,
) *DashboardService {
	return &DashboardService{
		userRepo:       userRepo,
		fixtureRepo:    fixtureRepo,
		predictionRepo: predictionRepo,
		now:            time.Now,
	}
}

// Get builds the user's dashboard. A user without a profile yet gets zero
// stats and no rank.
func (s *DashboardService) Get(ctx context.Context, userID string) (Dashboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.Get")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Dashboard{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	out := Dashboard{UserID: userID}
	var profileExists bool

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		profile, exists, err := s.userRepo.GetByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("get user profile: %w", err)
		}
		profileExists = exists
		out.DisplayName = profile.DisplayName
		out.Stats = profile.Stats
		return nil
	})
	p.Go(func(ctx context.Context) error {
		upcoming, err := s.fixtureRepo.ListUpcoming(ctx, s.now().UTC(), dashboardUpcomingLimit)
		if err != nil {
			return fmt.Errorf("list upcoming fixtures: %w", err)
		}
		out.UpcomingFixtures = upcoming
		return nil
	})
	if err := p.Wait(); err != nil {
		return Dashboard{}, err
	}

	if len(out.UpcomingFixtures) > 0 {
		out.NextGameweek = out.UpcomingFixtures[0].Gameweek
	}

	p = pool.New().WithErrors().WithContext(ctx)
	if profileExists {
		p.Go(func(ctx context.Context) error {
			rank, err := s.userRepo.RankOf(ctx, out.Stats.TotalPoints)
			if err != nil {
				return fmt.Errorf("rank user: %w", err)
			}
			out.Rank = rank
			return nil
		})
	}
	if out.NextGameweek > 0 {
		p.Go(func(ctx context.Context) error {
			items, err := s.predictionRepo.ListByUser(ctx, userID, out.NextGameweek)
			if err != nil {
				return fmt.Errorf("list gameweek predictions: %w", err)
			}
			out.GameweekPredictions = items
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return Dashboard{}, err
	}

	return out, nil
}
