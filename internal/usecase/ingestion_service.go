package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/fixture"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/scoring"
	"github.com/riskibarqy/prediction-league/internal/domain/team"
	"github.com/riskibarqy/prediction-league/internal/domain/userstats"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

type ImportTeamInput struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

type ImportFixtureInput struct {
	Gameweek  int       `json:"gameweek"`
	HomeTeam  string    `json:"homeTeam"`
	AwayTeam  string    `json:"awayTeam"`
	KickoffAt time.Time `json:"kickoffTime"`
}

// ImportPredictionInput keeps scores as stored text; they are validated only
// when the fixture is scored.
type ImportPredictionInput struct {
	UserID      string           `json:"userId"`
	DisplayName string           `json:"displayName"`
	FixtureID   string           `json:"fixtureId"`
	HomeScore   scoring.RawGoals `json:"homeScore"`
	AwayScore   scoring.RawGoals `json:"awayScore"`
}

type ImportResult struct {
	Kind     string
	Received int
	Imported int
	Rejected int
	Errors   []string
}

func (r *ImportResult) reject(format string, args ...any) {
	r.Rejected++
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// IngestionService loads teams, fixtures and predictions from bulk payloads.
type IngestionService struct {
	teamRepo       team.Repository
	fixtureRepo    fixture.Repository
	predictionRepo prediction.Repository
	userRepo       userstats.Repository
	logger         *logging.Logger
	now            func() time.Time
}

func NewIngestionService(
	teamRepo team.Repository,
	fixtureRepo fixture.Repository,
	predictionRepo prediction.Repository,
	userRepo userstats.Repository,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &IngestionService{
		teamRepo:       teamRepo,
		fixtureRepo:    fixtureRepo,
		predictionRepo: predictionRepo,
		userRepo:       userRepo,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *IngestionService) ImportTeams(ctx context.Context, items []ImportTeamInput) (ImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.ImportTeams")
	defer span.End()

	result := ImportResult{Kind: "teams", Received: len(items)}
	teams := make([]team.Team, 0, len(items))
	for i, item := range items {
		t := team.Team{
			Code:      team.NormalizeCode(item.Code),
			Name:      strings.TrimSpace(item.Name),
			ShortName: strings.TrimSpace(item.ShortName),
		}
		if err := t.Validate(); err != nil {
			result.reject("team[%d]: %v", i, err)
			continue
		}
		teams = append(teams, t)
	}

	if len(teams) > 0 {
		if err := s.teamRepo.Upsert(ctx, teams); err != nil {
			return result, fmt.Errorf("upsert teams: %w", err)
		}
	}
	result.Imported = len(teams)

	s.logger.InfoContext(ctx, "teams imported", "received", result.Received, "imported", result.Imported, "rejected", result.Rejected)
	return result, nil
}

// ImportFixtures derives ids and deadlines. Existing fixtures keep their
// status and score; finished fixtures are left untouched by the store.
func (s *IngestionService) ImportFixtures(ctx context.Context, items []ImportFixtureInput) (ImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.ImportFixtures")
	defer span.End()

	result := ImportResult{Kind: "fixtures", Received: len(items)}

	knownTeams, err := s.teamRepo.List(ctx)
	if err != nil {
		return result, fmt.Errorf("list teams: %w", err)
	}
	teamSet := make(map[string]struct{}, len(knownTeams))
	for _, t := range knownTeams {
		teamSet[team.NormalizeCode(t.Code)] = struct{}{}
	}

	now := s.now().UTC()
	fixtures := make([]fixture.Fixture, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		home := team.NormalizeCode(item.HomeTeam)
		away := team.NormalizeCode(item.AwayTeam)
		if item.KickoffAt.IsZero() {
			result.reject("fixture[%d]: kickoff time is required", i)
			continue
		}
		if len(teamSet) > 0 {
			if _, ok := teamSet[home]; !ok {
				result.reject("fixture[%d]: unknown home team %q", i, home)
				continue
			}
			if _, ok := teamSet[away]; !ok {
				result.reject("fixture[%d]: unknown away team %q", i, away)
				continue
			}
		}

		f := fixture.Fixture{
			ID:                 fixture.BuildID(item.Gameweek, home, away),
			Gameweek:           item.Gameweek,
			HomeTeam:           home,
			AwayTeam:           away,
			KickoffAt:          item.KickoffAt.UTC(),
			PredictionDeadline: fixture.DeadlineFor(item.KickoffAt.UTC()),
			Status:             fixture.StatusUpcoming,
			UpdatedAt:          now,
		}
		if err := f.Validate(); err != nil {
			result.reject("fixture[%d]: %v", i, err)
			continue
		}
		if _, dup := seen[f.ID]; dup {
			result.reject("fixture[%d]: duplicate id %s", i, f.ID)
			continue
		}
		seen[f.ID] = struct{}{}
		fixtures = append(fixtures, f)
	}

	if len(fixtures) > 0 {
		if err := s.fixtureRepo.Upsert(ctx, fixtures); err != nil {
			return result, fmt.Errorf("upsert fixtures: %w", err)
		}
	}
	result.Imported = len(fixtures)

	s.logger.InfoContext(ctx, "fixtures imported", "received", result.Received, "imported", result.Imported, "rejected", result.Rejected)
	return result, nil
}

func (s *IngestionService) ImportPredictions(ctx context.Context, items []ImportPredictionInput) (ImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.ImportPredictions")
	defer span.End()

	result := ImportResult{Kind: "predictions", Received: len(items)}
	fixtures := make(map[string]fixture.Fixture)
	profiles := make(map[string]struct{})
	now := s.now().UTC()

	for i, item := range items {
		userID := strings.TrimSpace(item.UserID)
		fixtureID := strings.TrimSpace(item.FixtureID)
		if userID == "" || fixtureID == "" {
			result.reject("prediction[%d]: user id and fixture id are required", i)
			continue
		}

		f, ok := fixtures[fixtureID]
		if !ok {
			found, exists, err := s.fixtureRepo.GetByID(ctx, fixtureID)
			if err != nil {
				return result, fmt.Errorf("get fixture=%s: %w", fixtureID, err)
			}
			if !exists {
				result.reject("prediction[%d]: unknown fixture %s", i, fixtureID)
				continue
			}
			f = found
			fixtures[fixtureID] = f
		}

		if name := strings.TrimSpace(item.DisplayName); name != "" {
			if _, done := profiles[userID]; !done {
				if _, err := s.userRepo.UpsertProfile(ctx, userID, name); err != nil {
					return result, fmt.Errorf("upsert profile user=%s: %w", userID, err)
				}
				profiles[userID] = struct{}{}
			}
		}

		p := prediction.Prediction{
			ID:          prediction.BuildID(userID, f.ID, f.Gameweek),
			UserID:      userID,
			FixtureID:   f.ID,
			Gameweek:    f.Gameweek,
			HomeScore:   item.HomeScore,
			AwayScore:   item.AwayScore,
			IsSubmitted: true,
			SubmittedAt: now,
			UpdatedAt:   now,
		}
		if err := s.predictionRepo.Upsert(ctx, p); err != nil {
			if errors.Is(err, prediction.ErrAlreadyScored) {
				result.reject("prediction[%d]: %s is already scored", i, p.ID)
				continue
			}
			return result, fmt.Errorf("upsert prediction=%s: %w", p.ID, err)
		}
		result.Imported++
	}

	s.logger.InfoContext(ctx, "predictions imported", "received", result.Received, "imported", result.Imported, "rejected", result.Rejected)
	return result, nil
}
