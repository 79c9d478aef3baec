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
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

type SubmitPredictionInput struct {
	UserID    string
	FixtureID string
	HomeScore int
	AwayScore int
}

type PredictionService struct {
	fixtureRepo    fixture.Repository
	predictionRepo prediction.Repository
	logger         *logging.Logger
	now            func() time.Time
}

func NewPredictionService(
	fixtureRepo fixture.Repository,
	predictionRepo prediction.Repository,
	logger *logging.Logger,
) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PredictionService{
		fixtureRepo:    fixtureRepo,
		predictionRepo: predictionRepo,
		logger:         logger,
		now:            time.Now,
	}
}

// Submit creates or replaces the user's prediction for an upcoming fixture
// whose deadline has not passed.
func (s *PredictionService) Submit(ctx context.Context, input SubmitPredictionInput) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Submit")
	defer span.End()

	userID := strings.TrimSpace(input.UserID)
	fixtureID := strings.TrimSpace(input.FixtureID)
	if userID == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if fixtureID == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}
	if !validSubmittedGoals(input.HomeScore) || !validSubmittedGoals(input.AwayScore) {
		return prediction.Prediction{}, fmt.Errorf("%w: scores must be between 0 and %d", ErrInvalidInput, prediction.MaxSubmittedGoals)
	}

	item, exists, err := s.fixtureRepo.GetByID(ctx, fixtureID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get fixture: %w", err)
	}
	if !exists {
		return prediction.Prediction{}, fmt.Errorf("%w: fixture=%s", ErrNotFound, fixtureID)
	}

	now := s.now().UTC()
	if fixture.NormalizeStatus(item.Status) != fixture.StatusUpcoming || !now.Before(item.PredictionDeadline) {
		return prediction.Prediction{}, fmt.Errorf("%w: predictions for fixture=%s closed at %s", ErrConflict, fixtureID, item.PredictionDeadline.Format(time.RFC3339))
	}

	out := prediction.Prediction{
		ID:          prediction.BuildID(userID, item.ID, item.Gameweek),
		UserID:      userID,
		FixtureID:   item.ID,
		Gameweek:    item.Gameweek,
		HomeScore:   scoring.GoalsFromInt(input.HomeScore),
		AwayScore:   scoring.GoalsFromInt(input.AwayScore),
		IsSubmitted: true,
		SubmittedAt: now,
		UpdatedAt:   now,
	}
	if err := s.predictionRepo.Upsert(ctx, out); err != nil {
		if errors.Is(err, prediction.ErrAlreadyScored) {
			return prediction.Prediction{}, fmt.Errorf("%w: prediction=%s is already scored", ErrConflict, out.ID)
		}
		return prediction.Prediction{}, fmt.Errorf("upsert prediction: %w", err)
	}

	s.logger.InfoContext(ctx, "prediction submitted",
		"prediction_id", out.ID,
		"user_id", userID,
		"fixture_id", item.ID,
	)

	return out, nil
}

func (s *PredictionService) ListByUser(ctx context.Context, userID string, gameweek int) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ListByUser")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if gameweek < 0 {
		return nil, fmt.Errorf("%w: gameweek must be >= 0", ErrInvalidInput)
	}

	items, err := s.predictionRepo.ListByUser(ctx, userID, gameweek)
	if err != nil {
		return nil, fmt.Errorf("list predictions by user: %w", err)
	}

	return items, nil
}

func validSubmittedGoals(v int) bool {
	return v >= 0 && v <= prediction.MaxSubmittedGoals
}
