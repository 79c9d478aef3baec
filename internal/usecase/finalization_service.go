package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/prediction-league/internal/domain/fixture"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/scoring"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

const (
	decisionFinalized       = "finalized"
	decisionCreated         = "created"
	decisionAlreadyFinished = "already_finished"
	decisionNotFinished     = "not_finished"
	decisionMissingScore    = "missing_score"
)

// IsFinalization reports whether a fixture change is the transition into
// finished with a complete score, and why not when it is not.
func IsFinalization(change fixture.Change) (bool, string) {
	if change.Before == nil {
		return false, decisionCreated
	}
	if !fixture.IsFinishedStatus(change.After.Status) {
		return false, decisionNotFinished
	}
	if fixture.IsFinishedStatus(change.Before.Status) {
		return false, decisionAlreadyFinished
	}
	if !change.After.HasScore() {
		return false, decisionMissingScore
	}
	return true, decisionFinalized
}

type FinalizationResult struct {
	FixtureID   string
	Triggered   bool
	Decision    string
	Predictions int
	Aggregation AggregationResult
}

// FinalizationService reacts to fixture changes and scores fixtures that have
// just finished.
type FinalizationService struct {
	predictionRepo prediction.Repository
	aggregation    *AggregationService
	recorder       ScoringRecorder
	logger         *logging.Logger
}

func NewFinalizationService(
	predictionRepo prediction.Repository,
	aggregation *AggregationService,
	recorder ScoringRecorder,
	logger *logging.Logger,
) *FinalizationService {
	if logger == nil {
		logger = logging.Default()
	}
	if recorder == nil {
		recorder = nopScoringRecorder{}
	}

	return &FinalizationService{
		predictionRepo: predictionRepo,
		aggregation:    aggregation,
		recorder:       recorder,
		logger:         logger,
	}
}

// HandleFixtureChange is safe to call more than once for the same change.
func (s *FinalizationService) HandleFixtureChange(ctx context.Context, change fixture.Change) (FinalizationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FinalizationService.HandleFixtureChange")
	defer span.End()

	triggered, decision := IsFinalization(change)
	s.recorder.FixtureChangeObserved(decision)
	if !triggered {
		s.logger.DebugContext(ctx, "fixture change ignored",
			"fixture_id", change.After.ID,
			"decision", decision,
			"status", change.After.Status,
		)
		return FinalizationResult{FixtureID: change.After.ID, Decision: decision}, nil
	}

	return s.ScoreFixture(ctx, change.After)
}

// ScoreFixture runs the pipeline for a finished fixture regardless of how it
// got there. Manual reruns enter here.
func (s *FinalizationService) ScoreFixture(ctx context.Context, item fixture.Fixture) (FinalizationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FinalizationService.ScoreFixture")
	defer span.End()

	result := FinalizationResult{FixtureID: item.ID, Triggered: true, Decision: decisionFinalized}
	if !fixture.IsFinishedStatus(item.Status) || !item.HasScore() {
		return result, fmt.Errorf("%w: fixture %s is not finished with a score", ErrConflict, item.ID)
	}

	predictions, err := s.predictionRepo.ListByFixture(ctx, item.ID)
	if err != nil {
		return result, fmt.Errorf("list predictions by fixture=%s: %w", item.ID, err)
	}
	result.Predictions = len(predictions)
	if len(predictions) == 0 {
		s.logger.InfoContext(ctx, "finished fixture has no predictions", "fixture_id", item.ID)
		return result, nil
	}

	actual := scoring.Scoreline{Home: *item.HomeScore, Away: *item.AwayScore}
	aggregated, err := s.aggregation.Run(ctx, item.ID, predictions, actual)
	result.Aggregation = aggregated
	if err != nil {
		return result, fmt.Errorf("aggregate predictions for fixture=%s: %w", item.ID, err)
	}

	return result, nil
}
