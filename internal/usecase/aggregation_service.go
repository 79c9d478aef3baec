package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/scoring"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/tracing"
)

const (
	predictionOutcomeAlreadyScored = "already_scored"
	predictionOutcomeInvalid       = "invalid"
	predictionOutcomeConflict      = "conflict"

	batchStatusCommitted = "committed"
	batchStatusFailed    = "failed"
)

// ScoringRecorder receives pipeline counters. A nil recorder is allowed.
type ScoringRecorder interface {
	PredictionProcessed(outcome string)
	BatchCommitted(status string, awards int)
	FixtureChangeObserved(decision string)
}

type AggregationConfig struct {
	// BatchMaxOps caps the write operations per commit; each award costs
	// scoring.OpsPerAward operations.
	BatchMaxOps int
}

type AggregationResult struct {
	FixtureID     string
	Total         int
	AlreadyScored int
	Invalid       int
	Applied       int
	Conflicts     int
	Exact         int
	Correct       int
	Wrong         int
	Batches       int
	FailedBatches int
}

// AggregationService scores a fixture's predictions and folds the points into
// user stats in bounded, sequential batches.
type AggregationService struct {
	scoringRepo scoring.Repository
	recorder    ScoringRecorder
	logger      *logging.Logger
	batchMaxOps int
	now         func() time.Time
}

func NewAggregationService(
	scoringRepo scoring.Repository,
	cfg AggregationConfig,
	recorder ScoringRecorder,
	logger *logging.Logger,
) *AggregationService {
	if logger == nil {
		logger = logging.Default()
	}
	if recorder == nil {
		recorder = nopScoringRecorder{}
	}

	maxOps := cfg.BatchMaxOps
	if maxOps <= 0 || maxOps > scoring.MaxBatchOps {
		maxOps = scoring.MaxBatchOps
	}
	if maxOps < scoring.OpsPerAward {
		maxOps = scoring.OpsPerAward
	}

	return &AggregationService{
		scoringRepo: scoringRepo,
		recorder:    recorder,
		logger:      logger,
		batchMaxOps: maxOps,
		now:         time.Now,
	}
}

// AwardsPerBatch is the number of predictions committed together.
func (s *AggregationService) AwardsPerBatch() int {
	return s.batchMaxOps / scoring.OpsPerAward
}

// Run scores predictions against the final score. Already-scored and
// unparseable predictions are skipped. A failed batch does not stop later
// batches; every batch error is returned joined, and committed batches stay
// committed.
func (s *AggregationService) Run(
	ctx context.Context,
	fixtureID string,
	predictions []prediction.Prediction,
	actual scoring.Scoreline,
) (AggregationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AggregationService.Run")
	defer span.End()

	result := AggregationResult{FixtureID: fixtureID, Total: len(predictions)}
	calculatedAt := s.now().UTC()

	awards := make([]scoring.Award, 0, len(predictions))
	for _, item := range predictions {
		if item.IsScored() {
			result.AlreadyScored++
			s.recorder.PredictionProcessed(predictionOutcomeAlreadyScored)
			continue
		}

		points, err := scoring.ScoreRaw(item.HomeScore, item.AwayScore, actual)
		if err != nil {
			result.Invalid++
			s.recorder.PredictionProcessed(predictionOutcomeInvalid)
			s.logger.WarnContext(ctx, "skip unscorable prediction",
				"fixture_id", fixtureID,
				"prediction_id", item.ID,
				"user_id", item.UserID,
				"error", err,
			)
			continue
		}

		awards = append(awards, scoring.Award{
			PredictionID: item.ID,
			UserID:       item.UserID,
			FixtureID:    fixtureID,
			Points:       points,
			CalculatedAt: calculatedAt,
		})
	}

	if len(awards) == 0 {
		s.logger.InfoContext(ctx, "no predictions to score",
			"fixture_id", fixtureID,
			"total", result.Total,
			"already_scored", result.AlreadyScored,
			"invalid", result.Invalid,
		)
		return result, nil
	}

	size := s.AwardsPerBatch()
	totalBatches := (len(awards) + size - 1) / size
	var errs []error
	for index := 0; index < totalBatches; index++ {
		start := index * size
		end := min(start+size, len(awards))
		batch := awards[start:end]
		result.Batches++

		if err := ctx.Err(); err != nil {
			result.FailedBatches += totalBatches - index
			errs = append(errs, fmt.Errorf("scoring fixture %s stopped before batch %d/%d: %w", fixtureID, index+1, totalBatches, err))
			result.Batches = totalBatches
			break
		}

		committed, err := s.scoringRepo.CommitAwards(ctx, batch)
		if err != nil {
			result.FailedBatches++
			s.recorder.BatchCommitted(batchStatusFailed, len(batch))
			s.logger.ErrorContext(ctx, "commit scoring batch failed",
				"fixture_id", fixtureID,
				"batch", index+1,
				"batches", totalBatches,
				"awards", len(batch),
				"error", err,
			)
			errs = append(errs, fmt.Errorf("commit scoring batch %d/%d for fixture %s: %w", index+1, totalBatches, fixtureID, err))
			continue
		}

		s.recorder.BatchCommitted(batchStatusCommitted, len(batch))
		result.Applied += len(committed.Applied)
		result.Conflicts += len(committed.Conflicts)
		for _, award := range committed.Applied {
			kind := scoring.KindOf(award.Points)
			s.recorder.PredictionProcessed(string(kind))
			switch kind {
			case scoring.KindExact:
				result.Exact++
			case scoring.KindCorrect:
				result.Correct++
			default:
				result.Wrong++
			}
		}
		for range committed.Conflicts {
			s.recorder.PredictionProcessed(predictionOutcomeConflict)
		}
	}

	s.logger.InfoContext(ctx, "fixture predictions scored",
		"fixture_id", fixtureID,
		"total", result.Total,
		"applied", result.Applied,
		"already_scored", result.AlreadyScored,
		"invalid", result.Invalid,
		"conflicts", result.Conflicts,
		"batches", result.Batches,
		"failed_batches", result.FailedBatches,
	)

	err := errors.Join(errs...)
	span.SetAttributes(
		attribute.String("fixture.id", fixtureID),
		attribute.Int("scoring.applied", result.Applied),
		attribute.Int("scoring.failed_batches", result.FailedBatches),
	)
	tracing.Fail(span, err)
	return result, err
}

type nopScoringRecorder struct{}

func (nopScoringRecorder) PredictionProcessed(string)   {}
func (nopScoringRecorder) BatchCommitted(string, int)   {}
func (nopScoringRecorder) FixtureChangeObserved(string) {}
