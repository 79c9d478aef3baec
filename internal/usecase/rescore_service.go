package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/prediction-league/internal/domain/fixture"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

const (
	defaultRescoreWorkers = 4

	rescoreStatusSuccess = "success"
	rescoreStatusFailed  = "failed"
)

type RescoreFixtureResult struct {
	FixtureID  string
	Status     string
	Message    string
	Applied    int
	Skipped    int
	DurationMs int64
}

type RescoreResult struct {
	Gameweek     int
	Fixtures     []RescoreFixtureResult
	SuccessCount int
	FailedCount  int
}

// RescoreService replays scoring for finished fixtures. Each fixture is still
// scored sequentially; only distinct fixtures run in parallel.
type RescoreService struct {
	fixtureRepo  fixture.Repository
	finalization *FinalizationService
	workers      int
	logger       *logging.Logger
}

func NewRescoreService(
	fixtureRepo fixture.Repository,
	finalization *FinalizationService,
	workers int,
	logger *logging.Logger,
) *RescoreService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = defaultRescoreWorkers
	}

	return &RescoreService{
		fixtureRepo:  fixtureRepo,
		finalization: finalization,
		workers:      workers,
		logger:       logger,
	}
}

func (s *RescoreService) RescoreFixture(ctx context.Context, fixtureID string) (RescoreFixtureResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RescoreService.RescoreFixture")
	defer span.End()

	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return RescoreFixtureResult{}, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}

	item, exists, err := s.fixtureRepo.GetByID(ctx, fixtureID)
	if err != nil {
		return RescoreFixtureResult{}, fmt.Errorf("get fixture: %w", err)
	}
	if !exists {
		return RescoreFixtureResult{}, fmt.Errorf("%w: fixture=%s", ErrNotFound, fixtureID)
	}
	if !fixture.IsFinishedStatus(item.Status) || !item.HasScore() {
		return RescoreFixtureResult{}, fmt.Errorf("%w: fixture=%s is not finished", ErrConflict, fixtureID)
	}

	row := s.rescore(ctx, item)
	if row.Status == rescoreStatusFailed {
		return row, fmt.Errorf("rescore fixture=%s: %s", fixtureID, row.Message)
	}
	return row, nil
}

func (s *RescoreService) RescoreGameweek(ctx context.Context, gameweek int) (RescoreResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RescoreService.RescoreGameweek")
	defer span.End()

	if gameweek <= 0 {
		return RescoreResult{}, fmt.Errorf("%w: gameweek must be > 0", ErrInvalidInput)
	}

	items, err := s.fixtureRepo.ListByGameweek(ctx, gameweek)
	if err != nil {
		return RescoreResult{}, fmt.Errorf("list fixtures by gameweek: %w", err)
	}

	finished := make([]fixture.Fixture, 0, len(items))
	for _, item := range items {
		if fixture.IsFinishedStatus(item.Status) && item.HasScore() {
			finished = append(finished, item)
		}
	}

	result := RescoreResult{Gameweek: gameweek, Fixtures: make([]RescoreFixtureResult, 0, len(finished))}
	if len(finished) == 0 {
		return result, nil
	}

	workerCount := min(s.workers, len(finished))
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RescoreResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan RescoreFixtureResult, len(finished))
	var successCount atomic.Int32
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, item := range finished {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := s.rescore(ctx, item)
			if row.Status == rescoreStatusSuccess {
				successCount.Add(1)
			} else {
				failedCount.Add(1)
			}
			results <- row
		}); err != nil {
			workers.Done()
			workers.Wait()
			return RescoreResult{}, fmt.Errorf("submit rescore task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Fixtures = append(result.Fixtures, row)
	}
	sort.SliceStable(result.Fixtures, func(i, j int) bool {
		return result.Fixtures[i].FixtureID < result.Fixtures[j].FixtureID
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())

	s.logger.InfoContext(ctx, "gameweek rescored",
		"gameweek", gameweek,
		"fixtures", len(result.Fixtures),
		"success", result.SuccessCount,
		"failed", result.FailedCount,
	)

	return result, nil
}

func (s *RescoreService) rescore(ctx context.Context, item fixture.Fixture) RescoreFixtureResult {
	start := time.Now()
	row := RescoreFixtureResult{FixtureID: item.ID, Status: rescoreStatusSuccess}

	res, err := s.finalization.ScoreFixture(ctx, item)
	row.Applied = res.Aggregation.Applied
	row.Skipped = res.Aggregation.AlreadyScored + res.Aggregation.Invalid + res.Aggregation.Conflicts
	row.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		row.Status = rescoreStatusFailed
		row.Message = err.Error()
		s.logger.WarnContext(ctx, "rescore fixture failed", "fixture_id", item.ID, "error", err)
	}

	return row
}
