package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/fixture"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/scoring"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
)

var testNow = time.Date(2026, 8, 16, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func intPtr(v int) *int { return &v }

func upcomingFixture(gameweek int, home, away string, kickoff time.Time) fixture.Fixture {
	return fixture.Fixture{
		ID:                 fixture.BuildID(gameweek, home, away),
		Gameweek:           gameweek,
		HomeTeam:           home,
		AwayTeam:           away,
		KickoffAt:          kickoff,
		PredictionDeadline: fixture.DeadlineFor(kickoff),
		Status:             fixture.StatusUpcoming,
		UpdatedAt:          testNow,
	}
}

func finishedFixture(gameweek int, home, away string, homeScore, awayScore int) fixture.Fixture {
	f := upcomingFixture(gameweek, home, away, testNow.Add(-3*time.Hour))
	finishedAt := testNow.Add(-time.Hour)
	f.Status = fixture.StatusFinished
	f.HomeScore = intPtr(homeScore)
	f.AwayScore = intPtr(awayScore)
	f.FinishedAt = &finishedAt
	return f
}

func rawPrediction(userID string, f fixture.Fixture, home, away scoring.RawGoals) prediction.Prediction {
	return prediction.Prediction{
		ID:          prediction.BuildID(userID, f.ID, f.Gameweek),
		UserID:      userID,
		FixtureID:   f.ID,
		Gameweek:    f.Gameweek,
		HomeScore:   home,
		AwayScore:   away,
		IsSubmitted: true,
		SubmittedAt: testNow.Add(-24 * time.Hour),
		UpdatedAt:   testNow.Add(-24 * time.Hour),
	}
}

// newMemoryRepos seeds a fresh store with the given fixtures and predictions.
func newMemoryRepos(t *testing.T, fixtures []fixture.Fixture, predictions ...prediction.Prediction) memory.Repositories {
	t.Helper()

	repos := memory.NewStore().Repositories()
	ctx := context.Background()
	if len(fixtures) > 0 {
		if err := repos.Fixtures.Upsert(ctx, fixtures); err != nil {
			t.Fatalf("seed fixtures: %v", err)
		}
	}
	for _, item := range predictions {
		if err := repos.Predictions.Upsert(ctx, item); err != nil {
			t.Fatalf("seed prediction %s: %v", item.ID, err)
		}
	}
	return repos
}

func newScoringPipeline(repos memory.Repositories) *FinalizationService {
	aggregation := NewAggregationService(repos.Scoring, AggregationConfig{}, nil, nil)
	aggregation.now = fixedClock
	return NewFinalizationService(repos.Predictions, aggregation, nil, nil)
}

// recordingRecorder counts ScoringRecorder calls for assertions.
type recordingRecorder struct {
	outcomes  map[string]int
	batches   map[string]int
	decisions map[string]int
}

func newRecordingRecorder() *recordingRecorder {
	return &recordingRecorder{
		outcomes:  make(map[string]int),
		batches:   make(map[string]int),
		decisions: make(map[string]int),
	}
}

func (r *recordingRecorder) PredictionProcessed(outcome string)    { r.outcomes[outcome]++ }
func (r *recordingRecorder) BatchCommitted(status string, _ int)   { r.batches[status]++ }
func (r *recordingRecorder) FixtureChangeObserved(decision string) { r.decisions[decision]++ }
