package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/fixture"
	"github.com/stretchr/testify/require"
)

func TestRescoreService_RescoreGameweek(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f1 := finishedFixture(7, "ARS", "CHE", 2, 1)
	f2 := finishedFixture(7, "LIV", "MCI", 0, 0)
	f3 := finishedFixture(7, "MUN", "TOT", 3, 1)
	pending := upcomingFixture(7, "CHE", "ARS", testNow.Add(48*time.Hour))
	repos := newMemoryRepos(t, []fixture.Fixture{f1, f2, f3, pending},
		rawPrediction("u1", f1, "2", "1"),
		rawPrediction("u1", f2, "0", "0"),
		rawPrediction("u1", f3, "1", "0"),
		rawPrediction("u2", f1, "0", "1"),
		rawPrediction("u1", pending, "1", "1"),
	)
	svc := NewRescoreService(repos.Fixtures, newScoringPipeline(repos), 2, nil)

	result, err := svc.RescoreGameweek(ctx, 7)
	require.NoError(t, err)
	if result.SuccessCount != 3 || result.FailedCount != 0 || len(result.Fixtures) != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Fixtures[0].FixtureID != f1.ID || result.Fixtures[0].Applied != 2 {
		t.Fatalf("unexpected first row: %+v", result.Fixtures[0])
	}

	profile, _, err := repos.UserStats.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	if profile.Stats.TotalPoints != 7 || profile.Stats.ProcessedPredictionsCount != 3 {
		t.Fatalf("unexpected stats: %+v", profile.Stats)
	}

	again, err := svc.RescoreGameweek(ctx, 7)
	require.NoError(t, err)
	for _, row := range again.Fixtures {
		if row.Applied != 0 {
			t.Fatalf("rerun applied points again: %+v", row)
		}
	}
	profile, _, _ = repos.UserStats.GetByUserID(ctx, "u1")
	if profile.Stats.TotalPoints != 7 {
		t.Fatalf("got=%d want=7", profile.Stats.TotalPoints)
	}
}

func TestRescoreService_RescoreFixture(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	finished := finishedFixture(1, "ARS", "CHE", 1, 1)
	open := upcomingFixture(1, "LIV", "MCI", testNow.Add(time.Hour*5))
	repos := newMemoryRepos(t, []fixture.Fixture{finished, open}, rawPrediction("u1", finished, "1", "1"))
	svc := NewRescoreService(repos.Fixtures, newScoringPipeline(repos), 0, nil)

	row, err := svc.RescoreFixture(ctx, finished.ID)
	require.NoError(t, err)
	if row.Applied != 1 || row.Status != rescoreStatusSuccess {
		t.Fatalf("unexpected row: %+v", row)
	}

	if _, err := svc.RescoreFixture(ctx, open.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if _, err := svc.RescoreFixture(ctx, "GW1-NOPE-NADA"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.RescoreGameweek(ctx, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
