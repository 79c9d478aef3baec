package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/fixture"
	"github.com/riskibarqy/prediction-league/internal/domain/scoring"
	"github.com/riskibarqy/prediction-league/internal/domain/userstats"
	userstatsmock "github.com/riskibarqy/prediction-league/internal/mocks/domain/userstats"
	basecache "github.com/riskibarqy/prediction-league/internal/platform/cache"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRankProfiles_DenseRank(t *testing.T) {
	t.Parallel()

	profiles := []userstats.Profile{
		{UserID: "a", Stats: userstats.Stats{TotalPoints: 9}},
		{UserID: "b", Stats: userstats.Stats{TotalPoints: 9}},
		{UserID: "c", Stats: userstats.Stats{TotalPoints: 4}},
		{UserID: "d", Stats: userstats.Stats{TotalPoints: 0}},
	}
	got := rankProfiles(profiles)
	want := []int{1, 1, 2, 3}
	for i, entry := range got {
		if entry.Rank != want[i] {
			t.Fatalf("%s: got=%d want=%d", entry.UserID, entry.Rank, want[i])
		}
	}
}

func TestLeaderboardService_ListOrdersAndCaches(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f1 := finishedFixture(1, "ARS", "CHE", 2, 1)
	f2 := finishedFixture(1, "LIV", "MCI", 1, 1)
	f3 := finishedFixture(1, "MUN", "TOT", 1, 0)
	repos := newMemoryRepos(t, nil,
		rawPrediction("ana", f1, "2", "1"),
		rawPrediction("ben", f1, "1", "0"),
		rawPrediction("ben", f2, "0", "0"),
		rawPrediction("ben", f3, "2", "0"),
		rawPrediction("cat", f1, "0", "3"),
	)
	pipeline := newScoringPipeline(repos)
	for _, f := range []fixture.Fixture{f1, f2, f3} {
		_, err := pipeline.ScoreFixture(ctx, f)
		require.NoError(t, err)
	}

	cache := basecache.NewStore(16, time.Minute)
	svc := NewLeaderboardService(repos.UserStats, cache)

	entries, err := svc.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// ana and ben both have 3 points; ana wins the tie on exact predictions.
	if entries[0].UserID != "ana" || entries[1].UserID != "ben" || entries[2].UserID != "cat" {
		t.Fatalf("unexpected order: %+v", entries)
	}
	if entries[0].Rank != 1 || entries[1].Rank != 1 || entries[2].Rank != 2 {
		t.Fatalf("unexpected ranks: %+v", entries)
	}

	if _, err := repos.UserStats.UpsertProfile(ctx, "dan", "Dan"); err != nil {
		t.Fatalf("upsert profile: %v", err)
	}
	cached, err := svc.List(ctx, 0)
	require.NoError(t, err)
	if len(cached) != 3 {
		t.Fatalf("expected cached page, got=%d want=3", len(cached))
	}

	svc.Invalidate(ctx)
	fresh, err := svc.List(ctx, 0)
	require.NoError(t, err)
	if len(fresh) != 4 {
		t.Fatalf("got=%d want=4", len(fresh))
	}
}

func TestLeaderboardService_ClampsLimitAndWrapsErrors(t *testing.T) {
	t.Parallel()

	repo := userstatsmock.NewRepository(t)
	svc := NewLeaderboardService(repo, nil)
	boom := errors.New("query timeout")

	repo.On("ListTop", mock.Anything, maxLeaderboardLimit).Return(nil, boom).Once()

	if _, err := svc.List(context.Background(), 10_000); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped repository error, got %v", err)
	}
}

func TestProfileService_UpdateDisplayNameKeepsStats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := finishedFixture(1, "ARS", "CHE", 2, 1)
	repos := newMemoryRepos(t, nil, rawPrediction("u1", f, "2", "1"))
	items, _ := repos.Predictions.ListByFixture(ctx, f.ID)
	_, err := newScoringPipeline(repos).aggregation.Run(ctx, f.ID, items, scoring.Scoreline{Home: 2, Away: 1})
	require.NoError(t, err)

	svc := NewProfileService(repos.UserStats)
	profile, err := svc.UpdateDisplayName(ctx, "u1", "  Gunner  ")
	require.NoError(t, err)
	if profile.DisplayName != "Gunner" || profile.Stats.TotalPoints != 3 {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	if _, err := svc.UpdateDisplayName(ctx, "u1", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Get(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
