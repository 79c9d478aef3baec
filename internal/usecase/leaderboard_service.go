package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/riskibarqy/prediction-league/internal/domain/userstats"
	basecache "github.com/riskibarqy/prediction-league/internal/platform/cache"
)

const (
	defaultLeaderboardLimit = 50
	maxLeaderboardLimit     = 200

	leaderboardCachePrefix = "leaderboard:"
)

type LeaderboardEntry struct {
	Rank        int
	UserID      string
	DisplayName string
	Stats       userstats.Stats
}

// LeaderboardService serves ranked user stats. Results are cached per limit
// and refreshed when the cache TTL expires.
type LeaderboardService struct {
	userRepo userstats.Repository
	cache    *basecache.Store
}

func NewLeaderboardService(userRepo userstats.Repository, cache *basecache.Store) *LeaderboardService {
	return &LeaderboardService{userRepo: userRepo, cache: cache}
}

func (s *LeaderboardService) List(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.List")
	defer span.End()

	limit = clampLimit(limit, defaultLeaderboardLimit, maxLeaderboardLimit)
	load := func(ctx context.Context) (any, error) {
		profiles, err := s.userRepo.ListTop(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("list top user stats: %w", err)
		}
		return rankProfiles(profiles), nil
	}

	if s.cache == nil {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		entries, _ := v.([]LeaderboardEntry)
		return entries, nil
	}

	v, err := s.cache.GetOrLoad(ctx, leaderboardCachePrefix+"limit:"+strconv.Itoa(limit), load)
	if err != nil {
		return nil, err
	}
	entries, _ := v.([]LeaderboardEntry)
	return append([]LeaderboardEntry(nil), entries...), nil
}

// Invalidate drops every cached leaderboard page.
func (s *LeaderboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.DeletePrefix(ctx, leaderboardCachePrefix)
}

// rankProfiles expects profiles ordered by total points descending and
// assigns dense ranks.
func rankProfiles(profiles []userstats.Profile) []LeaderboardEntry {
	out := make([]LeaderboardEntry, 0, len(profiles))
	rank := 0
	lastPoints := 0
	for i, p := range profiles {
		if i == 0 || p.Stats.TotalPoints != lastPoints {
			rank++
			lastPoints = p.Stats.TotalPoints
		}
		out = append(out, LeaderboardEntry{
			Rank:        rank,
			UserID:      p.UserID,
			DisplayName: p.DisplayName,
			Stats:       p.Stats,
		})
	}
	return out
}
