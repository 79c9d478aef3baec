package memory

import (
	"context"
	"sort"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/userstats"
)

type UserStatsRepository struct {
	store *Store
	now   func() time.Time
}

func (r *UserStatsRepository) GetByUserID(_ context.Context, userID string) (userstats.Profile, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.profiles[userID]
	return item, ok, nil
}

// ListTop orders by total points, then exact predictions, then user id.
func (r *UserStatsRepository) ListTop(_ context.Context, limit int) ([]userstats.Profile, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]userstats.Profile, 0, len(r.store.profiles))
	for _, item := range r.store.profiles {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Stats, out[j].Stats
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if a.ExactPredictions != b.ExactPredictions {
			return a.ExactPredictions > b.ExactPredictions
		}
		return out[i].UserID < out[j].UserID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *UserStatsRepository) RankOf(_ context.Context, totalPoints int) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	higher := make(map[int]struct{})
	for _, item := range r.store.profiles {
		if item.Stats.TotalPoints > totalPoints {
			higher[item.Stats.TotalPoints] = struct{}{}
		}
	}
	return len(higher) + 1, nil
}

// UpsertProfile sets the display name only; stats are left as they are.
func (r *UserStatsRepository) UpsertProfile(_ context.Context, userID, displayName string) (userstats.Profile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.profiles[userID]
	if !ok {
		item = userstats.Profile{UserID: userID}
	}
	item.DisplayName = displayName
	item.UpdatedAt = r.clock().UTC()
	r.store.profiles[userID] = item
	return item, nil
}

func (r *UserStatsRepository) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}
