package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/prediction-league/internal/domain/team"
)

type TeamRepository struct {
	store *Store
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]team.Team, 0, len(r.store.teams))
	for _, item := range r.store.teams {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *TeamRepository) GetByCode(_ context.Context, code string) (team.Team, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.teams[team.NormalizeCode(code)]
	return item, ok, nil
}

func (r *TeamRepository) Upsert(_ context.Context, teams []team.Team) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, item := range teams {
		item.Code = team.NormalizeCode(item.Code)
		r.store.teams[item.Code] = item
	}
	return nil
}
