package memory

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
)

type PredictionRepository struct {
	store *Store
}

func (r *PredictionRepository) GetByID(_ context.Context, predictionID string) (prediction.Prediction, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.predictions[predictionID]
	if !ok {
		return prediction.Prediction{}, false, nil
	}
	return item.Clone(), true, nil
}

func (r *PredictionRepository) ListByFixture(_ context.Context, fixtureID string) ([]prediction.Prediction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ids := r.store.predictionsByFixture[fixtureID]
	out := make([]prediction.Prediction, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.store.predictions[id].Clone())
	}
	return out, nil
}

func (r *PredictionRepository) ListByUser(_ context.Context, userID string, gameweek int) ([]prediction.Prediction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, item := range r.store.predictions {
		if item.UserID != userID {
			continue
		}
		if gameweek > 0 && item.Gameweek != gameweek {
			continue
		}
		out = append(out, item.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Gameweek != out[j].Gameweek {
			return out[i].Gameweek < out[j].Gameweek
		}
		return out[i].FixtureID < out[j].FixtureID
	})
	return out, nil
}

func (r *PredictionRepository) Upsert(_ context.Context, item prediction.Prediction) error {
	if err := item.Validate(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, exists := r.store.predictions[item.ID]
	if exists && current.IsScored() {
		return errors.Wrapf(prediction.ErrAlreadyScored, "prediction %s", item.ID)
	}
	if !exists {
		r.store.predictionsByFixture[item.FixtureID] = append(r.store.predictionsByFixture[item.FixtureID], item.ID)
	}
	r.store.predictions[item.ID] = item.Clone()
	return nil
}
