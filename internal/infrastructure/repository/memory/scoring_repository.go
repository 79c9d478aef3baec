package memory

import (
	"context"

	"github.com/riskibarqy/prediction-league/internal/domain/scoring"
	"github.com/riskibarqy/prediction-league/internal/domain/userstats"
)

// ScoringRepository commits award batches under the store-wide write lock.
// A batch is applied completely or not at all.
type ScoringRepository struct {
	store *Store
}

func (r *ScoringRepository) CommitAwards(ctx context.Context, awards []scoring.Award) (scoring.CommitResult, error) {
	if err := ctx.Err(); err != nil {
		return scoring.CommitResult{}, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	result := scoring.CommitResult{Applied: make([]scoring.Award, 0, len(awards))}
	scored := make(map[string]struct{}, len(awards))
	profiles := make(map[string]userstats.Profile)

	for _, award := range awards {
		item, ok := r.store.predictions[award.PredictionID]
		if _, dup := scored[award.PredictionID]; dup || !ok || item.IsScored() {
			result.Conflicts = append(result.Conflicts, award.PredictionID)
			continue
		}
		scored[award.PredictionID] = struct{}{}

		profile, staged := profiles[award.UserID]
		if !staged {
			profile, ok = r.store.profiles[award.UserID]
			if !ok {
				profile = userstats.Profile{UserID: award.UserID}
			}
		}
		profile.Stats = profile.Stats.Apply(award.Points)
		profile.UpdatedAt = award.CalculatedAt
		profiles[award.UserID] = profile
		result.Applied = append(result.Applied, award)
	}

	for _, award := range result.Applied {
		item := r.store.predictions[award.PredictionID]
		points := award.Points
		calculatedAt := award.CalculatedAt
		item.PointsEarned = &points
		item.CalculatedAt = &calculatedAt
		item.UpdatedAt = calculatedAt
		r.store.predictions[award.PredictionID] = item
	}
	for userID, profile := range profiles {
		r.store.profiles[userID] = profile
	}

	return result, nil
}
