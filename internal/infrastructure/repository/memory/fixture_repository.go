package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/fixture"
)

type FixtureRepository struct {
	store *Store
}

func (r *FixtureRepository) GetByID(_ context.Context, fixtureID string) (fixture.Fixture, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.fixtures[fixtureID]
	if !ok {
		return fixture.Fixture{}, false, nil
	}
	return item.Clone(), true, nil
}

func (r *FixtureRepository) ListByGameweek(_ context.Context, gameweek int) ([]fixture.Fixture, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]fixture.Fixture, 0)
	for _, item := range r.store.fixtures {
		if item.Gameweek == gameweek {
			out = append(out, item.Clone())
		}
	}
	sortByKickoff(out)
	return out, nil
}

// ListUpcoming returns fixtures still open for predictions at from.
func (r *FixtureRepository) ListUpcoming(_ context.Context, from time.Time, limit int) ([]fixture.Fixture, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]fixture.Fixture, 0)
	for _, item := range r.store.fixtures {
		if fixture.NormalizeStatus(item.Status) == fixture.StatusUpcoming && item.PredictionDeadline.After(from) {
			out = append(out, item.Clone())
		}
	}
	sortByKickoff(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Upsert creates fixtures or refreshes the schedule fields of existing ones.
// Status, score and history of an existing fixture are kept, and finished
// fixtures are not touched at all.
func (r *FixtureRepository) Upsert(_ context.Context, fixtures []fixture.Fixture) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, item := range fixtures {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	for _, item := range fixtures {
		current, exists := r.store.fixtures[item.ID]
		if !exists {
			r.store.fixtures[item.ID] = item.Clone()
			continue
		}
		if fixture.IsFinishedStatus(current.Status) {
			continue
		}
		current.Gameweek = item.Gameweek
		current.HomeTeam = item.HomeTeam
		current.AwayTeam = item.AwayTeam
		current.KickoffAt = item.KickoffAt
		current.PredictionDeadline = item.PredictionDeadline
		current.UpdatedAt = item.UpdatedAt
		r.store.fixtures[item.ID] = current
	}
	return nil
}

func (r *FixtureRepository) UpdateResult(_ context.Context, fixtureID string, homeScore, awayScore int, at time.Time) (fixture.Change, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.fixtures[fixtureID]
	if !ok {
		return fixture.Change{}, errors.Wrapf(fixture.ErrNotFound, "fixture %s", fixtureID)
	}
	before := current.Clone()

	if fixture.IsFinishedStatus(current.Status) && current.HasScore() {
		if *current.HomeScore != homeScore || *current.AwayScore != awayScore {
			return fixture.Change{}, errors.Wrapf(fixture.ErrAlreadyFinished, "fixture %s finished %d-%d", fixtureID, *current.HomeScore, *current.AwayScore)
		}
		return fixture.Change{Before: &before, After: current.Clone()}, nil
	}

	next := current.Clone()
	next.Status = fixture.StatusFinished
	next.HomeScore = &homeScore
	next.AwayScore = &awayScore
	next.FinishedAt = &at
	next.UpdatedAt = at
	if err := next.Validate(); err != nil {
		return fixture.Change{}, err
	}

	r.store.fixtures[fixtureID] = next
	return fixture.Change{Before: &before, After: next.Clone()}, nil
}

func (r *FixtureRepository) UpdateSchedule(_ context.Context, fixtureID string, kickoffAt, at time.Time) (fixture.Change, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.fixtures[fixtureID]
	if !ok {
		return fixture.Change{}, errors.Wrapf(fixture.ErrNotFound, "fixture %s", fixtureID)
	}
	if fixture.IsFinishedStatus(current.Status) {
		return fixture.Change{}, errors.Wrapf(fixture.ErrAlreadyFinished, "fixture %s", fixtureID)
	}
	before := current.Clone()

	next := current.Clone()
	next.ScheduleHistory = append(next.ScheduleHistory, fixture.ScheduleChange{
		PreviousKickoffAt: current.KickoffAt,
		PreviousDeadline:  current.PredictionDeadline,
		ChangedAt:         at,
	})
	next.KickoffAt = kickoffAt
	next.PredictionDeadline = fixture.DeadlineFor(kickoffAt)
	next.UpdatedAt = at

	r.store.fixtures[fixtureID] = next
	return fixture.Change{Before: &before, After: next.Clone()}, nil
}

func sortByKickoff(items []fixture.Fixture) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].KickoffAt.Equal(items[j].KickoffAt) {
			return items[i].KickoffAt.Before(items[j].KickoffAt)
		}
		return items[i].ID < items[j].ID
	})
}
