package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/fixture"
	"github.com/riskibarqy/prediction-league/internal/domain/team"
	basecache "github.com/riskibarqy/prediction-league/internal/platform/cache"
)

const (
	teamKeyPrefix    = "team:"
	fixtureKeyPrefix = "fixture:"
)

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, teamKeyPrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByCode(ctx context.Context, code string) (team.Team, bool, error) {
	key := teamKeyPrefix + "code:" + team.NormalizeCode(code)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		return cachedTeamByCode{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeamByCode)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, teams []team.Team) error {
	if err := r.next.Upsert(ctx, teams); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, teamKeyPrefix)
	return nil
}

type cachedTeamByCode struct {
	value  team.Team
	exists bool
}

// FixtureRepository caches lookups by id and gameweek. Every write through it
// drops all cached fixtures. Upcoming lists depend on the clock and are not
// cached.
type FixtureRepository struct {
	next  fixture.Repository
	cache *basecache.Store
}

func NewFixtureRepository(next fixture.Repository, cache *basecache.Store) *FixtureRepository {
	return &FixtureRepository{next: next, cache: cache}
}

func (r *FixtureRepository) GetByID(ctx context.Context, fixtureID string) (fixture.Fixture, bool, error) {
	key := fixtureKeyPrefix + "id:" + fixtureID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, fixtureID)
		if err != nil {
			return nil, err
		}
		return cachedFixtureByID{value: item.Clone(), exists: exists}, nil
	})
	if err != nil {
		return fixture.Fixture{}, false, err
	}

	cached, _ := v.(cachedFixtureByID)
	return cached.value.Clone(), cached.exists, nil
}

func (r *FixtureRepository) ListByGameweek(ctx context.Context, gameweek int) ([]fixture.Fixture, error) {
	key := fixtureKeyPrefix + "gameweek:" + strconv.Itoa(gameweek)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByGameweek(ctx, gameweek)
		if err != nil {
			return nil, err
		}
		return cloneFixtures(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]fixture.Fixture)
	return cloneFixtures(items), nil
}

func (r *FixtureRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]fixture.Fixture, error) {
	return r.next.ListUpcoming(ctx, from, limit)
}

func (r *FixtureRepository) Upsert(ctx context.Context, fixtures []fixture.Fixture) error {
	err := r.next.Upsert(ctx, fixtures)
	r.cache.DeletePrefix(ctx, fixtureKeyPrefix)
	return err
}

func (r *FixtureRepository) UpdateResult(ctx context.Context, fixtureID string, homeScore, awayScore int, at time.Time) (fixture.Change, error) {
	change, err := r.next.UpdateResult(ctx, fixtureID, homeScore, awayScore, at)
	r.cache.DeletePrefix(ctx, fixtureKeyPrefix)
	return change, err
}

func (r *FixtureRepository) UpdateSchedule(ctx context.Context, fixtureID string, kickoffAt, at time.Time) (fixture.Change, error) {
	change, err := r.next.UpdateSchedule(ctx, fixtureID, kickoffAt, at)
	r.cache.DeletePrefix(ctx, fixtureKeyPrefix)
	return change, err
}

type cachedFixtureByID struct {
	value  fixture.Fixture
	exists bool
}

func cloneFixtures(items []fixture.Fixture) []fixture.Fixture {
	out := make([]fixture.Fixture, 0, len(items))
	for _, item := range items {
		out = append(out, item.Clone())
	}
	return out
}
