package fixture

import (
	"context"
	"time"
)

// Repository exposes fixture persistence. UpdateResult and UpdateSchedule are
// single atomic writes that return the before/after pair for the change feed.
type Repository interface {
	GetByID(ctx context.Context, fixtureID string) (Fixture, bool, error)
	ListByGameweek(ctx context.Context, gameweek int) ([]Fixture, error)
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]Fixture, error)
	Upsert(ctx context.Context, fixtures []Fixture) error
	UpdateResult(ctx context.Context, fixtureID string, homeScore, awayScore int, at time.Time) (Change, error)
	UpdateSchedule(ctx context.Context, fixtureID string, kickoffAt, at time.Time) (Change, error)
}
