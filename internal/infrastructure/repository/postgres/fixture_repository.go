package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/fixture"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) GetByID(ctx context.Context, fixtureID string) (fixture.Fixture, bool, error) {
	query, args, err := qb.Select(fixtureColumns...).From("fixtures").
		Where(qb.Eq("id", fixtureID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, false, fmt.Errorf("build select fixture by id query: %w", err)
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, fmt.Errorf("select fixture by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *FixtureRepository) ListByGameweek(ctx context.Context, gameweek int) ([]fixture.Fixture, error) {
	query, args, err := qb.Select(fixtureColumns...).From("fixtures").
		Where(qb.Eq("gameweek", gameweek)).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fixtures by gameweek query: %w", err)
	}

	return r.selectFixtures(ctx, "select fixtures by gameweek", query, args)
}

func (r *FixtureRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]fixture.Fixture, error) {
	query, args, err := qb.Select(fixtureColumns...).From("fixtures").
		Where(
			qb.Eq("status", fixture.StatusUpcoming),
			qb.Gt("prediction_deadline", from.UTC()),
		).
		OrderBy("kickoff_at", "id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select upcoming fixtures query: %w", err)
	}

	return r.selectFixtures(ctx, "select upcoming fixtures", query, args)
}

func (r *FixtureRepository) selectFixtures(ctx context.Context, op, query string, args []any) ([]fixture.Fixture, error) {
	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Upsert creates new fixtures and refreshes the schedule of existing ones.
// Status, score and history of a stored fixture are kept, and finished
// fixtures are left alone.
func (r *FixtureRepository) Upsert(ctx context.Context, fixtures []fixture.Fixture) error {
	if len(fixtures) == 0 {
		return nil
	}

	index := make(map[string]int, len(fixtures))
	models := make([]fixtureTableModel, 0, len(fixtures))
	for _, item := range fixtures {
		if err := item.Validate(); err != nil {
			return err
		}
		row := fixtureRowFromDomain(item)
		if i, dup := index[item.ID]; dup {
			models[i] = row
			continue
		}
		index[item.ID] = len(models)
		models = append(models, row)
	}

	query, args, err := qb.InsertModels("fixtures", models, `ON CONFLICT (id)
DO UPDATE SET
    gameweek = EXCLUDED.gameweek,
    home_team = EXCLUDED.home_team,
    away_team = EXCLUDED.away_team,
    kickoff_at = EXCLUDED.kickoff_at,
    prediction_deadline = EXCLUDED.prediction_deadline,
    updated_at = EXCLUDED.updated_at
WHERE fixtures.status <> 'finished'`)
	if err != nil {
		return fmt.Errorf("build upsert fixtures query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert fixtures: %w", err)
	}

	return nil
}

// UpdateResult writes the status, both scores and finished_at in one
// statement. Re-saving the stored score is a no-op that still reports the
// pair so the caller can publish it.
func (r *FixtureRepository) UpdateResult(ctx context.Context, fixtureID string, homeScore, awayScore int, at time.Time) (fixture.Change, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fixture.Change{}, fmt.Errorf("begin tx update fixture result: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	before, err := lockFixture(ctx, tx, fixtureID)
	if err != nil {
		return fixture.Change{}, err
	}

	if fixture.IsFinishedStatus(before.Status) && before.HasScore() {
		if *before.HomeScore != homeScore || *before.AwayScore != awayScore {
			return fixture.Change{}, errors.Wrapf(fixture.ErrAlreadyFinished, "fixture %s finished %d-%d", fixtureID, *before.HomeScore, *before.AwayScore)
		}
		return fixture.Change{Before: &before, After: before.Clone()}, nil
	}

	next := before.Clone()
	next.Status = fixture.StatusFinished
	next.HomeScore = &homeScore
	next.AwayScore = &awayScore
	next.FinishedAt = &at
	next.UpdatedAt = at
	if err := next.Validate(); err != nil {
		return fixture.Change{}, err
	}

	query, args, err := qb.Update("fixtures").
		Set("status", fixture.StatusFinished).
		Set("home_score", homeScore).
		Set("away_score", awayScore).
		Set("finished_at", at.UTC()).
		Set("updated_at", at.UTC()).
		Where(qb.Eq("id", fixtureID)).
		Returning(fixtureColumns...).
		ToSQL()
	if err != nil {
		return fixture.Change{}, fmt.Errorf("build update fixture result query: %w", err)
	}

	var row fixtureTableModel
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		return fixture.Change{}, fmt.Errorf("update fixture result fixture=%s: %w", fixtureID, err)
	}
	if err := tx.Commit(); err != nil {
		return fixture.Change{}, fmt.Errorf("commit update fixture result tx: %w", err)
	}

	return fixture.Change{Before: &before, After: row.toDomain()}, nil
}

func (r *FixtureRepository) UpdateSchedule(ctx context.Context, fixtureID string, kickoffAt, at time.Time) (fixture.Change, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fixture.Change{}, fmt.Errorf("begin tx update fixture schedule: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	before, err := lockFixture(ctx, tx, fixtureID)
	if err != nil {
		return fixture.Change{}, err
	}
	if fixture.IsFinishedStatus(before.Status) {
		return fixture.Change{}, errors.Wrapf(fixture.ErrAlreadyFinished, "fixture %s", fixtureID)
	}

	next := before.Clone()
	next.ScheduleHistory = append(next.ScheduleHistory, fixture.ScheduleChange{
		PreviousKickoffAt: before.KickoffAt,
		PreviousDeadline:  before.PredictionDeadline,
		ChangedAt:         at.UTC(),
	})
	next.KickoffAt = kickoffAt.UTC()
	next.PredictionDeadline = fixture.DeadlineFor(kickoffAt.UTC())
	next.UpdatedAt = at.UTC()
	row := fixtureRowFromDomain(next)

	query, args, err := qb.Update("fixtures").
		Set("kickoff_at", row.KickoffAt).
		Set("prediction_deadline", row.PredictionDeadline).
		Set("schedule_history", row.ScheduleHistory).
		Set("updated_at", row.UpdatedAt).
		Where(qb.Eq("id", fixtureID)).
		Returning(fixtureColumns...).
		ToSQL()
	if err != nil {
		return fixture.Change{}, fmt.Errorf("build update fixture schedule query: %w", err)
	}

	var updated fixtureTableModel
	if err := tx.GetContext(ctx, &updated, query, args...); err != nil {
		return fixture.Change{}, fmt.Errorf("update fixture schedule fixture=%s: %w", fixtureID, err)
	}
	if err := tx.Commit(); err != nil {
		return fixture.Change{}, fmt.Errorf("commit update fixture schedule tx: %w", err)
	}

	return fixture.Change{Before: &before, After: updated.toDomain()}, nil
}

func lockFixture(ctx context.Context, tx *sqlx.Tx, fixtureID string) (fixture.Fixture, error) {
	query, args, err := qb.Select(fixtureColumns...).From("fixtures").
		Where(qb.Eq("id", fixtureID)).
		ForUpdate().
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("build lock fixture query: %w", err)
	}

	var row fixtureTableModel
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, errors.Wrapf(fixture.ErrNotFound, "fixture %s", fixtureID)
		}
		return fixture.Fixture{}, fmt.Errorf("lock fixture=%s: %w", fixtureID, err)
	}
	return row.toDomain(), nil
}
