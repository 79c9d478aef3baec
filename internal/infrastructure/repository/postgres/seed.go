package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the development teams and fixtures into an empty
// database. It does nothing once any team exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, now time.Time) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM teams`); err != nil {
		return fmt.Errorf("count teams for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, t := range memory.SeedTeams() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO teams (code, name, short_name)
VALUES (:code, :name, :short_name)
ON CONFLICT (code) DO NOTHING`, map[string]any{
			"code":       t.Code,
			"name":       t.Name,
			"short_name": t.ShortName,
		})
		if err != nil {
			return fmt.Errorf("bind seed team %s query: %w", t.Code, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed team %s: %w", t.Code, err)
		}
	}

	for _, f := range memory.SeedFixtures(now) {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO fixtures (id, gameweek, home_team, away_team, kickoff_at, prediction_deadline, status)
VALUES (:id, :gameweek, :home_team, :away_team, :kickoff_at, :prediction_deadline, :status)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":                  f.ID,
			"gameweek":            f.Gameweek,
			"home_team":           f.HomeTeam,
			"away_team":           f.AwayTeam,
			"kickoff_at":          f.KickoffAt.UTC(),
			"prediction_deadline": f.PredictionDeadline.UTC(),
			"status":              f.Status,
		})
		if err != nil {
			return fmt.Errorf("bind seed fixture %s query: %w", f.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed fixture %s: %w", f.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
