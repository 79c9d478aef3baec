package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/userstats"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type UserStatsRepository struct {
	db *sqlx.DB
}

func NewUserStatsRepository(db *sqlx.DB) *UserStatsRepository {
	return &UserStatsRepository{db: db}
}

func (r *UserStatsRepository) GetByUserID(ctx context.Context, userID string) (userstats.Profile, bool, error) {
	query, args, err := qb.Select(userProfileColumns...).From("user_profiles").
		Where(qb.Eq("user_id", userID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return userstats.Profile{}, false, fmt.Errorf("build select user profile query: %w", err)
	}

	var row userProfileTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return userstats.Profile{}, false, nil
		}
		return userstats.Profile{}, false, fmt.Errorf("select user profile: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *UserStatsRepository) ListTop(ctx context.Context, limit int) ([]userstats.Profile, error) {
	query, args, err := qb.Select(userProfileColumns...).From("user_profiles").
		OrderBy("total_points DESC", "exact_predictions DESC", "user_id ASC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leaderboard query: %w", err)
	}

	var rows []userProfileTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leaderboard: %w", err)
	}

	out := make([]userstats.Profile, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *UserStatsRepository) RankOf(ctx context.Context, totalPoints int) (int, error) {
	query, args, err := qb.Select("COUNT(DISTINCT total_points)").From("user_profiles").
		Where(qb.Gt("total_points", totalPoints)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build rank query: %w", err)
	}

	var higher int
	if err := r.db.GetContext(ctx, &higher, query, args...); err != nil {
		return 0, fmt.Errorf("select rank: %w", err)
	}
	return higher + 1, nil
}

// UpsertProfile writes only the display name; scoring columns keep their
// stored values.
func (r *UserStatsRepository) UpsertProfile(ctx context.Context, userID, displayName string) (userstats.Profile, error) {
	query, args, err := qb.InsertInto("user_profiles").
		Columns("user_id", "display_name").
		Values(userID, displayName).
		Suffix(`ON CONFLICT (user_id)
DO UPDATE SET
    display_name = EXCLUDED.display_name,
    updated_at = NOW()
RETURNING ` + joinColumns(userProfileColumns)).
		ToSQL()
	if err != nil {
		return userstats.Profile{}, fmt.Errorf("build upsert user profile query: %w", err)
	}

	var row userProfileTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return userstats.Profile{}, fmt.Errorf("upsert user profile=%s: %w", userID, err)
	}
	return row.toDomain(), nil
}
