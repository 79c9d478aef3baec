package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/scoring"
	"github.com/riskibarqy/prediction-league/internal/domain/userstats"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

// ScoringRepository commits one award batch per transaction. Predictions are
// claimed with a conditional update on calculated_at; profiles are locked
// with SELECT ... FOR UPDATE in user id order.
type ScoringRepository struct {
	db *sqlx.DB
}

func NewScoringRepository(db *sqlx.DB) *ScoringRepository {
	return &ScoringRepository{db: db}
}

func (r *ScoringRepository) CommitAwards(ctx context.Context, awards []scoring.Award) (scoring.CommitResult, error) {
	result := scoring.CommitResult{Applied: make([]scoring.Award, 0, len(awards))}
	if len(awards) == 0 {
		return result, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return scoring.CommitResult{}, fmt.Errorf("begin tx commit awards: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	pointsByUser := make(map[string][]scoring.Award)
	for _, award := range awards {
		claimed, err := claimPrediction(ctx, tx, award)
		if err != nil {
			return scoring.CommitResult{}, err
		}
		if !claimed {
			result.Conflicts = append(result.Conflicts, award.PredictionID)
			continue
		}
		pointsByUser[award.UserID] = append(pointsByUser[award.UserID], award)
		result.Applied = append(result.Applied, award)
	}

	userIDs := make([]string, 0, len(pointsByUser))
	for userID := range pointsByUser {
		userIDs = append(userIDs, userID)
	}
	sort.Strings(userIDs)

	for _, userID := range userIDs {
		if err := applyUserAwards(ctx, tx, userID, pointsByUser[userID]); err != nil {
			return scoring.CommitResult{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return scoring.CommitResult{}, fmt.Errorf("commit awards tx: %w", err)
	}

	return result, nil
}

func claimPrediction(ctx context.Context, tx *sqlx.Tx, award scoring.Award) (bool, error) {
	query, args, err := qb.Update("predictions").
		Set("points_earned", award.Points).
		Set("calculated_at", award.CalculatedAt.UTC()).
		Set("updated_at", award.CalculatedAt.UTC()).
		Where(
			qb.Eq("id", award.PredictionID),
			qb.IsNull("calculated_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build claim prediction query: %w", err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("claim prediction=%s: %w", award.PredictionID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected claim prediction: %w", err)
	}
	return affected == 1, nil
}

func applyUserAwards(ctx context.Context, tx *sqlx.Tx, userID string, awards []scoring.Award) error {
	ensureQuery, ensureArgs, err := qb.InsertInto("user_profiles").
		Columns("user_id").
		Values(userID).
		Suffix("ON CONFLICT (user_id) DO NOTHING").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build ensure user profile query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, ensureQuery, ensureArgs...); err != nil {
		return fmt.Errorf("ensure user profile=%s: %w", userID, err)
	}

	lockQuery, lockArgs, err := qb.Select(userProfileColumns...).From("user_profiles").
		Where(qb.Eq("user_id", userID)).
		ForUpdate().
		ToSQL()
	if err != nil {
		return fmt.Errorf("build lock user profile query: %w", err)
	}
	var row userProfileTableModel
	if err := tx.GetContext(ctx, &row, lockQuery, lockArgs...); err != nil {
		return fmt.Errorf("lock user profile=%s: %w", userID, err)
	}

	stats := row.toDomain().Stats
	for _, award := range awards {
		stats = stats.Apply(award.Points)
	}

	return writeUserStats(ctx, tx, userID, stats, awards[len(awards)-1])
}

func writeUserStats(ctx context.Context, tx *sqlx.Tx, userID string, stats userstats.Stats, last scoring.Award) error {
	query, args, err := qb.Update("user_profiles").
		Set("total_points", stats.TotalPoints).
		Set("exact_predictions", stats.ExactPredictions).
		Set("correct_predictions", stats.CorrectPredictions).
		Set("wrong_predictions", stats.WrongPredictions).
		Set("processed_predictions_count", stats.ProcessedPredictionsCount).
		Set("accuracy_rate", stats.AccuracyRate).
		Set("current_streak", stats.CurrentStreak).
		Set("longest_streak", stats.LongestStreak).
		Set("updated_at", last.CalculatedAt.UTC()).
		Where(qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update user stats query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update user stats=%s: %w", userID, err)
	}
	return nil
}
