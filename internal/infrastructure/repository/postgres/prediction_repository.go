package postgres

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) GetByID(ctx context.Context, predictionID string) (prediction.Prediction, bool, error) {
	query, args, err := qb.Select(predictionColumns...).From("predictions").
		Where(qb.Eq("id", predictionID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build select prediction by id query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("select prediction by id: %w", err)
	}

	return row.toDomain(), true, nil
}

// ListByFixture orders by insertion sequence, which is arrival order.
func (r *PredictionRepository) ListByFixture(ctx context.Context, fixtureID string) ([]prediction.Prediction, error) {
	query, args, err := qb.Select(predictionColumns...).From("predictions").
		Where(qb.Eq("fixture_id", fixtureID)).
		OrderBy("seq").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select predictions by fixture query: %w", err)
	}

	return r.selectPredictions(ctx, "select predictions by fixture", query, args)
}

func (r *PredictionRepository) ListByUser(ctx context.Context, userID string, gameweek int) ([]prediction.Prediction, error) {
	conditions := []qb.Condition{qb.Eq("user_id", userID)}
	if gameweek > 0 {
		conditions = append(conditions, qb.Eq("gameweek", gameweek))
	}

	query, args, err := qb.Select(predictionColumns...).From("predictions").
		Where(conditions...).
		OrderBy("gameweek", "fixture_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select predictions by user query: %w", err)
	}

	return r.selectPredictions(ctx, "select predictions by user", query, args)
}

func (r *PredictionRepository) selectPredictions(ctx context.Context, op, query string, args []any) ([]prediction.Prediction, error) {
	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Upsert keeps the original sequence on resubmission. The conflict update is
// guarded on calculated_at so a scored row is never rewritten.
func (r *PredictionRepository) Upsert(ctx context.Context, item prediction.Prediction) error {
	if err := item.Validate(); err != nil {
		return err
	}

	query, args, err := qb.InsertModels("predictions", []predictionInsertModel{{
		ID:          item.ID,
		UserID:      item.UserID,
		FixtureID:   item.FixtureID,
		Gameweek:    item.Gameweek,
		HomeScore:   string(item.HomeScore),
		AwayScore:   string(item.AwayScore),
		IsSubmitted: item.IsSubmitted,
		SubmittedAt: item.SubmittedAt.UTC(),
		UpdatedAt:   item.UpdatedAt.UTC(),
	}}, `ON CONFLICT (id)
DO UPDATE SET
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    is_submitted = EXCLUDED.is_submitted,
    submitted_at = EXCLUDED.submitted_at,
    updated_at = EXCLUDED.updated_at
WHERE predictions.calculated_at IS NULL`)
	if err != nil {
		return fmt.Errorf("build upsert prediction query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("upsert prediction=%s: %w", item.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected upsert prediction: %w", err)
	}
	if affected == 0 {
		return errors.Wrapf(prediction.ErrAlreadyScored, "prediction %s", item.ID)
	}

	return nil
}
