package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/scoring"
)

var predictionColumns = []string{
	"id",
	"user_id",
	"fixture_id",
	"gameweek",
	"home_score",
	"away_score",
	"points_earned",
	"calculated_at",
	"is_submitted",
	"submitted_at",
	"updated_at",
}

type predictionTableModel struct {
	ID           string        `db:"id"`
	UserID       string        `db:"user_id"`
	FixtureID    string        `db:"fixture_id"`
	Gameweek     int           `db:"gameweek"`
	HomeScore    string        `db:"home_score"`
	AwayScore    string        `db:"away_score"`
	PointsEarned sql.NullInt64 `db:"points_earned"`
	CalculatedAt sql.NullTime  `db:"calculated_at"`
	IsSubmitted  bool          `db:"is_submitted"`
	SubmittedAt  time.Time     `db:"submitted_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

type predictionInsertModel struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	FixtureID   string    `db:"fixture_id"`
	Gameweek    int       `db:"gameweek"`
	HomeScore   string    `db:"home_score"`
	AwayScore   string    `db:"away_score"`
	IsSubmitted bool      `db:"is_submitted"`
	SubmittedAt time.Time `db:"submitted_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (row predictionTableModel) toDomain() prediction.Prediction {
	return prediction.Prediction{
		ID:           row.ID,
		UserID:       row.UserID,
		FixtureID:    row.FixtureID,
		Gameweek:     row.Gameweek,
		HomeScore:    scoring.RawGoals(row.HomeScore),
		AwayScore:    scoring.RawGoals(row.AwayScore),
		PointsEarned: nullIntToPtr(row.PointsEarned),
		CalculatedAt: nullTimeToPtr(row.CalculatedAt),
		IsSubmitted:  row.IsSubmitted,
		SubmittedAt:  row.SubmittedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
}
