package postgres

import (
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/userstats"
)

var userProfileColumns = []string{
	"user_id",
	"display_name",
	"total_points",
	"exact_predictions",
	"correct_predictions",
	"wrong_predictions",
	"processed_predictions_count",
	"accuracy_rate",
	"current_streak",
	"longest_streak",
	"updated_at",
}

type userProfileTableModel struct {
	UserID                    string    `db:"user_id"`
	DisplayName               string    `db:"display_name"`
	TotalPoints               int       `db:"total_points"`
	ExactPredictions          int       `db:"exact_predictions"`
	CorrectPredictions        int       `db:"correct_predictions"`
	WrongPredictions          int       `db:"wrong_predictions"`
	ProcessedPredictionsCount int       `db:"processed_predictions_count"`
	AccuracyRate              int       `db:"accuracy_rate"`
	CurrentStreak             int       `db:"current_streak"`
	LongestStreak             int       `db:"longest_streak"`
	UpdatedAt                 time.Time `db:"updated_at"`
}

func (row userProfileTableModel) toDomain() userstats.Profile {
	return userstats.Profile{
		UserID:      row.UserID,
		DisplayName: row.DisplayName,
		Stats: userstats.Stats{
			TotalPoints:               row.TotalPoints,
			ExactPredictions:          row.ExactPredictions,
			CorrectPredictions:        row.CorrectPredictions,
			WrongPredictions:          row.WrongPredictions,
			ProcessedPredictionsCount: row.ProcessedPredictionsCount,
			AccuracyRate:              row.AccuracyRate,
			CurrentStreak:             row.CurrentStreak,
			LongestStreak:             row.LongestStreak,
		},
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}
