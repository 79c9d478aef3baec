package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/fixture"
)

var fixtureColumns = []string{
	"id",
	"gameweek",
	"home_team",
	"away_team",
	"kickoff_at",
	"prediction_deadline",
	"status",
	"home_score",
	"away_score",
	"finished_at",
	"schedule_history",
	"updated_at",
}

type scheduleChangeRow struct {
	PreviousKickoffAt time.Time `json:"previous_kickoff_at"`
	PreviousDeadline  time.Time `json:"previous_deadline"`
	ChangedAt         time.Time `json:"changed_at"`
}

type fixtureTableModel struct {
	ID                 string                          `db:"id"`
	Gameweek           int                             `db:"gameweek"`
	HomeTeam           string                          `db:"home_team"`
	AwayTeam           string                          `db:"away_team"`
	KickoffAt          time.Time                       `db:"kickoff_at"`
	PredictionDeadline time.Time                       `db:"prediction_deadline"`
	Status             string                          `db:"status"`
	HomeScore          sql.NullInt64                   `db:"home_score"`
	AwayScore          sql.NullInt64                   `db:"away_score"`
	FinishedAt         sql.NullTime                    `db:"finished_at"`
	ScheduleHistory    jsonColumn[[]scheduleChangeRow] `db:"schedule_history"`
	UpdatedAt          time.Time                       `db:"updated_at"`
}

func (row fixtureTableModel) toDomain() fixture.Fixture {
	out := fixture.Fixture{
		ID:                 row.ID,
		Gameweek:           row.Gameweek,
		HomeTeam:           row.HomeTeam,
		AwayTeam:           row.AwayTeam,
		KickoffAt:          row.KickoffAt.UTC(),
		PredictionDeadline: row.PredictionDeadline.UTC(),
		Status:             fixture.NormalizeStatus(row.Status),
		HomeScore:          nullIntToPtr(row.HomeScore),
		AwayScore:          nullIntToPtr(row.AwayScore),
		FinishedAt:         nullTimeToPtr(row.FinishedAt),
		UpdatedAt:          row.UpdatedAt.UTC(),
	}
	for _, change := range row.ScheduleHistory.V {
		out.ScheduleHistory = append(out.ScheduleHistory, fixture.ScheduleChange{
			PreviousKickoffAt: change.PreviousKickoffAt.UTC(),
			PreviousDeadline:  change.PreviousDeadline.UTC(),
			ChangedAt:         change.ChangedAt.UTC(),
		})
	}
	return out
}

func fixtureRowFromDomain(f fixture.Fixture) fixtureTableModel {
	history := make([]scheduleChangeRow, 0, len(f.ScheduleHistory))
	for _, change := range f.ScheduleHistory {
		history = append(history, scheduleChangeRow{
			PreviousKickoffAt: change.PreviousKickoffAt.UTC(),
			PreviousDeadline:  change.PreviousDeadline.UTC(),
			ChangedAt:         change.ChangedAt.UTC(),
		})
	}

	return fixtureTableModel{
		ID:                 f.ID,
		Gameweek:           f.Gameweek,
		HomeTeam:           f.HomeTeam,
		AwayTeam:           f.AwayTeam,
		KickoffAt:          f.KickoffAt.UTC(),
		PredictionDeadline: f.PredictionDeadline.UTC(),
		Status:             fixture.NormalizeStatus(f.Status),
		HomeScore:          intPtrToNull(f.HomeScore),
		AwayScore:          intPtrToNull(f.AwayScore),
		FinishedAt:         timePtrToNull(f.FinishedAt),
		ScheduleHistory:    jsonColumn[[]scheduleChangeRow]{V: history},
		UpdatedAt:          f.UpdatedAt.UTC(),
	}
}
