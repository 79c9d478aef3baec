package changefeed

import (
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/fixture"
	"github.com/valyala/bytebufferpool"
)

var ErrMalformedEvent = errors.New("malformed fixture change event")

// The field names match the fixtures table columns so that rows serialized by
// the database trigger decode with the same types.
type fixturePayload struct {
	ID                 string                  `json:"id"`
	Gameweek           int                     `json:"gameweek"`
	HomeTeam           string                  `json:"home_team"`
	AwayTeam           string                  `json:"away_team"`
	KickoffAt          time.Time               `json:"kickoff_at"`
	PredictionDeadline time.Time               `json:"prediction_deadline"`
	Status             string                  `json:"status"`
	HomeScore          *int                    `json:"home_score"`
	AwayScore          *int                    `json:"away_score"`
	FinishedAt         *time.Time              `json:"finished_at"`
	ScheduleHistory    []scheduleChangePayload `json:"schedule_history"`
	UpdatedAt          time.Time               `json:"updated_at"`
}

type scheduleChangePayload struct {
	PreviousKickoffAt time.Time `json:"previous_kickoff_at"`
	PreviousDeadline  time.Time `json:"previous_deadline"`
	ChangedAt         time.Time `json:"changed_at"`
}

type changePayload struct {
	Before *fixturePayload `json:"before"`
	After  *fixturePayload `json:"after"`
}

func EncodeChange(change fixture.Change) ([]byte, error) {
	payload := changePayload{After: payloadFromFixture(change.After)}
	if change.Before != nil {
		payload.Before = payloadFromFixture(*change.Before)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		return nil, errors.Wrap(err, "encode fixture change")
	}
	return append([]byte(nil), buf.B...), nil
}

func DecodeChange(data []byte) (fixture.Change, error) {
	var payload changePayload
	if err := sonic.Unmarshal(data, &payload); err != nil {
		return fixture.Change{}, errors.Wrapf(ErrMalformedEvent, "decode: %v", err)
	}
	if payload.After == nil || payload.After.ID == "" {
		return fixture.Change{}, errors.Wrap(ErrMalformedEvent, "after image is required")
	}

	change := fixture.Change{After: payload.After.toFixture()}
	if payload.Before != nil {
		before := payload.Before.toFixture()
		change.Before = &before
	}
	return change, nil
}

func payloadFromFixture(f fixture.Fixture) *fixturePayload {
	out := &fixturePayload{
		ID:                 f.ID,
		Gameweek:           f.Gameweek,
		HomeTeam:           f.HomeTeam,
		AwayTeam:           f.AwayTeam,
		KickoffAt:          f.KickoffAt.UTC(),
		PredictionDeadline: f.PredictionDeadline.UTC(),
		Status:             f.Status,
		HomeScore:          f.HomeScore,
		AwayScore:          f.AwayScore,
		FinishedAt:         f.FinishedAt,
		ScheduleHistory:    make([]scheduleChangePayload, 0, len(f.ScheduleHistory)),
		UpdatedAt:          f.UpdatedAt.UTC(),
	}
	for _, change := range f.ScheduleHistory {
		out.ScheduleHistory = append(out.ScheduleHistory, scheduleChangePayload{
			PreviousKickoffAt: change.PreviousKickoffAt.UTC(),
			PreviousDeadline:  change.PreviousDeadline.UTC(),
			ChangedAt:         change.ChangedAt.UTC(),
		})
	}
	return out
}

func (p fixturePayload) toFixture() fixture.Fixture {
	out := fixture.Fixture{
		ID:                 p.ID,
		Gameweek:           p.Gameweek,
		HomeTeam:           p.HomeTeam,
		AwayTeam:           p.AwayTeam,
		KickoffAt:          p.KickoffAt.UTC(),
		PredictionDeadline: p.PredictionDeadline.UTC(),
		Status:             fixture.NormalizeStatus(p.Status),
		HomeScore:          p.HomeScore,
		AwayScore:          p.AwayScore,
		UpdatedAt:          p.UpdatedAt.UTC(),
	}
	if p.FinishedAt != nil {
		at := p.FinishedAt.UTC()
		out.FinishedAt = &at
	}
	for _, change := range p.ScheduleHistory {
		out.ScheduleHistory = append(out.ScheduleHistory, fixture.ScheduleChange{
			PreviousKickoffAt: change.PreviousKickoffAt.UTC(),
			PreviousDeadline:  change.PreviousDeadline.UTC(),
			ChangedAt:         change.ChangedAt.UTC(),
		})
	}
	return out
}
