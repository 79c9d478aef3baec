package fixture

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	StatusUpcoming = "upcoming"
	StatusLive     = "live"
	StatusFinished = "finished"
)

// PredictionLead is how long before kickoff predictions close.
const PredictionLead = time.Hour

var (
	ErrNotFound        = errors.New("fixture not found")
	ErrAlreadyFinished = errors.New("fixture already finished")
	ErrInvalidFixture  = errors.New("invalid fixture")
)

// Fixture represents one scheduled match.
type Fixture struct {
	ID                 string
	Gameweek           int
	HomeTeam           string
	AwayTeam           string
	KickoffAt          time.Time
	PredictionDeadline time.Time
	Status             string
	HomeScore          *int
	AwayScore          *int
	FinishedAt         *time.Time
	ScheduleHistory    []ScheduleChange
	UpdatedAt          time.Time
}

// ScheduleChange records the values a schedule update replaced.
type ScheduleChange struct {
	PreviousKickoffAt time.Time
	PreviousDeadline  time.Time
	ChangedAt         time.Time
}

// Change is the before/after pair of a single fixture write. Before is nil
// when the write created the fixture.
type Change struct {
	Before *Fixture
	After  Fixture
}

func BuildID(gameweek int, homeTeam, awayTeam string) string {
	return "GW" + strconv.Itoa(gameweek) + "-" + normalizeCode(homeTeam) + "-" + normalizeCode(awayTeam)
}

func DeadlineFor(kickoffAt time.Time) time.Time {
	return kickoffAt.Add(-PredictionLead)
}

func NormalizeStatus(value string) string {
	status := strings.ToLower(strings.TrimSpace(value))
	switch status {
	case "":
		return StatusUpcoming
	case "ft", "full_time", "completed":
		return StatusFinished
	case "in_play", "inplay":
		return StatusLive
	}
	return status
}

func IsFinishedStatus(status string) bool {
	return NormalizeStatus(status) == StatusFinished
}

func IsValidStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusUpcoming, StatusLive, StatusFinished:
		return true
	default:
		return false
	}
}

// HasScore reports whether both legs of the result are present.
func (f Fixture) HasScore() bool {
	return f.HomeScore != nil && f.AwayScore != nil
}

func (f Fixture) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return errors.Wrap(ErrInvalidFixture, "id is required")
	}
	if f.Gameweek <= 0 {
		return errors.Wrapf(ErrInvalidFixture, "fixture %s: gameweek must be > 0", f.ID)
	}
	if normalizeCode(f.HomeTeam) == "" || normalizeCode(f.AwayTeam) == "" {
		return errors.Wrapf(ErrInvalidFixture, "fixture %s: both teams are required", f.ID)
	}
	if normalizeCode(f.HomeTeam) == normalizeCode(f.AwayTeam) {
		return errors.Wrapf(ErrInvalidFixture, "fixture %s: a team cannot play itself", f.ID)
	}
	if !IsValidStatus(f.Status) {
		return errors.Wrapf(ErrInvalidFixture, "fixture %s: unknown status %q", f.ID, f.Status)
	}
	finished := IsFinishedStatus(f.Status)
	if finished != f.HasScore() || (!finished && (f.HomeScore != nil || f.AwayScore != nil)) {
		return errors.Wrapf(ErrInvalidFixture, "fixture %s: scores must be set iff status is finished", f.ID)
	}
	if f.HasScore() && (*f.HomeScore < 0 || *f.AwayScore < 0) {
		return errors.Wrapf(ErrInvalidFixture, "fixture %s: scores cannot be negative", f.ID)
	}

	return nil
}

// Clone returns a deep copy so callers can hand out fixtures without sharing
// pointers into a store.
func (f Fixture) Clone() Fixture {
	out := f
	if f.HomeScore != nil {
		v := *f.HomeScore
		out.HomeScore = &v
	}
	if f.AwayScore != nil {
		v := *f.AwayScore
		out.AwayScore = &v
	}
	if f.FinishedAt != nil {
		v := *f.FinishedAt
		out.FinishedAt = &v
	}
	out.ScheduleHistory = append([]ScheduleChange(nil), f.ScheduleHistory...)
	return out
}

func (f Fixture) String() string {
	if f.HasScore() {
		return fmt.Sprintf("%s %s %d-%d %s (%s)", f.ID, f.HomeTeam, *f.HomeScore, *f.AwayScore, f.AwayTeam, f.Status)
	}
	return fmt.Sprintf("%s %s v %s (%s)", f.ID, f.HomeTeam, f.AwayTeam, f.Status)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
