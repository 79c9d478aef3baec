package prediction

import (
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/scoring"
)

// MaxSubmittedGoals bounds what a user may submit. Scoring itself accepts any
// non-negative count.
const MaxSubmittedGoals = 20

var (
	ErrAlreadyScored     = errors.New("prediction already scored")
	ErrInvalidPrediction = errors.New("invalid prediction")
)

// Prediction is one user's predicted score for one fixture.
type Prediction struct {
	ID           string
	UserID       string
	FixtureID    string
	Gameweek     int
	HomeScore    scoring.RawGoals
	AwayScore    scoring.RawGoals
	PointsEarned *int
	CalculatedAt *time.Time
	IsSubmitted  bool
	SubmittedAt  time.Time
	UpdatedAt    time.Time
}

func BuildID(userID, fixtureID string, gameweek int) string {
	return strings.TrimSpace(userID) + "_" + strings.TrimSpace(fixtureID) + "_GW" + strconv.Itoa(gameweek)
}

// IsScored reports whether a previous aggregation run already scored this
// prediction.
func (p Prediction) IsScored() bool {
	return p.PointsEarned != nil && p.CalculatedAt != nil
}

func (p Prediction) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return errors.Wrap(ErrInvalidPrediction, "user id is required")
	}
	if strings.TrimSpace(p.FixtureID) == "" {
		return errors.Wrap(ErrInvalidPrediction, "fixture id is required")
	}
	if p.Gameweek <= 0 {
		return errors.Wrap(ErrInvalidPrediction, "gameweek must be > 0")
	}
	if p.ID != BuildID(p.UserID, p.FixtureID, p.Gameweek) {
		return errors.Wrapf(ErrInvalidPrediction, "id %q does not match user, fixture and gameweek", p.ID)
	}
	return nil
}

func (p Prediction) Clone() Prediction {
	out := p
	if p.PointsEarned != nil {
		v := *p.PointsEarned
		out.PointsEarned = &v
	}
	if p.CalculatedAt != nil {
		v := *p.CalculatedAt
		out.CalculatedAt = &v
	}
	return out
}
