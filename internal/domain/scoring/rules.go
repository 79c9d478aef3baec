package scoring

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	PointsExact   = 3
	PointsOutcome = 1
	PointsMiss    = 0
)

var ErrInvalidGoals = errors.New("invalid goal count")

// Outcome is the match result seen from the home side.
type Outcome int

const (
	OutcomeAwayWin Outcome = -1
	OutcomeDraw    Outcome = 0
	OutcomeHomeWin Outcome = 1
)

// Kind classifies a scored prediction for the aggregate counters.
type Kind string

const (
	KindExact   Kind = "exact"
	KindCorrect Kind = "correct"
	KindWrong   Kind = "wrong"
)

// Scoreline is a validated pair of goal counts.
type Scoreline struct {
	Home int
	Away int
}

// RawGoals is a goal count as stored on a prediction, before validation.
// Bulk-imported documents may carry it as a string.
type RawGoals string

// GoalsFromInt converts a validated count into its stored form.
func GoalsFromInt(v int) RawGoals {
	return RawGoals(strconv.Itoa(v))
}

func OutcomeOf(s Scoreline) Outcome {
	switch {
	case s.Home > s.Away:
		return OutcomeHomeWin
	case s.Home < s.Away:
		return OutcomeAwayWin
	default:
		return OutcomeDraw
	}
}

// Score applies the 3/1/0 rule.
func Score(predicted, actual Scoreline) int {
	if predicted == actual {
		return PointsExact
	}
	if OutcomeOf(predicted) == OutcomeOf(actual) {
		return PointsOutcome
	}
	return PointsMiss
}

// ParseGoals rejects anything that is not a plain non-negative integer.
func ParseGoals(raw RawGoals) (int, error) {
	value := strings.TrimSpace(string(raw))
	if value == "" {
		return 0, errors.Wrap(ErrInvalidGoals, "goal count is missing")
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidGoals, "goal count %q is not an integer", value)
	}
	if n < 0 {
		return 0, errors.Wrapf(ErrInvalidGoals, "goal count %d is negative", n)
	}
	return n, nil
}

// ScoreRaw validates both predicted legs before scoring.
func ScoreRaw(predictedHome, predictedAway RawGoals, actual Scoreline) (int, error) {
	home, err := ParseGoals(predictedHome)
	if err != nil {
		return 0, errors.Wrap(err, "predicted home")
	}
	away, err := ParseGoals(predictedAway)
	if err != nil {
		return 0, errors.Wrap(err, "predicted away")
	}
	if actual.Home < 0 || actual.Away < 0 {
		return 0, errors.Newf("actual score %d-%d is negative", actual.Home, actual.Away)
	}

	return Score(Scoreline{Home: home, Away: away}, actual), nil
}

func KindOf(points int) Kind {
	switch points {
	case PointsExact:
		return KindExact
	case PointsOutcome:
		return KindCorrect
	default:
		return KindWrong
	}
}
