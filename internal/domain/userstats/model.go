package userstats

import (
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/scoring"
)

// Stats is the scoring aggregate nested in a user profile.
type Stats struct {
	TotalPoints               int
	ExactPredictions          int
	CorrectPredictions        int
	WrongPredictions          int
	ProcessedPredictionsCount int
	AccuracyRate              int
	CurrentStreak             int
	LongestStreak             int
}

// Profile is the per-user document. DisplayName is edited by the user; Stats
// only by the aggregation pipeline.
type Profile struct {
	UserID      string
	DisplayName string
	Stats       Stats
	UpdatedAt   time.Time
}

// Apply folds one scored prediction into the aggregate.
func (s Stats) Apply(points int) Stats {
	next := s
	next.ProcessedPredictionsCount++
	next.TotalPoints += points

	switch scoring.KindOf(points) {
	case scoring.KindExact:
		next.ExactPredictions++
	case scoring.KindCorrect:
		next.CorrectPredictions++
	default:
		next.WrongPredictions++
	}

	if points > 0 {
		next.CurrentStreak++
		if next.CurrentStreak > next.LongestStreak {
			next.LongestStreak = next.CurrentStreak
		}
	} else {
		next.CurrentStreak = 0
	}

	next.AccuracyRate = AccuracyRate(next.ExactPredictions+next.CorrectPredictions, next.ProcessedPredictionsCount)
	return next
}

// AccuracyRate is round-half-up(100*hits/processed) in integer arithmetic.
// It returns 0 when nothing was processed.
func AccuracyRate(hits, processed int) int {
	if processed <= 0 {
		return 0
	}
	return (200*hits + processed) / (2 * processed)
}

// Consistent reports whether the counters satisfy the aggregate invariants.
func (s Stats) Consistent() bool {
	if s.ProcessedPredictionsCount != s.ExactPredictions+s.CorrectPredictions+s.WrongPredictions {
		return false
	}
	if s.ProcessedPredictionsCount == 0 {
		return true
	}
	return s.AccuracyRate == AccuracyRate(s.ExactPredictions+s.CorrectPredictions, s.ProcessedPredictionsCount)
}
