package memory

import (
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/fixture"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/team"
	"github.com/riskibarqy/prediction-league/internal/domain/userstats"
)

// Store holds every in-memory collection behind one lock, so a scoring batch
// can update predictions and profiles together.
type Store struct {
	mu sync.RWMutex

	teams                map[string]team.Team
	fixtures             map[string]fixture.Fixture
	predictions          map[string]prediction.Prediction
	predictionsByFixture map[string][]string
	profiles             map[string]userstats.Profile
}

func NewStore() *Store {
	return &Store{
		teams:                make(map[string]team.Team),
		fixtures:             make(map[string]fixture.Fixture),
		predictions:          make(map[string]prediction.Prediction),
		predictionsByFixture: make(map[string][]string),
		profiles:             make(map[string]userstats.Profile),
	}
}

// Repositories returns views sharing this store.
func (s *Store) Repositories() Repositories {
	return Repositories{
		Teams:       &TeamRepository{store: s},
		Fixtures:    &FixtureRepository{store: s},
		Predictions: &PredictionRepository{store: s},
		UserStats:   &UserStatsRepository{store: s},
		Scoring:     &ScoringRepository{store: s},
	}
}

type Repositories struct {
	Teams       *TeamRepository
	Fixtures    *FixtureRepository
	Predictions *PredictionRepository
	UserStats   *UserStatsRepository
	Scoring     *ScoringRepository
}
