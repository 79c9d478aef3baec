package prediction

import "context"

// Repository exposes prediction persistence needed by use cases.
type Repository interface {
	GetByID(ctx context.Context, predictionID string) (Prediction, bool, error)
	// ListByFixture returns every prediction for the fixture in arrival order.
	ListByFixture(ctx context.Context, fixtureID string) ([]Prediction, error)
	// ListByUser filters by gameweek when gameweek > 0.
	ListByUser(ctx context.Context, userID string, gameweek int) ([]Prediction, error)
	// Upsert writes the submitted score. It fails with ErrAlreadyScored when the
	// stored prediction has been scored.
	Upsert(ctx context.Context, item Prediction) error
}
