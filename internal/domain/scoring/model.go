package scoring

import "time"

// OpsPerAward is the number of store writes one award costs: the prediction
// document and the owning user's stats.
const OpsPerAward = 2

// MaxBatchOps is the hard per-commit write limit of the store.
const MaxBatchOps = 500

// Award is one staged result of the aggregation pipeline.
type Award struct {
	PredictionID string
	UserID       string
	FixtureID    string
	Points       int
	CalculatedAt time.Time
}

// CommitResult reports what a batch commit actually changed.
type CommitResult struct {
	Applied []Award
	// Conflicts lists predictions that had already been scored when the batch
	// reached the store.
	Conflicts []string
}
