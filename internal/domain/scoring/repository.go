package scoring

import "context"

// Repository commits award batches. One call is one atomic commit: every award
// marks its prediction scored and folds the points into the owner's stats,
// with stats updates serialized per user.
type Repository interface {
	CommitAwards(ctx context.Context, awards []Award) (CommitResult, error)
}
