package userstats

import "context"

// Repository is the read side of user profiles plus the non-scoring edit path.
// Scoring-derived fields are written only through scoring.Repository.
type Repository interface {
	GetByUserID(ctx context.Context, userID string) (Profile, bool, error)
	ListTop(ctx context.Context, limit int) ([]Profile, error)
	// RankOf returns the dense rank of a total, 1 being the best.
	RankOf(ctx context.Context, totalPoints int) (int, error)
	UpsertProfile(ctx context.Context, userID, displayName string) (Profile, error)
}
