package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/riskibarqy/prediction-league/internal/domain/userstats"
)

const maxDisplayNameLength = 50

type ProfileService struct {
	userRepo userstats.Repository
}

func NewProfileService(userRepo userstats.Repository) *ProfileService {
	return &ProfileService{userRepo: userRepo}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (userstats.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.Get")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return userstats.Profile{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	profile, exists, err := s.userRepo.GetByUserID(ctx, userID)
	if err != nil {
		return userstats.Profile{}, fmt.Errorf("get user profile: %w", err)
	}
	if !exists {
		return userstats.Profile{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}

	return profile, nil
}

// UpdateDisplayName touches only the display name; scoring fields are left to
// the aggregation pipeline.
func (s *ProfileService) UpdateDisplayName(ctx context.Context, userID, displayName string) (userstats.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.UpdateDisplayName")
	defer span.End()

	userID = strings.TrimSpace(userID)
	displayName = strings.TrimSpace(displayName)
	if userID == "" {
		return userstats.Profile{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if displayName == "" || utf8.RuneCountInString(displayName) > maxDisplayNameLength {
		return userstats.Profile{}, fmt.Errorf("%w: display name must be 1-%d characters", ErrInvalidInput, maxDisplayNameLength)
	}

	profile, err := s.userRepo.UpsertProfile(ctx, userID, displayName)
	if err != nil {
		return userstats.Profile{}, fmt.Errorf("upsert user profile: %w", err)
	}

	return profile, nil
}
