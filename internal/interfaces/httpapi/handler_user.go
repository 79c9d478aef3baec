package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/prediction-league/internal/usecase"
)

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	limit, _, err := queryPositiveInt(r, "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.leaderboardService.List(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leaderboard failed", "limit", limit, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderboardEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, leaderboardEntryDTO{
			Rank:        entry.Rank,
			UserID:      entry.UserID,
			DisplayName: entry.DisplayName,
			Stats:       statsToDTO(entry.Stats),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUserStats")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))
	profile, err := h.profileService.Get(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "get user stats failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileToDTO(profile))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateProfile")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))
	var req updateProfileRequest
	if err := h.decodeBody(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	profile, err := h.profileService.UpdateDisplayName(ctx, userID, req.DisplayName)
	if err != nil {
		h.logger.WarnContext(ctx, "update profile failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, profileToDTO(profile))
}

func (h *Handler) SubmitPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPrediction")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))
	var req submitPredictionRequest
	if err := h.decodeBody(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.predictionService.Submit(ctx, usecase.SubmitPredictionInput{
		UserID:    userID,
		FixtureID: req.FixtureID,
		HomeScore: *req.HomeScore,
		AwayScore: *req.AwayScore,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit prediction failed", "user_id", userID, "fixture_id", req.FixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(item))
}

func (h *Handler) ListUserPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUserPredictions")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))
	gameweek, _, err := queryPositiveInt(r, "gameweek")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.predictionService.ListByUser(ctx, userID, gameweek)
	if err != nil {
		h.logger.WarnContext(ctx, "list user predictions failed", "user_id", userID, "gameweek", gameweek, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionsToDTO(items))
}
