package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/prediction-league/internal/usecase"
)

func (h *Handler) RecordResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordResult")
	defer span.End()

	var req recordResultRequest
	if err := h.decodeBody(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.resultService.RecordResult(ctx, usecase.RecordResultInput{
		FixtureID: req.FixtureID,
		HomeScore: *req.HomeScore,
		AwayScore: *req.AwayScore,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record result failed", "fixture_id", req.FixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureToDTO(item))
}

func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateSchedule")
	defer span.End()

	var req updateScheduleRequest
	if err := h.decodeBody(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.resultService.UpdateSchedule(ctx, usecase.UpdateScheduleInput{
		FixtureID:    req.FixtureID,
		NewKickoffAt: req.NewKickoffTime,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update schedule failed", "fixture_id", req.FixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureToDTO(item))
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Import")
	defer span.End()

	kind := strings.ToLower(strings.TrimSpace(r.PathValue("kind")))

	var (
		result usecase.ImportResult
		err    error
	)
	switch kind {
	case "teams":
		var req importTeamsRequest
		if err := h.decodeBody(ctx, w, r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
		result, err = h.ingestionService.ImportTeams(ctx, req.Items)
	case "fixtures":
		var req importFixturesRequest
		if err := h.decodeBody(ctx, w, r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
		result, err = h.ingestionService.ImportFixtures(ctx, req.Items)
	case "predictions":
		var req importPredictionsRequest
		if err := h.decodeBody(ctx, w, r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
		result, err = h.ingestionService.ImportPredictions(ctx, req.Items)
	default:
		writeError(ctx, w, fmt.Errorf("%w: unknown import kind %q", usecase.ErrNotFound, kind))
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "import failed", "kind", kind, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, importResultToDTO(result))
}

func (h *Handler) RerunScoring(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RerunScoring")
	defer span.End()

	var req rerunScoringRequest
	if err := h.decodeBody(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if fixtureID := strings.TrimSpace(req.FixtureID); fixtureID != "" {
		row, err := h.rescoreService.RescoreFixture(ctx, fixtureID)
		if err != nil && row.FixtureID == "" {
			h.logger.WarnContext(ctx, "rerun fixture scoring failed", "fixture_id", fixtureID, "error", err)
			writeError(ctx, w, err)
			return
		}

		out := rescoreResultDTO{Fixtures: []rescoreFixtureDTO{rescoreFixtureToDTO(row)}}
		if err != nil {
			out.FailedCount = 1
		} else {
			out.SuccessCount = 1
		}
		writeSuccess(ctx, w, http.StatusOK, out)
		return
	}

	result, err := h.rescoreService.RescoreGameweek(ctx, req.Gameweek)
	if err != nil {
		h.logger.WarnContext(ctx, "rerun gameweek scoring failed", "gameweek", req.Gameweek, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := rescoreResultDTO{
		Gameweek:     result.Gameweek,
		Fixtures:     make([]rescoreFixtureDTO, 0, len(result.Fixtures)),
		SuccessCount: result.SuccessCount,
		FailedCount:  result.FailedCount,
	}
	for _, row := range result.Fixtures {
		out.Fixtures = append(out.Fixtures, rescoreFixtureToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}
