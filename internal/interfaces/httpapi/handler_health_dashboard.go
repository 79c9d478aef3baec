package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/prediction-league/internal/usecase"
)

const readinessTimeout = 2 * time.Second

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz runs every check and answers 503 naming the ones that failed.
func (h *Handler) Readyz(checks map[string]ReadinessCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var failed []string
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				h.logger.WarnContext(ctx, "readiness check failed", "check", name, "error", err)
				failed = append(failed, name)
			}
		}
		if len(failed) > 0 {
			writeError(ctx, w, fmt.Errorf("%w: not ready: %s", usecase.ErrDependencyUnavailable, strings.Join(failed, ", ")))
			return
		}
		writeSuccess(ctx, w, http.StatusOK, map[string]any{"status": "ready", "checks": names})
	}
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDashboard")
	defer span.End()

	userID := strings.TrimSpace(r.PathValue("userID"))
	dashboard, err := h.dashboardService.Get(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get dashboard failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := dashboardDTO{
		UserID:              dashboard.UserID,
		DisplayName:         dashboard.DisplayName,
		Stats:               statsToDTO(dashboard.Stats),
		Rank:                dashboard.Rank,
		NextGameweek:        dashboard.NextGameweek,
		UpcomingFixtures:    fixturesToDTO(dashboard.UpcomingFixtures),
		GameweekPredictions: predictionsToDTO(dashboard.GameweekPredictions),
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
