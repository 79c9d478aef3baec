package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

func TestReadyz_ReportsFailedChecks(t *testing.T) {
	t.Parallel()

	h := &Handler{logger: logging.NewNop()}
	ready := h.Readyz(map[string]ReadinessCheck{
		"postgres":   func(context.Context) error { return errors.New("connection refused") },
		"changefeed": func(context.Context) error { return nil },
	})

	rec := httptest.NewRecorder()
	ready.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "not ready: postgres")
	require.NotContains(t, rec.Body.String(), "connection refused")
}

func TestReadyz_NoChecksIsReady(t *testing.T) {
	t.Parallel()

	h := &Handler{logger: logging.NewNop()}
	rec := httptest.NewRecorder()
	h.Readyz(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ready"`)
}

func TestRecoverPanic_WritesInternalError(t *testing.T) {
	t.Parallel()

	boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	rec := httptest.NewRecorder()
	recoverPanic(logging.NewNop(), boom).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/teams", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "internal server error")
}
