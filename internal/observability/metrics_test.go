package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_ScoringCounters(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.PredictionProcessed("exact")
	m.PredictionProcessed("exact")
	m.PredictionProcessed("invalid")
	m.BatchCommitted("committed", 4)
	m.BatchCommitted("failed", 2)
	m.FixtureChangeObserved("finalize")

	if got := testutil.ToFloat64(m.predictionsProcessed.WithLabelValues("exact")); got != 2 {
		t.Fatalf("exact predictions got=%v want=2", got)
	}
	if got := testutil.ToFloat64(m.awardsCommitted); got != 4 {
		t.Fatalf("committed awards got=%v want=4", got)
	}
	if got := testutil.ToFloat64(m.batchesCommitted.WithLabelValues("failed")); got != 1 {
		t.Fatalf("failed batches got=%v want=1", got)
	}
	if got := testutil.ToFloat64(m.fixtureChanges.WithLabelValues("finalize")); got != 1 {
		t.Fatalf("fixture changes got=%v want=1", got)
	}
}

func TestMetrics_HandlerExposesRegistry(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.ObserveHTTP(http.MethodGet, "GET /v1/teams", http.StatusOK, 10*time.Millisecond)
	m.ObserveHTTP(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status got=%d want=%d", rec.Code, http.StatusOK)
	}

	body := rec.Body.String()
	for _, want := range []string{
		`prediction_league_http_requests_total{method="GET",route="GET /v1/teams",status="200"} 1`,
		`route="unmatched"`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
