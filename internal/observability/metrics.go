package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "prediction_league"

var httpLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// Metrics owns a private registry so tests can build independent instances.
type Metrics struct {
	registry *prometheus.Registry

	predictionsProcessed *prometheus.CounterVec
	batchesCommitted     *prometheus.CounterVec
	awardsCommitted      prometheus.Counter
	fixtureChanges       *prometheus.CounterVec
	httpRequests         *prometheus.CounterVec
	httpDuration         *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		predictionsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "predictions_processed_total",
			Help:      "Predictions seen by the aggregation pipeline, by outcome.",
		}, []string{"outcome"}),
		batchesCommitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "scoring_batches_total",
			Help:      "Scoring batch commits, by status.",
		}, []string{"status"}),
		awardsCommitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "scoring_awards_committed_total",
			Help:      "Prediction awards written by successful batch commits.",
		}),
		fixtureChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "fixture_changes_total",
			Help:      "Fixture change events seen by the finalization trigger, by decision.",
		}, []string{"decision"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by method and route.",
			Buckets:   httpLatencyBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) PredictionProcessed(outcome string) {
	m.predictionsProcessed.WithLabelValues(outcome).Inc()
}

func (m *Metrics) BatchCommitted(status string, awards int) {
	m.batchesCommitted.WithLabelValues(status).Inc()
	if status == "committed" && awards > 0 {
		m.awardsCommitted.Add(float64(awards))
	}
}

func (m *Metrics) FixtureChangeObserved(decision string) {
	m.fixtureChanges.WithLabelValues(decision).Inc()
}

// ObserveHTTP records one served request. route is the matched mux pattern,
// never the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
