// Package metrics exposes Prometheus instrumentation for the verification pipeline.
//
// Collectors are registered on a caller-owned registry so tests and the CLI
// never share global state. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "evidentia"

// Search outcomes recorded per evidence source call
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomePanic = "panic"
	OutcomeEmpty = "empty"
)

// Metrics groups every collector the pipeline records into
type Metrics struct {
	searches       *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	cacheLookups   *prometheus.CounterVec
	verifications  *prometheus.CounterVec
	verifyDuration prometheus.Histogram
	shortCircuits  *prometheus.CounterVec
}

// New registers all collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Labels: source, outcome (ok, error, panic, empty)
		searches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "searches_total",
			Help:      "Evidence source calls by outcome",
		}, []string{"source", "outcome"}),

		searchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "search_duration_seconds",
			Help:      "Evidence source call latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"source"}),

		// Labels: result (hit, miss)
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by result",
		}, []string{"result"}),

		verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "verifications_total",
			Help:      "Completed claim verifications by classification",
		}, []string{"classification"}),

		verifyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "verification_duration_seconds",
			Help:      "End-to-end claim verification latency in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 20, 45, 90},
		}),

		// Labels: reason (domain_violation, fabrication)
		shortCircuits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "short_circuits_total",
			Help:      "Verifications that stopped before evidence retrieval",
		}, []string{"reason"}),
	}
}

// ObserveSearch records one source call
func (m *Metrics) ObserveSearch(source, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(source, outcome).Inc()
	m.searchDuration.WithLabelValues(source).Observe(elapsed.Seconds())
}

// CacheHit records a cache hit
func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("hit").Inc()
}

// CacheMiss records a cache miss
func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

// ObserveVerification records a finished verification
func (m *Metrics) ObserveVerification(classification string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(classification).Inc()
	m.verifyDuration.Observe(elapsed.Seconds())
}

// ShortCircuit records a verification that skipped retrieval
func (m *Metrics) ShortCircuit(reason string) {
	if m == nil {
		return
	}
	m.shortCircuits.WithLabelValues(reason).Inc()
}
