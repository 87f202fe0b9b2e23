package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveSearch("crossref", OutcomeOK, 120*time.Millisecond)
	m.ObserveSearch("crossref", OutcomeOK, 80*time.Millisecond)
	m.ObserveSearch("arxiv", OutcomeError, time.Second)
	m.CacheHit()
	m.CacheMiss()
	m.CacheMiss()
	m.ObserveVerification("Unsupported", 2*time.Second)
	m.ShortCircuit("fabrication")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.searches.WithLabelValues("crossref", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.searches.WithLabelValues("arxiv", OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verifications.WithLabelValues("Unsupported")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.shortCircuits.WithLabelValues("fabrication")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSearch("crossref", OutcomeOK, time.Millisecond)
		m.CacheHit()
		m.CacheMiss()
		m.ObserveVerification("Fabricated", time.Millisecond)
		m.ShortCircuit("domain_violation")
	})
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
