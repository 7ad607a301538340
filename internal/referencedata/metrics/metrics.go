// Package metrics provides Prometheus metrics for reference-data resolution.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the reference-data cache and resolution metrics.
type Metrics struct {
	CacheHitsTotal         *prometheus.CounterVec   // Hits by cache layer (memory, redis)
	CacheMissesTotal       *prometheus.CounterVec   // Misses by cache layer
	CoalescedTotal         prometheus.Counter       // Callers that joined an in-flight population
	ResolutionsTotal       *prometheus.CounterVec   // Store resolutions by category and outcome
	ResolveDurationSeconds *prometheus.HistogramVec // Store resolution latency by category
}

// New registers the reference-data metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CacheHitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trsync_refdata_cache_hits_total",
			Help: "Total number of reference-data cache hits by layer",
		}, []string{"layer"}),

		CacheMissesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trsync_refdata_cache_misses_total",
			Help: "Total number of reference-data cache misses by layer",
		}, []string{"layer"}),

		CoalescedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "trsync_refdata_cache_coalesced_total",
			Help: "Total number of lookups served by another caller's in-flight population",
		}),

		ResolutionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trsync_refdata_resolutions_total",
			Help: "Total number of reference-data store resolutions by category and outcome",
		}, []string{"category", "outcome"}),

		ResolveDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trsync_refdata_resolve_duration_seconds",
			Help:    "Duration of reference-data store resolutions by category",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}, []string{"category"}),
	}
}

func (m *Metrics) RecordCacheHit(layer string) {
	if m == nil {
		return
	}
	m.CacheHitsTotal.WithLabelValues(layer).Inc()
}

func (m *Metrics) RecordCacheMiss(layer string) {
	if m == nil {
		return
	}
	m.CacheMissesTotal.WithLabelValues(layer).Inc()
}

func (m *Metrics) RecordCoalesced() {
	if m == nil {
		return
	}
	m.CoalescedTotal.Inc()
}

// ObserveResolution records one store resolution. outcome is found, absent or error.
func (m *Metrics) ObserveResolution(category, outcome string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.ResolutionsTotal.WithLabelValues(category, outcome).Inc()
	m.ResolveDurationSeconds.WithLabelValues(category).Observe(durationSeconds)
}

// CacheHitRate is a test helper; dashboards compute this in PromQL.
func CacheHitRate(hits, misses float64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return hits / total
}
