// Package metrics provides Prometheus metrics for registry store operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the registry store metrics.
type Metrics struct {
	OperationsTotal          *prometheus.CounterVec   // Store calls by operation and outcome
	OperationDurationSeconds *prometheus.HistogramVec // Store call latency by operation
	BatchSize                prometheus.Histogram     // Requests per submitted transaction
}

// New registers the registry metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trsync_registry_operations_total",
			Help: "Total number of registry store operations by operation and outcome",
		}, []string{"operation", "outcome"}),

		OperationDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trsync_registry_operation_duration_seconds",
			Help:    "Duration of registry store operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),

		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "trsync_registry_transaction_requests",
			Help:    "Number of requests per registry transaction",
			Buckets: []float64{1, 2, 4, 6, 8, 12, 16},
		}),
	}
}

// ObserveOperation records one store call.
func (m *Metrics) ObserveOperation(operation string, err error, durationSeconds float64) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.OperationsTotal.WithLabelValues(operation, outcome).Inc()
	m.OperationDurationSeconds.WithLabelValues(operation).Observe(durationSeconds)
}

// ObserveBatch records how many requests a transaction carried.
func (m *Metrics) ObserveBatch(size int) {
	if m == nil {
		return
	}
	m.BatchSize.Observe(float64(size))
}
