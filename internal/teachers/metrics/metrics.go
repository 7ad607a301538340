// Package metrics provides Prometheus metrics for the synchronization facade.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeError     = "error"
)

type Metrics struct {
	OperationsTotal      *prometheus.CounterVec   // Facade calls by operation and outcome
	FailureReasonsTotal  *prometheus.CounterVec   // Failure reasons by operation and reason
	OperationDuration    *prometheus.HistogramVec // Facade latency by operation
	DuplicatesTotal      prometheus.Counter       // Creates flagged as potential duplicates
	ReviewTasksTotal     *prometheus.CounterVec   // Review tasks committed by operation
	PublishFailuresTotal prometheus.Counter       // Events that could not be published after commit
}

// New registers the synchronization metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trsync_teacher_operations_total",
			Help: "Total number of synchronization calls by operation and outcome",
		}, []string{"operation", "outcome"}),

		FailureReasonsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trsync_teacher_failure_reasons_total",
			Help: "Total number of failure reasons returned by operation and reason",
		}, []string{"operation", "reason"}),

		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trsync_teacher_operation_duration_seconds",
			Help:    "Duration of synchronization calls by operation",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"operation"}),

		DuplicatesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "trsync_teacher_potential_duplicates_total",
			Help: "Total number of created teachers flagged as potential duplicates",
		}),

		ReviewTasksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trsync_teacher_review_tasks_total",
			Help: "Total number of review tasks committed by operation",
		}, []string{"operation"}),

		PublishFailuresTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "trsync_teacher_event_publish_failures_total",
			Help: "Total number of synchronization events that failed to publish",
		}),
	}
}

// ObserveOperation records one facade call.
func (m *Metrics) ObserveOperation(operation, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(operation, outcome).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) RecordFailureReasons(operation string, reasons []string) {
	if m == nil {
		return
	}
	for _, r := range reasons {
		m.FailureReasonsTotal.WithLabelValues(operation, r).Inc()
	}
}

func (m *Metrics) IncrementDuplicates() {
	if m == nil {
		return
	}
	m.DuplicatesTotal.Inc()
}

func (m *Metrics) AddReviewTasks(operation string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ReviewTasksTotal.WithLabelValues(operation).Add(float64(n))
}

func (m *Metrics) IncrementPublishFailures() {
	if m == nil {
		return
	}
	m.PublishFailuresTotal.Inc()
}
