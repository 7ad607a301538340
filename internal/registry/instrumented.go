package registry

import (
	"context"
	"time"

	"github.com/google/uuid"

	"trsync/internal/registry/metrics"
	"trsync/internal/registry/models"
)

// Instrumented records Prometheus metrics around every call to the wrapped store.
type Instrumented struct {
	next    Store
	metrics *metrics.Metrics
}

// NewInstrumented wraps next. A nil metrics value disables recording.
func NewInstrumented(next Store, m *metrics.Metrics) *Instrumented {
	return &Instrumented{next: next, metrics: m}
}

func (s *Instrumented) Retrieve(ctx context.Context, entity models.EntityName, id uuid.UUID) (*models.Entity, error) {
	start := time.Now()
	e, err := s.next.Retrieve(ctx, entity, id)
	s.metrics.ObserveOperation("retrieve", err, time.Since(start).Seconds())
	return e, err
}

func (s *Instrumented) RetrieveMultiple(ctx context.Context, query models.Query) ([]models.Entity, error) {
	start := time.Now()
	out, err := s.next.RetrieveMultiple(ctx, query)
	s.metrics.ObserveOperation("retrieve_multiple", err, time.Since(start).Seconds())
	return out, err
}

func (s *Instrumented) ExecuteTransaction(ctx context.Context, requests []models.Request) ([]models.Response, error) {
	start := time.Now()
	s.metrics.ObserveBatch(len(requests))
	out, err := s.next.ExecuteTransaction(ctx, requests)
	s.metrics.ObserveOperation("execute_transaction", err, time.Since(start).Seconds())
	return out, err
}

var _ Store = (*Instrumented)(nil)
