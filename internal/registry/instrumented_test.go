package registry_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trsync/internal/registry"
	"trsync/internal/registry/metrics"
	"trsync/internal/registry/models"
	"trsync/internal/registry/store"
)

func TestInstrumentedRecordsOutcomes(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	s := registry.NewInstrumented(store.NewInMemory(), m)
	ctx := context.Background()

	_, err := s.Retrieve(ctx, models.EntityContact, uuid.New())
	require.Error(t, err)

	c := models.Contact{ID: uuid.New(), FirstName: "Jane"}.ToEntity()
	_, err = s.ExecuteTransaction(ctx, []models.Request{models.CreateRequest{Entity: c}})
	require.NoError(t, err)

	_, err = s.RetrieveMultiple(ctx, models.Query{Entity: models.EntityContact})
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("retrieve", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("execute_transaction", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("retrieve_multiple", "ok")))
}

func TestInstrumentedWithoutMetrics(t *testing.T) {
	s := registry.NewInstrumented(store.NewInMemory(), nil)
	_, err := s.RetrieveMultiple(context.Background(), models.Query{Entity: models.EntityContact})
	assert.NoError(t, err)
}
