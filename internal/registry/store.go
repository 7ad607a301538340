// Package registry defines the record-store contract the synchronization layer
// is written against. The registry is the system of record; this service never
// owns its storage engine.
package registry

import (
	"context"

	"github.com/google/uuid"

	"trsync/internal/registry/models"
)

// Store is the generic registry read/write/transaction interface.
//
// RetrieveMultiple never filters on state implicitly. ExecuteTransaction returns
// one response per request in order, or a single error covering the whole batch
// with no partial effect.
type Store interface {
	Retrieve(ctx context.Context, entity models.EntityName, id uuid.UUID) (*models.Entity, error)
	RetrieveMultiple(ctx context.Context, query models.Query) ([]models.Entity, error)
	ExecuteTransaction(ctx context.Context, requests []models.Request) ([]models.Response, error)
}
