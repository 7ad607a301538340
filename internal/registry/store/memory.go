// Package store holds the registry Store implementations.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"trsync/internal/registry/models"
	"trsync/pkg/platform/sentinel"
)

// FirstTrn is the first teacher reference number a fresh store allocates.
const FirstTrn = 1000001

type table struct {
	order []uuid.UUID
	rows  map[uuid.UUID]models.Attributes
}

func newTable() *table {
	return &table{rows: make(map[uuid.UUID]models.Attributes)}
}

func (t *table) clone() *table {
	out := &table{
		order: append([]uuid.UUID(nil), t.order...),
		rows:  make(map[uuid.UUID]models.Attributes, len(t.rows)),
	}
	for id, attrs := range t.rows {
		out.rows[id] = models.Entity{Attributes: attrs}.Clone().Attributes
	}
	return out
}

// InMemory is a registry store for tests and local runs. Records keep
// insertion order, which is the store order RetrieveMultiple returns.
type InMemory struct {
	mu      sync.RWMutex
	tables  map[models.EntityName]*table
	nextTrn int
}

// NewInMemory creates an empty in-memory registry.
func NewInMemory() *InMemory {
	return &InMemory{
		tables:  make(map[models.EntityName]*table),
		nextTrn: FirstTrn,
	}
}

// Seed inserts records outside of any transaction, replacing existing ones with the same id.
func (s *InMemory) Seed(entities ...models.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entities {
		t := tableFor(s.tables, e.Name)
		if _, exists := t.rows[e.ID]; !exists {
			t.order = append(t.order, e.ID)
		}
		t.rows[e.ID] = e.Clone().Attributes
	}
}

// Count returns the number of records held for an entity.
func (s *InMemory) Count(entity models.EntityName) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.tables[entity]; ok {
		return len(t.rows)
	}
	return 0
}

// All returns every record of an entity in store order.
func (s *InMemory) All(entity models.EntityName) []models.Entity {
	out, _ := s.RetrieveMultiple(context.Background(), models.Query{Entity: entity})
	return out
}

func (s *InMemory) Retrieve(_ context.Context, entity models.EntityName, id uuid.UUID) (*models.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return retrieve(s.tables, entity, id)
}

func (s *InMemory) RetrieveMultiple(_ context.Context, query models.Query) ([]models.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[query.Entity]
	if !ok {
		return nil, nil
	}
	var out []models.Entity
	for _, id := range t.order {
		attrs := t.rows[id]
		if !query.Criteria.Matches(attrs) {
			continue
		}
		out = append(out, models.Entity{Name: query.Entity, ID: id, Attributes: attrs}.Clone())
		if query.Top > 0 && len(out) == query.Top {
			break
		}
	}
	return out, nil
}

// ExecuteTransaction applies the batch to a private copy of the touched tables
// and swaps it in only when every request succeeded.
func (s *InMemory) ExecuteTransaction(ctx context.Context, requests []models.Request) ([]models.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make(map[models.EntityName]*table, len(s.tables))
	for name, t := range s.tables {
		staged[name] = t
	}
	copied := make(map[models.EntityName]bool)
	writable := func(name models.EntityName) *table {
		if !copied[name] {
			if t, ok := staged[name]; ok {
				staged[name] = t.clone()
			} else {
				staged[name] = newTable()
			}
			copied[name] = true
		}
		return staged[name]
	}

	nextTrn := s.nextTrn
	responses := make([]models.Response, 0, len(requests))
	for i, req := range requests {
		var resp models.Response
		switch r := req.(type) {
		case models.CreateRequest:
			id := r.Entity.ID
			if id == uuid.Nil {
				id = uuid.New()
			}
			t := writable(r.Entity.Name)
			if _, exists := t.rows[id]; exists {
				return nil, fmt.Errorf("request %d: create %s %s: %w", i, r.Entity.Name, id, sentinel.ErrConflict)
			}
			t.order = append(t.order, id)
			t.rows[id] = r.Entity.Clone().Attributes
			resp.ID = id
		case models.UpdateRequest:
			t := writable(r.Entity.Name)
			attrs, exists := t.rows[r.Entity.ID]
			if !exists {
				return nil, fmt.Errorf("request %d: update %s %s: %w", i, r.Entity.Name, r.Entity.ID, sentinel.ErrNotFound)
			}
			for k, v := range r.Entity.Attributes {
				attrs[k] = v
			}
			resp.ID = r.Entity.ID
		case models.RetrieveRequest:
			e, err := retrieve(staged, r.Entity, r.ID)
			if err != nil {
				return nil, fmt.Errorf("request %d: %w", i, err)
			}
			resp.ID = r.ID
			resp.Entity = e
		case models.AllocateTrnRequest:
			t := writable(models.EntityContact)
			attrs, exists := t.rows[r.ContactID]
			if !exists {
				return nil, fmt.Errorf("request %d: allocate trn for %s: %w", i, r.ContactID, sentinel.ErrNotFound)
			}
			if models.AttrString(attrs, models.AttrTrn) != "" {
				return nil, fmt.Errorf("request %d: contact %s already has a trn: %w", i, r.ContactID, sentinel.ErrInvalidState)
			}
			attrs[models.AttrTrn] = fmt.Sprintf("%07d", nextTrn)
			nextTrn++
			resp.ID = r.ContactID
		default:
			return nil, fmt.Errorf("request %d: unsupported request %T: %w", i, req, sentinel.ErrInvalidInput)
		}
		responses = append(responses, resp)
	}

	s.tables = staged
	s.nextTrn = nextTrn
	return responses, nil
}

func tableFor(tables map[models.EntityName]*table, name models.EntityName) *table {
	t, ok := tables[name]
	if !ok {
		t = newTable()
		tables[name] = t
	}
	return t
}

func retrieve(tables map[models.EntityName]*table, entity models.EntityName, id uuid.UUID) (*models.Entity, error) {
	if t, ok := tables[entity]; ok {
		if attrs, ok := t.rows[id]; ok {
			e := models.Entity{Name: entity, ID: id, Attributes: attrs}.Clone()
			return &e, nil
		}
	}
	return nil, fmt.Errorf("%s %s: %w", entity, id, sentinel.ErrNotFound)
}
