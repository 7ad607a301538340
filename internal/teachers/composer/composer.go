// Package composer assembles the registry writes of one synchronization call
// into a single atomic batch.
package composer

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"trsync/internal/platform/tracer"
	"trsync/internal/registry"
	registrymodels "trsync/internal/registry/models"
)

// Batch accumulates registry requests. Nothing reaches the store until
// Submit, which sends every request in one ExecuteTransaction call.
type Batch struct {
	requests    []registrymodels.Request
	recordIDs   []uuid.UUID
	trnIndex    int
	reviewTasks int
	tracer      tracer.Tracer
}

type Option func(*Batch)

func WithTracer(t tracer.Tracer) Option {
	return func(b *Batch) {
		b.tracer = t
	}
}

func New(opts ...Option) *Batch {
	b := &Batch{trnIndex: -1}
	for _, opt := range opts {
		opt(b)
	}
	if b.tracer == nil {
		b.tracer = tracer.NewNoop()
	}
	return b
}

// Create adds an insert. A nil entity ID is replaced with a new one so later
// requests in the batch can reference the record. The ID is returned.
func (b *Batch) Create(e registrymodels.Entity) uuid.UUID {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	b.requests = append(b.requests, registrymodels.CreateRequest{Entity: e})
	b.recordIDs = append(b.recordIDs, e.ID)
	return e.ID
}

// Update adds a partial update of an existing record.
func (b *Batch) Update(e registrymodels.Entity) {
	b.requests = append(b.requests, registrymodels.UpdateRequest{Entity: e})
	b.recordIDs = append(b.recordIDs, e.ID)
}

// AddReviewTask adds a review task creation.
func (b *Batch) AddReviewTask(t registrymodels.ReviewTask) uuid.UUID {
	b.reviewTasks++
	return b.Create(t.ToEntity())
}

// AllocateTrn appends TRN allocation for contactID followed by a read of the
// contact, so Submit can return the allocated number. Only the first call
// has an effect.
func (b *Batch) AllocateTrn(contactID uuid.UUID) {
	if b.trnIndex >= 0 {
		return
	}
	b.requests = append(b.requests,
		registrymodels.AllocateTrnRequest{ContactID: contactID},
		registrymodels.RetrieveRequest{Entity: registrymodels.EntityContact, ID: contactID},
	)
	b.trnIndex = len(b.requests) - 1
}

// Requests returns a copy of the accumulated requests in submission order.
func (b *Batch) Requests() []registrymodels.Request {
	return slices.Clone(b.requests)
}

func (b *Batch) Len() int { return len(b.requests) }

// ReviewTasks counts review tasks added to the batch.
func (b *Batch) ReviewTasks() int { return b.reviewTasks }

// RecordIDs lists the records written by the batch in request order.
func (b *Batch) RecordIDs() []uuid.UUID { return slices.Clone(b.recordIDs) }

// Result is the outcome of a committed batch.
type Result struct {
	// Trn is set when the batch allocated one.
	Trn       string
	Responses []registrymodels.Response
}

// Submit sends the batch to store in exactly one ExecuteTransaction call.
// A cancelled ctx aborts before anything is sent.
func (b *Batch) Submit(ctx context.Context, store registry.Store) (_ Result, err error) {
	if len(b.requests) == 0 {
		return Result{}, fmt.Errorf("submit empty batch")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("submit aborted: %w", err)
	}

	ctx, span := b.tracer.Start(ctx, tracer.SpanSubmit,
		tracer.Int64(tracer.AttrRequests, int64(len(b.requests))),
	)
	defer func() { span.End(err) }()

	responses, err := store.ExecuteTransaction(ctx, b.requests)
	if err != nil {
		return Result{}, fmt.Errorf("execute transaction: %w", err)
	}
	if len(responses) != len(b.requests) {
		return Result{}, fmt.Errorf("execute transaction: got %d responses for %d requests", len(responses), len(b.requests))
	}

	result := Result{Responses: responses}
	if b.trnIndex >= 0 {
		contact := responses[b.trnIndex].Entity
		if contact == nil {
			return Result{}, fmt.Errorf("allocated contact was not returned")
		}
		result.Trn = registrymodels.AttrString(contact.Attributes, registrymodels.AttrTrn)
		if result.Trn == "" {
			return Result{}, fmt.Errorf("contact %s has no trn after allocation", contact.ID)
		}
	}
	return result, nil
}
