package models

import "github.com/google/uuid"

// Request is one operation inside an ExecuteTransaction batch.
type Request interface {
	requestKind() string
}

// CreateRequest inserts a new record. A nil ID is assigned by the store.
type CreateRequest struct {
	Entity Entity
}

// UpdateRequest merges the given attributes into an existing record.
type UpdateRequest struct {
	Entity Entity
}

// RetrieveRequest reads a record, observing writes made earlier in the same batch.
type RetrieveRequest struct {
	Entity EntityName
	ID     uuid.UUID
}

// AllocateTrnRequest asks the registry to assign the next teacher reference
// number to a contact written earlier in the batch.
type AllocateTrnRequest struct {
	ContactID uuid.UUID
}

func (CreateRequest) requestKind() string      { return "create" }
func (UpdateRequest) requestKind() string      { return "update" }
func (RetrieveRequest) requestKind() string    { return "retrieve" }
func (AllocateTrnRequest) requestKind() string { return "allocate_trn" }

// Kind names a request for logs and metrics.
func Kind(r Request) string {
	if r == nil {
		return "unknown"
	}
	return r.requestKind()
}

// Response is the per-request result of a batch, in request order.
// Entity is set for retrieve requests only.
type Response struct {
	ID     uuid.UUID
	Entity *Entity
}
