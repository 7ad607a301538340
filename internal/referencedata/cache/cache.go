// Package cache holds the get-or-populate caches behind reference-data resolution.
// Entries are immutable facts, so nothing is ever invalidated; absence is cached too.
package cache

import (
	"context"

	"github.com/google/uuid"
)

// Entry is a resolved reference: the internal id, or Found=false when the
// registry holds no active record for the key.
type Entry struct {
	ID    uuid.UUID `json:"id"`
	Found bool      `json:"found"`
}

// Absent is the entry cached for keys with no active record.
var Absent = Entry{}

// Populate resolves a key on a cache miss.
type Populate func(ctx context.Context) (Entry, error)
