// Package domain provides type-safe identifiers for teacher records so IDs
// from different registry entities cannot be mixed up at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "trsync/pkg/domain-errors"
)

// TeacherID identifies a contact (teacher) record in the registry.
type TeacherID uuid.UUID

// ParseTeacherID is used at trust boundaries (path parameters, API inputs).
func ParseTeacherID(s string) (TeacherID, error) {
	if s == "" {
		return TeacherID{}, dErrors.New(dErrors.CodeInvalidInput, "teacher ID cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return TeacherID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid teacher ID format")
	}
	if id == uuid.Nil {
		return TeacherID{}, dErrors.New(dErrors.CodeInvalidInput, "teacher ID cannot be nil")
	}
	return TeacherID(id), nil
}

func (id TeacherID) String() string  { return uuid.UUID(id).String() }
func (id TeacherID) UUID() uuid.UUID { return uuid.UUID(id) }
