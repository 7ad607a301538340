package models

import (
	"time"

	"github.com/google/uuid"
)

// Operation names the facade call that produced a synchronization event.
type Operation string

const (
	OperationCreate       Operation = "create_teacher"
	OperationUpdate       Operation = "update_teacher"
	OperationSetIttResult Operation = "set_itt_result"
)

// EventTypeTeacherSynchronized is the type header on published events.
const EventTypeTeacherSynchronized = "teacher.synchronized"

// TeacherSynchronized is emitted after a batch commits in the registry.
// It carries identifiers only, never personal data.
type TeacherSynchronized struct {
	Operation   Operation   `json:"operation"`
	TeacherID   uuid.UUID   `json:"teacher_id"`
	Trn         string      `json:"trn,omitempty"`
	Outcome     string      `json:"outcome,omitempty"`
	ReviewTasks int         `json:"review_tasks"`
	RecordIDs   []uuid.UUID `json:"record_ids"`
	RequestID   string      `json:"request_id,omitempty"`
	OccurredAt  time.Time   `json:"occurred_at"`
}
