package ports

import (
	"context"

	"trsync/internal/teachers/models"
)

// EventPublisher announces committed synchronization batches to downstream
// consumers. The registry stays the system of record: a publish failure never
// undoes or fails the synchronization call.
type EventPublisher interface {
	PublishTeacherSynchronized(ctx context.Context, event models.TeacherSynchronized) error
}
