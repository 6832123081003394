package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// TaskStore defines the interface for task persistence.
// Implementations own the created_at/updated_at timestamps and never
// physically remove rows.
type TaskStore interface {
	// Create stamps CreatedAt/UpdatedAt on the task and saves it.
	// Returns ErrInvalidEntity if the task fails domain validation.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its ID, including soft-deleted tasks.
	// Returns ErrTaskNotFound if no row exists.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListByOwner returns the user's non-deleted tasks, newest created first.
	// Returns an empty slice when the user has none.
	ListByOwner(ctx context.Context, userID string) ([]*domain.Task, error)

	// Update applies the non-nil patch fields to a non-deleted task, bumps
	// UpdatedAt and returns the resulting row.
	// Returns ErrTaskNotFound if no live row matches.
	Update(ctx context.Context, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// SoftDelete marks a non-deleted task ARCHIVED with DeletedAt set to now
	// and returns the resulting row.
	// Returns ErrTaskNotFound if no live row matches.
	SoftDelete(ctx context.Context, id uuid.UUID) (*domain.Task, error)
}

// Clock returns the current time. Stores take one so tests can control ordering.
type Clock func() time.Time

// UTCClock is the default Clock.
func UTCClock() time.Time {
	return time.Now().UTC()
}
