package service

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

// Messages returned to callers for the authorization protocol.
const (
	verbAccess = "access"
	verbModify = "modify"
	verbDelete = "delete"
)

// ErrNoFieldsToUpdate is returned when an update carries no recognized fields.
var ErrNoFieldsToUpdate = domain.NewError(domain.KindValidation, "No fields to update provided", nil)

// TaskServiceError wraps unexpected errors from the task service with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "create_task", "update_task")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error

	stack []byte
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// StackTrace returns the goroutine stack recorded when the error was wrapped,
// or an empty string.
func (e *TaskServiceError) StackTrace() string {
	return string(e.stack)
}

// NewTaskServiceError classifies err for the caller.
// Tagged domain errors are returned as is, store not-found and invalid-entity
// errors become tagged errors, and anything else is wrapped.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}

	if errors.Is(err, store.ErrNotFound) {
		return domain.NewError(domain.KindNotFound, "Task not found", err)
	}

	if errors.Is(err, store.ErrInvalidEntity) {
		return domain.NewError(domain.KindValidation, "Invalid task", err)
	}

	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
		stack:     debug.Stack(),
	}
}

func taskNotFound(id fmt.Stringer) *domain.Error {
	return domain.NotFoundf("Task %s not found", id)
}

func taskForbidden(verb string) *domain.Error {
	return domain.Forbiddenf("You do not have permission to %s this task", verb)
}
