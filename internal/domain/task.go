package domain

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

// Possible task status values. ARCHIVED is reachable through an update or a delete,
// never through creation.
const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
	TaskStatusArchived   TaskStatus = "ARCHIVED"
)

// Field limits, counted in characters.
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 2000
)

// Common validation errors for Task
var (
	ErrEmptyTaskID          = errors.New("task ID cannot be empty")
	ErrEmptyTaskUserID      = errors.New("task user ID cannot be empty")
	ErrEmptyTaskTitle       = errors.New("task title cannot be empty")
	ErrTaskTitleTooLong     = errors.New("task title is too long")
	ErrTaskDescriptionLong  = errors.New("task description is too long")
	ErrEmptyTaskDescription = errors.New("task description cannot be empty")
)

// Task is a unit of personal work owned by a single user.
// DeletedAt is non-nil once the task has been soft-deleted; such a task is
// invisible to every read path and can no longer be changed.
type Task struct {
	ID          uuid.UUID
	UserID      string
	Title       string
	Description string
	Status      TaskStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// TaskDraft holds validated input for a new task.
type TaskDraft struct {
	Title       string
	Description string
	Status      TaskStatus
}

// TaskPatch holds a validated partial update. Nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil
}

// Fields returns the names of the fields the patch sets, in a fixed order.
func (p TaskPatch) Fields() []string {
	fields := make([]string, 0, 3)
	if p.Title != nil {
		fields = append(fields, "title")
	}
	if p.Description != nil {
		fields = append(fields, "description")
	}
	if p.Status != nil {
		fields = append(fields, "status")
	}
	return fields
}

// NewTask creates a new Task for the given owner from a draft.
// It generates the ID and applies the default status; timestamps are left to the store.
func NewTask(userID string, draft TaskDraft) (*Task, error) {
	status := draft.Status
	if status == "" {
		status = TaskStatusTodo
	}

	task := &Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       draft.Title,
		Description: draft.Description,
		Status:      status,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks the structural invariants of a Task.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.UserID == "" {
		return ErrEmptyTaskUserID
	}
	if t.Title == "" {
		return ErrEmptyTaskTitle
	}
	if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		return ErrTaskTitleTooLong
	}
	if t.Description == "" {
		return ErrEmptyTaskDescription
	}
	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		return ErrTaskDescriptionLong
	}
	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// IsDeleted reports whether the task has been soft-deleted.
func (t *Task) IsDeleted() bool {
	return t.DeletedAt != nil
}

// BelongsTo reports whether the task is owned by userID.
func (t *Task) BelongsTo(userID string) bool {
	return t.UserID == userID
}

// Apply merges a patch into the task in place.
func (t *Task) Apply(p TaskPatch) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	if t.DeletedAt != nil {
		d := *t.DeletedAt
		c.DeletedAt = &d
	}
	return &c
}

// IsValid reports whether s is one of the four known statuses.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone, TaskStatusArchived:
		return true
	}
	return false
}

// IsCreatable reports whether s may be supplied when creating a task.
func (s TaskStatus) IsCreatable() bool {
	return s.IsValid() && s != TaskStatusArchived
}

// ParseTaskStatus converts a string to a TaskStatus.
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
