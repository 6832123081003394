// Package memory provides process-local implementations of the store
// interfaces. They back the "memory" database driver and the HTTP-level tests.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// TaskStore implements store.TaskStore with a mutex-guarded map.
// Tasks are copied on the way in and out so callers never share memory with the store.
type TaskStore struct {
	mu     sync.RWMutex
	tasks  map[uuid.UUID]*domain.Task
	now    store.Clock
	logger *slog.Logger
}

// Option configures a TaskStore.
type Option func(*TaskStore)

// WithClock overrides the clock used for timestamps.
func WithClock(clock store.Clock) Option {
	return func(s *TaskStore) {
		s.now = clock
	}
}

// NewTaskStore creates an empty in-memory task store.
func NewTaskStore(log *slog.Logger, opts ...Option) *TaskStore {
	if log == nil {
		log = slog.Default()
	}

	s := &TaskStore{
		tasks:  make(map[uuid.UUID]*domain.Task),
		now:    store.UTCClock,
		logger: log.With(slog.String("component", "memory_task_store")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.Create.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.ID]; exists {
		return fmt.Errorf("%w: task %s", store.ErrDuplicate, task.ID)
	}

	now := s.now()
	task.CreatedAt = now
	task.UpdatedAt = now
	s.tasks[task.ID] = task.Clone()

	logger.FromContextOrDefault(ctx, s.logger).Debug("task stored",
		slog.String("task_id", task.ID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *TaskStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return task.Clone(), nil
}

// ListByOwner implements store.TaskStore.ListByOwner.
func (s *TaskStore) ListByOwner(_ context.Context, userID string) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*domain.Task, 0)
	for _, task := range s.tasks {
		if task.UserID == userID && !task.IsDeleted() {
			tasks = append(tasks, task.Clone())
		}
	}

	// Newest first; ties fall back to the id, matching the SQL store.
	slices.SortFunc(tasks, func(a, b *domain.Task) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID.String(), a.ID.String())
	})
	return tasks, nil
}

// Update implements store.TaskStore.Update.
func (s *TaskStore) Update(_ context.Context, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok || task.IsDeleted() {
		return nil, store.ErrTaskNotFound
	}

	task.Apply(patch)
	task.UpdatedAt = s.now()
	return task.Clone(), nil
}

// SoftDelete implements store.TaskStore.SoftDelete.
func (s *TaskStore) SoftDelete(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok || task.IsDeleted() {
		return nil, store.ErrTaskNotFound
	}

	now := s.now()
	task.Status = domain.TaskStatusArchived
	task.DeletedAt = &now
	task.UpdatedAt = now
	return task.Clone(), nil
}
