package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// TaskRepository is the typed accessor the service uses to reach task storage.
// Soft-deleted tasks are never returned by its read operations.
type TaskRepository interface {
	// FindByID returns the task and true, or nil and false if the task does not
	// exist or has been soft-deleted.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, bool, error)

	// FindAllByOwner returns the owner's live tasks, newest created first.
	FindAllByOwner(ctx context.Context, userID string) ([]*domain.Task, error)

	// Create persists a new task for ownerID built from draft.
	Create(ctx context.Context, ownerID string, draft domain.TaskDraft) (*domain.Task, error)

	// Update applies the supplied patch fields and returns the updated task.
	Update(ctx context.Context, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// SoftDelete archives the task and stamps its deletion time.
	SoftDelete(ctx context.Context, id uuid.UUID) (*domain.Task, error)
}

// taskRepositoryAdapter adapts a store.TaskStore to the TaskRepository interface.
// Store failures are returned unchanged.
type taskRepositoryAdapter struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTaskRepositoryAdapter creates a TaskRepository backed by taskStore.
func NewTaskRepositoryAdapter(taskStore store.TaskStore, log *slog.Logger) TaskRepository {
	if log == nil {
		log = slog.Default()
	}
	return &taskRepositoryAdapter{
		taskStore: taskStore,
		logger:    log.With(slog.String("component", "task_repository")),
	}
}

// FindByID implements TaskRepository.FindByID
func (a *taskRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, bool, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)
	log.Debug("finding task by id", slog.String("task_id", id.String()))

	task, err := a.taskStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, false, nil
		}
		return nil, false, err
	}

	if task.IsDeleted() {
		log.Debug("task is soft-deleted", slog.String("task_id", id.String()))
		return nil, false, nil
	}

	return task, true, nil
}

// FindAllByOwner implements TaskRepository.FindAllByOwner
func (a *taskRepositoryAdapter) FindAllByOwner(ctx context.Context, userID string) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)
	log.Debug("listing tasks for owner", slog.String("user_id", userID))

	tasks, err := a.taskStore.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	log.Debug("listed tasks for owner",
		slog.String("user_id", userID),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// Create implements TaskRepository.Create
func (a *taskRepositoryAdapter) Create(
	ctx context.Context,
	ownerID string,
	draft domain.TaskDraft,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	task, err := domain.NewTask(ownerID, draft)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	log.Info("creating task",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", ownerID))

	if err := a.taskStore.Create(ctx, task); err != nil {
		return nil, err
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	return task, nil
}

// Update implements TaskRepository.Update
func (a *taskRepositoryAdapter) Update(
	ctx context.Context,
	id uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)
	log.Info("updating task",
		slog.String("task_id", id.String()),
		slog.Any("fields", patch.Fields()))

	task, err := a.taskStore.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	log.Info("task updated", slog.String("task_id", id.String()))
	return task, nil
}

// SoftDelete implements TaskRepository.SoftDelete
func (a *taskRepositoryAdapter) SoftDelete(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)
	log.Info("soft-deleting task", slog.String("task_id", id.String()))

	task, err := a.taskStore.SoftDelete(ctx, id)
	if err != nil {
		return nil, err
	}

	log.Info("task soft-deleted", slog.String("task_id", id.String()))
	return task, nil
}
