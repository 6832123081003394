package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

// TaskService provides task operations scoped to the requesting user.
type TaskService interface {
	// ListTasks returns the user's live tasks, newest created first.
	ListTasks(ctx context.Context, userID string) ([]*domain.Task, error)

	// CreateTask creates a task owned by userID.
	CreateTask(ctx context.Context, userID string, draft domain.TaskDraft) (*domain.Task, error)

	// GetTask returns a task the user owns.
	GetTask(ctx context.Context, taskID uuid.UUID, userID string) (*domain.Task, error)

	// UpdateTask merges patch into a task the user owns. Fields absent from
	// the patch keep their current values.
	UpdateTask(
		ctx context.Context,
		taskID uuid.UUID,
		userID string,
		patch domain.TaskPatch,
	) (*domain.Task, error)

	// DeleteTask soft-deletes a task the user owns. Deleting the same task
	// again fails with a not-found error.
	DeleteTask(ctx context.Context, taskID uuid.UUID, userID string) error
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	repo   TaskRepository
	logger *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if repo is nil.
func NewTaskService(repo TaskRepository, log *slog.Logger) (TaskService, error) {
	if repo == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "repo cannot be nil",
		}
	}

	if log == nil {
		log = slog.Default()
	}

	return &taskServiceImpl{
		repo:   repo,
		logger: log.With(slog.String("component", "task_service")),
	}, nil
}

// authorize loads a task and checks that userID may act on it.
// Missing and soft-deleted tasks are reported identically.
func (s *taskServiceImpl) authorize(
	ctx context.Context,
	taskID uuid.UUID,
	userID string,
	verb string,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, found, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		log.Error("failed to look up task",
			slog.String("task_id", taskID.String()),
			slog.String("error", err.Error()))
		return nil, NewTaskServiceError("find_task", "failed to look up task", err)
	}

	if !found || task.IsDeleted() {
		log.Debug("task not found",
			slog.String("task_id", taskID.String()),
			slog.String("user_id", userID))
		return nil, taskNotFound(taskID)
	}

	if !task.BelongsTo(userID) {
		log.Warn("task owned by another user",
			slog.String("task_id", taskID.String()),
			slog.String("user_id", userID),
			slog.String("action", verb))
		return nil, taskForbidden(verb)
	}

	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context, userID string) ([]*domain.Task, error) {
	tasks, err := s.repo.FindAllByOwner(ctx, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	userID string,
	draft domain.TaskDraft,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.repo.Create(ctx, userID, draft)
	if err != nil {
		log.Error("failed to create task",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return nil, NewTaskServiceError("create_task", "failed to create task", err)
	}

	return task, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, taskID uuid.UUID, userID string) (*domain.Task, error) {
	return s.authorize(ctx, taskID, userID, verbAccess)
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	taskID uuid.UUID,
	userID string,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	if patch.IsEmpty() {
		return nil, ErrNoFieldsToUpdate
	}

	if _, err := s.authorize(ctx, taskID, userID, verbModify); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, taskID, patch)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update task",
			slog.String("task_id", taskID.String()),
			slog.String("error", err.Error()))
		return nil, writeError("update_task", "failed to update task", taskID, err)
	}

	return updated, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, taskID uuid.UUID, userID string) error {
	if _, err := s.authorize(ctx, taskID, userID, verbDelete); err != nil {
		return err
	}

	if _, err := s.repo.SoftDelete(ctx, taskID); err != nil {
		log := logger.FromContextOrDefault(ctx, s.logger)
		if errors.Is(err, context.Canceled) {
			log.Warn("task delete cancelled", slog.String("task_id", taskID.String()))
		} else {
			log.Error("failed to delete task",
				slog.String("task_id", taskID.String()),
				slog.String("error", err.Error()))
		}
		return writeError("delete_task", "failed to delete task", taskID, err)
	}

	return nil
}

// writeError classifies a failed write. A task deleted after the ownership
// check is reported with the same not-found message as any other missing task.
func writeError(operation, message string, taskID uuid.UUID, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return domain.NewError(domain.KindNotFound, taskNotFound(taskID).Message, err)
	}
	return NewTaskServiceError(operation, message, err)
}
