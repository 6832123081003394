package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
)

const tasksTable = "tasks"

var taskColumns = []string{
	"id", "user_id", "title", "description", "status", "created_at", "updated_at", "deleted_at",
}

// TaskStore implements store.TaskStore on database/sql for PostgreSQL and SQLite.
type TaskStore struct {
	db      store.DBTX
	dialect Dialect
	sb      sq.StatementBuilderType
	now     store.Clock
	logger  *slog.Logger
}

// Option configures a TaskStore.
type Option func(*TaskStore)

// WithClock overrides the clock used for timestamps.
func WithClock(clock store.Clock) Option {
	return func(s *TaskStore) {
		s.now = clock
	}
}

// NewTaskStore creates a SQL task store. It accepts a database connection or
// transaction that is initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewTaskStore(db store.DBTX, dialect Dialect, logger *slog.Logger, opts ...Option) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &TaskStore{
		db:      db,
		dialect: dialect,
		sb:      dialect.builder(),
		now:     store.UTCClock,
		logger:  logger.With(slog.String("component", "sql_task_store"), slog.String("dialect", string(dialect))),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ store.TaskStore = (*TaskStore)(nil)

// timestamp returns the clock time at the microsecond precision postgres
// stores, so values handed back from Create match later reads.
func (s *TaskStore) timestamp() time.Time {
	return s.now().Truncate(time.Microsecond)
}

// Create implements store.TaskStore.Create.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	now := s.timestamp()
	query, args, err := s.sb.Insert(tasksTable).
		Columns("id", "user_id", "title", "description", "status", "created_at", "updated_at").
		Values(task.ID.String(), task.UserID, task.Title, task.Description, string(task.Status),
			s.dialect.timeArg(now), s.dialect.timeArg(now)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	task.CreatedAt = now
	task.UpdatedAt = now
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := s.sb.Select(taskColumns...).
		From(tasksTable).
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	task, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}
	return task, nil
}

// ListByOwner implements store.TaskStore.ListByOwner.
func (s *TaskStore) ListByOwner(ctx context.Context, userID string) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := s.sb.Select(taskColumns...).
		From(tasksTable).
		Where(sq.Eq{"user_id": userID, "deleted_at": nil}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, store.NewStoreError("task", "list", "failed to scan row", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return tasks, nil
}

// Update implements store.TaskStore.Update.
func (s *TaskStore) Update(ctx context.Context, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error) {
	values := map[string]any{"updated_at": s.dialect.timeArg(s.timestamp())}
	if patch.Title != nil {
		values["title"] = *patch.Title
	}
	if patch.Description != nil {
		values["description"] = *patch.Description
	}
	if patch.Status != nil {
		values["status"] = string(*patch.Status)
	}

	return s.updateLive(ctx, "update", id, values)
}

// SoftDelete implements store.TaskStore.SoftDelete.
func (s *TaskStore) SoftDelete(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	now := s.dialect.timeArg(s.timestamp())
	return s.updateLive(ctx, "soft_delete", id, map[string]any{
		"status":     string(domain.TaskStatusArchived),
		"deleted_at": now,
		"updated_at": now,
	})
}

// updateLive applies values to the row if it is not soft-deleted, then reads it back.
func (s *TaskStore) updateLive(
	ctx context.Context,
	operation string,
	id uuid.UUID,
	values map[string]any,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := s.sb.Update(tasksTable).
		SetMap(values).
		Where(sq.Eq{"id": id.String(), "deleted_at": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", operation, err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("task statement failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}
	if err := CheckRowsAffected(result); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task                 domain.Task
		status               string
		createdAt, updatedAt nullTime
		deletedAt            nullTime
	)

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&status,
		&createdAt,
		&updatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	task.CreatedAt = createdAt.Time
	task.UpdatedAt = updatedAt.Time
	task.DeletedAt = deletedAt.Ptr()
	return &task, nil
}
