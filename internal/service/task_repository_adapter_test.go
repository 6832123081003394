package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/memory"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/phrazzld/tasks-api/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryRepository(t *testing.T) TaskRepository {
	t.Helper()
	taskStore := memory.NewTaskStore(nil, memory.WithClock(testutils.StepClock(testutils.FixedTime, time.Second)))
	return NewTaskRepositoryAdapter(taskStore, nil)
}

func TestTaskRepositoryAdapter_CreateDefaultsAndFind(t *testing.T) {
	repo := newMemoryRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "user-1", domain.TaskDraft{Title: "Buy milk", Description: "2%"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, domain.TaskStatusTodo, created.Status)
	assert.Equal(t, testutils.FixedTime, created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	found, ok, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "user-1", found.UserID)

	_, ok, err = repo.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTaskRepositoryAdapter_SoftDeletedIsAbsent(t *testing.T) {
	repo := newMemoryRepository(t)
	ctx := context.Background()

	keep, err := repo.Create(ctx, "user-1", domain.TaskDraft{Title: "keep", Description: "d"})
	require.NoError(t, err)
	drop, err := repo.Create(ctx, "user-1", domain.TaskDraft{Title: "drop", Description: "d"})
	require.NoError(t, err)

	deleted, err := repo.SoftDelete(ctx, drop.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusArchived, deleted.Status)
	require.NotNil(t, deleted.DeletedAt)

	_, ok, err := repo.FindByID(ctx, drop.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	tasks, err := repo.FindAllByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, keep.ID, tasks[0].ID)
}

func TestTaskRepositoryAdapter_ListNewestFirst(t *testing.T) {
	repo := newMemoryRepository(t)
	ctx := context.Background()

	var ids []uuid.UUID
	for _, title := range []string{"first", "second", "third"} {
		task, err := repo.Create(ctx, "user-2", domain.TaskDraft{Title: title, Description: "d"})
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}
	_, err := repo.Create(ctx, "user-3", domain.TaskDraft{Title: "other", Description: "d"})
	require.NoError(t, err)

	tasks, err := repo.FindAllByOwner(ctx, "user-2")
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, []uuid.UUID{ids[2], ids[1], ids[0]}, []uuid.UUID{tasks[0].ID, tasks[1].ID, tasks[2].ID})
}

func TestTaskRepositoryAdapter_UpdateBumpsUpdatedAt(t *testing.T) {
	repo := newMemoryRepository(t)
	ctx := context.Background()

	task, err := repo.Create(ctx, "user-1", domain.TaskDraft{Title: "t", Description: "d"})
	require.NoError(t, err)

	done := domain.TaskStatusDone
	updated, err := repo.Update(ctx, task.ID, domain.TaskPatch{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusDone, updated.Status)
	assert.Equal(t, "t", updated.Title)
	assert.True(t, updated.UpdatedAt.After(task.UpdatedAt))
	assert.Equal(t, task.CreatedAt, updated.CreatedAt)
}

func TestTaskRepositoryAdapter_PropagatesStoreErrors(t *testing.T) {
	repo := newMemoryRepository(t)
	ctx := context.Background()

	_, err := repo.Update(ctx, uuid.New(), domain.TaskPatch{})
	assert.True(t, errors.Is(err, store.ErrTaskNotFound))

	_, err = repo.SoftDelete(ctx, uuid.New())
	assert.True(t, errors.Is(err, store.ErrTaskNotFound))

	_, err = repo.Create(ctx, "", domain.TaskDraft{Title: "t", Description: "d"})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestTaskRepositoryAdapter_LogsWithComponent(t *testing.T) {
	log, handler := testutils.NewTestLogger()
	taskStore := memory.NewTaskStore(log)
	repo := NewTaskRepositoryAdapter(taskStore, log)

	_, err := repo.Create(context.Background(), "user-1", domain.TaskDraft{Title: "t", Description: "d"})
	require.NoError(t, err)

	entry := handler.Find("task created")
	require.NotNil(t, entry)
	assert.Equal(t, "task_repository", entry["component"])
	assert.Equal(t, "INFO", entry["level"])
}
