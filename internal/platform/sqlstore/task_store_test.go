package sqlstore_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/sqlstore"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/phrazzld/tasks-api/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openSQLite opens a migrated SQLite database in a temp dir.
func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	dsn := "file:" + filepath.Join(t.TempDir(), "tasks.db") + "?_pragma=busy_timeout(5000)"
	db, dialect, err := sqlstore.Open(ctx, config.DatabaseConfig{Driver: "sqlite", URL: dsn}, nil)
	require.NoError(t, err)
	require.Equal(t, sqlstore.SQLite, dialect)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, sqlstore.Migrate(ctx, db, sqlstore.SQLite, sqlstore.MigrateUp, nil))
	return db
}

func newSQLiteStore(t *testing.T) *sqlstore.TaskStore {
	t.Helper()
	return sqlstore.NewTaskStore(openSQLite(t), sqlstore.SQLite, nil,
		sqlstore.WithClock(testutils.StepClock(testutils.FixedTime, time.Second)))
}

func createTask(t *testing.T, s store.TaskStore, userID, title string) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(userID, domain.TaskDraft{Title: title, Description: "desc"})
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), task))
	return task
}

func TestTaskStore_CreateAndGet(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	task := createTask(t, s, "user-1", "Buy milk")
	assert.True(t, task.CreatedAt.Equal(testutils.FixedTime))

	got, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, "desc", got.Description)
	assert.Equal(t, domain.TaskStatusTodo, got.Status)
	assert.True(t, got.CreatedAt.Equal(task.CreatedAt), "created_at should round-trip")
	assert.True(t, got.UpdatedAt.Equal(task.UpdatedAt), "updated_at should round-trip")
	assert.Nil(t, got.DeletedAt)
}

func TestTaskStore_TimestampsAtMicrosecondPrecision(t *testing.T) {
	start := testutils.FixedTime.Add(123456789 * time.Nanosecond)
	s := sqlstore.NewTaskStore(openSQLite(t), sqlstore.SQLite, nil,
		sqlstore.WithClock(testutils.StepClock(start, time.Second)))
	ctx := context.Background()

	task := createTask(t, s, "user-1", "precise")
	assert.True(t, task.CreatedAt.Equal(testutils.FixedTime.Add(123456*time.Microsecond)))

	got, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(task.CreatedAt))

	title := "renamed"
	updated, err := s.Update(ctx, task.ID, domain.TaskPatch{Title: &title})
	require.NoError(t, err)
	assert.Zero(t, updated.UpdatedAt.Nanosecond()%int(time.Microsecond))
}

func TestTaskStore_GetMissing(t *testing.T) {
	s := newSQLiteStore(t)

	_, err := s.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskStore_CreateDuplicate(t *testing.T) {
	s := newSQLiteStore(t)

	task := createTask(t, s, "user-1", "once")
	err := s.Create(context.Background(), task)
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestTaskStore_CreateInvalid(t *testing.T) {
	s := newSQLiteStore(t)

	err := s.Create(context.Background(), &domain.Task{ID: uuid.New(), UserID: "user-1", Status: "BLOCKED"})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestTaskStore_ListByOwnerNewestFirst(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	first := createTask(t, s, "user-1", "first")
	second := createTask(t, s, "user-1", "second")
	createTask(t, s, "user-2", "someone else")
	gone := createTask(t, s, "user-1", "gone")
	_, err := s.SoftDelete(ctx, gone.ID)
	require.NoError(t, err)

	tasks, err := s.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, second.ID, tasks[0].ID)
	assert.Equal(t, first.ID, tasks[1].ID)

	none, err := s.ListByOwner(ctx, "user-3")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestTaskStore_ListByOwnerBreaksTiesByID(t *testing.T) {
	s := sqlstore.NewTaskStore(openSQLite(t), sqlstore.SQLite, nil,
		sqlstore.WithClock(func() time.Time { return testutils.FixedTime }))
	ctx := context.Background()

	ids := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		ids = append(ids, createTask(t, s, "user-1", "same instant").ID.String())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))

	tasks, err := s.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	got := make([]string, 0, len(tasks))
	for _, task := range tasks {
		got = append(got, task.ID.String())
	}
	assert.Equal(t, ids, got)
}

func TestTaskStore_UpdatePartial(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	task := createTask(t, s, "user-1", "title")

	done := domain.TaskStatusDone
	updated, err := s.Update(ctx, task.ID, domain.TaskPatch{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusDone, updated.Status)
	assert.Equal(t, "title", updated.Title)
	assert.Equal(t, "desc", updated.Description)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	empty := ""
	updated, err = s.Update(ctx, task.ID, domain.TaskPatch{Description: &empty})
	require.NoError(t, err)
	assert.Equal(t, "", updated.Description)
	assert.Equal(t, domain.TaskStatusDone, updated.Status)
}

func TestTaskStore_UpdateToArchivedKeepsTaskLive(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	task := createTask(t, s, "user-1", "title")

	archived := domain.TaskStatusArchived
	updated, err := s.Update(ctx, task.ID, domain.TaskPatch{Status: &archived})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusArchived, updated.Status)
	assert.Nil(t, updated.DeletedAt)

	tasks, err := s.ListByOwner(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestTaskStore_SoftDelete(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	task := createTask(t, s, "user-1", "title")

	deleted, err := s.SoftDelete(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusArchived, deleted.Status)
	require.NotNil(t, deleted.DeletedAt)
	assert.True(t, deleted.DeletedAt.Equal(deleted.UpdatedAt))

	got, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted())

	_, err = s.SoftDelete(ctx, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	title := "resurrect"
	_, err = s.Update(ctx, task.ID, domain.TaskPatch{Title: &title})
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskStore_UpdateMissing(t *testing.T) {
	s := newSQLiteStore(t)

	title := "x"
	_, err := s.Update(context.Background(), uuid.New(), domain.TaskPatch{Title: &title})
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestMigrate_DownAndVersion(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	version, err := sqlstore.CurrentVersion(ctx, db, sqlstore.SQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	require.NoError(t, sqlstore.Migrate(ctx, db, sqlstore.SQLite, sqlstore.MigrateStatus, nil))
	require.NoError(t, sqlstore.Migrate(ctx, db, sqlstore.SQLite, sqlstore.MigrateDown, nil))

	version, err = sqlstore.CurrentVersion(ctx, db, sqlstore.SQLite)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)

	assert.Error(t, sqlstore.Migrate(ctx, db, sqlstore.SQLite, "sideways", nil))
}

func TestParseDialect(t *testing.T) {
	d, err := sqlstore.ParseDialect("postgres")
	require.NoError(t, err)
	assert.Equal(t, "pgx", d.DriverName())

	d, err = sqlstore.ParseDialect("sqlite")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.DriverName())

	_, err = sqlstore.ParseDialect("memory")
	assert.Error(t, err)
}
