package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/phrazzld/tasks-api/internal/directory"
	"github.com/phrazzld/tasks-api/internal/domain"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*UserDirectory, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewUserDirectory(client, nil), mr
}

func TestUserDirectory_SeedAndResolve(t *testing.T) {
	dir, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, dir.Seed(ctx, directory.DevelopmentUsers()))
	assert.Equal(t, "Alice Johnson", mr.HGet("user:user-1", "name"))

	user, err := dir.Resolve(ctx, "user-2")
	require.NoError(t, err)
	assert.Equal(t, "user-2", user.ID)
	assert.Equal(t, "Bob Smith", user.Name)
	assert.Equal(t, "bob@example.com", user.Email)
	assert.True(t, user.CreatedAt.Equal(time.Date(2024, 2, 20, 14, 30, 0, 0, time.UTC)))
}

func TestUserDirectory_ResolveUnknown(t *testing.T) {
	dir, _ := setupTestRedis(t)

	_, err := dir.Resolve(context.Background(), "user-9")
	assert.ErrorIs(t, err, directory.ErrUserNotFound)
}

func TestUserDirectory_SeedReplaces(t *testing.T) {
	dir, mr := setupTestRedis(t)
	ctx := context.Background()

	mr.HSet("user:user-1", "name", "Old Name", "legacy", "x")
	require.NoError(t, dir.Seed(ctx, []domain.User{{ID: "user-1", Name: "New Name"}}))

	assert.Equal(t, "New Name", mr.HGet("user:user-1", "name"))
	assert.Equal(t, "", mr.HGet("user:user-1", "legacy"))
}

func TestUserDirectory_SeedRejectsInvalidUser(t *testing.T) {
	dir, _ := setupTestRedis(t)

	err := dir.Seed(context.Background(), []domain.User{{Name: "no id"}})
	assert.ErrorIs(t, err, domain.ErrEmptyUserID)
}

func TestUserDirectory_BackendDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	dir := NewUserDirectory(client, nil)
	mr.Close()

	_, err = dir.Resolve(context.Background(), "user-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, directory.ErrUserNotFound)
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	require.NoError(t, client.Close())

	_, err = NewClient(context.Background(), "not a url")
	assert.Error(t, err)
}
