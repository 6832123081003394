package directory_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phrazzld/tasks-api/internal/directory"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticDirectory_DevelopmentUsers(t *testing.T) {
	dir := directory.NewStaticDirectory(directory.DevelopmentUsers())
	ctx := context.Background()

	tests := []struct {
		id   string
		name string
	}{
		{"user-1", "Alice Johnson"},
		{"user-2", "Bob Smith"},
		{"user-3", "Carol Williams"},
	}
	for _, tt := range tests {
		user, err := dir.Resolve(ctx, tt.id)
		require.NoError(t, err, tt.id)
		assert.Equal(t, tt.name, user.Name)
	}

	_, err := dir.Resolve(ctx, "nobody")
	assert.ErrorIs(t, err, directory.ErrUserNotFound)

	_, err = dir.Resolve(ctx, "")
	assert.ErrorIs(t, err, directory.ErrUserNotFound)
}

func TestStaticDirectory_ReturnsCopies(t *testing.T) {
	dir := directory.NewStaticDirectory([]domain.User{{ID: "u", Name: "before"}})

	user, err := dir.Resolve(context.Background(), "u")
	require.NoError(t, err)
	user.Name = "after"

	again, err := dir.Resolve(context.Background(), "u")
	require.NoError(t, err)
	assert.Equal(t, "before", again.Name)
}

// flakyDirectory fails while failing is set and counts calls.
type flakyDirectory struct {
	failing atomic.Bool
	calls   atomic.Int32
}

func (f *flakyDirectory) Resolve(ctx context.Context, id string) (*domain.User, error) {
	f.calls.Add(1)
	if f.failing.Load() {
		return nil, errors.New("connection refused")
	}
	if id != "user-1" {
		return nil, directory.ErrUserNotFound
	}
	return &domain.User{ID: id}, nil
}

func TestBreakerDirectory_OpensAfterConsecutiveFailures(t *testing.T) {
	backend := &flakyDirectory{}
	backend.failing.Store(true)

	dir := directory.NewBreakerDirectory(backend, directory.BreakerConfig{
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
	}, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := dir.Resolve(ctx, "user-1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, directory.ErrUnavailable)
	}
	assert.Equal(t, gobreaker.StateOpen, dir.State())

	_, err := dir.Resolve(ctx, "user-1")
	assert.ErrorIs(t, err, directory.ErrUnavailable)
	assert.Equal(t, int32(2), backend.calls.Load(), "open breaker should not reach the backend")
}

func TestBreakerDirectory_UnknownUserIsNotAFailure(t *testing.T) {
	backend := &flakyDirectory{}
	dir := directory.NewBreakerDirectory(backend, directory.BreakerConfig{
		FailureThreshold: 1,
		OpenTimeout:      time.Minute,
	}, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := dir.Resolve(ctx, "stranger")
		assert.ErrorIs(t, err, directory.ErrUserNotFound)
	}
	assert.Equal(t, gobreaker.StateClosed, dir.State())

	user, err := dir.Resolve(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
}

func TestBreakerDirectory_LookupTimeout(t *testing.T) {
	slow := directoryFunc(func(ctx context.Context, id string) (*domain.User, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	dir := directory.NewBreakerDirectory(slow, directory.BreakerConfig{
		FailureThreshold: 5,
		OpenTimeout:      time.Minute,
		LookupTimeout:    20 * time.Millisecond,
	}, nil)

	_, err := dir.Resolve(context.Background(), "user-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBreakerDirectory_CanceledCallersDoNotTrip(t *testing.T) {
	healthy := directoryFunc(func(ctx context.Context, id string) (*domain.User, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &domain.User{ID: id}, nil
	})
	dir := directory.NewBreakerDirectory(healthy, directory.BreakerConfig{
		FailureThreshold: 5,
		OpenTimeout:      time.Minute,
		LookupTimeout:    time.Second,
	}, nil)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 10; i++ {
		_, err := dir.Resolve(canceled, "user-1")
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, gobreaker.StateClosed, dir.State())

	user, err := dir.Resolve(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
}

func TestBreakerDirectory_TimeoutsTrip(t *testing.T) {
	slow := directoryFunc(func(ctx context.Context, id string) (*domain.User, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	dir := directory.NewBreakerDirectory(slow, directory.BreakerConfig{
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		LookupTimeout:    10 * time.Millisecond,
	}, nil)

	for i := 0; i < 2; i++ {
		_, err := dir.Resolve(context.Background(), "user-1")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}
	assert.Equal(t, gobreaker.StateOpen, dir.State())
}

type directoryFunc func(ctx context.Context, id string) (*domain.User, error)

func (f directoryFunc) Resolve(ctx context.Context, id string) (*domain.User, error) {
	return f(ctx, id)
}
