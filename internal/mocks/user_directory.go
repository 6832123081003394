package mocks

import (
	"context"
	"sync/atomic"

	"github.com/phrazzld/tasks-api/internal/directory"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// MockUserDirectory implements directory.UserDirectory for testing.
// With no ResolveFn it knows exactly the users in Users.
type MockUserDirectory struct {
	ResolveFn func(ctx context.Context, id string) (*domain.User, error)
	Users     map[string]domain.User

	ResolveCalls atomic.Int32
}

var _ directory.UserDirectory = (*MockUserDirectory)(nil)

// Resolve implements directory.UserDirectory
func (m *MockUserDirectory) Resolve(ctx context.Context, id string) (*domain.User, error) {
	m.ResolveCalls.Add(1)
	if m.ResolveFn != nil {
		return m.ResolveFn(ctx, id)
	}
	user, ok := m.Users[id]
	if !ok {
		return nil, directory.ErrUserNotFound
	}
	return &user, nil
}
