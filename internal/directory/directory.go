// Package directory resolves caller identities to user records.
//
// The task API only needs to know whether an identifier names a real user;
// backends are a static in-process list for development and Redis for shared
// deployments. Remote backends are wrapped in a circuit breaker.
package directory

import (
	"context"
	"errors"
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// ErrUserNotFound is returned by Resolve when the identifier names no user.
var ErrUserNotFound = errors.New("user not found")

// ErrUnavailable is returned when the directory cannot be consulted.
var ErrUnavailable = errors.New("user directory unavailable")

// UserDirectory maps an opaque user identifier to a user record.
type UserDirectory interface {
	// Resolve returns the user for id, ErrUserNotFound if there is none,
	// or another error if the backend failed.
	Resolve(ctx context.Context, id string) (*domain.User, error)
}

// DevelopmentUsers returns the fixed set of users available in development.
func DevelopmentUsers() []domain.User {
	return []domain.User{
		{
			ID:        "user-1",
			Name:      "Alice Johnson",
			Email:     "alice@example.com",
			CreatedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:        "user-2",
			Name:      "Bob Smith",
			Email:     "bob@example.com",
			CreatedAt: time.Date(2024, 2, 20, 14, 30, 0, 0, time.UTC),
			UpdatedAt: time.Date(2024, 2, 20, 14, 30, 0, 0, time.UTC),
		},
		{
			ID:        "user-3",
			Name:      "Carol Williams",
			Email:     "carol@example.com",
			CreatedAt: time.Date(2024, 3, 10, 9, 15, 0, 0, time.UTC),
			UpdatedAt: time.Date(2024, 3, 10, 9, 15, 0, 0, time.UTC),
		},
	}
}
