package directory

import (
	"context"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// StaticDirectory is an immutable in-memory directory.
type StaticDirectory struct {
	users map[string]domain.User
}

// NewStaticDirectory builds a directory from a fixed list of users.
// Later entries win when IDs repeat.
func NewStaticDirectory(users []domain.User) *StaticDirectory {
	m := make(map[string]domain.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return &StaticDirectory{users: m}
}

var _ UserDirectory = (*StaticDirectory)(nil)

// Resolve implements UserDirectory.
func (d *StaticDirectory) Resolve(_ context.Context, id string) (*domain.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}
