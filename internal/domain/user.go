package domain

import (
	"errors"
	"time"
)

// ErrEmptyUserID is returned when a user record has no identifier.
var ErrEmptyUserID = errors.New("user ID cannot be empty")

// User is a caller known to the user directory. Only its existence matters to
// the task API; the remaining fields are informational.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == "" {
		return ErrEmptyUserID
	}
	return nil
}
