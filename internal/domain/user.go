package domain

import (
	"context"
	"time"
)

// RoleUser is the role assigned to every account at signup.
const RoleUser = "user"

// User represents a registered account.
type User struct {
	ID           int64
	Email        string
	Name         string
	Surname      string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository defines persistence operations for users. Email uniqueness
// is enforced at the storage layer; Create returns ErrDuplicateEmail on a
// conflict regardless of any earlier existence check.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}
