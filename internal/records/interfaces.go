package records

import (
	"context"
)

// UserStore defines the interface for user storage operations
type UserStore interface {
	Create(ctx context.Context, name, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByNameSubstring(ctx context.Context, fragment string) (*User, error)
	ListAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id int64, req *UpdateUserRequest) (*User, error)
	Delete(ctx context.Context, id int64) (*User, error)
}

// ReleaseFunc returns a scoped store acquisition to its provider
type ReleaseFunc func()

// Provider hands out a UserStore scoped to a single dispatcher call.
// The returned ReleaseFunc must be called on every exit path.
type Provider interface {
	Acquire(ctx context.Context) (UserStore, ReleaseFunc, error)
}
