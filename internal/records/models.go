package records

import (
	"time"
)

// User represents a single user record in the store
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateUserRequest carries the mutable fields of a user record.
// A nil field means "leave unchanged".
type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// HasChanges reports whether the request would modify anything
func (r *UpdateUserRequest) HasChanges() bool {
	return r.Name != nil || r.Email != nil
}
