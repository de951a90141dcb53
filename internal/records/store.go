package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// UserSchema represents the users table schema
type UserSchema struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Email     string    `bun:"email,notnull,unique" json:"email"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}

// BunUserStore implements the UserStore interface over a bun connection.
// It works against either a *bun.DB or a per-call bun.Conn.
type BunUserStore struct {
	db bun.IDB
}

// NewBunUserStore creates a new user store instance
func NewBunUserStore(db bun.IDB) *BunUserStore {
	return &BunUserStore{
		db: db,
	}
}

// Create inserts a new user record. The id is assigned by the database and the
// creation timestamp is stamped in UTC. The email UNIQUE constraint makes the
// duplicate check atomic with the insert.
func (s *BunUserStore) Create(ctx context.Context, name, email string) (*User, error) {
	if name == "" || email == "" {
		return nil, NewInvalidUserRequestError("name and email cannot be empty")
	}

	userSchema := UserSchema{
		Name:      name,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.NewInsert().
		Model(&userSchema).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, NewDuplicateEmailError(email, err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return UserSchemaToUser(userSchema), nil
}

// GetByID returns the record with the given id
func (s *BunUserStore) GetByID(ctx context.Context, id int64) (*User, error) {
	var userSchema UserSchema
	err := s.db.NewSelect().
		Model(&userSchema).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewUserNotFoundError(fmt.Sprintf("user with ID %d not found", id))
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return UserSchemaToUser(userSchema), nil
}

// GetByNameSubstring returns the first record, in insertion order, whose name
// contains fragment. The match is case-sensitive; SQL LIKE folds case on
// SQLite, so matching happens in Go against a fresh snapshot.
func (s *BunUserStore) GetByNameSubstring(ctx context.Context, fragment string) (*User, error) {
	users, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if strings.Contains(users[i].Name, fragment) {
			return &users[i], nil
		}
	}

	return nil, NewUserNotFoundError(fmt.Sprintf("user with name %s not found", fragment))
}

// ListAll returns a fresh snapshot of all records in ascending id order
func (s *BunUserStore) ListAll(ctx context.Context) ([]User, error) {
	var schemas []UserSchema
	err := s.db.NewSelect().
		Model(&schemas).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]User, len(schemas))
	for i, schema := range schemas {
		users[i] = *UserSchemaToUser(schema)
	}

	return users, nil
}

// Update applies the supplied fields to the record with the given id.
// Unspecified fields keep their prior values. Email uniqueness is not
// re-checked here; only Create enforces it.
func (s *BunUserStore) Update(ctx context.Context, id int64, req *UpdateUserRequest) (*User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}

	userSchema := UserToUserSchema(user)

	_, err = s.db.NewUpdate().
		Model(&userSchema).
		Column("name", "email").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// Delete removes the record with the given id and returns its prior state
func (s *BunUserStore) Delete(ctx context.Context, id int64) (*User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	_, err = s.db.NewDelete().
		Model((*UserSchema)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	return user, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}

// Helper conversion functions
func UserSchemaToUser(schema UserSchema) *User {
	return &User{
		ID:        schema.ID,
		Name:      schema.Name,
		Email:     schema.Email,
		CreatedAt: schema.CreatedAt,
	}
}

func UserToUserSchema(user *User) UserSchema {
	return UserSchema{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
