package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tabletalk/tabletalk/internal/records"
)

// Operation is the canonical operation identifier after alias resolution
type Operation string

const (
	OperationAdd    Operation = "add"
	OperationGet    Operation = "get"
	OperationList   Operation = "list"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// operationAliases maps the operation names the model is prompted with to
// canonical operations. Lookup is case-insensitive.
var operationAliases = map[string]Operation{
	"add_user":      OperationAdd,
	"create_user":   OperationAdd,
	"get_user":      OperationGet,
	"find_user":     OperationGet,
	"list_users":    OperationList,
	"get_all_users": OperationList,
	"update_user":   OperationUpdate,
	"delete_user":   OperationDelete,
}

// Normalize resolves an operation name to its canonical operation
func Normalize(name string) (Operation, bool) {
	op, ok := operationAliases[strings.ToLower(name)]
	return op, ok
}

// Dispatcher translates a named operation plus a parameter bag into a store
// action and a result string. It holds no state across calls; every call
// acquires a fresh store scope from the provider and releases it on exit.
type Dispatcher struct {
	provider records.Provider
	logger   *zap.Logger
}

// New creates a new dispatcher instance
func New(provider records.Provider, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		provider: provider,
		logger:   logger,
	}
}

// Handle executes the named operation and returns a plain-text outcome.
// It never returns an error and never panics: every failure path, including
// unexpected store failures, is rendered as a descriptive string.
func (d *Dispatcher) Handle(ctx context.Context, name string, params Params) (result string) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Recovered from panic in operation handler",
				zap.String("operation", name),
				zap.Any("panic", r))
			result = fmt.Sprintf("Error: %v", r)
		}
	}()

	result, err := d.dispatch(ctx, name, params)
	if err != nil {
		d.logger.Debug("Operation failed",
			zap.String("operation", name),
			zap.Error(err))
		return renderError(err)
	}

	d.logger.Debug("Operation succeeded", zap.String("operation", name))
	return result
}

func (d *Dispatcher) dispatch(ctx context.Context, name string, params Params) (string, error) {
	op, ok := Normalize(name)
	if !ok {
		return "", NewUnknownOperationError(name)
	}

	store, release, err := d.provider.Acquire(ctx)
	if err != nil {
		return "", NewStorageError(err)
	}
	defer release()

	switch op {
	case OperationAdd:
		return d.handleAdd(ctx, store, params)
	case OperationGet:
		return d.handleGet(ctx, store, params)
	case OperationList:
		return d.handleList(ctx, store)
	case OperationUpdate:
		return d.handleUpdate(ctx, store, params)
	case OperationDelete:
		return d.handleDelete(ctx, store, params)
	default:
		return "", NewUnknownOperationError(name)
	}
}

func (d *Dispatcher) handleAdd(ctx context.Context, store records.UserStore, params Params) (string, error) {
	name, nameOK := params.Text("name")
	email, emailOK := params.Text("email")
	if !nameOK || !emailOK {
		return "", NewValidationError("Name and email are required")
	}

	user, err := store.Create(ctx, name, email)
	if err != nil {
		if records.IsDuplicateEmail(err) {
			return "", NewConflictError(fmt.Sprintf("User with email '%s' already exists", email), err)
		}
		return "", NewStorageError(err)
	}

	return fmt.Sprintf("User '%s' added successfully with ID %d", user.Name, user.ID), nil
}

func (d *Dispatcher) handleGet(ctx context.Context, store records.UserStore, params Params) (string, error) {
	if id, ok := params.ID("id"); ok {
		user, err := store.GetByID(ctx, id)
		if err != nil {
			if records.IsNotFound(err) {
				return "", NewNotFoundError(fmt.Sprintf("User with ID %d not found", id))
			}
			return "", NewStorageError(err)
		}
		return formatUser(user), nil
	}

	if name, ok := params.Text("name"); ok {
		user, err := store.GetByNameSubstring(ctx, name)
		if err != nil {
			if records.IsNotFound(err) {
				return "", NewNotFoundError(fmt.Sprintf("User with name %s not found", name))
			}
			return "", NewStorageError(err)
		}
		return formatUser(user), nil
	}

	return "", NewValidationError("Please provide either 'id' or 'name' to look up a user")
}

func (d *Dispatcher) handleList(ctx context.Context, store records.UserStore) (string, error) {
	users, err := store.ListAll(ctx)
	if err != nil {
		return "", NewStorageError(err)
	}

	if len(users) == 0 {
		return "No users in database", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d user(s):\n", len(users))
	for i := range users {
		sb.WriteString(formatUser(&users[i]))
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), " \t\n"), nil
}

func (d *Dispatcher) handleUpdate(ctx context.Context, store records.UserStore, params Params) (string, error) {
	id, ok := params.ID("id")
	if !ok {
		return "", NewValidationError("User ID is required for update")
	}

	req := &records.UpdateUserRequest{}
	if name, ok := params.Text("name"); ok {
		req.Name = &name
	}
	if email, ok := params.Text("email"); ok {
		req.Email = &email
	}
	if !req.HasChanges() {
		return "", NewValidationError("No fields to update. Provide 'name' or 'email'")
	}

	_, err := store.Update(ctx, id, req)
	if err != nil {
		if records.IsNotFound(err) {
			return "", NewNotFoundError(fmt.Sprintf("User with ID %d not found", id))
		}
		return "", NewStorageError(err)
	}

	return fmt.Sprintf("User %d updated successfully", id), nil
}

func (d *Dispatcher) handleDelete(ctx context.Context, store records.UserStore, params Params) (string, error) {
	id, ok := params.ID("id")
	if !ok {
		return "", NewValidationError("User ID is required for deletion")
	}

	user, err := store.Delete(ctx, id)
	if err != nil {
		if records.IsNotFound(err) {
			return "", NewNotFoundError(fmt.Sprintf("User with ID %d not found", id))
		}
		return "", NewStorageError(err)
	}

	return fmt.Sprintf("User '%s' (ID=%d) deleted successfully", user.Name, user.ID), nil
}

// formatUser renders one record line. Dates are day-resolution UTC.
func formatUser(u *records.User) string {
	return fmt.Sprintf("User: ID=%d, Name=%s, Email=%s, Created=%s",
		u.ID, u.Name, u.Email, u.CreatedAt.UTC().Format("2006-01-02"))
}

// renderError converts a typed operation error into the plain string shown to
// the caller. Not-found outcomes are normal negative results, not "Error:"s.
func renderError(err error) string {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		switch opErr.Type {
		case OperationErrorTypeUnknownOperation:
			return fmt.Sprintf("Unknown operation: %s", opErr.Message)
		case OperationErrorTypeNotFound:
			return opErr.Message
		default:
			return fmt.Sprintf("Error: %s", opErr.Message)
		}
	}
	return fmt.Sprintf("Error: %s", err.Error())
}
