package ports

import (
	"context"

	"github.com/jsamuelsen11/go-todo-service/internal/domain/todo"
)

// TodoService defines the service port for todo use cases.
// Implemented by the application layer; called by inbound adapters (handlers).
// Error kinds from the repository are propagated unchanged.
type TodoService interface {
	// ListTodos returns every todo in insertion order.
	ListTodos(ctx context.Context) ([]todo.Todo, error)

	// GetTodo returns a single todo by ID.
	// Returns domain.ErrNotFound if the todo does not exist.
	GetTodo(ctx context.Context, id int64) (*todo.Todo, error)

	// CreateTodo normalizes the title and creates a new todo.
	// Returns domain.ErrInvalidTitle if the normalized title is empty.
	CreateTodo(ctx context.Context, title string) (*todo.Todo, error)

	// UpdateTodo applies a partial update to an existing todo.
	// Returns domain.ErrNotFound if the todo does not exist.
	// Returns domain.ErrInvalidTitle if a provided title is empty.
	UpdateTodo(ctx context.Context, id int64, patch todo.Patch) (*todo.Todo, error)

	// DeleteTodo deletes a todo by ID.
	// Returns domain.ErrNotFound if the todo does not exist.
	DeleteTodo(ctx context.Context, id int64) error

	// BulkUpdateTodos applies several partial updates concurrently. Uses
	// partial success semantics: each update succeeds or fails independently.
	// Returns a hard error only for request-level failures (validation).
	// Individual update failures are collected in BulkUpdateResult.Errors.
	BulkUpdateTodos(ctx context.Context, updates []TodoUpdate) (*BulkUpdateResult, error)
}

// TodoUpdate pairs a todo ID with the patch to apply in bulk operations.
type TodoUpdate struct {
	TodoID int64
	Patch  todo.Patch
}

// BulkUpdateError records a single failed todo update within a bulk operation.
type BulkUpdateError struct {
	TodoID int64
	Err    error
}

// BulkUpdateResult holds the outcomes of a bulk update operation.
// Updated contains successfully updated todos in request order; Errors
// contains per-item failures.
type BulkUpdateResult struct {
	Updated []todo.Todo
	Errors  []BulkUpdateError
}
