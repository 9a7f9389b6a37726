package ports

import (
	"context"

	"github.com/jsamuelsen11/go-todo-service/internal/domain/todo"
)

// TodoRepository defines the storage port for the Todo aggregate.
// Implemented by the storage adapters (memory, sqlite); called by the
// application layer. Implementations own the canonical copy of every Todo
// and hand out copies, so callers can never mutate stored state directly.
//
// Every operation is atomic with respect to every other operation on the
// same repository. An operation whose context is canceled before it starts
// returns the context error and has no effect.
type TodoRepository interface {
	// Create stores a new todo with a freshly assigned, never reused ID.
	// Returns domain.ErrInvalidTitle if title is empty.
	Create(ctx context.Context, title string) (*todo.Todo, error)

	// Get returns the todo with the given ID.
	// Returns domain.ErrNotFound if no live todo has that ID.
	Get(ctx context.Context, id int64) (*todo.Todo, error)

	// List returns a snapshot of all todos in insertion order. The slice is
	// empty, not nil, when the store is empty.
	List(ctx context.Context) ([]todo.Todo, error)

	// Update applies the provided patch fields and returns the result.
	// Returns domain.ErrNotFound if the todo does not exist, or
	// domain.ErrInvalidTitle if a provided title is empty. An empty patch
	// returns the unchanged todo.
	Update(ctx context.Context, id int64, patch todo.Patch) (*todo.Todo, error)

	// Delete removes a todo. Deleting the same ID twice fails the second time
	// with domain.ErrNotFound.
	Delete(ctx context.Context, id int64) error
}
