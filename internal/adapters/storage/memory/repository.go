// Package memory provides the in-process implementation of
// [ports.TodoRepository]. State lives for the lifetime of the Repository and
// is discarded with it.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"golang.org/x/sync/semaphore"

	"github.com/jsamuelsen11/go-todo-service/internal/domain"
	"github.com/jsamuelsen11/go-todo-service/internal/domain/todo"
	"github.com/jsamuelsen11/go-todo-service/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.TodoRepository = (*Repository)(nil)
	_ ports.HealthChecker  = (*Repository)(nil)
)

// firstID is the ID assigned to the first todo created in a fresh Repository.
const firstID int64 = 1

// Repository is a concurrency-safe, in-memory [ports.TodoRepository].
//
// A single weighted semaphore of size one guards both the todo map and the
// ID counter, so ID assignment and insertion happen together. Waiting for the
// semaphore is the only point where an operation can block or be canceled;
// once acquired, the operation body runs to completion without checking the
// context again and releases the semaphore on every return path.
type Repository struct {
	lock   *semaphore.Weighted
	nextID int64
	todos  map[int64]todo.Todo
}

// New creates an empty Repository whose first assigned ID is 1.
func New() *Repository {
	return &Repository{
		lock:   semaphore.NewWeighted(1),
		nextID: firstID,
		todos:  make(map[int64]todo.Todo),
	}
}

// acquire waits for exclusive access. If ctx is done first, the context error
// is returned and the caller must not touch state.
func (r *Repository) acquire(ctx context.Context) error {
	if err := r.lock.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquiring todo store lock: %w", err)
	}
	return nil
}

func (r *Repository) release() {
	r.lock.Release(1)
}

// Create stores a new todo under the next counter value.
func (r *Repository) Create(ctx context.Context, title string) (*todo.Todo, error) {
	t, err := todo.New(title)
	if err != nil {
		return nil, err
	}

	if err := r.acquire(ctx); err != nil {
		return nil, err
	}
	defer r.release()

	id := r.nextID
	r.nextID++
	if _, exists := r.todos[id]; exists {
		// The occupied ID is skipped so later creates are unaffected.
		return nil, fmt.Errorf("todo %d already present before assignment: %w", id, domain.ErrInternal)
	}

	t.ID = id
	r.todos[id] = t

	return &t, nil
}

// Get returns a copy of the stored todo.
func (r *Repository) Get(ctx context.Context, id int64) (*todo.Todo, error) {
	if err := r.acquire(ctx); err != nil {
		return nil, err
	}
	defer r.release()

	t, ok := r.todos[id]
	if !ok {
		return nil, notFound(id)
	}
	return &t, nil
}

// List returns copies of all todos ordered by ID. IDs are handed out in
// increasing order, so this is also insertion order.
func (r *Repository) List(ctx context.Context) ([]todo.Todo, error) {
	if err := r.acquire(ctx); err != nil {
		return nil, err
	}
	defer r.release()

	ids := slices.Sorted(maps.Keys(r.todos))
	out := make([]todo.Todo, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.todos[id])
	}
	return out, nil
}

// Update replaces the provided fields of an existing todo.
func (r *Repository) Update(ctx context.Context, id int64, patch todo.Patch) (*todo.Todo, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	if err := r.acquire(ctx); err != nil {
		return nil, err
	}
	defer r.release()

	current, ok := r.todos[id]
	if !ok {
		return nil, notFound(id)
	}
	if patch.IsEmpty() {
		return &current, nil
	}

	updated := patch.ApplyTo(current)
	r.todos[id] = updated

	return &updated, nil
}

// Delete removes a todo. Its ID is never handed out again.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.acquire(ctx); err != nil {
		return err
	}
	defer r.release()

	if _, ok := r.todos[id]; !ok {
		return notFound(id)
	}
	delete(r.todos, id)
	return nil
}

// Name implements [ports.HealthChecker].
func (r *Repository) Name() string {
	return "todo-store"
}

// HealthCheck reports whether the store lock can be acquired before ctx
// expires. A store stuck behind a never-released lock reports unhealthy.
func (r *Repository) HealthCheck(ctx context.Context) error {
	if err := r.acquire(ctx); err != nil {
		return err
	}
	r.release()
	return nil
}

// Close is a no-op; state is discarded with the Repository.
func (r *Repository) Close() error {
	return nil
}

func notFound(id int64) error {
	return fmt.Errorf("todo %d: %w", id, domain.ErrNotFound)
}
