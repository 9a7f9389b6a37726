// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/go-todo-service/internal/app/fanout"
	"github.com/jsamuelsen11/go-todo-service/internal/domain"
	"github.com/jsamuelsen11/go-todo-service/internal/domain/todo"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/logging"
	"github.com/jsamuelsen11/go-todo-service/internal/ports"
)

const (
	// maxBulkUpdates caps the number of updates accepted in a single bulk request.
	maxBulkUpdates = 100

	// bulkWorkers bounds concurrent repository calls during a bulk update.
	bulkWorkers = 8
)

// Compile-time check that TodoService implements ports.TodoService.
var _ ports.TodoService = (*TodoService)(nil)

// TodoService implements ports.TodoService on top of a TodoRepository. It
// normalizes and validates input before any repository call, logs failures,
// and returns repository errors unchanged so callers can match them with
// errors.Is.
//
// Logs go to the request logger carried in ctx when there is one, so they
// share the request_id and correlation_id of the HTTP request; otherwise to
// the logger given to NewTodoService.
type TodoService struct {
	repo   ports.TodoRepository
	logger *slog.Logger
}

// NewTodoService creates a TodoService. logger is the fallback used when ctx
// carries no request logger; nil discards output.
func NewTodoService(repo ports.TodoRepository, logger *slog.Logger) *TodoService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TodoService{
		repo:   repo,
		logger: logger,
	}
}

// ListTodos returns every todo in insertion order.
func (s *TodoService) ListTodos(ctx context.Context) ([]todo.Todo, error) {
	s.log(ctx).InfoContext(ctx, "listing todos")

	todos, err := s.repo.List(ctx)
	if err != nil {
		s.log(ctx).ErrorContext(ctx, "failed to list todos",
			logging.Operation("ListTodos"),
			logging.Err(err),
		)
		return nil, err
	}

	return todos, nil
}

// GetTodo returns a single todo by ID.
func (s *TodoService) GetTodo(ctx context.Context, id int64) (*todo.Todo, error) {
	s.log(ctx).InfoContext(ctx, "fetching todo", logging.TodoID(id))

	t, err := s.repo.Get(ctx, id)
	if err != nil {
		s.logFailure(ctx, "failed to fetch todo", "GetTodo", id, err)
		return nil, err
	}

	return t, nil
}

// CreateTodo trims the title, validates it and stores a new todo.
func (s *TodoService) CreateTodo(ctx context.Context, title string) (*todo.Todo, error) {
	title = todo.NormalizeTitle(title)
	s.log(ctx).InfoContext(ctx, "creating todo", slog.String("title", title))

	if err := todo.ValidateTitle(title, domain.MsgRequired); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, title)
	if err != nil {
		s.log(ctx).ErrorContext(ctx, "failed to create todo",
			logging.Operation("CreateTodo"),
			logging.Err(err),
		)
		return nil, err
	}

	return created, nil
}

// UpdateTodo applies the provided fields of patch to an existing todo. A
// provided title is trimmed and must not be empty afterwards.
func (s *TodoService) UpdateTodo(ctx context.Context, id int64, patch todo.Patch) (*todo.Todo, error) {
	s.log(ctx).InfoContext(ctx, "updating todo", logging.TodoID(id))

	patch = patch.Normalized()
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		s.logFailure(ctx, "failed to update todo", "UpdateTodo", id, err)
		return nil, err
	}

	return updated, nil
}

// DeleteTodo removes a todo. Deleting the same ID twice reports not found.
func (s *TodoService) DeleteTodo(ctx context.Context, id int64) error {
	s.log(ctx).InfoContext(ctx, "deleting todo", logging.TodoID(id))

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logFailure(ctx, "failed to delete todo", "DeleteTodo", id, err)
		return err
	}

	return nil
}

// BulkUpdateTodos validates every update up front and then applies them
// concurrently. A malformed request fails as a whole before any write;
// after that each update succeeds or fails on its own.
func (s *TodoService) BulkUpdateTodos(ctx context.Context, updates []ports.TodoUpdate) (*ports.BulkUpdateResult, error) {
	s.log(ctx).InfoContext(ctx, "bulk updating todos", slog.Int("count", len(updates)))

	normalized, err := normalizeBulk(updates)
	if err != nil {
		return nil, err
	}

	results := fanout.Run(ctx, bulkWorkers, normalized, func(ctx context.Context, u ports.TodoUpdate) (*todo.Todo, error) {
		return s.repo.Update(ctx, u.TodoID, u.Patch)
	})

	out := &ports.BulkUpdateResult{
		Updated: make([]todo.Todo, 0, len(results)),
	}
	for i, r := range results {
		id := normalized[i].TodoID
		if r.Err != nil {
			s.logFailure(ctx, "failed to update todo in bulk", "BulkUpdateTodos", id, r.Err)
			out.Errors = append(out.Errors, ports.BulkUpdateError{TodoID: id, Err: r.Err})
			continue
		}
		out.Updated = append(out.Updated, *r.Value)
	}

	return out, nil
}

// normalizeBulk trims titles and rejects an empty or oversized batch,
// duplicate IDs and invalid patches. Field keys point at the offending entry.
func normalizeBulk(updates []ports.TodoUpdate) ([]ports.TodoUpdate, error) {
	switch {
	case len(updates) == 0:
		return nil, &domain.ValidationError{Fields: map[string]string{"todos": domain.MsgMustNotBeEmpty}}
	case len(updates) > maxBulkUpdates:
		return nil, &domain.ValidationError{Fields: map[string]string{
			"todos": fmt.Sprintf("must contain at most %d items", maxBulkUpdates),
		}}
	}

	fields := make(map[string]string)
	var kind error
	seen := make(map[int64]int, len(updates))
	out := make([]ports.TodoUpdate, len(updates))

	for i, u := range updates {
		if prev, dup := seen[u.TodoID]; dup {
			fields[fmt.Sprintf("todos[%d].id", i)] = fmt.Sprintf("duplicates todos[%d].id", prev)
		}
		seen[u.TodoID] = i

		out[i] = ports.TodoUpdate{TodoID: u.TodoID, Patch: u.Patch.Normalized()}
		if err := out[i].Patch.Validate(); err != nil {
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				return nil, err
			}
			for field, msg := range ve.Fields {
				fields[fmt.Sprintf("todos[%d].%s", i, field)] = msg
			}
			kind = ve.Kind
		}
	}

	if len(fields) > 0 {
		return nil, &domain.ValidationError{Fields: fields, Kind: kind}
	}
	return out, nil
}

// log returns the request-scoped logger from ctx, or the service logger.
func (s *TodoService) log(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, s.logger)
}

func (s *TodoService) logFailure(ctx context.Context, msg, operation string, id int64, err error) {
	s.log(ctx).ErrorContext(ctx, msg,
		logging.Operation(operation),
		logging.TodoID(id),
		logging.Err(err),
	)
}
