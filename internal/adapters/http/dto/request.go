package dto

import (
	"fmt"
	"strings"

	"github.com/jsamuelsen11/go-todo-service/internal/domain"
	"github.com/jsamuelsen11/go-todo-service/internal/domain/todo"
	"github.com/jsamuelsen11/go-todo-service/internal/ports"
)

// CreateTodoRequest represents the JSON body for creating a new todo.
type CreateTodoRequest struct {
	Title string `json:"title"`
}

// Validate checks that the title is present.
// Returns a *domain.ValidationError of kind domain.ErrInvalidTitle on failure.
func (r *CreateTodoRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return domain.NewInvalidTitle(domain.MsgRequired)
	}
	return nil
}

// UpdateTodoRequest represents the JSON body for updating an existing todo.
// All fields are optional; nil means "do not change this field".
type UpdateTodoRequest struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Validate checks that a provided title is not blank.
func (r *UpdateTodoRequest) Validate() error {
	return r.ToPatch().Validate()
}

// ToPatch converts the request to a domain patch.
func (r *UpdateTodoRequest) ToPatch() todo.Patch {
	return todo.Patch{Title: r.Title, Completed: r.Completed}
}

// BulkUpdateTodoItem is one entry of a bulk update request.
type BulkUpdateTodoItem struct {
	ID        int64   `json:"id"`
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// BulkUpdateTodosRequest represents the JSON body for PATCH /api/v1/todos/bulk.
type BulkUpdateTodosRequest struct {
	Todos []BulkUpdateTodoItem `json:"todos"`
}

// Validate checks the shape of the request. Duplicate IDs, blank titles and
// batch size limits are enforced by the application service.
func (r *BulkUpdateTodosRequest) Validate() error {
	fields := make(map[string]string)

	if len(r.Todos) == 0 {
		fields["todos"] = domain.MsgMustNotBeEmpty
	}
	for i, item := range r.Todos {
		if item.ID < 1 {
			fields[fmt.Sprintf("todos[%d].id", i)] = "must be a positive integer"
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// ToTodoUpdates converts the request items to service updates, keeping order.
func (r *BulkUpdateTodosRequest) ToTodoUpdates() []ports.TodoUpdate {
	updates := make([]ports.TodoUpdate, len(r.Todos))
	for i, item := range r.Todos {
		updates[i] = ports.TodoUpdate{
			TodoID: item.ID,
			Patch:  todo.Patch{Title: item.Title, Completed: item.Completed},
		}
	}
	return updates
}
