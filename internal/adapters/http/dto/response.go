// Package dto holds the JSON bodies of the todo API: request payloads with
// their validation, response shapes, and RFC 9457 problem documents.
package dto

import (
	"github.com/jsamuelsen11/go-todo-service/internal/domain/todo"
	"github.com/jsamuelsen11/go-todo-service/internal/ports"
)

// TodoResponse is one todo as the API returns it.
type TodoResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// TodoListResponse is the body of GET /api/v1/todos.
type TodoListResponse struct {
	Todos []TodoResponse `json:"todos"`
	Count int            `json:"count"`
}

// ToTodoResponse maps a todo onto its JSON shape.
func ToTodoResponse(t *todo.Todo) TodoResponse {
	return TodoResponse{ID: t.ID, Title: t.Title, Completed: t.Completed}
}

// toTodoResponses never returns nil, so empty lists encode as [].
func toTodoResponses(todos []todo.Todo) []TodoResponse {
	out := make([]TodoResponse, 0, len(todos))
	for i := range todos {
		out = append(out, ToTodoResponse(&todos[i]))
	}
	return out
}

// ToTodoListResponse wraps todos with their count.
func ToTodoListResponse(todos []todo.Todo) TodoListResponse {
	items := toTodoResponses(todos)
	return TodoListResponse{Todos: items, Count: len(items)}
}

// BulkUpdateTodosResponse is the body of PATCH /api/v1/todos/bulk. Updated
// and Errors are both always present, possibly empty.
type BulkUpdateTodosResponse struct {
	Updated   []TodoResponse        `json:"updated"`
	Errors    []BulkUpdateErrorItem `json:"errors"`
	Total     int                   `json:"total"`
	Succeeded int                   `json:"succeeded"`
	Failed    int                   `json:"failed"`
}

// BulkUpdateErrorItem is one todo the bulk update could not apply.
// Status is the HTTP status the same failure would produce on its own, and
// Message is masked for server-side failures the same way.
type BulkUpdateErrorItem struct {
	TodoID  int64  `json:"todo_id"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// ToBulkUpdateResponse reports each failed item with the status and message
// a single-item request would have produced.
func ToBulkUpdateResponse(result *ports.BulkUpdateResult) BulkUpdateTodosResponse {
	resp := BulkUpdateTodosResponse{
		Updated:   toTodoResponses(result.Updated),
		Errors:    make([]BulkUpdateErrorItem, 0, len(result.Errors)),
		Succeeded: len(result.Updated),
		Failed:    len(result.Errors),
	}
	for _, e := range result.Errors {
		status := statusFor(e.Err)
		resp.Errors = append(resp.Errors, BulkUpdateErrorItem{
			TodoID:  e.TodoID,
			Status:  status,
			Message: clientMessage(status, e.Err),
		})
	}
	resp.Total = resp.Succeeded + resp.Failed
	return resp
}

// HealthResponse is the body of the liveness and readiness endpoints.
// Checks is omitted for liveness.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
