package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-todo-service/internal/ports"
)

// TodoHandler is the HTTP face of ports.TodoService. It decodes requests,
// maps results to DTOs and errors to problem responses; todo rules stay in
// the service.
type TodoHandler struct {
	svc ports.TodoService
}

// NewTodoHandler returns a TodoHandler backed by svc.
func NewTodoHandler(svc ports.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// ListTodos serves GET /api/v1/todos.
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.svc.ListTodos(r.Context())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, dto.ToTodoListResponse(todos))
}

// CreateTodo serves POST /api/v1/todos and points Location at the new todo.
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var body dto.CreateTodoRequest
	if !bind(w, r, &body) {
		return
	}
	created, err := h.svc.CreateTodo(r.Context(), body.Title)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	w.Header().Set("Location", todoLocation(created.ID))
	respond(w, r, http.StatusCreated, dto.ToTodoResponse(created))
}

// GetTodo serves GET /api/v1/todos/{id}.
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, func(id int64) {
		found, err := h.svc.GetTodo(r.Context(), id)
		if err != nil {
			dto.WriteErrorResponse(w, r, err)
			return
		}
		respond(w, r, http.StatusOK, dto.ToTodoResponse(found))
	})
}

// UpdateTodo serves PATCH /api/v1/todos/{id}. The id is checked before the
// body is read.
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, func(id int64) {
		var body dto.UpdateTodoRequest
		if !bind(w, r, &body) {
			return
		}
		updated, err := h.svc.UpdateTodo(r.Context(), id, body.ToPatch())
		if err != nil {
			dto.WriteErrorResponse(w, r, err)
			return
		}
		respond(w, r, http.StatusOK, dto.ToTodoResponse(updated))
	})
}

// DeleteTodo serves DELETE /api/v1/todos/{id} with 204 on success.
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, func(id int64) {
		if err := h.svc.DeleteTodo(r.Context(), id); err != nil {
			dto.WriteErrorResponse(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

// BulkUpdateTodos serves PATCH /api/v1/todos/bulk: 200 when every update
// applied, 207 when some did not.
func (h *TodoHandler) BulkUpdateTodos(w http.ResponseWriter, r *http.Request) {
	var body dto.BulkUpdateTodosRequest
	if !bind(w, r, &body) {
		return
	}
	result, err := h.svc.BulkUpdateTodos(r.Context(), body.ToTodoUpdates())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	status := http.StatusOK
	if len(result.Errors) > 0 {
		status = http.StatusMultiStatus
	}
	respond(w, r, status, dto.ToBulkUpdateResponse(result))
}

// withID runs fn with the parsed {id}, or writes the 400 itself.
func (h *TodoHandler) withID(w http.ResponseWriter, r *http.Request, fn func(id int64)) {
	id, err := todoIDParam(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}
	fn(id)
}
