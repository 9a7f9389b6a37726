package handlers_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/go-todo-service/internal/domain"
	"github.com/jsamuelsen11/go-todo-service/internal/domain/todo"
	"github.com/jsamuelsen11/go-todo-service/internal/ports"
	"github.com/jsamuelsen11/go-todo-service/mocks"
)

func newTodoHandler(t *testing.T) (*handlers.TodoHandler, *mocks.MockTodoService) {
	t.Helper()
	svc := mocks.NewMockTodoService(t)
	return handlers.NewTodoHandler(svc), svc
}

// --- ListTodos ---

func TestListTodos_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	svc.EXPECT().ListTodos(mock.Anything).Return([]todo.Todo{
		{ID: 1, Title: "A", Completed: true},
		{ID: 2, Title: "B"},
	}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)
	h.ListTodos(rec, req)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.TodoListResponse](t, rec)
	if resp.Count != 2 {
		t.Errorf("Count = %d, want 2", resp.Count)
	}
	if resp.Todos[0].ID != 1 || !resp.Todos[0].Completed {
		t.Errorf("Todos[0] = %+v, want id 1 completed", resp.Todos[0])
	}
}

func TestListTodos_Empty(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	svc.EXPECT().ListTodos(mock.Anything).Return([]todo.Todo{}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)
	h.ListTodos(rec, req)

	requireStatus(t, rec, http.StatusOK)
	if got := rec.Body.String(); got != "{\"todos\":[],\"count\":0}\n" {
		t.Errorf("body = %q, want empty todos array", got)
	}
}

func TestListTodos_ServiceError(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	svc.EXPECT().ListTodos(mock.Anything).Return(nil, domain.ErrInternal)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)
	h.ListTodos(rec, req)

	requireStatus(t, rec, http.StatusInternalServerError)
}

// --- CreateTodo ---

func TestCreateTodo_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	svc.EXPECT().CreateTodo(mock.Anything, "Buy milk").Return(&todo.Todo{ID: 1, Title: "Buy milk"}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/todos", bodyOf(t, dto.CreateTodoRequest{Title: "Buy milk"}))
	h.CreateTodo(rec, req)

	requireStatus(t, rec, http.StatusCreated)
	if loc := rec.Header().Get("Location"); loc != "/api/v1/todos/1" {
		t.Errorf("Location = %q, want %q", loc, "/api/v1/todos/1")
	}
	resp := decodeJSON[dto.TodoResponse](t, rec)
	if resp != (dto.TodoResponse{ID: 1, Title: "Buy milk"}) {
		t.Errorf("response = %+v", resp)
	}
}

func TestCreateTodo_InvalidJSON(t *testing.T) {
	t.Parallel()
	h, _ := newTodoHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/todos", bytes.NewBufferString("{not json"))
	h.CreateTodo(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestCreateTodo_BlankTitle(t *testing.T) {
	t.Parallel()
	h, _ := newTodoHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/todos", bodyOf(t, dto.CreateTodoRequest{Title: "   "}))
	h.CreateTodo(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
	resp := decodeJSON[dto.ErrorResponse](t, rec)
	if len(resp.Errors) != 1 || resp.Errors[0].Location != "body.title" {
		t.Errorf("Errors = %+v, want a single body.title entry", resp.Errors)
	}
}

// --- GetTodo ---

func TestGetTodo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		id         string
		setup      func(svc *mocks.MockTodoService)
		wantStatus int
	}{
		{
			name: "found",
			id:   "1",
			setup: func(svc *mocks.MockTodoService) {
				svc.EXPECT().GetTodo(mock.Anything, int64(1)).Return(&todo.Todo{ID: 1, Title: "A"}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "not found",
			id:   "99",
			setup: func(svc *mocks.MockTodoService) {
				svc.EXPECT().GetTodo(mock.Anything, int64(99)).Return(nil, fmt.Errorf("todo 99: %w", domain.ErrNotFound))
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "deadline exceeded",
			id:   "1",
			setup: func(svc *mocks.MockTodoService) {
				svc.EXPECT().GetTodo(mock.Anything, int64(1)).Return(nil, context.DeadlineExceeded)
			},
			wantStatus: http.StatusGatewayTimeout,
		},
		{name: "non-numeric id", id: "abc", wantStatus: http.StatusBadRequest},
		{name: "zero id", id: "0", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, svc := newTodoHandler(t)
			if tt.setup != nil {
				tt.setup(svc)
			}

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/todos/"+tt.id, nil)
			req = withTodoID(req, tt.id)
			h.GetTodo(rec, req)

			requireStatus(t, rec, tt.wantStatus)
		})
	}
}

// --- UpdateTodo ---

func TestUpdateTodo_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	svc.EXPECT().UpdateTodo(mock.Anything, int64(1), mock.MatchedBy(func(p todo.Patch) bool {
		return p.Title == nil && p.Completed != nil && *p.Completed
	})).Return(&todo.Todo{ID: 1, Title: "A", Completed: true}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/todos/1", bytes.NewBufferString(`{"completed":true}`))
	req = withTodoID(req, "1")
	h.UpdateTodo(rec, req)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.TodoResponse](t, rec)
	if resp.Title != "A" || !resp.Completed {
		t.Errorf("response = %+v, want title preserved and completed", resp)
	}
}

func TestUpdateTodo_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		id         string
		body       string
		setup      func(svc *mocks.MockTodoService)
		wantStatus int
	}{
		{name: "invalid id", id: "x", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "invalid JSON", id: "1", body: `{`, wantStatus: http.StatusBadRequest},
		{name: "blank title", id: "1", body: `{"title":"  "}`, wantStatus: http.StatusBadRequest},
		{
			name: "not found",
			id:   "5",
			body: `{"completed":false}`,
			setup: func(svc *mocks.MockTodoService) {
				svc.EXPECT().UpdateTodo(mock.Anything, int64(5), mock.Anything).Return(nil, domain.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, svc := newTodoHandler(t)
			if tt.setup != nil {
				tt.setup(svc)
			}

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPatch, "/api/v1/todos/"+tt.id, bytes.NewBufferString(tt.body))
			req = withTodoID(req, tt.id)
			h.UpdateTodo(rec, req)

			requireStatus(t, rec, tt.wantStatus)
		})
	}
}

// --- DeleteTodo ---

func TestDeleteTodo_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	svc.EXPECT().DeleteTodo(mock.Anything, int64(1)).Return(nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/todos/1", nil)
	req = withTodoID(req, "1")
	h.DeleteTodo(rec, req)

	requireStatus(t, rec, http.StatusNoContent)
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
}

func TestDeleteTodo_NotFound(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	svc.EXPECT().DeleteTodo(mock.Anything, int64(2)).Return(domain.ErrNotFound)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/todos/2", nil)
	req = withTodoID(req, "2")
	h.DeleteTodo(rec, req)

	requireStatus(t, rec, http.StatusNotFound)
}

// --- BulkUpdateTodos ---

func TestBulkUpdateTodos_AllSucceeded(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	svc.EXPECT().BulkUpdateTodos(mock.Anything, mock.MatchedBy(func(u []ports.TodoUpdate) bool {
		return len(u) == 2 && u[0].TodoID == 1 && u[1].TodoID == 2
	})).Return(&ports.BulkUpdateResult{
		Updated: []todo.Todo{{ID: 1, Title: "a", Completed: true}, {ID: 2, Title: "b", Completed: true}},
	}, nil)

	body := bodyOf(t, dto.BulkUpdateTodosRequest{Todos: []dto.BulkUpdateTodoItem{
		{ID: 1, Completed: boolPtr(true)},
		{ID: 2, Completed: boolPtr(true)},
	}})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/todos/bulk", body)
	h.BulkUpdateTodos(rec, req)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.BulkUpdateTodosResponse](t, rec)
	if resp.Succeeded != 2 || resp.Failed != 0 {
		t.Errorf("succeeded/failed = %d/%d, want 2/0", resp.Succeeded, resp.Failed)
	}
}

func TestBulkUpdateTodos_PartialFailure(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	svc.EXPECT().BulkUpdateTodos(mock.Anything, mock.Anything).Return(&ports.BulkUpdateResult{
		Updated: []todo.Todo{{ID: 1, Title: "renamed"}},
		Errors:  []ports.BulkUpdateError{{TodoID: 2, Err: domain.ErrNotFound}},
	}, nil)

	body := bodyOf(t, dto.BulkUpdateTodosRequest{Todos: []dto.BulkUpdateTodoItem{
		{ID: 1, Title: strPtr("renamed")},
		{ID: 2, Title: strPtr("missing")},
	}})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/todos/bulk", body)
	h.BulkUpdateTodos(rec, req)

	requireStatus(t, rec, http.StatusMultiStatus)
	resp := decodeJSON[dto.BulkUpdateTodosResponse](t, rec)
	if len(resp.Errors) != 1 || resp.Errors[0].Status != http.StatusNotFound {
		t.Errorf("Errors = %+v, want one 404 entry", resp.Errors)
	}
}

func TestBulkUpdateTodos_RequestErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		body  string
		setup func(svc *mocks.MockTodoService)
	}{
		{name: "invalid JSON", body: `[`},
		{name: "empty list", body: `{"todos":[]}`},
		{name: "missing id", body: `{"todos":[{"completed":true}]}`},
		{
			name: "service rejects batch",
			body: `{"todos":[{"id":1,"completed":true},{"id":1,"completed":false}]}`,
			setup: func(svc *mocks.MockTodoService) {
				svc.EXPECT().BulkUpdateTodos(mock.Anything, mock.Anything).Return(nil,
					&domain.ValidationError{Fields: map[string]string{"todos[1].id": "duplicates todos[0].id"}})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, svc := newTodoHandler(t)
			if tt.setup != nil {
				tt.setup(svc)
			}

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPatch, "/api/v1/todos/bulk", bytes.NewBufferString(tt.body))
			h.BulkUpdateTodos(rec, req)

			requireStatus(t, rec, http.StatusBadRequest)
		})
	}
}
