package dto_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-todo-service/internal/domain"
)

func TestNewErrorResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{"missing todo", fmt.Errorf("fetching todo 42: %w", domain.ErrNotFound), http.StatusNotFound, "fetching todo 42: not found"},
		{"bad field", &domain.ValidationError{Fields: map[string]string{"title": "is required"}}, http.StatusBadRequest, ""},
		{"blank title", domain.NewInvalidTitle(domain.MsgRequired), http.StatusBadRequest, ""},
		{"occupied id", fmt.Errorf("todo 1 already present: %w", domain.ErrInternal), http.StatusInternalServerError, "Internal Server Error"},
		{"lock wait expired", fmt.Errorf("acquiring todo store lock: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "Gateway Timeout"},
		{"client went away", context.Canceled, http.StatusInternalServerError, "Internal Server Error"},
		{"driver failure", errors.New("sqlite: disk I/O error"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/api/v1/todos/42", nil)
			got := dto.NewErrorResponse(r, tt.err)

			if got.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", got.Status, tt.wantStatus)
			}
			if want := http.StatusText(tt.wantStatus); got.Title != want {
				t.Errorf("Title = %q, want %q", got.Title, want)
			}
			if tt.wantDetail != "" && got.Detail != tt.wantDetail {
				t.Errorf("Detail = %q, want %q", got.Detail, tt.wantDetail)
			}
			if got.Type != "about:blank" || got.Instance != "/api/v1/todos/42" {
				t.Errorf("Type, Instance = %q, %q, want about:blank, /api/v1/todos/42", got.Type, got.Instance)
			}
			var verr *domain.ValidationError
			if !errors.As(tt.err, &verr) && got.Errors != nil {
				t.Errorf("Errors = %v, want nil outside validation failures", got.Errors)
			}
		})
	}
}

func TestNewErrorResponse_ValidationErrors(t *testing.T) {
	t.Parallel()

	verr := &domain.ValidationError{Fields: map[string]string{
		"todos[1].title": "must not be empty",
		"todos":          "must not be empty",
		"id":             "must be a positive integer",
		"todos[0].id":    "must be a positive integer",
	}}

	r := httptest.NewRequest(http.MethodPatch, "/api/v1/todos/bulk", nil)
	got := dto.NewErrorResponse(r, verr)

	want := []string{"body.todos", "body.todos[0].id", "body.todos[1].title", "path.id"}
	if len(got.Errors) != len(want) {
		t.Fatalf("len(Errors) = %d, want %d", len(got.Errors), len(want))
	}
	for i, loc := range want {
		if got.Errors[i].Location != loc {
			t.Errorf("Errors[%d].Location = %q, want %q", i, got.Errors[i].Location, loc)
		}
	}
}

func TestWriteErrorResponse_Headers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"missing todo", fmt.Errorf("deleting todo 5: %w", domain.ErrNotFound), http.StatusNotFound},
		{"bad bulk item", &domain.ValidationError{Fields: map[string]string{"todos[0].id": "must be a positive integer"}}, http.StatusBadRequest},
		{"blank title", domain.NewInvalidTitle(domain.MsgMustNotBeEmpty), http.StatusBadRequest},
		{"store failure", domain.ErrInternal, http.StatusInternalServerError},
		{"lock wait expired", context.DeadlineExceeded, http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodDelete, "/api/v1/todos/5", nil)

			dto.WriteErrorResponse(w, r, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status code = %d, want %d", w.Code, tt.wantStatus)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("Content-Type = %q, want %q", ct, "application/problem+json")
			}
		})
	}
}

func TestWriteErrorResponse_ValidJSON(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/todos", nil)

	verr := &domain.ValidationError{Fields: map[string]string{
		"title": "is required",
	}}
	dto.WriteErrorResponse(w, r, verr)

	var resp dto.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}

	if resp.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want %d", resp.Status, http.StatusBadRequest)
	}
	if resp.Type != "about:blank" {
		t.Errorf("Type = %q, want %q", resp.Type, "about:blank")
	}
	if len(resp.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(resp.Errors))
	}
	if resp.Errors[0].Location != "body.title" {
		t.Errorf("Errors[0].Location = %q, want %q", resp.Errors[0].Location, "body.title")
	}
	if resp.Errors[0].Message != "is required" {
		t.Errorf("Errors[0].Message = %q, want %q", resp.Errors[0].Message, "is required")
	}
}

func TestWriteProblem(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)

	dto.WriteProblem(w, r, http.StatusTooManyRequests, "rate limit exceeded")

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status code = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/problem+json")
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if resp.Detail != "rate limit exceeded" {
		t.Errorf("Detail = %q, want %q", resp.Detail, "rate limit exceeded")
	}
	if resp.Title != "Too Many Requests" {
		t.Errorf("Title = %q, want %q", resp.Title, "Too Many Requests")
	}
}
