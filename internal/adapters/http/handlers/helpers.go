package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-todo-service/internal/domain"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/logging"
)

const (
	todosPath = "/api/v1/todos"

	// Request bodies above 1 MiB are rejected as invalid JSON.
	maxBodyBytes = 1 << 20
)

// todoIDParam reads the {id} segment. Anything but a positive base-10
// int64 is a validation error on field "id".
func todoIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Fields: map[string]string{"id": "must be a positive integer"}}
	}
	return id, nil
}

func todoLocation(id int64) string {
	return todosPath + "/" + strconv.FormatInt(id, 10)
}

// respond encodes v as the JSON body. Encoding failures can only be logged
// since the status line is already out.
func respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).ErrorContext(r.Context(), "failed to encode response", logging.Err(err))
	}
}

// requestBody is a request DTO that can check itself once decoded.
type requestBody interface {
	Validate() error
}

// bind decodes the body into dst and validates it. On failure the problem
// response has been written and bind returns false.
func bind[T requestBody](w http.ResponseWriter, r *http.Request, dst T) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil {
		err = &domain.ValidationError{Fields: map[string]string{"body": "invalid JSON"}}
	} else {
		err = dst.Validate()
	}
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return false
	}
	return true
}
