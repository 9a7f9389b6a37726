package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/middleware"
)

func serveRequestID(t *testing.T, inbound []string) (ctxID, headerID string) {
	t.Helper()

	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ctxID = middleware.RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", http.NoBody)
	if inbound != nil {
		req.Header[http.CanonicalHeaderKey("X-Request-ID")] = inbound
	}
	handler.ServeHTTP(rec, req)
	return ctxID, rec.Header().Get("X-Request-ID")
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		inbound  []string
		wantKeep string
	}{
		{name: "absent header generates uuid"},
		{name: "well-formed header kept", inbound: []string{"lb-7f3a"}, wantKeep: "lb-7f3a"},
		{name: "max length kept", inbound: []string{strings.Repeat("r", 128)}, wantKeep: strings.Repeat("r", 128)},
		{name: "too long replaced", inbound: []string{strings.Repeat("r", 129)}},
		{name: "space replaced", inbound: []string{"abc def"}},
		{name: "log injection replaced", inbound: []string{"abc\nlevel=ERROR"}},
		{name: "non-ascii replaced", inbound: []string{"id-é"}},
		{name: "empty replaced", inbound: []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctxID, headerID := serveRequestID(t, tt.inbound)

			if ctxID != headerID {
				t.Errorf("context ID %q != response header %q", ctxID, headerID)
			}
			if tt.wantKeep != "" {
				if ctxID != tt.wantKeep {
					t.Errorf("RequestIDFromContext() = %q, want %q", ctxID, tt.wantKeep)
				}
				return
			}
			parsed, err := uuid.Parse(ctxID)
			if err != nil {
				t.Fatalf("generated ID %q is not a UUID: %v", ctxID, err)
			}
			if parsed.Version() != 4 {
				t.Errorf("UUID version = %d, want 4", parsed.Version())
			}
		})
	}
}

func TestRequestID_UniquePerRequest(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for range 50 {
		id, _ := serveRequestID(t, nil)
		if seen[id] {
			t.Fatalf("duplicate request ID %q", id)
		}
		seen[id] = true
	}
}

func TestRequestIDFromContext(t *testing.T) {
	t.Parallel()

	if got := middleware.RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("RequestIDFromContext(empty) = %q, want empty", got)
	}
	ctx := middleware.WithRequestID(context.Background(), "req-seed")
	if got := middleware.RequestIDFromContext(ctx); got != "req-seed" {
		t.Errorf("RequestIDFromContext() = %q, want %q", got, "req-seed")
	}
}
