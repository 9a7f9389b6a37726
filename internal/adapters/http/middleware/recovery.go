package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/dto"
)

// Recovery turns a panic below it into a problem+json 500 and an error log
// entry with the stack. Nothing about the panic reaches the client. When the
// handler already committed a response the status cannot change, so only
// the log entry is written.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := record(w)
			defer recoverTodoRequest(logger, rw, r)
			next.ServeHTTP(rw, r)
		})
	}
}

func recoverTodoRequest(logger *slog.Logger, rw *statusRecorder, r *http.Request) {
	v := recover()
	if v == nil {
		return
	}

	// Recovery runs before RequestID, so the ID is only visible on the
	// response headers RequestID set on this writer.
	logger.LogAttrs(r.Context(), slog.LevelError, "panic recovered",
		slog.String("panic", fmt.Sprint(v)),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("request_id", rw.Header().Get(headerRequestID)),
		slog.Bool("response_committed", rw.committed()),
		slog.String("stack", string(debug.Stack())),
	)

	if rw.committed() {
		return
	}
	dto.WriteProblem(rw, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
