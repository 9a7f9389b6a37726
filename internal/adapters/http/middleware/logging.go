package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jsamuelsen11/go-todo-service/internal/platform/logging"
)

// Logging writes a "request started" and a "request completed" line per
// request. Both come from a child of logger carrying request_id and
// correlation_id; the child is also stored in the request context, where the
// todo service finds it. Completion is logged at error for 5xx, warn for 4xx
// and info otherwise. Request headers are dumped, redacted, at debug.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			began := time.Now()
			reqLog := logger.With(
				slog.String("request_id", RequestIDFromContext(r.Context())),
				slog.String("correlation_id", CorrelationIDFromContext(r.Context())),
			)
			ctx := logging.WithLogger(r.Context(), reqLog)
			route := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			}

			reqLog.LogAttrs(ctx, slog.LevelInfo, "request started", route...)
			if reqLog.Enabled(ctx, slog.LevelDebug) {
				reqLog.LogAttrs(ctx, slog.LevelDebug, "request headers", RedactHeaders(r.Header)...)
			}

			sr := record(w)
			next.ServeHTTP(sr, r.WithContext(ctx))

			reqLog.LogAttrs(ctx, completionLevel(sr.status), "request completed", append(route,
				slog.Int("status", sr.status),
				slog.Int64("bytes", sr.bytes),
				slog.Duration("duration", time.Since(began)),
			)...)
		})
	}
}

func completionLevel(status int) slog.Level {
	if status >= http.StatusInternalServerError {
		return slog.LevelError
	}
	if status >= http.StatusBadRequest {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}
