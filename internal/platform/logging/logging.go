// Package logging builds the service's slog loggers and carries the
// request-scoped logger through context.
//
// Middleware stores a logger enriched with request_id and correlation_id via
// WithLogger. The todo service reads it back with FromContextOr, so every
// store failure it logs can be matched to the HTTP request that caused it:
//
//	logging.FromContextOr(ctx, s.logger).ErrorContext(ctx, "failed to update todo",
//	    logging.Operation("UpdateTodo"),
//	    logging.TodoID(id),
//	    logging.Err(err),
//	)
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Attribute keys shared by the service, the store decorator and middleware.
const (
	KeyOperation = "operation"
	KeyTodoID    = "id"
	KeyError     = "error"
)

type contextKey struct{}

// New returns a logger writing to w. level is one of debug, info, warn or
// error (case-insensitive, unknown means info). format "text" selects the
// text handler; anything else writes JSON. Debug loggers include the source
// location. All output passes through masq redaction.
func New(level, format string, w io.Writer) *slog.Logger {
	lvl := parseLevel(level)

	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl == slog.LevelDebug,
		ReplaceAttr: newRedactAttr(),
	}

	if format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	return FromContextOr(ctx, slog.Default())
}

// FromContextOr returns the logger stored in ctx, or fallback when ctx holds
// none.
func FromContextOr(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return fallback
}

// Operation names the use case or store call being logged.
func Operation(name string) slog.Attr { return slog.String(KeyOperation, name) }

// TodoID identifies the todo a log line is about.
func TodoID(id int64) slog.Attr { return slog.Int64(KeyTodoID, id) }

// Err records the full error chain.
func Err(err error) slog.Attr { return slog.Any(KeyError, err) }

func parseLevel(level string) slog.Level {
	var lvl slog.Level
	switch l := strings.ToLower(strings.TrimSpace(level)); l {
	case "debug", "info", "warn", "error":
		// UnmarshalText accepts exactly these names in any case.
		if err := lvl.UnmarshalText([]byte(l)); err == nil {
			return lvl
		}
	}
	return slog.LevelInfo
}
