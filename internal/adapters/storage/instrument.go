// Package storage selects and decorates the todo store implementations.
package storage

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/go-todo-service/internal/domain"
	"github.com/jsamuelsen11/go-todo-service/internal/domain/todo"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-todo-service/internal/ports"
)

const tracerName = "storage"

// Operation result labels recorded on store metrics.
const (
	resultSuccess  = "success"
	resultNotFound = "not_found"
	resultInvalid  = "invalid"
	resultCanceled = "canceled"
	resultError    = "error"
)

// Compile-time interface check.
var _ ports.TodoRepository = (*InstrumentedRepository)(nil)

// InstrumentedRepository wraps a [ports.TodoRepository] with a client span
// and duration/count metrics per call. Errors pass through unchanged.
type InstrumentedRepository struct {
	next    ports.TodoRepository
	backend string
	metrics *telemetry.Metrics
}

// Instrument decorates next. backend labels spans and metrics (for example
// "memory" or "sqlite"). If metrics is nil, only spans are recorded.
func Instrument(next ports.TodoRepository, backend string, metrics *telemetry.Metrics) *InstrumentedRepository {
	return &InstrumentedRepository{next: next, backend: backend, metrics: metrics}
}

func (r *InstrumentedRepository) Create(ctx context.Context, title string) (*todo.Todo, error) {
	ctx, done := r.begin(ctx, "create")
	t, err := r.next.Create(ctx, title)
	if err == nil {
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("todo.id", t.ID))
	}
	done(err)
	return t, err
}

func (r *InstrumentedRepository) Get(ctx context.Context, id int64) (*todo.Todo, error) {
	ctx, done := r.begin(ctx, "get", attribute.Int64("todo.id", id))
	t, err := r.next.Get(ctx, id)
	done(err)
	return t, err
}

func (r *InstrumentedRepository) List(ctx context.Context) ([]todo.Todo, error) {
	ctx, done := r.begin(ctx, "list")
	todos, err := r.next.List(ctx)
	if err == nil {
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int("todo.count", len(todos)))
	}
	done(err)
	return todos, err
}

func (r *InstrumentedRepository) Update(ctx context.Context, id int64, patch todo.Patch) (*todo.Todo, error) {
	ctx, done := r.begin(ctx, "update", attribute.Int64("todo.id", id))
	t, err := r.next.Update(ctx, id, patch)
	done(err)
	return t, err
}

func (r *InstrumentedRepository) Delete(ctx context.Context, id int64) error {
	ctx, done := r.begin(ctx, "delete", attribute.Int64("todo.id", id))
	err := r.next.Delete(ctx, id)
	done(err)
	return err
}

// begin starts a span for operation and returns a function that ends it and
// records metrics for the outcome.
func (r *InstrumentedRepository) begin(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()

	tracer := otel.GetTracerProvider().Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "todo.store."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(append(attrs,
			telemetry.AttrStoreBackend.String(r.backend),
			telemetry.AttrStoreOperation.String(operation),
		)...),
	)

	return ctx, func(err error) {
		defer span.End()

		result := classify(err)
		span.SetAttributes(telemetry.AttrResult.String(result))
		if result == resultError || result == resultCanceled {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		r.record(ctx, operation, result, start)
	}
}

func (r *InstrumentedRepository) record(ctx context.Context, operation, result string, start time.Time) {
	if r.metrics == nil {
		return
	}

	attrs := metric.WithAttributes(
		telemetry.AttrStoreBackend.String(r.backend),
		telemetry.AttrStoreOperation.String(operation),
		telemetry.AttrResult.String(result),
	)

	r.metrics.StoreOperationDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	r.metrics.StoreOperationTotal.Add(ctx, 1, attrs)
}

// classify maps an operation error to a metric result label. Expected domain
// outcomes are kept apart from genuine failures.
func classify(err error) string {
	switch {
	case err == nil:
		return resultSuccess
	case errors.Is(err, domain.ErrNotFound):
		return resultNotFound
	case errors.Is(err, domain.ErrValidation):
		return resultInvalid
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return resultCanceled
	default:
		return resultError
	}
}
