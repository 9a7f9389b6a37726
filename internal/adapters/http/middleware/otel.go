package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/go-todo-service/internal/platform/telemetry"
)

const tracerName = "github.com/jsamuelsen11/go-todo-service/internal/adapters/http"

// OpenTelemetry opens a server span per request, continuing any W3C trace
// context in the headers, and records request duration and count.
//
// Spans start under the raw path and are renamed to the chi route pattern
// once routing is done, e.g. "HTTP PATCH /api/v1/todos/{id}", so todo IDs
// stay out of span names and metric labels. A nil metrics skips recording.
func OpenTelemetry(metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	tracer := otel.GetTracerProvider().Tracer(tracerName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			began := time.Now()
			parent := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			ctx, span := tracer.Start(parent, spanName(r.Method, r.URL.Path),
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.URLPath(r.URL.Path),
				),
			)
			defer span.End()
			if id := RequestIDFromContext(ctx); id != "" {
				span.SetAttributes(attribute.String("http.request_id", id))
			}

			sr := record(w)
			next.ServeHTTP(sr, r.WithContext(ctx))

			route := routePattern(ctx)
			if route != "" {
				span.SetName(spanName(r.Method, route))
				span.SetAttributes(semconv.HTTPRoute(route))
			}
			span.SetAttributes(semconv.HTTPResponseStatusCode(sr.status))
			if sr.status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(sr.status))
			}

			if metrics != nil {
				attrs := metric.WithAttributes(
					telemetry.AttrHTTPMethod.String(r.Method),
					telemetry.AttrHTTPRoute.String(route),
					telemetry.AttrHTTPStatus.Int(sr.status),
					telemetry.AttrResult.String(statusResult(sr.status)),
				)
				metrics.ServerRequestDuration.Record(ctx, time.Since(began).Seconds(), attrs)
				metrics.ServerRequestTotal.Add(ctx, 1, attrs)
			}
		})
	}
}

func spanName(method, path string) string { return "HTTP " + method + " " + path }

// routePattern is "" for requests chi did not route.
func routePattern(ctx context.Context) string {
	if rctx := chi.RouteContext(ctx); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}

// statusResult maps a status onto the result label.
func statusResult(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "error"
	case status == http.StatusTooManyRequests:
		return "rate_limited"
	case status >= http.StatusBadRequest:
		return "client_error"
	default:
		return "success"
	}
}
