package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// MeterName scopes every instrument NewMetrics creates.
const MeterName = "github.com/jsamuelsen11/go-todo-service"

// Metrics are the instruments shared by the HTTP middleware and the
// instrumented todo store.
type Metrics struct {
	ServerRequestDuration  metric.Float64Histogram
	ServerRequestTotal     metric.Int64Counter
	StoreOperationDuration metric.Float64Histogram
	StoreOperationTotal    metric.Int64Counter
}

// NewMetrics registers the instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(MeterName)
	m := &Metrics{}

	var err error
	histogram := func(dst *metric.Float64Histogram, name, desc string) {
		if err == nil {
			*dst, err = meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("s"))
			if err != nil {
				err = fmt.Errorf("creating %s: %w", name, err)
			}
		}
	}
	counter := func(dst *metric.Int64Counter, name, desc, unit string) {
		if err == nil {
			*dst, err = meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
			if err != nil {
				err = fmt.Errorf("creating %s: %w", name, err)
			}
		}
	}

	histogram(&m.ServerRequestDuration, "http.server.request.duration", "Duration of todo API requests")
	counter(&m.ServerRequestTotal, "http.server.request.total", "Todo API requests served", "{request}")
	histogram(&m.StoreOperationDuration, "todo.store.operation.duration", "Duration of todo store operations")
	counter(&m.StoreOperationTotal, "todo.store.operation.total", "Todo store operations performed", "{operation}")

	if err != nil {
		return nil, err
	}
	return m, nil
}
