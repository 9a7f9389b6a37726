package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/jsamuelsen11/go-todo-service/internal/platform/config"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/telemetry"
)

func TestSetup_Disabled(t *testing.T) {
	t.Parallel()

	p, err := telemetry.Setup(context.Background(), config.TelemetryConfig{Enabled: false, Exporter: "bogus"})
	if err != nil {
		t.Fatalf("Setup(disabled) error = %v", err)
	}
	if p.Tracer != nil || p.Meter != nil || p.Metrics != nil {
		t.Errorf("Setup(disabled) = %+v, want all nil", p)
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v, want nil", err)
	}
}

// Setup replaces the otel globals, so these cases run one at a time.
func TestSetup_Exporters(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.TelemetryConfig
		wantErr  error
		anyError bool
	}{
		{name: "stdout", cfg: config.TelemetryConfig{Enabled: true, ServiceName: "todo-service", Exporter: telemetry.ExporterStdout}},
		{name: "otlp http", cfg: config.TelemetryConfig{Enabled: true, ServiceName: "todo-service", Exporter: telemetry.ExporterOTLP, Endpoint: "http://localhost:4318"}},
		{name: "otlp bare host", cfg: config.TelemetryConfig{Enabled: true, ServiceName: "todo-service", Exporter: telemetry.ExporterOTLP, Endpoint: "collector:4318"}},
		{name: "otlp without endpoint", cfg: config.TelemetryConfig{Enabled: true, Exporter: telemetry.ExporterOTLP}, anyError: true},
		{name: "unknown exporter", cfg: config.TelemetryConfig{Enabled: true, Exporter: "zipkin"}, wantErr: telemetry.ErrUnsupportedExporter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := telemetry.Setup(context.Background(), tt.cfg)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Setup() error = %v, want %v", err, tt.wantErr)
				}
				return
			case tt.anyError:
				if err == nil {
					t.Fatal("Setup() error = nil, want error")
				}
				return
			case err != nil:
				t.Fatalf("Setup() error = %v", err)
			}
			// No collector runs in tests, so an otlp flush may fail.
			t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

			if p.Tracer == nil || p.Meter == nil || p.Metrics == nil {
				t.Fatalf("Setup() = %+v, want providers and metrics", p)
			}
			if len(otel.GetTextMapPropagator().Fields()) == 0 {
				t.Error("global propagator has no fields, want traceparent and baggage")
			}
		})
	}
}

func TestNewMetrics_RecordsStoreOperations(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := telemetry.NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	ctx := context.Background()
	labels := attribute.NewSet(telemetry.AttrStoreBackend.String("sqlite"), telemetry.AttrStoreOperation.String("create"))
	m.StoreOperationTotal.Add(ctx, 2, metric.WithAttributeSet(labels))
	m.StoreOperationDuration.Record(ctx, 0.004, metric.WithAttributeSet(labels))

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		if sm.Scope.Name != telemetry.MeterName {
			t.Errorf("scope = %q, want %q", sm.Scope.Name, telemetry.MeterName)
		}
		for _, md := range sm.Metrics {
			names[md.Name] = true
			if sum, ok := md.Data.(metricdata.Sum[int64]); ok && md.Name == "todo.store.operation.total" {
				if len(sum.DataPoints) != 1 || sum.DataPoints[0].Value != 2 {
					t.Errorf("todo.store.operation.total = %+v, want one point of 2", sum.DataPoints)
				}
			}
		}
	}
	for _, want := range []string{"todo.store.operation.total", "todo.store.operation.duration"} {
		if !names[want] {
			t.Errorf("metric %q not collected", want)
		}
	}
}
