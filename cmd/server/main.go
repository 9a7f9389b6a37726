// Command server runs the todo HTTP API. APP_PROFILE picks configs/{profile}.yaml;
// the dependency graph is assembled with samber/do and torn down in reverse
// on SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	adapthttp "github.com/jsamuelsen11/go-todo-service/internal/adapters/http"
	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/go-todo-service/internal/adapters/storage"

	"github.com/jsamuelsen11/go-todo-service/internal/app"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/config"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/health"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/logging"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-todo-service/internal/ports"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
	healthCheckTimeout    = 2 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "todo-service: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// service is everything run needs after bootstrap succeeds.
type service struct {
	cfg    *config.Config
	logger *slog.Logger
	otel   *telemetry.Providers
	server *adapthttp.Server
	store  storage.Store
}

func run(ctx context.Context) error {
	svc, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer svc.flushTelemetry()

	return svc.serve(ctx)
}

// bootstrap loads config, opens the todo store and wires the HTTP server.
// On error every resource opened so far has been released.
func bootstrap(ctx context.Context) (*service, error) {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return nil, errors.New("APP_PROFILE environment variable is required (e.g. local, dev, qa, prod)")
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	otel, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	injector := do.New()
	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.Metrics)
	registerDependencies(ctx, injector, cfg, logger)

	// Resolving the server builds the whole graph, store included.
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		_ = otel.Shutdown(ctx)
		return nil, fmt.Errorf("resolving server: %w", err)
	}
	store := do.MustInvoke[storage.Store](injector)
	do.MustInvoke[ports.HealthRegistry](injector).Register(store)

	logger.Info("todo store ready",
		slog.String("driver", cfg.Store.Driver),
		slog.String("profile", profile),
	)

	return &service{cfg: cfg, logger: logger, otel: otel, server: server, store: store}, nil
}

// serve blocks until ctx is canceled or the listener fails, then drains
// in-flight requests and closes the store.
func (s *service) serve(ctx context.Context) error {
	serverErr := make(chan error, 1)
	go func() { serverErr <- s.server.Start() }()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown requested", slog.Any("cause", context.Cause(ctx)))
	case err := <-serverErr:
		_ = s.store.Close()
		return fmt.Errorf("server failed: %w", err)
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(drainCtx); err != nil {
		s.logger.Error("server shutdown error", logging.Err(err))
	}
	<-serverErr

	// The store outlives the server so draining requests can still commit.
	if err := s.store.Close(); err != nil {
		s.logger.Error("todo store close error", logging.Err(err))
	}
	s.logger.Info("shutdown complete")
	return nil
}

func (s *service) flushTelemetry() {
	ctx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer cancel()
	if err := s.otel.Shutdown(ctx); err != nil {
		s.logger.Error("telemetry shutdown error", logging.Err(err))
	}
}

func registerDependencies(ctx context.Context, injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(_ do.Injector) (storage.Store, error) {
		return storage.Open(ctx, cfg.Store)
	})

	do.Provide(injector, func(i do.Injector) (ports.TodoRepository, error) {
		store := do.MustInvoke[storage.Store](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return storage.Instrument(store, cfg.Store.Driver, metrics), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.TodoService, error) {
		repo := do.MustInvoke[ports.TodoRepository](i)
		return app.NewTodoService(repo, logger), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(health.WithCheckTimeout(healthCheckTimeout)), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.TodoHandler, error) {
		svc := do.MustInvoke[ports.TodoService](i)
		return handlers.NewTodoHandler(svc), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		todoH := do.MustInvoke[*handlers.TodoHandler](i)
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		var limiter middleware.Middleware
		if cfg.RateLimit.Enabled {
			limiter = middleware.RateLimit(cfg.RateLimit)
		}

		return adapthttp.NewRouter(todoH, healthH,
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			limiter,
			middleware.Timeout(cfg.Server.RequestTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
