package storage

import (
	"context"
	"fmt"

	"github.com/jsamuelsen11/go-todo-service/internal/adapters/storage/memory"
	"github.com/jsamuelsen11/go-todo-service/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/config"
	"github.com/jsamuelsen11/go-todo-service/internal/ports"
)

// Store is a todo repository together with its readiness check and
// lifecycle hook.
type Store interface {
	ports.TodoRepository
	ports.HealthChecker
	Close() error
}

// Open builds the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case config.StoreDriverMemory:
		return memory.New(), nil
	case config.StoreDriverSQLite:
		repo, err := sqlite.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
