// Package health answers the readiness question for the todo service: can
// every registered dependency, in practice the todo store, serve requests
// right now.
package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jsamuelsen11/go-todo-service/internal/ports"
)

var _ ports.HealthRegistry = (*Registry)(nil)

// Option configures a Registry.
type Option func(*Registry)

// WithCheckTimeout gives each check its own deadline of d on top of the
// caller's context. Zero means no extra deadline.
func WithCheckTimeout(d time.Duration) Option {
	return func(r *Registry) { r.checkTimeout = d }
}

// Registry runs its checkers concurrently on each CheckAll. Checkers are
// keyed by Name at registration, so registering a second checker under a
// name replaces the first.
type Registry struct {
	mu           sync.RWMutex
	checkers     map[string]ports.HealthChecker
	checkTimeout time.Duration
}

// New returns an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{checkers: make(map[string]ports.HealthChecker)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds checker under checker.Name().
func (r *Registry) Register(checker ports.HealthChecker) {
	name := checker.Name()
	r.mu.Lock()
	r.checkers[name] = checker
	r.mu.Unlock()
}

// CheckAll maps every checker name to its result, nil meaning healthy. A
// checker that panics is reported as failing.
func (r *Registry) CheckAll(ctx context.Context) map[string]error {
	r.mu.RLock()
	snapshot := make(map[string]ports.HealthChecker, len(r.checkers))
	for name, c := range r.checkers {
		snapshot[name] = c
	}
	r.mu.RUnlock()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]error, len(snapshot))
	)
	for name, c := range snapshot {
		wg.Go(func() {
			err := r.run(ctx, c)
			mu.Lock()
			results[name] = err
			mu.Unlock()
		})
	}
	wg.Wait()
	return results
}

func (r *Registry) run(ctx context.Context, c ports.HealthChecker) (err error) {
	if r.checkTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.checkTimeout)
		defer cancel()
	}
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("health check panicked: %v", v)
		}
	}()
	return c.HealthCheck(ctx)
}
