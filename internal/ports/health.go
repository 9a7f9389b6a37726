package ports

import "context"

// HealthChecker is a dependency whose failure should take the todo API out
// of rotation. Both todo stores implement it.
type HealthChecker interface {
	// Name keys the checker in readiness output, e.g. "todo-store".
	Name() string

	// HealthCheck returns nil when the store can serve requests. It must
	// give up when ctx is done.
	HealthCheck(ctx context.Context) error
}

// HealthRegistry backs GET /health/ready.
type HealthRegistry interface {
	Register(checker HealthChecker)

	// CheckAll runs every registered checker and maps each Name to its
	// error, nil meaning ready.
	CheckAll(ctx context.Context) map[string]error
}
