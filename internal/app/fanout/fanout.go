// Package fanout runs a function over a slice of items with bounded
// concurrency, preserving input order in the results. The application layer
// uses it for bulk todo updates, where each item succeeds or fails on its own.
package fanout

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Result holds the outcome of processing a single item.
// Either Value is populated (on success) or Err is non-nil (on failure).
type Result[R any] struct {
	Value R
	Err   error
}

// Run executes fn for each item using at most maxWorkers concurrent calls.
// Results are returned in input order. A maxWorkers below 1 is treated as 1.
//
// An item still waiting for a worker slot when ctx is done records the
// context error and fn is never called for it. Items that already hold a
// slot run to completion; fn decides whether to observe ctx.
//
// Run blocks until every item has a result. Empty input yields an empty
// non-nil slice.
func Run[T, R any](ctx context.Context, maxWorkers int, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	if len(items) == 0 {
		return []Result[R]{}
	}
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	results := make([]Result[R], len(items))
	sem := semaphore.NewWeighted(int64(maxWorkers))
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Go(func() {
			if err := sem.Acquire(ctx, 1); err != nil {
				results[i] = Result[R]{Err: err}
				return
			}
			defer sem.Release(1)

			val, err := fn(ctx, item)
			results[i] = Result[R]{Value: val, Err: err}
		})
	}

	wg.Wait()
	return results
}
