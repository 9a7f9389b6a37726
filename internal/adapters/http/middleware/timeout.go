package middleware

import (
	"bytes"
	"context"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/dto"
)

const requestTimedOut = "request did not complete within the configured timeout"

// Timeout bounds each todo request to d. The handler runs on its own
// goroutine against a buffered writer and a context with that deadline, so
// a request parked on the store lock gives up with DeadlineExceeded. If d
// elapses first the client gets a problem+json 504 and whatever the handler
// buffered is dropped. A handler panic is re-raised on the serving
// goroutine for Recovery. d <= 0 disables the stage.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			buf := &deadlineBuffer{status: http.StatusOK}
			finished := make(chan struct{})
			panicked := make(chan any, 1)

			go func() {
				defer func() {
					if v := recover(); v != nil {
						panicked <- v
					}
				}()
				next.ServeHTTP(buf, r.WithContext(ctx))
				close(finished)
			}()

			select {
			case v := <-panicked:
				panic(v)
			case <-finished:
				buf.copyTo(w)
			case <-ctx.Done():
				buf.expire()
				dto.WriteProblem(w, r, http.StatusGatewayTimeout, requestTimedOut)
			}
		})
	}
}

// deadlineBuffer holds a handler's response until Timeout decides whether
// it is delivered or replaced by a 504. sent marks the status as fixed.
// mu guards every field since the
// handler goroutine may still be writing when the deadline fires.
type deadlineBuffer struct {
	mu      sync.Mutex
	header  http.Header
	body    bytes.Buffer
	status  int
	sent    bool
	expired bool
}

func (b *deadlineBuffer) Header() http.Header {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.header == nil {
		b.header = make(http.Header)
	}
	return b.header
}

// Write returns http.ErrHandlerTimeout once the deadline has passed.
func (b *deadlineBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.expired {
		return 0, http.ErrHandlerTimeout
	}
	b.sent = true
	return b.body.Write(p)
}

// WriteHeader keeps the first status; Write alone implies 200.
func (b *deadlineBuffer) WriteHeader(code int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.expired || b.sent {
		return
	}
	b.sent = true
	b.status = code
}

func (b *deadlineBuffer) expire() {
	b.mu.Lock()
	b.expired = true
	b.mu.Unlock()
}

func (b *deadlineBuffer) copyTo(w http.ResponseWriter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	maps.Copy(w.Header(), b.header)
	w.WriteHeader(b.status)
	_, _ = w.Write(b.body.Bytes())
}
