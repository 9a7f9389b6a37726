package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/go-todo-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-todo-service/internal/platform/config"
)

const (
	limiterIdleTTL      = 15 * time.Minute
	limiterSweepEvery   = 2 * time.Minute
	rateLimitedResponse = "request rate limit exceeded"
)

// RateLimit returns middleware that applies a token bucket per client IP.
// Rejected requests get 429 Too Many Requests with a Retry-After header.
// When cfg.Enabled is false the middleware passes every request through.
func RateLimit(cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}

	limiters := newClientLimiters(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := time.Now()
			res := limiters.get(clientKey(r), now).ReserveN(now, 1)

			delay := res.DelayFrom(now)
			if !res.OK() || delay > 0 {
				res.CancelAt(now)
				w.Header().Set("Retry-After", retryAfterSeconds(delay))
				dto.WriteProblem(w, r, http.StatusTooManyRequests, rateLimitedResponse)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientLimiters holds one limiter per client key. Entries idle for longer
// than limiterIdleTTL are evicted during lookups.
type clientLimiters struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	entries   map[string]*limiterEntry
	lastSweep time.Time
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func newClientLimiters(limit rate.Limit, burst int) *clientLimiters {
	return &clientLimiters{
		limit:   limit,
		burst:   burst,
		entries: make(map[string]*limiterEntry),
	}
}

func (c *clientLimiters) get(key string, now time.Time) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if now.Sub(c.lastSweep) >= limiterSweepEvery {
		cutoff := now.Add(-limiterIdleTTL)
		for k, e := range c.entries {
			if e.lastSeen.Before(cutoff) {
				delete(c.entries, k)
			}
		}
		c.lastSweep = now
	}

	if e, ok := c.entries[key]; ok {
		e.lastSeen = now
		return e.lim
	}

	lim := rate.NewLimiter(c.limit, c.burst)
	c.entries[key] = &limiterEntry{lim: lim, lastSeen: now}
	return lim
}

// clientKey identifies the caller by remote IP. Forwarding headers are not
// trusted; a proxy in front of the service must do its own limiting.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// retryAfterSeconds renders a delay as whole seconds, rounded up, never below 1.
func retryAfterSeconds(delay time.Duration) string {
	secs := int(math.Ceil(delay.Seconds()))
	if secs < 1 || delay == rate.InfDuration {
		secs = 1
	}
	return strconv.Itoa(secs)
}
