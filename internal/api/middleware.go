package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiters keeps a token bucket per client address. Buckets that have
// not been used for ttl are dropped on the next sweep.
type clientLimiters struct {
	mu        sync.Mutex
	clients   map[string]*client
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type client struct {
	bucket *rate.Limiter
	seen   time.Time
}

func newClientLimiters(requests int, window time.Duration) *clientLimiters {
	return &clientLimiters{
		clients: make(map[string]*client),
		limit:   rate.Limit(float64(requests) / window.Seconds()),
		burst:   max(1, requests/2),
		// a bucket idle for a whole window has refilled completely
		ttl: max(window, time.Minute),
		now: time.Now,
	}
}

func (c *clientLimiters) allow(addr string) bool {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	if now.Sub(c.lastSweep) >= c.ttl {
		c.sweep(now)
	}
	cl, ok := c.clients[addr]
	if !ok {
		cl = &client{bucket: rate.NewLimiter(c.limit, c.burst)}
		c.clients[addr] = cl
	}
	cl.seen = now
	return cl.bucket.AllowN(now, 1)
}

func (c *clientLimiters) sweep(now time.Time) {
	for addr, cl := range c.clients {
		if now.Sub(cl.seen) >= c.ttl {
			delete(c.clients, addr)
		}
	}
	c.lastSweep = now
}

func (c *clientLimiters) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.clients)
}

// RateLimitMiddleware answers 429 once a client address has used up its
// share of requests per window.
func RateLimitMiddleware(requestsPerWindow int, window time.Duration) func(http.Handler) http.Handler {
	return rateLimit(newClientLimiters(requestsPerWindow, window), window)
}

func rateLimit(limiters *clientLimiters, window time.Duration) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(max(1, int(window.Seconds())))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				addr = r.RemoteAddr
			}
			if !limiters.allow(addr) {
				w.Header().Set("Retry-After", retryAfter)
				writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// recoveryLogger routes panics caught by handlers.RecoveryHandler to slog.
type recoveryLogger struct{ log *slog.Logger }

func (l recoveryLogger) Println(v ...any) {
	l.log.Error("panic recovered", "error", fmt.Sprint(v...))
}
