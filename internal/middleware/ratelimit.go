// Package middleware provides HTTP middleware for the tradelens server.
package middleware

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// maxVisitors is the maximum number of tracked IPs to prevent memory exhaustion.
const maxVisitors = 100_000

// visitorTTL is how long an idle IP keeps its limiter.
const visitorTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	methods  []string
}

// NewRateLimiter creates a RateLimiter with the given requests per second and
// burst size. When methods are given only requests using them are counted;
// otherwise every request is. A background goroutine evicts idle IPs until
// ctx is cancelled.
func NewRateLimiter(ctx context.Context, ratePerSec float64, burst int, methods ...string) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(ratePerSec),
		burst:    burst,
		methods:  methods,
	}
	go rl.startCleanup(ctx)

	return rl
}

// startCleanup periodically evicts idle visitors.
func (rl *RateLimiter) startCleanup(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for ip, v := range rl.visitors {
				if now.Sub(v.lastSeen) > visitorTTL {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// allow reports whether ip may proceed; full is true when the visitor table
// has no room for a new IP.
func (rl *RateLimiter) allow(ip string) (ok, full bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, found := rl.visitors[ip]
	if !found {
		if len(rl.visitors) >= maxVisitors {
			return false, true
		}

		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}

	v.lastSeen = time.Now()

	return v.limiter.Allow(), false
}

// Handler returns Gin middleware that applies rate limiting per client IP.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(rl.methods) > 0 && !slices.Contains(rl.methods, c.Request.Method) {
			c.Next()

			return
		}

		// c.ClientIP() is safe from X-Forwarded-For spoofing because
		// SetTrustedProxies(nil) in router.go disables proxy header trust.
		ok, full := rl.allow(c.ClientIP())
		if full {
			reject(c, http.StatusTooManyRequests, codeRateLimited, "too many clients")

			return
		}
		if !ok {
			c.Header("Retry-After", "1")
			reject(c, http.StatusTooManyRequests, codeRateLimited, "rate limit exceeded")

			return
		}

		c.Next()
	}
}
