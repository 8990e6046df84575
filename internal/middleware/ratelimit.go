package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/kiwoompulse/internal/domain/dto"
)

// visitor is the fixed-window counter of one client IP.
type visitor struct {
	windowStart time.Time
	count       int
}

// ipLimiter is an in-memory fixed-window counter keyed by client IP.
// Multi-instance deployments would need a shared store.
type ipLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
	lastGC   time.Time
	now      func() time.Time
}

func newIPLimiter(limit int, window time.Duration) *ipLimiter {
	return &ipLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// allow counts one request for ip and reports whether it fits the window.
func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastGC) > l.window {
		for k, v := range l.visitors {
			if now.Sub(v.windowStart) > l.window {
				delete(l.visitors, k)
			}
		}
		l.lastGC = now
	}

	v, ok := l.visitors[ip]
	if !ok || now.Sub(v.windowStart) > l.window {
		v = &visitor{windowStart: now}
		l.visitors[ip] = v
	}
	v.count++
	return v.count <= l.limit
}

// RateLimiter limits every client IP to limit requests per window.
//
// Each call returns an independent limiter. Every ranking request costs two broker
// calls (token and ranking), so this is also what keeps the API within the broker quota.
//
// Response when the limit is exceeded:
//
//	HTTP/1.1 429 Too Many Requests
//	{"message": "rate limit exceeded", "timestamp": "..."}
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := newIPLimiter(limit, window)
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.Header("Retry-After", window.String())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse("rate limit exceeded", nil))
			return
		}
		c.Next()
	}
}
