package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	domainerror "github.com/pj-finance/backend/internal/domain/error"
	"github.com/pj-finance/backend/internal/integration/entrypoint/dto"
)

const (
	// defaultMaxRequests is the default number of allowed requests per window.
	defaultMaxRequests = 5
	// defaultWindowDuration is the default time window for rate limiting.
	defaultWindowDuration = 1 * time.Minute
)

// rateLimitWindow tracks the requests of a single key in the current window.
type rateLimitWindow struct {
	requests  int
	resetTime time.Time
}

// RateLimiter provides fixed-window rate limiting keyed by organization, or by IP for
// unauthenticated callers. Snapshot refreshes recompute every window of every requested
// account, so the refresh route is guarded by it.
type RateLimiter struct {
	mu             sync.Mutex
	windows        map[string]*rateLimitWindow
	maxRequests    int
	windowDuration time.Duration
	clock          func() time.Time
}

// NewRateLimiter creates a new rate limiter with default settings.
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithConfig(defaultMaxRequests, defaultWindowDuration)
}

// NewRateLimiterWithConfig creates a new rate limiter with custom settings.
// Non-positive values fall back to the defaults.
func NewRateLimiterWithConfig(maxRequests int, windowDuration time.Duration) *RateLimiter {
	if maxRequests <= 0 {
		maxRequests = defaultMaxRequests
	}
	if windowDuration <= 0 {
		windowDuration = defaultWindowDuration
	}
	return &RateLimiter{
		windows:        make(map[string]*rateLimitWindow),
		maxRequests:    maxRequests,
		windowDuration: windowDuration,
		clock:          time.Now,
	}
}

// Middleware returns a Gin middleware handler that enforces rate limiting.
// It must run after Authenticate so requests are keyed by organization.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := rl.allow(rateLimitKey(c))
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds()+0.5)))
			c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Too many requests. Please try again later.",
				Code:  string(domainerror.ErrCodeRateLimited),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// rateLimitKey prefers the authenticated organization and falls back to the client IP.
func rateLimitKey(c *gin.Context) string {
	if organizationID, ok := GetOrganizationIDFromContext(c); ok {
		return "org:" + organizationID
	}
	clientIP := c.ClientIP()
	if clientIP == "" {
		clientIP = c.Request.RemoteAddr
	}
	return "ip:" + clientIP
}

// allow records a request for key and reports whether it fits the current window.
// When it does not, it also returns the time left until the window resets.
func (rl *RateLimiter) allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock()

	window, exists := rl.windows[key]
	if !exists || now.After(window.resetTime) {
		rl.windows[key] = &rateLimitWindow{
			requests:  1,
			resetTime: now.Add(rl.windowDuration),
		}
		return true, 0
	}

	if window.requests < rl.maxRequests {
		window.requests++
		return true, 0
	}

	return false, window.resetTime.Sub(now)
}

// Reset clears the rate limiter state.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.windows = make(map[string]*rateLimitWindow)
}

// Cleanup removes expired windows.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock()
	for key, window := range rl.windows {
		if now.After(window.resetTime) {
			delete(rl.windows, key)
		}
	}
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Cleanup()
		}
	}
}
