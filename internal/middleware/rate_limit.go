package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	// DefaultRateLimit is requests per minute per session
	DefaultRateLimit = 120
	DefaultBurstSize = 20
	CleanupInterval  = 5 * time.Minute
	// LimiterTTL is how long an idle session keeps its limiter
	LimiterTTL = 10 * time.Minute

	// MutationCost is charged for requests that change remote transactions:
	// the remote write plus the refetch of both lists that follows it
	MutationCost = 3
)

// RateLimiter is a token bucket per session. A read costs one token and may
// trigger a snapshot fetch; a transaction mutation costs MutationCost because
// it always writes remotely and refetches.
type RateLimiter struct {
	limiters  map[string]*limiterEntry
	mu        sync.RWMutex
	limit     int
	rateLimit float64
	burstSize int
	stopCh    chan struct{}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new RateLimiter with default settings
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithConfig(DefaultRateLimit, DefaultBurstSize)
}

// NewRateLimiterWithConfig creates a RateLimiter with custom configuration
func NewRateLimiterWithConfig(requestsPerMinute int, burstSize int) *RateLimiter {
	rl := &RateLimiter{
		limiters:  make(map[string]*limiterEntry),
		limit:     requestsPerMinute,
		rateLimit: float64(requestsPerMinute) / 60.0, // per second
		burstSize: burstSize,
		stopCh:    make(chan struct{}),
	}

	// Start cleanup goroutine
	go rl.cleanup()

	return rl
}

// Allow reports whether the session may make another read
func (r *RateLimiter) Allow(sessionKey string) bool {
	return r.AllowN(sessionKey, 1)
}

// AllowN reports whether the session may spend cost tokens now
func (r *RateLimiter) AllowN(sessionKey string, cost int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.limiters[sessionKey]
	if !exists {
		entry = &limiterEntry{
			limiter:  rate.NewLimiter(rate.Limit(r.rateLimit), r.burstSize),
			lastSeen: time.Now(),
		}
		r.limiters[sessionKey] = entry
	} else {
		entry.lastSeen = time.Now()
	}

	return entry.limiter.AllowN(time.Now(), cost)
}

// GetState returns the current state for rate limit headers
func (r *RateLimiter) GetState(sessionKey string) (remaining int, resetTime time.Time) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.limiters[sessionKey]
	if !exists {
		return r.burstSize, time.Now().Add(time.Minute)
	}

	tokens := int(entry.limiter.Tokens())
	if tokens < 0 {
		tokens = 0
	}

	// approximately when the bucket is full again
	resetDuration := time.Duration(float64(r.burstSize-tokens)/r.rateLimit) * time.Second
	return tokens, time.Now().Add(resetDuration)
}

// cleanup periodically drops limiters of idle sessions
func (r *RateLimiter) cleanup() {
	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.mu.Lock()
			now := time.Now()
			for sessionKey, entry := range r.limiters {
				if now.Sub(entry.lastSeen) > LimiterTTL {
					delete(r.limiters, sessionKey)
					log.Debug().Str("session", sessionKey).Msg("Cleaned up stale rate limiter")
				}
			}
			r.mu.Unlock()
		case <-r.stopCh:
			return
		}
	}
}

// Stop stops the cleanup goroutine
func (r *RateLimiter) Stop() {
	close(r.stopCh)
}

// requestCost charges MutationCost for writes to /transactions and one token otherwise.
// Simulations are POSTs too but never reach the finance API.
func requestCost(c echo.Context) int {
	switch c.Request().Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return 1
	}
	path := c.Path()
	if path == "" {
		path = c.Request().URL.Path
	}
	if strings.HasSuffix(path, "/transactions") || strings.Contains(path, "/transactions/") {
		return MutationCost
	}
	return 1
}

// RateLimitMiddleware limits requests per session. It must run after Session.
func RateLimitMiddleware(rl *RateLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessionKey := GetSessionKey(c)
			if sessionKey == "" {
				return next(c)
			}

			if !rl.AllowN(sessionKey, requestCost(c)) {
				_, resetTime := rl.GetState(sessionKey)
				retryAfter := int(time.Until(resetTime).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}

				c.Response().Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.limit))
				c.Response().Header().Set("X-RateLimit-Remaining", "0")
				c.Response().Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", resetTime.Unix()))
				c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))

				log.Warn().
					Str("session", sessionKey).
					Int("retry_after", retryAfter).
					Msg("Rate limit exceeded")

				return tooManyRequestsError(c, retryAfter)
			}

			remaining, resetTime := rl.GetState(sessionKey)
			c.Response().Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.limit))
			c.Response().Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
			c.Response().Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", resetTime.Unix()))

			return next(c)
		}
	}
}
