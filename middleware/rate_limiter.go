// middleware/rate_limiter.go
package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/HSouheill/shop_backend/models"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type endpointLimit struct {
	limit rate.Limit
	burst int
}

// RateLimiter keeps one token bucket per client IP and route. A client that
// exhausts a bucket is blocked for blockDuration.
type RateLimiter struct {
	limiters       map[string]*rate.Limiter
	blockedIPs     map[string]time.Time
	mu             sync.Mutex
	defaultLimit   endpointLimit
	blockDuration  time.Duration
	endpointLimits map[string]endpointLimit
	now            func() time.Time
}

func NewRateLimiter() *RateLimiter {
	r := &RateLimiter{
		limiters:      make(map[string]*rate.Limiter),
		blockedIPs:    make(map[string]time.Time),
		defaultLimit:  endpointLimit{limit: rate.Every(100 * time.Millisecond), burst: 20},
		blockDuration: 5 * time.Minute,
		now:           time.Now,
		endpointLimits: map[string]endpointLimit{
			// credential endpoints are strict to slow down guessing
			"/api/auth/owner/login":             {limit: rate.Every(2 * time.Second), burst: 5},
			"/api/auth/employee/login":          {limit: rate.Every(2 * time.Second), burst: 5},
			"/api/auth/owner/forgot-password":   {limit: rate.Every(10 * time.Second), burst: 3},
			"/api/auth/owner/verify-reset-code": {limit: rate.Every(2 * time.Second), burst: 5},
			"/api/auth/owner/register":          {limit: rate.Every(10 * time.Second), burst: 3},
		},
	}
	return r
}

// StartCleanup drops expired blocks every interval until stop is closed
func (r *RateLimiter) StartCleanup(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.cleanupBlockedIPs()
			case <-stop:
				return
			}
		}
	}()
}

func (r *RateLimiter) cleanupBlockedIPs() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for ip, blockUntil := range r.blockedIPs {
		if now.After(blockUntil) {
			delete(r.blockedIPs, ip)
			r.resetLocked(ip)
		}
	}
}

func (r *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if strings.HasPrefix(c.Request().URL.Path, "/uploads/") {
				return next(c)
			}

			ip := c.RealIP()
			if until, blocked := r.blocked(ip); blocked {
				return tooManyRequests(c, until)
			}

			limits, ok := r.endpointLimits[c.Path()]
			if !ok {
				limits = r.defaultLimit
			}

			if !r.getLimiter(ip, c.Path(), limits).Allow() {
				until := r.block(ip)
				return tooManyRequests(c, until)
			}

			return next(c)
		}
	}
}

func (r *RateLimiter) blocked(ip string) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	until, ok := r.blockedIPs[ip]
	if !ok {
		return time.Time{}, false
	}
	if r.now().Before(until) {
		return until, true
	}
	// block has expired, start the client over
	delete(r.blockedIPs, ip)
	r.resetLocked(ip)
	return time.Time{}, false
}

func (r *RateLimiter) block(ip string) time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	until := r.now().Add(r.blockDuration)
	r.blockedIPs[ip] = until
	return until
}

func (r *RateLimiter) getLimiter(ip, path string, limits endpointLimit) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := ip + "|" + path
	limiter, exists := r.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(limits.limit, limits.burst)
		r.limiters[key] = limiter
	}
	return limiter
}

func (r *RateLimiter) resetLocked(ip string) {
	prefix := ip + "|"
	for key := range r.limiters {
		if strings.HasPrefix(key, prefix) {
			delete(r.limiters, key)
		}
	}
}

func tooManyRequests(c echo.Context, until time.Time) error {
	return c.JSON(http.StatusTooManyRequests, models.Response{
		Status:  http.StatusTooManyRequests,
		Message: "Too many requests",
		Data:    map[string]string{"retryAfter": until.Format(time.RFC3339)},
	})
}
