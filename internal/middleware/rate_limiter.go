// file: internal/middleware/rate_limiter.go
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"studyos/internal/cache"
	"studyos/internal/response"

	"go.uber.org/zap"
)

// ===============================
// RATE LIMITER CONFIGURATION
// ===============================

// RateLimiterConfig holds fixed-window rate limiting configuration
type RateLimiterConfig struct {
	Enabled bool
	// Requests per window for one user or, when anonymous, one IP
	Limit  int
	Window time.Duration

	// Stricter limit for credential endpoints, keyed by IP
	AuthLimit    int
	AuthPrefixes []string

	// Paths never limited, matched by prefix
	SkipPrefixes   []string
	HeadersEnabled bool
	KeyPrefix      string
}

// DefaultRateLimiterConfig returns the production configuration
func DefaultRateLimiterConfig() *RateLimiterConfig {
	return &RateLimiterConfig{
		Enabled:        true,
		Limit:          120,
		Window:         time.Minute,
		AuthLimit:      10,
		AuthPrefixes:   []string{"/api/auth/login", "/api/auth/register", "/api/auth/google"},
		SkipPrefixes:   []string{"/health", "/metrics", "/swagger/"},
		HeadersEnabled: true,
		KeyPrefix:      "rate_limit",
	}
}

// RateLimitResult is the outcome of one window check
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
	LimitType  string
}

// RateLimiter counts requests per window in the shared cache
type RateLimiter struct {
	cache  cache.Cache
	config *RateLimiterConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(c cache.Cache, config *RateLimiterConfig, logger *zap.Logger) *RateLimiter {
	if config == nil {
		config = DefaultRateLimiterConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{cache: c, config: config, logger: logger, now: time.Now}
}

// RateLimit creates rate limiting middleware
func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.config.Enabled || limiter.skip(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			result := limiter.Check(r.Context(), r)
			limiter.writeHeaders(w, result)
			if !result.Allowed {
				GetRequestLogger(r.Context()).Warn("Rate limit exceeded",
					zap.String("limit_type", result.LimitType),
					zap.Int("limit", result.Limit),
					zap.Duration("retry_after", result.RetryAfter),
				)
				retry := strconv.Itoa(int(result.RetryAfter.Seconds()) + 1)
				builderOrDefault(r).WriteTooManyRequests(w, r, retry)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Check counts the request against its window. Cache failures fail open.
func (rl *RateLimiter) Check(ctx context.Context, r *http.Request) *RateLimitResult {
	limit, limitType, subject := rl.config.Limit, "user", ""
	if userID := GetUserID(ctx); userID != 0 {
		subject = "user:" + strconv.FormatInt(userID, 10)
	} else {
		limitType = "ip"
		subject = "ip:" + getClientIP(r)
	}
	if rl.isAuthPath(r.URL.Path) {
		limit, limitType = rl.config.AuthLimit, "auth"
		subject = "auth:" + getClientIP(r)
	}

	return rl.checkFixedWindow(ctx, subject, limit, limitType)
}

func (rl *RateLimiter) checkFixedWindow(ctx context.Context, subject string, limit int, limitType string) *RateLimitResult {
	now := rl.now()
	windowStart := now.Truncate(rl.config.Window)
	resetTime := windowStart.Add(rl.config.Window)
	key := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, subject, windowStart.Unix())

	result := &RateLimitResult{
		Allowed:    true,
		Limit:      limit,
		Remaining:  limit,
		ResetTime:  resetTime,
		RetryAfter: resetTime.Sub(now),
		LimitType:  limitType,
	}

	count, err := rl.cache.Increment(ctx, key, 1, rl.config.Window)
	if err != nil {
		rl.logger.Warn("Rate limit counter unavailable", zap.String("key", key), zap.Error(err))
		return result
	}

	result.Allowed = count <= int64(limit)
	result.Remaining = limit - int(count)
	if result.Remaining < 0 {
		result.Remaining = 0
	}
	return result
}

func (rl *RateLimiter) skip(path string) bool {
	for _, p := range rl.config.SkipPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func (rl *RateLimiter) isAuthPath(path string) bool {
	if rl.config.AuthLimit <= 0 {
		return false
	}
	for _, p := range rl.config.AuthPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func (rl *RateLimiter) writeHeaders(w http.ResponseWriter, result *RateLimitResult) {
	if !rl.config.HeadersEnabled {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime.Unix(), 10))
}

func builderOrDefault(r *http.Request) *response.Builder {
	if b := response.GetBuilder(r.Context()); b != nil {
		return b
	}
	return response.NewBuilder(response.DefaultConfig(), nil)
}
