// file: internal/middleware/structured_logger.go
package middleware

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggingConfig holds configuration for request logging
type LoggingConfig struct {
	SlowRequestThreshold time.Duration
	// Paths that are never logged, like probes and scrapes
	SkipPaths []string
	// Query parameters whose values are masked
	SensitiveParams []string
	LogUserAgent    bool
}

// DefaultLoggingConfig returns production logging configuration
func DefaultLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		SlowRequestThreshold: time.Second,
		SkipPaths:            []string{"/health", "/metrics"},
		SensitiveParams:      []string{"token", "code", "state"},
		LogUserAgent:         true,
	}
}

// StructuredLogging logs one line per completed request at a level chosen by status and latency
func StructuredLogging(config *LoggingConfig) func(http.Handler) http.Handler {
	if config == nil {
		config = DefaultLoggingConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range config.SkipPaths {
				if r.URL.Path == p {
					next.ServeHTTP(w, r)
					return
				}
			}

			start := GetRequestStart(r.Context())
			rw := wrapResponseWriter(w)
			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			fields := []zap.Field{
				zap.Int("status", rw.status),
				zap.Duration("duration", duration),
				zap.Int64("response_size", rw.bytesWritten),
				zap.String("client_ip", getClientIP(r)),
			}
			if q := sanitizeQuery(r.URL.RawQuery, config.SensitiveParams); q != "" {
				fields = append(fields, zap.String("query", q))
			}
			if userID := GetUserID(r.Context()); userID != 0 {
				fields = append(fields, zap.Int64("user_id", userID))
			}
			if config.LogUserAgent {
				fields = append(fields, zap.String("user_agent", r.UserAgent()))
			}

			logger := GetRequestLogger(r.Context())
			if ce := logger.Check(logLevel(rw.status, duration, config), "Request completed"); ce != nil {
				ce.Write(fields...)
			}
		})
	}
}

func logLevel(status int, duration time.Duration, config *LoggingConfig) zapcore.Level {
	switch {
	case status >= 500:
		return zapcore.ErrorLevel
	case status >= 400, duration > config.SlowRequestThreshold:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// sanitizeQuery masks sensitive query values such as websocket tokens
func sanitizeQuery(raw string, sensitive []string) string {
	if raw == "" {
		return ""
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return "[unparseable]"
	}
	for key := range values {
		for _, s := range sensitive {
			if strings.EqualFold(key, s) {
				values.Set(key, "***")
			}
		}
	}
	return values.Encode()
}
