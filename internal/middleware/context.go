// file: internal/middleware/context.go
package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"studyos/internal/contextutils"

	"go.uber.org/zap"
)

// GetRequestLogger returns the request-scoped logger
func GetRequestLogger(ctx context.Context) *zap.Logger {
	return contextutils.Logger(ctx, nil)
}

// GetRequestStart extracts the request start time from context
func GetRequestStart(ctx context.Context) time.Time {
	if start, ok := ctx.Value(RequestStartKey).(time.Time); ok {
		return start
	}
	return time.Now()
}

// GetUserID returns the authenticated user's id, or 0
func GetUserID(ctx context.Context) int64 {
	return contextutils.GetUserID(ctx)
}

// getClientIP extracts the client address, preferring proxy headers
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
