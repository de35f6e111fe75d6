// File: internal/middleware/security.go
package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ===============================
// SECURITY HEADERS
// ===============================

// SecurityConfig holds response security header configuration
type SecurityConfig struct {
	ContentSecurityPolicy string
	FrameOptions          string
	ReferrerPolicy        string
	PermissionsPolicy     string

	EnableHSTS bool
	HSTSMaxAge time.Duration

	// Paths that serve HTML and skip the API CSP, like the swagger UI
	CSPExemptPrefixes []string
}

// DefaultSecurityConfig returns production security headers for a JSON API
func DefaultSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		FrameOptions:          "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		PermissionsPolicy:     "camera=(), microphone=(), geolocation=(), payment=()",
		EnableHSTS:            true,
		HSTSMaxAge:            365 * 24 * time.Hour,
		CSPExemptPrefixes:     []string{"/swagger/"},
	}
}

// DevelopmentSecurityConfig drops HSTS so plain http works locally
func DevelopmentSecurityConfig() *SecurityConfig {
	config := DefaultSecurityConfig()
	config.EnableHSTS = false
	return config
}

// SecurityHeaders sets security headers on every response
func SecurityHeaders(config *SecurityConfig) func(http.Handler) http.Handler {
	if config == nil {
		config = DefaultSecurityConfig()
	}
	hsts := fmt.Sprintf("max-age=%d; includeSubDomains", int(config.HSTSMaxAge.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", config.FrameOptions)
			h.Set("Referrer-Policy", config.ReferrerPolicy)
			if config.PermissionsPolicy != "" {
				h.Set("Permissions-Policy", config.PermissionsPolicy)
			}
			if config.ContentSecurityPolicy != "" && !hasAnyPrefix(r.URL.Path, config.CSPExemptPrefixes) {
				h.Set("Content-Security-Policy", config.ContentSecurityPolicy)
			}
			if config.EnableHSTS && (r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https") {
				h.Set("Strict-Transport-Security", hsts)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ===============================
// CORS
// ===============================

// CORSConfig holds cross-origin configuration
type CORSConfig struct {
	// Exact origins, "*" or wildcard subdomains like "https://*.example.com"
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// DefaultCORSConfig returns CORS configuration for the given origins
func DefaultCORSConfig(origins []string) *CORSConfig {
	return &CORSConfig{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", "Stripe-Signature"},
		ExposedHeaders: []string{
			"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After",
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// CORS answers preflight requests and decorates cross-origin responses
func CORS(config *CORSConfig) func(http.Handler) http.Handler {
	methods := strings.Join(config.AllowedMethods, ", ")
	headers := strings.Join(config.AllowedHeaders, ", ")
	exposed := strings.Join(config.ExposedHeaders, ", ")
	maxAge := strconv.Itoa(int(config.MaxAge.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Add("Vary", "Origin")

			if !isOriginAllowed(origin, config.AllowedOrigins) {
				if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			if config.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				h.Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if exposed != "" {
				h.Set("Access-Control-Expose-Headers", exposed)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isOriginAllowed(origin string, allowed []string) bool {
	for _, pattern := range allowed {
		if pattern == "*" || strings.EqualFold(pattern, origin) {
			return true
		}
		if prefix, suffix, ok := strings.Cut(pattern, "*"); ok {
			if strings.HasPrefix(origin, prefix) && strings.HasSuffix(origin, suffix) &&
				len(origin) > len(prefix)+len(suffix) {
				return true
			}
		}
	}
	return false
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
