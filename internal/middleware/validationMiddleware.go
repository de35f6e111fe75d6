// file: internal/middleware/validationMiddleware.go
package middleware

import (
	"mime"
	"net/http"
	"strings"

	"studyos/internal/services"
)

// ValidationConfig holds request body guard configuration
type ValidationConfig struct {
	MaxRequestSize   int64
	MaxMultipartSize int64
	// Paths that accept multipart uploads, matched by prefix
	MultipartPaths []string
}

// DefaultValidationConfig returns the production body limits
func DefaultValidationConfig() *ValidationConfig {
	return &ValidationConfig{
		MaxRequestSize:   1 << 20,
		MaxMultipartSize: 6 << 20,
		MultipartPaths:   []string{"/api/auth/me/avatar"},
	}
}

// ValidateRequest caps body sizes and rejects bodies that are neither JSON
// nor an allowed multipart upload. Field validation happens in services.
func ValidateRequest(config *ValidationConfig) func(http.Handler) http.Handler {
	if config == nil {
		config = DefaultValidationConfig()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hasBody(r) {
				next.ServeHTTP(w, r)
				return
			}

			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil {
				mediaType = ""
			}

			switch {
			case mediaType == "application/json":
				r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestSize)
			case mediaType == "multipart/form-data" && hasAnyPrefix(r.URL.Path, config.MultipartPaths):
				r.Body = http.MaxBytesReader(w, r.Body, config.MaxMultipartSize)
			default:
				builderOrDefault(r).WriteError(w, r, &services.ServiceError{
					Type:       "UNSUPPORTED_MEDIA_TYPE",
					Message:    "Request body must be application/json",
					StatusCode: http.StatusUnsupportedMediaType,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func hasBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return false
	}
	if r.ContentLength == 0 && len(r.TransferEncoding) == 0 {
		return false
	}
	return !strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}
