package response

import (
	"net/http"
	"strings"

	"studyos/internal/services"
)

// WriteNotFound writes a 404 for unmatched routes
func (b *Builder) WriteNotFound(w http.ResponseWriter, r *http.Request, message string) {
	if message == "" {
		message = "The requested resource was not found"
	}
	b.WriteError(w, r, services.NewNotFoundError(message))
}

// WriteMethodNotAllowed writes a 405 with the Allow header set
func (b *Builder) WriteMethodNotAllowed(w http.ResponseWriter, r *http.Request, allowed []string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	b.WriteError(w, r, &services.ServiceError{
		Type:       "METHOD_NOT_ALLOWED",
		Message:    "Method " + r.Method + " is not allowed",
		StatusCode: http.StatusMethodNotAllowed,
	})
}

// WriteTooManyRequests writes a 429 with Retry-After
func (b *Builder) WriteTooManyRequests(w http.ResponseWriter, r *http.Request, retryAfter string) {
	if retryAfter != "" {
		w.Header().Set("Retry-After", retryAfter)
	}
	b.WriteError(w, r, services.NewRateLimitError("Too many requests, please slow down", nil))
}

// WriteRedirect sends the client elsewhere without a JSON body
func (b *Builder) WriteRedirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}
