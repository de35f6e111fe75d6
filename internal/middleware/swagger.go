package middleware

import (
	"crypto/subtle"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SwaggerConfig represents the configuration for Swagger middleware
type SwaggerConfig struct {
	// URL points to the Swagger JSON endpoint
	URL string
	// DeepLinking enables deep linking for tags and operations
	DeepLinking bool
	// DocExpansion controls the default expansion setting for the operations and tags
	DocExpansion string

	// Basic auth credentials; empty disables the check
	Username string
	Password string
}

// DefaultSwaggerConfig returns the default Swagger configuration
func DefaultSwaggerConfig() *SwaggerConfig {
	return &SwaggerConfig{
		URL:          "/swagger/doc.json",
		DeepLinking:  true,
		DocExpansion: "list",
	}
}

// SwaggerHandler returns a handler that serves the Swagger UI
func SwaggerHandler(config *SwaggerConfig) http.Handler {
	if config == nil {
		config = DefaultSwaggerConfig()
	}

	ui := httpSwagger.Handler(
		httpSwagger.URL(config.URL),
		httpSwagger.DeepLinking(config.DeepLinking),
		httpSwagger.DocExpansion(config.DocExpansion),
		httpSwagger.DomID("swagger-ui"),
	)
	return SwaggerAuth(config)(ui)
}

// SwaggerAuth guards the docs with basic auth when credentials are configured
func SwaggerAuth(config *SwaggerConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if config.Username == "" && config.Password == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok ||
				subtle.ConstantTimeCompare([]byte(user), []byte(config.Username)) != 1 ||
				subtle.ConstantTimeCompare([]byte(pass), []byte(config.Password)) != 1 {
				w.Header().Set("WWW-Authenticate", `Basic realm="StudyOS API Documentation"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
