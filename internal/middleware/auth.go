// file: internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"studyos/internal/contextutils"
	"studyos/internal/response"
	"studyos/internal/services"

	"go.uber.org/zap"
)

// TokenValidator resolves an access token to a user id
type TokenValidator interface {
	ValidateToken(token string) (int64, error)
}

// AuthConfig holds authentication middleware configuration
type AuthConfig struct {
	// Accept ?token= on websocket upgrades, where browsers cannot set headers
	AllowQueryTokenForUpgrade bool
	LogFailedAuth             bool
}

// DefaultAuthConfig returns the production configuration
func DefaultAuthConfig() *AuthConfig {
	return &AuthConfig{
		AllowQueryTokenForUpgrade: true,
		LogFailedAuth:             true,
	}
}

// AuthMiddleware authenticates bearer tokens
type AuthMiddleware struct {
	config    *AuthConfig
	validator TokenValidator
	logger    *zap.Logger
}

// NewAuthMiddleware creates the authentication middleware
func NewAuthMiddleware(config *AuthConfig, validator TokenValidator, logger *zap.Logger) *AuthMiddleware {
	if config == nil {
		config = DefaultAuthConfig()
	}
	return &AuthMiddleware{config: config, validator: validator, logger: logger}
}

// Authenticate resolves the caller. With required set, anonymous requests get 401.
func (am *AuthMiddleware) Authenticate(required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := am.extractToken(r)

			if token == "" {
				if required {
					response.QuickError(w, r, services.NewUnauthorizedError("Authentication required"))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			userID, err := am.validator.ValidateToken(token)
			if err != nil {
				if am.config.LogFailedAuth {
					contextutils.Logger(ctx, am.logger).Warn("Authentication failed",
						zap.String("path", r.URL.Path),
						zap.Error(err),
					)
				}
				if required {
					response.QuickError(w, r, err)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx = contextutils.WithUserID(ctx, userID)
			ctx = contextutils.WithLogger(ctx, contextutils.Logger(ctx, am.logger).With(zap.Int64("user_id", userID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests
func (am *AuthMiddleware) RequireAuth() func(http.Handler) http.Handler {
	return am.Authenticate(true)
}

// OptionalAuth attaches the user when a valid token is present
func (am *AuthMiddleware) OptionalAuth() func(http.Handler) http.Handler {
	return am.Authenticate(false)
}

func (am *AuthMiddleware) extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if am.config.AllowQueryTokenForUpgrade && isWebsocketUpgrade(r) {
		return r.URL.Query().Get("token")
	}
	return ""
}

func isWebsocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}
