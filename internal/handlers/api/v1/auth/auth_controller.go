// ===============================
// FILE: internal/handlers/api/v1/auth/auth_controller.go
// ===============================

package auth

import (
	"net/http"
	"net/url"
	"time"

	"studyos/internal/response"
	"studyos/internal/services"
	"studyos/internal/utils"

	"github.com/gofrs/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	oauthStateCookie = "studyos_oauth_state"
	oauthStateTTL    = 10 * time.Minute
	maxAvatarMemory  = 8 << 20
)

// AuthController handles account and token endpoints
type AuthController struct {
	service         services.AuthService
	logger          *zap.Logger
	responseBuilder *response.Builder

	// Where the Google callback hands tokens back to the web app; empty returns JSON
	frontendURL  string
	secureCookie bool
}

// NewAuthController creates a new authentication controller
func NewAuthController(
	service services.AuthService,
	logger *zap.Logger,
	responseBuilder *response.Builder,
	frontendURL string,
	secureCookie bool,
) *AuthController {
	return &AuthController{
		service:         service,
		logger:          logger,
		responseBuilder: responseBuilder,
		frontendURL:     frontendURL,
		secureCookie:    secureCookie,
	}
}

// RegisterRoutes wires public sign-in routes and authenticated profile routes
func (c *AuthController) RegisterRoutes(public, protected *mux.Router) {
	public.HandleFunc("/auth/register", c.Register).Methods(http.MethodPost)
	public.HandleFunc("/auth/login", c.Login).Methods(http.MethodPost)
	public.HandleFunc("/auth/refresh", c.Refresh).Methods(http.MethodPost)
	public.HandleFunc("/auth/google/login", c.GoogleLogin).Methods(http.MethodGet)
	public.HandleFunc("/auth/google/callback", c.GoogleCallback).Methods(http.MethodGet)

	protected.HandleFunc("/auth/logout", c.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/me", c.Me).Methods(http.MethodGet)
	protected.HandleFunc("/auth/me", c.UpdateMe).Methods(http.MethodPatch)
	protected.HandleFunc("/auth/me/avatar", c.UploadAvatar).Methods(http.MethodPost)
}

// ===============================
// AUTHENTICATION ENDPOINTS
// ===============================

// Register handles POST /api/auth/register
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := utils.DecodeJSON(r, &req, false); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	authResp, err := c.service.Register(r.Context(), &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.logger.Info("User registered", zap.Int64("user_id", authResp.User.ID))
	c.responseBuilder.WriteCreated(w, r, authResp)
}

// Login handles POST /api/auth/login
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := utils.DecodeJSON(r, &req, false); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	authResp, err := c.service.Login(r.Context(), &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, authResp)
}

// Refresh handles POST /api/auth/refresh
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var req services.RefreshRequest
	if err := utils.DecodeJSON(r, &req, false); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	authResp, err := c.service.Refresh(r.Context(), &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, authResp)
}

// Logout handles POST /api/auth/logout. Without a refresh token every session is revoked.
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	var req services.LogoutRequest
	if err := utils.DecodeJSON(r, &req, true); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	if err := c.service.Logout(r.Context(), userID, &req); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteNoContent(w, r)
}

// ===============================
// GOOGLE OAUTH
// ===============================

// GoogleLogin handles GET /api/auth/google/login
func (c *AuthController) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := uuid.NewV4()
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewInternalError("failed to start google sign-in"))
		return
	}

	authURL, err := c.service.GoogleAuthURL(state.String())
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state.String(),
		Path:     "/api/auth/google",
		MaxAge:   int(oauthStateTTL.Seconds()),
		HttpOnly: true,
		Secure:   c.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	c.responseBuilder.WriteRedirect(w, r, authURL)
}

// GoogleCallback handles GET /api/auth/google/callback
func (c *AuthController) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != query.Get("state") {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError("invalid oauth state"))
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Path: "/api/auth/google", MaxAge: -1})

	if reason := query.Get("error"); reason != "" {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError("google sign-in was cancelled"))
		return
	}

	authResp, err := c.service.GoogleCallback(r.Context(), query.Get("code"))
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	if c.frontendURL == "" {
		c.responseBuilder.WriteSuccess(w, r, authResp)
		return
	}

	// tokens travel in the fragment so they never reach server logs
	fragment := url.Values{}
	fragment.Set("token", authResp.Token)
	fragment.Set("refreshToken", authResp.RefreshToken)
	c.responseBuilder.WriteRedirect(w, r, c.frontendURL+"/auth/callback#"+fragment.Encode())
}

// ===============================
// PROFILE
// ===============================

// Me handles GET /api/auth/me
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	user, err := c.service.Me(r.Context(), userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, user)
}

// UpdateMe handles PATCH /api/auth/me
func (c *AuthController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	var req services.UpdateProfileRequest
	if err := utils.DecodeJSON(r, &req, false); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	user, err := c.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, user)
}

// UploadAvatar handles POST /api/auth/me/avatar with a multipart "avatar" field
func (c *AuthController) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxAvatarMemory); err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("Invalid multipart form", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	_, header, err := r.FormFile("avatar")
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.InvalidInputError("avatar", "file is required"))
		return
	}

	user, err := c.service.UploadAvatar(r.Context(), userID, header)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.logger.Info("Avatar updated", zap.Int64("user_id", userID))
	c.responseBuilder.WriteSuccess(w, r, user)
}
