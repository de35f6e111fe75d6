package sessions

import (
	"net/http"

	"studyos/internal/response"
	"studyos/internal/services"
	"studyos/internal/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// SessionController handles focus session endpoints
type SessionController struct {
	service         services.SessionService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewSessionController creates a new session controller
func NewSessionController(service services.SessionService, logger *zap.Logger, responseBuilder *response.Builder) *SessionController {
	return &SessionController{service: service, logger: logger, responseBuilder: responseBuilder}
}

// RegisterRoutes registers session routes on an authenticated router
func (c *SessionController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/sessions", c.ListSessions).Methods(http.MethodGet)
	r.HandleFunc("/sessions/active", c.ActiveSession).Methods(http.MethodGet)
	r.HandleFunc("/sessions/start", c.StartSession).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id:[0-9]+}/end", c.EndSession).Methods(http.MethodPost)
}

// ListSessions handles GET /api/sessions
func (c *SessionController) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	sessions, err := c.service.List(r.Context(), userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteList(w, r, sessions, len(sessions))
}

// ActiveSession handles GET /api/sessions/active; data is null when nothing is running
func (c *SessionController) ActiveSession(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	session, err := c.service.Active(r.Context(), userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, session)
}

// StartSession handles POST /api/sessions/start
func (c *SessionController) StartSession(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	var req services.StartSessionRequest
	if err := utils.DecodeJSON(r, &req, true); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	session, err := c.service.Start(r.Context(), userID, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteCreated(w, r, session)
}

// EndSession handles POST /api/sessions/{id}/end
func (c *SessionController) EndSession(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	sessionID, err := utils.PathID(r, "id")
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	var req services.EndSessionRequest
	if err := utils.DecodeJSON(r, &req, true); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	result, err := c.service.End(r.Context(), userID, sessionID, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.logger.Info("Session completed",
		zap.Int64("user_id", userID),
		zap.Int64("session_id", sessionID),
		zap.Int("minutes", result.DurationMinutes),
		zap.Int("xp", result.XPEarned),
		zap.Strings("new_badges", result.NewBadges),
	)
	c.responseBuilder.WriteSuccess(w, r, result)
}
