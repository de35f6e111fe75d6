package gamification

import (
	"net/http"

	"studyos/internal/response"
	"studyos/internal/services"
	"studyos/internal/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// GamificationController exposes XP, badges and the leaderboard
type GamificationController struct {
	service         services.GamificationService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewGamificationController creates a new gamification controller
func NewGamificationController(service services.GamificationService, logger *zap.Logger, responseBuilder *response.Builder) *GamificationController {
	return &GamificationController{service: service, logger: logger, responseBuilder: responseBuilder}
}

// RegisterRoutes registers gamification routes on an authenticated router
func (c *GamificationController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/gamification/stats", c.Stats).Methods(http.MethodGet)
	r.HandleFunc("/gamification/leaderboard", c.Leaderboard).Methods(http.MethodGet)
	r.HandleFunc("/gamification/badges", c.Badges).Methods(http.MethodGet)
}

func (c *GamificationController) Stats(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	stats, err := c.service.Stats(r.Context(), userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, stats)
}

// Leaderboard handles GET /api/gamification/leaderboard?limit=. The service
// clamps the limit.
func (c *GamificationController) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := utils.QueryInt(r, "limit", 0)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	entries, err := c.service.Leaderboard(r.Context(), limit)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteList(w, r, entries, len(entries))
}

func (c *GamificationController) Badges(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	badges, err := c.service.Badges(r.Context(), userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, badges)
}
