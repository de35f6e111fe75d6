package analytics

import (
	"net/http"

	"studyos/internal/response"
	"studyos/internal/services"
	"studyos/internal/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// AnalyticsController serves aggregates over completed sessions
type AnalyticsController struct {
	service         services.AnalyticsService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewAnalyticsController creates a new analytics controller
func NewAnalyticsController(service services.AnalyticsService, logger *zap.Logger, responseBuilder *response.Builder) *AnalyticsController {
	return &AnalyticsController{service: service, logger: logger, responseBuilder: responseBuilder}
}

// RegisterRoutes registers analytics routes on an authenticated router
func (c *AnalyticsController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/analytics/dashboard", c.Dashboard).Methods(http.MethodGet)
	r.HandleFunc("/analytics/activity", c.Activity).Methods(http.MethodGet)
	r.HandleFunc("/analytics/subjects", c.Subjects).Methods(http.MethodGet)
}

// Dashboard handles GET /api/analytics/dashboard
func (c *AnalyticsController) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	stats, err := c.service.Dashboard(r.Context(), userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, stats)
}

// Activity handles GET /api/analytics/activity?days=
func (c *AnalyticsController) Activity(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	days, err := utils.QueryInt(r, "days", 0)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	heatmap, err := c.service.Activity(r.Context(), userID, &services.ActivityRequest{Days: days})
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteList(w, r, heatmap, len(heatmap))
}

// Subjects handles GET /api/analytics/subjects
func (c *AnalyticsController) Subjects(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	subjects, err := c.service.Subjects(r.Context(), userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteList(w, r, subjects, len(subjects))
}
