package goals

import (
	"net/http"

	"studyos/internal/response"
	"studyos/internal/services"
	"studyos/internal/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// GoalController handles goal endpoints
type GoalController struct {
	service         services.GoalService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewGoalController creates a new goal controller
func NewGoalController(service services.GoalService, logger *zap.Logger, responseBuilder *response.Builder) *GoalController {
	return &GoalController{service: service, logger: logger, responseBuilder: responseBuilder}
}

// RegisterRoutes registers goal routes on an authenticated router
func (c *GoalController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/goals", c.ListGoals).Methods(http.MethodGet)
	r.HandleFunc("/goals", c.CreateGoal).Methods(http.MethodPost)
	r.HandleFunc("/goals/{id:[0-9]+}", c.UpdateGoal).Methods(http.MethodPatch)
	r.HandleFunc("/goals/{id:[0-9]+}", c.DeleteGoal).Methods(http.MethodDelete)
	r.HandleFunc("/goals/{id:[0-9]+}/progress", c.AddProgress).Methods(http.MethodPost)
}

// ListGoals handles GET /api/goals
func (c *GoalController) ListGoals(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	goals, err := c.service.List(r.Context(), userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteList(w, r, goals, len(goals))
}

// CreateGoal handles POST /api/goals
func (c *GoalController) CreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	var req services.CreateGoalRequest
	if err := utils.DecodeJSON(r, &req, false); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	goal, err := c.service.Create(r.Context(), userID, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteCreated(w, r, goal)
}

// UpdateGoal handles PATCH /api/goals/{id}
func (c *GoalController) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	userID, goalID, err := c.ids(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	var req services.UpdateGoalRequest
	if err := utils.DecodeJSON(r, &req, false); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	goal, err := c.service.Update(r.Context(), userID, goalID, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, goal)
}

// DeleteGoal handles DELETE /api/goals/{id}
func (c *GoalController) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, goalID, err := c.ids(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	if err := c.service.Delete(r.Context(), userID, goalID); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteNoContent(w, r)
}

// AddProgress handles POST /api/goals/{id}/progress
func (c *GoalController) AddProgress(w http.ResponseWriter, r *http.Request) {
	userID, goalID, err := c.ids(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	var req services.GoalProgressRequest
	if err := utils.DecodeJSON(r, &req, false); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	result, err := c.service.AddProgress(r.Context(), userID, goalID, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, result)
}

func (c *GoalController) ids(r *http.Request) (int64, int64, error) {
	userID, err := utils.UserID(r)
	if err != nil {
		return 0, 0, err
	}
	goalID, err := utils.PathID(r, "id")
	if err != nil {
		return 0, 0, err
	}
	return userID, goalID, nil
}
