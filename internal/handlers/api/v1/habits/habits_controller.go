package habits

import (
	"net/http"

	"studyos/internal/response"
	"studyos/internal/services"
	"studyos/internal/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// HabitController handles habit endpoints
type HabitController struct {
	service         services.HabitService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewHabitController creates a new habit controller
func NewHabitController(service services.HabitService, logger *zap.Logger, responseBuilder *response.Builder) *HabitController {
	return &HabitController{service: service, logger: logger, responseBuilder: responseBuilder}
}

// RegisterRoutes registers habit routes on an authenticated router
func (c *HabitController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/habits", c.ListHabits).Methods(http.MethodGet)
	r.HandleFunc("/habits", c.CreateHabit).Methods(http.MethodPost)
	r.HandleFunc("/habits/{id:[0-9]+}", c.UpdateHabit).Methods(http.MethodPatch)
	r.HandleFunc("/habits/{id:[0-9]+}", c.DeleteHabit).Methods(http.MethodDelete)
	r.HandleFunc("/habits/{id:[0-9]+}/complete", c.CompleteHabit).Methods(http.MethodPost)
}

func (c *HabitController) ListHabits(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	habits, err := c.service.List(r.Context(), userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteList(w, r, habits, len(habits))
}

func (c *HabitController) CreateHabit(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	var req services.CreateHabitRequest
	if err := utils.DecodeJSON(r, &req, false); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	habit, err := c.service.Create(r.Context(), userID, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteCreated(w, r, habit)
}

func (c *HabitController) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	userID, habitID, err := c.ids(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	var req services.UpdateHabitRequest
	if err := utils.DecodeJSON(r, &req, false); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	habit, err := c.service.Update(r.Context(), userID, habitID, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, habit)
}

func (c *HabitController) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	userID, habitID, err := c.ids(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	if err := c.service.Delete(r.Context(), userID, habitID); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteNoContent(w, r)
}

// CompleteHabit handles POST /api/habits/{id}/complete. A second check-in on
// the same day is rejected with a conflict.
func (c *HabitController) CompleteHabit(w http.ResponseWriter, r *http.Request) {
	userID, habitID, err := c.ids(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	habit, err := c.service.Complete(r.Context(), userID, habitID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.logger.Debug("Habit checked in",
		zap.Int64("habit_id", habitID),
		zap.Int("streak", habit.Streak),
	)
	c.responseBuilder.WriteSuccess(w, r, habit)
}

func (c *HabitController) ids(r *http.Request) (int64, int64, error) {
	userID, err := utils.UserID(r)
	if err != nil {
		return 0, 0, err
	}
	habitID, err := utils.PathID(r, "id")
	if err != nil {
		return 0, 0, err
	}
	return userID, habitID, nil
}
