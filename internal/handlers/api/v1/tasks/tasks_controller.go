// ===============================
// FILE: internal/handlers/api/v1/tasks/tasks_controller.go
// ===============================

package tasks

import (
	"net/http"
	"strings"

	"studyos/internal/models"
	"studyos/internal/response"
	"studyos/internal/services"
	"studyos/internal/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// TaskController handles task endpoints
type TaskController struct {
	service         services.TaskService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewTaskController creates a new task controller
func NewTaskController(service services.TaskService, logger *zap.Logger, responseBuilder *response.Builder) *TaskController {
	return &TaskController{service: service, logger: logger, responseBuilder: responseBuilder}
}

// RegisterRoutes registers task routes on an authenticated router
func (c *TaskController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/tasks", c.ListTasks).Methods(http.MethodGet)
	r.HandleFunc("/tasks", c.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id:[0-9]+}", c.GetTask).Methods(http.MethodGet)
	r.HandleFunc("/tasks/{id:[0-9]+}", c.UpdateTask).Methods(http.MethodPatch)
	r.HandleFunc("/tasks/{id:[0-9]+}", c.DeleteTask).Methods(http.MethodDelete)
}

// ListTasks handles GET /api/tasks?status=&priority=
func (c *TaskController) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	query := r.URL.Query()
	req := &services.ListTasksRequest{
		Status:   models.TaskStatus(strings.ToUpper(query.Get("status"))),
		Priority: models.TaskPriority(strings.ToUpper(query.Get("priority"))),
	}

	tasks, err := c.service.List(r.Context(), userID, req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteList(w, r, tasks, len(tasks))
}

// CreateTask handles POST /api/tasks
func (c *TaskController) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	var req services.CreateTaskRequest
	if err := utils.DecodeJSON(r, &req, false); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	task, err := c.service.Create(r.Context(), userID, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteCreated(w, r, task)
}

// GetTask handles GET /api/tasks/{id}
func (c *TaskController) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, err := c.ids(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	task, err := c.service.Get(r.Context(), userID, taskID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, task)
}

// UpdateTask handles PATCH /api/tasks/{id}. Completing a task reports coins,
// badges and the next occurrence of a recurring task.
func (c *TaskController) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, err := c.ids(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	var req services.UpdateTaskRequest
	if err := utils.DecodeJSON(r, &req, false); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	result, err := c.service.Update(r.Context(), userID, taskID, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	if result.CoinsAwarded > 0 {
		c.logger.Debug("Task completed",
			zap.Int64("task_id", taskID),
			zap.Int("coins", result.CoinsAwarded),
		)
	}
	c.responseBuilder.WriteSuccess(w, r, result)
}

// DeleteTask handles DELETE /api/tasks/{id}
func (c *TaskController) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, err := c.ids(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	if err := c.service.Delete(r.Context(), userID, taskID); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteNoContent(w, r)
}

func (c *TaskController) ids(r *http.Request) (int64, int64, error) {
	userID, err := utils.UserID(r)
	if err != nil {
		return 0, 0, err
	}
	taskID, err := utils.PathID(r, "id")
	if err != nil {
		return 0, 0, err
	}
	return userID, taskID, nil
}
