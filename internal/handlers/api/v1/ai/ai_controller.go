package ai

import (
	"net/http"

	"studyos/internal/response"
	"studyos/internal/services"
	"studyos/internal/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// AIController handles coaching, tutoring and note generation
type AIController struct {
	service         services.AIService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewAIController creates a new AI controller
func NewAIController(service services.AIService, logger *zap.Logger, responseBuilder *response.Builder) *AIController {
	return &AIController{service: service, logger: logger, responseBuilder: responseBuilder}
}

// RegisterRoutes registers AI routes on an authenticated router
func (c *AIController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/ai/plan", c.Plan).Methods(http.MethodPost)
	r.HandleFunc("/ai/insights", c.Insights).Methods(http.MethodGet)
	r.HandleFunc("/ai/chat", c.Chat).Methods(http.MethodPost)
	r.HandleFunc("/ai/tips", c.Tips).Methods(http.MethodGet)
	r.HandleFunc("/ai/notes", c.ListNotes).Methods(http.MethodGet)
	r.HandleFunc("/ai/notes", c.GenerateNotes).Methods(http.MethodPost)
}

// Plan handles POST /api/ai/plan; an empty body plans around open tasks
func (c *AIController) Plan(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	var req services.PlanRequest
	if err := utils.DecodeJSON(r, &req, true); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	plan, err := c.service.Plan(r.Context(), userID, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, plan)
}

// Insights handles GET /api/ai/insights. The service degrades to a canned
// insight instead of failing.
func (c *AIController) Insights(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	insight, err := c.service.Insights(r.Context(), userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, insight)
}

// Chat handles POST /api/ai/chat
func (c *AIController) Chat(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	var req services.ChatRequest
	if err := utils.DecodeJSON(r, &req, false); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	reply, err := c.service.Chat(r.Context(), userID, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, reply)
}

// Tips handles GET /api/ai/tips
func (c *AIController) Tips(w http.ResponseWriter, r *http.Request) {
	tips, err := c.service.Tips(r.Context())
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, tips)
}

// GenerateNotes handles POST /api/ai/notes
func (c *AIController) GenerateNotes(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	var req services.NotesRequest
	if err := utils.DecodeJSON(r, &req, false); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	note, err := c.service.GenerateNotes(r.Context(), userID, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteCreated(w, r, note)
}

// ListNotes handles GET /api/ai/notes
func (c *AIController) ListNotes(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	notes, err := c.service.ListNotes(r.Context(), userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteList(w, r, notes, len(notes))
}
