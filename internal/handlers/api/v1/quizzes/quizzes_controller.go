package quizzes

import (
	"net/http"

	"studyos/internal/response"
	"studyos/internal/services"
	"studyos/internal/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// QuizController serves the quiz catalog and grades attempts
type QuizController struct {
	service         services.QuizService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewQuizController creates a new quiz controller
func NewQuizController(service services.QuizService, logger *zap.Logger, responseBuilder *response.Builder) *QuizController {
	return &QuizController{service: service, logger: logger, responseBuilder: responseBuilder}
}

// RegisterRoutes registers quiz routes on an authenticated router
func (c *QuizController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/quizzes", c.ListQuizzes).Methods(http.MethodGet)
	r.HandleFunc("/quizzes/{id}", c.GetQuiz).Methods(http.MethodGet)
	r.HandleFunc("/quizzes/{id}/submit", c.SubmitQuiz).Methods(http.MethodPost)
}

// ListQuizzes handles GET /api/quizzes
func (c *QuizController) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes := c.service.List(r.Context())
	c.responseBuilder.WriteList(w, r, quizzes, len(quizzes))
}

// GetQuiz handles GET /api/quizzes/{id}. Answer keys are never serialized.
func (c *QuizController) GetQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := utils.PathString(r, "id")
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	quiz, err := c.service.Get(r.Context(), quizID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, quiz)
}

// SubmitQuiz handles POST /api/quizzes/{id}/submit
func (c *QuizController) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	quizID, err := utils.PathString(r, "id")
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	var req services.SubmitQuizRequest
	if err := utils.DecodeJSON(r, &req, false); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	result, err := c.service.Submit(r.Context(), userID, quizID, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.logger.Info("Quiz submitted",
		zap.Int64("user_id", userID),
		zap.String("quiz_id", quizID),
		zap.Int("score", result.Score),
		zap.Int("total", result.Total),
	)
	c.responseBuilder.WriteSuccess(w, r, result)
}
