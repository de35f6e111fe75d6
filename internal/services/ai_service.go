package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"studyos/internal/ai"
	"studyos/internal/cache"
	"studyos/internal/catalog"
	"studyos/internal/models"
	"studyos/internal/repositories"

	"go.uber.org/zap"
)

const (
	InsightRecommendation = "RECOMMENDATION"
	InsightPlan           = "PLAN"

	planTaskLimit         = 10
	recentSessionLimit    = 7
	notesListLimit        = 20
	defaultAvailableHours = 2
	defaultNoteQuestions  = 3
	chatMaxTokens         = 200
	tipsCacheKey          = "ai:tips"
	aiOfflineMessage      = "AI service offline"
)

const planPrompt = `You are an expert study planner. Create a detailed, time-blocked study schedule.
Allocate breaks (e.g., Pomodoro). Prioritize high-priority pending tasks.
Respond with a JSON object with:
- "summary": string (brief overview)
- "plan": array of objects { "time": "start-end", "activity": string, "notes": string }`

const insightPrompt = `You are an AI study coach. Analyze the student's data and provide:
1. "recommendation": Specific action item based on recent activity.
2. "insight": Pattern observation (e.g., "You focus better in mornings").
3. "motivation": Short encouraging message.
Respond with a JSON object.`

const chatPrompt = `You are "Prof. Nova", a witty and encouraging AI study coach.
- Help with study techniques (Active Recall, Spaced Repetition).
- Motivate the user.
- Keep responses concise (max 3 sentences).`

const notesPrompt = `You turn study material into revision notes.
Respond with a JSON object with:
- "summary": string (3-5 sentences)
- "keyPoints": array of strings
- "questions": array of %d objects { "question": string, "options": array of 4 strings, "answer": string (one of the options) }`

// fallbackInsight is served whenever the model cannot be reached
var fallbackInsight = InsightResponse{
	Recommendation: "Focus on completing your pending tasks.",
	Insight:        "Consistent study sessions are key.",
	Motivation:     "Keep going!",
}

// AIDeps groups the collaborators of the AI service. Client is nil when no key is configured.
type AIDeps struct {
	Client   ai.Client
	Users    repositories.UserRepository
	Tasks    repositories.TaskRepository
	Sessions repositories.StudySessionRepository
	Insights repositories.InsightRepository
	Notes    repositories.NoteRepository
	Catalog  *catalog.Catalog
	Cache    cache.Cache
}

// aiService implements AIService
type aiService struct {
	client   ai.Client
	users    repositories.UserRepository
	tasks    repositories.TaskRepository
	sessions repositories.StudySessionRepository
	insights repositories.InsightRepository
	notes    repositories.NoteRepository
	catalog  *catalog.Catalog
	cache    cache.Cache
	tipsTTL  time.Duration
	logger   *zap.Logger
	intn     func(int) int
}

// NewAIService creates the AI coaching service
func NewAIService(deps AIDeps, tipsTTL time.Duration, logger *zap.Logger) AIService {
	return &aiService{
		client:   deps.Client,
		users:    deps.Users,
		tasks:    deps.Tasks,
		sessions: deps.Sessions,
		insights: deps.Insights,
		notes:    deps.Notes,
		catalog:  deps.Catalog,
		cache:    deps.Cache,
		tipsTTL:  tipsTTL,
		logger:   logger,
		intn:     rand.IntN,
	}
}

func (s *aiService) available() error {
	if s.client == nil {
		return NewServiceUnavailableError("AI features are not configured")
	}
	return nil
}

// Plan builds a time-blocked schedule around the user's pending tasks
func (s *aiService) Plan(ctx context.Context, userID int64, req *PlanRequest) (*PlanResponse, error) {
	if req == nil {
		req = &PlanRequest{}
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.available(); err != nil {
		return nil, err
	}

	hours := req.AvailableHours
	if hours == 0 {
		hours = defaultAvailableHours
	}
	tasks, err := s.tasks.ListPending(ctx, userID, planTaskLimit)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to load pending tasks", err)
	}

	pending := make([]string, 0, len(tasks))
	for _, t := range tasks {
		pending = append(pending, fmt.Sprintf("%s (Priority: %s)", t.Title, t.Priority))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Goal: %s\n", req.Goal)
	fmt.Fprintf(&b, "Available Time: %g hours\n", hours)
	fmt.Fprintf(&b, "Subjects: %s\n", strings.Join(req.Subjects, ", "))
	fmt.Fprintf(&b, "Pending Tasks: %s", strings.Join(pending, ", "))

	text, err := s.client.Complete(ctx, ai.Request{
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Content: planPrompt},
			{Role: ai.RoleUser, Content: b.String()},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, s.unavailable("study plan", err)
	}

	var plan PlanResponse
	if err := ai.DecodeJSON(text, &plan); err != nil {
		return nil, s.unavailable("study plan", err)
	}
	if plan.Plan == nil {
		plan.Plan = []PlanBlock{}
	}

	s.store(ctx, userID, InsightPlan, plan)
	return &plan, nil
}

// Insights analyses recent activity. Failures degrade to a canned response.
func (s *aiService) Insights(ctx context.Context, userID int64) (*InsightResponse, error) {
	if s.client == nil {
		return s.fallback(), nil
	}

	payload, err := s.insightContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	text, err := s.client.Complete(ctx, ai.Request{
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Content: insightPrompt},
			{Role: ai.RoleUser, Content: string(payload)},
		},
		Temperature: 0.7,
	})
	if err != nil {
		s.logger.Warn("Insight generation failed", zap.Int64("user_id", userID), zap.Error(err))
		return s.fallback(), nil
	}

	var insight InsightResponse
	if err := ai.DecodeJSON(text, &insight); err != nil {
		s.logger.Warn("Insight response was not JSON", zap.Int64("user_id", userID), zap.Error(err))
		return s.fallback(), nil
	}
	if insight.Recommendation == "" {
		insight.Recommendation = "Keep up the great work!"
	}

	s.store(ctx, userID, InsightRecommendation, insight)
	return &insight, nil
}

func (s *aiService) fallback() *InsightResponse {
	out := fallbackInsight
	out.Error = aiOfflineMessage
	return &out
}

func (s *aiService) insightContext(ctx context.Context, userID int64) ([]byte, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to load user", err)
	}
	if user == nil {
		return nil, EntityNotFoundError("user", userID)
	}
	counts, err := s.tasks.CountByStatus(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to count tasks", err)
	}
	stats, err := s.sessions.Stats(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to load session stats", err)
	}
	recent, err := s.sessions.Recent(ctx, userID, recentSessionLimit)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to load recent sessions", err)
	}

	type sessionSummary struct {
		Subject  string `json:"subject"`
		Duration int    `json:"duration"`
		Focus    *int   `json:"focus,omitempty"`
	}
	sessions := make([]sessionSummary, 0, len(recent))
	var focusSum, focusCount int
	for _, r := range recent {
		sessions = append(sessions, sessionSummary{Subject: r.Subject, Duration: r.Duration, Focus: r.FocusScore})
		if r.FocusScore != nil {
			focusSum += *r.FocusScore
			focusCount++
		}
	}
	avgFocus := 0
	if focusCount > 0 {
		avgFocus = int(math.Round(float64(focusSum) / float64(focusCount)))
	}

	return json.Marshal(map[string]interface{}{
		"name":                user.Name,
		"streak":              user.Streak,
		"totalStudyHours":     math.Round(float64(stats.TotalSeconds)/360) / 10,
		"avgFocusScore":       avgFocus,
		"pendingTasksCount":   counts[models.TaskPending] + counts[models.TaskInProgress],
		"completedTasksCount": counts[models.TaskCompleted],
		"completedSessions":   stats.Completed,
		"recentSessions":      sessions,
	})
}

// Chat answers as the study coach
func (s *aiService) Chat(ctx context.Context, userID int64, req *ChatRequest) (*ChatResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.available(); err != nil {
		return nil, err
	}

	messages := make([]ai.Message, 0, len(req.History)+2)
	messages = append(messages, ai.Message{Role: ai.RoleSystem, Content: chatPrompt})
	for _, turn := range req.History {
		messages = append(messages, ai.Message{Role: ai.Role(turn.Role), Content: turn.Content})
	}
	messages = append(messages, ai.Message{Role: ai.RoleUser, Content: req.Message})

	reply, err := s.client.Complete(ctx, ai.Request{
		Messages:    messages,
		MaxTokens:   chatMaxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, s.unavailable("chat", err)
	}
	return &ChatResponse{Reply: strings.TrimSpace(reply)}, nil
}

// Tips returns the static tip list and one pick from it
func (s *aiService) Tips(ctx context.Context) (*TipsResponse, error) {
	tips, err := cache.Remember(ctx, s.cache, s.logger, tipsCacheKey, s.tipsTTL, func() ([]string, error) {
		return s.catalog.Tips(), nil
	})
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to load tips", err)
	}
	if len(tips) == 0 {
		return &TipsResponse{Tips: []string{}}, nil
	}
	return &TipsResponse{Tip: tips[s.intn(len(tips))], Tips: tips}, nil
}

// GenerateNotes summarises study material into notes and practice questions
func (s *aiService) GenerateNotes(ctx context.Context, userID int64, req *NotesRequest) (*models.Note, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.available(); err != nil {
		return nil, err
	}

	count := req.NumQuestions
	if count == 0 {
		count = defaultNoteQuestions
	}
	text, err := s.client.Complete(ctx, ai.Request{
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Content: fmt.Sprintf(notesPrompt, count)},
			{Role: ai.RoleUser, Content: req.Text},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return nil, s.unavailable("notes", err)
	}

	var generated struct {
		Summary   string                `json:"summary"`
		KeyPoints []string              `json:"keyPoints"`
		Questions []models.NoteQuestion `json:"questions"`
	}
	if err := ai.DecodeJSON(text, &generated); err != nil {
		return nil, s.unavailable("notes", err)
	}

	note := &models.Note{
		UserID:    userID,
		Source:    req.Text,
		Summary:   generated.Summary,
		KeyPoints: generated.KeyPoints,
		Questions: generated.Questions,
	}
	if note.KeyPoints == nil {
		note.KeyPoints = []string{}
	}
	if note.Questions == nil {
		note.Questions = []models.NoteQuestion{}
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, internalError(ctx, s.logger, "failed to save notes", err)
	}
	return note, nil
}

// ListNotes returns the user's saved notes, newest first
func (s *aiService) ListNotes(ctx context.Context, userID int64) ([]*models.Note, error) {
	notes, err := s.notes.List(ctx, userID, notesListLimit)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to list notes", err)
	}
	return notes, nil
}

// store keeps a copy of a generated response; failures are logged only
func (s *aiService) store(ctx context.Context, userID int64, insightType string, value interface{}) {
	content, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("Failed to encode insight", zap.Error(err))
		return
	}
	if err := s.insights.Create(ctx, &models.AIInsight{UserID: userID, Type: insightType, Content: content}); err != nil {
		s.logger.Warn("Failed to store insight",
			zap.Int64("user_id", userID),
			zap.String("type", insightType),
			zap.Error(err))
	}
}

func (s *aiService) unavailable(feature string, err error) *ServiceError {
	s.logger.Error("AI request failed", zap.String("feature", feature), zap.Error(err))
	se := NewServiceUnavailableError("AI Coach is currently offline")
	se.Cause = err
	return se
}
