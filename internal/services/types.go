package services

import (
	"time"

	"studyos/internal/gamification"
	"studyos/internal/models"
)

// ===============================
// AUTH
// ===============================

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

// LoginRequest represents a user login request
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest exchanges a refresh token for a new token pair
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LogoutRequest revokes one refresh token, or all of them when empty
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

// UpdateProfileRequest is a partial profile update
type UpdateProfileRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	AvatarURL *string `json:"avatarUrl,omitempty" validate:"omitempty,url"`
}

// AuthResponse is returned by every sign-in flow
type AuthResponse struct {
	User         *models.User `json:"user"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresAt    time.Time    `json:"expiresAt"`
}

// ===============================
// TASKS
// ===============================

// CreateTaskRequest creates a task
type CreateTaskRequest struct {
	Title       string              `json:"title" validate:"required,min=1,max=200"`
	Description *string             `json:"description,omitempty" validate:"omitempty,max=1000"`
	Priority    models.TaskPriority `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	DueDate     *time.Time          `json:"dueDate,omitempty"`
	Recurrence  models.Recurrence   `json:"recurrence,omitempty" validate:"omitempty,oneof=NONE DAILY WEEKLY"`
}

// UpdateTaskRequest is a partial task update
type UpdateTaskRequest struct {
	Title       *string              `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string              `json:"description,omitempty" validate:"omitempty,max=1000"`
	Priority    *models.TaskPriority `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Status      *models.TaskStatus   `json:"status,omitempty" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
	DueDate     *time.Time           `json:"dueDate,omitempty"`
	Recurrence  *models.Recurrence   `json:"recurrence,omitempty" validate:"omitempty,oneof=NONE DAILY WEEKLY"`
}

// ListTasksRequest filters task listings
type ListTasksRequest struct {
	Status   models.TaskStatus   `json:"status,omitempty" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
	Priority models.TaskPriority `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
}

// TaskUpdateResult is the outcome of a task update
type TaskUpdateResult struct {
	Task         *models.Task `json:"task"`
	CoinsAwarded int          `json:"coinsAwarded"`
	NewBadges    []string     `json:"newBadges"`
	NextTask     *models.Task `json:"nextTask,omitempty"`
}

// ===============================
// HABITS
// ===============================

// CreateHabitRequest creates a habit
type CreateHabitRequest struct {
	Title       string           `json:"title" validate:"required,min=1,max=100"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=500"`
	Frequency   models.Frequency `json:"frequency,omitempty" validate:"omitempty,oneof=DAILY WEEKLY"`
}

// UpdateHabitRequest is a partial habit update
type UpdateHabitRequest struct {
	Title       *string           `json:"title,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string           `json:"description,omitempty" validate:"omitempty,max=500"`
	Frequency   *models.Frequency `json:"frequency,omitempty" validate:"omitempty,oneof=DAILY WEEKLY"`
}

// ===============================
// GOALS
// ===============================

// CreateGoalRequest creates a goal
type CreateGoalRequest struct {
	Title        string            `json:"title" validate:"required,min=1,max=200"`
	TargetValue  float64           `json:"targetValue" validate:"gt=0"`
	CurrentValue float64           `json:"currentValue" validate:"gte=0"`
	Unit         string            `json:"unit,omitempty" validate:"omitempty,max=50"`
	Period       models.GoalPeriod `json:"period,omitempty" validate:"omitempty,oneof=DAILY WEEKLY MONTHLY"`
	Deadline     *time.Time        `json:"deadline,omitempty"`
}

// UpdateGoalRequest is a partial goal update
type UpdateGoalRequest struct {
	Title        *string            `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	TargetValue  *float64           `json:"targetValue,omitempty" validate:"omitempty,gt=0"`
	CurrentValue *float64           `json:"currentValue,omitempty" validate:"omitempty,gte=0"`
	Unit         *string            `json:"unit,omitempty" validate:"omitempty,max=50"`
	Period       *models.GoalPeriod `json:"period,omitempty" validate:"omitempty,oneof=DAILY WEEKLY MONTHLY"`
	Deadline     *time.Time         `json:"deadline,omitempty"`
}

// GoalProgressRequest increments a goal
type GoalProgressRequest struct {
	Amount float64 `json:"amount" validate:"gt=0"`
}

// GoalProgressResult reports progress after an increment
type GoalProgressResult struct {
	Goal      *models.Goal `json:"goal"`
	Completed bool         `json:"completed"`
}

// ===============================
// SESSIONS
// ===============================

// StartSessionRequest opens a focus session
type StartSessionRequest struct {
	Subject string `json:"subject,omitempty" validate:"omitempty,max=100"`
	TaskID  *int64 `json:"taskId,omitempty"`
}

// EndSessionRequest closes a focus session
type EndSessionRequest struct {
	FocusScore *int    `json:"focusScore,omitempty" validate:"omitempty,gte=0,lte=100"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// SessionRewards summarises what a session earned
type SessionRewards struct {
	DurationMinutes int  `json:"durationMinutes"`
	FocusScore      int  `json:"focusScore"`
	CoinsEarned     int  `json:"coinsEarned"`
	XPEarned        int  `json:"xpEarned"`
	Streak          int  `json:"streak"`
	Level           int  `json:"level"`
	LeveledUp       bool `json:"leveledUp"`
}

// EndSessionResult is returned when a session is ended
type EndSessionResult struct {
	Session *models.StudySession `json:"session"`
	SessionRewards
	NewBadges []string `json:"newBadges"`
}

// ===============================
// GAMIFICATION
// ===============================

// StatsResponse is the gamification summary for a user
type StatsResponse struct {
	XP          int                 `json:"xp"`
	Level       int                 `json:"level"`
	Coins       int                 `json:"coins"`
	Streak      int                 `json:"streak"`
	Progress    int                 `json:"progress"`
	NextLevelXP int                 `json:"nextLevelXp"`
	Badges      []*models.UserBadge `json:"badges"`
}

// BadgeView is a catalog badge annotated for one user
type BadgeView struct {
	models.Badge
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earnedAt,omitempty"`
}

// BadgesResponse lists all badges and the ones the user holds
type BadgesResponse struct {
	All    []BadgeView         `json:"all"`
	Earned []*models.UserBadge `json:"earned"`
}

// ===============================
// ANALYTICS
// ===============================

// ActivityRequest bounds the heatmap window
type ActivityRequest struct {
	Days int `json:"days" validate:"omitempty,min=1,max=366"`
}

// ===============================
// COMMUNITY
// ===============================

// CreateGroupRequest creates a group
type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=50"`
	Description string `json:"description" validate:"max=200"`
}

// PostMessageRequest posts a chat message
type PostMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

// ===============================
// AI
// ===============================

// PlanRequest asks for a study plan
type PlanRequest struct {
	Goal           string   `json:"goal,omitempty" validate:"omitempty,max=500"`
	AvailableHours float64  `json:"availableHours,omitempty" validate:"omitempty,gt=0,lte=24"`
	Subjects       []string `json:"subjects,omitempty" validate:"omitempty,max=20,dive,max=100"`
}

// PlanBlock is one slot of a study plan
type PlanBlock struct {
	Time     string `json:"time"`
	Activity string `json:"activity"`
	Notes    string `json:"notes"`
}

// PlanResponse is a generated study plan
type PlanResponse struct {
	Summary string      `json:"summary"`
	Plan    []PlanBlock `json:"plan"`
}

// InsightResponse is the coaching summary
type InsightResponse struct {
	Recommendation string `json:"recommendation"`
	Insight        string `json:"insight"`
	Motivation     string `json:"motivation"`
	Error          string `json:"error,omitempty"`
}

// ChatTurn is one prior exchange in a chat
type ChatTurn struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required,max=4000"`
}

// ChatRequest is a message to the AI tutor
type ChatRequest struct {
	Message string     `json:"message" validate:"required,min=1,max=2000"`
	History []ChatTurn `json:"history,omitempty" validate:"omitempty,max=20,dive"`
}

// ChatResponse is the tutor reply
type ChatResponse struct {
	Reply string `json:"reply"`
}

// TipsResponse carries the static study tips and one picked for today
type TipsResponse struct {
	Tip  string   `json:"tip"`
	Tips []string `json:"tips"`
}

// NotesRequest asks for study notes from raw text
type NotesRequest struct {
	Text         string `json:"text" validate:"required,min=20,max=20000"`
	NumQuestions int    `json:"numQuestions,omitempty" validate:"omitempty,min=1,max=10"`
}

// ===============================
// PAYMENTS
// ===============================

// CheckoutResponse carries the provider redirect URL
type CheckoutResponse struct {
	URL string `json:"url"`
}

// SubscriptionStatus reports the paywall tier
type SubscriptionStatus struct {
	Tier           models.SubscriptionTier `json:"tier"`
	SubscriptionID *string                 `json:"subscriptionId,omitempty"`
}

// ===============================
// QUIZZES & JOBS
// ===============================

// SubmitQuizRequest carries chosen option indexes in question order
type SubmitQuizRequest struct {
	Answers []int `json:"answers" validate:"required,max=100"`
}

// QuizResult is the graded submission
type QuizResult struct {
	QuizID       string               `json:"quizId"`
	Score        int                  `json:"score"`
	Total        int                  `json:"total"`
	Correct      []bool               `json:"correct"`
	Explanations []string             `json:"explanations"`
	XPEarned     int                  `json:"xpEarned"`
	Award        gamification.XPAward `json:"award"`
}

// ListJobsRequest filters the job board
type ListJobsRequest struct {
	Type  string `json:"type,omitempty"`
	Query string `json:"q,omitempty" validate:"omitempty,max=100"`
}
