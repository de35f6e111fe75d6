package services

import (
	"context"
	"mime/multipart"

	"studyos/internal/catalog"
	"studyos/internal/gamification"
	"studyos/internal/models"
)

// ===============================
// ACCOUNT
// ===============================

// AuthService manages accounts, credentials and tokens
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, req *RefreshRequest) (*AuthResponse, error)
	Logout(ctx context.Context, userID int64, req *LogoutRequest) error

	// Google OAuth code flow
	GoogleAuthURL(state string) (string, error)
	GoogleCallback(ctx context.Context, code string) (*AuthResponse, error)

	Me(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*models.User, error)
	UploadAvatar(ctx context.Context, userID int64, file *multipart.FileHeader) (*models.User, error)

	// ValidateToken returns the user id carried by an access token
	ValidateToken(token string) (int64, error)
}

// ===============================
// PRODUCTIVITY
// ===============================

// TaskService manages tasks and their completion rewards
type TaskService interface {
	Create(ctx context.Context, userID int64, req *CreateTaskRequest) (*models.Task, error)
	Get(ctx context.Context, userID, taskID int64) (*models.Task, error)
	List(ctx context.Context, userID int64, req *ListTasksRequest) ([]*models.Task, error)
	Update(ctx context.Context, userID, taskID int64, req *UpdateTaskRequest) (*TaskUpdateResult, error)
	Delete(ctx context.Context, userID, taskID int64) error
}

// HabitService manages habits and daily check-ins
type HabitService interface {
	Create(ctx context.Context, userID int64, req *CreateHabitRequest) (*models.Habit, error)
	List(ctx context.Context, userID int64) ([]*models.Habit, error)
	Update(ctx context.Context, userID, habitID int64, req *UpdateHabitRequest) (*models.Habit, error)
	Delete(ctx context.Context, userID, habitID int64) error
	Complete(ctx context.Context, userID, habitID int64) (*models.Habit, error)
}

// GoalService manages numeric goals
type GoalService interface {
	Create(ctx context.Context, userID int64, req *CreateGoalRequest) (*models.Goal, error)
	List(ctx context.Context, userID int64) ([]*models.Goal, error)
	Update(ctx context.Context, userID, goalID int64, req *UpdateGoalRequest) (*models.Goal, error)
	Delete(ctx context.Context, userID, goalID int64) error
	AddProgress(ctx context.Context, userID, goalID int64, req *GoalProgressRequest) (*GoalProgressResult, error)
}

// SessionService runs timed focus sessions
type SessionService interface {
	Start(ctx context.Context, userID int64, req *StartSessionRequest) (*models.StudySession, error)
	End(ctx context.Context, userID, sessionID int64, req *EndSessionRequest) (*EndSessionResult, error)
	List(ctx context.Context, userID int64) ([]*models.StudySession, error)
	Active(ctx context.Context, userID int64) (*models.StudySession, error)
}

// ===============================
// GAMIFICATION & ANALYTICS
// ===============================

// GamificationService owns XP, badges and the leaderboard
type GamificationService interface {
	Stats(ctx context.Context, userID int64) (*StatsResponse, error)
	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	Badges(ctx context.Context, userID int64) (*BadgesResponse, error)

	// EvaluateBadges awards newly satisfied badges and returns their names
	EvaluateBadges(ctx context.Context, userID int64) ([]string, error)
	AwardXP(ctx context.Context, userID int64, source string, earned int) (*gamification.XPAward, error)
	InvalidateLeaderboard(ctx context.Context)
}

// AnalyticsService aggregates completed sessions
type AnalyticsService interface {
	Dashboard(ctx context.Context, userID int64) (*models.DashboardStats, error)
	Activity(ctx context.Context, userID int64, req *ActivityRequest) ([]models.ActivityDay, error)
	Subjects(ctx context.Context, userID int64) ([]models.SubjectMinutes, error)
}

// ===============================
// COMMUNITY
// ===============================

// CommunityService manages study groups and chat
type CommunityService interface {
	EnsureDefaultGroups(ctx context.Context) error
	ListGroups(ctx context.Context, userID int64) ([]*models.Group, error)
	CreateGroup(ctx context.Context, userID int64, req *CreateGroupRequest) (*models.Group, error)
	Join(ctx context.Context, userID, groupID int64) error
	Leave(ctx context.Context, userID, groupID int64) error
	Messages(ctx context.Context, userID, groupID int64) ([]*models.Message, error)
	PostMessage(ctx context.Context, userID, groupID int64, req *PostMessageRequest) (*models.Message, error)

	// Authorize fails unless the group exists and the user is a member
	Authorize(ctx context.Context, userID, groupID int64) error
}

// ===============================
// AI
// ===============================

// AIService provides coaching features backed by a completion model
type AIService interface {
	Plan(ctx context.Context, userID int64, req *PlanRequest) (*PlanResponse, error)
	Insights(ctx context.Context, userID int64) (*InsightResponse, error)
	Chat(ctx context.Context, userID int64, req *ChatRequest) (*ChatResponse, error)
	Tips(ctx context.Context) (*TipsResponse, error)
	GenerateNotes(ctx context.Context, userID int64, req *NotesRequest) (*models.Note, error)
	ListNotes(ctx context.Context, userID int64) ([]*models.Note, error)
}

// ===============================
// PAYMENTS
// ===============================

// PaymentService moves users between FREE and PRO
type PaymentService interface {
	CreateCheckout(ctx context.Context, userID int64) (*CheckoutResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	Status(ctx context.Context, userID int64) (*SubscriptionStatus, error)
}

// ===============================
// CATALOGS
// ===============================

// QuizService serves and grades catalog quizzes
type QuizService interface {
	List(ctx context.Context) []catalog.QuizSummary
	Get(ctx context.Context, quizID string) (*catalog.Quiz, error)
	Submit(ctx context.Context, userID int64, quizID string, req *SubmitQuizRequest) (*QuizResult, error)
}

// JobService serves the job board
type JobService interface {
	List(ctx context.Context, req *ListJobsRequest) []catalog.Job
	Get(ctx context.Context, jobID string) (*catalog.Job, error)
}
