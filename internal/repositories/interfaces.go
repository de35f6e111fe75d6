// file: internal/repositories/interfaces.go
package repositories

import (
	"context"
	"time"

	"studyos/internal/models"
)

// Lookups return (nil, nil) when the row does not exist.

// ===============================
// USERS & AUTH
// ===============================

// UserRepository persists accounts and their gamification counters
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	GetByStripeCustomer(ctx context.Context, customerID string) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, name, avatarURL *string) (*models.User, error)
	LinkGoogle(ctx context.Context, id int64, googleID string) error

	// UpdateProgress writes xp, level, coins, streak and last_active_at
	UpdateProgress(ctx context.Context, user *models.User) error
	AddCoins(ctx context.Context, id int64, coins int) (int, error)

	SetSubscription(ctx context.Context, id int64, tier models.SubscriptionTier, customerID, subscriptionID *string) error
	SetTierByCustomer(ctx context.Context, customerID string, tier models.SubscriptionTier) (int64, error)

	Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

// RefreshTokenRepository stores hashed refresh tokens
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id int64) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// ===============================
// PRODUCTIVITY
// ===============================

// TaskFilter narrows task listings
type TaskFilter struct {
	Status   models.TaskStatus
	Priority models.TaskPriority
	Limit    int
}

// TaskRepository persists tasks
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Task, error)
	List(ctx context.Context, userID int64, filter TaskFilter) ([]*models.Task, error)
	ListPending(ctx context.Context, userID int64, limit int) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id, userID int64) (bool, error)
	CountByStatus(ctx context.Context, userID int64) (map[models.TaskStatus]int, error)
}

// HabitRepository persists habits and their completion log
type HabitRepository interface {
	Create(ctx context.Context, habit *models.Habit) error
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Habit, error)
	GetByID(ctx context.Context, id int64) (*models.Habit, error)
	List(ctx context.Context, userID int64) ([]*models.Habit, error)
	Update(ctx context.Context, habit *models.Habit) error
	Delete(ctx context.Context, id, userID int64) (bool, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
}

// GoalRepository persists goals
type GoalRepository interface {
	Create(ctx context.Context, goal *models.Goal) error
	GetByID(ctx context.Context, id int64) (*models.Goal, error)
	List(ctx context.Context, userID int64) ([]*models.Goal, error)
	Update(ctx context.Context, goal *models.Goal) error
	AddProgress(ctx context.Context, id, userID int64, amount float64) (*models.Goal, error)
	Delete(ctx context.Context, id, userID int64) (bool, error)
}

// SessionStats aggregates a user's completed sessions
type SessionStats struct {
	Completed      int
	TotalSeconds   int
	LastSessionEnd *time.Time
}

// SessionSpan is the minimum needed for analytics bucketing
type SessionSpan struct {
	StartTime  time.Time
	Duration   int
	Subject    string
	FocusScore *int
}

// StudySessionRepository persists focus sessions
type StudySessionRepository interface {
	Create(ctx context.Context, session *models.StudySession) error
	GetByID(ctx context.Context, id int64) (*models.StudySession, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*models.StudySession, error)
	GetActive(ctx context.Context, userID int64) (*models.StudySession, error)
	List(ctx context.Context, userID int64, limit int) ([]*models.StudySession, error)
	Complete(ctx context.Context, session *models.StudySession) error
	Stats(ctx context.Context, userID int64) (*SessionStats, error)
	CompletedSince(ctx context.Context, userID int64, since time.Time) ([]SessionSpan, error)
	Recent(ctx context.Context, userID int64, limit int) ([]*models.StudySession, error)
}

// ===============================
// GAMIFICATION
// ===============================

// BadgeRepository persists badge definitions and awards
type BadgeRepository interface {
	Ensure(ctx context.Context, badge *models.Badge) (int64, error)
	// Award returns true only when the row was inserted by this call
	Award(ctx context.Context, userID, badgeID int64) (bool, error)
	List(ctx context.Context) ([]*models.Badge, error)
	ListForUser(ctx context.Context, userID int64) ([]*models.UserBadge, error)
}

// ===============================
// COMMUNITY
// ===============================

// CommunityRepository persists groups, memberships and messages
type CommunityRepository interface {
	CountGroups(ctx context.Context) (int, error)
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, id int64) (*models.Group, error)
	ListGroups(ctx context.Context, viewerID int64) ([]*models.Group, error)
	Join(ctx context.Context, groupID, userID int64) error
	Leave(ctx context.Context, groupID, userID int64) (bool, error)
	IsMember(ctx context.Context, groupID, userID int64) (bool, error)
	ListMessages(ctx context.Context, groupID int64, limit int) ([]*models.Message, error)
	CreateMessage(ctx context.Context, message *models.Message) error
}

// ===============================
// AI & LEARNING
// ===============================

// InsightRepository stores AI coaching responses
type InsightRepository interface {
	Create(ctx context.Context, insight *models.AIInsight) error
	Latest(ctx context.Context, userID int64, insightType string) (*models.AIInsight, error)
}

// QuizAttemptRepository stores quiz submissions
type QuizAttemptRepository interface {
	Create(ctx context.Context, attempt *models.QuizAttempt) error
	ListForUser(ctx context.Context, userID int64, limit int) ([]*models.QuizAttempt, error)
}

// NoteRepository stores generated notes
type NoteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	List(ctx context.Context, userID int64, limit int) ([]*models.Note, error)
}

// ===============================
// ANALYTICS
// ===============================

// DashboardTotals are raw sums in seconds
type DashboardTotals struct {
	TotalSeconds  int
	WeeklySeconds int
	AvgFocus      float64
}

// AnalyticsRepository runs aggregate queries over sessions
type AnalyticsRepository interface {
	Dashboard(ctx context.Context, userID int64, weekStart time.Time) (*DashboardTotals, error)
	Subjects(ctx context.Context, userID int64) ([]models.SubjectMinutes, error)
}
