// file: internal/models/models.go
package models

import (
	"time"
)

// ===============================
// ENUMS
// ===============================

// SubscriptionTier is the paywall tier of a user
type SubscriptionTier string

const (
	TierFree SubscriptionTier = "FREE"
	TierPro  SubscriptionTier = "PRO"
)

// TaskPriority orders tasks
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

// TaskStatus is the lifecycle of a task
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskCancelled  TaskStatus = "CANCELLED"
)

// Recurrence controls regeneration of completed tasks
type Recurrence string

const (
	RecurrenceNone   Recurrence = "NONE"
	RecurrenceDaily  Recurrence = "DAILY"
	RecurrenceWeekly Recurrence = "WEEKLY"
)

// SessionStatus is the lifecycle of a focus session
type SessionStatus string

const (
	SessionActive    SessionStatus = "ACTIVE"
	SessionCompleted SessionStatus = "COMPLETED"
	SessionAbandoned SessionStatus = "ABANDONED"
)

// Frequency of a habit
type Frequency string

const (
	FrequencyDaily  Frequency = "DAILY"
	FrequencyWeekly Frequency = "WEEKLY"
)

// GoalPeriod is the window a goal is measured over
type GoalPeriod string

const (
	PeriodDaily   GoalPeriod = "DAILY"
	PeriodWeekly  GoalPeriod = "WEEKLY"
	PeriodMonthly GoalPeriod = "MONTHLY"
)

// ===============================
// CORE ENTITIES
// ===============================

// User is an account with its gamification counters
type User struct {
	ID               int64            `json:"id" db:"id"`
	Email            string           `json:"email" db:"email"`
	PasswordHash     *string          `json:"-" db:"password_hash"`
	Name             string           `json:"name" db:"name"`
	AvatarURL        *string          `json:"avatarUrl,omitempty" db:"avatar_url"`
	GoogleID         *string          `json:"-" db:"google_id"`
	Coins            int              `json:"coins" db:"coins"`
	XP               int              `json:"xp" db:"xp"`
	Level            int              `json:"level" db:"level"`
	Streak           int              `json:"streak" db:"streak"`
	LastActiveAt     *time.Time       `json:"lastActiveAt,omitempty" db:"last_active_at"`
	SubscriptionTier SubscriptionTier `json:"subscriptionTier" db:"subscription_tier"`
	StripeCustomerID *string          `json:"-" db:"stripe_customer_id"`
	SubscriptionID   *string          `json:"subscriptionId,omitempty" db:"subscription_id"`
	CreatedAt        time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time        `json:"updatedAt" db:"updated_at"`
}

// IsPro reports whether the user has an active subscription
func (u *User) IsPro() bool {
	return u.SubscriptionTier == TierPro
}

// RefreshToken is a hashed long-lived credential
type RefreshToken struct {
	ID        int64      `db:"id"`
	UserID    int64      `db:"user_id"`
	TokenHash string     `db:"token_hash"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
	CreatedAt time.Time  `db:"created_at"`
}

// Task is a to-do item, optionally recurring
type Task struct {
	ID           int64        `json:"id" db:"id"`
	UserID       int64        `json:"userId" db:"user_id"`
	Title        string       `json:"title" db:"title"`
	Description  *string      `json:"description,omitempty" db:"description"`
	Priority     TaskPriority `json:"priority" db:"priority"`
	Status       TaskStatus   `json:"status" db:"status"`
	DueDate      *time.Time   `json:"dueDate,omitempty" db:"due_date"`
	Recurrence   Recurrence   `json:"recurrence" db:"recurrence"`
	ParentTaskID *int64       `json:"parentTaskId,omitempty" db:"parent_task_id"`
	Rewarded     bool         `json:"rewarded" db:"rewarded"`
	CompletedAt  *time.Time   `json:"completedAt,omitempty" db:"completed_at"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time    `json:"updatedAt" db:"updated_at"`
}

// Habit is a repeated behaviour with its completion log
type Habit struct {
	ID          int64       `json:"id" db:"id"`
	UserID      int64       `json:"userId" db:"user_id"`
	Title       string      `json:"title" db:"title"`
	Description *string     `json:"description,omitempty" db:"description"`
	Frequency   Frequency   `json:"frequency" db:"frequency"`
	Streak      int         `json:"streak" db:"streak"`
	Completions []time.Time `json:"completions" db:"completions"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" db:"updated_at"`
}

// LastCompletion returns the latest completion timestamp
func (h *Habit) LastCompletion() (time.Time, bool) {
	var last time.Time
	for _, c := range h.Completions {
		if c.After(last) {
			last = c
		}
	}
	return last, !last.IsZero()
}

// StudySession is a timed focus interval
type StudySession struct {
	ID         int64         `json:"id" db:"id"`
	UserID     int64         `json:"userId" db:"user_id"`
	TaskID     *int64        `json:"taskId,omitempty" db:"task_id"`
	Subject    string        `json:"subject" db:"subject"`
	StartTime  time.Time     `json:"startTime" db:"start_time"`
	EndTime    *time.Time    `json:"endTime,omitempty" db:"end_time"`
	Duration   int           `json:"duration" db:"duration"` // seconds
	FocusScore *int          `json:"focusScore,omitempty" db:"focus_score"`
	Status     SessionStatus `json:"status" db:"status"`
	Notes      *string       `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time     `json:"createdAt" db:"created_at"`
}

// Goal tracks numeric progress towards a target
type Goal struct {
	ID           int64      `json:"id" db:"id"`
	UserID       int64      `json:"userId" db:"user_id"`
	Title        string     `json:"title" db:"title"`
	TargetValue  float64    `json:"targetValue" db:"target_value"`
	CurrentValue float64    `json:"currentValue" db:"current_value"`
	Unit         string     `json:"unit" db:"unit"`
	Period       GoalPeriod `json:"period" db:"period"`
	Deadline     *time.Time `json:"deadline,omitempty" db:"deadline"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// Completed reports whether the target was reached
func (g *Goal) Completed() bool {
	return g.CurrentValue >= g.TargetValue
}

// ===============================
// COMMUNITY
// ===============================

// Group is a community chat room
type Group struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedBy   *int64    `json:"createdBy,omitempty" db:"created_by"`
	MemberCount int       `json:"memberCount" db:"-"`
	IsMember    bool      `json:"isMember" db:"-"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Message is a chat message in a group
type Message struct {
	ID         int64     `json:"id" db:"id"`
	GroupID    int64     `json:"groupId" db:"group_id"`
	UserID     int64     `json:"userId" db:"user_id"`
	AuthorName string    `json:"authorName" db:"-"`
	Content    string    `json:"content" db:"content"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// ===============================
// AI & LEARNING
// ===============================

// AIInsight is a stored coaching response
type AIInsight struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Type      string    `json:"type" db:"type"`
	Content   []byte    `json:"-" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// QuizAttempt records a submitted quiz
type QuizAttempt struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	QuizID    string    `json:"quizId" db:"quiz_id"`
	Score     int       `json:"score" db:"score"`
	Total     int       `json:"total" db:"total"`
	XPEarned  int       `json:"xpEarned" db:"xp_earned"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// NoteQuestion is a generated multiple choice question
type NoteQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Note is a generated study note
type Note struct {
	ID        int64          `json:"id" db:"id"`
	UserID    int64          `json:"userId" db:"user_id"`
	Source    string         `json:"source" db:"source"`
	Summary   string         `json:"summary" db:"summary"`
	KeyPoints []string       `json:"keyPoints" db:"key_points"`
	Questions []NoteQuestion `json:"questions" db:"questions"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
}

// ===============================
// AGGREGATES
// ===============================

// LeaderboardEntry is one ranked user
type LeaderboardEntry struct {
	Rank      int     `json:"rank"`
	UserID    int64   `json:"userId"`
	Name      string  `json:"name"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
	XP        int     `json:"xp"`
	Level     int     `json:"level"`
	Streak    int     `json:"streak"`
}

// DashboardStats summarises completed sessions
type DashboardStats struct {
	TotalMinutes  int `json:"totalMinutes"`
	WeeklyMinutes int `json:"weeklyMinutes"`
	AvgFocusScore int `json:"avgFocusScore"`
}

// ActivityDay is one heatmap cell
type ActivityDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

// SubjectMinutes is minutes studied per subject
type SubjectMinutes struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}
