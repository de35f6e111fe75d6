package events

import (
	"studyos/internal/models"
)

// Event types
const (
	TypeMessagePosted       = "community.message_posted"
	TypeSessionCompleted    = "session.completed"
	TypeTaskCompleted       = "task.completed"
	TypeBadgesEarned        = "gamification.badges_earned"
	TypeLevelUp             = "gamification.level_up"
	TypeXPAwarded           = "gamification.xp_awarded"
	TypeSubscriptionChanged = "payments.subscription_changed"
	TypeUserRegistered      = "auth.user_registered"
)

// MessagePostedEvent carries a chat message to realtime subscribers
type MessagePostedEvent struct {
	BaseEvent
	Message *models.Message `json:"message"`
}

// NewMessagePostedEvent creates a MessagePostedEvent
func NewMessagePostedEvent(message *models.Message) *MessagePostedEvent {
	return &MessagePostedEvent{
		BaseEvent: newBase(TypeMessagePosted, message.UserID),
		Message:   message,
	}
}

// SessionCompletedEvent is emitted after a focus session commits
type SessionCompletedEvent struct {
	BaseEvent
	SessionID   int64  `json:"session_id"`
	Subject     string `json:"subject"`
	Minutes     int    `json:"minutes"`
	CoinsEarned int    `json:"coins_earned"`
	XPEarned    int    `json:"xp_earned"`
	Streak      int    `json:"streak"`
}

// NewSessionCompletedEvent creates a SessionCompletedEvent
func NewSessionCompletedEvent(userID, sessionID int64, subject string, minutes, coins, xp, streak int) *SessionCompletedEvent {
	return &SessionCompletedEvent{
		BaseEvent:   newBase(TypeSessionCompleted, userID),
		SessionID:   sessionID,
		Subject:     subject,
		Minutes:     minutes,
		CoinsEarned: coins,
		XPEarned:    xp,
		Streak:      streak,
	}
}

// TaskCompletedEvent is emitted on the first completion of a task
type TaskCompletedEvent struct {
	BaseEvent
	TaskID       int64 `json:"task_id"`
	CoinsAwarded int   `json:"coins_awarded"`
	NextTaskID   int64 `json:"next_task_id,omitempty"`
}

// NewTaskCompletedEvent creates a TaskCompletedEvent
func NewTaskCompletedEvent(userID, taskID int64, coins int, nextTaskID int64) *TaskCompletedEvent {
	return &TaskCompletedEvent{
		BaseEvent:    newBase(TypeTaskCompleted, userID),
		TaskID:       taskID,
		CoinsAwarded: coins,
		NextTaskID:   nextTaskID,
	}
}

// BadgesEarnedEvent lists badge names awarded in one evaluation
type BadgesEarnedEvent struct {
	BaseEvent
	Badges []string `json:"badges"`
}

// NewBadgesEarnedEvent creates a BadgesEarnedEvent
func NewBadgesEarnedEvent(userID int64, badges []string) *BadgesEarnedEvent {
	return &BadgesEarnedEvent{
		BaseEvent: newBase(TypeBadgesEarned, userID),
		Badges:    badges,
	}
}

// XPAwardedEvent is emitted whenever a user's XP changes
type XPAwardedEvent struct {
	BaseEvent
	Source   string `json:"source"`
	Earned   int    `json:"earned"`
	NewXP    int    `json:"new_xp"`
	OldLevel int    `json:"old_level"`
	NewLevel int    `json:"new_level"`
}

// NewXPAwardedEvent creates an XPAwardedEvent; a level change also implies TypeLevelUp
func NewXPAwardedEvent(userID int64, source string, earned, newXP, oldLevel, newLevel int) *XPAwardedEvent {
	return &XPAwardedEvent{
		BaseEvent: newBase(TypeXPAwarded, userID),
		Source:    source,
		Earned:    earned,
		NewXP:     newXP,
		OldLevel:  oldLevel,
		NewLevel:  newLevel,
	}
}

// LevelUpEvent is emitted when XP crosses a level threshold
type LevelUpEvent struct {
	BaseEvent
	OldLevel   int `json:"old_level"`
	NewLevel   int `json:"new_level"`
	BonusCoins int `json:"bonus_coins"`
}

// NewLevelUpEvent creates a LevelUpEvent
func NewLevelUpEvent(userID int64, oldLevel, newLevel, bonus int) *LevelUpEvent {
	return &LevelUpEvent{
		BaseEvent:  newBase(TypeLevelUp, userID),
		OldLevel:   oldLevel,
		NewLevel:   newLevel,
		BonusCoins: bonus,
	}
}

// SubscriptionChangedEvent records a tier transition from a payment webhook
type SubscriptionChangedEvent struct {
	BaseEvent
	Tier models.SubscriptionTier `json:"tier"`
}

// NewSubscriptionChangedEvent creates a SubscriptionChangedEvent
func NewSubscriptionChangedEvent(userID int64, tier models.SubscriptionTier) *SubscriptionChangedEvent {
	return &SubscriptionChangedEvent{
		BaseEvent: newBase(TypeSubscriptionChanged, userID),
		Tier:      tier,
	}
}

// UserRegisteredEvent is emitted for new accounts
type UserRegisteredEvent struct {
	BaseEvent
	Email    string `json:"email"`
	Provider string `json:"provider"`
}

// NewUserRegisteredEvent creates a UserRegisteredEvent
func NewUserRegisteredEvent(userID int64, email, provider string) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseEvent: newBase(TypeUserRegistered, userID),
		Email:     email,
		Provider:  provider,
	}
}
