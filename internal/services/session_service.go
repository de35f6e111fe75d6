package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"studyos/internal/events"
	"studyos/internal/gamification"
	"studyos/internal/models"
	"studyos/internal/repositories"

	"go.uber.org/zap"
)

const (
	defaultSubject   = "General"
	sessionListLimit = 50
)

// sessionService implements SessionService
type sessionService struct {
	sessions     repositories.StudySessionRepository
	users        repositories.UserRepository
	tasks        repositories.TaskRepository
	tx           repositories.Transactor
	gamification GamificationService
	eventBus     events.EventBus
	loc          *time.Location
	logger       *zap.Logger
	now          func() time.Time
	intn         func(int) int
}

// SessionDeps groups the collaborators of the session service
type SessionDeps struct {
	Sessions     repositories.StudySessionRepository
	Users        repositories.UserRepository
	Tasks        repositories.TaskRepository
	Tx           repositories.Transactor
	Gamification GamificationService
	EventBus     events.EventBus
}

// NewSessionService creates the focus session service
func NewSessionService(deps SessionDeps, loc *time.Location, logger *zap.Logger) SessionService {
	if loc == nil {
		loc = time.Local
	}
	return &sessionService{
		sessions:     deps.Sessions,
		users:        deps.Users,
		tasks:        deps.Tasks,
		tx:           deps.Tx,
		gamification: deps.Gamification,
		eventBus:     deps.EventBus,
		loc:          loc,
		logger:       logger,
		now:          time.Now,
		intn:         rand.IntN,
	}
}

func activeSessionError() *ServiceError {
	err := NewValidationError("You already have an active session", nil)
	err.Code = "SESSION_ACTIVE"
	return err
}

// Start opens a focus session. A user has at most one open session.
func (s *sessionService) Start(ctx context.Context, userID int64, req *StartSessionRequest) (*models.StudySession, error) {
	if req == nil {
		req = &StartSessionRequest{}
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	active, err := s.sessions.GetActive(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to check active session", err)
	}
	if active != nil {
		return nil, activeSessionError().WithDetail("sessionId", active.ID)
	}

	if req.TaskID != nil {
		task, err := s.tasks.GetByID(ctx, *req.TaskID)
		if err != nil {
			return nil, internalError(ctx, s.logger, "failed to get task", err)
		}
		if task == nil || task.UserID != userID {
			return nil, EntityNotFoundError("task", *req.TaskID)
		}
	}

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = defaultSubject
	}

	session := &models.StudySession{
		UserID:    userID,
		TaskID:    req.TaskID,
		Subject:   subject,
		StartTime: s.now(),
		Status:    models.SessionActive,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		if errors.Is(err, repositories.ErrActiveSessionExists) {
			return nil, activeSessionError()
		}
		return nil, internalError(ctx, s.logger, "failed to start session", err)
	}

	s.logger.Info("Focus session started",
		zap.Int64("user_id", userID),
		zap.Int64("session_id", session.ID),
		zap.String("subject", subject))
	return session, nil
}

// End closes a session and pays out coins, XP and streak in one transaction.
// The session row is locked before the user row.
func (s *sessionService) End(ctx context.Context, userID, sessionID int64, req *EndSessionRequest) (*EndSessionResult, error) {
	if req == nil {
		req = &EndSessionRequest{}
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	result := &EndSessionResult{NewBadges: []string{}}
	var award gamification.XPAward

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		session, err := s.sessions.GetByIDForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if session == nil || session.EndTime != nil || session.Status != models.SessionActive {
			return NewNotFoundError("Session not found or already ended")
		}
		if session.UserID != userID {
			return NewForbiddenError("Unauthorized")
		}

		now := s.now()
		seconds, minutes := gamification.SplitDuration(now.Sub(session.StartTime))
		focus := gamification.FocusScore(minutes, req.FocusScore, s.intn)

		session.EndTime = &now
		session.Duration = seconds
		session.FocusScore = &focus
		session.Status = models.SessionCompleted
		session.Notes = req.Notes
		if err := s.sessions.Complete(ctx, session); err != nil {
			return err
		}

		user, err := s.users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return EntityNotFoundError("user", userID)
		}

		coins := gamification.SessionCoins(minutes)
		streak := gamification.NextStreak(user.Streak, user.LastActiveAt, now, s.loc)
		award = gamification.ApplyXP(user.XP, gamification.SessionXP(minutes))

		user.Coins += coins + award.BonusCoins
		user.XP = award.NewXP
		user.Level = award.NewLevel
		user.Streak = streak
		user.LastActiveAt = &now
		if err := s.users.UpdateProgress(ctx, user); err != nil {
			return err
		}

		result.Session = session
		result.SessionRewards = SessionRewards{
			DurationMinutes: minutes,
			FocusScore:      focus,
			CoinsEarned:     coins,
			XPEarned:        award.Earned,
			Streak:          streak,
			Level:           award.NewLevel,
			LeveledUp:       award.LeveledUp,
		}
		return nil
	})
	if err != nil {
		return nil, passThrough(ctx, s.logger, "failed to end session", err)
	}

	badges, err := s.gamification.EvaluateBadges(ctx, userID)
	if err != nil {
		s.logger.Warn("Badge evaluation failed", zap.Int64("user_id", userID), zap.Error(err))
	} else {
		result.NewBadges = badges
	}

	s.gamification.InvalidateLeaderboard(ctx)
	publishEvent(ctx, s.eventBus, s.logger, events.NewSessionCompletedEvent(
		userID, sessionID, result.Session.Subject, result.DurationMinutes,
		result.CoinsEarned, result.XPEarned, result.Streak))
	if award.Earned > 0 {
		publishEvent(ctx, s.eventBus, s.logger,
			events.NewXPAwardedEvent(userID, "SESSION_COMPLETE", award.Earned, award.NewXP, award.OldLevel, award.NewLevel))
	}
	if award.LeveledUp {
		publishEvent(ctx, s.eventBus, s.logger,
			events.NewLevelUpEvent(userID, award.OldLevel, award.NewLevel, award.BonusCoins))
	}

	s.logger.Info("Focus session completed",
		zap.Int64("user_id", userID),
		zap.Int64("session_id", sessionID),
		zap.Int("minutes", result.DurationMinutes),
		zap.Int("coins", result.CoinsEarned))
	return result, nil
}

// List returns the user's sessions, newest first
func (s *sessionService) List(ctx context.Context, userID int64) ([]*models.StudySession, error) {
	sessions, err := s.sessions.List(ctx, userID, sessionListLimit)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to list sessions", err)
	}
	return sessions, nil
}

// Active returns the open session or nil
func (s *sessionService) Active(ctx context.Context, userID int64) (*models.StudySession, error) {
	session, err := s.sessions.GetActive(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to get active session", err)
	}
	return session, nil
}
