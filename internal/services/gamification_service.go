package services

import (
	"context"
	"fmt"
	"time"

	"studyos/internal/cache"
	"studyos/internal/events"
	"studyos/internal/gamification"
	"studyos/internal/models"
	"studyos/internal/repositories"

	"go.uber.org/zap"
)

const (
	leaderboardKeyPrefix = "leaderboard:"
	defaultLeaderboard   = 10
	maxLeaderboard       = 100
)

// gamificationService implements GamificationService
type gamificationService struct {
	users          repositories.UserRepository
	tasks          repositories.TaskRepository
	sessions       repositories.StudySessionRepository
	badges         repositories.BadgeRepository
	tx             repositories.Transactor
	cache          cache.Cache
	eventBus       events.EventBus
	loc            *time.Location
	leaderboardTTL time.Duration
	logger         *zap.Logger
}

// GamificationDeps groups the collaborators of the gamification service
type GamificationDeps struct {
	Users    repositories.UserRepository
	Tasks    repositories.TaskRepository
	Sessions repositories.StudySessionRepository
	Badges   repositories.BadgeRepository
	Tx       repositories.Transactor
	Cache    cache.Cache
	EventBus events.EventBus
}

// NewGamificationService creates the gamification service
func NewGamificationService(deps GamificationDeps, loc *time.Location, leaderboardTTL time.Duration, logger *zap.Logger) GamificationService {
	if loc == nil {
		loc = time.Local
	}
	return &gamificationService{
		users:          deps.Users,
		tasks:          deps.Tasks,
		sessions:       deps.Sessions,
		badges:         deps.Badges,
		tx:             deps.Tx,
		cache:          deps.Cache,
		eventBus:       deps.EventBus,
		loc:            loc,
		leaderboardTTL: leaderboardTTL,
		logger:         logger,
	}
}

// Stats summarises a user's progress
func (s *gamificationService) Stats(ctx context.Context, userID int64) (*StatsResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to load user", err)
	}
	if user == nil {
		return nil, EntityNotFoundError("user", userID)
	}

	earned, err := s.badges.ListForUser(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to load badges", err)
	}

	progress := gamification.Progress(user.XP)
	return &StatsResponse{
		XP:          user.XP,
		Level:       progress.Level,
		Coins:       user.Coins,
		Streak:      user.Streak,
		Progress:    progress.Percent,
		NextLevelXP: progress.NextLevelXP,
		Badges:      earned,
	}, nil
}

// Leaderboard returns the top users by XP, cached briefly
func (s *gamificationService) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboard
	}
	if limit > maxLeaderboard {
		limit = maxLeaderboard
	}

	key := fmt.Sprintf("%s%d", leaderboardKeyPrefix, limit)
	entries, err := cache.Remember(ctx, s.cache, s.logger, key, s.leaderboardTTL, func() ([]models.LeaderboardEntry, error) {
		return s.users.Leaderboard(ctx, limit)
	})
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to load leaderboard", err)
	}
	return entries, nil
}

// InvalidateLeaderboard drops every cached leaderboard size
func (s *gamificationService) InvalidateLeaderboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, leaderboardKeyPrefix+"*"); err != nil {
		s.logger.Warn("Failed to invalidate leaderboard", zap.Error(err))
	}
}

// Badges lists the catalog annotated with what the user has earned
func (s *gamificationService) Badges(ctx context.Context, userID int64) (*BadgesResponse, error) {
	stored, err := s.badges.List(ctx)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to list badges", err)
	}
	earned, err := s.badges.ListForUser(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to list user badges", err)
	}

	byCode := make(map[string]*models.Badge, len(stored))
	for _, b := range stored {
		byCode[b.Code] = b
	}
	earnedAt := make(map[string]time.Time, len(earned))
	for _, ub := range earned {
		earnedAt[ub.Code] = ub.EarnedAt
	}

	all := make([]BadgeView, 0, len(gamification.Catalog()))
	for _, def := range gamification.Catalog() {
		view := BadgeView{Badge: models.Badge{
			Code:        def.Code,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
		}}
		if b, ok := byCode[def.Code]; ok {
			view.Badge = *b
		}
		if at, ok := earnedAt[def.Code]; ok {
			at := at
			view.Earned = true
			view.EarnedAt = &at
		}
		all = append(all, view)
	}

	return &BadgesResponse{All: all, Earned: earned}, nil
}

// EvaluateBadges checks every badge predicate and records the newly satisfied ones
func (s *gamificationService) EvaluateBadges(ctx context.Context, userID int64) ([]string, error) {
	facts, err := s.facts(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to gather badge facts", err)
	}

	newlyEarned := []string{}
	for _, def := range gamification.EarnedBadges(*facts, s.loc) {
		badgeID, err := s.badges.Ensure(ctx, &models.Badge{
			Code:        def.Code,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
		})
		if err != nil {
			return nil, internalError(ctx, s.logger, "failed to ensure badge", err)
		}
		inserted, err := s.badges.Award(ctx, userID, badgeID)
		if err != nil {
			return nil, internalError(ctx, s.logger, "failed to award badge", err)
		}
		if inserted {
			newlyEarned = append(newlyEarned, def.Name)
		}
	}

	if len(newlyEarned) > 0 {
		s.logger.Info("Badges earned", zap.Int64("user_id", userID), zap.Strings("badges", newlyEarned))
		publishEvent(ctx, s.eventBus, s.logger, events.NewBadgesEarnedEvent(userID, newlyEarned))
	}
	return newlyEarned, nil
}

func (s *gamificationService) facts(ctx context.Context, userID int64) (*gamification.Facts, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d not found", userID)
	}
	counts, err := s.tasks.CountByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.sessions.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &gamification.Facts{
		CompletedTasks:    counts[models.TaskCompleted],
		CompletedSessions: stats.Completed,
		TotalFocusSeconds: stats.TotalSeconds,
		Streak:            user.Streak,
		LastSessionEnd:    stats.LastSessionEnd,
	}, nil
}

// AwardXP adds XP through the leveling curve and pays any level-up bonus
func (s *gamificationService) AwardXP(ctx context.Context, userID int64, source string, earned int) (*gamification.XPAward, error) {
	if earned < 0 {
		return nil, InvalidInputError("xp", "must not be negative")
	}

	var award gamification.XPAward
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return EntityNotFoundError("user", userID)
		}

		award = gamification.ApplyXP(user.XP, earned)
		if earned == 0 {
			return nil
		}
		user.XP = award.NewXP
		user.Level = award.NewLevel
		user.Coins += award.BonusCoins
		return s.users.UpdateProgress(ctx, user)
	})
	if err != nil {
		return nil, passThrough(ctx, s.logger, "failed to award xp", err)
	}

	if earned > 0 {
		s.afterXP(ctx, userID, source, award)
	}
	return &award, nil
}

// afterXP runs the side effects shared by every XP source
func (s *gamificationService) afterXP(ctx context.Context, userID int64, source string, award gamification.XPAward) {
	s.InvalidateLeaderboard(ctx)
	publishEvent(ctx, s.eventBus, s.logger,
		events.NewXPAwardedEvent(userID, source, award.Earned, award.NewXP, award.OldLevel, award.NewLevel))
	if award.LeveledUp {
		publishEvent(ctx, s.eventBus, s.logger,
			events.NewLevelUpEvent(userID, award.OldLevel, award.NewLevel, award.BonusCoins))
	}
}
