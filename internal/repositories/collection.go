// file: internal/repositories/collection.go
package repositories

import (
	"fmt"

	"studyos/internal/database"

	"go.uber.org/zap"
)

// Collection holds all repository instances for dependency injection
type Collection struct {
	User         UserRepository
	RefreshToken RefreshTokenRepository
	Task         TaskRepository
	Habit        HabitRepository
	Goal         GoalRepository
	Session      StudySessionRepository
	Badge        BadgeRepository
	Community    CommunityRepository
	Insight      InsightRepository
	QuizAttempt  QuizAttemptRepository
	Note         NoteRepository
	Analytics    AnalyticsRepository

	// Tx runs multi-repository work atomically
	Tx Transactor

	db     *database.Manager
	logger *zap.Logger
}

// NewCollection creates a new repository collection with all dependencies
func NewCollection(db *database.Manager, logger *zap.Logger) (*Collection, error) {
	if db == nil {
		return nil, fmt.Errorf("database manager is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	collection := &Collection{
		User:         NewUserRepository(db, logger),
		RefreshToken: NewRefreshTokenRepository(db, logger),
		Task:         NewTaskRepository(db, logger),
		Habit:        NewHabitRepository(db, logger),
		Goal:         NewGoalRepository(db, logger),
		Session:      NewStudySessionRepository(db, logger),
		Badge:        NewBadgeRepository(db, logger),
		Community:    NewCommunityRepository(db, logger),
		Insight:      NewInsightRepository(db, logger),
		QuizAttempt:  NewQuizAttemptRepository(db, logger),
		Note:         NewNoteRepository(db, logger),
		Analytics:    NewAnalyticsRepository(db, logger),
		Tx:           NewBaseRepository(db, logger),
		db:           db,
		logger:       logger,
	}

	logger.Info("Repository collection initialized")
	return collection, nil
}
