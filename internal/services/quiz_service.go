package services

import (
	"context"
	"fmt"

	"studyos/internal/catalog"
	"studyos/internal/gamification"
	"studyos/internal/models"
	"studyos/internal/repositories"

	"go.uber.org/zap"
)

const xpSourceQuiz = "QUIZ"

// quizService implements QuizService
type quizService struct {
	catalog      *catalog.Catalog
	attempts     repositories.QuizAttemptRepository
	gamification GamificationService
	logger       *zap.Logger
}

// NewQuizService creates the quiz service
func NewQuizService(
	cat *catalog.Catalog,
	attempts repositories.QuizAttemptRepository,
	gamificationService GamificationService,
	logger *zap.Logger,
) QuizService {
	return &quizService{
		catalog:      cat,
		attempts:     attempts,
		gamification: gamificationService,
		logger:       logger,
	}
}

// List returns every quiz without questions
func (s *quizService) List(ctx context.Context) []catalog.QuizSummary {
	return s.catalog.Quizzes()
}

// Get returns a quiz; answers are never serialised
func (s *quizService) Get(ctx context.Context, quizID string) (*catalog.Quiz, error) {
	quiz, ok := s.catalog.Quiz(quizID)
	if !ok {
		return nil, EntityNotFoundError("quiz", quizID)
	}
	return quiz, nil
}

// Submit grades answers, awards score x 50 XP and records the attempt
func (s *quizService) Submit(ctx context.Context, userID int64, quizID string, req *SubmitQuizRequest) (*QuizResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	quiz, err := s.Get(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(req.Answers) > len(quiz.Questions) {
		return nil, InvalidInputError("answers",
			fmt.Sprintf("quiz has %d questions, got %d answers", len(quiz.Questions), len(req.Answers)))
	}

	grade := quiz.Grade(req.Answers)
	earned := grade.Score * gamification.QuizXPPerCorrect

	award, err := s.gamification.AwardXP(ctx, userID, xpSourceQuiz, earned)
	if err != nil {
		return nil, err
	}

	attempt := &models.QuizAttempt{
		UserID:   userID,
		QuizID:   quiz.ID,
		Score:    grade.Score,
		Total:    grade.Total,
		XPEarned: earned,
	}
	if err := s.attempts.Create(ctx, attempt); err != nil {
		// the XP is already committed; losing the history row is not fatal
		s.logger.Error("Failed to record quiz attempt",
			zap.Int64("user_id", userID),
			zap.String("quiz_id", quiz.ID),
			zap.Error(err))
	}

	return &QuizResult{
		QuizID:       quiz.ID,
		Score:        grade.Score,
		Total:        grade.Total,
		Correct:      grade.Correct,
		Explanations: grade.Explanations,
		XPEarned:     earned,
		Award:        *award,
	}, nil
}
