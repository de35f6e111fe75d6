package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"studyos/internal/database"
	"studyos/internal/models"

	"go.uber.org/zap"
)

// ===============================
// AI INSIGHTS
// ===============================

type insightRepository struct {
	*BaseRepository
}

// NewInsightRepository creates an AI insight repository
func NewInsightRepository(db *database.Manager, logger *zap.Logger) InsightRepository {
	return &insightRepository{BaseRepository: NewBaseRepository(db, logger)}
}

func (r *insightRepository) Create(ctx context.Context, insight *models.AIInsight) error {
	err := r.QueryRowContext(ctx, `
		INSERT INTO ai_insights (user_id, type, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		insight.UserID, insight.Type, insight.Content,
	).Scan(&insight.ID, &insight.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to store insight: %w", err)
	}
	return nil
}

func (r *insightRepository) Latest(ctx context.Context, userID int64, insightType string) (*models.AIInsight, error) {
	var in models.AIInsight
	err := r.QueryRowContext(ctx, `
		SELECT id, user_id, type, content, created_at
		FROM ai_insights
		WHERE user_id = $1 AND type = $2
		ORDER BY created_at DESC
		LIMIT 1`, userID, insightType,
	).Scan(&in.ID, &in.UserID, &in.Type, &in.Content, &in.CreatedAt)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest insight: %w", err)
	}
	return &in, nil
}

// ===============================
// QUIZ ATTEMPTS
// ===============================

type quizAttemptRepository struct {
	*BaseRepository
}

// NewQuizAttemptRepository creates a quiz attempt repository
func NewQuizAttemptRepository(db *database.Manager, logger *zap.Logger) QuizAttemptRepository {
	return &quizAttemptRepository{BaseRepository: NewBaseRepository(db, logger)}
}

func (r *quizAttemptRepository) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	err := r.QueryRowContext(ctx, `
		INSERT INTO quiz_attempts (user_id, quiz_id, score, total, xp_earned)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		attempt.UserID, attempt.QuizID, attempt.Score, attempt.Total, attempt.XPEarned,
	).Scan(&attempt.ID, &attempt.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record quiz attempt: %w", err)
	}
	return nil
}

func (r *quizAttemptRepository) ListForUser(ctx context.Context, userID int64, limit int) ([]*models.QuizAttempt, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT id, user_id, quiz_id, score, total, xp_earned, created_at
		FROM quiz_attempts WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2`, userID, clampLimit(limit, 20, 100))
	if err != nil {
		return nil, fmt.Errorf("failed to list quiz attempts: %w", err)
	}
	defer rows.Close()

	attempts := []*models.QuizAttempt{}
	for rows.Next() {
		var a models.QuizAttempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuizID, &a.Score, &a.Total, &a.XPEarned, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quiz attempt: %w", err)
		}
		attempts = append(attempts, &a)
	}
	return attempts, rows.Err()
}

// ===============================
// NOTES
// ===============================

type noteRepository struct {
	*BaseRepository
}

// NewNoteRepository creates a note repository
func NewNoteRepository(db *database.Manager, logger *zap.Logger) NoteRepository {
	return &noteRepository{BaseRepository: NewBaseRepository(db, logger)}
}

func (r *noteRepository) Create(ctx context.Context, note *models.Note) error {
	keyPoints, err := json.Marshal(note.KeyPoints)
	if err != nil {
		return fmt.Errorf("failed to encode key points: %w", err)
	}
	questions, err := json.Marshal(note.Questions)
	if err != nil {
		return fmt.Errorf("failed to encode questions: %w", err)
	}

	err = r.QueryRowContext(ctx, `
		INSERT INTO notes (user_id, source, summary, key_points, questions)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		note.UserID, note.Source, note.Summary, keyPoints, questions,
	).Scan(&note.ID, &note.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to store note: %w", err)
	}
	return nil
}

func (r *noteRepository) List(ctx context.Context, userID int64, limit int) ([]*models.Note, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT id, user_id, source, summary, key_points, questions, created_at
		FROM notes WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2`, userID, clampLimit(limit, 20, 100))
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := []*models.Note{}
	for rows.Next() {
		var n models.Note
		var keyPoints, questions []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Source, &n.Summary, &keyPoints, &questions, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		if err := json.Unmarshal(keyPoints, &n.KeyPoints); err != nil {
			return nil, fmt.Errorf("failed to decode key points: %w", err)
		}
		if err := json.Unmarshal(questions, &n.Questions); err != nil {
			return nil, fmt.Errorf("failed to decode questions: %w", err)
		}
		notes = append(notes, &n)
	}
	return notes, rows.Err()
}
