package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"studyos/internal/database"
	"studyos/internal/models"

	"go.uber.org/zap"
)

// activeSessionConstraint is the partial unique index allowing one open session per user
const activeSessionConstraint = "uq_study_sessions_active"

// ErrActiveSessionExists is returned by Create when the user already has an open session
var ErrActiveSessionExists = errors.New("an active session already exists")

type studySessionRepository struct {
	*BaseRepository
}

// NewStudySessionRepository creates a study session repository
func NewStudySessionRepository(db *database.Manager, logger *zap.Logger) StudySessionRepository {
	return &studySessionRepository{BaseRepository: NewBaseRepository(db, logger)}
}

const sessionColumns = `id, user_id, task_id, subject, start_time, end_time, duration, focus_score, status, notes, created_at`

func scanSession(row rowScanner) (*models.StudySession, error) {
	var s models.StudySession
	var focus sql.NullInt64
	err := row.Scan(&s.ID, &s.UserID, &s.TaskID, &s.Subject, &s.StartTime, &s.EndTime,
		&s.Duration, &focus, &s.Status, &s.Notes, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if focus.Valid {
		v := int(focus.Int64)
		s.FocusScore = &v
	}
	return &s, nil
}

// Create opens a new session
func (r *studySessionRepository) Create(ctx context.Context, session *models.StudySession) error {
	if session.Status == "" {
		session.Status = models.SessionActive
	}
	if session.StartTime.IsZero() {
		session.StartTime = time.Now()
	}

	err := r.QueryRowContext(ctx, `
		INSERT INTO study_sessions (user_id, task_id, subject, start_time, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, duration, created_at`,
		session.UserID, session.TaskID, session.Subject, session.StartTime, session.Status,
	).Scan(&session.ID, &session.Duration, &session.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err, activeSessionConstraint) {
			return ErrActiveSessionExists
		}
		return fmt.Errorf("failed to create study session: %w", err)
	}
	return nil
}

func (r *studySessionRepository) getOne(ctx context.Context, id int64, forUpdate bool) (*models.StudySession, error) {
	query := `SELECT ` + sessionColumns + ` FROM study_sessions WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	session, err := scanSession(r.QueryRowContext(ctx, query, id))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get study session: %w", err)
	}
	return session, nil
}

func (r *studySessionRepository) GetByID(ctx context.Context, id int64) (*models.StudySession, error) {
	return r.getOne(ctx, id, false)
}

// GetByIDForUpdate locks the session row for the surrounding transaction
func (r *studySessionRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.StudySession, error) {
	return r.getOne(ctx, id, true)
}

// GetActive returns the user's open session, if any
func (r *studySessionRepository) GetActive(ctx context.Context, userID int64) (*models.StudySession, error) {
	session, err := scanSession(r.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM study_sessions WHERE user_id = $1 AND end_time IS NULL LIMIT 1`, userID))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}
	return session, nil
}

// List returns sessions newest first
func (r *studySessionRepository) List(ctx context.Context, userID int64, limit int) ([]*models.StudySession, error) {
	return r.querySessions(ctx,
		`SELECT `+sessionColumns+` FROM study_sessions WHERE user_id = $1 ORDER BY start_time DESC LIMIT $2`,
		userID, clampLimit(limit, 50, 200))
}

// Recent returns the latest completed sessions
func (r *studySessionRepository) Recent(ctx context.Context, userID int64, limit int) ([]*models.StudySession, error) {
	return r.querySessions(ctx,
		`SELECT `+sessionColumns+` FROM study_sessions
		 WHERE user_id = $1 AND status = 'COMPLETED'
		 ORDER BY end_time DESC LIMIT $2`,
		userID, clampLimit(limit, 7, 50))
}

func (r *studySessionRepository) querySessions(ctx context.Context, query string, args ...interface{}) ([]*models.StudySession, error) {
	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list study sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*models.StudySession{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan study session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Complete persists the end of a session
func (r *studySessionRepository) Complete(ctx context.Context, session *models.StudySession) error {
	_, err := r.ExecContext(ctx, `
		UPDATE study_sessions
		SET end_time = $2, duration = $3, focus_score = $4, status = $5, notes = COALESCE($6, notes)
		WHERE id = $1`,
		session.ID, session.EndTime, session.Duration, session.FocusScore, session.Status, session.Notes)
	if err != nil {
		return fmt.Errorf("failed to complete study session: %w", err)
	}
	return nil
}

// Stats aggregates completed sessions for badge evaluation
func (r *studySessionRepository) Stats(ctx context.Context, userID int64) (*SessionStats, error) {
	var stats SessionStats
	err := r.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(duration), 0), MAX(end_time)
		FROM study_sessions
		WHERE user_id = $1 AND status = 'COMPLETED'`, userID,
	).Scan(&stats.Completed, &stats.TotalSeconds, &stats.LastSessionEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate study sessions: %w", err)
	}
	return &stats, nil
}

// CompletedSince returns completed sessions started at or after since
func (r *studySessionRepository) CompletedSince(ctx context.Context, userID int64, since time.Time) ([]SessionSpan, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT start_time, duration, subject, focus_score
		FROM study_sessions
		WHERE user_id = $1 AND status = 'COMPLETED' AND start_time >= $2
		ORDER BY start_time ASC`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load session history: %w", err)
	}
	defer rows.Close()

	var spans []SessionSpan
	for rows.Next() {
		var span SessionSpan
		var focus sql.NullInt64
		if err := rows.Scan(&span.StartTime, &span.Duration, &span.Subject, &focus); err != nil {
			return nil, fmt.Errorf("failed to scan session history: %w", err)
		}
		if focus.Valid {
			v := int(focus.Int64)
			span.FocusScore = &v
		}
		spans = append(spans, span)
	}
	return spans, rows.Err()
}
