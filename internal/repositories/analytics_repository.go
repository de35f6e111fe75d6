package repositories

import (
	"context"
	"fmt"
	"time"

	"studyos/internal/database"
	"studyos/internal/models"

	"go.uber.org/zap"
)

type analyticsRepository struct {
	*BaseRepository
}

// NewAnalyticsRepository creates an analytics repository
func NewAnalyticsRepository(db *database.Manager, logger *zap.Logger) AnalyticsRepository {
	return &analyticsRepository{BaseRepository: NewBaseRepository(db, logger)}
}

// Dashboard sums completed session seconds overall and since weekStart
func (r *analyticsRepository) Dashboard(ctx context.Context, userID int64, weekStart time.Time) (*DashboardTotals, error) {
	var totals DashboardTotals
	err := r.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(duration), 0),
			COALESCE(SUM(duration) FILTER (WHERE start_time >= $2), 0),
			COALESCE(AVG(focus_score), 0)
		FROM study_sessions
		WHERE user_id = $1 AND status = 'COMPLETED'`, userID, weekStart,
	).Scan(&totals.TotalSeconds, &totals.WeeklySeconds, &totals.AvgFocus)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard totals: %w", err)
	}
	return &totals, nil
}

// Subjects returns rounded minutes per subject, largest first
func (r *analyticsRepository) Subjects(ctx context.Context, userID int64) ([]models.SubjectMinutes, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT subject, ROUND(COALESCE(SUM(duration), 0) / 60.0)::int
		FROM study_sessions
		WHERE user_id = $1 AND status = 'COMPLETED'
		GROUP BY subject
		ORDER BY 2 DESC, subject ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subject breakdown: %w", err)
	}
	defer rows.Close()

	subjects := []models.SubjectMinutes{}
	for rows.Next() {
		var s models.SubjectMinutes
		if err := rows.Scan(&s.Name, &s.Value); err != nil {
			return nil, fmt.Errorf("failed to scan subject row: %w", err)
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}
