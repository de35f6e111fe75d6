package repositories

import (
	"context"
	"fmt"

	"studyos/internal/database"
	"studyos/internal/models"

	"go.uber.org/zap"
)

type goalRepository struct {
	*BaseRepository
}

// NewGoalRepository creates a goal repository
func NewGoalRepository(db *database.Manager, logger *zap.Logger) GoalRepository {
	return &goalRepository{BaseRepository: NewBaseRepository(db, logger)}
}

const goalColumns = `id, user_id, title, target_value, current_value, unit, period, deadline, created_at, updated_at`

func scanGoal(row rowScanner) (*models.Goal, error) {
	var g models.Goal
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.TargetValue, &g.CurrentValue,
		&g.Unit, &g.Period, &g.Deadline, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *goalRepository) Create(ctx context.Context, goal *models.Goal) error {
	err := r.QueryRowContext(ctx, `
		INSERT INTO goals (user_id, title, target_value, current_value, unit, period, deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		goal.UserID, goal.Title, goal.TargetValue, goal.CurrentValue, goal.Unit, goal.Period, goal.Deadline,
	).Scan(&goal.ID, &goal.CreatedAt, &goal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	return nil
}

func (r *goalRepository) GetByID(ctx context.Context, id int64) (*models.Goal, error) {
	goal, err := scanGoal(r.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1`, id))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return goal, nil
}

func (r *goalRepository) List(ctx context.Context, userID int64) ([]*models.Goal, error) {
	rows, err := r.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	goals := []*models.Goal{}
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

func (r *goalRepository) Update(ctx context.Context, goal *models.Goal) error {
	err := r.QueryRowContext(ctx, `
		UPDATE goals
		SET title = $2, target_value = $3, current_value = $4, unit = $5, period = $6, deadline = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		goal.ID, goal.Title, goal.TargetValue, goal.CurrentValue, goal.Unit, goal.Period, goal.Deadline,
	).Scan(&goal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	return nil
}

// AddProgress increments current_value in one statement so concurrent updates do not lose writes
func (r *goalRepository) AddProgress(ctx context.Context, id, userID int64, amount float64) (*models.Goal, error) {
	goal, err := scanGoal(r.QueryRowContext(ctx, `
		UPDATE goals
		SET current_value = GREATEST(current_value + $3, 0), updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+goalColumns, id, userID, amount))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to add goal progress: %w", err)
	}
	return goal, nil
}

func (r *goalRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	result, err := r.ExecContext(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete goal: %w", err)
	}
	n, err := result.RowsAffected()
	return n > 0, err
}
