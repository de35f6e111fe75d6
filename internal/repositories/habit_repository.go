package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"studyos/internal/database"
	"studyos/internal/models"

	"go.uber.org/zap"
)

type habitRepository struct {
	*BaseRepository
}

// NewHabitRepository creates a habit repository
func NewHabitRepository(db *database.Manager, logger *zap.Logger) HabitRepository {
	return &habitRepository{BaseRepository: NewBaseRepository(db, logger)}
}

const habitColumns = `id, user_id, title, description, frequency, streak, completions, created_at, updated_at`

func scanHabit(row rowScanner) (*models.Habit, error) {
	var h models.Habit
	var raw []byte
	if err := row.Scan(&h.ID, &h.UserID, &h.Title, &h.Description, &h.Frequency, &h.Streak, &raw, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return nil, err
	}
	h.Completions = []time.Time{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &h.Completions); err != nil {
			return nil, fmt.Errorf("failed to decode habit completions: %w", err)
		}
	}
	return &h, nil
}

func encodeCompletions(completions []time.Time) ([]byte, error) {
	if completions == nil {
		completions = []time.Time{}
	}
	return json.Marshal(completions)
}

func (r *habitRepository) Create(ctx context.Context, habit *models.Habit) error {
	if habit.Frequency == "" {
		habit.Frequency = models.FrequencyDaily
	}
	raw, err := encodeCompletions(habit.Completions)
	if err != nil {
		return err
	}

	err = r.QueryRowContext(ctx, `
		INSERT INTO habits (user_id, title, description, frequency, completions)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, streak, created_at, updated_at`,
		habit.UserID, habit.Title, habit.Description, habit.Frequency, raw,
	).Scan(&habit.ID, &habit.Streak, &habit.CreatedAt, &habit.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create habit: %w", err)
	}
	if habit.Completions == nil {
		habit.Completions = []time.Time{}
	}
	return nil
}

func (r *habitRepository) getOne(ctx context.Context, id int64, forUpdate bool) (*models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	habit, err := scanHabit(r.QueryRowContext(ctx, query, id))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}
	return habit, nil
}

func (r *habitRepository) GetByID(ctx context.Context, id int64) (*models.Habit, error) {
	return r.getOne(ctx, id, false)
}

func (r *habitRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Habit, error) {
	return r.getOne(ctx, id, true)
}

func (r *habitRepository) List(ctx context.Context, userID int64) ([]*models.Habit, error) {
	rows, err := r.QueryContext(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	defer rows.Close()

	habits := []*models.Habit{}
	for rows.Next() {
		habit, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, habit)
	}
	return habits, rows.Err()
}

func (r *habitRepository) Update(ctx context.Context, habit *models.Habit) error {
	raw, err := encodeCompletions(habit.Completions)
	if err != nil {
		return err
	}
	err = r.QueryRowContext(ctx, `
		UPDATE habits
		SET title = $2, description = $3, frequency = $4, streak = $5, completions = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		habit.ID, habit.Title, habit.Description, habit.Frequency, habit.Streak, raw,
	).Scan(&habit.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return nil
}

func (r *habitRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	result, err := r.ExecContext(ctx, `DELETE FROM habits WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete habit: %w", err)
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

func (r *habitRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := r.QueryRowContext(ctx, `SELECT COUNT(*) FROM habits WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count habits: %w", err)
	}
	return n, nil
}
