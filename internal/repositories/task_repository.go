package repositories

import (
	"context"
	"fmt"

	"studyos/internal/database"
	"studyos/internal/models"

	"go.uber.org/zap"
)

type taskRepository struct {
	*BaseRepository
}

// NewTaskRepository creates a task repository
func NewTaskRepository(db *database.Manager, logger *zap.Logger) TaskRepository {
	return &taskRepository{BaseRepository: NewBaseRepository(db, logger)}
}

const taskColumns = `
	id, user_id, title, description, priority, status, due_date,
	recurrence, parent_task_id, rewarded, completed_at, created_at, updated_at`

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Priority, &t.Status, &t.DueDate,
		&t.Recurrence, &t.ParentTaskID, &t.Rewarded, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a task and fills generated fields
func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Status == "" {
		task.Status = models.TaskPending
	}
	if task.Recurrence == "" {
		task.Recurrence = models.RecurrenceNone
	}

	err := r.QueryRowContext(ctx, `
		INSERT INTO tasks (user_id, title, description, priority, status, due_date, recurrence, parent_task_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, rewarded, created_at, updated_at`,
		task.UserID, task.Title, task.Description, task.Priority, task.Status,
		task.DueDate, task.Recurrence, task.ParentTaskID,
	).Scan(&task.ID, &task.Rewarded, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (r *taskRepository) getOne(ctx context.Context, id int64, forUpdate bool) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	task, err := scanTask(r.QueryRowContext(ctx, query, id))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	return r.getOne(ctx, id, false)
}

func (r *taskRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Task, error) {
	return r.getOne(ctx, id, true)
}

// List returns a user's tasks, newest first
func (r *taskRepository) List(ctx context.Context, userID int64, filter TaskFilter) ([]*models.Task, error) {
	columns := []string{"user_id"}
	args := []interface{}{userID}
	if filter.Status != "" {
		columns = append(columns, "status")
		args = append(args, filter.Status)
	}
	if filter.Priority != "" {
		columns = append(columns, "priority")
		args = append(args, filter.Priority)
	}
	args = append(args, clampLimit(filter.Limit, 200, 500))

	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE %s ORDER BY created_at DESC LIMIT $%d`,
		taskColumns, r.BuildWhereClause(columns, 1), len(args))

	return r.queryTasks(ctx, query, args...)
}

// ListPending returns open (pending or in progress) tasks, most urgent due date first
func (r *taskRepository) ListPending(ctx context.Context, userID int64, limit int) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE user_id = $1 AND status IN ('PENDING', 'IN_PROGRESS')
		ORDER BY due_date ASC NULLS LAST, created_at DESC
		LIMIT $2`
	return r.queryTasks(ctx, query, userID, clampLimit(limit, 10, 50))
}

func (r *taskRepository) queryTasks(ctx context.Context, query string, args ...interface{}) ([]*models.Task, error) {
	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// Update writes every mutable column
func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	err := r.QueryRowContext(ctx, `
		UPDATE tasks
		SET title = $2, description = $3, priority = $4, status = $5, due_date = $6,
		    recurrence = $7, rewarded = $8, completed_at = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		task.ID, task.Title, task.Description, task.Priority, task.Status, task.DueDate,
		task.Recurrence, task.Rewarded, task.CompletedAt,
	).Scan(&task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

// Delete removes a task owned by userID
func (r *taskRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	result, err := r.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

// CountByStatus counts a user's tasks per status
func (r *taskRepository) CountByStatus(ctx context.Context, userID int64) (map[models.TaskStatus]int, error) {
	rows, err := r.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM tasks WHERE user_id = $1 GROUP BY status`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	defer rows.Close()

	counts := map[models.TaskStatus]int{}
	for rows.Next() {
		var status models.TaskStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan task count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
