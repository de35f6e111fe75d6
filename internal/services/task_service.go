package services

import (
	"context"
	"strings"
	"time"

	"studyos/internal/events"
	"studyos/internal/gamification"
	"studyos/internal/models"
	"studyos/internal/repositories"

	"go.uber.org/zap"
)

// taskService implements TaskService
type taskService struct {
	tasks        repositories.TaskRepository
	users        repositories.UserRepository
	tx           repositories.Transactor
	gamification GamificationService
	eventBus     events.EventBus
	logger       *zap.Logger
	now          func() time.Time
}

// NewTaskService creates the task service
func NewTaskService(
	tasks repositories.TaskRepository,
	users repositories.UserRepository,
	tx repositories.Transactor,
	gamificationService GamificationService,
	eventBus events.EventBus,
	logger *zap.Logger,
) TaskService {
	return &taskService{
		tasks:        tasks,
		users:        users,
		tx:           tx,
		gamification: gamificationService,
		eventBus:     eventBus,
		logger:       logger,
		now:          time.Now,
	}
}

// Create adds a task
func (s *taskService) Create(ctx context.Context, userID int64, req *CreateTaskRequest) (*models.Task, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	task := &models.Task{
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Recurrence:  req.Recurrence,
	}
	if task.Title == "" {
		return nil, InvalidInputError("title", "must not be blank")
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, internalError(ctx, s.logger, "failed to create task", err)
	}
	return task, nil
}

// Get returns one of the user's tasks
func (s *taskService) Get(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to get task", err)
	}
	if task == nil || task.UserID != userID {
		return nil, EntityNotFoundError("task", taskID)
	}
	return task, nil
}

// List returns the user's tasks, optionally filtered
func (s *taskService) List(ctx context.Context, userID int64, req *ListTasksRequest) ([]*models.Task, error) {
	if req == nil {
		req = &ListTasksRequest{}
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.List(ctx, userID, repositories.TaskFilter{Status: req.Status, Priority: req.Priority})
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to list tasks", err)
	}
	return tasks, nil
}

// Update applies a partial update. The first transition to COMPLETED pays coins,
// spawns the next occurrence of a recurring task and re-evaluates badges.
func (s *taskService) Update(ctx context.Context, userID, taskID int64, req *UpdateTaskRequest) (*TaskUpdateResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := checkTitleUpdate(req.Title); err != nil {
		return nil, err
	}

	result := &TaskUpdateResult{NewBadges: []string{}}
	rewarded := false

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		task, err := s.tasks.GetByIDForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if task == nil || task.UserID != userID {
			return EntityNotFoundError("task", taskID)
		}

		applyTaskUpdate(task, req)

		if task.Status == models.TaskCompleted && !task.Rewarded {
			now := s.now()
			task.Rewarded = true
			task.CompletedAt = &now
			if _, err := s.users.AddCoins(ctx, userID, gamification.TaskCompletionCoins); err != nil {
				return err
			}
			result.CoinsAwarded = gamification.TaskCompletionCoins
			rewarded = true

			if next := nextOccurrence(task, now); next != nil {
				if err := s.tasks.Create(ctx, next); err != nil {
					return err
				}
				result.NextTask = next
			}
		} else if task.Status == models.TaskCompleted && task.CompletedAt == nil {
			now := s.now()
			task.CompletedAt = &now
		}

		if err := s.tasks.Update(ctx, task); err != nil {
			return err
		}
		result.Task = task
		return nil
	})
	if err != nil {
		return nil, passThrough(ctx, s.logger, "failed to update task", err)
	}

	if rewarded {
		badges, err := s.gamification.EvaluateBadges(ctx, userID)
		if err != nil {
			s.logger.Warn("Badge evaluation failed", zap.Int64("user_id", userID), zap.Error(err))
		} else {
			result.NewBadges = badges
		}

		var nextID int64
		if result.NextTask != nil {
			nextID = result.NextTask.ID
		}
		publishEvent(ctx, s.eventBus, s.logger,
			events.NewTaskCompletedEvent(userID, taskID, result.CoinsAwarded, nextID))
	}
	return result, nil
}

// Delete removes a task
func (s *taskService) Delete(ctx context.Context, userID, taskID int64) error {
	deleted, err := s.tasks.Delete(ctx, taskID, userID)
	if err != nil {
		return internalError(ctx, s.logger, "failed to delete task", err)
	}
	if !deleted {
		return EntityNotFoundError("task", taskID)
	}
	return nil
}

func applyTaskUpdate(task *models.Task, req *UpdateTaskRequest) {
	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Recurrence != nil {
		task.Recurrence = *req.Recurrence
	}
	if req.Status != nil {
		if *req.Status != models.TaskCompleted {
			task.CompletedAt = nil
		}
		task.Status = *req.Status
	}
}

// nextOccurrence builds the follow-up of a recurring task, due one period after
// the current due date or after now when there is none
func nextOccurrence(task *models.Task, now time.Time) *models.Task {
	var days int
	switch task.Recurrence {
	case models.RecurrenceDaily:
		days = 1
	case models.RecurrenceWeekly:
		days = 7
	default:
		return nil
	}

	base := now
	if task.DueDate != nil {
		base = *task.DueDate
	}
	due := base.AddDate(0, 0, days)

	parentID := task.ID
	if task.ParentTaskID != nil {
		parentID = *task.ParentTaskID
	}

	return &models.Task{
		UserID:       task.UserID,
		Title:        task.Title,
		Description:  task.Description,
		Priority:     task.Priority,
		Status:       models.TaskPending,
		DueDate:      &due,
		Recurrence:   task.Recurrence,
		ParentTaskID: &parentID,
	}
}
