package services

import (
	"context"
	"strings"

	"studyos/internal/models"
	"studyos/internal/repositories"

	"go.uber.org/zap"
)

const defaultGoalUnit = "hours"

// goalService implements GoalService
type goalService struct {
	goals  repositories.GoalRepository
	logger *zap.Logger
}

// NewGoalService creates the goal service
func NewGoalService(goals repositories.GoalRepository, logger *zap.Logger) GoalService {
	return &goalService{goals: goals, logger: logger}
}

// Create adds a goal with unit and period defaults
func (s *goalService) Create(ctx context.Context, userID int64, req *CreateGoalRequest) (*models.Goal, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	goal := &models.Goal{
		UserID:       userID,
		Title:        strings.TrimSpace(req.Title),
		TargetValue:  req.TargetValue,
		CurrentValue: req.CurrentValue,
		Unit:         req.Unit,
		Period:       req.Period,
		Deadline:     req.Deadline,
	}
	if goal.Unit == "" {
		goal.Unit = defaultGoalUnit
	}
	if goal.Period == "" {
		goal.Period = models.PeriodWeekly
	}

	if err := s.goals.Create(ctx, goal); err != nil {
		return nil, internalError(ctx, s.logger, "failed to create goal", err)
	}
	return goal, nil
}

// List returns the user's goals
func (s *goalService) List(ctx context.Context, userID int64) ([]*models.Goal, error) {
	goals, err := s.goals.List(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to list goals", err)
	}
	return goals, nil
}

// Update applies a partial update
func (s *goalService) Update(ctx context.Context, userID, goalID int64, req *UpdateGoalRequest) (*models.Goal, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := checkTitleUpdate(req.Title); err != nil {
		return nil, err
	}

	goal, err := s.goals.GetByID(ctx, goalID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to get goal", err)
	}
	if goal == nil || goal.UserID != userID {
		return nil, EntityNotFoundError("goal", goalID)
	}

	if req.Title != nil {
		goal.Title = strings.TrimSpace(*req.Title)
	}
	if req.TargetValue != nil {
		goal.TargetValue = *req.TargetValue
	}
	if req.CurrentValue != nil {
		goal.CurrentValue = *req.CurrentValue
	}
	if req.Unit != nil {
		goal.Unit = *req.Unit
	}
	if req.Period != nil {
		goal.Period = *req.Period
	}
	if req.Deadline != nil {
		goal.Deadline = req.Deadline
	}

	if err := s.goals.Update(ctx, goal); err != nil {
		return nil, internalError(ctx, s.logger, "failed to update goal", err)
	}
	return goal, nil
}

// Delete removes a goal
func (s *goalService) Delete(ctx context.Context, userID, goalID int64) error {
	deleted, err := s.goals.Delete(ctx, goalID, userID)
	if err != nil {
		return internalError(ctx, s.logger, "failed to delete goal", err)
	}
	if !deleted {
		return EntityNotFoundError("goal", goalID)
	}
	return nil
}

// AddProgress increments current progress atomically
func (s *goalService) AddProgress(ctx context.Context, userID, goalID int64, req *GoalProgressRequest) (*GoalProgressResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	goal, err := s.goals.AddProgress(ctx, goalID, userID, req.Amount)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to update goal progress", err)
	}
	if goal == nil {
		return nil, EntityNotFoundError("goal", goalID)
	}
	return &GoalProgressResult{Goal: goal, Completed: goal.Completed()}, nil
}
