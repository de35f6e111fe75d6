package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"studyos/internal/gamification"
	"studyos/internal/models"
	"studyos/internal/repositories"

	"go.uber.org/zap"
)

// habitService implements HabitService
type habitService struct {
	habits    repositories.HabitRepository
	users     repositories.UserRepository
	tx        repositories.Transactor
	freeLimit int
	loc       *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewHabitService creates the habit service. FREE users may own at most freeLimit habits.
func NewHabitService(
	habits repositories.HabitRepository,
	users repositories.UserRepository,
	tx repositories.Transactor,
	freeLimit int,
	loc *time.Location,
	logger *zap.Logger,
) HabitService {
	if loc == nil {
		loc = time.Local
	}
	return &habitService{
		habits:    habits,
		users:     users,
		tx:        tx,
		freeLimit: freeLimit,
		loc:       loc,
		logger:    logger,
		now:       time.Now,
	}
}

// Create adds a habit, enforcing the FREE tier limit
func (s *habitService) Create(ctx context.Context, userID int64, req *CreateHabitRequest) (*models.Habit, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	habit := &models.Habit{
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Frequency:   req.Frequency,
		Completions: []time.Time{},
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// the user row lock serialises concurrent creates against the limit
		user, err := s.users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return EntityNotFoundError("user", userID)
		}

		if !user.IsPro() {
			count, err := s.habits.CountByUser(ctx, userID)
			if err != nil {
				return err
			}
			if count >= s.freeLimit {
				return NewLimitReachedError(
					fmt.Sprintf("Free plan is limited to %d habits. Please upgrade to Pro.", s.freeLimit)).
					WithDetail("limit", s.freeLimit)
			}
		}
		return s.habits.Create(ctx, habit)
	})
	if err != nil {
		return nil, passThrough(ctx, s.logger, "failed to create habit", err)
	}
	return habit, nil
}

// List returns the user's habits
func (s *habitService) List(ctx context.Context, userID int64) ([]*models.Habit, error) {
	habits, err := s.habits.List(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to list habits", err)
	}
	return habits, nil
}

// Update changes a habit's title, description or frequency
func (s *habitService) Update(ctx context.Context, userID, habitID int64, req *UpdateHabitRequest) (*models.Habit, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := checkTitleUpdate(req.Title); err != nil {
		return nil, err
	}

	var habit *models.Habit
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		habit, err = s.ownedForUpdate(ctx, userID, habitID)
		if err != nil {
			return err
		}
		if req.Title != nil {
			habit.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			habit.Description = req.Description
		}
		if req.Frequency != nil {
			habit.Frequency = *req.Frequency
		}
		return s.habits.Update(ctx, habit)
	})
	if err != nil {
		return nil, passThrough(ctx, s.logger, "failed to update habit", err)
	}
	return habit, nil
}

// Delete removes a habit
func (s *habitService) Delete(ctx context.Context, userID, habitID int64) error {
	deleted, err := s.habits.Delete(ctx, habitID, userID)
	if err != nil {
		return internalError(ctx, s.logger, "failed to delete habit", err)
	}
	if !deleted {
		return EntityNotFoundError("habit", habitID)
	}
	return nil
}

// Complete records a check-in. A second check-in on the same day returns the habit unchanged.
func (s *habitService) Complete(ctx context.Context, userID, habitID int64) (*models.Habit, error) {
	var habit *models.Habit
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		habit, err = s.ownedForUpdate(ctx, userID, habitID)
		if err != nil {
			return err
		}

		now := s.now()
		var lastPtr *time.Time
		if last, ok := habit.LastCompletion(); ok {
			lastPtr = &last
		}

		outcome := gamification.CompleteHabit(habit.Frequency != models.FrequencyWeekly, habit.Streak, lastPtr, now, s.loc)
		if outcome.AlreadyDone {
			return nil
		}
		habit.Completions = append(habit.Completions, now)
		habit.Streak = outcome.Streak
		return s.habits.Update(ctx, habit)
	})
	if err != nil {
		return nil, passThrough(ctx, s.logger, "failed to complete habit", err)
	}
	return habit, nil
}

func (s *habitService) ownedForUpdate(ctx context.Context, userID, habitID int64) (*models.Habit, error) {
	habit, err := s.habits.GetByIDForUpdate(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit == nil || habit.UserID != userID {
		return nil, EntityNotFoundError("habit", habitID)
	}
	return habit, nil
}
