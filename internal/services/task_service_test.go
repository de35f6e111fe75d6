package services

import (
	"context"
	"testing"
	"time"

	"studyos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTaskTestService(env *testEnv, now time.Time) *taskService {
	svc := NewTaskService(env.tasks, env.users, env.tx, env.gamification, nil, zap.NewNop()).(*taskService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestTaskFirstCompletionPaysOnce(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.newUser("ada")
	svc := newTaskTestService(env, time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC))

	task, err := svc.Create(ctx, user.ID, &CreateTaskRequest{Title: "Read chapter 3", Priority: models.PriorityHigh})
	require.NoError(t, err)
	assert.Equal(t, models.TaskPending, task.Status)

	result, err := svc.Update(ctx, user.ID, task.ID, &UpdateTaskRequest{Status: ptr(models.TaskCompleted)})
	require.NoError(t, err)
	assert.Equal(t, 10, result.CoinsAwarded)
	assert.Contains(t, result.NewBadges, "First Step")
	assert.True(t, result.Task.Rewarded)
	require.NotNil(t, result.Task.CompletedAt)
	assert.Equal(t, 10, env.user(user.ID).Coins)

	// reopening and completing again pays nothing
	_, err = svc.Update(ctx, user.ID, task.ID, &UpdateTaskRequest{Status: ptr(models.TaskPending)})
	require.NoError(t, err)
	again, err := svc.Update(ctx, user.ID, task.ID, &UpdateTaskRequest{Status: ptr(models.TaskCompleted)})
	require.NoError(t, err)
	assert.Equal(t, 0, again.CoinsAwarded)
	assert.Empty(t, again.NewBadges)
	assert.NotNil(t, again.Task.CompletedAt)
	assert.Equal(t, 10, env.user(user.ID).Coins)
}

func TestTaskRecurringCompletionCreatesNextOccurrence(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.newUser("grace")
	now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	svc := newTaskTestService(env, now)

	due := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	task, err := svc.Create(ctx, user.ID, &CreateTaskRequest{
		Title:      "Flashcards",
		DueDate:    &due,
		Recurrence: models.RecurrenceWeekly,
	})
	require.NoError(t, err)

	result, err := svc.Update(ctx, user.ID, task.ID, &UpdateTaskRequest{Status: ptr(models.TaskCompleted)})
	require.NoError(t, err)
	require.NotNil(t, result.NextTask)
	assert.Equal(t, due.AddDate(0, 0, 7), *result.NextTask.DueDate)
	assert.Equal(t, task.ID, *result.NextTask.ParentTaskID)
	assert.Equal(t, models.TaskPending, result.NextTask.Status)

	// the follow-up keeps pointing at the original parent
	next, err := svc.Update(ctx, user.ID, result.NextTask.ID, &UpdateTaskRequest{Status: ptr(models.TaskCompleted)})
	require.NoError(t, err)
	require.NotNil(t, next.NextTask)
	assert.Equal(t, task.ID, *next.NextTask.ParentTaskID)
}

func TestTaskRecurringWithoutDueDateUsesNow(t *testing.T) {
	now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	next := nextOccurrence(&models.Task{ID: 7, UserID: 1, Title: "t", Recurrence: models.RecurrenceDaily}, now)
	require.NotNil(t, next)
	assert.Equal(t, now.AddDate(0, 0, 1), *next.DueDate)
	assert.Equal(t, int64(7), *next.ParentTaskID)

	assert.Nil(t, nextOccurrence(&models.Task{Recurrence: models.RecurrenceNone}, now))
}

func TestTaskOwnership(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.newUser("owner")
	other := env.newUser("other")
	svc := newTaskTestService(env, time.Now())

	task, err := svc.Create(ctx, owner.ID, &CreateTaskRequest{Title: "Mine"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, other.ID, task.ID)
	assert.True(t, IsNotFoundError(err))

	_, err = svc.Update(ctx, other.ID, task.ID, &UpdateTaskRequest{Status: ptr(models.TaskCompleted)})
	assert.True(t, IsNotFoundError(err))

	assert.True(t, IsNotFoundError(svc.Delete(ctx, other.ID, task.ID)))
	assert.NoError(t, svc.Delete(ctx, owner.ID, task.ID))
}

func TestTaskCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := newTaskTestService(env, time.Now())

	_, err := svc.Create(context.Background(), 1, &CreateTaskRequest{Title: ""})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	_, err = svc.Create(context.Background(), 1, &CreateTaskRequest{Title: "x", Priority: "SOMEDAY"})
	assert.True(t, IsValidationError(err))
}

func TestTaskUpdateRejectsBlankTitle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.newUser("blank")
	svc := newTaskTestService(env, time.Now())

	task, err := svc.Create(ctx, user.ID, &CreateTaskRequest{Title: "Outline essay"})
	require.NoError(t, err)

	blank := "   "
	_, err = svc.Update(ctx, user.ID, task.ID, &UpdateTaskRequest{Title: &blank})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	stored, err := env.tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Outline essay", stored.Title)
}

func TestTaskStatusLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.newUser("cancel")
	svc := newTaskTestService(env, time.Now())

	task, err := svc.Create(ctx, user.ID, &CreateTaskRequest{Title: "Lab report"})
	require.NoError(t, err)
	assert.Equal(t, models.TaskPending, task.Status)

	result, err := svc.Update(ctx, user.ID, task.ID, &UpdateTaskRequest{Status: ptr(models.TaskCancelled)})
	require.NoError(t, err)
	assert.Equal(t, models.TaskCancelled, result.Task.Status)
	assert.Zero(t, result.CoinsAwarded)
	assert.Nil(t, result.Task.CompletedAt)

	legacy := models.TaskStatus("TODO")
	_, err = svc.Update(ctx, user.ID, task.ID, &UpdateTaskRequest{Status: &legacy})
	assert.True(t, IsValidationError(err))
}
