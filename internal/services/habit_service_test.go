package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"studyos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newHabitTestService(env *testEnv, now *time.Time) *habitService {
	svc := NewHabitService(env.habits, env.users, env.tx, 3, testLoc, zap.NewNop()).(*habitService)
	svc.now = func() time.Time { return *now }
	return svc
}

func TestHabitFreeTierLimit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	free := env.newUser("free")
	pro := env.users.add(&models.User{Name: "pro", Email: "pro@example.com", SubscriptionTier: models.TierPro})
	now := time.Now()
	svc := newHabitTestService(env, &now)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, free.ID, &CreateHabitRequest{Title: fmt.Sprintf("habit %d", i)})
		require.NoError(t, err)
	}

	_, err := svc.Create(ctx, free.ID, &CreateHabitRequest{Title: "one too many"})
	require.Error(t, err)
	se := GetServiceError(err)
	require.NotNil(t, se)
	assert.Equal(t, "LIMIT_REACHED", se.Code)
	assert.Equal(t, 403, se.GetStatusCode())

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, pro.ID, &CreateHabitRequest{Title: fmt.Sprintf("pro habit %d", i)})
		require.NoError(t, err)
	}
}

func TestHabitCompleteOncePerDay(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.newUser("daily")
	now := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	svc := newHabitTestService(env, &now)

	habit, err := svc.Create(ctx, user.ID, &CreateHabitRequest{Title: "Meditate"})
	require.NoError(t, err)

	first, err := svc.Complete(ctx, user.ID, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Streak)
	assert.Len(t, first.Completions, 1)

	now = now.Add(10 * time.Hour)
	again, err := svc.Complete(ctx, user.ID, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Streak)
	assert.Len(t, again.Completions, 1)

	now = now.Add(24 * time.Hour)
	next, err := svc.Complete(ctx, user.ID, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, next.Streak)
	assert.Len(t, next.Completions, 2)

	now = now.Add(72 * time.Hour)
	reset, err := svc.Complete(ctx, user.ID, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reset.Streak)
}

func TestHabitWeeklyCompletion(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.newUser("weekly")
	// Monday
	now := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	svc := newHabitTestService(env, &now)

	habit, err := svc.Create(ctx, user.ID, &CreateHabitRequest{Title: "Review notes", Frequency: models.FrequencyWeekly})
	require.NoError(t, err)

	first, err := svc.Complete(ctx, user.ID, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Streak)

	// Wednesday of the same week counts as a check-in but not a new week
	now = now.AddDate(0, 0, 2)
	wednesday, err := svc.Complete(ctx, user.ID, habit.ID)
	require.NoError(t, err)
	assert.Len(t, wednesday.Completions, 2)
	assert.Equal(t, 1, wednesday.Streak)

	again, err := svc.Complete(ctx, user.ID, habit.ID)
	require.NoError(t, err)
	assert.Len(t, again.Completions, 2)

	// Sunday starts a new week
	now = now.AddDate(0, 0, 4)
	next, err := svc.Complete(ctx, user.ID, habit.ID)
	require.NoError(t, err)
	assert.Len(t, next.Completions, 3)
	assert.Equal(t, 2, next.Streak)
}

func TestHabitOwnership(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.newUser("owner")
	other := env.newUser("other")
	now := time.Now()
	svc := newHabitTestService(env, &now)

	habit, err := svc.Create(ctx, owner.ID, &CreateHabitRequest{Title: "Run"})
	require.NoError(t, err)

	_, err = svc.Complete(ctx, other.ID, habit.ID)
	assert.True(t, IsNotFoundError(err))

	_, err = svc.Update(ctx, other.ID, habit.ID, &UpdateHabitRequest{Title: ptr("Walk")})
	assert.True(t, IsNotFoundError(err))

	assert.True(t, IsNotFoundError(svc.Delete(ctx, other.ID, habit.ID)))

	updated, err := svc.Update(ctx, owner.ID, habit.ID, &UpdateHabitRequest{Title: ptr("  Walk  ")})
	require.NoError(t, err)
	assert.Equal(t, "Walk", updated.Title)
}

func TestHabitUpdateRejectsBlankTitle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.newUser("blank-habit")
	now := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	svc := newHabitTestService(env, &now)

	habit, err := svc.Create(ctx, user.ID, &CreateHabitRequest{Title: "Stretch"})
	require.NoError(t, err)

	blank := "\t "
	_, err = svc.Update(ctx, user.ID, habit.ID, &UpdateHabitRequest{Title: &blank})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	stored, err := env.habits.GetByID(ctx, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stretch", stored.Title)
}
