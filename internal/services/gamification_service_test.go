package services

import (
	"context"
	"testing"
	"time"

	"studyos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateBadgesIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.users.add(&models.User{Name: "k", Email: "k@example.com", Streak: 7})

	require.NoError(t, env.tasks.Create(ctx, &models.Task{UserID: user.ID, Title: "done", Status: models.TaskCompleted}))

	first, err := env.gamification.EvaluateBadges(ctx, user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"First Step", "Consistency King"}, first)

	second, err := env.gamification.EvaluateBadges(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, second)

	earned, err := env.badges.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, earned, 2)
}

func TestEvaluateBadgesEarlyBird(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.newUser("lark")

	start := time.Date(2024, 3, 4, 5, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	session := &models.StudySession{UserID: user.ID, Subject: "Math", StartTime: start}
	require.NoError(t, env.sessions.Create(ctx, session))
	session.EndTime = &end
	session.Duration = 1800
	session.Status = models.SessionCompleted
	require.NoError(t, env.sessions.Complete(ctx, session))

	earned, err := env.gamification.EvaluateBadges(ctx, user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Focus Novice", "Early Bird"}, earned)
}

func TestAwardXPLevelsUp(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.newUser("climber")

	award, err := env.gamification.AwardXP(ctx, user.ID, "QUIZ", 400)
	require.NoError(t, err)
	assert.Equal(t, 1, award.OldLevel)
	assert.Equal(t, 3, award.NewLevel)
	assert.Equal(t, 200, award.BonusCoins)

	stored := env.user(user.ID)
	assert.Equal(t, 400, stored.XP)
	assert.Equal(t, 3, stored.Level)
	assert.Equal(t, 200, stored.Coins)

	_, err = env.gamification.AwardXP(ctx, user.ID, "QUIZ", -1)
	assert.True(t, IsValidationError(err))
}

func TestStatsProgress(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.users.add(&models.User{Name: "p", Email: "p@example.com", XP: 150, Level: 2, Coins: 40})

	stats, err := env.gamification.Stats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Level)
	assert.Equal(t, 400, stats.NextLevelXP)
	assert.Equal(t, 16, stats.Progress)
	assert.Equal(t, 40, stats.Coins)

	_, err = env.gamification.Stats(ctx, 999)
	assert.True(t, IsNotFoundError(err))
}

func TestLeaderboardCachedUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.users.add(&models.User{Name: "a", Email: "a@example.com", XP: 300})
	env.users.add(&models.User{Name: "b", Email: "b@example.com", XP: 100})

	board, err := env.gamification.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "a", board[0].Name)
	assert.Equal(t, 1, board[0].Rank)

	env.users.add(&models.User{Name: "c", Email: "c@example.com", XP: 900})

	cached, err := env.gamification.Leaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, cached, 2)

	env.gamification.InvalidateLeaderboard(ctx)
	fresh, err := env.gamification.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, fresh, 3)
	assert.Equal(t, "c", fresh[0].Name)
}

func TestBadgesViewMarksEarned(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.users.add(&models.User{Name: "s", Email: "s@example.com", Streak: 9})

	_, err := env.gamification.EvaluateBadges(ctx, user.ID)
	require.NoError(t, err)

	view, err := env.gamification.Badges(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, view.All, 6)
	require.Len(t, view.Earned, 1)
	for _, b := range view.All {
		assert.Equal(t, b.Code == "STREAK_WEEK", b.Earned, b.Code)
	}
}
