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

type sessionClock struct{ now time.Time }

func (c *sessionClock) Now() time.Time { return c.now }

func newSessionTestService(env *testEnv, clock *sessionClock) *sessionService {
	svc := NewSessionService(SessionDeps{
		Sessions:     env.sessions,
		Users:        env.users,
		Tasks:        env.tasks,
		Tx:           env.tx,
		Gamification: env.gamification,
	}, testLoc, zap.NewNop()).(*sessionService)
	svc.now = clock.Now
	svc.intn = func(n int) int { return 5 }
	return svc
}

func runSession(t *testing.T, svc *sessionService, clock *sessionClock, userID int64, length time.Duration, req *EndSessionRequest) *EndSessionResult {
	t.Helper()
	ctx := context.Background()
	session, err := svc.Start(ctx, userID, &StartSessionRequest{Subject: "Math"})
	require.NoError(t, err)
	clock.now = clock.now.Add(length)
	result, err := svc.End(ctx, userID, session.ID, req)
	require.NoError(t, err)
	return result
}

func TestSessionEndRewards(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser("ada")
	clock := &sessionClock{now: time.Date(2024, 3, 4, 14, 0, 0, 0, time.UTC)}
	svc := newSessionTestService(env, clock)

	result := runSession(t, svc, clock, user.ID, 12*time.Minute+30*time.Second, nil)

	assert.Equal(t, 12, result.DurationMinutes)
	assert.Equal(t, 2, result.CoinsEarned)
	assert.Equal(t, 120, result.XPEarned)
	assert.Equal(t, 85, result.FocusScore)
	assert.Equal(t, 1, result.Streak)
	assert.Equal(t, 750, result.Session.Duration)
	assert.Equal(t, models.SessionCompleted, result.Session.Status)
	assert.Contains(t, result.NewBadges, "Focus Novice")

	assert.True(t, result.LeveledUp)
	assert.Equal(t, 2, result.Level)

	// 120 XP crosses level 2, so the balance includes the 100 coin level-up bonus
	stored := env.user(user.ID)
	assert.Equal(t, 102, stored.Coins)
	assert.Equal(t, 120, stored.XP)
	assert.Equal(t, 2, stored.Level)
	require.NotNil(t, stored.LastActiveAt)
}

func TestSessionCoinsAndFocusBands(t *testing.T) {
	tests := []struct {
		name      string
		length    time.Duration
		explicit  *int
		wantCoins int
		wantFocus int
	}{
		{name: "short session", length: 3 * time.Minute, wantCoins: 0, wantFocus: 50},
		{name: "medium session", length: 15 * time.Minute, wantCoins: 3, wantFocus: 85},
		{name: "long session", length: 30 * time.Minute, wantCoins: 6, wantFocus: 100},
		{name: "capped coins", length: 300 * time.Minute, wantCoins: 50, wantFocus: 100},
		{name: "explicit focus", length: 10 * time.Minute, explicit: ptr(42), wantCoins: 2, wantFocus: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			user := env.newUser("u")
			clock := &sessionClock{now: time.Date(2024, 3, 4, 14, 0, 0, 0, time.UTC)}
			svc := newSessionTestService(env, clock)

			result := runSession(t, svc, clock, user.ID, tt.length, &EndSessionRequest{FocusScore: tt.explicit})
			assert.Equal(t, tt.wantCoins, result.CoinsEarned)
			assert.Equal(t, tt.wantFocus, result.FocusScore)
		})
	}
}

func TestSessionLevelUpPaysBonus(t *testing.T) {
	env := newTestEnv(t)
	user := env.newUser("marathon")
	clock := &sessionClock{now: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)}
	svc := newSessionTestService(env, clock)

	result := runSession(t, svc, clock, user.ID, 300*time.Minute, nil)

	// 3000 XP is level 6: five level-ups at 100 coins each plus 50 session coins
	assert.True(t, result.LeveledUp)
	assert.Equal(t, 6, result.Level)
	stored := env.user(user.ID)
	assert.Equal(t, 3000, stored.XP)
	assert.Equal(t, 6, stored.Level)
	assert.Equal(t, 550, stored.Coins)
}

func TestSessionStreak(t *testing.T) {
	tests := []struct {
		name       string
		lastActive time.Duration
		streak     int
		want       int
	}{
		{name: "yesterday continues", lastActive: -24 * time.Hour, streak: 4, want: 5},
		{name: "three days ago resets", lastActive: -72 * time.Hour, streak: 4, want: 1},
		{name: "same day keeps", lastActive: -time.Hour, streak: 4, want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			start := time.Date(2024, 3, 4, 14, 0, 0, 0, time.UTC)
			last := start.Add(tt.lastActive)
			user := env.users.add(&models.User{Name: "s", Email: "s@example.com", Streak: tt.streak, LastActiveAt: &last})
			clock := &sessionClock{now: start}
			svc := newSessionTestService(env, clock)

			result := runSession(t, svc, clock, user.ID, 20*time.Minute, nil)
			assert.Equal(t, tt.want, result.Streak)
			assert.Equal(t, tt.want, env.user(user.ID).Streak)
		})
	}
}

func TestSessionEndErrors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.newUser("owner")
	intruder := env.newUser("intruder")
	clock := &sessionClock{now: time.Date(2024, 3, 4, 14, 0, 0, 0, time.UTC)}
	svc := newSessionTestService(env, clock)

	session, err := svc.Start(ctx, owner.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "General", session.Subject)

	_, err = svc.End(ctx, intruder.ID, session.ID, nil)
	assert.True(t, IsForbiddenError(err))

	_, err = svc.End(ctx, owner.ID, 999, nil)
	assert.True(t, IsNotFoundError(err))

	clock.now = clock.now.Add(10 * time.Minute)
	_, err = svc.End(ctx, owner.ID, session.ID, nil)
	require.NoError(t, err)

	// a second end must not pay twice
	coins := env.user(owner.ID).Coins
	_, err = svc.End(ctx, owner.ID, session.ID, nil)
	assert.True(t, IsNotFoundError(err))
	assert.Equal(t, coins, env.user(owner.ID).Coins)
}

func TestSessionSingleActive(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.newUser("busy")
	clock := &sessionClock{now: time.Now()}
	svc := newSessionTestService(env, clock)

	first, err := svc.Start(ctx, user.ID, nil)
	require.NoError(t, err)

	_, err = svc.Start(ctx, user.ID, nil)
	require.Error(t, err)
	se := GetServiceError(err)
	assert.Equal(t, "SESSION_ACTIVE", se.Code)
	assert.Equal(t, 400, se.GetStatusCode())

	active, err := svc.Active(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, first.ID, active.ID)
}

func TestSessionStartRejectsForeignTask(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.newUser("owner")
	other := env.newUser("other")
	svc := newSessionTestService(env, &sessionClock{now: time.Now()})

	task := &models.Task{UserID: owner.ID, Title: "Essay"}
	require.NoError(t, env.tasks.Create(ctx, task))

	_, err := svc.Start(ctx, other.ID, &StartSessionRequest{TaskID: &task.ID})
	assert.True(t, IsNotFoundError(err))
}
