package services

import (
	"testing"
	"time"

	"studyos/internal/cache"
	"studyos/internal/models"

	"go.uber.org/zap"
)

var testLoc = time.UTC

// testEnv wires real services over in-memory repositories
type testEnv struct {
	users    *fakeUsers
	tasks    *fakeTasks
	habits   *fakeHabits
	sessions *fakeSessions
	badges   *fakeBadges
	tx       *fakeTx
	cache    cache.Cache

	gamification GamificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	c := cache.NewMemoryCache(cache.DefaultConfig(), zap.NewNop())
	t.Cleanup(func() { _ = c.Close() })

	env := &testEnv{
		users:    newFakeUsers(),
		tasks:    newFakeTasks(),
		habits:   newFakeHabits(),
		sessions: newFakeSessions(),
		badges:   newFakeBadges(),
		tx:       &fakeTx{},
		cache:    c,
	}
	env.gamification = NewGamificationService(GamificationDeps{
		Users:    env.users,
		Tasks:    env.tasks,
		Sessions: env.sessions,
		Badges:   env.badges,
		Tx:       env.tx,
		Cache:    c,
	}, testLoc, time.Minute, zap.NewNop())
	return env
}

func (e *testEnv) newUser(name string) *models.User {
	return e.users.add(&models.User{Name: name, Email: name + "@example.com"})
}

func (e *testEnv) user(id int64) *models.User {
	e.users.mu.Lock()
	defer e.users.mu.Unlock()
	c := *e.users.byID[id]
	return &c
}

func ptr[T any](v T) *T {
	return &v
}
