package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"studyos/internal/catalog"
	"studyos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAttempts struct {
	mu   sync.Mutex
	rows []*models.QuizAttempt
	err  error
}

func (f *fakeAttempts) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	attempt.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, attempt)
	return nil
}

func (f *fakeAttempts) ListForUser(ctx context.Context, userID int64, limit int) ([]*models.QuizAttempt, error) {
	return f.rows, nil
}

func newQuizTestService(t *testing.T, env *testEnv, attempts *fakeAttempts) QuizService {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	return NewQuizService(cat, attempts, env.gamification, zap.NewNop())
}

func TestQuizSubmitAwardsXP(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.newUser("quizzer")
	attempts := &fakeAttempts{}
	svc := newQuizTestService(t, env, attempts)

	result, err := svc.Submit(ctx, user.ID, "1", &SubmitQuizRequest{Answers: []int{0, 2, 1}})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Score)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 150, result.XPEarned)
	assert.True(t, result.Award.LeveledUp)

	stored := env.user(user.ID)
	assert.Equal(t, 150, stored.XP)
	assert.Equal(t, 2, stored.Level)
	assert.Equal(t, 100, stored.Coins)

	require.Len(t, attempts.rows, 1)
	assert.Equal(t, "1", attempts.rows[0].QuizID)
	assert.Equal(t, 150, attempts.rows[0].XPEarned)
}

func TestQuizSubmitPartialAnswers(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.newUser("partial")
	svc := newQuizTestService(t, env, &fakeAttempts{})

	result, err := svc.Submit(ctx, user.ID, "1", &SubmitQuizRequest{Answers: []int{0, 0}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, []bool{true, false, false}, result.Correct)
	assert.Equal(t, 50, env.user(user.ID).XP)
}

func TestQuizSubmitErrors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.newUser("err")
	svc := newQuizTestService(t, env, &fakeAttempts{})

	_, err := svc.Submit(ctx, user.ID, "missing", &SubmitQuizRequest{Answers: []int{0}})
	assert.True(t, IsNotFoundError(err))

	_, err = svc.Submit(ctx, user.ID, "1", &SubmitQuizRequest{Answers: []int{0, 0, 0, 0}})
	assert.True(t, IsValidationError(err))
	assert.Equal(t, 0, env.user(user.ID).XP)
}

func TestQuizAttemptFailureKeepsXP(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.newUser("flaky")
	svc := newQuizTestService(t, env, &fakeAttempts{err: errors.New("db down")})

	result, err := svc.Submit(ctx, user.ID, "1", &SubmitQuizRequest{Answers: []int{0}})
	require.NoError(t, err)
	assert.Equal(t, 50, result.XPEarned)
	assert.Equal(t, 50, env.user(user.ID).XP)
}
