package quizzes

import (
	"context"
	"net/http"
	"testing"

	"studyos/internal/catalog"
	"studyos/internal/handlers/api/v1/apitest"
	"studyos/internal/response"
	"studyos/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeQuizService struct {
	cat *catalog.Catalog
}

func (f *fakeQuizService) List(ctx context.Context) []catalog.QuizSummary {
	return f.cat.Quizzes()
}

func (f *fakeQuizService) Get(ctx context.Context, quizID string) (*catalog.Quiz, error) {
	quiz, ok := f.cat.Quiz(quizID)
	if !ok {
		return nil, services.EntityNotFoundError("quiz", quizID)
	}
	return quiz, nil
}

func (f *fakeQuizService) Submit(ctx context.Context, userID int64, quizID string, req *services.SubmitQuizRequest) (*services.QuizResult, error) {
	quiz, err := f.Get(ctx, quizID)
	if err != nil {
		return nil, err
	}
	grade := quiz.Grade(req.Answers)
	return &services.QuizResult{
		QuizID:   quiz.ID,
		Score:    grade.Score,
		Total:    grade.Total,
		Correct:  grade.Correct,
		XPEarned: grade.Score * 50,
	}, nil
}

func newServer(t *testing.T) *apitest.Server {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)

	srv := apitest.NewServer(1)
	NewQuizController(&fakeQuizService{cat: cat}, zap.NewNop(), response.NewBuilder(nil, nil)).RegisterRoutes(srv.Protected)
	return srv
}

func TestListQuizzes(t *testing.T) {
	rec := newServer(t).Do(t, http.MethodGet, "/api/quizzes", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var quizzes []catalog.QuizSummary
	env := apitest.Decode(t, rec, &quizzes)
	assert.Equal(t, len(quizzes), env.Meta.Count)
	assert.Equal(t, "Machine Learning Basics", quizzes[0].Title)
	assert.Equal(t, 3, quizzes[0].Questions)
}

func TestGetQuizHidesAnswers(t *testing.T) {
	rec := newServer(t).Do(t, http.MethodGet, "/api/quizzes/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "correct")
	assert.NotContains(t, rec.Body.String(), "explanation")
}

func TestSubmitQuiz(t *testing.T) {
	srv := newServer(t)

	rec := srv.Do(t, http.MethodPost, "/api/quizzes/1/submit", map[string][]int{"answers": {0, 2, 0}})
	require.Equal(t, http.StatusOK, rec.Code)

	var result services.QuizResult
	apitest.Decode(t, rec, &result)
	assert.Equal(t, 2, result.Score)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, []bool{true, true, false}, result.Correct)
	assert.Equal(t, 100, result.XPEarned)

	rec = srv.Do(t, http.MethodPost, "/api/quizzes/nope/submit", map[string][]int{"answers": {0}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
