package ai

import (
	"context"
	"net/http"
	"testing"

	"studyos/internal/handlers/api/v1/apitest"
	"studyos/internal/models"
	"studyos/internal/response"
	"studyos/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAIService struct {
	services.AIService

	offline bool
	planReq *services.PlanRequest
}

func (f *fakeAIService) Plan(ctx context.Context, userID int64, req *services.PlanRequest) (*services.PlanResponse, error) {
	f.planReq = req
	return &services.PlanResponse{
		Summary: "Focus on maths",
		Plan:    []services.PlanBlock{{Time: "09:00", Activity: "Algebra"}},
	}, nil
}

func (f *fakeAIService) Chat(ctx context.Context, userID int64, req *services.ChatRequest) (*services.ChatResponse, error) {
	if f.offline {
		return nil, services.NewServiceUnavailableError("AI Coach is currently offline")
	}
	return &services.ChatResponse{Reply: "echo: " + req.Message}, nil
}

func (f *fakeAIService) Tips(ctx context.Context) (*services.TipsResponse, error) {
	return &services.TipsResponse{Tip: "Sleep", Tips: []string{"Sleep", "Hydrate"}}, nil
}

func (f *fakeAIService) GenerateNotes(ctx context.Context, userID int64, req *services.NotesRequest) (*models.Note, error) {
	return &models.Note{ID: 1, UserID: userID, Source: req.Text, Summary: "short"}, nil
}

func (f *fakeAIService) ListNotes(ctx context.Context, userID int64) ([]*models.Note, error) {
	return []*models.Note{{ID: 1}}, nil
}

func newServer(svc *fakeAIService) *apitest.Server {
	srv := apitest.NewServer(1)
	NewAIController(svc, zap.NewNop(), response.NewBuilder(nil, nil)).RegisterRoutes(srv.Protected)
	return srv
}

func TestPlanWithEmptyBody(t *testing.T) {
	svc := &fakeAIService{}
	rec := newServer(svc).Do(t, http.MethodPost, "/api/ai/plan", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, svc.planReq)
	var plan services.PlanResponse
	apitest.Decode(t, rec, &plan)
	assert.Equal(t, "Algebra", plan.Plan[0].Activity)
}

func TestChat(t *testing.T) {
	svc := &fakeAIService{}
	srv := newServer(svc)

	rec := srv.Do(t, http.MethodPost, "/api/ai/chat", map[string]string{"message": "what is a derivative"})
	require.Equal(t, http.StatusOK, rec.Code)
	var reply services.ChatResponse
	apitest.Decode(t, rec, &reply)
	assert.Equal(t, "echo: what is a derivative", reply.Reply)

	svc.offline = true
	rec = srv.Do(t, http.MethodPost, "/api/ai/chat", map[string]string{"message": "hello"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "SERVICE_UNAVAILABLE", apitest.ErrorType(t, rec))
}

func TestTipsAndNotes(t *testing.T) {
	srv := newServer(&fakeAIService{})

	rec := srv.Do(t, http.MethodGet, "/api/ai/tips", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tips services.TipsResponse
	apitest.Decode(t, rec, &tips)
	assert.Len(t, tips.Tips, 2)

	rec = srv.Do(t, http.MethodPost, "/api/ai/notes", map[string]string{"text": "Photosynthesis converts light into chemical energy."})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = srv.Do(t, http.MethodGet, "/api/ai/notes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, apitest.Decode(t, rec, nil).Meta.Count)
}
