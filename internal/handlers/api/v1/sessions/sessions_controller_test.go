package sessions

import (
	"context"
	"net/http"
	"testing"
	"time"

	"studyos/internal/handlers/api/v1/apitest"
	"studyos/internal/models"
	"studyos/internal/response"
	"studyos/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSessionService struct {
	services.SessionService

	active  *models.StudySession
	endReq  *services.EndSessionRequest
	ownerID int64
}

func (f *fakeSessionService) Start(ctx context.Context, userID int64, req *services.StartSessionRequest) (*models.StudySession, error) {
	if f.active != nil {
		err := services.NewValidationError("You already have an active session", nil)
		err.Code = "SESSION_ACTIVE"
		return nil, err
	}
	f.active = &models.StudySession{ID: 10, UserID: userID, Subject: req.Subject, StartTime: time.Now(), Status: models.SessionActive}
	return f.active, nil
}

func (f *fakeSessionService) Active(ctx context.Context, userID int64) (*models.StudySession, error) {
	return f.active, nil
}

func (f *fakeSessionService) End(ctx context.Context, userID, sessionID int64, req *services.EndSessionRequest) (*services.EndSessionResult, error) {
	if f.active == nil || f.active.ID != sessionID {
		return nil, services.EntityNotFoundError("session", sessionID)
	}
	if f.active.UserID != userID {
		return nil, services.NewForbiddenError("session belongs to another user")
	}
	f.endReq = req
	score := 90
	if req.FocusScore != nil {
		score = *req.FocusScore
	}
	session := f.active
	session.Status = models.SessionCompleted
	f.active = nil
	return &services.EndSessionResult{
		Session:        session,
		SessionRewards: services.SessionRewards{DurationMinutes: 30, FocusScore: score, CoinsEarned: 6, XPEarned: 300, Streak: 1, Level: 2},
		NewBadges:      []string{"Focus Novice"},
	}, nil
}

func newServer(svc *fakeSessionService, userID int64) *apitest.Server {
	srv := apitest.NewServer(userID)
	NewSessionController(svc, zap.NewNop(), response.NewBuilder(nil, nil)).RegisterRoutes(srv.Protected)
	return srv
}

func TestSessionLifecycle(t *testing.T) {
	svc := &fakeSessionService{}
	srv := newServer(svc, 1)

	rec := srv.Do(t, http.MethodGet, "/api/sessions/active", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var active *models.StudySession
	apitest.Decode(t, rec, &active)
	assert.Nil(t, active)

	rec = srv.Do(t, http.MethodPost, "/api/sessions/start", map[string]string{"subject": "Maths"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = srv.Do(t, http.MethodPost, "/api/sessions/start", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", apitest.ErrorType(t, rec))

	rec = srv.Do(t, http.MethodPost, "/api/sessions/10/end", map[string]int{"focusScore": 70})
	require.Equal(t, http.StatusOK, rec.Code)

	var result services.EndSessionResult
	apitest.Decode(t, rec, &result)
	assert.Equal(t, 70, result.FocusScore)
	assert.Equal(t, 6, result.CoinsEarned)
	assert.Equal(t, []string{"Focus Novice"}, result.NewBadges)
	assert.Equal(t, models.SessionCompleted, result.Session.Status)

	rec = srv.Do(t, http.MethodPost, "/api/sessions/10/end", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEndSessionWithoutBody(t *testing.T) {
	svc := &fakeSessionService{active: &models.StudySession{ID: 4, UserID: 1}}
	rec := newServer(svc, 1).Do(t, http.MethodPost, "/api/sessions/4/end", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.endReq)
	assert.Nil(t, svc.endReq.FocusScore)
}

func TestEndForeignSessionForbidden(t *testing.T) {
	svc := &fakeSessionService{active: &models.StudySession{ID: 4, UserID: 2}}
	rec := newServer(svc, 1).Do(t, http.MethodPost, "/api/sessions/4/end", nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", apitest.ErrorType(t, rec))
}
