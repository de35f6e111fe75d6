package analytics

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

type fakeAnalyticsService struct {
	days int
}

func (f *fakeAnalyticsService) Dashboard(ctx context.Context, userID int64) (*models.DashboardStats, error) {
	return &models.DashboardStats{TotalMinutes: 125, WeeklyMinutes: 40, AvgFocusScore: 88}, nil
}

func (f *fakeAnalyticsService) Activity(ctx context.Context, userID int64, req *services.ActivityRequest) ([]models.ActivityDay, error) {
	f.days = req.Days
	return []models.ActivityDay{{Date: "2026-03-01", Count: 45, Level: 2}}, nil
}

func (f *fakeAnalyticsService) Subjects(ctx context.Context, userID int64) ([]models.SubjectMinutes, error) {
	return []models.SubjectMinutes{{Name: "Maths", Value: 90}, {Name: "General", Value: 35}}, nil
}

func newServer(svc *fakeAnalyticsService) *apitest.Server {
	srv := apitest.NewServer(1)
	NewAnalyticsController(svc, zap.NewNop(), response.NewBuilder(nil, nil)).RegisterRoutes(srv.Protected)
	return srv
}

func TestDashboard(t *testing.T) {
	rec := newServer(&fakeAnalyticsService{}).Do(t, http.MethodGet, "/api/analytics/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.DashboardStats
	apitest.Decode(t, rec, &stats)
	assert.Equal(t, 125, stats.TotalMinutes)
	assert.Equal(t, 88, stats.AvgFocusScore)
}

func TestActivityDays(t *testing.T) {
	svc := &fakeAnalyticsService{}
	srv := newServer(svc)

	rec := srv.Do(t, http.MethodGet, "/api/analytics/activity?days=30", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 30, svc.days)

	rec = srv.Do(t, http.MethodGet, "/api/analytics/activity", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, svc.days)

	rec = srv.Do(t, http.MethodGet, "/api/analytics/activity?days=lots", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubjects(t *testing.T) {
	rec := newServer(&fakeAnalyticsService{}).Do(t, http.MethodGet, "/api/analytics/subjects", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var subjects []models.SubjectMinutes
	env := apitest.Decode(t, rec, &subjects)
	assert.Equal(t, 2, env.Meta.Count)
	assert.Equal(t, "Maths", subjects[0].Name)
}
