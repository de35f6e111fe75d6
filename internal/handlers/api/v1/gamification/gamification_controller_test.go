package gamification

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

type fakeGamificationService struct {
	services.GamificationService

	limit int
}

func (f *fakeGamificationService) Stats(ctx context.Context, userID int64) (*services.StatsResponse, error) {
	return &services.StatsResponse{XP: 450, Level: 3, Coins: 120, Streak: 4, Progress: 50, NextLevelXP: 900}, nil
}

func (f *fakeGamificationService) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	f.limit = limit
	return []models.LeaderboardEntry{{Rank: 1, UserID: 7, Name: "Ada", XP: 900, Level: 4}}, nil
}

func (f *fakeGamificationService) Badges(ctx context.Context, userID int64) (*services.BadgesResponse, error) {
	return &services.BadgesResponse{
		All: []services.BadgeView{
			{Badge: models.Badge{Name: "First Step"}, Earned: true},
			{Badge: models.Badge{Name: "Task Master"}},
		},
	}, nil
}

func newServer(svc *fakeGamificationService) *apitest.Server {
	srv := apitest.NewServer(1)
	NewGamificationController(svc, zap.NewNop(), response.NewBuilder(nil, nil)).RegisterRoutes(srv.Protected)
	return srv
}

func TestStats(t *testing.T) {
	rec := newServer(&fakeGamificationService{}).Do(t, http.MethodGet, "/api/gamification/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats services.StatsResponse
	apitest.Decode(t, rec, &stats)
	assert.Equal(t, 3, stats.Level)
	assert.Equal(t, 900, stats.NextLevelXP)
}

func TestLeaderboardLimit(t *testing.T) {
	svc := &fakeGamificationService{}
	srv := newServer(svc)

	rec := srv.Do(t, http.MethodGet, "/api/gamification/leaderboard?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, svc.limit)

	var entries []models.LeaderboardEntry
	env := apitest.Decode(t, rec, &entries)
	assert.Equal(t, 1, env.Meta.Count)
	assert.Equal(t, "Ada", entries[0].Name)
}

func TestBadges(t *testing.T) {
	rec := newServer(&fakeGamificationService{}).Do(t, http.MethodGet, "/api/gamification/badges", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var badges services.BadgesResponse
	apitest.Decode(t, rec, &badges)
	require.Len(t, badges.All, 2)
	assert.True(t, badges.All[0].Earned)
	assert.False(t, badges.All[1].Earned)
}
