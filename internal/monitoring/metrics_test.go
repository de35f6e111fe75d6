package monitoring

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studyos/internal/cache"
	"studyos/internal/events"
	"studyos/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDomainCountersFollowEvents(t *testing.T) {
	m := NewMetrics()
	bus := events.NewEventBus(nil, zap.NewNop())
	require.NoError(t, m.Subscribe(bus))
	ctx := context.Background()

	require.NoError(t, bus.Publish(ctx, events.NewSessionCompletedEvent(1, 7, "Math", 25, 5, 250, 2)))
	require.NoError(t, bus.Publish(ctx, events.NewXPAwardedEvent(1, "session", 250, 250, 1, 2)))
	require.NoError(t, bus.Publish(ctx, events.NewLevelUpEvent(1, 1, 2, 100)))
	require.NoError(t, bus.Publish(ctx, events.NewBadgesEarnedEvent(1, []string{"First Step", "Focus Novice"})))
	require.NoError(t, bus.Publish(ctx, events.NewSubscriptionChangedEvent(1, models.TierPro)))
	require.NoError(t, bus.Publish(ctx, events.NewUserRegisteredEvent(2, "a@b.co", "google")))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsCompleted))
	assert.Equal(t, 25.0, testutil.ToFloat64(m.FocusMinutes))
	assert.Equal(t, 250.0, testutil.ToFloat64(m.XPAwarded.WithLabelValues("session")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LevelUps))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BadgesAwarded.WithLabelValues("Focus Novice")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SubscriptionChanges.WithLabelValues("PRO")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UsersRegistered.WithLabelValues("google")))
}

func TestObserveRequestGroupsStatus(t *testing.T) {
	m := NewMetrics()
	m.ObserveRequest("GET", "/api/tasks", 200, 10*time.Millisecond)
	m.ObserveRequest("GET", "/api/tasks", 204, 10*time.Millisecond)
	m.ObserveRequest("GET", "/api/tasks", 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/tasks", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/tasks", "4xx")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := NewMetrics()
	c := cache.NewMemoryCache(cache.DefaultConfig(), zap.NewNop())
	defer c.Close()
	require.NoError(t, m.RegisterCacheStats(c))
	require.NoError(t, m.RegisterEventBusStats(events.NewEventBus(nil, zap.NewNop())))
	m.HTTPPanics.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "studyos_http_panics_total 1")
	assert.Contains(t, body, "studyos_cache_hit_ratio")
	assert.Contains(t, body, "studyos_events_queue_depth")
}
