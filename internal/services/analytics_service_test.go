package services

import (
	"context"
	"testing"
	"time"

	"studyos/internal/models"
	"studyos/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestActivityLevel(t *testing.T) {
	tests := []struct {
		minutes int
		want    int
	}{
		{0, 0},
		{1, 1},
		{30, 1},
		{31, 2},
		{60, 2},
		{61, 3},
		{120, 3},
		{121, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ActivityLevel(tt.minutes), "minutes=%d", tt.minutes)
	}
}

func TestBucketActivityUsesLocalDates(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	spans := []repositories.SessionSpan{
		// 22:30 UTC is already the next day at UTC+3
		{StartTime: time.Date(2024, 3, 4, 22, 30, 0, 0, time.UTC), Duration: 45 * 60},
		{StartTime: time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC), Duration: 30 * 60},
		{StartTime: time.Date(2024, 3, 3, 8, 0, 0, 0, time.UTC), Duration: 90},
	}

	days := bucketActivity(spans, loc)
	require.Len(t, days, 2)
	assert.Equal(t, models.ActivityDay{Date: "2024-03-03", Count: 2, Level: 1}, days[0])
	assert.Equal(t, models.ActivityDay{Date: "2024-03-05", Count: 75, Level: 3}, days[1])
}

func TestActivityWindow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.newUser("heat")
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	for _, start := range []time.Time{now.AddDate(0, 0, -2), now.AddDate(0, 0, -40)} {
		end := start.Add(20 * time.Minute)
		session := &models.StudySession{UserID: user.ID, Subject: "Math", StartTime: start}
		require.NoError(t, env.sessions.Create(ctx, session))
		session.EndTime = &end
		session.Duration = 1200
		session.Status = models.SessionCompleted
		require.NoError(t, env.sessions.Complete(ctx, session))
	}

	svc := NewAnalyticsService(nil, env.sessions, testLoc, zap.NewNop()).(*analyticsService)
	svc.now = func() time.Time { return now }

	recent, err := svc.Activity(ctx, user.ID, &ActivityRequest{Days: 30})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "2024-03-08", recent[0].Date)
	assert.Equal(t, 20, recent[0].Count)

	all, err := svc.Activity(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSecondsToMinutesRounds(t *testing.T) {
	assert.Equal(t, 0, secondsToMinutes(29))
	assert.Equal(t, 1, secondsToMinutes(30))
	assert.Equal(t, 13, secondsToMinutes(750))
}
