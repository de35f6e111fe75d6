package services

import (
	"context"
	"math"
	"time"

	"studyos/internal/gamification"
	"studyos/internal/models"
	"studyos/internal/repositories"

	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

const defaultActivityDays = 365

// analyticsService implements AnalyticsService
type analyticsService struct {
	analytics repositories.AnalyticsRepository
	sessions  repositories.StudySessionRepository
	loc       *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewAnalyticsService creates the analytics service
func NewAnalyticsService(
	analytics repositories.AnalyticsRepository,
	sessions repositories.StudySessionRepository,
	loc *time.Location,
	logger *zap.Logger,
) AnalyticsService {
	if loc == nil {
		loc = time.Local
	}
	return &analyticsService{
		analytics: analytics,
		sessions:  sessions,
		loc:       loc,
		logger:    logger,
		now:       time.Now,
	}
}

// Dashboard reports total and weekly focus minutes plus the average focus score
func (s *analyticsService) Dashboard(ctx context.Context, userID int64) (*models.DashboardStats, error) {
	weekStart := gamification.WeekStart(s.now(), s.loc)
	totals, err := s.analytics.Dashboard(ctx, userID, weekStart)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to load dashboard", err)
	}
	return &models.DashboardStats{
		TotalMinutes:  secondsToMinutes(totals.TotalSeconds),
		WeeklyMinutes: secondsToMinutes(totals.WeeklySeconds),
		AvgFocusScore: int(math.Round(totals.AvgFocus)),
	}, nil
}

// Activity buckets completed focus time per local day for the heatmap.
// Days without sessions are omitted.
func (s *analyticsService) Activity(ctx context.Context, userID int64, req *ActivityRequest) ([]models.ActivityDay, error) {
	if req == nil {
		req = &ActivityRequest{}
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	days := req.Days
	if days == 0 {
		days = defaultActivityDays
	}

	since := gamification.Midnight(s.now(), s.loc).AddDate(0, 0, -days)
	spans, err := s.sessions.CompletedSince(ctx, userID, since)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to load activity", err)
	}

	return bucketActivity(spans, s.loc), nil
}

// Subjects returns focus minutes per subject
func (s *analyticsService) Subjects(ctx context.Context, userID int64) ([]models.SubjectMinutes, error) {
	subjects, err := s.analytics.Subjects(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to load subjects", err)
	}
	return subjects, nil
}

func bucketActivity(spans []repositories.SessionSpan, loc *time.Location) []models.ActivityDay {
	seconds := make(map[string]int)
	for _, span := range spans {
		seconds[span.StartTime.In(loc).Format(time.DateOnly)] += span.Duration
	}

	dates := maps.Keys(seconds)
	slices.Sort(dates)

	activity := make([]models.ActivityDay, 0, len(dates))
	for _, date := range dates {
		minutes := secondsToMinutes(seconds[date])
		activity = append(activity, models.ActivityDay{
			Date:  date,
			Count: minutes,
			Level: ActivityLevel(minutes),
		})
	}
	return activity
}

// ActivityLevel maps daily minutes onto the 0..4 heatmap scale
func ActivityLevel(minutes int) int {
	switch {
	case minutes > 120:
		return 4
	case minutes > 60:
		return 3
	case minutes > 30:
		return 2
	case minutes > 0:
		return 1
	default:
		return 0
	}
}

func secondsToMinutes(seconds int) int {
	return int(math.Round(float64(seconds) / 60))
}
