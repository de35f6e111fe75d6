package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"studyos/internal/models"
	"studyos/internal/repositories"
)

// In-memory repositories shared by the service tests.

type fakeTx struct{ calls int }

func (f *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// ===============================
// USERS
// ===============================

type fakeUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: make(map[int64]*models.User)}
}

func (f *fakeUsers) add(u *models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	u.ID = f.nextID
	if u.Level == 0 {
		u.Level = 1
	}
	if u.SubscriptionTier == "" {
		u.SubscriptionTier = models.TierFree
	}
	f.byID[u.ID] = u
	return u
}

func (f *fakeUsers) clone(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (f *fakeUsers) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	for _, u := range f.byID {
		if u.Email == user.Email {
			f.mu.Unlock()
			return repositories.ErrDuplicateEmail
		}
	}
	f.mu.Unlock()
	stored := f.add(f.clone(user))
	user.ID = stored.ID
	user.Level = stored.Level
	user.SubscriptionTier = stored.SubscriptionTier
	return nil
}

func (f *fakeUsers) find(match func(*models.User) bool) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if match(u) {
			return f.clone(u)
		}
	}
	return nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ID == id }), nil
}

func (f *fakeUsers) GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Email == email }), nil
}

func (f *fakeUsers) GetByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.GoogleID != nil && *u.GoogleID == googleID }), nil
}

func (f *fakeUsers) GetByStripeCustomer(ctx context.Context, customerID string) (*models.User, error) {
	return f.find(func(u *models.User) bool {
		return u.StripeCustomerID != nil && *u.StripeCustomerID == customerID
	}), nil
}

func (f *fakeUsers) UpdateProfile(ctx context.Context, id int64, name, avatarURL *string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	if name != nil {
		u.Name = *name
	}
	if avatarURL != nil {
		u.AvatarURL = avatarURL
	}
	return f.clone(u), nil
}

func (f *fakeUsers) LinkGoogle(ctx context.Context, id int64, googleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		u.GoogleID = &googleID
	}
	return nil
}

func (f *fakeUsers) UpdateProgress(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.byID[user.ID]
	u.XP, u.Level, u.Coins, u.Streak, u.LastActiveAt = user.XP, user.Level, user.Coins, user.Streak, user.LastActiveAt
	return nil
}

func (f *fakeUsers) AddCoins(ctx context.Context, id int64, coins int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.byID[id]
	u.Coins += coins
	return u.Coins, nil
}

func (f *fakeUsers) SetSubscription(ctx context.Context, id int64, tier models.SubscriptionTier, customerID, subscriptionID *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.byID[id]
	u.SubscriptionTier = tier
	if customerID != nil {
		u.StripeCustomerID = customerID
	}
	u.SubscriptionID = subscriptionID
	return nil
}

func (f *fakeUsers) SetTierByCustomer(ctx context.Context, customerID string, tier models.SubscriptionTier) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, u := range f.byID {
		if u.StripeCustomerID != nil && *u.StripeCustomerID == customerID {
			u.SubscriptionTier = tier
			if tier == models.TierFree {
				u.SubscriptionID = nil
			}
			n++
		}
	}
	return n, nil
}

func (f *fakeUsers) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := []models.LeaderboardEntry{}
	for _, u := range f.byID {
		entries = append(entries, models.LeaderboardEntry{UserID: u.ID, Name: u.Name, XP: u.XP, Level: u.Level, Streak: u.Streak})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].XP > entries[j].XP })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// ===============================
// REFRESH TOKENS
// ===============================

type fakeTokens struct {
	mu     sync.Mutex
	nextID int64
	rows   []*models.RefreshToken
}

func (f *fakeTokens) Create(ctx context.Context, token *models.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	token.ID = f.nextID
	c := *token
	f.rows = append(f.rows, &c)
	return nil
}

func (f *fakeTokens) GetByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.rows {
		if t.TokenHash == hash {
			c := *t
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeTokens) Revoke(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for _, t := range f.rows {
		if t.ID == id && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeTokens) RevokeAllForUser(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for _, t := range f.rows {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeTokens) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

// ===============================
// TASKS
// ===============================

type fakeTasks struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.Task
}

func newFakeTasks() *fakeTasks {
	return &fakeTasks{byID: make(map[int64]*models.Task)}
}

func (f *fakeTasks) Create(ctx context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	task.ID = f.nextID
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Status == "" {
		task.Status = models.TaskPending
	}
	if task.Recurrence == "" {
		task.Recurrence = models.RecurrenceNone
	}
	c := *task
	f.byID[task.ID] = &c
	return nil
}

func (f *fakeTasks) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	c := *t
	return &c, nil
}

func (f *fakeTasks) GetByIDForUpdate(ctx context.Context, id int64) (*models.Task, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeTasks) List(ctx context.Context, userID int64, filter repositories.TaskFilter) ([]*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Task{}
	for _, t := range f.byID {
		if t.UserID != userID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		c := *t
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTasks) ListPending(ctx context.Context, userID int64, limit int) ([]*models.Task, error) {
	all, _ := f.List(ctx, userID, repositories.TaskFilter{})
	out := []*models.Task{}
	for _, t := range all {
		open := t.Status == models.TaskPending || t.Status == models.TaskInProgress
		if open && len(out) < limit {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTasks) Update(ctx context.Context, task *models.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *task
	f.byID[task.ID] = &c
	return nil
}

func (f *fakeTasks) Delete(ctx context.Context, id, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byID[id]
	if !ok || t.UserID != userID {
		return false, nil
	}
	delete(f.byID, id)
	return true, nil
}

func (f *fakeTasks) CountByStatus(ctx context.Context, userID int64) (map[models.TaskStatus]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[models.TaskStatus]int{}
	for _, t := range f.byID {
		if t.UserID == userID {
			counts[t.Status]++
		}
	}
	return counts, nil
}

// ===============================
// HABITS
// ===============================

type fakeHabits struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.Habit
}

func newFakeHabits() *fakeHabits {
	return &fakeHabits{byID: make(map[int64]*models.Habit)}
}

func (f *fakeHabits) Create(ctx context.Context, habit *models.Habit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	habit.ID = f.nextID
	if habit.Frequency == "" {
		habit.Frequency = models.FrequencyDaily
	}
	c := *habit
	f.byID[habit.ID] = &c
	return nil
}

func (f *fakeHabits) GetByID(ctx context.Context, id int64) (*models.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	c := *h
	c.Completions = append([]time.Time(nil), h.Completions...)
	return &c, nil
}

func (f *fakeHabits) GetByIDForUpdate(ctx context.Context, id int64) (*models.Habit, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeHabits) List(ctx context.Context, userID int64) ([]*models.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Habit{}
	for _, h := range f.byID {
		if h.UserID == userID {
			c := *h
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeHabits) Update(ctx context.Context, habit *models.Habit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *habit
	f.byID[habit.ID] = &c
	return nil
}

func (f *fakeHabits) Delete(ctx context.Context, id, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.byID[id]
	if !ok || h.UserID != userID {
		return false, nil
	}
	delete(f.byID, id)
	return true, nil
}

func (f *fakeHabits) CountByUser(ctx context.Context, userID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, h := range f.byID {
		if h.UserID == userID {
			n++
		}
	}
	return n, nil
}

// ===============================
// SESSIONS
// ===============================

type fakeSessions struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.StudySession
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byID: make(map[int64]*models.StudySession)}
}

func (f *fakeSessions) Create(ctx context.Context, session *models.StudySession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.byID {
		if s.UserID == session.UserID && s.EndTime == nil {
			return repositories.ErrActiveSessionExists
		}
	}
	f.nextID++
	session.ID = f.nextID
	c := *session
	f.byID[session.ID] = &c
	return nil
}

func (f *fakeSessions) GetByID(ctx context.Context, id int64) (*models.StudySession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (f *fakeSessions) GetByIDForUpdate(ctx context.Context, id int64) (*models.StudySession, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeSessions) GetActive(ctx context.Context, userID int64) (*models.StudySession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.byID {
		if s.UserID == userID && s.EndTime == nil {
			c := *s
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeSessions) List(ctx context.Context, userID int64, limit int) ([]*models.StudySession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.StudySession{}
	for _, s := range f.byID {
		if s.UserID == userID {
			c := *s
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSessions) Recent(ctx context.Context, userID int64, limit int) ([]*models.StudySession, error) {
	return f.List(ctx, userID, limit)
}

func (f *fakeSessions) Complete(ctx context.Context, session *models.StudySession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := *session
	f.byID[session.ID] = &c
	return nil
}

func (f *fakeSessions) Stats(ctx context.Context, userID int64) (*repositories.SessionStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &repositories.SessionStats{}
	for _, s := range f.byID {
		if s.UserID != userID || s.Status != models.SessionCompleted {
			continue
		}
		stats.Completed++
		stats.TotalSeconds += s.Duration
		if s.EndTime != nil && (stats.LastSessionEnd == nil || s.EndTime.After(*stats.LastSessionEnd)) {
			end := *s.EndTime
			stats.LastSessionEnd = &end
		}
	}
	return stats, nil
}

func (f *fakeSessions) CompletedSince(ctx context.Context, userID int64, since time.Time) ([]repositories.SessionSpan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	spans := []repositories.SessionSpan{}
	for _, s := range f.byID {
		if s.UserID == userID && s.Status == models.SessionCompleted && !s.StartTime.Before(since) {
			spans = append(spans, repositories.SessionSpan{
				StartTime: s.StartTime, Duration: s.Duration, Subject: s.Subject, FocusScore: s.FocusScore,
			})
		}
	}
	return spans, nil
}

// ===============================
// BADGES
// ===============================

type fakeBadges struct {
	mu     sync.Mutex
	nextID int64
	byCode map[string]*models.Badge
	awards map[int64]map[int64]time.Time
}

func newFakeBadges() *fakeBadges {
	return &fakeBadges{byCode: make(map[string]*models.Badge), awards: make(map[int64]map[int64]time.Time)}
}

func (f *fakeBadges) Ensure(ctx context.Context, badge *models.Badge) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.byCode[badge.Code]; ok {
		return b.ID, nil
	}
	f.nextID++
	c := *badge
	c.ID = f.nextID
	f.byCode[badge.Code] = &c
	return c.ID, nil
}

func (f *fakeBadges) Award(ctx context.Context, userID, badgeID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.awards[userID] == nil {
		f.awards[userID] = make(map[int64]time.Time)
	}
	if _, ok := f.awards[userID][badgeID]; ok {
		return false, nil
	}
	f.awards[userID][badgeID] = time.Now()
	return true, nil
}

func (f *fakeBadges) List(ctx context.Context) ([]*models.Badge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Badge{}
	for _, b := range f.byCode {
		c := *b
		out = append(out, &c)
	}
	return out, nil
}

func (f *fakeBadges) ListForUser(ctx context.Context, userID int64) ([]*models.UserBadge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.UserBadge{}
	for _, b := range f.byCode {
		if at, ok := f.awards[userID][b.ID]; ok {
			out = append(out, &models.UserBadge{Badge: *b, EarnedAt: at})
		}
	}
	sort.Slice(out, func(i, j int) bool { return strings.Compare(out[i].Code, out[j].Code) < 0 })
	return out, nil
}
