package services

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"studyos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCommunity struct {
	mu       sync.Mutex
	nextID   int64
	groups   []*models.Group
	members  map[int64]map[int64]bool
	messages []*models.Message
}

func newFakeCommunity() *fakeCommunity {
	return &fakeCommunity{members: make(map[int64]map[int64]bool)}
}

func (f *fakeCommunity) CountGroups(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.groups), nil
}

func (f *fakeCommunity) CreateGroup(ctx context.Context, group *models.Group) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.groups {
		if g.Name == group.Name {
			*group = *g
			return nil
		}
	}
	f.nextID++
	group.ID = f.nextID
	group.CreatedAt = time.Now()
	c := *group
	f.groups = append(f.groups, &c)
	return nil
}

func (f *fakeCommunity) GetGroup(ctx context.Context, id int64) (*models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.groups {
		if g.ID == id {
			c := *g
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCommunity) ListGroups(ctx context.Context, viewerID int64) ([]*models.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Group, 0, len(f.groups))
	for _, g := range f.groups {
		c := *g
		c.MemberCount = len(f.members[g.ID])
		c.IsMember = f.members[g.ID][viewerID]
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCommunity) Join(ctx context.Context, groupID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.members[groupID] == nil {
		f.members[groupID] = make(map[int64]bool)
	}
	f.members[groupID][userID] = true
	return nil
}

func (f *fakeCommunity) Leave(ctx context.Context, groupID, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.members[groupID][userID] {
		return false, nil
	}
	delete(f.members[groupID], userID)
	return true, nil
}

func (f *fakeCommunity) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.members[groupID][userID], nil
}

func (f *fakeCommunity) ListMessages(ctx context.Context, groupID int64, limit int) ([]*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Message{}
	for _, m := range f.messages {
		if m.GroupID == groupID {
			c := *m
			out = append(out, &c)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeCommunity) CreateMessage(ctx context.Context, message *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	message.ID = f.nextID
	message.CreatedAt = time.Now()
	c := *message
	f.messages = append(f.messages, &c)
	return nil
}

func TestCommunitySeedsDefaultGroupsOnce(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCommunity()
	svc := NewCommunityService(repo, nil, zap.NewNop())

	groups, err := svc.ListGroups(ctx, 1)
	require.NoError(t, err)
	require.Len(t, groups, len(DefaultGroups))
	assert.Equal(t, "General Chat", groups[0].Name)

	require.NoError(t, svc.EnsureDefaultGroups(ctx))
	count, _ := repo.CountGroups(ctx)
	assert.Equal(t, len(DefaultGroups), count)
}

func TestCommunityMessagingRequiresMembership(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCommunity()
	svc := NewCommunityService(repo, nil, zap.NewNop())
	require.NoError(t, svc.EnsureDefaultGroups(ctx))

	const member, outsider int64 = 1, 2
	groupID := int64(1)
	require.NoError(t, svc.Join(ctx, member, groupID))
	require.NoError(t, svc.Join(ctx, member, groupID))

	msg, err := svc.PostMessage(ctx, member, groupID, &PostMessageRequest{Content: "  hello  "})
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Content)

	_, err = svc.PostMessage(ctx, outsider, groupID, &PostMessageRequest{Content: "hi"})
	assert.True(t, IsForbiddenError(err))

	_, err = svc.Messages(ctx, outsider, groupID)
	assert.True(t, IsForbiddenError(err))

	_, err = svc.Messages(ctx, member, 404)
	assert.True(t, IsNotFoundError(err))

	history, err := svc.Messages(ctx, member, groupID)
	require.NoError(t, err)
	require.Len(t, history, 1)

	_, err = svc.PostMessage(ctx, member, groupID, &PostMessageRequest{Content: "   "})
	assert.True(t, IsValidationError(err))
}

func TestCommunityLeave(t *testing.T) {
	ctx := context.Background()
	svc := NewCommunityService(newFakeCommunity(), nil, zap.NewNop())
	require.NoError(t, svc.EnsureDefaultGroups(ctx))

	assert.True(t, IsNotFoundError(svc.Leave(ctx, 1, 1)))
	require.NoError(t, svc.Join(ctx, 1, 1))
	require.NoError(t, svc.Leave(ctx, 1, 1))
	assert.True(t, IsForbiddenError(svc.Authorize(ctx, 1, 1)))
}

func TestCommunityCreateGroup(t *testing.T) {
	ctx := context.Background()
	svc := NewCommunityService(newFakeCommunity(), nil, zap.NewNop())

	group, err := svc.CreateGroup(ctx, 7, &CreateGroupRequest{Name: "Go Gophers", Description: "channels"})
	require.NoError(t, err)
	assert.True(t, group.IsMember)
	assert.Equal(t, 1, group.MemberCount)
	require.NoError(t, svc.Authorize(ctx, 7, group.ID))

	_, err = svc.CreateGroup(ctx, 8, &CreateGroupRequest{Name: "Go Gophers"})
	require.Error(t, err)
	assert.Equal(t, "GROUP_EXISTS", GetServiceError(err).Code)
}
