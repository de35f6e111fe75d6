package services

import (
	"context"
	"strings"

	"studyos/internal/events"
	"studyos/internal/models"
	"studyos/internal/repositories"

	"go.uber.org/zap"
)

const messageHistoryLimit = 50

// DefaultGroups are created when the community has no groups yet
var DefaultGroups = []models.Group{
	{Name: "General Chat", Description: "Hangout and chill"},
	{Name: "React Developers", Description: "Discussing hooks and components"},
	{Name: "Pythonistas", Description: "Data science and scripts"},
}

// communityService implements CommunityService
type communityService struct {
	community repositories.CommunityRepository
	eventBus  events.EventBus
	logger    *zap.Logger
}

// NewCommunityService creates the community service
func NewCommunityService(community repositories.CommunityRepository, eventBus events.EventBus, logger *zap.Logger) CommunityService {
	return &communityService{community: community, eventBus: eventBus, logger: logger}
}

// EnsureDefaultGroups seeds the default groups into an empty community
func (s *communityService) EnsureDefaultGroups(ctx context.Context) error {
	count, err := s.community.CountGroups(ctx)
	if err != nil {
		return internalError(ctx, s.logger, "failed to count groups", err)
	}
	if count > 0 {
		return nil
	}

	for _, def := range DefaultGroups {
		group := def
		if err := s.community.CreateGroup(ctx, &group); err != nil {
			return internalError(ctx, s.logger, "failed to seed groups", err)
		}
	}
	s.logger.Info("Seeded default study groups", zap.Int("count", len(DefaultGroups)))
	return nil
}

// ListGroups returns every group with member counts and the caller's membership
func (s *communityService) ListGroups(ctx context.Context, userID int64) ([]*models.Group, error) {
	if err := s.EnsureDefaultGroups(ctx); err != nil {
		return nil, err
	}
	groups, err := s.community.ListGroups(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to list groups", err)
	}
	return groups, nil
}

// CreateGroup creates a group and makes the creator its first member
func (s *communityService) CreateGroup(ctx context.Context, userID int64, req *CreateGroupRequest) (*models.Group, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	creator := userID
	group := &models.Group{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   &creator,
	}
	if err := s.community.CreateGroup(ctx, group); err != nil {
		return nil, internalError(ctx, s.logger, "failed to create group", err)
	}
	// the insert keeps an existing row with the same name
	if group.CreatedBy == nil || *group.CreatedBy != userID {
		return nil, NewConflictError("a group with this name already exists", "GROUP_EXISTS")
	}

	if err := s.community.Join(ctx, group.ID, userID); err != nil {
		return nil, internalError(ctx, s.logger, "failed to join group", err)
	}
	group.MemberCount = 1
	group.IsMember = true
	return group, nil
}

// Join adds the user to a group. Joining twice is a no-op.
func (s *communityService) Join(ctx context.Context, userID, groupID int64) error {
	if _, err := s.group(ctx, groupID); err != nil {
		return err
	}
	if err := s.community.Join(ctx, groupID, userID); err != nil {
		return internalError(ctx, s.logger, "failed to join group", err)
	}
	return nil
}

// Leave removes the user from a group
func (s *communityService) Leave(ctx context.Context, userID, groupID int64) error {
	if _, err := s.group(ctx, groupID); err != nil {
		return err
	}
	left, err := s.community.Leave(ctx, groupID, userID)
	if err != nil {
		return internalError(ctx, s.logger, "failed to leave group", err)
	}
	if !left {
		return NewNotFoundError("you are not a member of this group")
	}
	return nil
}

// Messages returns the latest messages, oldest first
func (s *communityService) Messages(ctx context.Context, userID, groupID int64) ([]*models.Message, error) {
	if err := s.Authorize(ctx, userID, groupID); err != nil {
		return nil, err
	}
	messages, err := s.community.ListMessages(ctx, groupID, messageHistoryLimit)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to list messages", err)
	}
	return messages, nil
}

// PostMessage stores a message and fans it out to live subscribers
func (s *communityService) PostMessage(ctx context.Context, userID, groupID int64, req *PostMessageRequest) (*models.Message, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, InvalidInputError("content", "must not be blank")
	}
	if err := s.Authorize(ctx, userID, groupID); err != nil {
		return nil, err
	}

	message := &models.Message{GroupID: groupID, UserID: userID, Content: content}
	if err := s.community.CreateMessage(ctx, message); err != nil {
		return nil, internalError(ctx, s.logger, "failed to post message", err)
	}

	publishEvent(ctx, s.eventBus, s.logger, events.NewMessagePostedEvent(message))
	return message, nil
}

// Authorize fails with 404 for unknown groups and 403 for non-members
func (s *communityService) Authorize(ctx context.Context, userID, groupID int64) error {
	if _, err := s.group(ctx, groupID); err != nil {
		return err
	}
	member, err := s.community.IsMember(ctx, groupID, userID)
	if err != nil {
		return internalError(ctx, s.logger, "failed to check membership", err)
	}
	if !member {
		return NewForbiddenError("join this group to see and post messages")
	}
	return nil
}

func (s *communityService) group(ctx context.Context, groupID int64) (*models.Group, error) {
	group, err := s.community.GetGroup(ctx, groupID)
	if err != nil {
		return nil, internalError(ctx, s.logger, "failed to get group", err)
	}
	if group == nil {
		return nil, EntityNotFoundError("group", groupID)
	}
	return group, nil
}
