package community

import (
	"net/http"

	"studyos/internal/response"
	"studyos/internal/services"
	"studyos/internal/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// GroupStreamer upgrades a request into a live group feed
type GroupStreamer interface {
	ServeGroup(w http.ResponseWriter, r *http.Request, userID, groupID int64) error
}

// CommunityController handles study groups and their chat
type CommunityController struct {
	service         services.CommunityService
	streamer        GroupStreamer
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewCommunityController creates a new community controller; a nil streamer
// disables the websocket route
func NewCommunityController(
	service services.CommunityService,
	streamer GroupStreamer,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *CommunityController {
	return &CommunityController{
		service:         service,
		streamer:        streamer,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// RegisterRoutes registers community routes on an authenticated router
func (c *CommunityController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/community/groups", c.ListGroups).Methods(http.MethodGet)
	r.HandleFunc("/community/groups", c.CreateGroup).Methods(http.MethodPost)
	r.HandleFunc("/community/groups/{id:[0-9]+}/join", c.JoinGroup).Methods(http.MethodPost)
	r.HandleFunc("/community/groups/{id:[0-9]+}/leave", c.LeaveGroup).Methods(http.MethodPost)
	r.HandleFunc("/community/groups/{id:[0-9]+}/messages", c.ListMessages).Methods(http.MethodGet)
	r.HandleFunc("/community/groups/{id:[0-9]+}/messages", c.PostMessage).Methods(http.MethodPost)
	if c.streamer != nil {
		r.HandleFunc("/community/groups/{id:[0-9]+}/ws", c.Stream).Methods(http.MethodGet)
	}
}

// ===============================
// GROUPS
// ===============================

// ListGroups handles GET /api/community/groups
func (c *CommunityController) ListGroups(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	groups, err := c.service.ListGroups(r.Context(), userID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteList(w, r, groups, len(groups))
}

// CreateGroup handles POST /api/community/groups. The creator joins automatically.
func (c *CommunityController) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.UserID(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	var req services.CreateGroupRequest
	if err := utils.DecodeJSON(r, &req, false); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	group, err := c.service.CreateGroup(r.Context(), userID, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.logger.Info("Group created",
		zap.Int64("group_id", group.ID),
		zap.Int64("user_id", userID),
	)
	c.responseBuilder.WriteCreated(w, r, group)
}

// JoinGroup handles POST /api/community/groups/{id}/join
func (c *CommunityController) JoinGroup(w http.ResponseWriter, r *http.Request) {
	userID, groupID, err := c.ids(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	if err := c.service.Join(r.Context(), userID, groupID); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteNoContent(w, r)
}

// LeaveGroup handles POST /api/community/groups/{id}/leave
func (c *CommunityController) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	userID, groupID, err := c.ids(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	if err := c.service.Leave(r.Context(), userID, groupID); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteNoContent(w, r)
}

// ===============================
// CHAT
// ===============================

// ListMessages handles GET /api/community/groups/{id}/messages
func (c *CommunityController) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, groupID, err := c.ids(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	messages, err := c.service.Messages(r.Context(), userID, groupID)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteList(w, r, messages, len(messages))
}

// PostMessage handles POST /api/community/groups/{id}/messages
func (c *CommunityController) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID, groupID, err := c.ids(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	var req services.PostMessageRequest
	if err := utils.DecodeJSON(r, &req, false); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	message, err := c.service.PostMessage(r.Context(), userID, groupID, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteCreated(w, r, message)
}

// Stream handles GET /api/community/groups/{id}/ws. Membership is checked
// before the upgrade so refusals still get a JSON error.
func (c *CommunityController) Stream(w http.ResponseWriter, r *http.Request) {
	userID, groupID, err := c.ids(r)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	if err := c.service.Authorize(r.Context(), userID, groupID); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	// the upgrader has already answered the client when this fails
	if err := c.streamer.ServeGroup(w, r, userID, groupID); err != nil {
		c.logger.Debug("Websocket upgrade failed",
			zap.Int64("group_id", groupID),
			zap.Error(err),
		)
	}
}

func (c *CommunityController) ids(r *http.Request) (int64, int64, error) {
	userID, err := utils.UserID(r)
	if err != nil {
		return 0, 0, err
	}
	groupID, err := utils.PathID(r, "id")
	if err != nil {
		return 0, 0, err
	}
	return userID, groupID, nil
}
