// file: internal/realtime/hub.go
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"studyos/internal/events"
	"studyos/internal/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

// Envelope is the frame pushed to subscribers
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Config holds hub configuration
type Config struct {
	// Allowed browser origins; empty allows any
	AllowedOrigins []string
}

// Hub fans group chat messages out to websocket subscribers
type Hub struct {
	mu       sync.RWMutex
	groups   map[int64]map[*client]struct{}
	upgrader websocket.Upgrader
	logger   *zap.Logger
	closed   bool
}

type client struct {
	hub     *Hub
	conn    *websocket.Conn
	userID  int64
	groupID int64
	send    chan []byte
	once    sync.Once
}

// NewHub creates a hub
func NewHub(config *Config, logger *zap.Logger) *Hub {
	if config == nil {
		config = &Config{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		groups: make(map[int64]map[*client]struct{}),
		logger: logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(config.AllowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		return false
	}
}

// Subscribe routes posted messages from the event bus into the hub
func (h *Hub) Subscribe(bus events.EventBus) error {
	return bus.Subscribe(events.TypeMessagePosted, events.NewTypedEventHandler("realtime.hub",
		func(ctx context.Context, e *events.MessagePostedEvent) error {
			h.BroadcastMessage(e.Message)
			return nil
		}))
}

// BroadcastMessage pushes a chat message to everyone watching its group
func (h *Hub) BroadcastMessage(msg *models.Message) {
	if msg == nil {
		return
	}
	payload, err := json.Marshal(Envelope{Type: "message", Data: msg})
	if err != nil {
		h.logger.Error("Failed to encode realtime message", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.groups[msg.GroupID] {
		select {
		case c.send <- payload:
		default:
			// slow consumer; drop it rather than block the bus
			go h.unregister(c)
		}
	}
}

// Subscribers reports how many connections watch a group
func (h *Hub) Subscribers(groupID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[groupID])
}

// ServeGroup upgrades the request and streams the group's messages.
// The caller must have authorized userID for groupID.
func (h *Hub) ServeGroup(w http.ResponseWriter, r *http.Request, userID, groupID int64) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{
		hub:     h,
		conn:    conn,
		userID:  userID,
		groupID: groupID,
		send:    make(chan []byte, sendBuffer),
	}
	if !h.register(c) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		return nil
	}

	h.logger.Debug("Realtime client connected",
		zap.Int64("user_id", userID),
		zap.Int64("group_id", groupID),
	)

	go c.writePump()
	c.readPump()
	return nil
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	if h.groups[c.groupID] == nil {
		h.groups[c.groupID] = make(map[*client]struct{})
	}
	h.groups[c.groupID][c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if set, ok := h.groups[c.groupID]; ok {
		if _, ok := set[c]; ok {
			delete(set, c)
			if len(set) == 0 {
				delete(h.groups, c.groupID)
			}
		}
	}
	h.mu.Unlock()
	c.close()
}

// Close disconnects every subscriber and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	var all []*client
	for _, set := range h.groups {
		for c := range set {
			all = append(all, c)
		}
	}
	h.groups = make(map[int64]map[*client]struct{})
	h.mu.Unlock()

	for _, c := range all {
		c.close()
	}
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// readPump discards client frames; messages are posted over REST
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("Realtime client read error",
					zap.Int64("user_id", c.userID),
					zap.Error(err),
				)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
