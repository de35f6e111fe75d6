package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"studyos/internal/events"
	"studyos/internal/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		groupID, _ := strconv.ParseInt(r.URL.Query().Get("group"), 10, 64)
		_ = hub.ServeGroup(w, r, 1, groupID)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, groupID int) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?group=" + strconv.Itoa(groupID)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestMessagesReachOnlyTheirGroup(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	bus := events.NewEventBus(nil, zap.NewNop())
	require.NoError(t, hub.Subscribe(bus))
	srv := newTestServer(t, hub)

	member := dial(t, srv, 7)
	other := dial(t, srv, 8)
	require.Eventually(t, func() bool {
		return hub.Subscribers(7) == 1 && hub.Subscribers(8) == 1
	}, time.Second, 10*time.Millisecond)

	msg := &models.Message{ID: 3, GroupID: 7, UserID: 2, AuthorName: "Ada", Content: "hello"}
	require.NoError(t, bus.Publish(context.Background(), events.NewMessagePostedEvent(msg)))

	member.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := member.ReadMessage()
	require.NoError(t, err)

	var got struct {
		Type string         `json:"type"`
		Data models.Message `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "message", got.Type)
	assert.Equal(t, "hello", got.Data.Content)
	assert.Equal(t, "Ada", got.Data.AuthorName)

	other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = other.ReadMessage()
	assert.Error(t, err, "group 8 must not see group 7 traffic")
}

func TestDisconnectUnregisters(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	srv := newTestServer(t, hub)

	conn := dial(t, srv, 4)
	require.Eventually(t, func() bool { return hub.Subscribers(4) == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Subscribers(4) == 0 }, time.Second, 10*time.Millisecond)
}

func TestCloseDisconnectsClients(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	srv := newTestServer(t, hub)

	conn := dial(t, srv, 5)
	require.Eventually(t, func() bool { return hub.Subscribers(5) == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()
	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	assert.Equal(t, 0, hub.Subscribers(5))
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://localhost:3000"})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, check(r), "non-browser clients send no origin")

	r.Header.Set("Origin", "http://localhost:3000")
	assert.True(t, check(r))

	r.Header.Set("Origin", "https://evil.example")
	assert.False(t, check(r))
}
