package controllers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroveda/connect-backend/ws"
)

func newWSTestServer(t *testing.T) (*httptest.Server, *ws.Hub, *ws.RoomRegistry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := ws.NewHub()
	rooms := ws.NewRoomRegistry()
	cc := NewConnectController(hub, rooms)

	router := gin.New()
	router.GET("/ws/notifications", cc.Notifications)
	router.GET("/ws/:session_id/:user_id", cc.SessionRoom)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, hub, rooms
}

func dialWS(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForCondition(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.FailNow(t, "condition not met within 2s")
}

func readRoomMessage(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var message map[string]interface{}
	require.NoError(t, conn.ReadJSON(&message))
	return message
}

func TestSessionRoomRelayStampsSender(t *testing.T) {
	srv, _, rooms := newWSTestServer(t)

	first := dialWS(t, srv, "/ws/call-1/caller")
	second := dialWS(t, srv, "/ws/call-1/callee")
	waitForCondition(t, func() bool { return len(rooms.Participants("call-1")) == 2 })

	require.NoError(t, first.WriteJSON(map[string]interface{}{"type": "offer", "sdp": "v=0"}))

	message := readRoomMessage(t, second)
	assert.Equal(t, "offer", message["type"])
	assert.Equal(t, "caller", message["sender_id"])
}

func TestSessionRoomPeerDropEmitsUserDisconnected(t *testing.T) {
	srv, _, rooms := newWSTestServer(t)

	first := dialWS(t, srv, "/ws/call-2/caller")
	second := dialWS(t, srv, "/ws/call-2/callee")
	waitForCondition(t, func() bool { return len(rooms.Participants("call-2")) == 2 })

	require.NoError(t, first.Close())

	message := readRoomMessage(t, second)
	assert.Equal(t, "user_disconnected", message["type"])
	assert.Equal(t, "caller", message["user_id"])

	waitForCondition(t, func() bool { return len(rooms.Participants("call-2")) == 1 })
}

func TestNotificationsBroadcastReachesClient(t *testing.T) {
	srv, hub, _ := newWSTestServer(t)

	conn := dialWS(t, srv, "/ws/notifications")
	waitForCondition(t, func() bool { return hub.ClientCount() == 1 })

	hub.Broadcast(map[string]interface{}{"type": "announcement", "message": "Settlement complete"})

	message := readRoomMessage(t, conn)
	assert.Equal(t, "announcement", message["type"])
	assert.Equal(t, "Settlement complete", message["message"])
}
