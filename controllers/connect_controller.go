package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/astroveda/connect-backend/utils"
	"github.com/astroveda/connect-backend/ws"
)

// ConnectController owns the live WebSocket registries
type ConnectController struct {
	Hub      *ws.Hub
	Rooms    *ws.RoomRegistry
	upgrader websocket.Upgrader
}

// NewConnectController builds the controller around shared registries
func NewConnectController(hub *ws.Hub, rooms *ws.RoomRegistry) *ConnectController {
	return &ConnectController{
		Hub:   hub,
		Rooms: rooms,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Notifications serves the global notification stream. Inbound frames are
// drained and discarded; the first read error tears the connection down.
func (cc *ConnectController) Notifications(c *gin.Context) {
	conn, err := cc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.LogError("Failed to upgrade notification socket: %v", err)
		return
	}

	client := ws.NewClient(conn)
	cc.Hub.Connect(client)
	defer cc.Hub.Disconnect(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// SessionRoom serves the per-session signaling channel. Each inbound JSON
// frame is stamped with the sender and relayed to the other participants.
func (cc *ConnectController) SessionRoom(c *gin.Context) {
	sessionID := c.Param("session_id")
	userID := c.Param("user_id")

	conn, err := cc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.LogError("Failed to upgrade room socket for session %s: %v", sessionID, err)
		return
	}

	client := ws.NewClient(conn)
	cc.Rooms.Connect(client, sessionID, userID)

	for {
		var message map[string]interface{}
		if err := conn.ReadJSON(&message); err != nil {
			cc.Rooms.Disconnect(sessionID, userID)
			cc.Rooms.Broadcast(map[string]interface{}{
				"type":    "user_disconnected",
				"user_id": userID,
			}, sessionID, userID)
			return
		}
		message["sender_id"] = userID
		cc.Rooms.Broadcast(message, sessionID, userID)
	}
}
