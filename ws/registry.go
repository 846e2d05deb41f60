// Package ws holds the in-memory connection registries for the two realtime
// surfaces: the site-wide notification channel and the per-session signaling
// rooms. Registries are plain structs owned by main and injected into the
// handlers; each is guarded by one mutex held only across map mutation, never
// across a network send.
package ws

import (
	"sync"

	"github.com/astroveda/connect-backend/utils"
)

// Conn is the connection surface the registries need. *websocket.Conn
// satisfies it; tests substitute fakes.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Client wraps a connection with a write lock. Gorilla connections support
// only one concurrent writer, and a client can be the target of overlapping
// broadcasts.
type Client struct {
	conn Conn
	mu   sync.Mutex
}

// NewClient wraps conn for registry use
func NewClient(conn Conn) *Client {
	return &Client{conn: conn}
}

// Send writes one JSON message, serialized against other senders
func (c *Client) Send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Close closes the underlying connection
func (c *Client) Close() error {
	return c.conn.Close()
}

// Hub is the global broadcast registry for the notification channel.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
}

// NewHub creates an empty notification hub
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// Connect registers a client after the handshake has been accepted
func (h *Hub) Connect(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()
	utils.LogInfo("Notification client connected, total: %d", total)
}

// Disconnect removes a client
func (h *Hub) Disconnect(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	total := len(h.clients)
	h.mu.Unlock()
	utils.LogInfo("Notification client disconnected, total: %d", total)
}

// Broadcast sends message to every registered client. The member list is
// snapshotted under the lock and sends happen outside it, so one slow or
// broken peer cannot block the rest. Clients whose send fails are evicted.
func (h *Hub) Broadcast(message interface{}) {
	h.mu.Lock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	var failed []*Client
	for _, c := range targets {
		if err := c.Send(message); err != nil {
			utils.LogError("Notification broadcast send failed, evicting client: %v", err)
			failed = append(failed, c)
		}
	}

	if len(failed) > 0 {
		h.mu.Lock()
		for _, c := range failed {
			delete(h.clients, c)
		}
		h.mu.Unlock()
	}
}

// ClientCount returns the number of registered clients
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// RoomRegistry maps a session id to its connected participants for call/chat
// signaling.
type RoomRegistry struct {
	mu    sync.Mutex
	rooms map[string]map[string]*Client
}

// NewRoomRegistry creates an empty room registry
func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{rooms: make(map[string]map[string]*Client)}
}

// Connect adds a participant's connection to a room, replacing any prior
// entry for the same participant so a reload does not leave a stale
// duplicate behind.
func (r *RoomRegistry) Connect(c *Client, room, participant string) {
	r.mu.Lock()
	members, ok := r.rooms[room]
	if !ok {
		members = make(map[string]*Client)
		r.rooms[room] = members
	}
	members[participant] = c
	r.mu.Unlock()
	utils.LogInfo("User %s connected to session room %s", participant, room)
}

// Disconnect removes a participant from a room, deleting the room once empty
func (r *RoomRegistry) Disconnect(room, participant string) {
	r.mu.Lock()
	if members, ok := r.rooms[room]; ok {
		delete(members, participant)
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}
	r.mu.Unlock()
	utils.LogInfo("User %s disconnected from session room %s", participant, room)
}

// Broadcast forwards message to every participant in the room except the
// sender. Delivery is best effort: a failed send evicts that participant and
// is otherwise swallowed.
func (r *RoomRegistry) Broadcast(message interface{}, room, sender string) {
	type target struct {
		participant string
		client      *Client
	}

	r.mu.Lock()
	members := r.rooms[room]
	targets := make([]target, 0, len(members))
	for participant, client := range members {
		if participant != sender {
			targets = append(targets, target{participant, client})
		}
	}
	r.mu.Unlock()

	for _, t := range targets {
		if err := t.client.Send(message); err != nil {
			utils.LogError("Room %s broadcast to %s failed, evicting: %v", room, t.participant, err)
			r.evict(room, t.participant, t.client)
		}
	}
}

// evict removes a participant only while it is still bound to the failed
// connection, so a reconnect racing the eviction is left alone.
func (r *RoomRegistry) evict(room, participant string, c *Client) {
	r.mu.Lock()
	if members, ok := r.rooms[room]; ok {
		if current, ok := members[participant]; ok && current == c {
			delete(members, participant)
			if len(members) == 0 {
				delete(r.rooms, room)
			}
		}
	}
	r.mu.Unlock()
}

// Participants returns the participant ids currently in the room
func (r *RoomRegistry) Participants(room string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.rooms[room]))
	for participant := range r.rooms[room] {
		ids = append(ids, participant)
	}
	return ids
}

// RoomCount returns the number of active rooms
func (r *RoomRegistry) RoomCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}
