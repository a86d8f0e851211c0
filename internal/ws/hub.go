package ws

import (
	"context"
	"sync"
	"time"
)

// DefaultSweepInterval is how often the hub scans for dead connections when
// no interval is configured.
const DefaultSweepInterval = 30 * time.Second

// Tracker mirrors room membership changes into an external presence store.
// Implementations must be fast and must not fail the caller; the hub is
// correct without one.
type Tracker interface {
	Join(ctx context.Context, roomID, userID, userName string)
	Leave(ctx context.Context, roomID, userID string)
}

// Hub owns the relay's connection registry. It fans messages out to room
// members, broadcasts occupancy changes, and sweeps out connections whose
// close event never fired.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client

	tracker Tracker
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// SetTracker attaches an optional presence tracker. Call before serving.
func (h *Hub) SetTracker(t Tracker) {
	h.tracker = t
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
}

// Unregister removes a client from the hub and returns the rooms it had
// joined so the caller can rebroadcast occupancy for each of them.
func (h *Hub) Unregister(client *Client) []string {
	h.mu.Lock()
	delete(h.clients, client.ID)
	h.mu.Unlock()

	rooms := client.Rooms()

	if h.tracker != nil {
		for _, roomID := range rooms {
			h.tracker.Leave(context.Background(), roomID, client.UserID)
		}
	}

	return rooms
}

// JoinRoom adds the client to a room and broadcasts the updated occupancy to
// every member. A duplicate join is a no-op.
func (h *Hub) JoinRoom(client *Client, roomID string) {
	if !client.JoinRoom(roomID) {
		return
	}

	if h.tracker != nil {
		h.tracker.Join(context.Background(), roomID, client.UserID, client.UserName)
	}

	h.BroadcastUserCount(roomID)
}

// LeaveRoom removes the client from a room and broadcasts the updated
// occupancy to the remaining members.
func (h *Hub) LeaveRoom(client *Client, roomID string) {
	if !client.LeaveRoom(roomID) {
		return
	}

	if h.tracker != nil {
		h.tracker.Leave(context.Background(), roomID, client.UserID)
	}

	h.BroadcastUserCount(roomID)
}

// BroadcastToRoom sends a message to every client in the room. An empty
// excludeClientID includes everyone; chat echoes rely on that, while drawing
// previews exclude their sender.
//
// Send only queues the message; the client's writer goroutine owns the
// transport. Messages broadcast back to back reach each member in broadcast
// order, and a slow member never stalls the others.
func (h *Hub) BroadcastToRoom(roomID string, msg Message, excludeClientID string) {
	for _, client := range h.roomMembers(roomID) {
		if client.ID == excludeClientID {
			continue
		}

		_ = client.Send(msg)
	}
}

// BroadcastUserCount sends the current occupancy and roster of a room to all
// of its members.
func (h *Hub) BroadcastUserCount(roomID string) {
	members := h.roomMembers(roomID)

	msg := Message{
		Type:   MessageTypeUserCount,
		RoomID: roomID,
		Count:  len(members),
		Users:  roster(members),
	}

	for _, client := range members {
		_ = client.Send(msg)
	}
}

// RoomCount returns the number of clients currently in a room.
func (h *Hub) RoomCount(roomID string) int {
	return len(h.roomMembers(roomID))
}

// RoomUsers returns the roster of a room as this relay sees it.
func (h *Hub) RoomUsers(roomID string) []RoomUser {
	return roster(h.roomMembers(roomID))
}

func roster(members []*Client) []RoomUser {
	users := make([]RoomUser, 0, len(members))
	for _, client := range members {
		users = append(users, RoomUser{UserID: client.UserID, UserName: client.UserName})
	}

	return users
}

// TotalClients returns the total number of connected clients.
func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Sweep removes every client whose transport no longer answers a ping and
// rebroadcasts occupancy for the rooms they had joined. This guards against
// close events that are dropped or never fire.
func (h *Hub) Sweep() []string {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))

	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	affected := make(map[string]struct{})

	for _, client := range clients {
		if client.Ping() == nil {
			continue
		}

		for _, roomID := range h.Unregister(client) {
			affected[roomID] = struct{}{}
		}

		_ = client.Close()
	}

	rooms := make([]string, 0, len(affected))
	for roomID := range affected {
		rooms = append(rooms, roomID)
		h.BroadcastUserCount(roomID)
	}

	return rooms
}

// RunSweeper runs Sweep on a fixed interval until the context is canceled.
func (h *Hub) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Sweep()
		}
	}
}

// roomMembers snapshots the clients currently in a room.
func (h *Hub) roomMembers(roomID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members := make([]*Client, 0)

	for _, client := range h.clients {
		if client.InRoom(roomID) {
			members = append(members, client)
		}
	}

	return members
}
