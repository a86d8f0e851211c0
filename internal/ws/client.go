package ws

import (
	"errors"
	"sync"
)

// sendQueueSize bounds the per-client outbound queue. A client that falls
// this many frames behind is treated as unreachable by the next send.
const sendQueueSize = 64

// Common errors.
var (
	ErrClientClosed  = errors.New("client closed")
	ErrSendQueueFull = errors.New("send queue full")
)

// Conn abstracts a WebSocket connection for testability.
type Conn interface {
	WriteJSON(v any) error
	ReadJSON(v any) error
	Ping() error
	Close() error
}

// Client represents one authenticated connection. A client may be a member
// of several rooms at once; the room set lives here, mirroring the
// per-connection session state the relay tracks.
//
// Outbound messages pass through a queue drained by a single writer
// goroutine, so messages reach the transport in the order they were queued.
type Client struct {
	ID       string
	UserID   string
	UserName string
	conn     Conn

	send chan Message
	done chan struct{}

	// writeMu serializes transport writes; pings race the writer goroutine.
	writeMu sync.Mutex

	mu     sync.Mutex
	rooms  map[string]struct{}
	closed bool
}

// NewClient creates a new client wrapper and starts its writer goroutine.
func NewClient(id, userID, userName string, conn Conn) *Client {
	c := &Client{
		ID:       id,
		UserID:   userID,
		UserName: userName,
		conn:     conn,
		send:     make(chan Message, sendQueueSize),
		done:     make(chan struct{}),
		rooms:    make(map[string]struct{}),
	}

	go c.writeLoop()

	return c
}

// Send queues a message for delivery. Send never blocks: a full queue means
// the client cannot keep up and the message is rejected.
func (c *Client) Send(msg Message) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()

	if closed {
		return ErrClientClosed
	}

	select {
	case c.send <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// writeLoop is the only writer of data frames. It drains the queue in order
// until the client closes or the transport fails.
func (c *Client) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			c.writeMu.Lock()
			err := c.conn.WriteJSON(msg)
			c.writeMu.Unlock()

			if err != nil {
				return
			}
		}
	}
}

// Receive reads the next message from the client.
func (c *Client) Receive() (Message, error) {
	var msg Message
	if err := c.conn.ReadJSON(&msg); err != nil {
		return Message{}, err
	}

	return msg, nil
}

// Ping probes the underlying transport.
func (c *Client) Ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.conn.Ping()
}

// Close stops the writer goroutine and closes the connection. Messages still
// queued are dropped. Close is idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()

		return nil
	}

	c.closed = true
	close(c.done)
	c.mu.Unlock()

	return c.conn.Close()
}

// JoinRoom adds the room to the client's set. Returns false if the client
// was already a member; duplicate joins are no-ops.
func (c *Client) JoinRoom(roomID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.rooms[roomID]; ok {
		return false
	}

	c.rooms[roomID] = struct{}{}

	return true
}

// LeaveRoom removes the room from the client's set. Returns false if the
// client was not a member.
func (c *Client) LeaveRoom(roomID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.rooms[roomID]; !ok {
		return false
	}

	delete(c.rooms, roomID)

	return true
}

// InRoom reports whether the client is a member of the room.
func (c *Client) InRoom(roomID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.rooms[roomID]

	return ok
}

// Rooms returns a snapshot of the client's room set.
func (c *Client) Rooms() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	rooms := make([]string, 0, len(c.rooms))
	for roomID := range c.rooms {
		rooms = append(rooms, roomID)
	}

	return rooms
}
