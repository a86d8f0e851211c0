package game

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/serroba/whiteboard/internal/ws"
)

// Socket is a relay connection for a client engine.
type Socket struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// Dial connects to the relay, passing the auth token as a query parameter.
// relayURL is a ws:// or wss:// URL for the /ws endpoint.
func Dial(ctx context.Context, relayURL, token string) (*Socket, error) {
	u, err := url.Parse(relayURL)
	if err != nil {
		return nil, err
	}

	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}

	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	return &Socket{conn: conn}, nil
}

// Send writes a message to the relay.
func (s *Socket) Send(msg ws.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.conn.WriteJSON(msg)
}

// JoinRoom subscribes this connection to a room.
func (s *Socket) JoinRoom(roomID string) error {
	return s.Send(ws.Message{Type: ws.MessageTypeJoinRoom, RoomID: roomID})
}

// LeaveRoom unsubscribes this connection from a room.
func (s *Socket) LeaveRoom(roomID string) error {
	return s.Send(ws.Message{Type: ws.MessageTypeLeaveRoom, RoomID: roomID})
}

// ReadLoop delivers inbound messages to handle until the connection closes,
// then returns the terminating error. Frames that fail to parse are dropped.
func (s *Socket) ReadLoop(handle func(ws.Message)) error {
	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			return err
		}

		var msg ws.Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}

		handle(msg)
	}
}

// Close closes the connection.
func (s *Socket) Close() error {
	return s.conn.Close()
}

// Ensure Socket implements Sender.
var _ Sender = (*Socket)(nil)
