package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/serroba/whiteboard/internal/ws"
)

// handleWebSocket handles GET /ws?token={jwt}.
//
// The token is verified after the upgrade so that a rejected client sees
// only a closed socket, never an error detail (fail-closed).
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)

		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)

		return
	}

	claims, err := s.verifier.Verify(r.URL.Query().Get("token"))
	if err != nil {
		log.Printf("rejected connection: %v", err)
		_ = conn.Close()

		return
	}

	client := ws.NewClient(uuid.New().String(), claims.UserID, claims.UserName, wsConn{conn})
	s.hub.Register(client)

	log.Printf("user %s connected", claims.UserID)

	defer func() {
		// Disconnect counts as an implicit leave for every joined room.
		rooms := s.hub.Unregister(client)
		_ = client.Close()

		for _, roomID := range rooms {
			s.hub.BroadcastUserCount(roomID)
		}

		log.Printf("user %s disconnected", claims.UserID)
	}()

	s.readLoop(client)
}

// readLoop processes inbound frames one at a time until the connection dies.
// Each connection has its own reader goroutine, so a slow persist for one
// client never stalls another.
func (s *Server) readLoop(client *ws.Client) {
	for {
		msg, err := client.Receive()
		if err != nil {
			if isMalformedFrame(err) {
				// Invalid JSON: drop the frame, keep the connection.
				continue
			}

			return
		}

		switch msg.Type {
		case ws.MessageTypeJoinRoom:
			s.hub.JoinRoom(client, msg.RoomID)
		case ws.MessageTypeLeaveRoom:
			s.hub.LeaveRoom(client, msg.RoomID)
		case ws.MessageTypeDrawing:
			s.handleDrawing(client, msg)
		case ws.MessageTypeChat:
			s.handleChat(client, msg)
		case ws.MessageTypeUserCount:
			// Server-to-client only; ignore.
		}
	}
}

// handleDrawing relays an ephemeral live-preview payload to every other
// member of the room. Nothing is persisted.
func (s *Server) handleDrawing(client *ws.Client, msg ws.Message) {
	if msg.RoomID == "" || !client.InRoom(msg.RoomID) {
		return
	}

	s.hub.BroadcastToRoom(msg.RoomID, ws.Message{
		Type:   ws.MessageTypeDrawing,
		RoomID: msg.RoomID,
		Data:   msg.Data,
		UserID: client.UserID,
	}, client.ID)
}

// handleChat is the durable operation path: persist first, then echo to
// every member of the room including the sender. A failed append is logged
// and the broadcast skipped, so the durable log never trails what peers saw.
func (s *Server) handleChat(client *ws.Client, msg ws.Message) {
	if msg.RoomID == "" || !client.InRoom(msg.RoomID) {
		return
	}

	if err := s.store.Append(msg.RoomID, msg.Message, client.UserID); err != nil {
		log.Printf("chat append failed for room %s: %v", msg.RoomID, err)

		return
	}

	s.hub.BroadcastToRoom(msg.RoomID, ws.Message{
		Type:    ws.MessageTypeChat,
		RoomID:  msg.RoomID,
		Message: msg.Message,
		UserID:  client.UserID,
	}, "")
}

// isMalformedFrame reports whether the receive error came from invalid JSON
// in an otherwise healthy frame, as opposed to a dead connection.
func isMalformedFrame(err error) bool {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return true
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return true
	}

	return errors.Is(err, io.ErrUnexpectedEOF)
}
