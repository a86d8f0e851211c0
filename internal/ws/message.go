package ws

import "encoding/json"

// MessageType identifies the kind of WebSocket message.
type MessageType string

const (
	// Client to Server messages.
	MessageTypeJoinRoom  MessageType = "join_room"  // Client joins a room
	MessageTypeLeaveRoom MessageType = "leave_room" // Client leaves a room

	// Bidirectional messages.
	MessageTypeDrawing MessageType = "drawing" // Ephemeral live-preview data, never persisted
	MessageTypeChat    MessageType = "chat"    // Durable operation, persisted then echoed

	// Server to Client messages.
	MessageTypeUserCount MessageType = "user_count" // Room occupancy update
)

// RoomUser identifies one member in a user_count roster.
type RoomUser struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName,omitempty"`
}

// Message is the envelope for all WebSocket frames. The layout is flat: each
// message type populates the subset of fields it needs.
//
// Chat messages carry a serialized operation in Message. Drawing messages
// carry an opaque preview payload in Data. The server stamps UserID on
// everything it relays.
type Message struct {
	Type    MessageType     `json:"type"`
	RoomID  string          `json:"roomId,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	UserID  string          `json:"userId,omitempty"`
	Count   int             `json:"count,omitempty"`
	Users   []RoomUser      `json:"users,omitempty"`
}
