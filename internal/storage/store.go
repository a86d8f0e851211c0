package storage

import (
	"errors"
	"time"
)

// Common errors.
var (
	ErrAppendFailed = errors.New("append failed")
)

// Record is one durable entry in a room's operation log.
type Record struct {
	RoomID    string
	Message   string
	UserID    string
	CreatedAt time.Time
}

// Store defines the interface for the append-only operation log backing a
// room. Implementations can use in-memory storage, databases, or other
// backends.
//
// FetchAll returns records newest-first; callers replaying history reverse
// the slice before applying.
type Store interface {
	// Append adds an entry to the room's log.
	Append(roomID, message, userID string) error

	// FetchAll retrieves every entry for a room, newest-first.
	FetchAll(roomID string) ([]Record, error)
}
