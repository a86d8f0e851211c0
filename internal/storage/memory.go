package storage

import (
	"sync"
	"time"
)

// MemoryStore is an in-memory implementation of the Store interface.
// Useful for testing and development.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string][]Record
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms: make(map[string][]Record),
	}
}

// Append adds an entry to the room's log.
func (m *MemoryStore) Append(roomID, message, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rooms[roomID] = append(m.rooms[roomID], Record{
		RoomID:    roomID,
		Message:   message,
		UserID:    userID,
		CreatedAt: time.Now(),
	})

	return nil
}

// FetchAll retrieves every entry for a room, newest-first.
func (m *MemoryStore) FetchAll(roomID string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := m.rooms[roomID]
	result := make([]Record, len(records))

	for i, r := range records {
		result[len(records)-1-i] = r
	}

	return result, nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
