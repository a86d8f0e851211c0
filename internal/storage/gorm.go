package storage

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// chatRow is the gorm model for one log entry.
type chatRow struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	RoomID    string `gorm:"index;size:64"`
	Message   string `gorm:"type:text"`
	UserID    string `gorm:"size:64"`
	CreatedAt time.Time
}

func (chatRow) TableName() string { return "chats" }

// GormStore persists the operation log in MySQL through gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens a MySQL connection and migrates the chats table.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	if err := db.AutoMigrate(&chatRow{}); err != nil {
		return nil, fmt.Errorf("migrate chats: %w", err)
	}

	return &GormStore{db: db}, nil
}

// Append adds an entry to the room's log.
func (g *GormStore) Append(roomID, message, userID string) error {
	row := chatRow{RoomID: roomID, Message: message, UserID: userID}
	if err := g.db.Create(&row).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrAppendFailed, err)
	}

	return nil
}

// FetchAll retrieves every entry for a room, newest-first. Insertion order is
// the primary key, so ordering survives clock skew between relay instances.
func (g *GormStore) FetchAll(roomID string) ([]Record, error) {
	var rows []chatRow
	if err := g.db.Where("room_id = ?", roomID).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = Record{
			RoomID:    row.RoomID,
			Message:   row.Message,
			UserID:    row.UserID,
			CreatedAt: row.CreatedAt,
		}
	}

	return records, nil
}

// Ensure GormStore implements Store.
var _ Store = (*GormStore)(nil)
