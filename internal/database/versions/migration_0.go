package versions

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Snapshots of the schema at migration 0. These are copies rather than
// references to the live models so later schema changes do not rewrite
// the migration history.

type ChatSession struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	UserID  sql.NullString `gorm:"index"`
	Title   string
	Summary string

	Version int64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"`
}

type ChatTurn struct {
	ID        uint      `gorm:"primaryKey"`
	SessionID uuid.UUID `gorm:"type:uuid;index;not null"`
	Role      string    `gorm:"size:20;not null"`
	Content   string    `gorm:"not null"`
	CreatedAt time.Time
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string
	Email        string `gorm:"uniqueIndex;not null"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

func Migration0(db *gorm.DB) error {
	err := db.AutoMigrate(
		&ChatSession{}, &ChatTurn{}, &User{},
	)
	if err != nil {
		return fmt.Errorf("initial migration failed: %w", err)
	}
	return nil
}
