package database

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      string = "user"
	RoleAssistant string = "assistant"

	// RoleSystem is only used for the synthetic summary entry in the
	// history payload sent to the inference service. It is never stored.
	RoleSystem string = "system"
)

const DefaultSessionTitle = "New Conversation"

type ChatSession struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	UserID  sql.NullString `gorm:"index"`
	Title   string
	Summary string

	// Version guards the read-modify-write of summary/updated_at. Appending
	// an exchange is conditional on it so a concurrent writer cannot
	// silently clobber another request's reply.
	Version int64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"`

	Turns []ChatTurn `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
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
