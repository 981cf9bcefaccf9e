package api

import (
	"time"

	"github.com/google/uuid"
)

type ChatRequest struct {
	Question string `json:"question"`
	ChatID   string `json:"chatId,omitempty"`
}

type TurnView struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type ChatResponse struct {
	Reply   string     `json:"reply"`
	ChatID  string     `json:"chatId"`
	History []TurnView `json:"history"`
}

// ChatSummary is one row of the chat listing: id, first message only, and
// last-updated time, sorted newest first.
type ChatSummary struct {
	ID        uuid.UUID  `json:"_id"`
	Messages  []TurnView `json:"messages"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type ChatDocument struct {
	ID        uuid.UUID  `json:"_id"`
	UserID    *string    `json:"userId"`
	Title     string     `json:"title"`
	Summary   string     `json:"summary"`
	Messages  []TurnView `json:"messages"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
