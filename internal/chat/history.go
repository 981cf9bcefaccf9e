package chat

import (
	"chatbot-backend/internal/database"
	"chatbot-backend/internal/inference"
)

// maxRecentTurns bounds the context window sent with each question.
const maxRecentTurns = 6

const summaryPrefix = "Previous summary: "

// BuildHistory derives the bounded history payload for the inference
// service: an optional system entry carrying the rolling summary, followed
// by the last maxRecentTurns stored turns in chronological order. The
// result is a view and is never persisted.
func BuildHistory(session *database.ChatSession, turns []database.ChatTurn) []inference.Message {
	history := make([]inference.Message, 0, maxRecentTurns+1)

	if session.Summary != "" {
		history = append(history, inference.Message{
			Role:    database.RoleSystem,
			Content: summaryPrefix + session.Summary,
		})
	}

	start := len(turns) - maxRecentTurns
	if start < 0 {
		start = 0
	}
	for _, turn := range turns[start:] {
		history = append(history, inference.Message{Role: turn.Role, Content: turn.Content})
	}

	return history
}

func toMessages(turns []database.ChatTurn) []inference.Message {
	messages := make([]inference.Message, len(turns))
	for i, turn := range turns {
		messages[i] = inference.Message{Role: turn.Role, Content: turn.Content}
	}
	return messages
}
