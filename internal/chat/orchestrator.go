package chat

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"chatbot-backend/internal/database"
	"chatbot-backend/internal/inference"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// summarizeEvery triggers a re-summarization whenever the stored turn count
// reaches a multiple of it.
const summarizeEvery = 10

type Orchestrator struct {
	db  *gorm.DB
	llm *inference.Client
}

func NewOrchestrator(db *gorm.DB, llm *inference.Client) *Orchestrator {
	return &Orchestrator{db: db, llm: llm}
}

// Answer is the result of one accepted question: the assistant's reply plus
// the updated session and its full turn list.
type Answer struct {
	Reply   string
	Session database.ChatSession
	Turns   []database.ChatTurn
}

// HandleQuestion runs one question through the session lifecycle: resolve or
// create the session, assemble the bounded history from the pre-update
// state, call the inference service, append the user/assistant pair,
// re-summarize on every summarizeEvery-th turn, and persist. An inference
// failure aborts before anything is written; a summarization failure is
// logged and swallowed.
func (o *Orchestrator) HandleQuestion(ctx context.Context, question, sessionID, userID string) (Answer, error) {
	var session database.ChatSession
	var turns []database.ChatTurn
	created := true

	if id, err := uuid.Parse(sessionID); err == nil {
		existing, err := GetSession(ctx, o.db, id)
		switch {
		case err == nil:
			session = existing
			created = false
			if turns, err = GetTurns(ctx, o.db, id); err != nil {
				return Answer{}, err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			// Unknown id, fall through to creating a fresh session.
		default:
			return Answer{}, err
		}
	}

	if created {
		session = database.ChatSession{
			ID:     uuid.New(),
			UserID: sql.NullString{String: userID, Valid: userID != ""},
			Title:  database.DefaultSessionTitle,
		}
	}

	history := BuildHistory(&session, turns)

	reply, err := o.llm.Answer(ctx, question, history)
	if err != nil {
		return Answer{}, err
	}

	now := time.Now().UTC()
	exchange := []database.ChatTurn{
		{SessionID: session.ID, Role: database.RoleUser, Content: question, CreatedAt: now},
		{SessionID: session.ID, Role: database.RoleAssistant, Content: reply, CreatedAt: now},
	}
	turns = append(turns, exchange...)

	if len(turns)%summarizeEvery == 0 {
		summary, err := o.llm.Summarize(ctx, toMessages(turns))
		if err != nil {
			slog.Warn("summarization failed, keeping previous summary", "session_id", session.ID, "error", err)
		} else {
			session.Summary = summary
		}
	}

	if created {
		err = InsertSession(ctx, o.db, &session, exchange)
	} else {
		err = AppendExchange(ctx, o.db, &session, exchange)
	}
	if err != nil {
		return Answer{}, err
	}

	return Answer{Reply: reply, Session: session, Turns: turns}, nil
}
