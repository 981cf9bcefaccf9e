package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"chatbot-backend/internal/auth"
	"chatbot-backend/internal/chat"
	"chatbot-backend/internal/database"
	"chatbot-backend/internal/inference"
	"chatbot-backend/pkg/api"
)

type ChatService struct {
	db           *gorm.DB
	orchestrator *chat.Orchestrator
	auth         *auth.Authenticator
}

func NewChatService(db *gorm.DB, llm *inference.Client, authenticator *auth.Authenticator) *ChatService {
	return &ChatService{
		db:           db,
		orchestrator: chat.NewOrchestrator(db, llm),
		auth:         authenticator,
	}
}

func (s *ChatService) AddRoutes(r chi.Router) {
	r.Post("/api/chat", RestHandler(s.SendQuestion))
	r.Get("/api/get-all-chats", RestHandler(s.GetAllChats))
	r.Get("/api/chat/{chat_id}", RestHandler(s.GetChat))
}

func (s *ChatService) SendQuestion(r *http.Request) (any, error) {
	req, err := ParseRequest[api.ChatRequest](r)
	if err != nil {
		return nil, err
	}
	if req.Question == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "question is required")
	}

	// Anonymous sessions are allowed; a valid token cookie only determines
	// the owner of a newly created session.
	var userID string
	if cookie, err := r.Cookie(auth.TokenCookieName); err == nil {
		if claims, err := s.auth.Verify(cookie.Value); err == nil {
			userID = claims.UserID
		}
	}

	answer, err := s.orchestrator.HandleQuestion(r.Context(), req.Question, req.ChatID, userID)
	if err != nil {
		if errors.Is(err, inference.ErrUnavailable) {
			return nil, CodedErrorf(http.StatusInternalServerError, "AI Service is down")
		}
		if errors.Is(err, chat.ErrSessionConflict) {
			return nil, CodedErrorf(http.StatusConflict, "chat was updated by another request, please retry")
		}
		return nil, CodedErrorf(http.StatusInternalServerError, "error handling question")
	}

	return api.ChatResponse{
		Reply:   answer.Reply,
		ChatID:  answer.Session.ID.String(),
		History: turnViews(answer.Turns),
	}, nil
}

type getAllChatsParams struct {
	Limit int `schema:"limit"`
}

func (s *ChatService) GetAllChats(r *http.Request) (any, error) {
	params, err := ParseRequestQueryParams[getAllChatsParams](r)
	if err != nil {
		return nil, err
	}

	sessions, err := chat.ListSessions(r.Context(), s.db, params.Limit)
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "could not fetch chats")
	}

	summaries := make([]api.ChatSummary, 0, len(sessions))
	for _, session := range sessions {
		summary := api.ChatSummary{ID: session.ID, Messages: []api.TurnView{}, UpdatedAt: session.UpdatedAt}
		first, err := chat.FirstTurn(r.Context(), s.db, session.ID)
		if err != nil {
			return nil, CodedErrorf(http.StatusInternalServerError, "could not fetch chats")
		}
		if first != nil {
			summary.Messages = append(summary.Messages, turnView(*first))
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func (s *ChatService) GetChat(r *http.Request) (any, error) {
	chatID, err := URLParamUUID(r, "chat_id")
	if err != nil {
		return nil, err
	}

	session, err := chat.GetSession(r.Context(), s.db, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, CodedErrorf(http.StatusNotFound, "Chat not found")
		}
		return nil, CodedErrorf(http.StatusInternalServerError, "error loading chat")
	}

	turns, err := chat.GetTurns(r.Context(), s.db, chatID)
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "error loading chat")
	}

	doc := api.ChatDocument{
		ID:        session.ID,
		Title:     session.Title,
		Summary:   session.Summary,
		Messages:  turnViews(turns),
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
	if session.UserID.Valid {
		doc.UserID = &session.UserID.String
	}

	return doc, nil
}

func turnView(turn database.ChatTurn) api.TurnView {
	return api.TurnView{Role: turn.Role, Content: turn.Content, CreatedAt: turn.CreatedAt}
}

func turnViews(turns []database.ChatTurn) []api.TurnView {
	views := make([]api.TurnView, len(turns))
	for i, turn := range turns {
		views[i] = turnView(turn)
	}
	return views
}
