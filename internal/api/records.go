package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"chatbot-backend/internal/records"
	"chatbot-backend/pkg/api"
)

type RecordService struct {
	client *records.Client
	auth   *AuthService
}

func NewRecordService(client *records.Client, authService *AuthService) *RecordService {
	return &RecordService{client: client, auth: authService}
}

func (s *RecordService) AddRoutes(r chi.Router) {
	r.Post("/api/get-records", RestHandler(s.GetRecords))
	// Record edits are destructive, so unlike search they sit behind the
	// auth guard.
	r.With(s.auth.RequireAuth).Post("/api/update-record", RestHandler(s.UpdateRecord))
}

func (s *RecordService) GetRecords(r *http.Request) (any, error) {
	req, err := ParseRequest[api.GetRecordsRequest](r)
	if err != nil {
		return nil, err
	}
	if req.Query == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "query is required")
	}

	result, err := s.client.Search(r.Context(), req.Query)
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "record search failed")
	}

	return result, nil
}

func (s *RecordService) UpdateRecord(r *http.Request) (any, error) {
	req, err := ParseRequest[api.UpdateRecordRequest](r)
	if err != nil {
		return nil, err
	}
	if req.ID == "" || req.NewText == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "id and new_text are required")
	}

	ack, err := s.client.Update(r.Context(), req.ID, req.NewText)
	if err != nil {
		return nil, CodedErrorf(http.StatusInternalServerError, "record update failed")
	}

	return ack, nil
}
