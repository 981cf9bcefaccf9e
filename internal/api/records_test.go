package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	backend "chatbot-backend/internal/api"
	"chatbot-backend/internal/auth"
	"chatbot-backend/internal/records"
	"chatbot-backend/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubVectorService fakes the external vector-search service.
type stubVectorService struct {
	results    []records.SearchResult
	failSearch bool
	failUpdate bool

	lastUpdateBody map[string]string
}

func (s *stubVectorService) start(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/get-to-edit", func(w http.ResponseWriter, r *http.Request) {
		if s.failSearch {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(records.SearchResponse{Results: s.results})
	})
	mux.HandleFunc("/update-record", func(w http.ResponseWriter, r *http.Request) {
		if s.failUpdate {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&s.lastUpdateBody))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "success", "message": "Record updated successfully"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func recordRouter(t *testing.T, stub *stubVectorService) chi.Router {
	db := createDB(t)
	authService := backend.NewAuthService(db, auth.NewAuthenticator(testSecret))
	service := backend.NewRecordService(records.NewClient(stub.start(t).URL), authService)
	router := chi.NewRouter()
	service.AddRoutes(router)
	return router
}

func signedCookie(t *testing.T) *http.Cookie {
	token, err := auth.NewAuthenticator(testSecret).Sign("editor", uuid.New())
	require.NoError(t, err)
	return &http.Cookie{Name: auth.TokenCookieName, Value: token}
}

func TestGetRecords(t *testing.T) {
	stub := &stubVectorService{results: []records.SearchResult{
		{ID: "doc-1", CurrentText: "chunk one", Score: 0.91},
		{ID: "doc-2", CurrentText: "chunk two", Score: 0.47},
	}}
	router := recordRouter(t, stub)

	rec := postJSON(t, router, "/api/get-records", api.GetRecordsRequest{Query: "admissions"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp records.SearchResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "doc-1", resp.Results[0].ID)
	assert.Equal(t, "chunk one", resp.Results[0].CurrentText)
	assert.InDelta(t, 0.91, resp.Results[0].Score, 1e-9)
}

func TestGetRecordsMissingQuery(t *testing.T) {
	router := recordRouter(t, &stubVectorService{})

	rec := postJSON(t, router, "/api/get-records", api.GetRecordsRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRecordsUpstreamFailure(t *testing.T) {
	router := recordRouter(t, &stubVectorService{failSearch: true})

	rec := postJSON(t, router, "/api/get-records", api.GetRecordsRequest{Query: "q"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUpdateRecordPassthrough(t *testing.T) {
	stub := &stubVectorService{}
	router := recordRouter(t, stub)

	body, err := json.Marshal(api.UpdateRecordRequest{ID: "doc-1", NewText: "corrected text"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/update-record", bytes.NewReader(body))
	req.AddCookie(signedCookie(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var ack map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&ack))
	assert.Equal(t, "success", ack["status"])

	assert.Equal(t, "doc-1", stub.lastUpdateBody["id"])
	assert.Equal(t, "corrected text", stub.lastUpdateBody["new_text"])
}

func TestUpdateRecordRequiresAuth(t *testing.T) {
	router := recordRouter(t, &stubVectorService{})

	rec := postJSON(t, router, "/api/update-record", api.UpdateRecordRequest{ID: "doc-1", NewText: "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateRecordMissingFields(t *testing.T) {
	router := recordRouter(t, &stubVectorService{})

	body, err := json.Marshal(api.UpdateRecordRequest{ID: "doc-1"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/update-record", bytes.NewReader(body))
	req.AddCookie(signedCookie(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateRecordUpstreamFailure(t *testing.T) {
	router := recordRouter(t, &stubVectorService{failUpdate: true})

	body, err := json.Marshal(api.UpdateRecordRequest{ID: "doc-1", NewText: "x"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/update-record", bytes.NewReader(body))
	req.AddCookie(signedCookie(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
