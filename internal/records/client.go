package records

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/go-resty/resty/v2"
)

// ErrUnavailable covers any transport failure or non-2xx response from the
// vector-search service.
var ErrUnavailable = errors.New("vector search service unavailable")

// Client forwards record search and update requests to the external
// vector-search service. Both operations are pure pass-throughs.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string) *Client {
	return &Client{http: resty.New().SetBaseURL(baseURL)}
}

type SearchResult struct {
	ID          string  `json:"id"`
	CurrentText string  `json:"current_text"`
	Score       float64 `json:"score"`
}

type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

func (c *Client) Search(ctx context.Context, query string) (SearchResponse, error) {
	var result SearchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"query": query}).
		SetResult(&result).
		Post("/get-to-edit")
	if err != nil {
		slog.Error("error calling vector search service", "error", err)
		return SearchResponse{}, ErrUnavailable
	}
	if resp.IsError() {
		slog.Error("vector search service returned error", "status", resp.StatusCode())
		return SearchResponse{}, ErrUnavailable
	}

	return result, nil
}

type updateRequest struct {
	ID      string `json:"id"`
	NewText string `json:"new_text"`
}

// Update forwards the edit and returns the upstream acknowledgement verbatim.
func (c *Client) Update(ctx context.Context, id, newText string) (json.RawMessage, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(updateRequest{ID: id, NewText: newText}).
		Post("/update-record")
	if err != nil {
		slog.Error("error calling record update endpoint", "error", err)
		return nil, ErrUnavailable
	}
	if resp.IsError() {
		slog.Error("record update endpoint returned error", "status", resp.StatusCode())
		return nil, ErrUnavailable
	}

	return json.RawMessage(resp.Body()), nil
}
