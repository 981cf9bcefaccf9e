package inference

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-resty/resty/v2"
)

// ErrUnavailable is the single error surfaced for any transport failure or
// non-2xx response from the inference service. No detail is leaked to
// callers and nothing is retried.
var ErrUnavailable = errors.New("inference service unavailable")

// Message is one entry of the history payload exchanged with the inference
// service.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client proxies question answering and summarization to the external
// inference service.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL string) *Client {
	return &Client{http: resty.New().SetBaseURL(baseURL)}
}

type answerRequest struct {
	Question string    `json:"question"`
	History  []Message `json:"history"`
}

type answerResponse struct {
	Reply string `json:"reply"`
}

func (c *Client) Answer(ctx context.Context, question string, history []Message) (string, error) {
	var result answerResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(answerRequest{Question: question, History: history}).
		SetResult(&result).
		Post("/chat")
	if err != nil {
		slog.Error("error calling inference service", "error", err)
		return "", ErrUnavailable
	}
	if resp.IsError() {
		slog.Error("inference service returned error", "status", resp.StatusCode())
		return "", ErrUnavailable
	}

	return result.Reply, nil
}

type summarizeRequest struct {
	Messages []Message `json:"messages"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
}

func (c *Client) Summarize(ctx context.Context, messages []Message) (string, error) {
	var result summarizeResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(summarizeRequest{Messages: messages}).
		SetResult(&result).
		Post("/summarize")
	if err != nil {
		slog.Error("error calling summarization endpoint", "error", err)
		return "", ErrUnavailable
	}
	if resp.IsError() {
		slog.Error("summarization endpoint returned error", "status", resp.StatusCode())
		return "", ErrUnavailable
	}

	return result.Summary, nil
}
