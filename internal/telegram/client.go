package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

// Client sends messages through the Bot API. It implements
// bot.ReplySender.
type Client struct {
	token      string
	apiBase    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAPIBase overrides the Bot API base URL (tests point it at httptest).
func WithAPIBase(base string) Option {
	return func(c *Client) { c.apiBase = base }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:      token,
		apiBase:    defaultAPIBase,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage posts an HTML-formatted message to a chat. The caller treats
// failures as fire-and-forget; this method still reports them so they can
// be logged.
func (c *Client) SendMessage(ctx context.Context, chatID int64, html string) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:    chatID,
		Text:      html,
		ParseMode: "HTML",
	})
	if err != nil {
		return fmt.Errorf("marshal sendMessage: %w", err)
	}

	url := c.apiBase + "/bot" + c.token + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post sendMessage: %w", err)
	}
	defer resp.Body.Close()

	var parsed apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&parsed); err != nil {
		return fmt.Errorf("decode sendMessage response (status %d): %w", resp.StatusCode, err)
	}
	if !parsed.OK {
		return fmt.Errorf("sendMessage rejected (status %d): %s", resp.StatusCode, parsed.Description)
	}
	return nil
}
