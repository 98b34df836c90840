// Package telegram reads channel message history over an HTTP Bot API
// gateway. It is the production MessageSource for the signal collector.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"signal-tracker/internal/signals"
	"signal-tracker/pkg/utils"
)

// DefaultBaseURL is the standard Bot API endpoint. Self-hosted gateways
// (tdlib bridges) override it via config.
const DefaultBaseURL = "https://api.telegram.org"

// pageSize caps how many messages one history request asks for.
const pageSize = 100

// Client fetches channel history pages and exposes them as a bounded
// reverse-chronological window.
type Client struct {
	botToken string
	baseURL  string
	http     *http.Client
}

// Config holds Telegram client configuration.
type Config struct {
	BotToken string
	BaseURL  string
	ProxyURL string
}

// NewClient creates a history client with optional proxy support.
func NewClient(cfg Config) *Client {
	transport := &http.Transport{}
	if cfg.ProxyURL != "" {
		if u, err := url.Parse(cfg.ProxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		botToken: cfg.BotToken,
		baseURL:  baseURL,
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// historyMessage is one message in a getChatHistory response.
type historyMessage struct {
	MessageID int64  `json:"message_id"`
	Date      int64  `json:"date"` // unix seconds
	Text      string `json:"text"`
}

// RecentMessages pages backwards through the channel until limit messages
// are collected or history is exhausted. The result is newest-first, as the
// collector expects. Each page fetch is retried with backoff.
func (c *Client) RecentMessages(ctx context.Context, channel string, limit int) ([]signals.Message, error) {
	var out []signals.Message
	var offsetID int64

	for len(out) < limit {
		want := limit - len(out)
		if want > pageSize {
			want = pageSize
		}

		page, err := utils.RetryWithResult(ctx, utils.DefaultRetryConfig(), func() ([]historyMessage, error) {
			return c.fetchPage(ctx, channel, want, offsetID)
		})
		if err != nil {
			return nil, fmt.Errorf("fetching history page for %s: %w", channel, err)
		}
		if len(page) == 0 {
			break
		}

		for _, m := range page {
			out = append(out, signals.Message{
				Text: m.Text,
				Date: time.Unix(m.Date, 0).UTC(),
			})
			offsetID = m.MessageID
		}
	}
	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, channel string, limit int, offsetID int64) ([]historyMessage, error) {
	q := url.Values{}
	q.Set("chat_id", channel)
	q.Set("limit", strconv.Itoa(limit))
	if offsetID > 0 {
		q.Set("offset_id", strconv.FormatInt(offsetID, 10))
	}
	apiURL := fmt.Sprintf("%s/bot%s/getChatHistory?%s", c.baseURL, c.botToken, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating history request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("history request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading history response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result struct {
		OK          bool             `json:"ok"`
		Description string           `json:"description"`
		Result      []historyMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding history response: %w", err)
	}
	if !result.OK {
		return nil, fmt.Errorf("telegram API error: %s", result.Description)
	}
	return result.Result, nil
}
