// Package leaderboard talks to the remote scoreboard server.
package leaderboard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const requestTimeout = 10 * time.Second

// Score is one finished game's result for the authenticated player. The
// session ID doubles as an idempotency key: the server may use it to drop a
// duplicate of an already-recorded session.
type Score struct {
	SessionID string `json:"sessionId"`
	WPM       int    `json:"wpm"`
	Accuracy  int    `json:"accuracy"`
}

// Entry is one leaderboard row.
type Entry struct {
	Name     string `json:"name"`
	WPM      int    `json:"wpm"`
	Accuracy int    `json:"accuracy"`
}

type topResponse struct {
	TopScores []Entry `json:"topScores"`
}

type bestResponse struct {
	BestWPM int `json:"bestWpm"`
}

// Client submits scores and reads standings. A zero token means the player
// is unauthenticated; Submit refuses to run in that case and the caller is
// expected to skip submission entirely.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *slog.Logger
}

// New builds a leaderboard client. baseURL is the server root, e.g.
// "https://speed.example.com/api".
func New(baseURL, token string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: requestTimeout},
		log:     log,
	}
}

// Authenticated reports whether a bearer token is configured.
func (c *Client) Authenticated() bool {
	return c.token != ""
}

// Configured reports whether a server base URL is set at all.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

// Submit posts a finished game's score and returns the updated top list.
func (c *Client) Submit(ctx context.Context, score Score) ([]Entry, error) {
	if !c.Authenticated() {
		return nil, fmt.Errorf("not authenticated")
	}
	body, err := json.Marshal(score)
	if err != nil {
		return nil, fmt.Errorf("failed to encode score: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/speed", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	var out topResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out.TopScores, nil
}

// Top fetches the current top standings.
func (c *Client) Top(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/speed", nil)
	if err != nil {
		return nil, err
	}
	var out topResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out.TopScores, nil
}

// Best fetches the authenticated player's best recorded WPM.
func (c *Client) Best(ctx context.Context) (int, error) {
	if !c.Authenticated() {
		return 0, fmt.Errorf("not authenticated")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/speed/top-wpm", nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	var out bestResponse
	if err := c.do(req, &out); err != nil {
		return 0, err
	}
	return out.BestWPM, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		// Best-effort body close.
		_ = resp.Body.Close()
	}()
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("server rejected token")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Debug("leaderboard request failed", "status", resp.StatusCode, "path", req.URL.Path)
		return fmt.Errorf("server returned %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
