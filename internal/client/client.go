// Package client implements recon.Client over HTTP against the checkpoint
// server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/playforge/dinomine/internal/checkpoint"
)

// progressPath is the checkpoint endpoint, shared by fetch and save.
const progressPath = "/api/mining/progress"

// StatusError reports a non-success HTTP status from the checkpoint server.
// Callers can distinguish auth failures (401/403) from transient server
// trouble without string matching.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("checkpoint server returned %d: %s", e.Code, e.Body)
}

// Unauthorized reports whether the error is a 401 or 403 - the session is
// missing or the account has not unlocked the game.
func (e *StatusError) Unauthorized() bool {
	return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden
}

// HTTP talks to one checkpoint server on behalf of one account token.
type HTTP struct {
	baseURL string
	token   string
	client  *http.Client
}

// Option configures an HTTP client.
type Option func(*HTTP)

// WithHTTPClient overrides the underlying http.Client (tests inject the
// httptest server's client).
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTP) { h.client = c }
}

// New creates a client for the server at baseURL, authenticating with the
// given bearer token. The default underlying client times out after 10s -
// a push that cannot complete by then is abandoned, not queued.
func New(baseURL, token string, opts ...Option) *HTTP {
	h := &HTTP{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Fetch implements recon.Client.
func (h *HTTP) Fetch(ctx context.Context) (checkpoint.Checkpoint, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+progressPath, nil)
	if err != nil {
		return checkpoint.Checkpoint{}, false, fmt.Errorf("fetch checkpoint: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+h.token)

	resp, err := h.client.Do(req)
	if err != nil {
		return checkpoint.Checkpoint{}, false, fmt.Errorf("fetch checkpoint: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var cp checkpoint.Checkpoint
		if err := json.NewDecoder(resp.Body).Decode(&cp); err != nil {
			return checkpoint.Checkpoint{}, false, fmt.Errorf("fetch checkpoint: decode: %w", err)
		}
		return cp, true, nil
	case http.StatusNoContent, http.StatusNotFound:
		return checkpoint.Checkpoint{}, false, nil
	default:
		return checkpoint.Checkpoint{}, false, statusError(resp)
	}
}

// Save implements recon.Client.
func (h *HTTP) Save(ctx context.Context, cp checkpoint.Checkpoint) error {
	body, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("save checkpoint: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+progressPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+h.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

// statusError drains a bounded amount of the response body for context.
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
}
