// Package apiclient is the typed client for the external decision backend.
// It mirrors the REST surface the web client consumed: projects, criteria,
// choices, scores, results and the AI endpoints. Authentication stays
// external; the client only attaches bearer tokens from a TokenSource.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnauthorized signals an invalid or expired session token.
var ErrUnauthorized = errors.New("apiclient: invalid session token")

// TokenSource supplies the current bearer token, empty when signed out.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed-token source, mainly for tests.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// Client talks to the decision backend.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// New creates a client for the given base URL. tokens may be nil for
// endpoints that accept anonymous calls.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
	}
}

// WithHTTPClient overrides the underlying HTTP client (timeouts, transports).
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// apiError is the backend's error body shape.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do performs one request. When in is non-nil it is sent as JSON; when out
// is non-nil the response body is decoded into it.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("apiclient: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized {
			return ErrUnauthorized
		}
		return decodeError(resp, method, path)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("apiclient: decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response, method, path string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	var ae apiError
	if err := json.Unmarshal(raw, &ae); err == nil {
		if msg := firstNonEmpty(ae.Error, ae.Message); msg != "" {
			return fmt.Errorf("apiclient: %s %s: %s", method, path, msg)
		}
	}
	return fmt.Errorf("apiclient: %s %s: unexpected status %s", method, path, resp.Status)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
