// Package registry provides the HTTP client for a Shlink-compatible
// short-URL service.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// StatusError reports a non-2xx response from the registry. Every status
// error is fatal to the run; there is no retry.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("registry: unexpected status %d: %s", e.Code, e.Body)
}

// Client talks to one Shlink instance. All calls are synchronous; a timeout
// of zero means calls block for as long as the registry takes.
type Client struct {
	baseURI string
	apiKey  string
	http    *http.Client
}

// NewClient builds a client for the registry at baseURI, authenticating
// with apiKey.
func NewClient(baseURI, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURI: strings.TrimRight(baseURI, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type createRequest struct {
	LongURL      string `json:"longUrl"`
	FindIfExists bool   `json:"findIfExists"`
}

type createResponse struct {
	ShortURL string `json:"shortUrl"`
}

type updateRequest struct {
	LongURL string `json:"longUrl"`
}

// CreateOrFind asks the registry for a short URL pointing at longURL. With
// findExisting an already-registered mapping for the same long URL is
// returned instead of a fresh one.
func (c *Client) CreateOrFind(ctx context.Context, longURL string, findExisting bool) (string, error) {
	body, err := c.do(ctx, http.MethodPost, c.baseURI+"/short-urls", createRequest{
		LongURL:      longURL,
		FindIfExists: findExisting,
	})
	if err != nil {
		return "", err
	}
	var resp createResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("registry: decode response: %w", err)
	}
	if resp.ShortURL == "" {
		return "", fmt.Errorf("registry: response carries no shortUrl")
	}
	return resp.ShortURL, nil
}

// Update repoints the existing shortURL at longURL. The short code is the
// last path segment of shortURL.
func (c *Client) Update(ctx context.Context, shortURL, longURL string) error {
	code := shortURL
	if i := strings.LastIndexByte(code, '/'); i >= 0 {
		code = code[i+1:]
	}
	_, err := c.do(ctx, http.MethodPatch, c.baseURI+"/short-urls/"+code, updateRequest{LongURL: longURL})
	return err
}

func (c *Client) do(ctx context.Context, method, url string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("registry: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("registry: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry: %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("registry: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}
