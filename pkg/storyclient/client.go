// Package storyclient calls the remote text-generation service that turns a
// diary entry into a story or a poem.
package storyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrGenerationFailed is returned for every failure: transport, status or body.
var ErrGenerationFailed = errors.New("generation request failed")

// Request is the body of both generation endpoints
type Request struct {
	Diary     string `json:"diary"`
	Mood      string `json:"mood"`
	Character string `json:"character"`
}

type response struct {
	Story string `json:"story"`
}

// Client posts generation requests to a base URL. It never retries and sets no
// timeout of its own; callers bound requests with their context.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client (e.g. with an instrumented transport)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateStory calls POST /generate-story
func (c *Client) GenerateStory(ctx context.Context, req Request) (string, error) {
	return c.post(ctx, "/generate-story", req)
}

// GeneratePoem calls POST /generate-poem
func (c *Client) GeneratePoem(ctx context.Context, req Request) (string, error) {
	return c.post(ctx, "/generate-poem", req)
}

func (c *Client) post(ctx context.Context, path string, body Request) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrGenerationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrGenerationFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s returned %d", ErrGenerationFailed, path, resp.StatusCode)
	}

	var result response
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrGenerationFailed, err)
	}
	return result.Story, nil
}
