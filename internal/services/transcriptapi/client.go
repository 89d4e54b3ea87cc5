// Package transcriptapi wraps TranscriptAPI.com, which serves existing
// YouTube caption tracks without any scraping on our side.
package transcriptapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://transcriptapi.com/api/v2"
	defaultHTTPTimeout = 30 * time.Second
)

// Client wraps the TranscriptAPI YouTube transcript endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option customizes the TranscriptAPI client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the default API base (useful for tests/mocks).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimSpace(base)
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// NewClient constructs a TranscriptAPI client.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Transcript fetches the caption track for a YouTube URL and joins the
// segment texts into one string.
func (c *Client) Transcript(ctx context.Context, videoURL string) (string, error) {
	if !c.Configured() {
		return "", errors.New("transcriptapi: api key required")
	}
	params := url.Values{}
	params.Set("video_url", videoURL)
	params.Set("format", "json")
	params.Set("include_timestamp", "false")
	endpoint := fmt.Sprintf("%s/youtube/transcript?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("transcriptapi: request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcriptapi: request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("transcriptapi: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("transcriptapi: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var decoded transcriptResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("transcriptapi: decode response: %w", err)
	}
	if len(decoded.Transcript) == 0 {
		return "", errors.New("transcriptapi: empty transcript")
	}
	parts := make([]string, 0, len(decoded.Transcript))
	for _, segment := range decoded.Transcript {
		if segment.Text != "" {
			parts = append(parts, segment.Text)
		}
	}
	text := strings.TrimSpace(strings.Join(parts, " "))
	if text == "" {
		return "", errors.New("transcriptapi: empty transcript")
	}
	return text, nil
}

type transcriptResponse struct {
	Transcript []struct {
		Text string `json:"text"`
	} `json:"transcript"`
}
