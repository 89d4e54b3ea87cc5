// Package anthropic wraps the Anthropic Messages API for recipe
// extraction. Only the small slice of the API the pipeline needs is
// modeled: one user turn, optional image blocks, text back.
package anthropic

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cooked/internal/images"
)

const (
	defaultBaseURL     = "https://api.anthropic.com"
	defaultModel       = "claude-sonnet-4-20250514"
	apiVersion         = "2023-06-01"
	maxTokens          = 2048
	defaultHTTPTimeout = 60 * time.Second
)

// Client wraps the Anthropic Messages endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Option customizes the Anthropic client.
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

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *Client) {
		model = strings.TrimSpace(model)
		if model != "" {
			c.model = model
		}
	}
}

// NewClient constructs an Anthropic API client.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    defaultBaseURL,
		model:      defaultModel,
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

// Complete sends one user message, optionally with image blocks ahead
// of the prompt text, and returns the text of the reply.
func (c *Client) Complete(ctx context.Context, prompt string, imgs []images.Image) (string, error) {
	if !c.Configured() {
		return "", errors.New("anthropic complete: api key required")
	}
	endpoint, err := url.JoinPath(c.baseURL, "/v1/messages")
	if err != nil {
		return "", fmt.Errorf("anthropic complete: build url: %w", err)
	}
	encoded, err := json.Marshal(buildMessagesRequest(c.model, prompt, imgs))
	if err != nil {
		return "", fmt.Errorf("anthropic complete: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("anthropic complete: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic complete: request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("anthropic complete: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("anthropic complete: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var decoded messagesResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("anthropic complete: decode response: %w", err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("anthropic complete: api error: %s", strings.TrimSpace(decoded.Error.Message))
	}
	for _, block := range decoded.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return block.Text, nil
		}
	}
	return "", errors.New("anthropic complete: empty content")
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func buildMessagesRequest(model, prompt string, imgs []images.Image) messagesRequest {
	var content any = prompt
	if len(imgs) > 0 {
		blocks := make([]contentBlock, 0, len(imgs)+1)
		for _, img := range imgs {
			blocks = append(blocks, contentBlock{
				Type: "image",
				Source: &imageSource{
					Type:      "base64",
					MediaType: img.MediaType,
					Data:      base64.StdEncoding.EncodeToString(img.Data),
				},
			})
		}
		blocks = append(blocks, contentBlock{Type: "text", Text: prompt})
		content = blocks
	}
	return messagesRequest{
		Model:     model,
		MaxTokens: maxTokens,
		Messages:  []message{{Role: "user", Content: content}},
	}
}
