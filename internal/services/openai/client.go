// Package openai wraps the OpenAI chat completions API for recipe
// extraction.
package openai

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
	defaultBaseURL     = "https://api.openai.com"
	defaultModel       = "gpt-4o-mini"
	temperature        = 0.3
	jsonResponseType   = "json_object"
	defaultHTTPTimeout = 60 * time.Second
)

// Client wraps the OpenAI chat completions endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Option customizes the OpenAI client.
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

// NewClient constructs an OpenAI API client.
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

// Complete sends one user message, optionally with data-URL image
// parts, asking for a JSON object reply, and returns its text.
func (c *Client) Complete(ctx context.Context, prompt string, imgs []images.Image) (string, error) {
	if !c.Configured() {
		return "", errors.New("openai complete: api key required")
	}
	endpoint, err := url.JoinPath(c.baseURL, "/v1/chat/completions")
	if err != nil {
		return "", fmt.Errorf("openai complete: build url: %w", err)
	}
	encoded, err := json.Marshal(buildChatRequest(c.model, prompt, imgs))
	if err != nil {
		return "", fmt.Errorf("openai complete: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("openai complete: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai complete: request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openai complete: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("openai complete: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var decoded chatResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("openai complete: decode response: %w", err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("openai complete: api error: %s", strings.TrimSpace(decoded.Error.Message))
	}
	if len(decoded.Choices) == 0 {
		return "", errors.New("openai complete: empty choices")
	}
	content := strings.TrimSpace(decoded.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("openai complete: empty content")
	}
	return content, nil
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func buildChatRequest(model, prompt string, imgs []images.Image) chatRequest {
	var content any = prompt
	if len(imgs) > 0 {
		parts := make([]contentPart, 0, len(imgs)+1)
		parts = append(parts, contentPart{Type: "text", Text: prompt})
		for _, img := range imgs {
			data := base64.StdEncoding.EncodeToString(img.Data)
			parts = append(parts, contentPart{
				Type:     "image_url",
				ImageURL: &imageURL{URL: fmt.Sprintf("data:%s;base64,%s", img.MediaType, data)},
			})
		}
		content = parts
	}
	return chatRequest{
		Model:          model,
		Messages:       []chatMessage{{Role: "user", Content: content}},
		Temperature:    temperature,
		ResponseFormat: map[string]string{"type": jsonResponseType},
	}
}
