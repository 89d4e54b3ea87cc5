// Package gemini wraps the Google Generative Language API for recipe
// extraction.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cooked/internal/images"
)

const (
	defaultBaseURL     = "https://generativelanguage.googleapis.com"
	defaultModel       = "gemini-2.0-flash"
	temperature        = 0.3
	defaultHTTPTimeout = 60 * time.Second
)

// Client wraps the Gemini generateContent endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Option customizes the Gemini client.
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

// NewClient constructs a Gemini API client.
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

// Complete sends the prompt, optionally with inline image parts, and
// returns the first candidate's text. The key rides in the query
// string, which is how this API authenticates.
func (c *Client) Complete(ctx context.Context, prompt string, imgs []images.Image) (string, error) {
	if !c.Configured() {
		return "", errors.New("gemini complete: api key required")
	}
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	encoded, err := json.Marshal(buildGenerateRequest(prompt, imgs))
	if err != nil {
		return "", fmt.Errorf("gemini complete: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("gemini complete: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini complete: request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini complete: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("gemini complete: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("gemini complete: decode response: %w", err)
	}
	if decoded.Error != nil {
		return "", fmt.Errorf("gemini complete: api error: %s", strings.TrimSpace(decoded.Error.Message))
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini complete: empty candidates")
	}
	content := strings.TrimSpace(decoded.Candidates[0].Content.Parts[0].Text)
	if content == "" {
		return "", errors.New("gemini complete: empty content")
	}
	return content, nil
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMIMEType string  `json:"responseMimeType"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func buildGenerateRequest(prompt string, imgs []images.Image) generateRequest {
	parts := make([]part, 0, len(imgs)+1)
	parts = append(parts, part{Text: prompt})
	for _, img := range imgs {
		parts = append(parts, part{InlineData: &inlineData{
			MIMEType: img.MediaType,
			Data:     base64.StdEncoding.EncodeToString(img.Data),
		}})
	}
	return generateRequest{
		Contents:         []content{{Parts: parts}},
		GenerationConfig: generationConfig{Temperature: temperature, ResponseMIMEType: "application/json"},
	}
}
