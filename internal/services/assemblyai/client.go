// Package assemblyai wraps the AssemblyAI transcription job API. Jobs
// are asynchronous: Submit hands over an audio URL and Poll is called
// until the job reports completed or error.
package assemblyai

import (
	"bytes"
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
	defaultBaseURL     = "https://api.assemblyai.com/v2"
	defaultHTTPTimeout = 30 * time.Second
)

// Job statuses reported by the transcript endpoint.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// speechModels is the preference order sent with every submission.
var speechModels = []string{"universal-2", "universal-1"}

// Job is the state of a transcription job.
type Job struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// Client wraps the AssemblyAI v2 transcript API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option customizes the AssemblyAI client.
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

// NewClient constructs an AssemblyAI API client.
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

// Submit creates a transcription job for the given audio URL and
// returns its id.
func (c *Client) Submit(ctx context.Context, audioURL string) (string, error) {
	if !c.Configured() {
		return "", errors.New("assemblyai submit: api key required")
	}
	endpoint, err := url.JoinPath(c.baseURL, "/transcript")
	if err != nil {
		return "", fmt.Errorf("assemblyai submit: build url: %w", err)
	}
	encoded, err := json.Marshal(submitRequest{AudioURL: audioURL, SpeechModels: speechModels})
	if err != nil {
		return "", fmt.Errorf("assemblyai submit: encode request: %w", err)
	}
	var job Job
	if err := c.do(ctx, http.MethodPost, endpoint, encoded, &job); err != nil {
		return "", fmt.Errorf("assemblyai submit: %w", err)
	}
	if job.ID == "" {
		return "", errors.New("assemblyai submit: no job id in response")
	}
	return job.ID, nil
}

// Poll fetches the current state of a transcription job.
func (c *Client) Poll(ctx context.Context, jobID string) (Job, error) {
	if !c.Configured() {
		return Job{}, errors.New("assemblyai poll: api key required")
	}
	endpoint, err := url.JoinPath(c.baseURL, "/transcript", jobID)
	if err != nil {
		return Job{}, fmt.Errorf("assemblyai poll: build url: %w", err)
	}
	var job Job
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &job); err != nil {
		return Job{}, fmt.Errorf("assemblyai poll: %w", err)
	}
	return job, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type submitRequest struct {
	AudioURL     string   `json:"audio_url"`
	SpeechModels []string `json:"speech_models"`
}
