package assemblyai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSubmitAndPoll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "aai-key" {
			t.Fatalf("authorization = %q", got)
		}
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/transcript":
			var req map[string]any
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			if req["audio_url"] != "https://example.com/video" {
				t.Fatalf("audio_url = %v", req["audio_url"])
			}
			models := req["speech_models"].([]any)
			if len(models) != 2 || models[0] != "universal-2" {
				t.Fatalf("speech_models = %v", models)
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "job-1", "status": StatusQueued})
		case r.Method == http.MethodGet && r.URL.Path == "/transcript/job-1":
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "job-1", "status": StatusCompleted, "text": "chop the onions"})
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient("aai-key", WithBaseURL(server.URL))
	jobID, err := client.Submit(context.Background(), "https://example.com/video")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if jobID != "job-1" {
		t.Fatalf("job id = %q", jobID)
	}
	job, err := client.Poll(context.Background(), jobID)
	if err != nil {
		t.Fatalf("Poll: %v", err)
	}
	if job.Status != StatusCompleted || job.Text != "chop the onions" {
		t.Fatalf("job = %+v", job)
	}
}

func TestSubmitWithoutJobID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()

	client := NewClient("aai-key", WithBaseURL(server.URL))
	if _, err := client.Submit(context.Background(), "https://example.com/v"); err == nil {
		t.Fatal("expected error when response has no id")
	}
}

func TestSubmitWithoutKey(t *testing.T) {
	client := NewClient(" ")
	if client.Configured() {
		t.Fatal("blank key must not report configured")
	}
	if _, err := client.Submit(context.Background(), "https://example.com/v"); err == nil {
		t.Fatal("expected error without key")
	}
}
