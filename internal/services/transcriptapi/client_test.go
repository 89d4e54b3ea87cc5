package transcriptapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTranscriptJoinsSegments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/youtube/transcript" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer cap-key" {
			t.Fatalf("authorization = %q", got)
		}
		q := r.URL.Query()
		if q.Get("video_url") != "https://youtube.com/watch?v=abc" {
			t.Fatalf("video_url = %q", q.Get("video_url"))
		}
		if q.Get("format") != "json" || q.Get("include_timestamp") != "false" {
			t.Fatalf("query = %v", q)
		}
		payload := map[string]any{
			"transcript": []any{
				map[string]string{"text": "today we make"},
				map[string]string{"text": ""},
				map[string]string{"text": "tomato pasta"},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	client := NewClient("cap-key", WithBaseURL(server.URL))
	got, err := client.Transcript(context.Background(), "https://youtube.com/watch?v=abc")
	if err != nil {
		t.Fatalf("Transcript: %v", err)
	}
	if got != "today we make tomato pasta" {
		t.Fatalf("transcript = %q", got)
	}
}

func TestTranscriptEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"transcript": []any{}})
	}))
	defer server.Close()

	client := NewClient("cap-key", WithBaseURL(server.URL))
	if _, err := client.Transcript(context.Background(), "https://youtube.com/watch?v=abc"); err == nil {
		t.Fatal("expected error for empty transcript")
	}
}

func TestTranscriptHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no captions", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient("cap-key", WithBaseURL(server.URL))
	if _, err := client.Transcript(context.Background(), "https://youtube.com/watch?v=abc"); err == nil {
		t.Fatal("expected error for http failure")
	}
}
