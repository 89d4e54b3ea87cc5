package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cooked/internal/images"
)

func TestCompleteTextPrompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Fatalf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got != "2023-06-01" {
			t.Fatalf("anthropic-version = %q", got)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		messages := req["messages"].([]any)
		msg := messages[0].(map[string]any)
		if _, isString := msg["content"].(string); !isString {
			t.Fatalf("text-only prompt should send string content, got %T", msg["content"])
		}
		payload := map[string]any{
			"content": []any{
				map[string]any{"type": "text", "text": `{"title":"Soup"}`},
			},
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	got, err := client.Complete(context.Background(), "parse this", nil)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != `{"title":"Soup"}` {
		t.Fatalf("content = %q", got)
	}
}

func TestCompleteImageBlocks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		msg := req["messages"].([]any)[0].(map[string]any)
		blocks, ok := msg["content"].([]any)
		if !ok {
			t.Fatalf("image prompt should send block content, got %T", msg["content"])
		}
		if len(blocks) != 2 {
			t.Fatalf("expected image + text blocks, got %d", len(blocks))
		}
		first := blocks[0].(map[string]any)
		if first["type"] != "image" {
			t.Fatalf("first block type = %v", first["type"])
		}
		source := first["source"].(map[string]any)
		if source["media_type"] != "image/jpeg" || source["type"] != "base64" {
			t.Fatalf("source = %v", source)
		}
		last := blocks[1].(map[string]any)
		if last["type"] != "text" {
			t.Fatalf("last block type = %v", last["type"])
		}
		payload := map[string]any{
			"content": []any{map[string]any{"type": "text", "text": "{}"}},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	_, err := client.Complete(context.Background(), "parse", []images.Image{{MediaType: "image/jpeg", Data: []byte{0xff, 0xd8}}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
}

func TestCompleteHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("rate limited"))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	_, err := client.Complete(context.Background(), "parse", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "http 429") {
		t.Fatalf("error = %v", err)
	}
}

func TestCompleteWithoutKey(t *testing.T) {
	client := NewClient("")
	if client.Configured() {
		t.Fatal("blank key must not report configured")
	}
	if _, err := client.Complete(context.Background(), "parse", nil); err == nil {
		t.Fatal("expected error without key")
	}
}
