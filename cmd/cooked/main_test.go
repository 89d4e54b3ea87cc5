package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cooked/internal/recipe"
)

func runCommand(t *testing.T, serverURL string, args ...string) string {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--server", serverURL}, args...))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute %v: %v", args, err)
	}
	return out.String()
}

func fakeDaemon(t *testing.T, recipes []recipe.Recipe) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/api/recipes", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]any{"recipes": recipes})
		case http.MethodPost:
			var req recipe.ParsedRecipeData
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(recipe.Recipe{
				ID:     "11112222-3333-4444-5555-666677778888",
				Title:  req.Title,
				Status: recipe.StatusSaved,
			})
		}
	})
	mux.HandleFunc("/api/parse", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(recipe.ParsedRecipeData{
			Title:       "Parsed Pancakes",
			Ingredients: []recipe.ParsedIngredient{{Name: "flour", Quantity: "2 cups"}},
			Steps:       []recipe.ParsedStep{{Order: 1, Instruction: "Mix."}},
		})
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestStatusCommand(t *testing.T) {
	ts := fakeDaemon(t, nil)

	out := runCommand(t, ts.URL, "status")
	if !strings.Contains(out, "daemon is up") {
		t.Fatalf("output = %q", out)
	}
}

func TestListCommandRendersTable(t *testing.T) {
	ts := fakeDaemon(t, []recipe.Recipe{
		{ID: "aaaa1111-0000-0000-0000-000000000000", Title: "Lasagna", Category: recipe.CategoryDinner, Status: recipe.StatusSaved},
		{ID: "bbbb2222-0000-0000-0000-000000000000", Title: "Granola", Category: recipe.CategoryBreakfast, Status: recipe.StatusCooked},
	})

	out := runCommand(t, ts.URL, "list")
	if !strings.Contains(out, "Lasagna") || !strings.Contains(out, "Granola") {
		t.Fatalf("output = %q", out)
	}
	if !strings.Contains(out, "aaaa1111") || strings.Contains(out, "aaaa1111-0000") {
		t.Fatalf("ids should be shortened: %q", out)
	}
}

func TestListCommandFiltersStatus(t *testing.T) {
	ts := fakeDaemon(t, []recipe.Recipe{
		{ID: "aaaa1111-0000-0000-0000-000000000000", Title: "Lasagna", Status: recipe.StatusSaved},
		{ID: "bbbb2222-0000-0000-0000-000000000000", Title: "Granola", Status: recipe.StatusCooked},
	})

	out := runCommand(t, ts.URL, "list", "--status", "cooked")
	if strings.Contains(out, "Lasagna") || !strings.Contains(out, "Granola") {
		t.Fatalf("output = %q", out)
	}
}

func TestAddTextCommand(t *testing.T) {
	ts := fakeDaemon(t, nil)

	out := runCommand(t, ts.URL, "add", "--type", "text", "Pancakes\n2 cups flour")
	if !strings.Contains(out, `Saved "Parsed Pancakes"`) {
		t.Fatalf("output = %q", out)
	}
}

func TestAddRejectsUnknownType(t *testing.T) {
	ts := fakeDaemon(t, nil)

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--server", ts.URL, "add", "--type", "podcast", "x"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("abcdefghijk"); got != "abcdefgh" {
		t.Fatalf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Fatalf("shortID = %q", got)
	}
}
