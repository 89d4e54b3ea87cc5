package extract

import (
	"context"
	"errors"
	"testing"

	"cooked/internal/images"
	"cooked/internal/logging"
	"cooked/internal/recipe"
)

type fakeProvider struct {
	name       string
	configured bool
	parsed     recipe.ParsedRecipeData
	err        error
	calls      int
}

func (f *fakeProvider) Name() string     { return f.name }
func (f *fakeProvider) Configured() bool { return f.configured }
func (f *fakeProvider) Extract(ctx context.Context, payload Payload) (recipe.ParsedRecipeData, error) {
	f.calls++
	return f.parsed, f.err
}

func TestChainFailover(t *testing.T) {
	first := &fakeProvider{name: "a", configured: true, err: errors.New("http 500")}
	second := &fakeProvider{name: "b", configured: true, err: errors.New("http 429")}
	third := &fakeProvider{name: "c", configured: true, parsed: recipe.ParsedRecipeData{Title: "Ramen"}}

	chain := NewChain(logging.NewNop(), first, second, third)
	got, err := chain.Extract(context.Background(), TextPayload("some text"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got.Title != "Ramen" {
		t.Fatalf("title = %q", got.Title)
	}
	if first.calls != 1 || second.calls != 1 || third.calls != 1 {
		t.Fatalf("attempts = %d/%d/%d, want one each", first.calls, second.calls, third.calls)
	}
}

func TestChainSkipsUnconfigured(t *testing.T) {
	skipped := &fakeProvider{name: "a", configured: false}
	used := &fakeProvider{name: "b", configured: true, parsed: recipe.ParsedRecipeData{Title: "Stew"}}

	chain := NewChain(logging.NewNop(), skipped, used)
	got, err := chain.Extract(context.Background(), TextPayload("text"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if skipped.calls != 0 {
		t.Fatal("unconfigured provider must not be invoked")
	}
	if got.Title != "Stew" {
		t.Fatalf("title = %q", got.Title)
	}
}

func TestChainTextFallsBackToHeuristic(t *testing.T) {
	failing := &fakeProvider{name: "a", configured: true, err: errors.New("down")}

	chain := NewChain(logging.NewNop(), failing)
	got, err := chain.Extract(context.Background(), TextPayload("Tomato Soup\nIngredients\n2 cups tomatoes\nInstructions\n1. Simmer."))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got.Title != "Tomato Soup" {
		t.Fatalf("title = %q", got.Title)
	}
	if len(got.Ingredients) != 1 || len(got.Steps) != 1 {
		t.Fatalf("heuristic output = %+v", got)
	}
}

func TestChainImagesHardFailure(t *testing.T) {
	failing := &fakeProvider{name: "a", configured: true, err: errors.New("down")}

	chain := NewChain(logging.NewNop(), failing)
	payload := ImagesPayload([]images.Image{{MediaType: "image/jpeg", Data: []byte{1}}})
	if _, err := chain.Extract(context.Background(), payload); err == nil {
		t.Fatal("image extraction with no working provider must fail")
	}
}

func TestChainCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	failing := &fakeProvider{name: "a", configured: true, err: errors.New("interrupted")}
	never := &fakeProvider{name: "b", configured: true}

	chain := NewChain(logging.NewNop(), failing, never)
	cancel()
	if _, err := chain.Extract(ctx, TextPayload("text")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if never.calls != 0 {
		t.Fatal("chain must stop once the request is cancelled")
	}
}

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"bare", `{"a":1}`, `{"a":1}`, true},
		{"prose", "Here you go:\n```json\n{\"a\":{\"b\":2}}\n```\nEnjoy!", `{"a":{"b":2}}`, true},
		{"brace in string", `{"a":"}{"}`, `{"a":"}{"}`, true},
		{"escaped quote", `{"a":"say \"}\" now"}`, `{"a":"say \"}\" now"}`, true},
		{"no object", "nothing here", "", false},
		{"unbalanced", `{"a":1`, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tc.input)
			if tc.ok != (err == nil) {
				t.Fatalf("err = %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
