package recipe

import (
	"encoding/json"
	"testing"
)

func TestValidateParsedNil(t *testing.T) {
	parsed := ValidateParsed(nil)
	if parsed.Title != FallbackTitle {
		t.Fatalf("expected fallback title, got %q", parsed.Title)
	}
	if parsed.Ingredients == nil || parsed.Steps == nil {
		t.Fatal("expected non-nil ingredient and step slices")
	}
}

func TestValidateParsedWellFormed(t *testing.T) {
	raw := decodeRaw(t, `{
		"title": "Chicken Soup",
		"description": "Comfort food",
		"ingredients": [
			{"name": "chicken", "quantity": "1 lb"},
			{"name": "water", "quantity": "8 cups"}
		],
		"steps": [
			{"order": 1, "instruction": "Simmer the chicken."},
			{"order": 2, "instruction": "Season and serve."}
		]
	}`)

	parsed := ValidateParsed(raw)
	if parsed.Title != "Chicken Soup" {
		t.Fatalf("title = %q", parsed.Title)
	}
	if parsed.Description != "Comfort food" {
		t.Fatalf("description = %q", parsed.Description)
	}
	if len(parsed.Ingredients) != 2 || parsed.Ingredients[1].Quantity != "8 cups" {
		t.Fatalf("ingredients = %+v", parsed.Ingredients)
	}
	if len(parsed.Steps) != 2 || parsed.Steps[1].Order != 2 {
		t.Fatalf("steps = %+v", parsed.Steps)
	}
}

func TestValidateParsedMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"wrong types", `{"title": 42, "description": [], "ingredients": {"not": "a list"}, "steps": "nope"}`},
		{"non object entries", `{"title": "T", "ingredients": ["garlic", 7], "steps": [false, "stir"]}`},
		{"partial entries", `{"ingredients": [{"name": 3, "quantity": 1}], "steps": [{"order": "first", "instruction": 9}]}`},
		{"empty object", `{}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parsed := ValidateParsed(decodeRaw(t, tc.raw))
			if parsed.Title == "" {
				t.Fatal("title must never be empty")
			}
			for i, ingredient := range parsed.Ingredients {
				if ingredient.Name == "" {
					t.Fatalf("ingredient %d has empty name", i)
				}
			}
			for i, step := range parsed.Steps {
				if step.Order < 1 {
					t.Fatalf("step %d has order %d", i, step.Order)
				}
			}
		})
	}
}

func TestValidateParsedStepOrderFallback(t *testing.T) {
	raw := decodeRaw(t, `{"steps": [{"instruction": "a"}, {"order": 7, "instruction": "b"}, {"instruction": "c"}]}`)
	parsed := ValidateParsed(raw)
	if len(parsed.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(parsed.Steps))
	}
	if parsed.Steps[0].Order != 1 || parsed.Steps[1].Order != 7 || parsed.Steps[2].Order != 3 {
		t.Fatalf("orders = %d %d %d", parsed.Steps[0].Order, parsed.Steps[1].Order, parsed.Steps[2].Order)
	}
}

func decodeRaw(t *testing.T, payload string) map[string]any {
	t.Helper()
	var raw map[string]any
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	return raw
}
