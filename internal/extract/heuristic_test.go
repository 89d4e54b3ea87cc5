package extract

import (
	"strings"
	"testing"
)

func TestHeuristicSections(t *testing.T) {
	text := strings.Join([]string{
		"Chicken Noodle Soup",
		"Ingredients",
		"2 cups chicken broth",
		"1/2 lb egg noodles",
		"1 clove garlic",
		"Instructions",
		"1. Bring the broth to a boil.",
		"4. Add the noodles and garlic.",
		"9) Simmer until tender.",
	}, "\n")

	got := ParseHeuristic(text)

	if got.Title != "Chicken Noodle Soup" {
		t.Fatalf("title = %q", got.Title)
	}
	if len(got.Ingredients) != 3 {
		t.Fatalf("ingredients = %+v", got.Ingredients)
	}
	if got.Ingredients[0].Quantity != "2" || got.Ingredients[0].Name != "cups chicken broth" {
		t.Fatalf("first ingredient = %+v", got.Ingredients[0])
	}
	if got.Ingredients[1].Quantity != "1/2" {
		t.Fatalf("second quantity = %q", got.Ingredients[1].Quantity)
	}
	if len(got.Steps) != 3 {
		t.Fatalf("steps = %+v", got.Steps)
	}
	// Input numbering 1, 4, 9 is replaced with 1..N.
	for i, step := range got.Steps {
		if step.Order != i+1 {
			t.Fatalf("step %d order = %d", i, step.Order)
		}
	}
	if got.Steps[1].Instruction != "Add the noodles and garlic." {
		t.Fatalf("step prefix not stripped: %q", got.Steps[1].Instruction)
	}
}

func TestHeuristicKeywordAndNumberDetection(t *testing.T) {
	text := strings.Join([]string{
		"Quick Toast",
		"2 tbsp butter",
		"1. Toast the bread.",
		"2. Spread the butter on top.",
	}, "\n")

	got := ParseHeuristic(text)

	if len(got.Ingredients) != 1 || got.Ingredients[0].Name != "tbsp butter" {
		t.Fatalf("ingredients = %+v", got.Ingredients)
	}
	if len(got.Steps) != 2 {
		t.Fatalf("steps = %+v", got.Steps)
	}
}

func TestHeuristicUnitKeywordsMatchWholeWords(t *testing.T) {
	got := ParseHeuristic("Salad\nInstructions\nMix everything gently in a large bowl.")
	if len(got.Ingredients) != 0 {
		t.Fatalf("single-letter units must not match inside words: %+v", got.Ingredients)
	}
	if len(got.Steps) != 1 {
		t.Fatalf("steps = %+v", got.Steps)
	}
}

func TestHeuristicHalfSplitFallback(t *testing.T) {
	text := strings.Join([]string{
		"Mystery Dish",
		"some unstructured line",
		"another unstructured line",
		"and a third one",
	}, "\n")

	got := ParseHeuristic(text)

	if len(got.Ingredients) == 0 || len(got.Steps) == 0 {
		t.Fatalf("half-split must produce both lists: %+v", got)
	}
	if len(got.Ingredients)+len(got.Steps) != 3 {
		t.Fatalf("all lines after the title must be kept: %+v", got)
	}
}

func TestHeuristicTitleCasing(t *testing.T) {
	got := ParseHeuristic("chicken noodle soup\nIngredients\n1 cup broth")
	if got.Title != "Chicken Noodle Soup" {
		t.Fatalf("title = %q", got.Title)
	}

	got = ParseHeuristic("Grandma's BBQ Sauce\nIngredients\n1 cup ketchup")
	if got.Title != "Grandma's BBQ Sauce" {
		t.Fatalf("mixed-case title must not be rewritten: %q", got.Title)
	}
}

func TestHeuristicEmptyInput(t *testing.T) {
	got := ParseHeuristic("  \n \n")
	if got.Title == "" {
		t.Fatalf("empty input needs a fallback title, got %+v", got)
	}
}
