package recipe

import (
	"testing"
	"time"
)

func TestFromParsedRoundTrip(t *testing.T) {
	parsed := ParsedRecipeData{
		Title:       "Garlic Butter Pasta",
		Description: "Weeknight staple",
		Ingredients: []ParsedIngredient{
			{Name: "spaghetti", Quantity: "400 g"},
			{Name: "garlic", Quantity: "4 cloves"},
			{Name: "  ", Quantity: "1 tbsp"}, // blank name, dropped
			{Name: "butter", Quantity: ""},
		},
		Steps: []ParsedStep{
			{Order: 1, Instruction: "Boil the pasta."},
			{Order: 2, Instruction: "Melt butter with garlic."},
			{Order: 3, Instruction: "Toss and serve."},
		},
	}

	committed := FromParsed(parsed, CommitOptions{Category: CategoryPasta, Source: SourceText})

	if committed.ID == "" {
		t.Fatal("expected assigned identity")
	}
	if committed.Status != StatusSaved {
		t.Fatalf("status = %q", committed.Status)
	}
	if len(committed.Ingredients) != 3 {
		t.Fatalf("expected blank-name ingredient dropped, got %d", len(committed.Ingredients))
	}
	wantNames := []string{"spaghetti", "garlic", "butter"}
	for i, name := range wantNames {
		if committed.Ingredients[i].Name != name {
			t.Fatalf("ingredient %d = %q, want %q", i, committed.Ingredients[i].Name, name)
		}
		if committed.Ingredients[i].ID == "" {
			t.Fatalf("ingredient %d missing identity", i)
		}
		if committed.Ingredients[i].Checked || committed.Ingredients[i].AlreadyHave {
			t.Fatalf("ingredient %d flags should start clear", i)
		}
	}
	for i, step := range committed.Steps {
		if step.Order != parsed.Steps[i].Order || step.Instruction != parsed.Steps[i].Instruction {
			t.Fatalf("step %d mutated: %+v", i, step)
		}
	}
}

func TestFromParsedDefaults(t *testing.T) {
	committed := FromParsed(ParsedRecipeData{Title: "T"}, CommitOptions{})
	if committed.Category != CategoryOther {
		t.Fatalf("category = %q", committed.Category)
	}
	if committed.Source != SourceText {
		t.Fatalf("source = %q", committed.Source)
	}
	if committed.ReminderEnabled {
		t.Fatal("reminder should stay off without a cook date")
	}
}

func TestCookAgainResetsChecklist(t *testing.T) {
	r := FromParsed(ParsedRecipeData{
		Title: "Stew",
		Ingredients: []ParsedIngredient{
			{Name: "beef"}, {Name: "carrots"},
		},
	}, CommitOptions{})
	r.Ingredients[0].Checked = true
	r.Ingredients[1].AlreadyHave = true
	r.MarkCooked()

	before := r.UpdatedAt
	time.Sleep(time.Millisecond)
	r.CookAgain("2026-09-12", true)

	if r.Status != StatusSaved {
		t.Fatalf("status = %q", r.Status)
	}
	for i, ingredient := range r.Ingredients {
		if ingredient.Checked || ingredient.AlreadyHave {
			t.Fatalf("ingredient %d flags not reset", i)
		}
	}
	if r.CookDate != "2026-09-12" || !r.ReminderEnabled {
		t.Fatalf("schedule not reassigned: %q enabled=%v", r.CookDate, r.ReminderEnabled)
	}
	if !r.UpdatedAt.After(before) {
		t.Fatal("UpdatedAt must advance on mutation")
	}
}

func TestCookAgainWithoutDateDisablesReminder(t *testing.T) {
	r := FromParsed(ParsedRecipeData{Title: "T"}, CommitOptions{})
	r.CookAgain("", true)
	if r.ReminderEnabled {
		t.Fatal("reminder requires a cook date")
	}
}

func TestParseCategory(t *testing.T) {
	if got := ParseCategory(" Dessert "); got != CategoryDessert {
		t.Fatalf("got %q", got)
	}
	if got := ParseCategory("brunch"); got != CategoryOther {
		t.Fatalf("got %q", got)
	}
}
