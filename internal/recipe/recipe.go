// Package recipe defines the structured recipe model shared by the
// parse pipeline, the library store, and the grocery projector.
package recipe

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category is the closed set of recipe categories.
type Category string

const (
	CategoryBreakfast  Category = "breakfast"
	CategoryLunch      Category = "lunch"
	CategoryDinner     Category = "dinner"
	CategoryPasta      Category = "pasta"
	CategoryVegetarian Category = "vegetarian"
	CategorySoup       Category = "soup"
	CategorySalad      Category = "salad"
	CategoryDessert    Category = "dessert"
	CategorySnack      Category = "snack"
	CategoryOther      Category = "other"
)

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{
		CategoryBreakfast,
		CategoryLunch,
		CategoryDinner,
		CategoryPasta,
		CategoryVegetarian,
		CategorySoup,
		CategorySalad,
		CategoryDessert,
		CategorySnack,
		CategoryOther,
	}
}

// ParseCategory maps an arbitrary string to a Category, defaulting to
// CategoryOther for unknown values.
func ParseCategory(value string) Category {
	normalized := Category(strings.ToLower(strings.TrimSpace(value)))
	for _, category := range Categories() {
		if normalized == category {
			return category
		}
	}
	return CategoryOther
}

// Status tracks where a recipe is in its lifecycle.
type Status string

const (
	StatusSaved  Status = "saved"
	StatusCooked Status = "cooked"
)

// Source records what kind of input produced a recipe.
type Source string

const (
	SourceText  Source = "text"
	SourceLink  Source = "link"
	SourceImage Source = "image"
	SourceVideo Source = "video"
)

// Ingredient is a single recipe ingredient. Checked and AlreadyHave
// are independent flags: checked means purchased, alreadyHave means
// owned and excluded from the to-buy list. Views must filter on both,
// never assume exclusivity.
type Ingredient struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Quantity    string `json:"quantity"`
	Checked     bool   `json:"checked"`
	AlreadyHave bool   `json:"alreadyHave"`
}

// Step is a single instruction with a 1-based order.
type Step struct {
	ID          string `json:"id"`
	Order       int    `json:"order"`
	Instruction string `json:"instruction"`
}

// Recipe is a stored recipe. ID is immutable once assigned and
// UpdatedAt advances on every mutation.
type Recipe struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description,omitempty"`
	Ingredients     []Ingredient `json:"ingredients"`
	Steps           []Step       `json:"steps"`
	Category        Category     `json:"category"`
	Status          Status       `json:"status"`
	Source          Source       `json:"source"`
	SourceURL       string       `json:"sourceUrl,omitempty"`
	ImageURI        string       `json:"imageUri,omitempty"`
	CookDate        string       `json:"cookDate,omitempty"`
	ReminderEnabled bool         `json:"reminderEnabled"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// Touch advances the update timestamp.
func (r *Recipe) Touch() {
	r.UpdatedAt = time.Now().UTC()
}

// MarkCooked transitions the recipe to the cooked status.
func (r *Recipe) MarkCooked() {
	r.Status = StatusCooked
	r.Touch()
}

// CookAgain resets the ingredient checklist for another cooking
// session: checked and alreadyHave flags are cleared, the schedule is
// reassigned, and the recipe returns to the saved status.
func (r *Recipe) CookAgain(cookDate string, reminderEnabled bool) {
	for i := range r.Ingredients {
		r.Ingredients[i].Checked = false
		r.Ingredients[i].AlreadyHave = false
	}
	r.Status = StatusSaved
	r.CookDate = strings.TrimSpace(cookDate)
	r.ReminderEnabled = reminderEnabled && r.CookDate != ""
	r.Touch()
}

// FindIngredient returns a pointer to the ingredient with the given id.
func (r *Recipe) FindIngredient(ingredientID string) *Ingredient {
	for i := range r.Ingredients {
		if r.Ingredients[i].ID == ingredientID {
			return &r.Ingredients[i]
		}
	}
	return nil
}

// CommitOptions carries user-supplied fields applied when a parsed
// recipe becomes a stored recipe.
type CommitOptions struct {
	Category        Category
	Source          Source
	SourceURL       string
	ImageURI        string
	CookDate        string
	ReminderEnabled bool
}

// FromParsed commits parsed pipeline output into a stored Recipe:
// identity is assigned here and nowhere else, timestamps are set, and
// ingredient/step order is preserved. Ingredients whose name is blank
// after trimming are dropped.
func FromParsed(parsed ParsedRecipeData, opts CommitOptions) Recipe {
	now := time.Now().UTC()

	ingredients := make([]Ingredient, 0, len(parsed.Ingredients))
	for _, item := range parsed.Ingredients {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}
		ingredients = append(ingredients, Ingredient{
			ID:       uuid.NewString(),
			Name:     name,
			Quantity: strings.TrimSpace(item.Quantity),
		})
	}

	steps := make([]Step, 0, len(parsed.Steps))
	for _, item := range parsed.Steps {
		steps = append(steps, Step{
			ID:          uuid.NewString(),
			Order:       item.Order,
			Instruction: item.Instruction,
		})
	}

	category := opts.Category
	if category == "" {
		category = CategoryOther
	}
	source := opts.Source
	if source == "" {
		source = SourceText
	}

	return Recipe{
		ID:              uuid.NewString(),
		Title:           parsed.Title,
		Description:     parsed.Description,
		Ingredients:     ingredients,
		Steps:           steps,
		Category:        category,
		Status:          StatusSaved,
		Source:          source,
		SourceURL:       strings.TrimSpace(opts.SourceURL),
		ImageURI:        strings.TrimSpace(opts.ImageURI),
		CookDate:        strings.TrimSpace(opts.CookDate),
		ReminderEnabled: opts.ReminderEnabled && strings.TrimSpace(opts.CookDate) != "",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
