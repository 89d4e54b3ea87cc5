package recipe

// ParsedRecipeData is the pipeline's output shape, produced before any
// persistence identity exists. Every extraction path converges on it.
type ParsedRecipeData struct {
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Ingredients []ParsedIngredient `json:"ingredients"`
	Steps       []ParsedStep       `json:"steps"`
}

// ParsedIngredient is an ingredient before identity assignment.
type ParsedIngredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// ParsedStep is a step before identity assignment.
type ParsedStep struct {
	Order       int    `json:"order"`
	Instruction string `json:"instruction"`
}

const (
	// FallbackTitle replaces a missing or non-string title.
	FallbackTitle = "Untitled Recipe"
	// FallbackIngredientName replaces a missing or non-string name.
	FallbackIngredientName = "Unknown ingredient"
)

// ValidateParsed coerces whatever a provider returned into the
// canonical parsed shape. Every field is defensively typed: wrong or
// missing values become safe defaults, so this function never fails
// regardless of how malformed the input is.
func ValidateParsed(raw map[string]any) ParsedRecipeData {
	parsed := ParsedRecipeData{
		Title:       FallbackTitle,
		Ingredients: []ParsedIngredient{},
		Steps:       []ParsedStep{},
	}
	if raw == nil {
		return parsed
	}

	if title, ok := raw["title"].(string); ok {
		parsed.Title = title
	}
	if description, ok := raw["description"].(string); ok {
		parsed.Description = description
	}

	if items, ok := raw["ingredients"].([]any); ok {
		for _, entry := range items {
			ingredient := ParsedIngredient{Name: FallbackIngredientName}
			if fields, ok := entry.(map[string]any); ok {
				if name, ok := fields["name"].(string); ok {
					ingredient.Name = name
				}
				if quantity, ok := fields["quantity"].(string); ok {
					ingredient.Quantity = quantity
				}
			}
			parsed.Ingredients = append(parsed.Ingredients, ingredient)
		}
	}

	if items, ok := raw["steps"].([]any); ok {
		for idx, entry := range items {
			step := ParsedStep{Order: idx + 1}
			if fields, ok := entry.(map[string]any); ok {
				// JSON numbers decode as float64.
				if order, ok := fields["order"].(float64); ok {
					step.Order = int(order)
				}
				if instruction, ok := fields["instruction"].(string); ok {
					step.Instruction = instruction
				}
			}
			parsed.Steps = append(parsed.Steps, step)
		}
	}

	return parsed
}
