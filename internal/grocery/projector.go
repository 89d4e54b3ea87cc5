// Package grocery derives the shopping list from the recipe library.
// The list is never stored: it is rebuilt from the current collection
// on every read, so it can never drift from the recipes that own the
// ingredients.
package grocery

import "cooked/internal/recipe"

// Item is an ingredient annotated with its owning recipe.
type Item struct {
	recipe.Ingredient
	RecipeID    string `json:"recipeId"`
	RecipeTitle string `json:"recipeTitle"`
}

// Group collects one recipe's items for grouped rendering.
type Group struct {
	RecipeID    string `json:"recipeId"`
	RecipeTitle string `json:"recipeTitle"`
	Items       []Item `json:"items"`
}

// Build flattens the ingredients of every saved (not cooked) recipe,
// preserving recipe order and ingredient order within each recipe.
func Build(recipes []recipe.Recipe) []Item {
	var items []Item
	for _, r := range recipes {
		if r.Status != recipe.StatusSaved {
			continue
		}
		for _, ingredient := range r.Ingredients {
			items = append(items, Item{
				Ingredient:  ingredient,
				RecipeID:    r.ID,
				RecipeTitle: r.Title,
			})
		}
	}
	return items
}

// GroupByRecipe buckets items under their owning recipe, keeping the
// order Build produced.
func GroupByRecipe(items []Item) []Group {
	var groups []Group
	index := make(map[string]int)
	for _, item := range items {
		at, ok := index[item.RecipeID]
		if !ok {
			at = len(groups)
			index[item.RecipeID] = at
			groups = append(groups, Group{RecipeID: item.RecipeID, RecipeTitle: item.RecipeTitle})
		}
		groups[at].Items = append(groups[at].Items, item)
	}
	return groups
}

// Partition holds the three mutually exclusive views of the list.
type Partition struct {
	ToBuy       []Item `json:"toBuy"`
	AlreadyHave []Item `json:"alreadyHave"`
	Done        []Item `json:"done"`
}

// Split partitions items into to-buy (neither flag set), already-have
// (owned), and done (purchased but not owned). Every item lands in
// exactly one bucket; alreadyHave wins when both flags are set.
func Split(items []Item) Partition {
	var p Partition
	for _, item := range items {
		switch {
		case item.AlreadyHave:
			p.AlreadyHave = append(p.AlreadyHave, item)
		case item.Checked:
			p.Done = append(p.Done, item)
		default:
			p.ToBuy = append(p.ToBuy, item)
		}
	}
	return p
}
