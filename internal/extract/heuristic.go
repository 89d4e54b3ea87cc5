package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"cooked/internal/recipe"
)

// unitKeywords mark a line as an ingredient when one appears as a
// standalone word. Single-letter units like "g" and "l" would match
// almost any sentence as substrings.
var unitKeywords = map[string]struct{}{
	"cup": {}, "cups": {},
	"tbsp": {}, "tsp": {},
	"oz": {}, "lb": {},
	"g": {}, "kg": {},
	"ml": {}, "l": {},
	"piece": {}, "pieces": {},
	"clove": {}, "cloves": {},
	"pinch": {},
}

var stepHeaderKeywords = []string{"instruction", "direction", "step", "method"}

var (
	reQuantity     = regexp.MustCompile(`^[\d\s/.\-]+`)
	reNumbered     = regexp.MustCompile(`^\d+[.)]`)
	reNumberPrefix = regexp.MustCompile(`^\d+[.)]\s*`)
	reWordSplit    = regexp.MustCompile(`[^a-z]+`)
)

var titleCaser = cases.Title(language.English)

// ParseHeuristic is the deterministic fallback used when no AI
// provider is available. First non-empty line is the title; section
// headers ("Ingredients", "Instructions", ...) switch modes; outside
// any section, unit keywords mark ingredients and numbered lines mark
// steps. If nothing is recognized the remaining lines are split in
// half. Steps are renumbered 1..N regardless of input numbering.
func ParseHeuristic(text string) recipe.ParsedRecipeData {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	parsed := recipe.ParsedRecipeData{Title: recipe.FallbackTitle}
	if len(lines) == 0 {
		return parsed
	}
	parsed.Title = headline(lines[0])

	inIngredients := false
	inSteps := false
	stepOrder := 1

	for _, line := range lines[1:] {
		lower := strings.ToLower(line)

		if strings.Contains(lower, "ingredient") {
			inIngredients, inSteps = true, false
			continue
		}
		if containsAny(lower, stepHeaderKeywords) {
			inIngredients, inSteps = false, true
			continue
		}

		switch {
		case inIngredients:
			appendIngredient(&parsed, line)
		case inSteps:
			stepOrder = appendStep(&parsed, line, stepOrder)
		case hasUnitKeyword(lower):
			appendIngredient(&parsed, line)
		case reNumbered.MatchString(line):
			stepOrder = appendStep(&parsed, line, stepOrder)
		}
	}

	if len(parsed.Ingredients) == 0 && len(parsed.Steps) == 0 {
		mid := len(lines) / 2
		if mid < 1 {
			mid = 1
		}
		for _, line := range lines[1:mid] {
			parsed.Ingredients = append(parsed.Ingredients, recipe.ParsedIngredient{Name: line})
		}
		for _, line := range lines[mid:] {
			parsed.Steps = append(parsed.Steps, recipe.ParsedStep{Order: stepOrder, Instruction: line})
			stepOrder++
		}
	}
	return parsed
}

// headline title-cases an all-lowercase first line so a pasted
// "chicken noodle soup" reads like a title.
func headline(line string) string {
	if line == strings.ToLower(line) {
		return titleCaser.String(line)
	}
	return line
}

func appendIngredient(parsed *recipe.ParsedRecipeData, line string) {
	quantity := strings.TrimSpace(reQuantity.FindString(line))
	name := strings.TrimSpace(strings.TrimPrefix(line, reQuantity.FindString(line)))
	if name != "" {
		parsed.Ingredients = append(parsed.Ingredients, recipe.ParsedIngredient{Name: name, Quantity: quantity})
	}
}

func appendStep(parsed *recipe.ParsedRecipeData, line string, order int) int {
	instruction := strings.TrimSpace(reNumberPrefix.ReplaceAllString(line, ""))
	if instruction == "" {
		return order
	}
	parsed.Steps = append(parsed.Steps, recipe.ParsedStep{Order: order, Instruction: instruction})
	return order + 1
}

func hasUnitKeyword(lower string) bool {
	for _, word := range reWordSplit.Split(lower, -1) {
		if _, ok := unitKeywords[word]; ok {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
