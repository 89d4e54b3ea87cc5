package extract

const promptSchema = `{
  "title": "Recipe Title",
  "description": "Brief description",
  "ingredients": [
    { "name": "ingredient name", "quantity": "amount with unit" }
  ],
  "steps": [
    { "order": 1, "instruction": "Step instruction written for a beginner cook" }
  ]
}`

const promptRules = `Rules:
- Make instructions beginner-friendly and clear
- Include exact quantities where available
- If quantities are missing, estimate reasonable amounts
- Break complex steps into simpler sub-steps
- Keep ingredient names simple (e.g., "olive oil" not "extra virgin cold-pressed olive oil")`

// TextPrompt wraps pasted or scraped recipe text.
func TextPrompt(text string) string {
	return "You are a recipe parser. Extract the following from the text below and return valid JSON only (no markdown, no explanation):\n\n" +
		promptSchema + "\n\n" + promptRules + "\n\nRecipe text:\n" + text
}

// TranscriptPrompt wraps a cooking-video transcript; the extra rule
// steers the model past greetings and sponsor reads.
func TranscriptPrompt(text string) string {
	return "You are a recipe parser. Extract the following from the text below and return valid JSON only (no markdown, no explanation):\n\n" +
		promptSchema + "\n\n" + promptRules +
		"\n- The text is a transcript from a cooking video, so ignore any non-recipe content like greetings, sponsor mentions, etc." +
		"\n\nRecipe transcript:\n" + text
}

// ImagesPrompt accompanies attached recipe photos.
func ImagesPrompt() string {
	return "You are a recipe parser. Extract the following from the attached photo(s) of a recipe and return valid JSON only (no markdown, no explanation):\n\n" +
		promptSchema + "\n\n" + promptRules +
		"\n- Read the text in the photos faithfully; do not invent ingredients or steps that are not visible"
}
