// Package pipeline ties the capture stages together: normalize the
// input, run it through the extraction chain, and for videos acquire a
// transcript first. Each request is handled strictly sequentially;
// there is no fan-out across providers or images.
package pipeline

import (
	"context"
	"log/slog"

	"cooked/internal/extract"
	"cooked/internal/images"
	"cooked/internal/logging"
	"cooked/internal/normalize"
	"cooked/internal/recipe"
	"cooked/internal/transcript"
)

// StubTitle is the placeholder title attached to degraded results.
const StubTitle = "Recipe"

// VideoResult pairs a parsed recipe with the transcript source that
// produced it.
type VideoResult struct {
	Recipe recipe.ParsedRecipeData `json:"recipe"`
	Source string                  `json:"source"`
}

// Pipeline runs parse requests end to end.
type Pipeline struct {
	normalizer *normalize.Normalizer
	chain      *extract.Chain
	preparer   *images.Preparer
	acquirer   *transcript.Acquirer
	logger     *slog.Logger
}

// New assembles a Pipeline from its stages.
func New(normalizer *normalize.Normalizer, chain *extract.Chain, preparer *images.Preparer, acquirer *transcript.Acquirer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		normalizer: normalizer,
		chain:      chain,
		preparer:   preparer,
		acquirer:   acquirer,
		logger:     logger.With(slog.String(logging.FieldComponent, "pipeline")),
	}
}

// ParseText extracts a recipe from pasted text.
func (p *Pipeline) ParseText(ctx context.Context, text string) (recipe.ParsedRecipeData, error) {
	normalized, err := p.normalizer.Normalize(ctx, []string{text}, normalize.KindText)
	if err != nil {
		return recipe.ParsedRecipeData{}, err
	}
	return p.chain.Extract(ctx, extract.TextPayload(normalized.Text))
}

// ParseURL fetches a recipe page and extracts from its text. A failed
// fetch short-circuits into a stub result instead of spending provider
// quota on a payload with no real content.
func (p *Pipeline) ParseURL(ctx context.Context, rawURL string) (recipe.ParsedRecipeData, error) {
	normalized, err := p.normalizer.Normalize(ctx, []string{rawURL}, normalize.KindURL)
	if err != nil {
		return recipe.ParsedRecipeData{}, err
	}
	if normalized.Metadata.IsStub {
		return stubResult(normalized.Text), nil
	}
	return p.chain.Extract(ctx, extract.TextPayload(normalized.Text))
}

// ParseImages prepares the photos and sends them to a vision-capable
// provider. When no provider is configured the OCR-style stub result
// is returned via the normalizer instead of failing the request.
func (p *Pipeline) ParseImages(ctx context.Context, imagePaths []string) (recipe.ParsedRecipeData, error) {
	if !p.chain.HasConfiguredProvider() {
		normalized, err := p.normalizer.Normalize(ctx, imagePaths, normalize.KindImage)
		if err != nil {
			return recipe.ParsedRecipeData{}, err
		}
		if normalized.Metadata.IsStub {
			return stubResult(normalized.Text), nil
		}
		return p.chain.Extract(ctx, extract.TextPayload(normalized.Text))
	}
	prepared, err := p.preparer.Prepare(ctx, imagePaths)
	if err != nil {
		return recipe.ParsedRecipeData{}, err
	}
	return p.chain.Extract(ctx, extract.ImagesPayload(prepared))
}

// ParseVideo acquires a transcript for the URL and extracts from it.
func (p *Pipeline) ParseVideo(ctx context.Context, rawURL string) (VideoResult, error) {
	acquired, err := p.acquirer.Acquire(ctx, rawURL)
	if err != nil {
		return VideoResult{}, err
	}
	p.logger.Info("transcript acquired, extracting recipe",
		slog.String(logging.FieldSource, acquired.Source))
	parsed, err := p.chain.Extract(ctx, extract.TranscriptPayload(acquired.Text))
	if err != nil {
		return VideoResult{}, err
	}
	return VideoResult{Recipe: parsed, Source: acquired.Source}, nil
}

func stubResult(text string) recipe.ParsedRecipeData {
	return recipe.ParsedRecipeData{
		Title:       StubTitle,
		Description: text,
		Ingredients: []recipe.ParsedIngredient{},
		Steps:       []recipe.ParsedStep{},
	}
}
