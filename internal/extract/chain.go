// Package extract turns normalized text or prepared images into
// ParsedRecipeData by walking a ranked chain of AI providers, falling
// back to a deterministic heuristic parser for text input.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"cooked/internal/apperr"
	"cooked/internal/images"
	"cooked/internal/logging"
	"cooked/internal/recipe"
)

// Payload is one extraction request. Text inputs carry the raw text
// alongside the prompt so the heuristic fallback can reuse it; image
// inputs carry prepared payloads and have no fallback.
type Payload struct {
	Prompt string
	Text   string
	Images []images.Image
}

// TextPayload builds a payload for pasted or scraped recipe text.
func TextPayload(text string) Payload {
	return Payload{Prompt: TextPrompt(text), Text: text}
}

// TranscriptPayload builds a payload for a video transcript.
func TranscriptPayload(text string) Payload {
	return Payload{Prompt: TranscriptPrompt(text), Text: text}
}

// ImagesPayload builds a payload for prepared recipe photos.
func ImagesPayload(imgs []images.Image) Payload {
	return Payload{Prompt: ImagesPrompt(), Images: imgs}
}

// Provider is one extraction backend.
type Provider interface {
	Name() string
	Configured() bool
	Extract(ctx context.Context, payload Payload) (recipe.ParsedRecipeData, error)
}

// Chain tries providers in order until one succeeds. Failover is
// sequential; there is no per-provider retry and no concurrent racing.
type Chain struct {
	providers []Provider
	logger    *slog.Logger
}

// NewChain builds a chain over the given providers in priority order.
func NewChain(logger *slog.Logger, providers ...Provider) *Chain {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Chain{providers: providers, logger: logger}
}

// HasConfiguredProvider reports whether at least one provider in the
// chain has credentials.
func (c *Chain) HasConfiguredProvider() bool {
	for _, provider := range c.providers {
		if provider.Configured() {
			return true
		}
	}
	return false
}

// Extract runs the payload through the chain. Unconfigured providers
// are skipped. For text input an empty or fully-failed chain degrades
// to the heuristic parser; for image input it is a hard failure.
func (c *Chain) Extract(ctx context.Context, payload Payload) (recipe.ParsedRecipeData, error) {
	for _, provider := range c.providers {
		if !provider.Configured() {
			continue
		}
		c.logger.Info("trying extraction provider", slog.String(logging.FieldProvider, provider.Name()))
		parsed, err := provider.Extract(ctx, payload)
		if err != nil {
			if ctx.Err() != nil {
				return recipe.ParsedRecipeData{}, ctx.Err()
			}
			c.logger.Warn("extraction provider failed, trying next",
				slog.String(logging.FieldProvider, provider.Name()),
				slog.String("error", err.Error()))
			continue
		}
		c.logger.Info("extraction succeeded", slog.String(logging.FieldProvider, provider.Name()))
		return parsed, nil
	}

	if len(payload.Images) > 0 {
		return recipe.ParsedRecipeData{}, apperr.Unavailable("could not parse a recipe from the provided images")
	}
	c.logger.Info("no extraction provider available, using heuristic parser")
	return ParseHeuristic(payload.Text), nil
}

// vendorClient is the surface shared by the Anthropic, OpenAI and
// Gemini clients.
type vendorClient interface {
	Configured() bool
	Complete(ctx context.Context, prompt string, imgs []images.Image) (string, error)
}

// NewProvider adapts a vendor client into a chain Provider: complete,
// locate the JSON object in the reply, validate it into the canonical
// shape.
func NewProvider(name string, client vendorClient) Provider {
	return &clientProvider{name: name, client: client}
}

type clientProvider struct {
	name   string
	client vendorClient
}

func (p *clientProvider) Name() string { return p.name }

func (p *clientProvider) Configured() bool { return p.client.Configured() }

func (p *clientProvider) Extract(ctx context.Context, payload Payload) (recipe.ParsedRecipeData, error) {
	var empty recipe.ParsedRecipeData
	content, err := p.client.Complete(ctx, payload.Prompt, payload.Images)
	if err != nil {
		return empty, err
	}
	object, err := ExtractJSONObject(content)
	if err != nil {
		return empty, fmt.Errorf("%s: %w", p.name, err)
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(object), &raw); err != nil {
		return empty, fmt.Errorf("%s: parse payload: %w", p.name, err)
	}
	if len(raw) == 0 {
		return empty, errors.New(p.name + ": empty payload")
	}
	return recipe.ValidateParsed(raw), nil
}
