package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"cooked/internal/grocery"
	"cooked/internal/pipeline"
	"cooked/internal/recipe"
)

// apiClient talks to the daemon's HTTP API.
type apiClient struct {
	baseURL    string
	httpClient *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: baseURL,
		// Video parsing waits out the transcription poll loop, so the
		// client timeout must exceed the daemon's poll deadline.
		httpClient: &http.Client{Timeout: 10 * time.Minute},
	}
}

type recipesResponse struct {
	Recipes []recipe.Recipe `json:"recipes"`
}

type groceryList struct {
	Groups      []grocery.Group `json:"groups"`
	ToBuy       []grocery.Item  `json:"toBuy"`
	AlreadyHave []grocery.Item  `json:"alreadyHave"`
	Done        []grocery.Item  `json:"done"`
}

func (c *apiClient) health(ctx context.Context) error {
	var out map[string]string
	return c.do(ctx, http.MethodGet, "/health", nil, &out)
}

func (c *apiClient) parse(ctx context.Context, kind, input string, inputs []string) (recipe.ParsedRecipeData, error) {
	payload := map[string]any{"type": kind, "input": input, "inputs": inputs}
	var out recipe.ParsedRecipeData
	err := c.do(ctx, http.MethodPost, "/api/parse", payload, &out)
	return out, err
}

func (c *apiClient) parseVideo(ctx context.Context, url string) (pipeline.VideoResult, error) {
	var out pipeline.VideoResult
	err := c.do(ctx, http.MethodPost, "/parse-video", map[string]string{"url": url}, &out)
	return out, err
}

func (c *apiClient) addRecipe(ctx context.Context, payload map[string]any) (recipe.Recipe, error) {
	var out recipe.Recipe
	err := c.do(ctx, http.MethodPost, "/api/recipes", payload, &out)
	return out, err
}

func (c *apiClient) listRecipes(ctx context.Context) ([]recipe.Recipe, error) {
	var out recipesResponse
	err := c.do(ctx, http.MethodGet, "/api/recipes", nil, &out)
	return out.Recipes, err
}

func (c *apiClient) getRecipe(ctx context.Context, id string) (recipe.Recipe, error) {
	var out recipe.Recipe
	err := c.do(ctx, http.MethodGet, "/api/recipes/"+id, nil, &out)
	return out, err
}

func (c *apiClient) deleteRecipe(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/recipes/"+id, nil, nil)
}

func (c *apiClient) markCooked(ctx context.Context, id string) (recipe.Recipe, error) {
	var out recipe.Recipe
	err := c.do(ctx, http.MethodPost, "/api/recipes/"+id+"/cooked", map[string]any{}, &out)
	return out, err
}

func (c *apiClient) cookAgain(ctx context.Context, id, cookDate string, reminder bool) (recipe.Recipe, error) {
	payload := map[string]any{"cookDate": cookDate, "reminderEnabled": reminder}
	var out recipe.Recipe
	err := c.do(ctx, http.MethodPost, "/api/recipes/"+id+"/cook-again", payload, &out)
	return out, err
}

func (c *apiClient) groceryItems(ctx context.Context) (groceryList, error) {
	var out groceryList
	err := c.do(ctx, http.MethodGet, "/api/grocery", nil, &out)
	return out, err
}

func (c *apiClient) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("is the cooked daemon running? %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		var apiErr struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("%s %s: http %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
