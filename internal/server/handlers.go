package server

import (
	"net/http"
	"strings"

	"log/slog"

	"cooked/internal/grocery"
	"cooked/internal/logging"
	"cooked/internal/recipe"
)

type parseVideoRequest struct {
	URL string `json:"url"`
}

type parseRequest struct {
	Type   string   `json:"type"`
	Input  string   `json:"input"`
	Inputs []string `json:"inputs"`
}

// commitRequest carries the parsed recipe plus the user-supplied
// fields applied at save time.
type commitRequest struct {
	recipe.ParsedRecipeData
	Category        string `json:"category"`
	Source          string `json:"source"`
	SourceURL       string `json:"sourceUrl"`
	ImageURI        string `json:"imageUri"`
	CookDate        string `json:"cookDate"`
	ReminderEnabled bool   `json:"reminderEnabled"`
}

type cookAgainRequest struct {
	CookDate        string `json:"cookDate"`
	ReminderEnabled bool   `json:"reminderEnabled"`
}

type toggleRequest struct {
	Field string `json:"field"`
}

type recipesResponse struct {
	Recipes []recipe.Recipe `json:"recipes"`
}

type groceryResponse struct {
	Groups []grocery.Group `json:"groups"`
	grocery.Partition
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleParseVideo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req parseVideoRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeFailure(w, err)
		return
	}
	result, err := s.pipeline.ParseVideo(r.Context(), req.URL)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req parseRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeFailure(w, err)
		return
	}

	var (
		parsed recipe.ParsedRecipeData
		err    error
	)
	switch strings.ToLower(strings.TrimSpace(req.Type)) {
	case "text":
		parsed, err = s.pipeline.ParseText(r.Context(), req.Input)
	case "url", "link":
		parsed, err = s.pipeline.ParseURL(r.Context(), req.Input)
	case "image":
		paths := req.Inputs
		if len(paths) == 0 && req.Input != "" {
			paths = []string{req.Input}
		}
		parsed, err = s.pipeline.ParseImages(r.Context(), paths)
	case "video":
		s.writeError(w, http.StatusBadRequest, "video parsing is served by /parse-video")
		return
	default:
		s.writeError(w, http.StatusBadRequest, "unsupported parse type")
		return
	}
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, parsed)
}

func (s *Server) handleRecipes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		recipes, err := s.store.Load(r.Context())
		if err != nil {
			s.writeFailure(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, recipesResponse{Recipes: recipes})
	case http.MethodPost:
		s.handleAddRecipe(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleAddRecipe(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeFailure(w, err)
		return
	}

	count, err := s.store.Count(r.Context())
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	if !s.checker.CanAddRecipe(count) {
		s.writeError(w, http.StatusForbidden, "recipe limit reached, upgrade to add more recipes")
		return
	}

	saved := recipe.FromParsed(req.ParsedRecipeData, recipe.CommitOptions{
		Category:        recipe.ParseCategory(req.Category),
		Source:          parseSource(req.Source),
		SourceURL:       req.SourceURL,
		ImageURI:        req.ImageURI,
		CookDate:        req.CookDate,
		ReminderEnabled: req.ReminderEnabled,
	})
	if err := s.store.Put(r.Context(), saved); err != nil {
		s.writeFailure(w, err)
		return
	}
	s.scheduleReminder(saved)
	s.writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleRecipeItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/recipes/")
	segments := strings.Split(strings.Trim(rest, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		s.writeError(w, http.StatusNotFound, "recipe not found")
		return
	}
	id := segments[0]

	switch {
	case len(segments) == 1:
		s.handleRecipeByID(w, r, id)
	case len(segments) == 2 && segments[1] == "cooked":
		s.handleMarkCooked(w, r, id)
	case len(segments) == 2 && segments[1] == "cook-again":
		s.handleCookAgain(w, r, id)
	case len(segments) == 4 && segments[1] == "ingredients" && segments[3] == "toggle":
		s.handleToggleIngredient(w, r, id, segments[2])
	default:
		s.writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *Server) handleRecipeByID(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		stored, err := s.store.Get(r.Context(), id)
		if err != nil {
			s.writeFailure(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, stored)
	case http.MethodPut:
		s.handleUpdateRecipe(w, r, id)
	case http.MethodDelete:
		if err := s.store.Delete(r.Context(), id); err != nil {
			s.writeFailure(w, err)
			return
		}
		s.cancelReminder(id)
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleUpdateRecipe replaces the stored recipe's mutable fields. The
// path id and the creation timestamp always win over the body.
func (s *Server) handleUpdateRecipe(w http.ResponseWriter, r *http.Request, id string) {
	stored, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	updated := stored
	if err := decodeJSON(r, &updated); err != nil {
		s.writeFailure(w, err)
		return
	}
	updated.ID = stored.ID
	updated.CreatedAt = stored.CreatedAt
	updated.Category = recipe.ParseCategory(string(updated.Category))
	updated.ReminderEnabled = updated.ReminderEnabled && strings.TrimSpace(updated.CookDate) != ""
	updated.Touch()

	if err := s.store.Put(r.Context(), updated); err != nil {
		s.writeFailure(w, err)
		return
	}
	s.scheduleReminder(updated)
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleMarkCooked(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	stored, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	stored.MarkCooked()
	if err := s.store.Put(r.Context(), stored); err != nil {
		s.writeFailure(w, err)
		return
	}
	s.cancelReminder(id)
	s.writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleCookAgain(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req cookAgainRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeFailure(w, err)
		return
	}
	stored, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	stored.CookAgain(req.CookDate, req.ReminderEnabled)
	if err := s.store.Put(r.Context(), stored); err != nil {
		s.writeFailure(w, err)
		return
	}
	s.scheduleReminder(stored)
	s.writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleToggleIngredient(w http.ResponseWriter, r *http.Request, recipeID, ingredientID string) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req toggleRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeFailure(w, err)
		return
	}

	var toggle func(*recipe.Ingredient)
	switch req.Field {
	case "checked":
		toggle = func(i *recipe.Ingredient) { i.Checked = !i.Checked }
	case "alreadyHave":
		toggle = func(i *recipe.Ingredient) { i.AlreadyHave = !i.AlreadyHave }
	default:
		s.writeError(w, http.StatusBadRequest, "field must be checked or alreadyHave")
		return
	}

	updated, err := s.store.UpdateIngredient(r.Context(), recipeID, ingredientID, toggle)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleGrocery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	recipes, err := s.store.Load(r.Context())
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	items := grocery.Build(recipes)
	s.writeJSON(w, http.StatusOK, groceryResponse{
		Groups:    grocery.GroupByRecipe(items),
		Partition: grocery.Split(items),
	})
}

// scheduleReminder (re)schedules the cook-day push for a recipe,
// replacing any reminder already pending for it.
func (s *Server) scheduleReminder(r recipe.Recipe) {
	s.cancelReminder(r.ID)
	if !r.ReminderEnabled || r.CookDate == "" {
		return
	}
	handle, err := s.scheduler.Schedule(r.ID, r.Title, r.CookDate)
	if err != nil {
		s.logger.Warn("reminder not scheduled",
			slog.String(logging.FieldRecipeID, r.ID),
			slog.String("error", err.Error()))
		return
	}
	if handle == "" {
		return
	}
	s.mu.Lock()
	s.reminders[r.ID] = handle
	s.mu.Unlock()
}

func (s *Server) cancelReminder(recipeID string) {
	s.mu.Lock()
	handle, ok := s.reminders[recipeID]
	if ok {
		delete(s.reminders, recipeID)
	}
	s.mu.Unlock()
	if ok {
		s.scheduler.Cancel(handle)
	}
}

func parseSource(value string) recipe.Source {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(recipe.SourceLink):
		return recipe.SourceLink
	case string(recipe.SourceImage):
		return recipe.SourceImage
	case string(recipe.SourceVideo):
		return recipe.SourceVideo
	default:
		return recipe.SourceText
	}
}
