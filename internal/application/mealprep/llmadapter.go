package mealprep

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
	"github.com/alchemorsel/mealprep/internal/ports/outbound"
	"github.com/alchemorsel/mealprep/pkg/metrics"
)

const maxGenerationAttempts = 3

// recipeJSON is the wire shape the Prompt Assembler's structured-output
// schema (spec.md §4.2 section 12) asks the model to emit.
type recipeJSON struct {
	Title        string              `json:"title"`
	Servings     int                 `json:"servings"`
	TotalMinutes int                 `json:"total_minutes"`
	Ingredients  []ingredientJSON    `json:"ingredients"`
	Steps        []string            `json:"steps"`
	Equipment    []string            `json:"equipment"`
	Tags         []string            `json:"tags"`
}

type ingredientJSON struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
}

func (r recipeJSON) toRecipe(lang string) mealplan.Recipe {
	ingredients := make([]mealplan.Ingredient, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ingredients = append(ingredients, mealplan.NewIngredient(ing.Name, ing.Quantity, ing.Unit, ing.Category, lang))
	}
	return mealplan.Recipe{
		Title:        r.Title,
		Servings:     r.Servings,
		TotalMinutes: r.TotalMinutes,
		Ingredients:  ingredients,
		Steps:        r.Steps,
		Equipment:    r.Equipment,
		Tags:         r.Tags,
	}
}

// LLMAdapter implements spec.md §4.4: issues chat-completion calls
// against a provider-agnostic outbound.LLMService, extracts and
// validates the structured-output JSON, and applies the retry/clamp/
// fallback policy.
type LLMAdapter struct {
	backend outbound.LLMService
	logger  *zap.Logger
	metrics *metrics.Registry
}

// NewLLMAdapter builds an adapter over backend, logging via a named
// sub-logger (teacher's logger.Named(...) convention).
func NewLLMAdapter(backend outbound.LLMService, logger *zap.Logger, reg *metrics.Registry) *LLMAdapter {
	return &LLMAdapter{backend: backend, logger: logger.Named("llm-adapter"), metrics: reg}
}

// GenerateRecipe issues a single chat-completion attempt and parses the
// result, with no retry and no clamp (spec.md §4.4).
func (a *LLMAdapter) GenerateRecipe(ctx context.Context, sections PromptSections, lang string) (mealplan.Recipe, error) {
	raw, err := a.backend.ChatCompletion(ctx, sections.System, sections.User, 0.7, 2000)
	if err != nil {
		return mealplan.Recipe{}, err
	}
	payload, ok := parseRecipeJSON(raw)
	if !ok {
		return mealplan.Recipe{}, errParseFailure
	}
	return payload.toRecipe(lang), nil
}

// GenerateRecipeWithRetry implements the full spec.md §4.4 policy: up to
// maxGenerationAttempts attempts, fence-stripped brace extraction, JSON
// decode with retry-on-failure, and a single clamp-and-retry pass when
// total_minutes exceeds timeCap. On total failure (transport or parse),
// it returns a deterministic fallback recipe and never an error — the
// only error this can return is ctx's own cancellation, which the
// Parallel Generator propagates as cooperative cancellation rather than
// masking with a fallback.
func (a *LLMAdapter) GenerateRecipeWithRetry(ctx context.Context, sections PromptSections, timeCap int, lang string) (mealplan.Recipe, error) {
	var bestClamped *mealplan.Recipe

	for attempt := 1; attempt <= maxGenerationAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return mealplan.Recipe{}, err
		}

		raw, err := a.backend.ChatCompletion(ctx, sections.System, sections.User, 0.7, 2000)
		if err != nil {
			if ctx.Err() != nil {
				return mealplan.Recipe{}, ctx.Err()
			}
			a.countRetry("transport")
			continue
		}

		payload, ok := parseRecipeJSON(raw)
		if !ok {
			a.countRetry("parse_error")
			continue
		}

		recipe := payload.toRecipe(lang)

		if timeCap > 0 && recipe.TotalMinutes > timeCap {
			clamped := recipe
			clamped.TotalMinutes = timeCap
			if bestClamped != nil {
				return clamped, nil
			}
			bestClamped = &clamped
			a.countRetry("constraint_violation")
			continue
		}

		return recipe, nil
	}

	if bestClamped != nil {
		return *bestClamped, nil
	}

	if a.metrics != nil {
		a.metrics.LLMFallbacksTotal.WithLabelValues("recipe_generator").Inc()
	}
	a.logger.Warn("llm generation exhausted retry budget, returning fallback recipe")
	return fallbackRecipe(timeCap, lang), nil
}

func (a *LLMAdapter) countRetry(reason string) {
	if a.metrics != nil {
		a.metrics.LLMRetriesTotal.WithLabelValues(reason).Inc()
	}
}

var errParseFailure = &parseError{}

type parseError struct{}

func (*parseError) Error() string { return "llm response did not contain a decodable JSON object" }

// parseRecipeJSON strips code fences, extracts the substring from the
// first '{' to the last '}', and decodes it — the exact recovery
// algorithm the teacher's ollama client uses for recipe generation
// (spec.md §4.4: "extracts the first {...} JSON object from a possibly
// fenced response").
func parseRecipeJSON(response string) (recipeJSON, bool) {
	text, ok := extractJSONObject(response)
	if !ok {
		return recipeJSON{}, false
	}
	var payload recipeJSON
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return recipeJSON{}, false
	}
	return payload, true
}

// extractJSONObject strips Markdown code fences, then slices from the
// first '{' to the last '}'.
func extractJSONObject(response string) (string, bool) {
	text := strings.TrimSpace(response)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// fallbackRecipe is the deterministic recovery recipe spec.md §4.4/§4.11
// require on total failure: a single primary ingredient, two generic
// steps, total_minutes = timeCap or 30, and a "simple" tag. It
// intentionally does not satisfy Recipe.Validate()'s five-step minimum —
// it is a degenerate recovery value, not a generated recipe, and is
// never passed to Validate(); callers still run it through the Enricher
// and Matcher like any other recipe.
func fallbackRecipe(timeCap int, lang string) mealplan.Recipe {
	minutes := timeCap
	if minutes <= 0 {
		minutes = 30
	}

	title := "Quick Skillet Meal"
	step1 := "Prepare the primary ingredient and season to taste."
	step2 := "Cook over medium heat until done and serve."
	ingredientName := "protein of choice"
	if lang == "fr" {
		title = "Plat rapide à la poêle"
		step1 = "Préparez l'ingrédient principal et assaisonnez au goût."
		step2 = "Faites cuire à feu moyen jusqu'à cuisson complète et servez."
		ingredientName = "protéine au choix"
	}

	return mealplan.Recipe{
		Title:        title,
		Servings:     4,
		TotalMinutes: minutes,
		Ingredients: []mealplan.Ingredient{
			mealplan.NewIngredient(ingredientName, 1, "", "", lang),
		},
		Steps: []string{step1, step2},
		Tags:  []string{"simple"},
	}
}
