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

// conceptJSON mirrors the three-element JSON array the concept-generation
// prompt asks the model to emit.
type conceptJSON struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Cuisine     *string  `json:"cuisine"`
	Tags        []string `json:"tags"`
}

// ConceptGenerator implements SPEC_FULL.md §4.13: a single-shot LLM call
// that produces the three concept themes `/meal-prep-concepts` returns,
// falling back to three static concepts on any transport/parse failure —
// the same fail-soft posture as the recipe generator (spec.md §4.11).
type ConceptGenerator struct {
	backend outbound.LLMService
	ids     outbound.IDGenerator
	logger  *zap.Logger
	metrics *metrics.Registry
}

func NewConceptGenerator(backend outbound.LLMService, ids outbound.IDGenerator, logger *zap.Logger, reg *metrics.Registry) *ConceptGenerator {
	return &ConceptGenerator{backend: backend, ids: ids, logger: logger.Named("concept-generator"), metrics: reg}
}

// Generate issues one chat-completion call and parses a three-element
// concept array. Each concept is assigned a fresh ID regardless of what
// the model returned, mirroring the Phase Synthesizer's ID-freshness
// policy.
func (g *ConceptGenerator) Generate(ctx context.Context, constraints mealplan.Constraints, lang string) []mealplan.MealPrepConcept {
	system, user := buildConceptPrompt(constraints, lang)

	raw, err := g.backend.ChatCompletion(ctx, system, user, 0.8, 800)
	if err == nil {
		if text, ok := extractJSONArray(raw); ok {
			var payload []conceptJSON
			if json.Unmarshal([]byte(text), &payload) == nil && len(payload) == 3 {
				return toConcepts(payload, g.ids)
			}
		}
	}

	if g.metrics != nil {
		g.metrics.LLMFallbacksTotal.WithLabelValues("concept_generator").Inc()
	}
	g.logger.Warn("concept generation failed, returning static fallback concepts")
	return staticFallbackConcepts(g.ids, lang)
}

func toConcepts(payload []conceptJSON, ids outbound.IDGenerator) []mealplan.MealPrepConcept {
	out := make([]mealplan.MealPrepConcept, 0, len(payload))
	for _, c := range payload {
		out = append(out, mealplan.MealPrepConcept{
			ID:          ids.NewUUID(),
			Name:        c.Name,
			Description: c.Description,
			Cuisine:     c.Cuisine,
			Tags:        c.Tags,
		})
	}
	return out
}

func buildConceptPrompt(constraints mealplan.Constraints, lang string) (system, user string) {
	if lang == "fr" {
		system = "Vous proposez des thèmes de préparation de repas. Répondez UNIQUEMENT avec un tableau JSON de trois objets."
		user = "Proposez exactement trois thèmes de préparation de repas (nom, description, cuisine optionnelle, étiquettes)."
	} else {
		system = "You propose meal-prep concept themes. Respond with ONLY a JSON array of three objects."
		user = "Propose exactly three meal-prep concept themes (name, description, optional cuisine, tags)."
	}
	if len(constraints.Diet) > 0 {
		user += " Respect this dietary regime: " + strings.Join(constraints.Diet, ", ") + "."
	}
	if len(constraints.Evict) > 0 {
		user += " Never suggest themes built around: " + strings.Join(constraints.Evict, ", ") + "."
	}
	user += ` Respond in exactly this shape: [{"name":"string","description":"string","cuisine":"string","tags":["string"]}, ...]`
	return system, user
}

// extractJSONArray mirrors extractJSONObject's fence-stripping recovery,
// slicing from the first '[' to the last ']'.
func extractJSONArray(response string) (string, bool) {
	text := strings.TrimSpace(response)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

func staticFallbackConcepts(ids outbound.IDGenerator, lang string) []mealplan.MealPrepConcept {
	mediterranean := "mediterranean"
	if lang == "fr" {
		return []mealplan.MealPrepConcept{
			{ID: ids.NewUUID(), Name: "Méditerranéen", Description: "Légumes grillés, légumineuses et huile d'olive pour toute la semaine.", Cuisine: &mediterranean, Tags: []string{"équilibré", "végétarien-friendly"}},
			{ID: ids.NewUUID(), Name: "Prêt pour le congélateur", Description: "Ragoûts et casseroles qui se congèlent parfaitement.", Cuisine: nil, Tags: []string{"congélation", "lot"}},
			{ID: ids.NewUUID(), Name: "Semaine sans prise de tête", Description: "Recettes rapides à faible préparation pour les soirs chargés.", Cuisine: nil, Tags: []string{"rapide", "faible-prep"}},
		}
	}
	return []mealplan.MealPrepConcept{
		{ID: ids.NewUUID(), Name: "Mediterranean", Description: "Grilled vegetables, legumes, and olive oil across the whole week.", Cuisine: &mediterranean, Tags: []string{"balanced", "vegetarian-friendly"}},
		{ID: ids.NewUUID(), Name: "Freezer-Friendly Batch", Description: "Stews and casseroles that freeze and reheat cleanly.", Cuisine: nil, Tags: []string{"freezer", "batch"}},
		{ID: ids.NewUUID(), Name: "Low-Prep Weeknight", Description: "Quick, low-effort recipes for busy evenings.", Cuisine: nil, Tags: []string{"quick", "low-prep"}},
	}
}
