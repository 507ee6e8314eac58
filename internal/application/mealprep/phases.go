package mealprep

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
	"github.com/alchemorsel/mealprep/internal/ports/outbound"
	"github.com/alchemorsel/mealprep/pkg/metrics"
)

// phaseStepJSON/phaseJSON/phasesJSON mirror the four-phase JSON skeleton
// the Phase Synthesizer's prompt asks the model to return (spec.md §4.9).
type phaseStepJSON struct {
	Description      string  `json:"description"`
	RecipeTitle       string  `json:"recipe_title"`
	RecipeIndex       *int    `json:"recipe_index"`
	EstimatedMinutes int     `json:"estimated_minutes"`
	IsParallel       bool    `json:"is_parallel"`
	ParallelNote     *string `json:"parallel_note"`
}

type phaseJSON struct {
	TotalMinutes *int            `json:"total_minutes"`
	Steps        []phaseStepJSON `json:"steps"`
}

type phasesJSON struct {
	Cook     *phaseJSON `json:"Cook"`
	Assemble *phaseJSON `json:"Assemble"`
	Cool     *phaseJSON `json:"Cool"`
	Store    *phaseJSON `json:"Store"`
}

// PhaseSynthesizer issues the second LLM pass of spec.md §4.9: given the
// full kit, it asks for a four-phase (Cook/Assemble/Cool/Store) plan and
// normalizes the result — every step ID is rewritten as a fresh UUID
// regardless of what the model returned, and a phase's total_minutes is
// trusted only when the model supplied one.
type PhaseSynthesizer struct {
	backend outbound.LLMService
	logger  *zap.Logger
	metrics *metrics.Registry
}

func NewPhaseSynthesizer(backend outbound.LLMService, logger *zap.Logger, reg *metrics.Registry) *PhaseSynthesizer {
	return &PhaseSynthesizer{backend: backend, logger: logger.Named("phase-synthesizer"), metrics: reg}
}

// Synthesize builds the kit-recipe prompt, issues up to maxGenerationAttempts
// chat-completion calls, and returns the four phases in the fixed
// Cook/Assemble/Cool/Store order. On total failure it returns a zero-step
// four-phase skeleton (spec.md §4.11) rather than an error — mirroring the
// LLM Client Adapter's fail-soft posture — so callers never need a
// fallback branch of their own.
func (s *PhaseSynthesizer) Synthesize(ctx context.Context, recipes []mealplan.KitRecipeRef, lang string) ([]mealplan.Phase, error) {
	system, user := buildPhasePrompt(recipes, lang)

	for attempt := 1; attempt <= maxGenerationAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := s.backend.ChatCompletion(ctx, system, user, 0.5, 3000)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if s.metrics != nil {
				s.metrics.LLMRetriesTotal.WithLabelValues("transport").Inc()
			}
			continue
		}

		text, ok := extractJSONObject(raw)
		if !ok {
			if s.metrics != nil {
				s.metrics.LLMRetriesTotal.WithLabelValues("parse_error").Inc()
			}
			continue
		}

		var payload phasesJSON
		if err := json.Unmarshal([]byte(text), &payload); err != nil {
			if s.metrics != nil {
				s.metrics.LLMRetriesTotal.WithLabelValues("parse_error").Inc()
			}
			continue
		}

		if payload.Cook == nil || payload.Assemble == nil || payload.Cool == nil || payload.Store == nil {
			if s.metrics != nil {
				s.metrics.LLMRetriesTotal.WithLabelValues("constraint_violation").Inc()
			}
			continue
		}

		return normalizePhases(payload), nil
	}

	if s.metrics != nil {
		s.metrics.LLMFallbacksTotal.WithLabelValues("phase_synthesizer").Inc()
	}
	s.logger.Warn("phase synthesis exhausted retry budget, returning zero-step skeleton")
	return emptyPhases(), nil
}

func normalizePhases(payload phasesJSON) []mealplan.Phase {
	ordered := []struct {
		title mealplan.PhaseTitle
		data  *phaseJSON
	}{
		{mealplan.PhaseCook, payload.Cook},
		{mealplan.PhaseAssemble, payload.Assemble},
		{mealplan.PhaseCool, payload.Cool},
		{mealplan.PhaseStore, payload.Store},
	}

	phases := make([]mealplan.Phase, 0, 4)
	for _, o := range ordered {
		steps := make([]mealplan.PhaseStep, 0, len(o.data.Steps))
		sum := 0
		for _, st := range o.data.Steps {
			steps = append(steps, mealplan.PhaseStep{
				ID:               uuid.New().String(),
				Description:      st.Description,
				RecipeTitle:      st.RecipeTitle,
				RecipeIndex:      st.RecipeIndex,
				EstimatedMinutes: st.EstimatedMinutes,
				IsParallel:       st.IsParallel,
				ParallelNote:     st.ParallelNote,
			})
			sum += st.EstimatedMinutes
		}

		total := sum
		if o.data.TotalMinutes != nil {
			total = *o.data.TotalMinutes
		}

		phases = append(phases, mealplan.Phase{
			Title:        o.title,
			TotalMinutes: total,
			Steps:        steps,
		})
	}
	return phases
}

func emptyPhases() []mealplan.Phase {
	phases := make([]mealplan.Phase, 0, 4)
	for _, title := range mealplan.PhaseTitles {
		phases = append(phases, mealplan.Phase{Title: title, TotalMinutes: 0, Steps: nil})
	}
	return phases
}

func buildPhasePrompt(recipes []mealplan.KitRecipeRef, lang string) (system, user string) {
	var b strings.Builder

	if lang == "fr" {
		system = "Vous organisez un plan de préparation de repas en quatre phases. Répondez UNIQUEMENT avec un objet JSON valide respectant le schéma fourni."
		b.WriteString("Voici les recettes de ce kit de préparation de repas:\n\n")
	} else {
		system = "You are organizing a meal-prep kit into a four-phase cooking plan. Respond with ONLY a valid JSON object matching the provided schema."
		b.WriteString("Here are the recipes in this meal-prep kit:\n\n")
	}

	for i, ref := range recipes {
		fmt.Fprintf(&b, "%d. %s (servings: %d, total_minutes: %d)\n", i+1, ref.Recipe.Title, ref.Recipe.Servings, ref.Recipe.TotalMinutes)
		fmt.Fprintf(&b, "   Steps: %s\n", strings.Join(ref.Recipe.Steps, " | "))
		if len(ref.Recipe.Equipment) > 0 {
			fmt.Fprintf(&b, "   Equipment: %s\n", strings.Join(ref.Recipe.Equipment, ", "))
		}
		if ref.StorageNote != "" {
			fmt.Fprintf(&b, "   Storage: %s\n", ref.StorageNote)
		}
	}

	b.WriteString("\nEvery step must follow the pattern [Action verb] + [specific ingredients] + [method/location]. ")
	b.WriteString("Never use generic phrasings like \"cook the vegetables\". ")
	b.WriteString("Do not include preparation steps (cutting, peeling, measuring) — those are already handled separately. ")
	b.WriteString("Mark a step is_parallel=true with a parallel_note naming the covering step when it can run alongside a previous long-running step (e.g. oven-roasting).\n\n")

	b.WriteString("CRITICAL: respond with ONLY a valid JSON object in exactly this shape, no surrounding prose:\n")
	b.WriteString(`{
  "Cook": {"total_minutes": 30, "steps": [{"description": "string", "recipe_title": "string", "recipe_index": 0, "estimated_minutes": 10, "is_parallel": false, "parallel_note": null}]},
  "Assemble": {"total_minutes": 15, "steps": []},
  "Cool": {"total_minutes": 10, "steps": []},
  "Store": {"total_minutes": 5, "steps": []}
}`)

	return system, b.String()
}
