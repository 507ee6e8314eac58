package mealprep

import (
	"context"

	"go.uber.org/zap"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
	"github.com/alchemorsel/mealprep/internal/domain/shared"
	"github.com/alchemorsel/mealprep/internal/ports/inbound"
	"github.com/alchemorsel/mealprep/internal/ports/outbound"
	"github.com/alchemorsel/mealprep/pkg/metrics"
)

const defaultKitConcurrency = 6

// Orchestrator wires the Slot Scheduler, Protein Distributor, Prompt
// Assembler, LLM Client Adapter, Parallel Generator, Recipe Enricher,
// Ingredient Matcher, Prep Grouper, Phase Synthesizer, and Concept
// Generator into the seven endpoint use-cases of spec.md §6. It is the
// only component that knows about all the others — every leaf component
// stays ignorant of the request/response DTOs in internal/ports/inbound.
type Orchestrator struct {
	llm        *LLMAdapter
	phases     *PhaseSynthesizer
	concepts   *ConceptGenerator
	dealSource outbound.DealSource
	planRepo   outbound.PlanRepository
	clock      outbound.Clock
	ids        outbound.IDGenerator
	logger     *zap.Logger
	metrics    *metrics.Registry
	events     shared.EventDispatcher
}

// NewOrchestrator builds an Orchestrator. dealSource may be nil — the
// plan/kit flows proceed with an empty deal set when it is (spec.md
// §4.11 "Deal Source failure: caught; the core proceeds with an empty
// deal set"). planRepo may be nil, in which case generated items are
// simply not persisted (spec.md §1 scopes persistence out of the core;
// when a caller does supply a PlanRepository, GeneratePlan/RegenerateMeal
// write accepted items through it so a later GetCurrentPlan reads them
// back). events may be nil, in which case slot/kit completion events are
// not raised.
func NewOrchestrator(
	llm *LLMAdapter,
	phases *PhaseSynthesizer,
	concepts *ConceptGenerator,
	dealSource outbound.DealSource,
	planRepo outbound.PlanRepository,
	clock outbound.Clock,
	ids outbound.IDGenerator,
	logger *zap.Logger,
	reg *metrics.Registry,
	dispatcher shared.EventDispatcher,
) *Orchestrator {
	return &Orchestrator{
		llm:        llm,
		phases:     phases,
		concepts:   concepts,
		dealSource: dealSource,
		planRepo:   planRepo,
		clock:      clock,
		ids:        ids,
		logger:     logger.Named("orchestrator"),
		metrics:    reg,
		events:     dispatcher,
	}
}

// persistItem writes an accepted PlanItem through the configured
// outbound.PlanRepository, a no-op when none was supplied or no UserID
// was given (spec.md §1: persistence is the caller's concern, not the
// core's).
func (o *Orchestrator) persistItem(ctx context.Context, userID string, item mealplan.PlanItem) {
	if o.planRepo == nil || userID == "" {
		return
	}
	if err := o.planRepo.SaveItem(ctx, userID, item); err != nil {
		o.logger.Warn("failed to persist plan item", zap.Error(err), zap.String("user_id", userID))
	}
}

// raise dispatches event through the configured shared.EventDispatcher, a
// no-op when none was supplied.
func (o *Orchestrator) raise(event shared.DomainEvent) {
	if o.events == nil {
		return
	}
	_ = o.events.Dispatch(event)
}

var _ inbound.PlanOrchestrator = (*Orchestrator)(nil)

// GeneratePlan implements POST /plan (spec.md §6): schedule, distribute,
// fan out, enrich, match deals, and return in input slot order.
func (o *Orchestrator) GeneratePlan(ctx context.Context, req inbound.PlanRequest) (inbound.PlanResponse, error) {
	scheduled := ScheduleSlots(req.Slots, req.Preferences, nil)

	distributor := NewProteinDistributor(planDiversitySeed(req.Slots), o.metrics)
	suggested := distributor.DistributeForPlan(req.Slots, req.Preferences)

	deals := o.fetchDeals(ctx, req.Preferences)

	// Open Question (spec.md §9): servings_per_meal from the kit path does
	// not flow into /plan — the source hardcodes 4. Left as-is.
	const planServings = 4

	tasks := make([]SlotGenerationTask, len(scheduled))
	for i, ss := range scheduled {
		sections := AssemblePrompt(PromptRequest{
			Language:             req.Language,
			MealType:             ss.Slot.MealType,
			Units:                req.Units,
			Servings:             planServings,
			Constraints:          req.Constraints,
			Preferences:          req.Preferences,
			ComplexityBand:       ss.ComplexityBand,
			MinShelfLifeRequired: 0,
			SuggestedProtein:     suggested[i],
			ForbiddenProteins:    otherProteins(suggested, i),
		})
		tasks[i] = SlotGenerationTask{Index: i, Sections: sections, TimeCap: ss.TimeCap, Language: req.Language}
	}

	recipes, err := GenerateParallel(ctx, o.llm, tasks, 0)
	if err != nil {
		return inbound.PlanResponse{}, err
	}

	items := make([]mealplan.PlanItem, len(scheduled))
	for i, ss := range scheduled {
		recipe := recipes[i]
		recipe = EnrichRecipe(recipe, false, req.Language)
		recipe = MatchDeals(recipe, deals)
		items[i] = mealplan.PlanItem{Slot: ss.Slot, Recipe: recipe}
		o.persistItem(ctx, req.UserID, items[i])
		o.raise(mealplan.SlotGeneratedEvent{
			Weekday: ss.Slot.Weekday, MealType: ss.Slot.MealType, RecipeTitle: recipe.Title,
			UsedFallback: isFallbackTitle(recipe.Title), OccurredAtTime: o.clock.Now(),
		})
	}

	return inbound.PlanResponse{Items: items}, nil
}

// RegenerateMeal implements POST /regenerate-meal: a single-slot
// equivalent of GeneratePlan, seeded by the caller's diversity_seed so
// repeated regeneration requests for the same slot vary (spec.md §6,
// GLOSSARY "Diversity seed").
func (o *Orchestrator) RegenerateMeal(ctx context.Context, req inbound.RegenerateMealRequest) (mealplan.Recipe, error) {
	scheduled := ScheduleSlots([]mealplan.Slot{req.Slot}, req.Preferences, nil)[0]

	distributor := NewProteinDistributor(int64(req.DiversitySeed), o.metrics)
	suggested := distributor.DistributeForPlan([]mealplan.Slot{req.Slot}, req.Preferences)

	sections := AssemblePrompt(PromptRequest{
		Language:         req.Language,
		MealType:         req.Slot.MealType,
		Units:            mealplan.Metric,
		Servings:         4,
		Constraints:      req.Constraints,
		Preferences:      req.Preferences,
		ComplexityBand:   scheduled.ComplexityBand,
		SuggestedProtein: suggested[0],
	})

	recipe, err := o.llm.GenerateRecipeWithRetry(ctx, sections, scheduled.TimeCap, req.Language)
	if err != nil {
		return mealplan.Recipe{}, err
	}
	recipe = EnrichRecipe(recipe, false, req.Language)
	recipe = MatchDeals(recipe, o.fetchDeals(ctx, req.Preferences))
	o.persistItem(ctx, req.UserID, mealplan.PlanItem{Slot: req.Slot, Recipe: recipe})
	o.raise(mealplan.SlotGeneratedEvent{
		Weekday: req.Slot.Weekday, MealType: req.Slot.MealType, RecipeTitle: recipe.Title,
		UsedFallback: isFallbackTitle(recipe.Title), OccurredAtTime: o.clock.Now(),
	})
	return recipe, nil
}

// isFallbackTitle reports whether title matches the deterministic
// recovery recipe fallbackRecipe returns, the only signal available to
// the orchestrator that a slot fell back after exhausting its retry
// budget (llmadapter.go does not otherwise surface this per-call).
func isFallbackTitle(title string) bool {
	return title == "Quick Skillet Meal" || title == "Plat rapide à la poêle"
}

// GenerateRecipeFromIdea implements POST /recipe: a free-text idea is
// appended to Constraints.PreferencesString, which the Prompt Assembler
// uses verbatim as the preference fragment.
func (o *Orchestrator) GenerateRecipeFromIdea(ctx context.Context, req inbound.RecipeFromIdeaRequest) (mealplan.Recipe, error) {
	constraints := req.Constraints
	if req.Idea != "" {
		if constraints.PreferencesString == "" {
			constraints.PreferencesString = "Recipe idea: " + req.Idea + "\n\n"
		} else {
			constraints.PreferencesString += "Recipe idea: " + req.Idea + "\n\n"
		}
	}

	sections := AssemblePrompt(PromptRequest{
		Language:       req.Language,
		MealType:       mealplan.Dinner,
		Units:          req.Units,
		Servings:       req.Servings,
		Constraints:    constraints,
		Preferences:    req.Preferences,
		ComplexityBand: mealplan.ComplexityMedium,
	})

	timeCap := effectiveCap(req.Preferences)
	recipe, err := o.llm.GenerateRecipeWithRetry(ctx, sections, timeCap, req.Language)
	if err != nil {
		return mealplan.Recipe{}, err
	}
	recipe = EnrichRecipe(recipe, false, req.Language)
	recipe = MatchDeals(recipe, o.fetchDeals(ctx, req.Preferences))
	return recipe, nil
}

// GenerateRecipeFromTitle implements POST /recipe-from-title. The
// response's title must equal the input verbatim (spec.md §6); the model
// is seeded with the title and the returned title is overwritten to
// guarantee the contract even if the model paraphrases it.
func (o *Orchestrator) GenerateRecipeFromTitle(ctx context.Context, req inbound.RecipeFromTitleRequest) (mealplan.Recipe, error) {
	constraints := req.Constraints
	titleDirective := "Generate a recipe with this exact title: \"" + req.Title + "\".\n\n"
	constraints.PreferencesString = titleDirective + constraints.PreferencesString

	sections := AssemblePrompt(PromptRequest{
		Language:       req.Language,
		MealType:       mealplan.Dinner,
		Units:          mealplan.Metric,
		Servings:       req.Servings,
		Constraints:    constraints,
		Preferences:    req.Preferences,
		ComplexityBand: mealplan.ComplexityMedium,
	})

	timeCap := effectiveCap(req.Preferences)
	recipe, err := o.llm.GenerateRecipeWithRetry(ctx, sections, timeCap, req.Language)
	if err != nil {
		return mealplan.Recipe{}, err
	}
	recipe.Title = req.Title
	recipe = EnrichRecipe(recipe, false, req.Language)
	recipe = MatchDeals(recipe, o.fetchDeals(ctx, req.Preferences))
	return recipe, nil
}

// GenerateRecipeFromImage implements POST /recipe-from-image: a
// single-shot vision call that bypasses the Prompt Assembler (spec.md
// §6) but reuses the adapter's JSON-extraction/parsing path.
func (o *Orchestrator) GenerateRecipeFromImage(ctx context.Context, req inbound.RecipeFromImageRequest) (mealplan.Recipe, error) {
	system := "You are a culinary assistant. Identify the dish in the image and respond with ONLY a valid JSON object matching the schema."
	if req.Language == "fr" {
		system = "Vous êtes un chef cuisinier. Identifiez le plat sur l'image et répondez UNIQUEMENT avec un objet JSON valide respectant le schéma."
	}
	user := "Analyze this image and produce a recipe matching this JSON shape: " +
		`{"title":"string","servings":4,"total_minutes":30,"ingredients":[{"name":"string","quantity":1.0,"unit":"string","category":"string"}],"steps":["string","string","string","string","string"],"equipment":["string"],"tags":["string"]}`

	raw, err := o.llm.backend.ChatCompletionWithImage(ctx, system, user, req.ImageBase64, 0.6, 2000)
	if err != nil {
		return fallbackRecipe(0, req.Language), nil
	}
	payload, ok := parseRecipeJSON(raw)
	if !ok {
		return fallbackRecipe(0, req.Language), nil
	}
	recipe := payload.toRecipe(req.Language)
	if recipe.Servings == 0 {
		recipe.Servings = req.Servings
	}
	recipe = EnrichRecipe(recipe, false, req.Language)
	return recipe, nil
}

// GenerateMealPrepConcepts implements POST /meal-prep-concepts.
func (o *Orchestrator) GenerateMealPrepConcepts(ctx context.Context, req inbound.MealPrepConceptsRequest) (inbound.MealPrepConceptsResponse, error) {
	return inbound.MealPrepConceptsResponse{
		Concepts: o.concepts.Generate(ctx, req.Constraints, req.Language),
	}, nil
}

// GenerateMealPrepKit implements POST /meal-prep-kit: shelf-life-aware
// scheduling, kit-mode protein distribution, parallel generation,
// enrichment, grouping, and phase synthesis, joined behind a single
// barrier per spec.md §5 ("The Prep Grouper and Phase Synthesizer run
// strictly after all per-slot generations complete").
func (o *Orchestrator) GenerateMealPrepKit(ctx context.Context, req inbound.MealPrepKitRequest) (inbound.MealPrepKitResponse, error) {
	slots := kitSlots(req.Days, req.Meals)
	scheduled := ScheduleSlots(slots, mealplan.Preferences{}, req.Days)

	distributor := NewProteinDistributor(kitDiversitySeed(req), o.metrics)
	suggested := distributor.DistributeForKit(len(scheduled), mealplan.Preferences{PreferredProteins: req.Constraints.PreferredProteins})

	deals := o.fetchDeals(ctx, mealplan.Preferences{})

	theme := ""
	if req.SelectedConcept != nil {
		theme = req.SelectedConcept.Name + ": " + req.SelectedConcept.Description
	}

	tasks := make([]SlotGenerationTask, len(scheduled))
	for i, ss := range scheduled {
		sections := AssemblePrompt(PromptRequest{
			Language:             req.Language,
			MealType:             ss.Slot.MealType,
			Units:                req.Units,
			Servings:             req.ServingsPerMeal,
			Constraints:          req.Constraints,
			Preferences:          mealplan.Preferences{},
			ComplexityBand:       kitComplexityBand(ss.ComplexityBand, req.SkillLevel),
			MinShelfLifeRequired: ss.MinShelfLifeRequired,
			ConceptTheme:         theme,
			SuggestedProtein:     suggested[i],
			ForbiddenProteins:    otherProteins(suggested, i),
		})
		timeCap := kitTimeCap(req.TotalPrepTimePreference, ss.TimeCap)
		tasks[i] = SlotGenerationTask{Index: i, Sections: sections, TimeCap: timeCap, Language: req.Language}
	}

	recipes, err := GenerateParallel(ctx, o.llm, tasks, defaultKitConcurrency)
	if err != nil {
		return inbound.MealPrepKitResponse{}, err
	}

	refs := make([]mealplan.KitRecipeRef, len(scheduled))
	totalPortions := 0
	totalMinutes := 0
	for i, ss := range scheduled {
		recipe := EnrichRecipe(recipes[i], req.PreferLongShelfLife, req.Language)
		recipe = MatchDeals(recipe, deals)

		shelfLife := *recipe.ShelfLifeDays
		if shelfLife < ss.MinShelfLifeRequired {
			shelfLife = ss.MinShelfLifeRequired
			recipe.ShelfLifeDays = &shelfLife
		}

		refs[i] = mealplan.KitRecipeRef{
			Recipe:        recipe,
			ShelfLifeDays: shelfLife,
			IsFreezable:   *recipe.IsFreezable,
			StorageNote:   recipe.StorageNote,
		}
		totalPortions += recipe.Servings
		totalMinutes += recipe.TotalMinutes
	}

	prepSteps := GroupPrepSteps(refs, req.Language)

	phases, err := o.phases.Synthesize(ctx, refs, req.Language)
	if err != nil {
		return inbound.MealPrepKitResponse{}, err
	}

	kit := mealplan.MealPrepKit{
		ID:                   o.ids.NewUUID(),
		Name:                 kitName(req, theme),
		Description:          kitDescription(req, theme),
		TotalPortions:        totalPortions,
		EstimatedPrepMinutes: totalMinutes,
		Recipes:              refs,
		PrepSteps:            prepSteps,
		Phases:                phases,
		CreatedAt:            o.clock.Now(),
	}

	o.raise(mealplan.KitAssembledEvent{KitID: kit.ID, RecipeCount: len(kit.Recipes), OccurredAtTime: o.clock.Now()})

	return inbound.MealPrepKitResponse{Kits: []mealplan.MealPrepKit{kit}}, nil
}

func (o *Orchestrator) fetchDeals(ctx context.Context, prefs mealplan.Preferences) []mealplan.DealItem {
	if o.dealSource == nil || prefs.PreferredGroceryStore == nil || prefs.PostalCode == nil {
		return nil
	}
	deals, err := o.dealSource.GetWeeklyDeals(ctx, *prefs.PreferredGroceryStore, *prefs.PostalCode)
	if err != nil {
		o.logger.Warn("deal source failed, proceeding with empty deal set", zap.Error(err))
		return nil
	}
	return deals
}

func otherProteins(suggested []string, idx int) []string {
	seen := make(map[string]bool)
	var out []string
	for i, p := range suggested {
		if i == idx || seen[p] || p == suggested[idx] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

func planDiversitySeed(slots []mealplan.Slot) int64 {
	return int64(len(slots)) + 1
}

func kitDiversitySeed(req inbound.MealPrepKitRequest) int64 {
	return int64(len(req.Days)*31 + len(req.Meals)*7 + req.ServingsPerMeal)
}

func effectiveCap(prefs mealplan.Preferences) int {
	if prefs.MaxMinutes != nil {
		return *prefs.MaxMinutes
	}
	if prefs.WeekdayMaxMinutes != nil {
		return *prefs.WeekdayMaxMinutes
	}
	return 0
}

// kitSlots builds the (weekday, mealtype) cross product for a kit
// request. Breakfast-only mode is not rejected at this layer (Open
// Question decision recorded in DESIGN.md: the distributor's own
// kit-mode pool-filtering is the only defense).
func kitSlots(days []mealplan.Weekday, meals []mealplan.MealType) []mealplan.Slot {
	slots := make([]mealplan.Slot, 0, len(days)*len(meals))
	for _, d := range days {
		for _, m := range meals {
			slots = append(slots, mealplan.Slot{Weekday: d, MealType: m})
		}
	}
	return slots
}

// kitComplexityBand folds the request's skill_level into the
// deterministic band the scheduler already computed: a "beginner" skill
// level never escalates past medium.
func kitComplexityBand(band mealplan.ComplexityBand, skillLevel string) mealplan.ComplexityBand {
	if skillLevel == "beginner" && band == mealplan.ComplexityComplex {
		return mealplan.ComplexityMedium
	}
	return band
}

// kitTimeCap folds total_prep_time_preference into the per-slot time cap
// the scheduler derived, taking the tighter of the two.
func kitTimeCap(pref inbound.TotalPrepTimePreference, scheduledCap int) int {
	var prefCap int
	switch pref {
	case inbound.PrepTimeOneHour:
		prefCap = 60
	case inbound.PrepTimeOneHourThirty:
		prefCap = 90
	case inbound.PrepTimeTwoHoursOrMore:
		prefCap = 120
	default:
		return scheduledCap
	}
	if scheduledCap > 0 && scheduledCap < prefCap {
		return scheduledCap
	}
	return prefCap
}

func kitName(req inbound.MealPrepKitRequest, theme string) string {
	if req.SelectedConcept != nil {
		return req.SelectedConcept.Name + " Meal-Prep Kit"
	}
	if req.Language == "fr" {
		return "Kit de préparation de repas"
	}
	return "Meal-Prep Kit"
}

func kitDescription(req inbound.MealPrepKitRequest, theme string) string {
	if theme != "" {
		return theme
	}
	if req.Language == "fr" {
		return "Un ensemble de recettes préparées ensemble pour la semaine."
	}
	return "A batch-cook bundle of recipes prepared together for the week."
}
