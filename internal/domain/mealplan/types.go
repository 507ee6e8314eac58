// Package mealplan holds the core value types of the meal-prep
// orchestration engine: the week-plan and batch-cook-kit entities produced
// and consumed by the application layer's orchestration components.
//
// Following the teacher's value-object idiom (exported fields, a Validate
// method per type, no behavior beyond construction-time checks) rather than
// a full DDD aggregate-root: these entities are owned by a request-scoped
// graph and are immutable after construction except where the spec names
// an explicit, single mutation point (Ingredient.OnSale, set exactly once
// by the Ingredient Matcher).
package mealplan

import "time"

// Ingredient is one line item of a Recipe.
type Ingredient struct {
	Name     string
	Quantity float64
	Unit     string
	Category string
	OnSale   bool
}

// Validate checks the invariants from spec.md §3. It does not fill in the
// unit/category defaults — callers construct via NewIngredient for that.
func (i Ingredient) Validate() error {
	if i.Name == "" {
		return ErrIngredientNameRequired
	}
	if i.Quantity < 0 {
		return ErrIngredientQuantityNeg
	}
	return nil
}

// defaultUnit and defaultCategory are applied when a recipe arrives from
// the LLM without them; the localized defaults depend on the language the
// prompt was assembled in.
func defaultUnit(lang string) string {
	if lang == "fr" {
		return "unité"
	}
	return "unit"
}

func defaultCategory(lang string) string {
	if lang == "fr" {
		return "autre"
	}
	return "other"
}

// NewIngredient builds an Ingredient, applying the language-appropriate
// defaults for an absent unit or category (spec.md §3).
func NewIngredient(name string, quantity float64, unit, category, lang string) Ingredient {
	if unit == "" {
		unit = defaultUnit(lang)
	}
	if category == "" {
		category = defaultCategory(lang)
	}
	return Ingredient{Name: name, Quantity: quantity, Unit: unit, Category: category}
}

// Recipe is a single generated dish: title, servings, a time budget, its
// ingredients and steps, and optional storage metadata attached by the
// Recipe Enricher.
type Recipe struct {
	Title          string
	Servings       int
	TotalMinutes   int
	Ingredients    []Ingredient
	Steps          []string
	Equipment      []string
	Tags           []string
	ShelfLifeDays  *int
	IsFreezable    *bool
	StorageNote    string
}

// Validate checks the structural invariants from spec.md §3. The time-cap
// ceiling is a caller-supplied value, not a Recipe-intrinsic constant, so it
// is checked by ValidateWithCap rather than here.
func (r Recipe) Validate() error {
	if r.Title == "" {
		return ErrRecipeTitleRequired
	}
	if r.Servings <= 0 {
		return ErrRecipeServingsNotPos
	}
	if r.TotalMinutes <= 0 {
		return ErrRecipeMinutesNotPos
	}
	if len(r.Steps) < 5 {
		return ErrRecipeTooFewSteps
	}
	for _, ing := range r.Ingredients {
		if err := ing.Validate(); err != nil {
			return err
		}
	}
	if r.ShelfLifeDays != nil && (*r.ShelfLifeDays < 1 || *r.ShelfLifeDays > 7) {
		return ErrRecipeShelfLifeRange
	}
	return nil
}

// ValidateWithCap additionally checks total_minutes against the
// caller-supplied cap (spec.md §3, §8 "Time cap" property).
func (r Recipe) ValidateWithCap(cap int) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if cap > 0 && r.TotalMinutes > cap {
		return ErrRecipeOverTimeCap
	}
	return nil
}

// Enriched reports whether the Recipe Enricher has already attached
// storage metadata (ShelfLifeDays and IsFreezable both set). It does not
// check ingredient units or categories.
func (r Recipe) Enriched() bool {
	return r.ShelfLifeDays != nil && r.IsFreezable != nil
}

// Slot is a (weekday, meal-type) coordinate in a week plan or kit.
type Slot struct {
	Weekday  Weekday
	MealType MealType
}

// Validate checks that both fields are recognized tags.
func (s Slot) Validate() error {
	if !s.Weekday.Valid() {
		return ErrInvalidWeekday
	}
	if !s.MealType.Valid() {
		return ErrInvalidMeal
	}
	return nil
}

// PlanItem pairs a Slot with its generated Recipe.
type PlanItem struct {
	Slot   Slot
	Recipe Recipe
}

// Preferences is a configuration bundle of recognized, all-optional
// options. Pointer/nil-slice fields distinguish "unset" from the
// zero value, per spec.md §9's "Configuration object" design note.
type Preferences struct {
	WeekdayMaxMinutes     *int
	WeekendMaxMinutes     *int
	MaxMinutes            *int
	SpiceLevel            *string
	PreferredProteins     []string
	AvailableAppliances   []string
	KidFriendly           *bool
	UseWeeklyFlyers       *bool
	PostalCode            *string
	PreferredGroceryStore *string
}

// Constraints carries the hard directives for a generation request.
// Evict has absolute priority over every other directive in the Prompt
// Assembler (spec.md §4.2, §8 "Allergen exclusion").
type Constraints struct {
	Diet              []string
	Evict             []string
	PreferredProteins []string
	Extra             string
	PreferencesString string
}

// KitRecipeRef pairs a kit Recipe with the storage metadata the scheduling
// invariant depends on.
type KitRecipeRef struct {
	Recipe        Recipe
	ShelfLifeDays int
	IsFreezable   bool
	StorageNote   string
}

// ValidateShelfLife checks the scheduling invariant: shelf_life_days must
// cover the slot's target consumption day (spec.md §3, §8 "Shelf life floor").
func (k KitRecipeRef) ValidateShelfLife(targetDayIndex int) error {
	if k.ShelfLifeDays < targetDayIndex+1 {
		return ErrShelfLifeBelowFloor
	}
	return nil
}

// PrepIngredientRef names one ingredient contribution to a GroupedPrepStep,
// annotated with the recipe it came from.
type PrepIngredientRef struct {
	IngredientName  string
	Quantity        float64
	SourceRecipeIdx int
}

// GroupedPrepStep is one batched prep action spanning one or more recipes.
type GroupedPrepStep struct {
	ActionType       ActionType
	Description      string
	Ingredients      []PrepIngredientRef
	StepSnippets     []string
	EstimatedMinutes int
}

// PhaseStep is one step of a kit's four-phase cooking pipeline.
type PhaseStep struct {
	ID               string
	Description      string
	RecipeTitle      string
	RecipeIndex      *int
	EstimatedMinutes int
	IsParallel       bool
	ParallelNote     *string
}

// Validate checks the structural requirements from spec.md §4.9.
func (s PhaseStep) Validate() error {
	if s.ID == "" || s.Description == "" {
		return ErrPhaseStepInvalid
	}
	return nil
}

// Phase is one of the four always-emitted cooking-pipeline stages.
type Phase struct {
	Title        PhaseTitle
	TotalMinutes int
	Steps        []PhaseStep
}

// MealPrepKit is a batch-cook bundle: several recipes prepared together,
// grouped prep steps, and a four-phase cooking plan.
type MealPrepKit struct {
	ID                   string
	Name                 string
	Description          string
	TotalPortions        int
	EstimatedPrepMinutes int
	Recipes              []KitRecipeRef
	PrepSteps            []GroupedPrepStep
	Phases               []Phase
	CreatedAt            time.Time
}

// ChatTurn is one entry of a chat transcript.
type ChatTurn struct {
	IsFromUser bool
	Content    string
	Timestamp  time.Time
}

// UserContext is the client-owned state the chat router reads but never
// mutates (spec.md §5: current_plan and pending_modification are owned by
// the client). UserID is optional: when the caller supplies one, the chat
// orchestrator may consult the server-side FavoritesRepository as a
// supplement to the client-supplied lists below; an empty UserID means no
// such lookup happens.
type UserContext struct {
	UserID        string
	CurrentPlan   map[Weekday][]string
	RecentRecipes []Recipe
	Favorites     []Recipe
	Preferences   Preferences
	HasPremium    bool
}

// ChatContext is the current turn plus a bounded tail of prior turns and
// the user's client-owned state (spec.md §3: tail length <= 10).
type ChatContext struct {
	CurrentTurn ChatTurn
	History     []ChatTurn
	User        UserContext
}

// BoundedHistory returns the last n entries of the context's history,
// enforcing the <=10 tail bound from spec.md §3.
func (c ChatContext) BoundedHistory(n int) []ChatTurn {
	if n > 10 {
		n = 10
	}
	if len(c.History) <= n {
		return c.History
	}
	return c.History[len(c.History)-n:]
}

// PendingModification is a proposed recipe change held between a propose
// turn and the next user turn (spec.md §3, §4.10 state machine).
type PendingModification struct {
	OriginalRecipeRef string
	ProposedRecipe    Recipe
	ModificationType  ModificationType
	TargetWeekday     *Weekday
	TargetMealType     *MealType
}

// MealPrepConcept is one of the three concept themes `/meal-prep-concepts`
// returns (SPEC_FULL.md §3 — restored from original_source/, dropped by
// the distillation of spec.md §6).
type MealPrepConcept struct {
	ID          string
	Name        string
	Description string
	Cuisine     *string
	Tags        []string
}

// DealItem is the normalized element type DealSource.GetWeeklyDeals
// returns (SPEC_FULL.md §3).
type DealItem struct {
	Name   string
	Price  *float64
	OnSale bool
}
