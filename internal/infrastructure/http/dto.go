// Package http wires the orchestration core to Gin: route registration,
// request/response wire shapes, and the mapping between those wire
// shapes and the internal/ports/inbound DTOs.
package http

import (
	"time"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
	"github.com/alchemorsel/mealprep/internal/ports/inbound"
)

// --- shared wire fragments ---

type slotWire struct {
	Weekday  string `json:"weekday" binding:"required"`
	MealType string `json:"meal_type" binding:"required"`
}

func (s slotWire) toDomain() mealplan.Slot {
	return mealplan.Slot{Weekday: mealplan.Weekday(s.Weekday), MealType: mealplan.MealType(s.MealType)}
}

type constraintsWire struct {
	Diet              []string `json:"diet"`
	Evict             []string `json:"evict"`
	PreferredProteins []string `json:"preferred_proteins"`
	Extra             string   `json:"extra"`
	PreferencesString string   `json:"preferences_string"`
}

func (c constraintsWire) toDomain() mealplan.Constraints {
	return mealplan.Constraints{
		Diet:              c.Diet,
		Evict:             c.Evict,
		PreferredProteins: c.PreferredProteins,
		Extra:             c.Extra,
		PreferencesString: c.PreferencesString,
	}
}

type preferencesWire struct {
	WeekdayMaxMinutes     *int     `json:"weekday_max_minutes"`
	WeekendMaxMinutes     *int     `json:"weekend_max_minutes"`
	MaxMinutes            *int     `json:"max_minutes"`
	SpiceLevel            *string  `json:"spice_level"`
	PreferredProteins     []string `json:"preferred_proteins"`
	AvailableAppliances   []string `json:"available_appliances"`
	KidFriendly           *bool    `json:"kid_friendly"`
	UseWeeklyFlyers       *bool    `json:"use_weekly_flyers"`
	PostalCode            *string  `json:"postal_code"`
	PreferredGroceryStore *string  `json:"preferred_grocery_store"`
}

func (p preferencesWire) toDomain() mealplan.Preferences {
	return mealplan.Preferences{
		WeekdayMaxMinutes:     p.WeekdayMaxMinutes,
		WeekendMaxMinutes:     p.WeekendMaxMinutes,
		MaxMinutes:            p.MaxMinutes,
		SpiceLevel:            p.SpiceLevel,
		PreferredProteins:     p.PreferredProteins,
		AvailableAppliances:   p.AvailableAppliances,
		KidFriendly:           p.KidFriendly,
		UseWeeklyFlyers:       p.UseWeeklyFlyers,
		PostalCode:            p.PostalCode,
		PreferredGroceryStore: p.PreferredGroceryStore,
	}
}

type ingredientWire struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
	OnSale   bool    `json:"on_sale"`
}

type recipeWire struct {
	Title         string           `json:"title"`
	Servings      int              `json:"servings"`
	TotalMinutes  int              `json:"total_minutes"`
	Ingredients   []ingredientWire `json:"ingredients"`
	Steps         []string         `json:"steps"`
	Equipment     []string         `json:"equipment"`
	Tags          []string         `json:"tags"`
	ShelfLifeDays *int             `json:"shelf_life_days,omitempty"`
	IsFreezable   *bool            `json:"is_freezable,omitempty"`
	StorageNote   string           `json:"storage_note,omitempty"`
}

func recipeToWire(r mealplan.Recipe) recipeWire {
	ingredients := make([]ingredientWire, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ingredients = append(ingredients, ingredientWire{
			Name: ing.Name, Quantity: ing.Quantity, Unit: ing.Unit, Category: ing.Category, OnSale: ing.OnSale,
		})
	}
	return recipeWire{
		Title:         r.Title,
		Servings:      r.Servings,
		TotalMinutes:  r.TotalMinutes,
		Ingredients:   ingredients,
		Steps:         r.Steps,
		Equipment:     r.Equipment,
		Tags:          r.Tags,
		ShelfLifeDays: r.ShelfLifeDays,
		IsFreezable:   r.IsFreezable,
		StorageNote:   r.StorageNote,
	}
}

type planItemWire struct {
	Slot   slotWire   `json:"slot"`
	Recipe recipeWire `json:"recipe"`
}

func planItemToWire(p mealplan.PlanItem) planItemWire {
	return planItemWire{
		Slot:   slotWire{Weekday: string(p.Slot.Weekday), MealType: string(p.Slot.MealType)},
		Recipe: recipeToWire(p.Recipe),
	}
}

// --- POST /plan ---

type planRequestWire struct {
	UserID      string          `json:"user_id"`
	WeekStart   string          `json:"week_start"`
	Units       string          `json:"units"`
	Slots       []slotWire      `json:"slots" binding:"required"`
	Constraints constraintsWire `json:"constraints"`
	Preferences preferencesWire `json:"preferences"`
	Language    string          `json:"language"`
}

func (w planRequestWire) toDomain() inbound.PlanRequest {
	slots := make([]mealplan.Slot, 0, len(w.Slots))
	for _, s := range w.Slots {
		slots = append(slots, s.toDomain())
	}
	return inbound.PlanRequest{
		UserID:      w.UserID,
		WeekStart:   w.WeekStart,
		Units:       mealplan.UnitSystem(w.Units),
		Slots:       slots,
		Constraints: w.Constraints.toDomain(),
		Preferences: w.Preferences.toDomain(),
		Language:    language(w.Language),
	}
}

type planResponseWire struct {
	Items []planItemWire `json:"items"`
}

func planResponseToWire(r inbound.PlanResponse) planResponseWire {
	items := make([]planItemWire, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, planItemToWire(it))
	}
	return planResponseWire{Items: items}
}

// --- POST /regenerate-meal ---

type regenerateMealRequestWire struct {
	UserID        string          `json:"user_id"`
	Slot          slotWire        `json:"slot" binding:"required"`
	Constraints   constraintsWire `json:"constraints"`
	Preferences   preferencesWire `json:"preferences"`
	DiversitySeed int             `json:"diversity_seed"`
	Language      string          `json:"language"`
}

func (w regenerateMealRequestWire) toDomain() inbound.RegenerateMealRequest {
	return inbound.RegenerateMealRequest{
		UserID:        w.UserID,
		Slot:          w.Slot.toDomain(),
		Constraints:   w.Constraints.toDomain(),
		Preferences:   w.Preferences.toDomain(),
		DiversitySeed: w.DiversitySeed,
		Language:      language(w.Language),
	}
}

// --- POST /recipe ---

type recipeFromIdeaRequestWire struct {
	Idea        string          `json:"idea" binding:"required"`
	Servings    int             `json:"servings"`
	Units       string          `json:"units"`
	Constraints constraintsWire `json:"constraints"`
	Preferences preferencesWire `json:"preferences"`
	Language    string          `json:"language"`
}

func (w recipeFromIdeaRequestWire) toDomain() inbound.RecipeFromIdeaRequest {
	return inbound.RecipeFromIdeaRequest{
		Idea:        w.Idea,
		Servings:    servings(w.Servings),
		Units:       mealplan.UnitSystem(w.Units),
		Constraints: w.Constraints.toDomain(),
		Preferences: w.Preferences.toDomain(),
		Language:    language(w.Language),
	}
}

// --- POST /recipe-from-title ---

type recipeFromTitleRequestWire struct {
	Title       string          `json:"title" binding:"required"`
	Servings    int             `json:"servings"`
	Constraints constraintsWire `json:"constraints"`
	Preferences preferencesWire `json:"preferences"`
	Language    string          `json:"language"`
}

func (w recipeFromTitleRequestWire) toDomain() inbound.RecipeFromTitleRequest {
	return inbound.RecipeFromTitleRequest{
		Title:       w.Title,
		Servings:    servings(w.Servings),
		Constraints: w.Constraints.toDomain(),
		Preferences: w.Preferences.toDomain(),
		Language:    language(w.Language),
	}
}

// --- POST /recipe-from-image ---

type recipeFromImageRequestWire struct {
	ImageBase64 string          `json:"image_base64" binding:"required"`
	Servings    int             `json:"servings"`
	Constraints constraintsWire `json:"constraints"`
	Preferences preferencesWire `json:"preferences"`
	Language    string          `json:"language"`
}

func (w recipeFromImageRequestWire) toDomain() inbound.RecipeFromImageRequest {
	return inbound.RecipeFromImageRequest{
		ImageBase64: w.ImageBase64,
		Servings:    servings(w.Servings),
		Constraints: w.Constraints.toDomain(),
		Preferences: w.Preferences.toDomain(),
		Language:    language(w.Language),
	}
}

// --- POST /meal-prep-concepts ---

type mealPrepConceptsRequestWire struct {
	Constraints constraintsWire `json:"constraints"`
	Language    string          `json:"language"`
}

func (w mealPrepConceptsRequestWire) toDomain() inbound.MealPrepConceptsRequest {
	return inbound.MealPrepConceptsRequest{Constraints: w.Constraints.toDomain(), Language: language(w.Language)}
}

type conceptWire struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Cuisine     *string  `json:"cuisine,omitempty"`
	Tags        []string `json:"tags"`
}

type mealPrepConceptsResponseWire struct {
	Concepts []conceptWire `json:"concepts"`
}

func conceptsResponseToWire(r inbound.MealPrepConceptsResponse) mealPrepConceptsResponseWire {
	concepts := make([]conceptWire, 0, len(r.Concepts))
	for _, c := range r.Concepts {
		concepts = append(concepts, conceptWire{ID: c.ID, Name: c.Name, Description: c.Description, Cuisine: c.Cuisine, Tags: c.Tags})
	}
	return mealPrepConceptsResponseWire{Concepts: concepts}
}

// --- POST /meal-prep-kit ---

type mealPrepKitRequestWire struct {
	Days                    []string        `json:"days" binding:"required"`
	Meals                   []string        `json:"meals" binding:"required"`
	ServingsPerMeal         int             `json:"servings_per_meal"`
	TotalPrepTimePreference string          `json:"total_prep_time_preference"`
	SkillLevel              string          `json:"skill_level"`
	AvoidRareIngredients    bool            `json:"avoid_rare_ingredients"`
	PreferLongShelfLife     bool            `json:"prefer_long_shelf_life"`
	Constraints             constraintsWire `json:"constraints"`
	Units                   string          `json:"units"`
	Language                string          `json:"language"`
	SelectedConcept         *conceptWire    `json:"selected_concept,omitempty"`
}

func (w mealPrepKitRequestWire) toDomain() inbound.MealPrepKitRequest {
	days := make([]mealplan.Weekday, 0, len(w.Days))
	for _, d := range w.Days {
		days = append(days, mealplan.Weekday(d))
	}
	meals := make([]mealplan.MealType, 0, len(w.Meals))
	for _, m := range w.Meals {
		meals = append(meals, mealplan.MealType(m))
	}

	var selected *mealplan.MealPrepConcept
	if w.SelectedConcept != nil {
		selected = &mealplan.MealPrepConcept{
			ID: w.SelectedConcept.ID, Name: w.SelectedConcept.Name, Description: w.SelectedConcept.Description,
			Cuisine: w.SelectedConcept.Cuisine, Tags: w.SelectedConcept.Tags,
		}
	}

	prepTime := inbound.TotalPrepTimePreference(w.TotalPrepTimePreference)
	if prepTime == "" {
		prepTime = inbound.PrepTimeOneHour
	}

	return inbound.MealPrepKitRequest{
		Days:                    days,
		Meals:                   meals,
		ServingsPerMeal:         servings(w.ServingsPerMeal),
		TotalPrepTimePreference: prepTime,
		SkillLevel:              w.SkillLevel,
		AvoidRareIngredients:    w.AvoidRareIngredients,
		PreferLongShelfLife:     w.PreferLongShelfLife,
		Constraints:             w.Constraints.toDomain(),
		Units:                   mealplan.UnitSystem(w.Units),
		Language:                language(w.Language),
		SelectedConcept:         selected,
	}
}

type kitRecipeRefWire struct {
	Recipe        recipeWire `json:"recipe"`
	ShelfLifeDays int        `json:"shelf_life_days"`
	IsFreezable   bool       `json:"is_freezable"`
	StorageNote   string     `json:"storage_note"`
}

type prepIngredientRefWire struct {
	IngredientName  string  `json:"ingredient_name"`
	Quantity        float64 `json:"quantity"`
	SourceRecipeIdx int     `json:"source_recipe_idx"`
}

type groupedPrepStepWire struct {
	ActionType       string                  `json:"action_type"`
	Description      string                  `json:"description"`
	Ingredients      []prepIngredientRefWire `json:"ingredients"`
	StepSnippets     []string                `json:"step_snippets"`
	EstimatedMinutes int                     `json:"estimated_minutes"`
}

type phaseStepWire struct {
	ID               string  `json:"id"`
	Description      string  `json:"description"`
	RecipeTitle      string  `json:"recipe_title"`
	RecipeIndex      *int    `json:"recipe_index,omitempty"`
	EstimatedMinutes int     `json:"estimated_minutes"`
	IsParallel       bool    `json:"is_parallel"`
	ParallelNote     *string `json:"parallel_note,omitempty"`
}

type phaseWire struct {
	Title        string          `json:"title"`
	TotalMinutes int             `json:"total_minutes"`
	Steps        []phaseStepWire `json:"steps"`
}

type mealPrepKitWire struct {
	ID                   string                `json:"id"`
	Name                 string                `json:"name"`
	Description          string                `json:"description"`
	TotalPortions        int                   `json:"total_portions"`
	EstimatedPrepMinutes int                   `json:"estimated_prep_minutes"`
	Recipes              []kitRecipeRefWire    `json:"recipes"`
	PrepSteps            []groupedPrepStepWire `json:"prep_steps"`
	Phases               []phaseWire           `json:"phases"`
	CreatedAt            time.Time             `json:"created_at"`
}

type mealPrepKitResponseWire struct {
	Kits []mealPrepKitWire `json:"kits"`
}

func kitResponseToWire(r inbound.MealPrepKitResponse) mealPrepKitResponseWire {
	kits := make([]mealPrepKitWire, 0, len(r.Kits))
	for _, k := range r.Kits {
		recipes := make([]kitRecipeRefWire, 0, len(k.Recipes))
		for _, ref := range k.Recipes {
			recipes = append(recipes, kitRecipeRefWire{
				Recipe: recipeToWire(ref.Recipe), ShelfLifeDays: ref.ShelfLifeDays,
				IsFreezable: ref.IsFreezable, StorageNote: ref.StorageNote,
			})
		}

		prepSteps := make([]groupedPrepStepWire, 0, len(k.PrepSteps))
		for _, step := range k.PrepSteps {
			ingredients := make([]prepIngredientRefWire, 0, len(step.Ingredients))
			for _, ing := range step.Ingredients {
				ingredients = append(ingredients, prepIngredientRefWire{
					IngredientName: ing.IngredientName, Quantity: ing.Quantity, SourceRecipeIdx: ing.SourceRecipeIdx,
				})
			}
			prepSteps = append(prepSteps, groupedPrepStepWire{
				ActionType: string(step.ActionType), Description: step.Description,
				Ingredients: ingredients, StepSnippets: step.StepSnippets, EstimatedMinutes: step.EstimatedMinutes,
			})
		}

		phases := make([]phaseWire, 0, len(k.Phases))
		for _, phase := range k.Phases {
			steps := make([]phaseStepWire, 0, len(phase.Steps))
			for _, s := range phase.Steps {
				steps = append(steps, phaseStepWire{
					ID: s.ID, Description: s.Description, RecipeTitle: s.RecipeTitle, RecipeIndex: s.RecipeIndex,
					EstimatedMinutes: s.EstimatedMinutes, IsParallel: s.IsParallel, ParallelNote: s.ParallelNote,
				})
			}
			phases = append(phases, phaseWire{Title: string(phase.Title), TotalMinutes: phase.TotalMinutes, Steps: steps})
		}

		kits = append(kits, mealPrepKitWire{
			ID: k.ID, Name: k.Name, Description: k.Description, TotalPortions: k.TotalPortions,
			EstimatedPrepMinutes: k.EstimatedPrepMinutes, Recipes: recipes, PrepSteps: prepSteps,
			Phases: phases, CreatedAt: k.CreatedAt,
		})
	}
	return mealPrepKitResponseWire{Kits: kits}
}

// --- POST /chat ---

type chatTurnWire struct {
	IsFromUser bool      `json:"is_from_user"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

type userContextWire struct {
	UserID        string              `json:"user_id"`
	CurrentPlan   map[string][]string `json:"current_plan"`
	RecentRecipes []recipeWire        `json:"recent_recipes"`
	Favorites     []recipeWire        `json:"favorites"`
	Preferences   preferencesWire     `json:"preferences"`
	HasPremium    bool                `json:"has_premium"`
}

func recipeWireToDomain(w recipeWire) mealplan.Recipe {
	ingredients := make([]mealplan.Ingredient, 0, len(w.Ingredients))
	for _, ing := range w.Ingredients {
		ingredients = append(ingredients, mealplan.Ingredient{
			Name: ing.Name, Quantity: ing.Quantity, Unit: ing.Unit, Category: ing.Category, OnSale: ing.OnSale,
		})
	}
	return mealplan.Recipe{
		Title: w.Title, Servings: w.Servings, TotalMinutes: w.TotalMinutes, Ingredients: ingredients,
		Steps: w.Steps, Equipment: w.Equipment, Tags: w.Tags, ShelfLifeDays: w.ShelfLifeDays,
		IsFreezable: w.IsFreezable, StorageNote: w.StorageNote,
	}
}

func (w userContextWire) toDomain() mealplan.UserContext {
	currentPlan := make(map[mealplan.Weekday][]string, len(w.CurrentPlan))
	for day, meals := range w.CurrentPlan {
		currentPlan[mealplan.Weekday(day)] = meals
	}

	recent := make([]mealplan.Recipe, 0, len(w.RecentRecipes))
	for _, r := range w.RecentRecipes {
		recent = append(recent, recipeWireToDomain(r))
	}

	favorites := make([]mealplan.Recipe, 0, len(w.Favorites))
	for _, r := range w.Favorites {
		favorites = append(favorites, recipeWireToDomain(r))
	}

	return mealplan.UserContext{
		UserID:        w.UserID,
		CurrentPlan:   currentPlan,
		RecentRecipes: recent,
		Favorites:     favorites,
		Preferences:   w.Preferences.toDomain(),
		HasPremium:    w.HasPremium,
	}
}

type chatRequestWire struct {
	Message             string          `json:"message" binding:"required"`
	ConversationHistory []chatTurnWire  `json:"conversation_history"`
	UserContext         userContextWire `json:"user_context"`
	Language            string          `json:"language"`
}

func (w chatRequestWire) toDomain() inbound.ChatRequest {
	history := make([]mealplan.ChatTurn, 0, len(w.ConversationHistory))
	for _, t := range w.ConversationHistory {
		history = append(history, mealplan.ChatTurn{IsFromUser: t.IsFromUser, Content: t.Content, Timestamp: t.Timestamp})
	}
	return inbound.ChatRequest{
		Message:             w.Message,
		ConversationHistory: history,
		UserContext:         w.UserContext.toDomain(),
		Language:            language(w.Language),
	}
}

type chatResponseWire struct {
	Reply                     string            `json:"reply"`
	DetectedMode              string            `json:"detected_mode"`
	RequiresConfirmation      bool              `json:"requires_confirmation"`
	SuggestedActions          []string          `json:"suggested_actions,omitempty"`
	ModifiedRecipe            *recipeWire       `json:"modified_recipe,omitempty"`
	PendingRecipeModification *recipeWire       `json:"pending_recipe_modification,omitempty"`
	ModificationType          *string           `json:"modification_type,omitempty"`
	ModificationMetadata      map[string]string `json:"modification_metadata,omitempty"`
}

func chatResponseToWire(r inbound.ChatResponse) chatResponseWire {
	out := chatResponseWire{
		Reply:                r.Reply,
		DetectedMode:         string(r.DetectedMode),
		RequiresConfirmation: r.RequiresConfirmation,
		SuggestedActions:     r.SuggestedActions,
		ModificationMetadata: r.ModificationMetadata,
	}
	if r.ModifiedRecipe != nil {
		w := recipeToWire(*r.ModifiedRecipe)
		out.ModifiedRecipe = &w
	}
	if r.PendingRecipeModification != nil {
		w := recipeToWire(*r.PendingRecipeModification)
		out.PendingRecipeModification = &w
	}
	if r.ModificationType != nil {
		s := string(*r.ModificationType)
		out.ModificationType = &s
	}
	return out
}

func language(l string) string {
	if l == "" {
		return "en"
	}
	return l
}

func servings(s int) int {
	if s <= 0 {
		return 4
	}
	return s
}
