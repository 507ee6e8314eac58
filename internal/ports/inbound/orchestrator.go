// Package inbound declares the use-case interfaces the HTTP handlers
// depend on. Each method corresponds to one endpoint in spec.md §6; request
// and response DTOs live alongside the interface since they are this
// port's public contract, not domain entities.
package inbound

import (
	"context"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
)

// PlanRequest is the input of POST /plan. UserID is optional; when set,
// generated items are persisted through outbound.PlanRepository so a
// later GetCurrentPlan call can read them back.
type PlanRequest struct {
	UserID      string
	WeekStart   string
	Units       mealplan.UnitSystem
	Slots       []mealplan.Slot
	Constraints mealplan.Constraints
	Preferences mealplan.Preferences
	Language    string
}

// PlanResponse is the output of POST /plan.
type PlanResponse struct {
	Items []mealplan.PlanItem
}

// RegenerateMealRequest is the input of POST /regenerate-meal. UserID is
// optional; see PlanRequest.
type RegenerateMealRequest struct {
	UserID        string
	Slot          mealplan.Slot
	Constraints   mealplan.Constraints
	Preferences   mealplan.Preferences
	DiversitySeed int
	Language      string
}

// RecipeFromIdeaRequest is the input of POST /recipe.
type RecipeFromIdeaRequest struct {
	Idea        string
	Servings    int
	Units       mealplan.UnitSystem
	Constraints mealplan.Constraints
	Preferences mealplan.Preferences
	Language    string
}

// RecipeFromTitleRequest is the input of POST /recipe-from-title.
type RecipeFromTitleRequest struct {
	Title       string
	Servings    int
	Constraints mealplan.Constraints
	Preferences mealplan.Preferences
	Language    string
}

// RecipeFromImageRequest is the input of POST /recipe-from-image.
type RecipeFromImageRequest struct {
	ImageBase64 string
	Servings    int
	Constraints mealplan.Constraints
	Preferences mealplan.Preferences
	Language    string
}

// MealPrepConceptsRequest is the input of POST /meal-prep-concepts.
type MealPrepConceptsRequest struct {
	Constraints mealplan.Constraints
	Language    string
}

// MealPrepConceptsResponse is the output of POST /meal-prep-concepts.
type MealPrepConceptsResponse struct {
	Concepts []mealplan.MealPrepConcept
}

// TotalPrepTimePreference is the `1h|1h30|2h+` enum from spec.md §6.
type TotalPrepTimePreference string

const (
	PrepTimeOneHour        TotalPrepTimePreference = "1h"
	PrepTimeOneHourThirty  TotalPrepTimePreference = "1h30"
	PrepTimeTwoHoursOrMore TotalPrepTimePreference = "2h+"
)

// MealPrepKitRequest is the input of POST /meal-prep-kit.
type MealPrepKitRequest struct {
	Days                   []mealplan.Weekday
	Meals                  []mealplan.MealType
	ServingsPerMeal         int
	TotalPrepTimePreference TotalPrepTimePreference
	SkillLevel              string
	AvoidRareIngredients    bool
	PreferLongShelfLife     bool
	Constraints             mealplan.Constraints
	Units                   mealplan.UnitSystem
	Language                string
	SelectedConcept         *mealplan.MealPrepConcept
}

// MealPrepKitResponse is the output of POST /meal-prep-kit. The API always
// returns a single-element kits list (spec.md §6).
type MealPrepKitResponse struct {
	Kits []mealplan.MealPrepKit
}

// PlanOrchestrator is the use-case port for the plan/kit/recipe endpoints.
type PlanOrchestrator interface {
	GeneratePlan(ctx context.Context, req PlanRequest) (PlanResponse, error)
	RegenerateMeal(ctx context.Context, req RegenerateMealRequest) (mealplan.Recipe, error)
	GenerateRecipeFromIdea(ctx context.Context, req RecipeFromIdeaRequest) (mealplan.Recipe, error)
	GenerateRecipeFromTitle(ctx context.Context, req RecipeFromTitleRequest) (mealplan.Recipe, error)
	GenerateRecipeFromImage(ctx context.Context, req RecipeFromImageRequest) (mealplan.Recipe, error)
	GenerateMealPrepConcepts(ctx context.Context, req MealPrepConceptsRequest) (MealPrepConceptsResponse, error)
	GenerateMealPrepKit(ctx context.Context, req MealPrepKitRequest) (MealPrepKitResponse, error)
}
