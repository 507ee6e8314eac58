package inbound

import (
	"context"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
)

// DetectedMode is the chat response's classification tag surfaced to the
// client (spec.md §6).
type DetectedMode string

const (
	ModeRecipeQA        DetectedMode = "recipe_qa"
	ModeNutritionCoach  DetectedMode = "nutrition_coach"
	ModeOnboarding      DetectedMode = "onboarding"
)

// ChatRequest is the input of POST /chat.
type ChatRequest struct {
	Message            string
	ConversationHistory []mealplan.ChatTurn
	UserContext         mealplan.UserContext
	Language            string
}

// ChatResponse is the uniform shape every chat-router variant returns
// (spec.md §9 "tagged variants... uniform ChatResponse shape").
type ChatResponse struct {
	Reply                  string
	DetectedMode           DetectedMode
	RequiresConfirmation   bool
	SuggestedActions       []string
	ModifiedRecipe         *mealplan.Recipe
	PendingRecipeModification *mealplan.Recipe
	ModificationType       *mealplan.ModificationType
	ModificationMetadata   map[string]string
}

// ChatOrchestrator is the use-case port for POST /chat. The premium gate
// (spec.md §6, §8) is enforced by the caller before this is invoked, or by
// the implementation itself returning a CodePremiumRequired AppError.
type ChatOrchestrator interface {
	HandleTurn(ctx context.Context, req ChatRequest) (ChatResponse, error)
}
