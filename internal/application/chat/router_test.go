package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
)

func TestClassify_PlanDisplay_RequiresCurrentPlan(t *testing.T) {
	in := turnInput{
		message:     "Montre-moi mon plan de la semaine",
		currentPlan: map[mealplan.Weekday][]string{mealplan.Monday: {"Tacos"}},
	}
	c := classify(in)
	assert.Equal(t, intentPlanDisplay, c.intent)
}

func TestClassify_PlanDisplay_FallsThroughWithoutCurrentPlan(t *testing.T) {
	in := turnInput{message: "show my plan"}
	c := classify(in)
	assert.NotEqual(t, intentPlanDisplay, c.intent)
}

func TestClassify_Confirmation_RequiresPriorConfirmationAsk(t *testing.T) {
	in := turnInput{
		message: "oui",
		history: []mealplan.ChatTurn{
			{IsFromUser: false, Content: "Shall I confirm this change?"},
		},
	}
	c := classify(in)
	assert.Equal(t, intentConfirmation, c.intent)
}

func TestClassify_Confirmation_MatchesMultiWordReply(t *testing.T) {
	history := []mealplan.ChatTurn{{IsFromUser: false, Content: "Shall I confirm this change?"}}

	for _, msg := range []string{"oui, vas-y", "sure, go ahead", "yes please", "parfait, merci"} {
		c := classify(turnInput{message: msg, history: history})
		assert.Equal(t, intentConfirmation, c.intent, "message %q should classify as confirmation", msg)
	}
}

func TestClassify_Confirmation_NotTriggeredWithoutPriorAsk(t *testing.T) {
	in := turnInput{
		message: "oui",
		history: []mealplan.ChatTurn{{IsFromUser: false, Content: "Here is a recipe idea."}},
	}
	c := classify(in)
	assert.NotEqual(t, intentConfirmation, c.intent)
}

func TestClassify_AddMeal_WithBothSlotsExtracted(t *testing.T) {
	c := classify(turnInput{message: "Ajoute des tacos au poulet jeudi soir"})
	assert.Equal(t, intentAddMeal, c.intent)
	if assert.NotNil(t, c.weekday) {
		assert.Equal(t, mealplan.Thursday, *c.weekday)
	}
	if assert.NotNil(t, c.mealType) {
		assert.Equal(t, mealplan.Dinner, *c.mealType)
	}
}

func TestClassify_AddMeal_MissingDay(t *testing.T) {
	c := classify(turnInput{message: "Ajoute un souper végétarien"})
	assert.Equal(t, intentAddMealMissing, c.intent)
	assert.Nil(t, c.weekday)
	if assert.NotNil(t, c.mealType) {
		assert.Equal(t, mealplan.Dinner, *c.mealType)
	}
}

func TestClassify_AddMeal_MissingMealType(t *testing.T) {
	c := classify(turnInput{message: "Ajoute quelque chose lundi"})
	assert.Equal(t, intentAddMealMissing, c.intent)
	if assert.NotNil(t, c.weekday) {
		assert.Equal(t, mealplan.Monday, *c.weekday)
	}
	assert.Nil(t, c.mealType)
}

func TestClassify_ModifyRecipe(t *testing.T) {
	c := classify(turnInput{message: "Replace the chicken in Monday's dinner with tofu"})
	assert.Equal(t, intentModifyRecipe, c.intent)
}

func TestClassify_ModifyQuestion_IsNotMutating(t *testing.T) {
	c := classify(turnInput{message: "Can I replace the chicken with tofu?"})
	assert.Equal(t, intentModifyQuestion, c.intent)
}

func TestClassify_NutritionCoach_FromMessageKeyword(t *testing.T) {
	c := classify(turnInput{message: "How many calories does this recipe have?"})
	assert.Equal(t, intentNutritionCoach, c.intent)
}

func TestClassify_NutritionCoach_FromRecentHistory(t *testing.T) {
	c := classify(turnInput{
		message: "what about tomorrow?",
		history: []mealplan.ChatTurn{{IsFromUser: true, Content: "tell me about protein macros"}},
	})
	assert.Equal(t, intentNutritionCoach, c.intent)
}

func TestClassify_RecipeQA_IsDefaultFallback(t *testing.T) {
	c := classify(turnInput{message: "What temperature should I roast this at?"})
	assert.Equal(t, intentRecipeQA, c.intent)
}

func TestLastAssistantAsksConfirmationAndModifies_RequiresBoth(t *testing.T) {
	history := []mealplan.ChatTurn{
		{IsFromUser: false, Content: "Would you like me to proceed with the replacement?"},
	}
	assert.True(t, lastAssistantAsksConfirmationAndModifies(history))

	historyNoModify := []mealplan.ChatTurn{
		{IsFromUser: false, Content: "Would you like me to proceed?"},
	}
	assert.False(t, lastAssistantAsksConfirmationAndModifies(historyNoModify))
}
