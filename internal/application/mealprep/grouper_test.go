package mealprep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
)

func TestGroupPrepSteps_GroupsByActionAcrossRecipes(t *testing.T) {
	recipes := []mealplan.KitRecipeRef{
		{Recipe: mealplan.Recipe{
			Title:       "Stir Fry",
			Ingredients: []mealplan.Ingredient{{Name: "chicken"}, {Name: "onion"}},
			Steps:       []string{"Chop the chicken and onion.", "Cook everything in a hot pan."},
		}},
		{Recipe: mealplan.Recipe{
			Title:       "Tacos",
			Ingredients: []mealplan.Ingredient{{Name: "onion"}, {Name: "pepper"}},
			Steps:       []string{"Dice the onion and pepper.", "Cook the filling."},
		}},
	}

	out := GroupPrepSteps(recipes, "en")
	require.NotEmpty(t, out)

	var cutGroup *mealplan.GroupedPrepStep
	for i := range out {
		if out[i].ActionType == mealplan.ActionCut {
			cutGroup = &out[i]
		}
	}
	require.NotNil(t, cutGroup)
	assert.GreaterOrEqual(t, len(cutGroup.Ingredients), 2)
	assert.GreaterOrEqual(t, cutGroup.EstimatedMinutes, 5)
	assert.LessOrEqual(t, cutGroup.EstimatedMinutes, 20)
}

func TestGroupPrepSteps_StopsScanningAfterCookingIndicator(t *testing.T) {
	recipes := []mealplan.KitRecipeRef{
		{Recipe: mealplan.Recipe{
			Title:       "Casserole",
			Ingredients: []mealplan.Ingredient{{Name: "carrot"}},
			Steps: []string{
				"Preheat the oven.",
				"Grease the pan.",
				"Stir the mixture.",
				"Cook the base sauce.", // idx 3 > 2 and contains a cooking indicator: scan stops here
				"Chop the carrot.",     // never reached
			},
		}},
	}

	out := GroupPrepSteps(recipes, "en")
	for _, g := range out {
		assert.NotEqual(t, mealplan.ActionCut, g.ActionType)
	}
}

func TestGroupPrepSteps_EmptyWhenNoIngredientsMentioned(t *testing.T) {
	recipes := []mealplan.KitRecipeRef{
		{Recipe: mealplan.Recipe{
			Title:       "Mystery",
			Ingredients: []mealplan.Ingredient{{Name: "salt"}},
			Steps:       []string{"Mix well."},
		}},
	}

	out := GroupPrepSteps(recipes, "en")
	assert.Empty(t, out)
}

func TestGroupPrepSteps_FrenchKeywords(t *testing.T) {
	recipes := []mealplan.KitRecipeRef{
		{Recipe: mealplan.Recipe{
			Title:       "Ragoût",
			Ingredients: []mealplan.Ingredient{{Name: "carotte"}},
			Steps:       []string{"Éplucher la carotte."},
		}},
	}

	out := GroupPrepSteps(recipes, "fr")
	require.NotEmpty(t, out)
	assert.Equal(t, mealplan.ActionPeel, out[0].ActionType)
}

func TestGroupPrepSteps_SortedByActionPriority(t *testing.T) {
	recipes := []mealplan.KitRecipeRef{
		{Recipe: mealplan.Recipe{
			Title:       "Prep Heavy",
			Ingredients: []mealplan.Ingredient{{Name: "carrot"}, {Name: "cheese"}},
			Steps: []string{
				"Preheat the oven to 350.",
				"Chop the carrot.",
				"Grate the cheese.",
			},
		}},
	}

	out := GroupPrepSteps(recipes, "en")
	for i := 1; i < len(out); i++ {
		assert.LessOrEqual(t, mealplan.ActionPriority[out[i-1].ActionType], mealplan.ActionPriority[out[i].ActionType])
	}
}
