package mealprep

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
)

func TestMatchDeals_ExactMatch(t *testing.T) {
	r := mealplan.Recipe{Ingredients: []mealplan.Ingredient{{Name: "chicken breast"}}}
	deals := []mealplan.DealItem{{Name: "chicken breast"}}

	out := MatchDeals(r, deals)
	assert.True(t, out.Ingredients[0].OnSale)
}

func TestMatchDeals_KeywordMatchAfterStopWordStrip(t *testing.T) {
	r := mealplan.Recipe{Ingredients: []mealplan.Ingredient{{Name: "fresh chicken breast"}}}
	deals := []mealplan.DealItem{{Name: "chicken"}}

	out := MatchDeals(r, deals)
	assert.True(t, out.Ingredients[0].OnSale)
}

func TestMatchDeals_SubstringMatch(t *testing.T) {
	r := mealplan.Recipe{Ingredients: []mealplan.Ingredient{{Name: "ground turkey meat"}}}
	deals := []mealplan.DealItem{{Name: "turkey"}}

	out := MatchDeals(r, deals)
	assert.True(t, out.Ingredients[0].OnSale)
}

func TestMatchDeals_NoMatch(t *testing.T) {
	r := mealplan.Recipe{Ingredients: []mealplan.Ingredient{{Name: "tofu"}}}
	deals := []mealplan.DealItem{{Name: "beef"}}

	out := MatchDeals(r, deals)
	assert.False(t, out.Ingredients[0].OnSale)
}

func TestMatchDeals_EmptyIngredientNameNeverMatches(t *testing.T) {
	r := mealplan.Recipe{Ingredients: []mealplan.Ingredient{{Name: ""}}}
	deals := []mealplan.DealItem{{Name: "chicken"}}

	out := MatchDeals(r, deals)
	assert.False(t, out.Ingredients[0].OnSale)
}

func TestMatchDeals_DoesNotMutateInputRecipe(t *testing.T) {
	r := mealplan.Recipe{Ingredients: []mealplan.Ingredient{{Name: "chicken"}}}
	deals := []mealplan.DealItem{{Name: "chicken"}}

	_ = MatchDeals(r, deals)
	assert.False(t, r.Ingredients[0].OnSale)
}
