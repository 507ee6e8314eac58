package http

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
	"github.com/alchemorsel/mealprep/internal/ports/inbound"
)

func TestPlanRequestWire_ToDomain(t *testing.T) {
	wire := planRequestWire{
		WeekStart: "2026-08-03",
		Units:     "METRIC",
		Slots:     []slotWire{{Weekday: "Mon", MealType: "DINNER"}},
		Constraints: constraintsWire{
			Evict: []string{"peanuts"},
		},
		Language: "",
	}

	req := wire.toDomain()
	assert.Equal(t, "2026-08-03", req.WeekStart)
	assert.Equal(t, mealplan.UnitSystem("METRIC"), req.Units)
	assert.Equal(t, []string{"peanuts"}, req.Constraints.Evict)
	assert.Equal(t, "en", req.Language)
	assert.Equal(t, mealplan.Monday, req.Slots[0].Weekday)
}

func TestRecipeToWire_RoundTripsCoreFields(t *testing.T) {
	shelfLife := 5
	freezable := true
	recipe := mealplan.Recipe{
		Title:         "Chili",
		Servings:      6,
		TotalMinutes:  45,
		Ingredients:   []mealplan.Ingredient{{Name: "beans", Quantity: 2, Unit: "cup", Category: "pantry", OnSale: true}},
		Steps:         []string{"a", "b", "c", "d", "e"},
		ShelfLifeDays: &shelfLife,
		IsFreezable:   &freezable,
	}

	wire := recipeToWire(recipe)
	assert.Equal(t, "Chili", wire.Title)
	assert.Equal(t, 6, wire.Servings)
	require := assert.New(t)
	require.NotNil(wire.ShelfLifeDays)
	require.Equal(5, *wire.ShelfLifeDays)
	require.True(*wire.IsFreezable)
	require.Len(wire.Ingredients, 1)
	require.Equal("beans", wire.Ingredients[0].Name)
}

func TestChatResponseToWire_OmitsNilPointers(t *testing.T) {
	resp := inbound.ChatResponse{Reply: "hi", DetectedMode: inbound.ModeRecipeQA}
	wire := chatResponseToWire(resp)
	assert.Nil(t, wire.ModifiedRecipe)
	assert.Nil(t, wire.PendingRecipeModification)
	assert.Nil(t, wire.ModificationType)
}

func TestChatResponseToWire_CarriesPendingModification(t *testing.T) {
	recipe := mealplan.Recipe{Title: "Modified"}
	modType := mealplan.ModificationReplaceIngredient
	resp := inbound.ChatResponse{
		Reply: "confirm?", RequiresConfirmation: true,
		PendingRecipeModification: &recipe, ModificationType: &modType,
	}

	wire := chatResponseToWire(resp)
	assert.True(t, wire.RequiresConfirmation)
	assert.NotNil(t, wire.PendingRecipeModification)
	assert.Equal(t, "Modified", wire.PendingRecipeModification.Title)
	assert.Equal(t, "replace_ingredient", *wire.ModificationType)
}

func TestMealPrepKitRequestWire_ToDomain_DefaultsPrepTime(t *testing.T) {
	wire := mealPrepKitRequestWire{
		Days:  []string{"Mon", "Tue"},
		Meals: []string{"DINNER"},
	}
	req := wire.toDomain()
	assert.Equal(t, inbound.PrepTimeOneHour, req.TotalPrepTimePreference)
	assert.Equal(t, 4, req.ServingsPerMeal)
}
