package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
)

func TestPlanRepository_SaveAndGet(t *testing.T) {
	repo := NewPlanRepository()
	ctx := context.Background()

	item := mealplan.PlanItem{
		Slot:   mealplan.Slot{Weekday: mealplan.Monday, MealType: mealplan.Dinner},
		Recipe: mealplan.Recipe{Title: "Chicken Stir Fry"},
	}
	require.NoError(t, repo.SaveItem(ctx, "user-1", item))

	plan, err := repo.GetCurrentPlan(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Chicken Stir Fry"}, plan[mealplan.Monday])
}

func TestPlanRepository_SaveItem_UpsertsBySlot(t *testing.T) {
	repo := NewPlanRepository()
	ctx := context.Background()
	slot := mealplan.Slot{Weekday: mealplan.Tuesday, MealType: mealplan.Lunch}

	require.NoError(t, repo.SaveItem(ctx, "user-1", mealplan.PlanItem{Slot: slot, Recipe: mealplan.Recipe{Title: "First Draft"}}))
	require.NoError(t, repo.SaveItem(ctx, "user-1", mealplan.PlanItem{Slot: slot, Recipe: mealplan.Recipe{Title: "Final Draft"}}))

	plan, err := repo.GetCurrentPlan(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Final Draft"}, plan[mealplan.Tuesday])
}

func TestPlanRepository_ScopedPerUser(t *testing.T) {
	repo := NewPlanRepository()
	ctx := context.Background()

	require.NoError(t, repo.SaveItem(ctx, "user-1", mealplan.PlanItem{
		Slot: mealplan.Slot{Weekday: mealplan.Wednesday, MealType: mealplan.Breakfast}, Recipe: mealplan.Recipe{Title: "Oatmeal"},
	}))

	plan, err := repo.GetCurrentPlan(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, plan)
}
