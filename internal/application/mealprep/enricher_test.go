package mealprep

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
)

func TestEnrichRecipe_ShortShelfLifeKeyword(t *testing.T) {
	r := EnrichRecipe(mealplan.Recipe{Title: "Garden Salad"}, false, "en")
	require := assert.New(t)
	require.NotNil(r.ShelfLifeDays)
	require.Equal(2, *r.ShelfLifeDays)
	require.NotNil(r.IsFreezable)
	require.False(*r.IsFreezable)
	require.Contains(r.StorageNote, "2 days")
}

func TestEnrichRecipe_MediumShelfLifePrefersLongWhenRequested(t *testing.T) {
	r := EnrichRecipe(mealplan.Recipe{Title: "Chicken Pasta"}, true, "en")
	assert.Equal(t, 4, *r.ShelfLifeDays)
	assert.True(t, *r.IsFreezable)
}

func TestEnrichRecipe_MediumShelfLifeDefault(t *testing.T) {
	r := EnrichRecipe(mealplan.Recipe{Title: "Chicken Pasta"}, false, "en")
	assert.Equal(t, 3, *r.ShelfLifeDays)
}

func TestEnrichRecipe_LongShelfLifeKeyword(t *testing.T) {
	r := EnrichRecipe(mealplan.Recipe{Title: "Lentil Stew"}, false, "en")
	assert.Equal(t, 5, *r.ShelfLifeDays)
	assert.True(t, *r.IsFreezable)
}

func TestEnrichRecipe_FrenchStorageNote(t *testing.T) {
	r := EnrichRecipe(mealplan.Recipe{Title: "Chili"}, false, "fr")
	assert.Contains(t, r.StorageNote, "réfrigérateur")
}

func TestEnrichRecipe_DefaultBucket(t *testing.T) {
	r := EnrichRecipe(mealplan.Recipe{Title: "Mystery Bowl"}, false, "en")
	assert.Equal(t, 3, *r.ShelfLifeDays)
	assert.True(t, *r.IsFreezable)
}
