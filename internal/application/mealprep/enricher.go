package mealprep

import (
	"fmt"
	"strings"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
)

var (
	shortShelfKeywords    = []string{"salad", "fresh fish", "shrimp"}
	mediumShelfKeywords   = []string{"chicken", "pork", "beef", "pasta"}
	longShelfKeywords     = []string{"soup", "stew", "chili", "curry", "casserole"}
)

// EnrichRecipe attaches shelf_life_days, is_freezable, and a localized
// storage_note by classifying the recipe's title against fixed keyword
// buckets (spec.md §4.6). preferLongShelfLife comes from the
// /meal-prep-kit request (spec.md §6).
func EnrichRecipe(r mealplan.Recipe, preferLongShelfLife bool, lang string) mealplan.Recipe {
	title := strings.ToLower(r.Title)

	var shelfLife int
	var freezable bool

	switch {
	case containsAny(title, shortShelfKeywords):
		shelfLife, freezable = 2, false
	case containsAny(title, mediumShelfKeywords):
		freezable = true
		if preferLongShelfLife {
			shelfLife = 4
		} else {
			shelfLife = 3
		}
	case containsAny(title, longShelfKeywords):
		shelfLife, freezable = 5, true
	default:
		shelfLife, freezable = 3, true
	}

	r.ShelfLifeDays = &shelfLife
	r.IsFreezable = &freezable
	r.StorageNote = storageNote(shelfLife, freezable, lang)
	return r
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func storageNote(shelfLifeDays int, freezable bool, lang string) string {
	if lang == "fr" {
		freezeText := "ne se congèle pas bien"
		if freezable {
			freezeText = "se congèle bien"
		}
		return formatStorageNoteFr(shelfLifeDays, freezeText)
	}
	freezeText := "does not freeze well"
	if freezable {
		freezeText = "freezes well"
	}
	return formatStorageNoteEn(shelfLifeDays, freezeText)
}

func formatStorageNoteEn(days int, freezeText string) string {
	return fmt.Sprintf("Keeps refrigerated for up to %d days; %s.", days, freezeText)
}

func formatStorageNoteFr(days int, freezeText string) string {
	return fmt.Sprintf("Se conserve au réfrigérateur jusqu'à %d jours; %s.", days, freezeText)
}
