package mealprep

import (
	"strings"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
)

// stopWords is the bilingual qualifier/descriptor set to strip before
// keyword matching (spec.md §4.7, grounded on
// original_source/mock-server/main.py's ignore_words set).
var stopWords = map[string]bool{
	// French
	"frais": true, "fraîche": true, "fraîches": true, "surgelé": true, "surgelés": true,
	"surgelée": true, "surgelées": true, "congelé": true, "congelés": true, "congelée": true,
	"congelées": true, "décortiqué": true, "décortiqués": true, "décortiquée": true, "décortiquées": true,
	"épluché": true, "épluchés": true, "épluchée": true, "épluchées": true, "coupé": true, "coupés": true,
	"coupée": true, "coupées": true, "tranché": true, "tranchés": true, "tranchée": true, "tranchées": true,
	"haché": true, "hachés": true, "hachée": true, "hachées": true, "émincé": true, "émincés": true,
	"émincée": true, "émincées": true, "bio": true, "biologique": true, "biologiques": true,
	"local": true, "locaux": true, "locale": true, "locales": true, "extra": true, "gros": true,
	"grosse": true, "grosses": true, "petit": true, "petits": true, "petite": true, "petites": true,
	"jeune": true, "jeunes": true, "entier": true, "entiers": true, "entière": true, "entières": true,
	"blanc": true, "blancs": true, "blanche": true, "blanches": true,
	// English
	"fresh": true, "frozen": true, "peeled": true, "deveined": true, "shelled": true,
	"cleaned": true, "trimmed": true, "chopped": true, "diced": true, "sliced": true,
	"minced": true, "shredded": true, "grated": true, "organic": true, "large": true,
	"small": true, "medium": true, "whole": true, "boneless": true, "skinless": true,
}

// MatchDeals marks each ingredient's OnSale flag in-place on a copy of
// the recipe (spec.md §4.7): exact match, then keyword match after
// stop-word stripping, then substring match. The matcher is idempotent
// and side-effect-free beyond the OnSale mutation.
func MatchDeals(r mealplan.Recipe, deals []mealplan.DealItem) mealplan.Recipe {
	normalized := make(map[string]bool, len(deals))
	var longDeals []string
	for _, d := range deals {
		name := strings.ToLower(strings.TrimSpace(d.Name))
		if name == "" {
			continue
		}
		normalized[name] = true
		if len(name) >= 5 {
			longDeals = append(longDeals, name)
		}
	}

	out := r
	ingredients := make([]mealplan.Ingredient, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ingredients[i] = ing
		ingredients[i].OnSale = ingredientOnSale(ing.Name, normalized, longDeals)
	}
	out.Ingredients = ingredients
	return out
}

func ingredientOnSale(name string, normalized map[string]bool, longDeals []string) bool {
	ingName := strings.ToLower(strings.TrimSpace(name))
	if ingName == "" {
		return false
	}

	// 1. exact match
	if normalized[ingName] {
		return true
	}

	// 2. keyword match: tokens after stripping qualifiers and words of
	// length <= 3.
	for _, word := range strings.Fields(ingName) {
		if stopWords[word] || len(word) <= 3 {
			continue
		}
		if normalized[word] {
			return true
		}
	}

	// 3. substring match: any deal of length >= 5 is a substring of the
	// ingredient name.
	for _, deal := range longDeals {
		if strings.Contains(ingName, deal) {
			return true
		}
	}

	return false
}
