package mealprep

import (
	"fmt"
	"strings"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
)

// actionKeywords maps each ActionType to the substrings (lowercased) that
// identify it in a step's text, grounded on
// original_source/mock-server/main.py's group_preparation_steps
// action_keywords_fr/action_keywords_en tables (spec.md §4.8).
var actionKeywordsFr = map[mealplan.ActionType][]string{
	mealplan.ActionCut:      {"couper", "découper", "trancher", "émincer", "hacher"},
	mealplan.ActionGrate:    {"râper", "gratter"},
	mealplan.ActionPeel:     {"éplucher", "peler"},
	mealplan.ActionMix:      {"mélanger", "mélange", "combiner", "battre"},
	mealplan.ActionPreheat:  {"préchauffer", "chauffer le four"},
	mealplan.ActionMarinate: {"mariner", "faire mariner"},
	mealplan.ActionMeasure:  {"mesurer", "peser"},
}

var actionKeywordsEn = map[mealplan.ActionType][]string{
	mealplan.ActionCut:      {"chop", "dice", "cut", "slice", "mince"},
	mealplan.ActionGrate:    {"grate", "shred"},
	mealplan.ActionPeel:     {"peel", "skin"},
	mealplan.ActionMix:      {"mix", "combine", "whisk", "beat"},
	mealplan.ActionPreheat:  {"preheat", "heat the oven"},
	mealplan.ActionMarinate: {"marinate"},
	mealplan.ActionMeasure:  {"measure", "weigh"},
}

var cookingIndicators = []string{
	"cuire", "cook", "chauffer", "heat", "griller", "grill", "rôtir", "roast", "frire", "fry",
}

type prepStepMatch struct {
	actionType  mealplan.ActionType
	step        string
	recipeTitle string
	recipeIdx   int
}

type groupAccumulator struct {
	ingredients   []mealplan.PrepIngredientRef
	detailedSteps []string
	recipeTitles  map[string]bool
}

// GroupPrepSteps scans each kit recipe's opening steps and groups
// matching preparation actions across the whole kit so ingredients that
// need the same treatment can be batched (spec.md §4.8). Scanning a
// recipe's steps stops once a cooking indicator appears past step index
// 2, mirroring the assumption that prep steps cluster at the start of a
// recipe.
func GroupPrepSteps(recipes []mealplan.KitRecipeRef, lang string) []mealplan.GroupedPrepStep {
	keywords := actionKeywordsEn
	if lang == "fr" {
		keywords = actionKeywordsFr
	}

	groups := make(map[mealplan.ActionType]*groupAccumulator)

	for recipeIdx, ref := range recipes {
		matches := findPrepSteps(ref.Recipe, keywords)
		for _, m := range matches {
			acc, ok := groups[m.actionType]
			if !ok {
				acc = &groupAccumulator{recipeTitles: map[string]bool{}}
				groups[m.actionType] = acc
			}

			stepLower := strings.ToLower(m.step)
			for _, ing := range ref.Recipe.Ingredients {
				if ingredientMentioned(ing.Name, stepLower) {
					acc.ingredients = append(acc.ingredients, mealplan.PrepIngredientRef{
						IngredientName:  ing.Name,
						Quantity:        ing.Quantity,
						SourceRecipeIdx: recipeIdx,
					})
				}
			}

			acc.detailedSteps = append(acc.detailedSteps, m.step)
			acc.recipeTitles[m.recipeTitle] = true
		}
	}

	var out []mealplan.GroupedPrepStep
	for actionType, acc := range groups {
		if len(acc.ingredients) == 0 {
			continue
		}

		estimated := len(acc.ingredients) * 2
		if estimated < 5 {
			estimated = 5
		}
		if estimated > 20 {
			estimated = 20
		}

		out = append(out, mealplan.GroupedPrepStep{
			ActionType:       actionType,
			Description:      groupDescription(actionType, acc.recipeTitles, lang),
			Ingredients:      acc.ingredients,
			StepSnippets:     acc.detailedSteps,
			EstimatedMinutes: estimated,
		})
	}

	sortByActionPriority(out)
	return out
}

func findPrepSteps(r mealplan.Recipe, keywords map[mealplan.ActionType][]string) []prepStepMatch {
	var matches []prepStepMatch

	for idx, step := range r.Steps {
		stepLower := strings.ToLower(step)

		if idx > 2 && containsAnyKeyword(stepLower, cookingIndicators) {
			break
		}

		actionType, matched := matchActionType(stepLower, keywords)
		if matched {
			matches = append(matches, prepStepMatch{
				actionType:  actionType,
				step:        step,
				recipeTitle: r.Title,
			})
		}
	}

	return matches
}

// actionMatchOrder fixes the order in which matchActionType tries the
// buckets, so a step naming several actions always lands in the same one.
var actionMatchOrder = []mealplan.ActionType{
	mealplan.ActionCut, mealplan.ActionGrate, mealplan.ActionPeel, mealplan.ActionMix,
	mealplan.ActionPreheat, mealplan.ActionMarinate, mealplan.ActionMeasure,
}

func matchActionType(stepLower string, keywords map[mealplan.ActionType][]string) (mealplan.ActionType, bool) {
	for _, actionType := range actionMatchOrder {
		if containsAnyKeyword(stepLower, keywords[actionType]) {
			return actionType, true
		}
	}
	return "", false
}

func containsAnyKeyword(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// ingredientMentioned checks whether an ingredient is named in a prep
// step, either as the full lowercased name or as any of its individual
// words (original_source's `ing_name in step_lower or any(word in
// step_lower for word in ing_name.split())`).
func ingredientMentioned(ingredientName, stepLower string) bool {
	ingLower := strings.ToLower(ingredientName)
	if ingLower == "" {
		return false
	}
	if strings.Contains(stepLower, ingLower) {
		return true
	}
	for _, word := range strings.Fields(ingLower) {
		if strings.Contains(stepLower, word) {
			return true
		}
	}
	return false
}

func groupDescription(actionType mealplan.ActionType, recipeTitles map[string]bool, lang string) string {
	count := len(recipeTitles)
	var only string
	for title := range recipeTitles {
		only = title
		break
	}

	if lang == "fr" {
		if count == 1 {
			return fmt.Sprintf("%s les ingrédients pour %s", actionType, only)
		}
		return fmt.Sprintf("%s les ingrédients pour %d recettes", actionType, count)
	}
	if count == 1 {
		return fmt.Sprintf("%s ingredients for %s", actionType, only)
	}
	return fmt.Sprintf("%s ingredients for %d recipes", actionType, count)
}

func sortByActionPriority(steps []mealplan.GroupedPrepStep) {
	for i := 1; i < len(steps); i++ {
		j := i
		for j > 0 && mealplan.ActionPriority[steps[j-1].ActionType] > mealplan.ActionPriority[steps[j].ActionType] {
			steps[j-1], steps[j] = steps[j], steps[j-1]
			j--
		}
	}
}
