// Package chat implements spec.md §4.10-§4.11: the Intent Router (tagged-
// variant dispatch over a chat transcript) and the Chat Orchestrator
// (non-mutating-turn LLM context builder). The router is stateless per
// request — all state is recovered by scanning the transcript tail
// (spec.md §4.10 "Stateless per request").
package chat

import (
	"strings"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
)

// intent is the router's internal tagged-variant classification
// (spec.md §9 "tagged variants... rather than behavioral subclassing").
type intent string

const (
	intentPlanDisplay    intent = "plan_display"
	intentConfirmation   intent = "confirmation"
	intentAddMeal        intent = "add_meal"
	intentAddMealMissing intent = "add_meal_missing"
	intentModifyRecipe   intent = "modify_recipe"
	intentModifyQuestion intent = "modify_question"
	intentRecipeQA       intent = "recipe_qa"
	intentNutritionCoach intent = "nutrition_coach"
)

var planDisplayKeywords = []string{
	"mon plan", "mon menu", "montre-moi mon plan", "montre moi mon plan",
	"show my menu", "show my plan", "my current plan", "what's my plan",
}

// affirmativeKeywords mirrors the original's detect_user_confirmation:
// French and English confirmation words, matched as an exact message or a
// leading prefix so trailing words ("oui, vas-y", "sure, go ahead") still
// classify as a confirmation.
var affirmativeKeywords = []string{
	"oui", "ok", "confirme", "confirm", "accepte", "accept", "d'accord", "daccord", "parfait", "vas-y", "vas y", "go",
	"yes", "go ahead", "sure", "perfect", "agreed",
}

func isAffirmative(msg string) bool {
	for _, kw := range affirmativeKeywords {
		if msg == kw || strings.HasPrefix(msg, kw) {
			return true
		}
	}
	return false
}

var confirmationAskingPhrases = []string{
	"voulez-vous confirmer", "dois-je confirmer", "confirmez-vous", "souhaitez-vous que je procède",
	"shall i confirm", "do you want me to confirm", "should i apply this", "would you like me to proceed",
}

var addVerbs = []string{
	"ajoute", "ajouter", "crée", "créer", "rajoute",
	"add", "create", "put", "schedule",
}

var modifyVerbs = []string{
	"remplace", "remplacer", "modifie", "modifier", "ajuste", "ajuster", "change", "changer",
	"replace", "modify", "adjust", "swap", "change",
}

// possibility-question markers distinguish "can I...?" (a question about
// the user's own ability/permission — not a mutating intent) from "can
// you...?" (a request directed at the assistant — a mutating intent).
var possibilityMarkers = []string{"puis-je", "est-ce que je peux", "can i", "could i"}

// weekdayKeyword/mealTypeKeyword pair a keyword with its mapped value in
// a fixed order, so a message naming more than one day/meal-type (e.g.
// "ajoute un dîner lundi ou mardi") always resolves to the same match
// regardless of process or run (an ordered slice scan, not a map
// iteration, matches the original's deterministic in-order dict scan).
type weekdayKeyword struct {
	keyword string
	day     mealplan.Weekday
}

type mealTypeKeyword struct {
	keyword string
	meal    mealplan.MealType
}

var weekdayKeywordsFr = []weekdayKeyword{
	{"lundi", mealplan.Monday}, {"mardi", mealplan.Tuesday}, {"mercredi", mealplan.Wednesday},
	{"jeudi", mealplan.Thursday}, {"vendredi", mealplan.Friday}, {"samedi", mealplan.Saturday}, {"dimanche", mealplan.Sunday},
}

var weekdayKeywordsEn = []weekdayKeyword{
	{"monday", mealplan.Monday}, {"tuesday", mealplan.Tuesday}, {"wednesday", mealplan.Wednesday},
	{"thursday", mealplan.Thursday}, {"friday", mealplan.Friday}, {"saturday", mealplan.Saturday}, {"sunday", mealplan.Sunday},
	{"mon", mealplan.Monday}, {"tue", mealplan.Tuesday}, {"wed", mealplan.Wednesday},
	{"thu", mealplan.Thursday}, {"fri", mealplan.Friday}, {"sat", mealplan.Saturday}, {"sun", mealplan.Sunday},
}

var mealTypeKeywordsFr = []mealTypeKeyword{
	{"déjeuner", mealplan.Breakfast}, {"petit-déjeuner", mealplan.Breakfast}, {"petit déjeuner", mealplan.Breakfast},
	{"dîner", mealplan.Dinner}, {"souper", mealplan.Dinner}, {"midi", mealplan.Lunch}, {"lunch", mealplan.Lunch},
	{"soir", mealplan.Dinner}, {"soirée", mealplan.Dinner},
}

var mealTypeKeywordsEn = []mealTypeKeyword{
	{"breakfast", mealplan.Breakfast}, {"lunch", mealplan.Lunch}, {"dinner", mealplan.Dinner},
	{"supper", mealplan.Dinner}, {"evening", mealplan.Dinner}, {"morning", mealplan.Breakfast},
}

var nutritionKeywords = []string{
	"calorie", "calories", "protein", "protéine", "protéines", "macro", "macros",
	"nutrition", "nutritif", "nutritive", "diet", "régime", "vitamin", "vitamine",
}

// classification is the router's decision plus whatever metadata the
// caller needs to act on it.
type classification struct {
	intent   intent
	weekday  *mealplan.Weekday
	mealType *mealplan.MealType
}

// classify implements the spec.md §4.10 "first match wins" order.
func classify(req turnInput) classification {
	msg := strings.ToLower(strings.TrimSpace(req.message))

	if containsAny(msg, planDisplayKeywords) && len(req.currentPlan) > 0 {
		return classification{intent: intentPlanDisplay}
	}

	if isAffirmative(msg) && lastAssistantAsksConfirmation(req.history) {
		return classification{intent: intentConfirmation}
	}

	if containsAny(msg, addVerbs) {
		weekday := extractWeekday(msg)
		mealType := extractMealType(msg)
		if weekday != nil && mealType != nil {
			return classification{intent: intentAddMeal, weekday: weekday, mealType: mealType}
		}
		return classification{intent: intentAddMealMissing, weekday: weekday, mealType: mealType}
	}

	if containsAny(msg, modifyVerbs) {
		if isPossibilityQuestion(msg) {
			return classification{intent: intentModifyQuestion}
		}
		return classification{intent: intentModifyRecipe}
	}

	if containsAny(msg, nutritionKeywords) || lastFiveContainAny(req.history, nutritionKeywords) {
		return classification{intent: intentNutritionCoach}
	}

	return classification{intent: intentRecipeQA}
}

// turnInput is the subset of ChatRequest the classifier reads.
type turnInput struct {
	message     string
	history     []mealplan.ChatTurn
	currentPlan map[mealplan.Weekday][]string
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func isPossibilityQuestion(msg string) bool {
	return containsAny(msg, possibilityMarkers)
}

func extractWeekday(msg string) *mealplan.Weekday {
	for _, kw := range weekdayKeywordsFr {
		if strings.Contains(msg, kw.keyword) {
			d := kw.day
			return &d
		}
	}
	for _, kw := range weekdayKeywordsEn {
		if strings.Contains(msg, kw.keyword) {
			d := kw.day
			return &d
		}
	}
	return nil
}

func extractMealType(msg string) *mealplan.MealType {
	for _, kw := range mealTypeKeywordsFr {
		if strings.Contains(msg, kw.keyword) {
			m := kw.meal
			return &m
		}
	}
	for _, kw := range mealTypeKeywordsEn {
		if strings.Contains(msg, kw.keyword) {
			m := kw.meal
			return &m
		}
	}
	return nil
}

// lastAssistantAsksConfirmation scans backward for the most recent
// assistant turn and reports whether it contains a confirmation-asking
// phrase (spec.md §4.10 rule 2).
func lastAssistantAsksConfirmation(history []mealplan.ChatTurn) bool {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].IsFromUser {
			continue
		}
		content := strings.ToLower(history[i].Content)
		return containsAny(content, confirmationAskingPhrases)
	}
	return false
}

// lastAssistantAsksConfirmationAndModifies additionally requires a
// modification keyword in that same assistant turn (spec.md §4.10 state
// machine: Proposed->Applied).
func lastAssistantAsksConfirmationAndModifies(history []mealplan.ChatTurn) bool {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].IsFromUser {
			continue
		}
		content := strings.ToLower(history[i].Content)
		return containsAny(content, confirmationAskingPhrases) && containsAny(content, modifyVerbs)
	}
	return false
}

func lastFiveContainAny(history []mealplan.ChatTurn, needles []string) bool {
	tail := history
	if len(tail) > 5 {
		tail = tail[len(tail)-5:]
	}
	for _, t := range tail {
		if containsAny(strings.ToLower(t.Content), needles) {
			return true
		}
	}
	return false
}
