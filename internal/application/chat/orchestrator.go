package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
	"github.com/alchemorsel/mealprep/internal/domain/shared"
	"github.com/alchemorsel/mealprep/internal/ports/inbound"
	"github.com/alchemorsel/mealprep/internal/ports/outbound"
	apperrors "github.com/alchemorsel/mealprep/pkg/errors"
)

// Orchestrator implements inbound.ChatOrchestrator: it classifies the
// current turn (via classify), drives the propose->confirm state machine
// for mutating intents, and composes the LLM context for non-mutating
// turns (spec.md §4.10, §4.11, §2 "Chat Orchestrator").
type Orchestrator struct {
	planOrchestrator inbound.PlanOrchestrator
	llm              outbound.LLMService
	favorites        outbound.FavoritesRepository
	logger           *zap.Logger
	events           shared.EventDispatcher
}

// NewOrchestrator builds an Orchestrator. favorites may be nil, in which
// case handleModifyRecipe only searches the client-supplied UserContext
// lists. dispatcher may be nil, in which case modification-proposed
// events are not raised.
func NewOrchestrator(planOrchestrator inbound.PlanOrchestrator, llm outbound.LLMService, favorites outbound.FavoritesRepository, logger *zap.Logger, dispatcher shared.EventDispatcher) *Orchestrator {
	return &Orchestrator{planOrchestrator: planOrchestrator, llm: llm, favorites: favorites, logger: logger.Named("chat-orchestrator"), events: dispatcher}
}

func (o *Orchestrator) raise(event shared.DomainEvent) {
	if o.events == nil {
		return
	}
	_ = o.events.Dispatch(event)
}

var _ inbound.ChatOrchestrator = (*Orchestrator)(nil)

// HandleTurn dispatches to the handler for the classified intent. It
// never mutates server-side state (spec.md §4.10): pending_* payloads are
// returned to the client, which owns persisting them.
func (o *Orchestrator) HandleTurn(ctx context.Context, req inbound.ChatRequest) (inbound.ChatResponse, error) {
	if !req.UserContext.HasPremium {
		return inbound.ChatResponse{}, apperrors.NewPremiumRequiredError()
	}

	in := turnInput{
		message:     req.Message,
		history:     bounded(req.ConversationHistory, 10),
		currentPlan: req.UserContext.CurrentPlan,
	}
	c := classify(in)

	switch c.intent {
	case intentPlanDisplay:
		return o.handlePlanDisplay(req), nil
	case intentConfirmation:
		return o.handleConfirmation(req), nil
	case intentAddMeal:
		return o.handleAddMeal(ctx, req, *c.weekday, *c.mealType)
	case intentAddMealMissing:
		return o.handleAddMealMissing(req, c), nil
	case intentModifyRecipe:
		return o.handleModifyRecipe(ctx, req)
	case intentModifyQuestion:
		return o.handleQA(ctx, req, inbound.ModeRecipeQA)
	case intentNutritionCoach:
		return o.handleQA(ctx, req, inbound.ModeNutritionCoach)
	default:
		return o.handleQA(ctx, req, inbound.ModeRecipeQA)
	}
}

func bounded(history []mealplan.ChatTurn, n int) []mealplan.ChatTurn {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

// handlePlanDisplay formats the client's current plan with the literal
// leading marker the client parses (spec.md §4.10 rule 1, §6 "Plan-display
// marker"). No LLM call.
func (o *Orchestrator) handlePlanDisplay(req inbound.ChatRequest) inbound.ChatResponse {
	marker := "📅 CURRENT PLAN"
	if req.Language == "fr" {
		marker = "📅 PLAN ACTUEL"
	}

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\n")
	for _, day := range mealplan.Weekdays {
		meals, ok := req.UserContext.CurrentPlan[day]
		if !ok || len(meals) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", day, strings.Join(meals, ", "))
	}

	return inbound.ChatResponse{
		Reply:        b.String(),
		DetectedMode: inbound.ModeRecipeQA,
	}
}

// handleConfirmation resolves a pending modification if the scanned tail
// shows the assistant both asked for confirmation and named the change
// (spec.md §4.10 state machine: Proposed->Applied). The router itself
// holds no pending state — the client supplies it via conversation
// history alone, so this only emits metadata the client can act on.
func (o *Orchestrator) handleConfirmation(req inbound.ChatRequest) inbound.ChatResponse {
	applied := lastAssistantAsksConfirmationAndModifies(bounded(req.ConversationHistory, 10))

	reply := "Got it — I won't make any changes."
	if req.Language == "fr" {
		reply = "Compris — je n'apporte aucune modification."
	}
	if applied {
		reply = "Done — that change has been applied."
		if req.Language == "fr" {
			reply = "C'est fait — ce changement a été appliqué."
		}
	}

	return inbound.ChatResponse{
		Reply:                reply,
		DetectedMode:         inbound.ModeRecipeQA,
		RequiresConfirmation: false,
	}
}

// handleAddMeal implements spec.md §4.10 rule 3: strips add-verbs and
// date tokens from the user's free text, re-uses the recipe-generation
// path seeded by the remaining description, and stages the result as
// pending_add_meal metadata for the client.
func (o *Orchestrator) handleAddMeal(ctx context.Context, req inbound.ChatRequest, weekday mealplan.Weekday, mealType mealplan.MealType) (inbound.ChatResponse, error) {
	idea := stripAddMealTokens(req.Message)

	recipe, err := o.planOrchestrator.GenerateRecipeFromIdea(ctx, inbound.RecipeFromIdeaRequest{
		Idea:        idea,
		Servings:    4,
		Units:       mealplan.Metric,
		Preferences: req.UserContext.Preferences,
		Language:    req.Language,
	})
	if err != nil {
		return inbound.ChatResponse{}, err
	}

	reply := fmt.Sprintf("📋 **%s**\n\nI've drafted this for %s %s — want me to add it?", recipe.Title, weekday, mealType)
	if req.Language == "fr" {
		reply = fmt.Sprintf("📋 **%s**\n\nJ'ai préparé ceci pour %s %s — voulez-vous que je l'ajoute ?", recipe.Title, weekday, mealType)
	}

	modType := mealplan.ModificationPendingAddMeal
	o.raise(mealplan.ModificationProposedEvent{ModificationType: modType, OccurredAtTime: time.Now()})
	return inbound.ChatResponse{
		Reply:                     reply,
		DetectedMode:              inbound.ModeRecipeQA,
		RequiresConfirmation:      true,
		ModifiedRecipe:            &recipe,
		ModificationType:          &modType,
		ModificationMetadata: map[string]string{
			"weekday":   string(weekday),
			"meal_type": string(mealType),
		},
	}, nil
}

// handleAddMealMissing implements spec.md §4.10 rule 4: ask for whichever
// of weekday/meal-type is still missing. Never an error (spec.md §7
// AmbiguousIntent), and no generation call is made.
func (o *Orchestrator) handleAddMealMissing(req inbound.ChatRequest, c classification) inbound.ChatResponse {
	var reply string
	switch {
	case c.weekday == nil && c.mealType == nil:
		reply = "Which day and which meal should I add that to?"
		if req.Language == "fr" {
			reply = "Quel jour et quel repas dois-je ajouter ?"
		}
	case c.weekday == nil:
		reply = "Which day would you like that on?"
		if req.Language == "fr" {
			reply = "Quel jour souhaitez-vous ?"
		}
	default:
		reply = "Is that breakfast, lunch, or dinner?"
		if req.Language == "fr" {
			reply = "S'agit-il du déjeuner, du dîner ou du souper ?"
		}
	}

	return inbound.ChatResponse{
		Reply:        reply,
		DetectedMode: inbound.ModeRecipeQA,
	}
}

// handleModifyRecipe implements spec.md §4.10 rule 5: locate the target
// recipe (current_plan, then recent_recipes, then favorites), issue a
// single LLM call to emit the modified recipe, and stage it as
// pending_recipe_modification — never applied directly.
func (o *Orchestrator) handleModifyRecipe(ctx context.Context, req inbound.ChatRequest) (inbound.ChatResponse, error) {
	target, found := o.locateTargetRecipe(ctx, req.Message, req.UserContext)
	if !found {
		reply := "I couldn't find that recipe in your plan, recent recipes, or favorites — which one did you mean?"
		if req.Language == "fr" {
			reply = "Je n'ai pas trouvé cette recette dans votre plan, vos recettes récentes ou vos favoris — laquelle voulez-vous dire ?"
		}
		return inbound.ChatResponse{Reply: reply, DetectedMode: inbound.ModeRecipeQA}, nil
	}

	modified, err := o.generateModification(ctx, target, req.Message, req.Language)
	if err != nil {
		return inbound.ChatResponse{}, err
	}

	reply := fmt.Sprintf("📋 **%s**\n\nHere's the modified recipe — do you want me to confirm this change?", modified.Title)
	if req.Language == "fr" {
		reply = fmt.Sprintf("📋 **%s**\n\nVoici la recette modifiée — voulez-vous confirmer ce changement ?", modified.Title)
	}

	modType := mealplan.ModificationReplaceIngredient
	o.raise(mealplan.ModificationProposedEvent{ModificationType: modType, OccurredAtTime: time.Now()})
	return inbound.ChatResponse{
		Reply:                     reply,
		DetectedMode:              inbound.ModeRecipeQA,
		RequiresConfirmation:      true,
		PendingRecipeModification: &modified,
		ModificationType:          &modType,
	}, nil
}

// handleQA implements spec.md §4.10 rule 6: routes to the LLM with a
// mode-specific system prompt, using the bounded transcript tail plus
// current-plan/favorites context.
func (o *Orchestrator) handleQA(ctx context.Context, req inbound.ChatRequest, mode inbound.DetectedMode) (inbound.ChatResponse, error) {
	system := recipeQASystemPrompt(req.Language)
	if mode == inbound.ModeNutritionCoach {
		system = nutritionCoachSystemPrompt(req.Language)
	}

	user := buildChatContextPrompt(req)
	reply, err := o.llm.ChatCompletion(ctx, system, user, 0.6, 600)
	if err != nil {
		reply = fallbackChatReply(req.Language)
	}

	return inbound.ChatResponse{
		Reply:        reply,
		DetectedMode: mode,
	}, nil
}

func recipeQASystemPrompt(lang string) string {
	if lang == "fr" {
		return "Vous êtes un assistant culinaire. Répondez de façon concise aux questions sur les recettes et la cuisine."
	}
	return "You are a culinary assistant. Answer recipe and cooking questions concisely."
}

func nutritionCoachSystemPrompt(lang string) string {
	if lang == "fr" {
		return "Vous êtes un coach en nutrition. Donnez des conseils généraux, non médicaux, sur l'alimentation."
	}
	return "You are a nutrition coach. Give general, non-medical dietary guidance."
}

func fallbackChatReply(lang string) string {
	if lang == "fr" {
		return "Désolé, je n'ai pas pu générer de réponse pour le moment."
	}
	return "Sorry, I wasn't able to generate a reply right now."
}

func buildChatContextPrompt(req inbound.ChatRequest) string {
	var b strings.Builder
	for _, t := range bounded(req.ConversationHistory, 10) {
		speaker := "Assistant"
		if t.IsFromUser {
			speaker = "User"
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, t.Content)
	}
	fmt.Fprintf(&b, "User: %s\n", req.Message)
	return b.String()
}

var addMealStopTokens = []string{
	"ajoute", "ajouter", "rajoute", "crée", "créer", "add", "create", "put", "schedule",
	"lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi", "dimanche",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"déjeuner", "dîner", "souper", "midi", "soir", "breakfast", "lunch", "dinner",
}

// stripAddMealTokens removes add-verbs and weekday/meal-type tokens from
// the free text before it seeds the recipe generator (spec.md §4.10 rule
// 3: "with add-verbs and date tokens stripped").
func stripAddMealTokens(message string) string {
	words := strings.Fields(message)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		lw := strings.ToLower(strings.Trim(w, ".,!?"))
		skip := false
		for _, stop := range addMealStopTokens {
			if lw == stop {
				skip = true
				break
			}
		}
		if !skip {
			kept = append(kept, w)
		}
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}

// locateTargetRecipe searches current_plan, then recent_recipes, then
// favorites by title-substring or long-token match (spec.md §4.10 rule 5).
// When the client's own lists miss and a UserID and FavoritesRepository
// are both available, it falls back to the server-side favorites/recent
// lists as a supplement — the client-supplied lists are still tried
// first since they reflect the caller's current view.
func (o *Orchestrator) locateTargetRecipe(ctx context.Context, message string, userCtx mealplan.UserContext) (mealplan.Recipe, bool) {
	if r, ok := locateTargetRecipeFromContext(message, userCtx); ok {
		return r, true
	}

	if o.favorites == nil || userCtx.UserID == "" {
		return mealplan.Recipe{}, false
	}

	msg := strings.ToLower(message)

	if recent, err := o.favorites.ListRecent(ctx, userCtx.UserID, 10); err == nil {
		if r, ok := firstMatchingRecipe(msg, recent); ok {
			return r, true
		}
	}
	if favs, err := o.favorites.ListFavorites(ctx, userCtx.UserID); err == nil {
		if r, ok := firstMatchingRecipe(msg, favs); ok {
			return r, true
		}
	}
	return mealplan.Recipe{}, false
}

func locateTargetRecipeFromContext(message string, ctx mealplan.UserContext) (mealplan.Recipe, bool) {
	msg := strings.ToLower(message)

	for _, recipes := range ctx.CurrentPlan {
		for _, title := range recipes {
			if titleMatches(msg, title) {
				return mealplan.Recipe{Title: title}, true
			}
		}
	}
	if r, ok := firstMatchingRecipe(msg, ctx.RecentRecipes); ok {
		return r, true
	}
	if r, ok := firstMatchingRecipe(msg, ctx.Favorites); ok {
		return r, true
	}
	return mealplan.Recipe{}, false
}

func firstMatchingRecipe(msg string, recipes []mealplan.Recipe) (mealplan.Recipe, bool) {
	for _, r := range recipes {
		if titleMatches(msg, r.Title) {
			return r, true
		}
	}
	return mealplan.Recipe{}, false
}

func titleMatches(msg, title string) bool {
	lowerTitle := strings.ToLower(title)
	if lowerTitle == "" {
		return false
	}
	if strings.Contains(msg, lowerTitle) {
		return true
	}
	for _, word := range strings.Fields(lowerTitle) {
		if len(word) > 4 && strings.Contains(msg, word) {
			return true
		}
	}
	return false
}

// generateModification issues a single LLM call asking for the target
// recipe re-emitted with the user's requested change applied (spec.md
// §4.10 rule 5: "runs a single LLM call to emit the modified recipe").
func (o *Orchestrator) generateModification(ctx context.Context, target mealplan.Recipe, instruction, lang string) (mealplan.Recipe, error) {
	system := "You modify an existing recipe per the user's instruction and respond with ONLY a valid JSON object matching the schema."
	if lang == "fr" {
		system = "Vous modifiez une recette existante selon l'instruction de l'utilisateur et répondez UNIQUEMENT avec un objet JSON valide respectant le schéma."
	}
	user := fmt.Sprintf(
		"Original recipe title: %q. Instruction: %q. Respond with the full modified recipe in this shape: "+
			`{"title":"string","servings":4,"total_minutes":30,"ingredients":[{"name":"string","quantity":1.0,"unit":"string","category":"string"}],"steps":["string","string","string","string","string"],"equipment":["string"],"tags":["string"]}`,
		target.Title, instruction)

	raw, err := o.llm.ChatCompletion(ctx, system, user, 0.6, 1500)
	if err != nil {
		return mealplan.Recipe{}, err
	}

	text, ok := extractJSONObject(raw)
	if !ok {
		return mealplan.Recipe{}, fmt.Errorf("modification response did not contain a decodable JSON object")
	}
	var payload modifiedRecipeJSON
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return mealplan.Recipe{}, err
	}
	return payload.toRecipe(lang), nil
}

type modifiedIngredientJSON struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
}

type modifiedRecipeJSON struct {
	Title        string                   `json:"title"`
	Servings     int                      `json:"servings"`
	TotalMinutes int                      `json:"total_minutes"`
	Ingredients  []modifiedIngredientJSON `json:"ingredients"`
	Steps        []string                 `json:"steps"`
	Equipment    []string                 `json:"equipment"`
	Tags         []string                 `json:"tags"`
}

func (r modifiedRecipeJSON) toRecipe(lang string) mealplan.Recipe {
	ingredients := make([]mealplan.Ingredient, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ingredients = append(ingredients, mealplan.NewIngredient(ing.Name, ing.Quantity, ing.Unit, ing.Category, lang))
	}
	return mealplan.Recipe{
		Title:        r.Title,
		Servings:     r.Servings,
		TotalMinutes: r.TotalMinutes,
		Ingredients:  ingredients,
		Steps:        r.Steps,
		Equipment:    r.Equipment,
		Tags:         r.Tags,
	}
}

// extractJSONObject mirrors mealprep's fence-stripping recovery
// (duplicated rather than exported cross-package, since the chat
// orchestrator's modification call is a narrower one-shot contract than
// the full LLM Client Adapter retry policy).
func extractJSONObject(response string) (string, bool) {
	text := strings.TrimSpace(response)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
