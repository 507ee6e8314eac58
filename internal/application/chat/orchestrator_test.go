package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
	"github.com/alchemorsel/mealprep/internal/ports/inbound"
	apperrors "github.com/alchemorsel/mealprep/pkg/errors"
)

// fakePlanOrchestrator is a hand-rolled inbound.PlanOrchestrator test
// double, matching the teacher's struct-literal fixture style.
type fakePlanOrchestrator struct {
	recipe    mealplan.Recipe
	err       error
	ideaCalls int
}

func (f *fakePlanOrchestrator) GeneratePlan(ctx context.Context, req inbound.PlanRequest) (inbound.PlanResponse, error) {
	return inbound.PlanResponse{}, nil
}
func (f *fakePlanOrchestrator) RegenerateMeal(ctx context.Context, req inbound.RegenerateMealRequest) (mealplan.Recipe, error) {
	return mealplan.Recipe{}, nil
}
func (f *fakePlanOrchestrator) GenerateRecipeFromIdea(ctx context.Context, req inbound.RecipeFromIdeaRequest) (mealplan.Recipe, error) {
	f.ideaCalls++
	if f.err != nil {
		return mealplan.Recipe{}, f.err
	}
	return f.recipe, nil
}
func (f *fakePlanOrchestrator) GenerateRecipeFromTitle(ctx context.Context, req inbound.RecipeFromTitleRequest) (mealplan.Recipe, error) {
	return mealplan.Recipe{}, nil
}
func (f *fakePlanOrchestrator) GenerateRecipeFromImage(ctx context.Context, req inbound.RecipeFromImageRequest) (mealplan.Recipe, error) {
	return mealplan.Recipe{}, nil
}
func (f *fakePlanOrchestrator) GenerateMealPrepConcepts(ctx context.Context, req inbound.MealPrepConceptsRequest) (inbound.MealPrepConceptsResponse, error) {
	return inbound.MealPrepConceptsResponse{}, nil
}
func (f *fakePlanOrchestrator) GenerateMealPrepKit(ctx context.Context, req inbound.MealPrepKitRequest) (inbound.MealPrepKitResponse, error) {
	return inbound.MealPrepKitResponse{}, nil
}

var _ inbound.PlanOrchestrator = (*fakePlanOrchestrator)(nil)

// fakeLLMService is a hand-rolled outbound.LLMService test double for the
// chat orchestrator's Q&A and modify-recipe paths.
type fakeLLMService struct {
	reply string
	err   error
}

func (f *fakeLLMService) ChatCompletion(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}
func (f *fakeLLMService) ChatCompletionWithImage(ctx context.Context, system, user, imageBase64 string, temperature float64, maxTokens int) (string, error) {
	return f.ChatCompletion(ctx, system, user, temperature, maxTokens)
}
func (f *fakeLLMService) HealthCheck(ctx context.Context) error { return nil }

func baseUserContext(hasPremium bool) mealplan.UserContext {
	return mealplan.UserContext{HasPremium: hasPremium}
}

func TestHandleTurn_PremiumGate_RejectsWithoutPremium(t *testing.T) {
	o := NewOrchestrator(&fakePlanOrchestrator{}, &fakeLLMService{}, nil, zap.NewNop(), nil)

	_, err := o.HandleTurn(context.Background(), inbound.ChatRequest{
		Message:     "hello",
		UserContext: baseUserContext(false),
	})

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.StatusCode())
}

func TestHandleTurn_PlanDisplay_HasLeadingMarkerAndNoLLMCall(t *testing.T) {
	llm := &fakeLLMService{err: errors.New("must not be called")}
	o := NewOrchestrator(&fakePlanOrchestrator{}, llm, nil, zap.NewNop(), nil)

	resp, err := o.HandleTurn(context.Background(), inbound.ChatRequest{
		Message: "Montre-moi mon plan de la semaine",
		UserContext: mealplan.UserContext{
			HasPremium:  true,
			CurrentPlan: map[mealplan.Weekday][]string{mealplan.Monday: {"Tacos"}},
		},
		Language: "fr",
	})

	require.NoError(t, err)
	assert.Contains(t, resp.Reply, "📅 PLAN ACTUEL")
}

func TestHandleTurn_AddMeal_HappyPath(t *testing.T) {
	plan := &fakePlanOrchestrator{recipe: mealplan.Recipe{Title: "Chicken Tacos"}}
	o := NewOrchestrator(plan, &fakeLLMService{}, nil, zap.NewNop(), nil)

	resp, err := o.HandleTurn(context.Background(), inbound.ChatRequest{
		Message:     "Ajoute des tacos au poulet jeudi soir",
		UserContext: baseUserContext(true),
		Language:    "fr",
	})

	require.NoError(t, err)
	assert.Contains(t, resp.Reply, "📋 **Chicken Tacos**")
	require.NotNil(t, resp.ModificationType)
	assert.Equal(t, mealplan.ModificationPendingAddMeal, *resp.ModificationType)
	require.NotNil(t, resp.ModifiedRecipe)
	assert.Equal(t, "Chicken Tacos", resp.ModifiedRecipe.Title)
	assert.Equal(t, map[string]string{"weekday": "Thu", "meal_type": "DINNER"}, resp.ModificationMetadata)
	assert.Equal(t, 1, plan.ideaCalls)
}

func TestHandleTurn_AddMeal_MissingDay_NeverCallsGenerator(t *testing.T) {
	plan := &fakePlanOrchestrator{recipe: mealplan.Recipe{Title: "Should not appear"}}
	o := NewOrchestrator(plan, &fakeLLMService{}, nil, zap.NewNop(), nil)

	resp, err := o.HandleTurn(context.Background(), inbound.ChatRequest{
		Message:     "Ajoute un souper végétarien",
		UserContext: baseUserContext(true),
		Language:    "fr",
	})

	require.NoError(t, err)
	assert.Nil(t, resp.ModifiedRecipe)
	assert.Nil(t, resp.PendingRecipeModification)
	assert.Equal(t, 0, plan.ideaCalls)
	assert.NotEmpty(t, resp.Reply)
}

func TestHandleTurn_RouterSafety_NonMutatingIntentNeverStagesAChange(t *testing.T) {
	o := NewOrchestrator(&fakePlanOrchestrator{}, &fakeLLMService{reply: "Roast at 200C."}, nil, zap.NewNop(), nil)

	resp, err := o.HandleTurn(context.Background(), inbound.ChatRequest{
		Message:     "What temperature should I roast this at?",
		UserContext: baseUserContext(true),
	})

	require.NoError(t, err)
	assert.Nil(t, resp.ModifiedRecipe)
	assert.Nil(t, resp.PendingRecipeModification)
}

func TestHandleTurn_ModifyRecipe_NotFound(t *testing.T) {
	o := NewOrchestrator(&fakePlanOrchestrator{}, &fakeLLMService{}, nil, zap.NewNop(), nil)

	resp, err := o.HandleTurn(context.Background(), inbound.ChatRequest{
		Message:     "Replace the chicken in the Lasagna with tofu",
		UserContext: baseUserContext(true),
	})

	require.NoError(t, err)
	assert.Nil(t, resp.PendingRecipeModification)
	assert.NotEmpty(t, resp.Reply)
}

// fakeFavoritesRepo is a hand-rolled outbound.FavoritesRepository test
// double.
type fakeFavoritesRepo struct {
	favorites map[string][]mealplan.Recipe
}

func (f *fakeFavoritesRepo) ListFavorites(ctx context.Context, userID string) ([]mealplan.Recipe, error) {
	return f.favorites[userID], nil
}

func (f *fakeFavoritesRepo) ListRecent(ctx context.Context, userID string, limit int) ([]mealplan.Recipe, error) {
	return nil, nil
}

func TestHandleTurn_ModifyRecipe_FallsBackToFavoritesRepository(t *testing.T) {
	favorites := &fakeFavoritesRepo{favorites: map[string][]mealplan.Recipe{
		"user-1": {{Title: "Grandma's Lasagna"}},
	}}
	plan := &fakePlanOrchestrator{}
	llm := &fakeLLMService{reply: `{"title":"Grandma's Lasagna","servings":4,"total_minutes":45,"ingredients":[{"name":"tofu","quantity":1,"unit":"unit","category":"protein"}],"steps":["a","b","c","d","e"],"equipment":[],"tags":[]}`}
	o := NewOrchestrator(plan, llm, favorites, zap.NewNop(), nil)

	userCtx := baseUserContext(true)
	userCtx.UserID = "user-1"

	resp, err := o.HandleTurn(context.Background(), inbound.ChatRequest{
		Message:     "Replace the chicken in Grandma's Lasagna with tofu",
		UserContext: userCtx,
	})

	require.NoError(t, err)
	require.NotNil(t, resp.PendingRecipeModification)
	assert.Equal(t, "Grandma's Lasagna", resp.PendingRecipeModification.Title)
}

func TestHandleTurn_ModifyRecipe_NeverConsultsFavoritesRepositoryWithoutUserID(t *testing.T) {
	favorites := &fakeFavoritesRepo{favorites: map[string][]mealplan.Recipe{
		"user-1": {{Title: "Grandma's Lasagna"}},
	}}
	o := NewOrchestrator(&fakePlanOrchestrator{}, &fakeLLMService{}, favorites, zap.NewNop(), nil)

	resp, err := o.HandleTurn(context.Background(), inbound.ChatRequest{
		Message:     "Replace the chicken in Grandma's Lasagna with tofu",
		UserContext: baseUserContext(true),
	})

	require.NoError(t, err)
	assert.Nil(t, resp.PendingRecipeModification)
}
