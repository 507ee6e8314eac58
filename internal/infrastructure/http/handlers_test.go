package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alchemorsel/mealprep/internal/domain/mealplan"
	"github.com/alchemorsel/mealprep/internal/ports/inbound"
	apperrors "github.com/alchemorsel/mealprep/pkg/errors"
)

type fakePlanOrchestrator struct {
	planResp inbound.PlanResponse
	recipe   mealplan.Recipe
	err      error
}

func (f *fakePlanOrchestrator) GeneratePlan(ctx context.Context, req inbound.PlanRequest) (inbound.PlanResponse, error) {
	return f.planResp, f.err
}
func (f *fakePlanOrchestrator) RegenerateMeal(ctx context.Context, req inbound.RegenerateMealRequest) (mealplan.Recipe, error) {
	return f.recipe, f.err
}
func (f *fakePlanOrchestrator) GenerateRecipeFromIdea(ctx context.Context, req inbound.RecipeFromIdeaRequest) (mealplan.Recipe, error) {
	return f.recipe, f.err
}
func (f *fakePlanOrchestrator) GenerateRecipeFromTitle(ctx context.Context, req inbound.RecipeFromTitleRequest) (mealplan.Recipe, error) {
	return f.recipe, f.err
}
func (f *fakePlanOrchestrator) GenerateRecipeFromImage(ctx context.Context, req inbound.RecipeFromImageRequest) (mealplan.Recipe, error) {
	return f.recipe, f.err
}
func (f *fakePlanOrchestrator) GenerateMealPrepConcepts(ctx context.Context, req inbound.MealPrepConceptsRequest) (inbound.MealPrepConceptsResponse, error) {
	return inbound.MealPrepConceptsResponse{}, f.err
}
func (f *fakePlanOrchestrator) GenerateMealPrepKit(ctx context.Context, req inbound.MealPrepKitRequest) (inbound.MealPrepKitResponse, error) {
	return inbound.MealPrepKitResponse{}, f.err
}

type fakeChatOrchestrator struct {
	resp inbound.ChatResponse
	err  error
}

func (f *fakeChatOrchestrator) HandleTurn(ctx context.Context, req inbound.ChatRequest) (inbound.ChatResponse, error) {
	return f.resp, f.err
}

func newTestEngine(plan inbound.PlanOrchestrator, chatOrch inbound.ChatOrchestrator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandlers(plan, chatOrch, zap.NewNop())
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		appErr, ok := err.(*apperrors.AppError)
		if !ok {
			appErr = apperrors.NewInternalError(err.Error())
		}
		c.JSON(appErr.StatusCode(), gin.H{"error": appErr.Message})
	})
	engine.POST("/plan", h.GeneratePlan)
	engine.POST("/recipe", h.RecipeFromIdea)
	engine.POST("/chat", h.Chat)
	return engine
}

func doRequest(engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestGeneratePlan_Success(t *testing.T) {
	fake := &fakePlanOrchestrator{planResp: inbound.PlanResponse{Items: []mealplan.PlanItem{
		{Slot: mealplan.Slot{Weekday: mealplan.Monday, MealType: mealplan.Dinner}, Recipe: mealplan.Recipe{Title: "Soup", Servings: 4, TotalMinutes: 30, Steps: []string{"a", "b", "c", "d", "e"}}},
	}}}
	engine := newTestEngine(fake, &fakeChatOrchestrator{})

	rec := doRequest(engine, http.MethodPost, "/plan", map[string]interface{}{
		"slots": []map[string]string{{"weekday": "Mon", "meal_type": "DINNER"}},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp planResponseWire
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Soup", resp.Items[0].Recipe.Title)
}

func TestGeneratePlan_MissingSlots_BadRequest(t *testing.T) {
	engine := newTestEngine(&fakePlanOrchestrator{}, &fakeChatOrchestrator{})

	rec := doRequest(engine, http.MethodPost, "/plan", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_PremiumRequired(t *testing.T) {
	fake := &fakeChatOrchestrator{err: apperrors.NewPremiumRequiredError()}
	engine := newTestEngine(&fakePlanOrchestrator{}, fake)

	rec := doRequest(engine, http.MethodPost, "/chat", map[string]interface{}{
		"message":      "add a meal",
		"user_context": map[string]interface{}{"has_premium": false},
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestChat_Success(t *testing.T) {
	fake := &fakeChatOrchestrator{resp: inbound.ChatResponse{Reply: "Here you go", DetectedMode: inbound.ModeRecipeQA}}
	engine := newTestEngine(&fakePlanOrchestrator{}, fake)

	rec := doRequest(engine, http.MethodPost, "/chat", map[string]interface{}{
		"message":      "what should I eat",
		"user_context": map[string]interface{}{"has_premium": true},
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp chatResponseWire
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Here you go", resp.Reply)
}

func TestRecipeFromIdea_UpstreamError(t *testing.T) {
	fake := &fakePlanOrchestrator{err: apperrors.NewExternalServiceError("llm", assertErr{})}
	engine := newTestEngine(fake, &fakeChatOrchestrator{})

	rec := doRequest(engine, http.MethodPost, "/recipe", map[string]interface{}{"idea": "pasta"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
