package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alchemorsel/mealprep/internal/ports/inbound"
	apperrors "github.com/alchemorsel/mealprep/pkg/errors"
)

// Handlers wires the PlanOrchestrator and ChatOrchestrator use cases to
// Gin request handlers. Each handler binds a wire DTO, maps it to the
// corresponding inbound request, invokes the use case, and maps the
// result back to its wire response.
type Handlers struct {
	plan   inbound.PlanOrchestrator
	chat   inbound.ChatOrchestrator
	logger *zap.Logger
}

func NewHandlers(plan inbound.PlanOrchestrator, chat inbound.ChatOrchestrator, logger *zap.Logger) *Handlers {
	return &Handlers{plan: plan, chat: chat, logger: logger.Named("http-handlers")}
}

func bind[T any](c *gin.Context) (T, bool) {
	var wire T
	if err := c.ShouldBindJSON(&wire); err != nil {
		_ = c.Error(apperrors.NewBadRequestError(err.Error()))
		c.Abort()
		var zero T
		return zero, false
	}
	return wire, true
}

func fail(c *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		_ = c.Error(appErr)
	} else {
		_ = c.Error(apperrors.Wrap(err, "request failed"))
	}
	c.Abort()
}

// GeneratePlan handles POST /plan.
func (h *Handlers) GeneratePlan(c *gin.Context) {
	wire, ok := bind[planRequestWire](c)
	if !ok {
		return
	}
	resp, err := h.plan.GeneratePlan(c.Request.Context(), wire.toDomain())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, planResponseToWire(resp))
}

// RegenerateMeal handles POST /regenerate-meal.
func (h *Handlers) RegenerateMeal(c *gin.Context) {
	wire, ok := bind[regenerateMealRequestWire](c)
	if !ok {
		return
	}
	recipe, err := h.plan.RegenerateMeal(c.Request.Context(), wire.toDomain())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipeToWire(recipe))
}

// RecipeFromIdea handles POST /recipe.
func (h *Handlers) RecipeFromIdea(c *gin.Context) {
	wire, ok := bind[recipeFromIdeaRequestWire](c)
	if !ok {
		return
	}
	recipe, err := h.plan.GenerateRecipeFromIdea(c.Request.Context(), wire.toDomain())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipeToWire(recipe))
}

// RecipeFromTitle handles POST /recipe-from-title.
func (h *Handlers) RecipeFromTitle(c *gin.Context) {
	wire, ok := bind[recipeFromTitleRequestWire](c)
	if !ok {
		return
	}
	recipe, err := h.plan.GenerateRecipeFromTitle(c.Request.Context(), wire.toDomain())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipeToWire(recipe))
}

// RecipeFromImage handles POST /recipe-from-image.
func (h *Handlers) RecipeFromImage(c *gin.Context) {
	wire, ok := bind[recipeFromImageRequestWire](c)
	if !ok {
		return
	}
	recipe, err := h.plan.GenerateRecipeFromImage(c.Request.Context(), wire.toDomain())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipeToWire(recipe))
}

// MealPrepConcepts handles POST /meal-prep-concepts.
func (h *Handlers) MealPrepConcepts(c *gin.Context) {
	wire, ok := bind[mealPrepConceptsRequestWire](c)
	if !ok {
		return
	}
	resp, err := h.plan.GenerateMealPrepConcepts(c.Request.Context(), wire.toDomain())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, conceptsResponseToWire(resp))
}

// MealPrepKit handles POST /meal-prep-kit.
func (h *Handlers) MealPrepKit(c *gin.Context) {
	wire, ok := bind[mealPrepKitRequestWire](c)
	if !ok {
		return
	}
	resp, err := h.plan.GenerateMealPrepKit(c.Request.Context(), wire.toDomain())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, kitResponseToWire(resp))
}

// Chat handles POST /chat.
func (h *Handlers) Chat(c *gin.Context) {
	wire, ok := bind[chatRequestWire](c)
	if !ok {
		return
	}
	resp, err := h.chat.HandleTurn(c.Request.Context(), wire.toDomain())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, chatResponseToWire(resp))
}

// Health handles the liveness probe.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles the readiness probe.
func (h *Handlers) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
