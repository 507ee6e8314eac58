package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alchemorsel/mealprep/internal/infrastructure/config"
	"github.com/alchemorsel/mealprep/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/mealprep/internal/ports/inbound"
	"github.com/alchemorsel/mealprep/pkg/metrics"
	"go.uber.org/zap"
)

// NewRouter assembles the Gin engine: middleware chain, health/readiness
// probes, the Prometheus scrape endpoint, and the eight orchestration
// routes.
func NewRouter(cfg *config.Config, plan inbound.PlanOrchestrator, chat inbound.ChatOrchestrator, reg *metrics.Registry, logger *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	mw := middleware.New(cfg, logger, reg)
	engine.Use(mw.RequestID(), mw.Recovery(), mw.Logger(), mw.CORS(), mw.Security(), mw.RateLimit(), mw.Timeout(cfg.Server.ReadTimeout), mw.ErrorHandler())

	if len(cfg.Server.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.Server.TrustedProxies)
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	h := NewHandlers(plan, chat, logger)

	engine.GET(cfg.Monitoring.HealthCheckPath, h.Health)
	engine.GET(cfg.Monitoring.ReadinessPath, h.Ready)
	if cfg.Monitoring.EnableMetrics {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg.Gatherer(), promhttp.HandlerOpts{})))
	}

	v1 := engine.Group("/")
	{
		v1.POST("/plan", h.GeneratePlan)
		v1.POST("/regenerate-meal", h.RegenerateMeal)
		v1.POST("/recipe", h.RecipeFromIdea)
		v1.POST("/recipe-from-title", h.RecipeFromTitle)
		v1.POST("/recipe-from-image", h.RecipeFromImage)
		v1.POST("/meal-prep-concepts", h.MealPrepConcepts)
		v1.POST("/meal-prep-kit", h.MealPrepKit)
		v1.POST("/chat", h.Chat)
	}

	return engine
}
