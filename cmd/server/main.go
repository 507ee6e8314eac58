// Package main is the entry point for the meal-prep orchestration API
// server: manual dependency wiring from config through to the Gin HTTP
// server, with graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/alchemorsel/mealprep/internal/application/chat"
	"github.com/alchemorsel/mealprep/internal/application/mealprep"
	"github.com/alchemorsel/mealprep/internal/infrastructure/config"
	"github.com/alchemorsel/mealprep/internal/infrastructure/dealsource"
	"github.com/alchemorsel/mealprep/internal/infrastructure/events"
	mealprephttp "github.com/alchemorsel/mealprep/internal/infrastructure/http"
	"github.com/alchemorsel/mealprep/internal/infrastructure/idgen"
	"github.com/alchemorsel/mealprep/internal/infrastructure/llm/ollama"
	"github.com/alchemorsel/mealprep/internal/infrastructure/llm/openai"
	"github.com/alchemorsel/mealprep/internal/infrastructure/persistence/memory"
	redispersistence "github.com/alchemorsel/mealprep/internal/infrastructure/persistence/redis"
	"github.com/alchemorsel/mealprep/internal/ports/outbound"
	applogger "github.com/alchemorsel/mealprep/pkg/logger"
	"github.com/alchemorsel/mealprep/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := applogger.New(applogger.Config{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	fmt.Println(banner)
	logger.Info("starting mealprep orchestration service",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	reg := metrics.New(prometheus.NewRegistry())

	cache := buildCache(cfg, logger)
	llmService := buildLLMService(cfg, logger)
	dispatcher := events.NewLoggingDispatcher(logger)
	planRepo := memory.NewPlanRepository()
	favoritesRepo := memory.NewFavoritesRepository()

	llmAdapter := mealprep.NewLLMAdapter(llmService, logger, reg)
	phaseSynthesizer := mealprep.NewPhaseSynthesizer(llmService, logger, reg)
	conceptGenerator := mealprep.NewConceptGenerator(llmService, idgen.Generator{}, logger, reg)
	dealSource := dealsource.NewHTTPDealSource(cfg.DealSource.Timeout, cfg.DealSource.CacheTTL, cache, logger)

	planOrchestrator := mealprep.NewOrchestrator(
		llmAdapter,
		phaseSynthesizer,
		conceptGenerator,
		dealSource,
		planRepo,
		outbound.SystemClock{},
		idgen.Generator{},
		logger,
		reg,
		dispatcher,
	)

	chatOrchestrator := chat.NewOrchestrator(planOrchestrator, llmService, favoritesRepo, logger, dispatcher)

	engine := mealprephttp.NewRouter(cfg, planOrchestrator, chatOrchestrator, reg, logger)
	server := mealprephttp.NewServer(cfg, engine, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("http server failed", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("failed to shut down gracefully", zap.Error(err))
	}

	logger.Info("shutdown complete")
}

func buildCache(cfg *config.Config, logger *zap.Logger) outbound.CacheRepository {
	if !cfg.Redis.Enabled {
		return memory.NewCacheRepository()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Database,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable at startup, falling back to in-memory cache", zap.Error(err))
		return memory.NewCacheRepository()
	}

	return redispersistence.NewCacheRepository(client, logger)
}

func buildLLMService(cfg *config.Config, logger *zap.Logger) outbound.LLMService {
	switch cfg.LLM.Provider {
	case "openai":
		return openai.NewClient(cfg.LLM.OpenAIKey, cfg.LLM.OpenAIBaseURL, cfg.LLM.OpenAIModel, logger)
	default:
		return ollama.NewClient(cfg.LLM.OllamaHost, cfg.LLM.OllamaModel, cfg.LLM.RequestTimeout, logger)
	}
}

const banner = `
 __  __            _ ____
|  \/  | ___  __ _| |  _ \ _ __ ___ _ __
| |\/| |/ _ \/ _` + "`" + ` | | |_) | '__/ _ \ '_ \
| |  | |  __/ (_| | |  __/| | |  __/ |_) |
|_|  |_|\___|\__,_|_|_|   |_|  \___| .__/
                                    |_|
        meal-prep orchestration service
`
