package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/buildforge/buildforge-backend/api/routes"
	authsvc "github.com/buildforge/buildforge-backend/internal/auth"
	buildsvc "github.com/buildforge/buildforge-backend/internal/builds"
	componentsvc "github.com/buildforge/buildforge-backend/internal/components"
	recommendsvc "github.com/buildforge/buildforge-backend/internal/recommend"
	"github.com/buildforge/buildforge-backend/internal/users"
	"github.com/buildforge/buildforge-backend/pkg/config"
	"github.com/buildforge/buildforge-backend/pkg/db"
	"github.com/buildforge/buildforge-backend/pkg/llm"
	"github.com/buildforge/buildforge-backend/pkg/logger"
	"github.com/buildforge/buildforge-backend/pkg/metrics"
	"github.com/buildforge/buildforge-backend/pkg/migrate"
	"github.com/buildforge/buildforge-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	recommendMetrics := metrics.NewRecommendMetrics(registry)

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	componentRepo := componentsvc.NewRepository(dbClient.DB())
	componentService, err := componentsvc.NewService(componentRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create component service", err)
		os.Exit(1)
	}

	buildService, err := buildsvc.NewService(buildsvc.NewRepository(dbClient.DB()), dbClient, componentRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create build service", err)
		os.Exit(1)
	}

	llmClient := llm.NewClient(cfg.LLM)
	retry := llm.RetryConfig{
		MaxAttempts:       cfg.Recommend.AllocatorAttempts,
		BackoffBase:       cfg.Recommend.BackoffBase,
		BackoffMultiplier: 2.0,
		MaxBackoff:        10 * time.Second,
	}

	allocator, err := recommendsvc.NewAllocator(llmClient, cfg.Recommend.AllocatorAttempts, retry, logg, recommendMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create allocator", err)
		os.Exit(1)
	}
	retriever, err := recommendsvc.NewRetriever(componentRepo, cfg.Recommend.MinCandidates)
	if err != nil {
		logg.Error(context.Background(), "failed to create retriever", err)
		os.Exit(1)
	}
	composer, err := recommendsvc.NewComposer(llmClient, logg, recommendMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create composer", err)
		os.Exit(1)
	}
	conversations, err := recommendsvc.NewConversationStore(redisClient, cfg.Recommend.ConversationTTL, cfg.Recommend.HistoryLimit)
	if err != nil {
		logg.Error(context.Background(), "failed to create conversation store", err)
		os.Exit(1)
	}

	recommendService, err := recommendsvc.NewService(recommendsvc.ServiceParams{
		Allocator:     allocator,
		Retriever:     retriever,
		Composer:      composer,
		Builds:        buildService,
		Conversations: conversations,
		Config:        cfg.Recommend,
		Logger:        logg,
		Metrics:       recommendMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create recommendation service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			authService,
			componentService,
			buildService,
			recommendService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
