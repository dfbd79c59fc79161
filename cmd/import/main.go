package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	buildsvc "github.com/buildforge/buildforge-backend/internal/builds"
	componentsvc "github.com/buildforge/buildforge-backend/internal/components"
	"github.com/buildforge/buildforge-backend/internal/importer"
	"github.com/buildforge/buildforge-backend/pkg/config"
	"github.com/buildforge/buildforge-backend/pkg/db"
	"github.com/buildforge/buildforge-backend/pkg/logger"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "import"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "import",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	imp, err := importer.New(
		cfg.Import,
		componentsvc.NewRepository(dbClient.DB()),
		buildsvc.NewRepository(dbClient.DB()),
		logg,
	)
	if err != nil {
		logg.Error(ctx, "failed to create importer", err)
		os.Exit(1)
	}

	summary, err := imp.Run(ctx)
	if err != nil {
		logg.Error(ctx, "import failed", err)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"imported": summary.Imported,
		"skipped":  summary.Skipped,
		"failed":   summary.Failed,
	})
	logg.Info(ctx, "import complete")
}
