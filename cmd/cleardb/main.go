package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

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
	logg := logger.New(logger.Options{ServiceName: "cleardb"})

	_ = godotenv.Load()

	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cleardb",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if !*yes {
		fmt.Print("This deletes every build and catalog component. Continue? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Println("aborted")
			return
		}
	}

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

	if err := imp.Clear(ctx); err != nil {
		logg.Error(ctx, "clear failed", err)
		os.Exit(1)
	}

	logg.Info(ctx, "database cleared")
}
