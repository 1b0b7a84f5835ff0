package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	pkgconfig "github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/config"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/logger"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/app"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/services/storefront/internal/config"
)

func main() {
	// A local .env file fills in variables the environment does not set.
	dotenv, err := pkgconfig.LoadDotEnv()
	if err != nil {
		slog.Error("failed to read .env file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger.
	log := logger.New("storefront", cfg.LogLevel)
	log.Info("starting storefront",
		slog.String("environment", cfg.Environment),
		slog.Int("http_port", cfg.HTTPPort),
		slog.Bool("dotenv", dotenv),
	)

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create a context that is cancelled on SIGINT or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := application.Run(ctx); err != nil {
		log.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("storefront stopped")
}
