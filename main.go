package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"flowdex/backend/internal/app"
	"flowdex/backend/internal/config"
	"flowdex/backend/internal/logger"
)

func main() {
	handler := logger.NewContextHandler(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(slog.New(handler))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	db, err := app.Bootstrap(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return app.New(cfg, db).Run(ctx)
}
