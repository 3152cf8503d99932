// The ingest job catalogs a directory of workflow JSON documents into the
// store. It runs to completion, prints a report, and exits; re-running it is
// safe because every write is an upsert.
package main

import (
	"context"
	"log/slog"
	"os"

	"flowdex/backend/features/ingestlog"
	"flowdex/backend/features/integration"
	"flowdex/backend/features/workflow"
	"flowdex/backend/internal/app"
	"flowdex/backend/internal/classify"
	"flowdex/backend/internal/config"
	"flowdex/backend/internal/ingest"
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

	if err := run(context.Background(), cfg); err != nil {
		slog.Error("ingestion failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	db, err := app.Bootstrap(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	categories, err := classify.LoadCategoryTable(cfg.CategoriesPath)
	if err != nil {
		// The catalog is usable without the curated table; everything lands
		// in the default category.
		slog.Warn("category table unavailable, using defaults", "path", cfg.CategoriesPath, "error", err)
		categories = classify.CategoryTable{}
	}

	pipeline := ingest.NewPipeline(
		workflow.NewPostgresRepo(db),
		integration.NewPostgresRepo(db),
		categories,
		cfg.IngestionConcurrency,
		cfg.IngestionBatchSize,
	)

	report, err := pipeline.Run(ctx, cfg.WorkflowsDir)
	if err != nil {
		return err
	}

	recordFailures(ctx, ingestlog.NewPostgresRepo(db), report)

	slog.Info("ingestion report",
		"total", report.Total,
		"succeeded", report.Succeeded,
		"failed", len(report.Failures))
	for _, f := range report.Failures {
		slog.Warn("document not ingested", "path", f.Path, "cause", f.Err)
	}
	return nil
}

func recordFailures(ctx context.Context, repo ingestlog.Repository, report *ingest.Report) {
	if err := repo.Clear(ctx); err != nil {
		slog.Warn("failed to clear previous ingest failures", "error", err)
		return
	}
	for _, f := range report.Failures {
		entry := &ingestlog.Entry{Path: f.Path, Cause: f.Err.Error()}
		if err := repo.Save(ctx, entry); err != nil {
			slog.Warn("failed to record ingest failure", "path", f.Path, "error", err)
		}
	}
}
