package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"flowdex/backend/features/ingestlog"
	"flowdex/backend/features/integration"
	"flowdex/backend/features/stats"
	"flowdex/backend/features/workflow"
	"flowdex/backend/internal/config"
	"flowdex/backend/internal/middleware"
)

type App struct {
	Handler http.Handler
	port    int
}

// New wires repositories, services, and handlers into the read-API mux. The
// catalog is read-only here; writes happen in the ingest job.
func New(cfg *config.Config, db *sql.DB) *App {
	workflowRepo := workflow.NewPostgresRepo(db)
	workflowService := workflow.NewService(workflowRepo)
	workflowHandler := workflow.NewHandler(workflowService)

	integrationRepo := integration.NewPostgresRepo(db)
	integrationService := integration.NewService(integrationRepo)
	integrationHandler := integration.NewHandler(integrationService)

	statsHandler := stats.NewHandler(workflowRepo, integrationRepo)

	ingestlogHandler := ingestlog.NewHandler(ingestlog.NewPostgresRepo(db))

	mux := http.NewServeMux()

	mux.HandleFunc("GET /workflows", workflowHandler.List)
	mux.HandleFunc("GET /workflows/{id}", workflowHandler.Get)
	mux.HandleFunc("GET /categories", workflowHandler.Categories)
	mux.HandleFunc("GET /integrations", integrationHandler.List)
	mux.HandleFunc("GET /stats", statsHandler.GetStats)
	mux.HandleFunc("GET /ingest/failures", ingestlogHandler.List)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// CORS sits outside the mux so OPTIONS preflights are answered before
	// method matching can 405 them.
	return &App{Handler: middleware.CorrelationID(enableCORS(mux)), port: cfg.ServerPort}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.port),
		Handler: a.Handler,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down server...")
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("server starting", "port", a.port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
