package ingestlog

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// List handles GET /ingest/failures.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.repo.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "ingest failure listing failed", "error", err)
		h.writeError(r.Context(), w, "Failed to get ingest failures", err.Error(), http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}

	total, err := h.repo.Count(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "ingest failure count failed", "error", err)
		h.writeError(r.Context(), w, "Failed to get ingest failures", err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	resp := map[string]any{
		"success": true,
		"data": map[string]any{
			"failures":   entries,
			"totalCount": total,
		},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, message, details string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := map[string]any{
		"success": false,
		"error":   message,
	}
	if details != "" {
		resp["details"] = details
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.ErrorContext(ctx, "failed to encode error response", "error", err)
	}
}
