package integration

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /integrations.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(r.Context(), w, "limit must be an integer", err.Error(), http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	result, err := h.service.List(r.Context(), limit,
		r.URL.Query().Get("sortBy"), r.URL.Query().Get("sortOrder"))
	if err != nil {
		slog.ErrorContext(r.Context(), "integration listing failed", "error", err)
		h.writeError(r.Context(), w, "Failed to get integrations", err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"success": true, "data": result}); err != nil {
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
