package workflow

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
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

// List handles GET /workflows: free-text search plus AND-combined filters,
// paginated and sorted.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := SearchParams{
		Query:       r.URL.Query().Get("q"),
		Category:    r.URL.Query().Get("category"),
		Integration: r.URL.Query().Get("integration"),
		TriggerType: r.URL.Query().Get("triggerType"),
		SortBy:      r.URL.Query().Get("sortBy"),
		SortOrder:   r.URL.Query().Get("sortOrder"),
	}

	var err error
	if params.Page, err = intParam(r, "page", 1); err != nil {
		h.writeError(r.Context(), w, "page must be an integer", err.Error(), http.StatusBadRequest)
		return
	}
	if params.Limit, err = intParam(r, "limit", DefaultPageSize); err != nil {
		h.writeError(r.Context(), w, "limit must be an integer", err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.Search(r.Context(), params)
	if err != nil {
		slog.ErrorContext(r.Context(), "workflow search failed", "error", err)
		h.writeError(r.Context(), w, "Failed to search workflows", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeData(w, result)
}

// Get handles GET /workflows/{id}: the full record including the verbatim
// source document.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	detail, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.writeError(r.Context(), w, "Workflow not found", "", http.StatusNotFound)
			return
		}
		slog.ErrorContext(r.Context(), "workflow lookup failed", "error", err, "id", id)
		h.writeError(r.Context(), w, "Failed to get workflow", err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeData(w, detail)
}

// Categories handles GET /categories.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.service.Categories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "category listing failed", "error", err)
		h.writeError(r.Context(), w, "Failed to get categories", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeData(w, cats)
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func (h *Handler) writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data}); err != nil {
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
