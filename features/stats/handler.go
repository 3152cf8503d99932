package stats

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"

	"flowdex/backend/features/integration"
	"flowdex/backend/features/workflow"
	"flowdex/backend/internal/classify"
)

const (
	topCategoryCount    = 5
	topIntegrationCount = 10
)

type WorkflowRepo interface {
	Count(ctx context.Context) (int, error)
	CountCategories(ctx context.Context) (int, error)
	TriggerTypeCounts(ctx context.Context) ([]workflow.TriggerTypeCount, error)
	TopCategories(ctx context.Context, n int) ([]workflow.CategoryCount, error)
	AvgNodeCount(ctx context.Context) (float64, error)
	ComplexityCounts(ctx context.Context) (simple, medium, complex int, err error)
}

type IntegrationRepo interface {
	Count(ctx context.Context) (int, error)
	Top(ctx context.Context, n int) ([]integration.Integration, error)
}

type Handler struct {
	workflows    WorkflowRepo
	integrations IntegrationRepo
}

func NewHandler(w WorkflowRepo, i IntegrationRepo) *Handler {
	return &Handler{workflows: w, integrations: i}
}

type Overview struct {
	TotalWorkflows      int `json:"totalWorkflows"`
	TotalIntegrations   int `json:"totalIntegrations"`
	TotalCategories     int `json:"totalCategories"`
	AvgNodesPerWorkflow int `json:"avgNodesPerWorkflow"`
}

type TriggerTypeStat struct {
	Type       classify.TriggerType `json:"type"`
	Count      int                  `json:"count"`
	Percentage int                  `json:"percentage"`
}

type CategoryStat struct {
	Name       string `json:"name"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

type ComplexityStat struct {
	Level      classify.Complexity `json:"level"`
	Count      int                 `json:"count"`
	Percentage int                 `json:"percentage"`
}

type Response struct {
	Overview        Overview                  `json:"overview"`
	TriggerTypes    []TriggerTypeStat         `json:"triggerTypes"`
	TopCategories   []CategoryStat            `json:"topCategories"`
	TopIntegrations []integration.Integration `json:"topIntegrations"`
	Complexity      []ComplexityStat          `json:"complexity"`
}

// GetStats handles GET /stats: catalog-wide aggregates. All percentages are
// integer-rounded; an empty store reports zeros rather than dividing by it.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totalWorkflows, err := h.workflows.Count(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to count workflows", err)
		return
	}
	totalIntegrations, err := h.integrations.Count(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to count integrations", err)
		return
	}
	totalCategories, err := h.workflows.CountCategories(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to count categories", err)
		return
	}
	avgNodes, err := h.workflows.AvgNodeCount(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to average node counts", err)
		return
	}

	triggerCounts, err := h.workflows.TriggerTypeCounts(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to aggregate trigger types", err)
		return
	}
	triggerTypes := make([]TriggerTypeStat, 0, len(triggerCounts))
	for _, t := range triggerCounts {
		triggerTypes = append(triggerTypes, TriggerTypeStat{
			Type:       t.Type,
			Count:      t.Count,
			Percentage: percentage(t.Count, totalWorkflows),
		})
	}

	topCats, err := h.workflows.TopCategories(ctx, topCategoryCount)
	if err != nil {
		h.fail(ctx, w, "failed to aggregate categories", err)
		return
	}
	topCategories := make([]CategoryStat, 0, len(topCats))
	for _, c := range topCats {
		topCategories = append(topCategories, CategoryStat{
			Name:       c.Name,
			Count:      c.Count,
			Percentage: percentage(c.Count, totalWorkflows),
		})
	}

	topIntegrations, err := h.integrations.Top(ctx, topIntegrationCount)
	if err != nil {
		h.fail(ctx, w, "failed to rank integrations", err)
		return
	}
	if topIntegrations == nil {
		topIntegrations = []integration.Integration{}
	}

	simple, medium, complex, err := h.workflows.ComplexityCounts(ctx)
	if err != nil {
		h.fail(ctx, w, "failed to bucket complexity", err)
		return
	}

	resp := Response{
		Overview: Overview{
			TotalWorkflows:      totalWorkflows,
			TotalIntegrations:   totalIntegrations,
			TotalCategories:     totalCategories,
			AvgNodesPerWorkflow: int(math.Round(avgNodes)),
		},
		TriggerTypes:    triggerTypes,
		TopCategories:   topCategories,
		TopIntegrations: topIntegrations,
		Complexity: []ComplexityStat{
			{Level: classify.ComplexitySimple, Count: simple, Percentage: percentage(simple, totalWorkflows)},
			{Level: classify.ComplexityMedium, Count: medium, Percentage: percentage(medium, totalWorkflows)},
			{Level: classify.ComplexityComplex, Count: complex, Percentage: percentage(complex, totalWorkflows)},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"success": true, "data": resp}); err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, message string, err error) {
	slog.ErrorContext(ctx, message, "error", err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	resp := map[string]any{
		"success": false,
		"error":   "Failed to get statistics",
		"details": err.Error(),
	}
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		slog.ErrorContext(ctx, "failed to encode error response", "error", encodeErr)
	}
}
