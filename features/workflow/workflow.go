package workflow

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"flowdex/backend/internal/classify"
)

// Workflow is the stored catalog record, one per source document. Tags and
// integrations are kept in their serialized store shape; Summary and Detail
// parse them back for API consumers.
type Workflow struct {
	ID              string
	Name            string
	Description     string
	Category        string
	TriggerType     classify.TriggerType
	NodeCount       int
	Active          bool
	RawTags         string          // comma-delimited
	RawIntegrations string          // JSON array
	SearchText      string
	WorkflowData    json.RawMessage // source document, verbatim
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Summary struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	Category     string               `json:"category"`
	TriggerType  classify.TriggerType `json:"triggerType"`
	NodeCount    int                  `json:"nodeCount"`
	Active       bool                 `json:"active"`
	Tags         []string             `json:"tags"`
	Integrations []string             `json:"integrations"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

type Detail struct {
	Summary
	WorkflowData json.RawMessage `json:"workflowData"`
}

func (w *Workflow) Summary() Summary {
	return Summary{
		ID:           w.ID,
		Name:         w.Name,
		Description:  w.Description,
		Category:     w.Category,
		TriggerType:  w.TriggerType,
		NodeCount:    w.NodeCount,
		Active:       w.Active,
		Tags:         w.Tags(),
		Integrations: w.Integrations(),
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
}

func (w *Workflow) Detail() Detail {
	data := w.WorkflowData
	if len(data) == 0 {
		data = json.RawMessage("null")
	}
	return Detail{Summary: w.Summary(), WorkflowData: data}
}

// Tags parses the delimited tag string back into a list, dropping blanks.
func (w *Workflow) Tags() []string {
	tags := []string{}
	for _, t := range strings.Split(w.RawTags, ",") {
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Integrations parses the serialized integration list. A malformed value
// yields an empty list rather than an error; the column is written by the
// ingest pipeline and is not user input.
func (w *Workflow) Integrations() []string {
	list := []string{}
	if w.RawIntegrations == "" {
		return list
	}
	if err := json.Unmarshal([]byte(w.RawIntegrations), &list); err != nil {
		return []string{}
	}
	return list
}

type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type TriggerTypeCount struct {
	Type  classify.TriggerType `json:"type"`
	Count int                  `json:"count"`
}

// SearchQuery is the repository-level search input: already normalized, with
// a whitelisted sort column and a zero-value meaning "no filter".
type SearchQuery struct {
	Text        string
	Category    string
	Integration string
	TriggerType string
	SortColumn  string
	SortDesc    bool
	Limit       int
	Offset      int
}

type Repository interface {
	Upsert(ctx context.Context, w *Workflow) error
	Get(ctx context.Context, id string) (*Workflow, error)
	Search(ctx context.Context, q SearchQuery) ([]Workflow, int, error)
	Categories(ctx context.Context) ([]CategoryCount, error)
	Count(ctx context.Context) (int, error)
	CountCategories(ctx context.Context) (int, error)
	TriggerTypeCounts(ctx context.Context) ([]TriggerTypeCount, error)
	TopCategories(ctx context.Context, n int) ([]CategoryCount, error)
	AvgNodeCount(ctx context.Context) (float64, error)
	ComplexityCounts(ctx context.Context) (simple, medium, complex int, err error)
}
