package workflow

import (
	"context"
	"math"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// sortColumns whitelists the API sort keys; anything else falls back to
// name ascending.
var sortColumns = map[string]string{
	"name":      "name",
	"nodeCount": "node_count",
	"category":  "category",
}

// SearchParams is the raw API-level search input before normalization.
type SearchParams struct {
	Query       string
	Category    string
	Integration string
	TriggerType string
	Page        int
	Limit       int
	SortBy      string
	SortOrder   string
}

type Pagination struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalCount  int  `json:"totalCount"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

type Filters struct {
	Query       string `json:"query"`
	Category    string `json:"category"`
	Integration string `json:"integration"`
	TriggerType string `json:"triggerType"`
}

type SearchResult struct {
	Workflows  []Summary  `json:"workflows"`
	Pagination Pagination `json:"pagination"`
	Filters    Filters    `json:"filters"`
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search normalizes the request, pushes it to the store, and assembles the
// paginated result. A page past the end returns an empty list, not an error.
func (s *Service) Search(ctx context.Context, p SearchParams) (*SearchResult, error) {
	q := normalize(p)

	rows, total, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, rows[i].Summary())
	}

	page := q.Offset/q.Limit + 1
	totalPages := int(math.Ceil(float64(total) / float64(q.Limit)))

	return &SearchResult{
		Workflows: summaries,
		Pagination: Pagination{
			Page:        page,
			Limit:       q.Limit,
			TotalCount:  total,
			TotalPages:  totalPages,
			HasNextPage: page < totalPages,
			HasPrevPage: page > 1,
		},
		Filters: Filters{
			Query:       p.Query,
			Category:    p.Category,
			Integration: p.Integration,
			TriggerType: p.TriggerType,
		},
	}, nil
}

func normalize(p SearchParams) SearchQuery {
	q := SearchQuery{Text: p.Query}

	if p.Category != "" && p.Category != "all" {
		q.Category = p.Category
	}
	if p.Integration != "" && p.Integration != "all" {
		q.Integration = p.Integration
	}
	if p.TriggerType != "" && p.TriggerType != "all" {
		q.TriggerType = p.TriggerType
	}

	col, ok := sortColumns[p.SortBy]
	if !ok {
		// Unknown sort key: name ascending, regardless of sortOrder.
		q.SortColumn = "name"
	} else {
		q.SortColumn = col
		q.SortDesc = p.SortOrder == "desc"
	}

	limit := p.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	q.Limit = limit

	page := p.Page
	if page < 1 {
		page = 1
	}
	q.Offset = (page - 1) * limit

	return q
}

func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	w, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	d := w.Detail()
	return &d, nil
}

// Categories returns every category with its workflow count, count
// descending, with a synthetic "All" entry first.
func (s *Service) Categories(ctx context.Context) ([]CategoryCount, error) {
	cats, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return append([]CategoryCount{{Name: "All", Count: total}}, cats...), nil
}
