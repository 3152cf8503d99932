package integration

import "context"

// Integration is one distinct integration identifier ever seen by the ingest
// pipeline, with a usage counter bumped once per workflow document that
// references it.
type Integration struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Category    string `json:"category"`
	UsageCount  int    `json:"usageCount"`
}

type Repository interface {
	// RecordUsage creates the integration with usage_count = 1 on first
	// sighting and increments it atomically thereafter.
	RecordUsage(ctx context.Context, in *Integration) error
	List(ctx context.Context, limit int, sortBy, sortOrder string) ([]Integration, error)
	Top(ctx context.Context, n int) ([]Integration, error)
	Count(ctx context.Context) (int, error)
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ListResult struct {
	Integrations []Integration `json:"integrations"`
	TotalCount   int           `json:"totalCount"`
}

func (s *Service) List(ctx context.Context, limit int, sortBy, sortOrder string) (*ListResult, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	list, err := s.repo.List(ctx, limit, sortBy, sortOrder)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Integration{}
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &ListResult{Integrations: list, TotalCount: total}, nil
}
