// Package ingestlog persists the per-document failures reported by the
// ingestion job so they can be inspected over the API after the batch exits.
package ingestlog

import (
	"context"
	"time"
)

type Entry struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Cause     string    `json:"cause"`
	CreatedAt time.Time `json:"createdAt"`
}

type Repository interface {
	Save(ctx context.Context, e *Entry) error
	List(ctx context.Context) ([]Entry, error)
	// Clear drops entries from previous runs; each ingest run starts with a
	// clean slate.
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}
