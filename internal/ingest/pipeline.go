// Package ingest is the one-shot batch job that loads a directory of
// workflow documents into the catalog store.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"flowdex/backend/features/integration"
	"flowdex/backend/features/workflow"
	"flowdex/backend/internal/classify"
	"flowdex/backend/internal/index"
)

const (
	DefaultConcurrency = 10
	DefaultBatchSize   = 100
)

type WorkflowStore interface {
	Upsert(ctx context.Context, w *workflow.Workflow) error
}

type IntegrationStore interface {
	RecordUsage(ctx context.Context, in *integration.Integration) error
}

// Failure is one document the pipeline could not ingest. Failures never
// abort the batch; they are collected and reported at the end.
type Failure struct {
	Path string
	Err  error
}

type Report struct {
	Total     int
	Succeeded int
	Failures  []Failure
}

type Pipeline struct {
	workflows    WorkflowStore
	integrations IntegrationStore
	categories   classify.CategoryTable

	concurrency int
	batchSize   int
}

func NewPipeline(w WorkflowStore, i IntegrationStore, categories classify.CategoryTable, concurrency, batchSize int) *Pipeline {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Pipeline{
		workflows:    w,
		integrations: i,
		categories:   categories,
		concurrency:  concurrency,
		batchSize:    batchSize,
	}
}

// Run ingests every *.json document in dir. Documents are processed with at
// most p.concurrency in flight; batching only scopes the progress logging.
// The returned error covers discovery problems and cancellation, not
// per-document failures — those live in the report.
func (p *Pipeline) Run(ctx context.Context, dir string) (*Report, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("discover workflow documents: %w", err)
	}
	// Record identity comes from the filename, not traversal order, but a
	// sorted walk keeps runs and their logs reproducible.
	sort.Strings(paths)

	report := &Report{Total: len(paths)}
	if len(paths) == 0 {
		return report, fmt.Errorf("no workflow documents found in %s", dir)
	}

	slog.Info("starting workflow ingestion", "total", len(paths), "dir", dir, "concurrency", p.concurrency)

	var mu sync.Mutex
	processed := 0

	for start := 0; start < len(paths); start += p.batchSize {
		end := min(start+p.batchSize, len(paths))
		batch := paths[start:end]

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.concurrency)
		for _, path := range batch {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				err := p.ingestOne(gctx, path)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					slog.Warn("failed to ingest workflow document", "path", path, "error", err)
					report.Failures = append(report.Failures, Failure{Path: path, Err: err})
				} else {
					report.Succeeded++
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return report, err
		}

		processed = end
		slog.Info("ingestion progress",
			"processed", processed,
			"total", len(paths),
			"percent", processed*100/len(paths))
	}

	slog.Info("workflow ingestion completed",
		"succeeded", report.Succeeded,
		"failed", len(report.Failures))
	return report, nil
}

func (p *Pipeline) ingestOne(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	var doc classify.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	id := filepath.Base(path)
	integrations := classify.Integrations(doc.Nodes)
	rawIntegrations, err := json.Marshal(integrations)
	if err != nil {
		return fmt.Errorf("serialize integrations: %w", err)
	}

	record := &workflow.Workflow{
		ID:              id,
		Name:            documentName(&doc, id),
		Description:     doc.Description,
		Category:        p.categories.Lookup(id),
		TriggerType:     classify.DetectTriggerType(doc.Nodes),
		NodeCount:       len(doc.Nodes),
		Active:          doc.Active,
		RawTags:         strings.Join(doc.Tags, ","),
		RawIntegrations: string(rawIntegrations),
		SearchText:      index.SearchText(&doc, integrations),
		WorkflowData:    data,
	}

	if err := p.workflows.Upsert(ctx, record); err != nil {
		return fmt.Errorf("upsert workflow: %w", err)
	}

	// One usage increment per document, however many nodes reference the
	// integration — Integrations already deduplicated.
	for _, name := range integrations {
		in := &integration.Integration{
			Name:        name,
			DisplayName: name,
			Category:    classify.IntegrationCategory(name),
		}
		if err := p.integrations.RecordUsage(ctx, in); err != nil {
			return fmt.Errorf("record integration %q: %w", name, err)
		}
	}

	return nil
}

// documentName falls back to a name derived from the filename when the
// document has none: underscores become spaces and the extension is dropped.
func documentName(doc *classify.Document, id string) string {
	if doc.Name != "" {
		return doc.Name
	}
	return strings.TrimSuffix(strings.ReplaceAll(id, "_", " "), ".json")
}
