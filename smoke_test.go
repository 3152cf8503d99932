package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowdex/backend/features/integration"
	"flowdex/backend/features/workflow"
	"flowdex/backend/internal/app"
	"flowdex/backend/internal/classify"
	"flowdex/backend/internal/config"
	"flowdex/backend/internal/ingest"
	"flowdex/backend/internal/testutils"
)

// TestSmoke_IngestAndServe runs the whole path: ingest a directory of
// documents into a containerized Postgres, start the API, and query it.
func TestSmoke_IngestAndServe(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping smoke test in short mode")
	}

	suite := testutils.NewIntegrationSuite(t)
	suite.Setup()
	defer suite.Teardown()

	dir := t.TempDir()
	doc := map[string]any{
		"name":   "Send Slack Alert",
		"active": true,
		"nodes": []map[string]any{
			{"name": "Webhook", "type": "n8n-nodes-base.webhook", "parameters": map[string]any{}},
			{"name": "Slack", "type": "n8n-nodes-base.slack", "parameters": map[string]any{"channel": "#alerts"}},
		},
	}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "send_slack_alert.json"), raw, 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pipeline := ingest.NewPipeline(
		workflow.NewPostgresRepo(suite.DB),
		integration.NewPostgresRepo(suite.DB),
		classify.CategoryTable{},
		ingest.DefaultConcurrency,
		ingest.DefaultBatchSize,
	)
	report, err := pipeline.Run(ctx, dir)
	require.NoError(t, err)
	require.Equal(t, 1, report.Succeeded)
	require.Empty(t, report.Failures)

	const port = 8099
	go func() {
		a := app.New(&config.Config{ServerPort: port}, suite.DB)
		if err := a.Run(ctx); err != nil {
			t.Logf("app run exited: %v", err)
		}
	}()

	base := fmt.Sprintf("http://localhost:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 250*time.Millisecond)

	resp, err := http.Get(base + "/workflows?q=slack")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Workflows []struct {
				ID           string   `json:"id"`
				TriggerType  string   `json:"triggerType"`
				Integrations []string `json:"integrations"`
			} `json:"workflows"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	require.Len(t, body.Data.Workflows, 1)
	assert.Equal(t, "send_slack_alert.json", body.Data.Workflows[0].ID)
	assert.Equal(t, "WEBHOOK", body.Data.Workflows[0].TriggerType)
	assert.Contains(t, body.Data.Workflows[0].Integrations, "slack")
}
