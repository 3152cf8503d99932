package stats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"flowdex/backend/features/integration"
	"flowdex/backend/features/workflow"
	"flowdex/backend/internal/classify"
)

type mockWorkflowRepo struct {
	mock.Mock
}

func (m *mockWorkflowRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockWorkflowRepo) CountCategories(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockWorkflowRepo) TriggerTypeCounts(ctx context.Context) ([]workflow.TriggerTypeCount, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).([]workflow.TriggerTypeCount)
	return counts, args.Error(1)
}

func (m *mockWorkflowRepo) TopCategories(ctx context.Context, n int) ([]workflow.CategoryCount, error) {
	args := m.Called(ctx, n)
	cats, _ := args.Get(0).([]workflow.CategoryCount)
	return cats, args.Error(1)
}

func (m *mockWorkflowRepo) AvgNodeCount(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockWorkflowRepo) ComplexityCounts(ctx context.Context) (int, int, int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Int(1), args.Int(2), args.Error(3)
}

type mockIntegrationRepo struct {
	mock.Mock
}

func (m *mockIntegrationRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockIntegrationRepo) Top(ctx context.Context, n int) ([]integration.Integration, error) {
	args := m.Called(ctx, n)
	list, _ := args.Get(0).([]integration.Integration)
	return list, args.Error(1)
}

func TestGetStats(t *testing.T) {
	wf := new(mockWorkflowRepo)
	in := new(mockIntegrationRepo)

	wf.On("Count", mock.Anything).Return(10, nil)
	wf.On("CountCategories", mock.Anything).Return(3, nil)
	wf.On("AvgNodeCount", mock.Anything).Return(7.4, nil)
	wf.On("TriggerTypeCounts", mock.Anything).Return([]workflow.TriggerTypeCount{
		{Type: classify.TriggerManual, Count: 6},
		{Type: classify.TriggerWebhook, Count: 3},
		{Type: classify.TriggerScheduled, Count: 1},
	}, nil)
	wf.On("TopCategories", mock.Anything, 5).Return([]workflow.CategoryCount{
		{Name: "Finance", Count: 7},
		{Name: "CRM & Sales", Count: 3},
	}, nil)
	wf.On("ComplexityCounts", mock.Anything).Return(5, 4, 1, nil)
	in.On("Count", mock.Anything).Return(4, nil)
	in.On("Top", mock.Anything, 10).Return([]integration.Integration{
		{Name: "slack", DisplayName: "Slack", Category: "Communication & Messaging", UsageCount: 9},
	}, nil)

	rec := httptest.NewRecorder()
	NewHandler(wf, in).GetStats(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool     `json:"success"`
		Data    Response `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.Success)

	assert.Equal(t, Overview{
		TotalWorkflows:      10,
		TotalIntegrations:   4,
		TotalCategories:     3,
		AvgNodesPerWorkflow: 7,
	}, body.Data.Overview)

	require.Len(t, body.Data.TriggerTypes, 3)
	assert.Equal(t, TriggerTypeStat{Type: classify.TriggerManual, Count: 6, Percentage: 60}, body.Data.TriggerTypes[0])
	assert.Equal(t, TriggerTypeStat{Type: classify.TriggerWebhook, Count: 3, Percentage: 30}, body.Data.TriggerTypes[1])

	require.Len(t, body.Data.TopCategories, 2)
	assert.Equal(t, CategoryStat{Name: "Finance", Count: 7, Percentage: 70}, body.Data.TopCategories[0])

	require.Len(t, body.Data.TopIntegrations, 1)
	assert.Equal(t, 9, body.Data.TopIntegrations[0].UsageCount)

	assert.Equal(t, []ComplexityStat{
		{Level: classify.ComplexitySimple, Count: 5, Percentage: 50},
		{Level: classify.ComplexityMedium, Count: 4, Percentage: 40},
		{Level: classify.ComplexityComplex, Count: 1, Percentage: 10},
	}, body.Data.Complexity)

	wf.AssertExpectations(t)
	in.AssertExpectations(t)
}

func TestGetStats_EmptyStore(t *testing.T) {
	wf := new(mockWorkflowRepo)
	in := new(mockIntegrationRepo)

	wf.On("Count", mock.Anything).Return(0, nil)
	wf.On("CountCategories", mock.Anything).Return(0, nil)
	wf.On("AvgNodeCount", mock.Anything).Return(0.0, nil)
	wf.On("TriggerTypeCounts", mock.Anything).Return([]workflow.TriggerTypeCount(nil), nil)
	wf.On("TopCategories", mock.Anything, 5).Return([]workflow.CategoryCount(nil), nil)
	wf.On("ComplexityCounts", mock.Anything).Return(0, 0, 0, nil)
	in.On("Count", mock.Anything).Return(0, nil)
	in.On("Top", mock.Anything, 10).Return([]integration.Integration(nil), nil)

	rec := httptest.NewRecorder()
	NewHandler(wf, in).GetStats(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data Response `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	assert.Equal(t, Overview{}, body.Data.Overview)
	assert.Empty(t, body.Data.TriggerTypes)
	assert.Equal(t, []integration.Integration{}, body.Data.TopIntegrations)
	for _, c := range body.Data.Complexity {
		assert.Zero(t, c.Count)
		assert.Zero(t, c.Percentage)
	}
}

func TestGetStats_StoreFailure(t *testing.T) {
	wf := new(mockWorkflowRepo)
	in := new(mockIntegrationRepo)

	wf.On("Count", mock.Anything).Return(0, errors.New("connection refused"))

	rec := httptest.NewRecorder()
	NewHandler(wf, in).GetStats(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Failed to get statistics", body["error"])
	assert.Equal(t, "connection refused", body["details"])
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0, percentage(0, 0))
	assert.Equal(t, 0, percentage(5, 0))
	assert.Equal(t, 33, percentage(1, 3))
	assert.Equal(t, 67, percentage(2, 3))
	assert.Equal(t, 100, percentage(3, 3))
}
