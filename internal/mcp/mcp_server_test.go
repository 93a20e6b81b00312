package mcp_test

import (
	"context"
	"encoding/json"
	"math"
	"path/filepath"
	"testing"

	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/internal/iocache"
	mcp_internal "github.com/huangsam/locmeta/internal/mcp"
	"github.com/huangsam/locmeta/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *contract.Config {
	return &contract.Config{
		DataFile:     filepath.FromSlash("../../core/testdata/loc.csv"),
		ProjectsFile: filepath.FromSlash("../../core/testdata/projects.json"),
		StoryView:    schema.ScatterView,
	}
}

func callTool(t *testing.T, mgr contract.StoreManager, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(baseConfig(), mgr)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{"get_selection missing brush", "get_selection", map[string]any{}, "brush is required"},
		{"get_selection short brush", "get_selection", map[string]any{"brush": "1,2"}, "invalid brush"},
		{"get_commits cutoff and progress", "get_commits", map[string]any{"cutoff": "2025-02-10", "progress": 50.0}, "cannot be combined"},
		{"get_files progress out of range", "get_files", map[string]any{"progress": 120.0}, "between 0 and 100"},
		{"get_files progress NaN", "get_files", map[string]any{"progress": math.NaN()}, "between 0 and 100"},
		{"get_commits bad cutoff", "get_commits", map[string]any{"cutoff": "yesterday-ish"}, "invalid --cutoff"},
		{"get_story step out of range", "get_story", map[string]any{"step": 9.0}, "story failed"},
		{"get_story missing step", "get_story", map[string]any{}, "story failed"},
		{"get_story bad view", "get_story", map[string]any{"step": 0.0, "view": "pie"}, "invalid view"},
		{"get_stats missing file", "get_stats", map[string]any{"data_file": "missing.csv"}, "loading failed"},
		{"get_projects missing file", "get_projects", map[string]any{"projects_file": "missing.json"}, "loading failed"},
		{"get_runs without a manager", "get_runs", map[string]any{}, "run history is disabled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, nil, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(t, res), tt.want)
		})
	}
}

func TestMCPServerHandlers_Results(t *testing.T) {
	t.Run("get_stats", func(t *testing.T) {
		res := callTool(t, nil, "get_stats", nil)
		require.False(t, res.IsError)
		var out schema.StatsResult
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
		require.Len(t, out.Stats, 6)
		assert.Equal(t, schema.StatPair{Label: schema.LabelTotalLOC, Value: "8"}, out.Stats[0])
	})

	t.Run("get_commits with limit", func(t *testing.T) {
		res := callTool(t, nil, "get_commits", map[string]any{"limit": 2.0})
		require.False(t, res.IsError)
		var out schema.CommitsResult
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
		assert.Equal(t, 4, out.Total)
		assert.Len(t, out.Commits, 2)
	})

	t.Run("get_commits at progress 0", func(t *testing.T) {
		res := callTool(t, nil, "get_commits", map[string]any{"progress": 0.0})
		require.False(t, res.IsError)
		var out schema.CommitsResult
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
		require.Len(t, out.Commits, 1)
		assert.Equal(t, "c1", out.Commits[0].ID)
	})

	t.Run("get_selection", func(t *testing.T) {
		res := callTool(t, nil, "get_selection", map[string]any{"brush": "0,0,1000,600"})
		require.False(t, res.IsError)
		var out schema.SelectionResult
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
		assert.Len(t, out.Commits, 4)
		assert.Equal(t, "4 commits selected", out.Text)
	})

	t.Run("get_files", func(t *testing.T) {
		res := callTool(t, nil, "get_files", map[string]any{"cutoff": "2025-02-11"})
		require.False(t, res.IsError)
		var out schema.FilesResult
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
		assert.Equal(t, 2, out.Commits)
		assert.Len(t, out.Breakdown.Files, 3)
	})

	t.Run("get_story", func(t *testing.T) {
		res := callTool(t, nil, "get_story", map[string]any{"step": 1.0, "view": "files"})
		require.False(t, res.IsError)
		var out schema.StoryResult
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
		assert.Equal(t, "c2", out.Step.CommitID)
		assert.Equal(t, schema.FilesView, out.View)
		require.NotNil(t, out.Breakdown)
		assert.Empty(t, out.Points)
	})

	t.Run("get_projects", func(t *testing.T) {
		res := callTool(t, nil, "get_projects", nil)
		require.False(t, res.IsError)
		var out schema.ProjectsResult
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
		assert.Equal(t, "3 Projects", out.Title)
		assert.Len(t, out.Slices, 2)
	})

	t.Run("get_runs", func(t *testing.T) {
		runs := &iocache.MockRunStore{}
		runs.On("GetStatus").Return(schema.RunStatus{Backend: "sqlite", Connected: true, TotalRuns: 3}, nil)
		mgr := &iocache.MockStoreManager{}
		mgr.On("GetRunStore").Return(runs)

		res := callTool(t, mgr, "get_runs", nil)
		require.False(t, res.IsError)
		var out schema.RunStatus
		require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
		assert.Equal(t, 3, out.TotalRuns)
		mgr.AssertExpectations(t)
		runs.AssertExpectations(t)
	})
}
