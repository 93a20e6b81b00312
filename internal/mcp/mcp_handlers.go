package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/huangsam/locmeta/core"
	"github.com/huangsam/locmeta/internal/contract"
	"github.com/huangsam/locmeta/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// configFor clones the base config and applies the data file and timeline
// arguments shared by the tools.
func (h *toolHandler) configFor(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if f := request.GetString("data_file", ""); f != "" {
		cfg.DataFile = f
	}
	progress := ""
	if args := request.GetArguments(); args["progress"] != nil {
		progress = strconv.FormatFloat(request.GetFloat("progress", 0), 'f', -1, 64)
	}
	if err := contract.RevalidateTimeline(cfg, request.GetString("cutoff", ""), progress); err != nil {
		return nil, err
	}
	return cfg, nil
}

func textResult(value any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(value, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleGetStats(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if f := request.GetString("data_file", ""); f != "" {
		cfg.DataFile = f
	}
	records, commits, err := core.LoadDataset(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading failed: %v", err)), nil
	}
	return textResult(core.BuildStats(cfg, records, commits)), nil
}

func (h *toolHandler) handleGetCommits(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid timeline parameters: %v", err)), nil
	}
	state, err := core.NewViewStateFromConfig(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading failed: %v", err)), nil
	}

	result := core.BuildCommits(state)
	if l := request.GetInt("limit", 0); l > 0 && l < len(result.Commits) {
		result.Commits = result.Commits[:l]
	}
	return textResult(result), nil
}

func (h *toolHandler) handleGetSelection(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel, err := contract.ParseBrush(request.GetString("brush", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid brush: %v", err)), nil
	}
	if sel == nil {
		return mcp.NewToolResultError("brush is required"), nil
	}

	cfg := h.baseCfg.Clone()
	if f := request.GetString("data_file", ""); f != "" {
		cfg.DataFile = f
	}
	state, err := core.NewViewStateFromConfig(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading failed: %v", err)), nil
	}
	return textResult(core.BuildSelection(state, sel)), nil
}

func (h *toolHandler) handleGetFiles(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid timeline parameters: %v", err)), nil
	}
	state, err := core.NewViewStateFromConfig(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading failed: %v", err)), nil
	}
	return textResult(core.BuildFiles(state)), nil
}

func (h *toolHandler) handleGetStory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	step := request.GetInt("step", -1)
	view := schema.StoryView(request.GetString("view", string(schema.ScatterView)))
	if view != schema.ScatterView && view != schema.FilesView {
		return mcp.NewToolResultError(fmt.Sprintf("invalid view '%s'. must be scatter, files", view)), nil
	}

	cfg := h.baseCfg.Clone()
	if f := request.GetString("data_file", ""); f != "" {
		cfg.DataFile = f
	}
	state, err := core.NewViewStateFromConfig(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading failed: %v", err)), nil
	}
	result, err := core.BuildStory(state, step, view)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("story failed: %v", err)), nil
	}
	return textResult(result), nil
}

func (h *toolHandler) handleGetProjects(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("projects_file", h.baseCfg.ProjectsFile)
	projects, err := core.LoadProjectsFile(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading failed: %v", err)), nil
	}
	return textResult(core.BuildProjects(projects)), nil
}

func (h *toolHandler) handleGetRuns(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var store contract.RunStore
	if h.mgr != nil {
		store = h.mgr.GetRunStore()
	}
	if store == nil {
		return mcp.NewToolResultError(errors.New("run history is disabled (set --runs-backend)").Error()), nil
	}
	status, err := store.GetStatus()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status failed: %v", err)), nil
	}
	return textResult(status), nil
}
