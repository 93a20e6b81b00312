// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/locmeta/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the locmeta MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"locmeta Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	dataFile := mcp.WithString("data_file", mcp.Description("Path to the loc.csv line log (defaults to the configured file)."))
	cutoff := mcp.WithString("cutoff", mcp.Description("Only include commits at or before this time (e.g., '2025-02-10', '3 months ago')."))
	progress := mcp.WithNumber("progress", mcp.Description("Slider position from 0 to 100. Cannot be combined with cutoff."))

	// --- 1. Tool: get_stats ---
	s.AddTool(mcp.NewTool("get_stats",
		mcp.WithDescription("Summarize a line log: lines, commits, files, longest file, average line length and most active time of day."),
		dataFile,
	), h.handleGetStats)

	// --- 2. Tool: get_commits ---
	s.AddTool(mcp.NewTool("get_commits",
		mcp.WithDescription("List the commits up to a point on the timeline."),
		dataFile, cutoff, progress,
		mcp.WithNumber("limit", mcp.Description("Limit the number of commits returned.")),
	), h.handleGetCommits)

	// --- 3. Tool: get_selection ---
	s.AddTool(mcp.NewTool("get_selection",
		mcp.WithDescription("Select commits inside a rectangle of the time-of-day scatter plot and break them down by language."),
		mcp.WithString("brush", mcp.Description("Rectangle in plot pixels as 'x0,y0,x1,y1' on a 1000x600 canvas."), mcp.Required()),
		dataFile,
	), h.handleGetSelection)

	// --- 4. Tool: get_files ---
	s.AddTool(mcp.NewTool("get_files",
		mcp.WithDescription("Break the lines down by file and language up to a point on the timeline."),
		dataFile, cutoff, progress,
	), h.handleGetFiles)

	// --- 5. Tool: get_story ---
	s.AddTool(mcp.NewTool("get_story",
		mcp.WithDescription("Tell the story of one commit and show the view as of that commit."),
		mcp.WithNumber("step", mcp.Description("Zero-based commit index in time order."), mcp.Required()),
		mcp.WithString("view", mcp.Description("Which view to re-render. Defaults to 'scatter'."), mcp.Enum("scatter", "files")),
		dataFile,
	), h.handleGetStory)

	// --- 6. Tool: get_projects ---
	s.AddTool(mcp.NewTool("get_projects",
		mcp.WithDescription("Count projects and group them by year."),
		mcp.WithString("projects_file", mcp.Description("Path to projects.json (defaults to the configured file).")),
	), h.handleGetProjects)

	// --- 7. Tool: get_runs ---
	s.AddTool(mcp.NewTool("get_runs",
		mcp.WithDescription("Show the status of the run history store."),
	), h.handleGetRuns)

	return s
}

// StartMCPServer starts the locmeta MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
