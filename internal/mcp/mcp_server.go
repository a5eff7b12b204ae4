// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the linechart MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Line Chart Crosshair Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	orientations := mcp.Enum("vertical", "horizontal", "both")

	// --- 1. Tool: probe_nearest ---
	s.AddTool(mcp.NewTool("probe_nearest",
		mcp.WithDescription("Find the nearest datapoint of every visible series to a position and report which are within the crosshair hit radius."),
		mcp.WithString("series_file", mcp.Description("Path to a JSON, YAML, CSV or XLSX series file (defaults to the configured file or stored snapshots).")),
		mcp.WithNumber("x", mcp.Description("Domain key to probe (time in epoch ms or a numeric key)."), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Value to probe. Used by the horizontal and both orientations.")),
		mcp.WithString("orientation", mcp.Description("Crosshair orientation. Defaults to the configured orientation."), orientations),
	), h.handleProbeNearest)

	// --- 2. Tool: typical_spacing ---
	s.AddTool(mcp.NewTool("typical_spacing",
		mcp.WithDescription("Estimate the typical datapoint spacing per series and chart-wide. Half of the chart-wide spacing is the hit radius."),
		mcp.WithString("series_file", mcp.Description("Path to a series file.")),
		mcp.WithString("orientation", mcp.Description("Crosshair orientation, which selects the axis."), orientations),
	), h.handleTypicalSpacing)

	// --- 3. Tool: classify_charge ---
	s.AddTool(mcp.NewTool("classify_charge",
		mcp.WithDescription("Classify each consecutive pair of datapoints as increasing, decreasing or flat."),
		mcp.WithString("series_file", mcp.Description("Path to a series file.")),
	), h.handleClassifyCharge)

	return s
}

// StartMCPServer starts the linechart MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
