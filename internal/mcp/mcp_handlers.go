package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chartwerk/line-chart/core"
	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// requestConfig applies the shared series_file and orientation arguments to a copy of the base config.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("series_file", ""); p != "" {
		cfg.SeriesFile = p
	}
	if o := request.GetString("orientation", ""); o != "" {
		orientation, err := contract.ValidateOrientation(o)
		if err != nil {
			return nil, err
		}
		cfg.Orientation = orientation
	}
	if cfg.Orientation == "" {
		cfg.Orientation = schema.Vertical
	}
	if cfg.Layout.Width <= 0 || cfg.Layout.Height <= 0 {
		cfg.Layout = schema.Layout{Width: contract.DefaultChartWidth, Height: contract.DefaultChartHeight}
	}
	return cfg, nil
}

func (h *toolHandler) handleProbeNearest(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid probe parameters: %v", err)), nil
	}
	x, err := request.RequireFloat("x")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid probe parameters: %v", err)), nil
	}
	req := core.ProbeRequest{X: x, Y: request.GetFloat("y", 0)}

	series, err := core.LoadSeries(cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load series: %v", err)), nil
	}
	result, err := core.GetProbeResult(cfg, h.mgr, series, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("probe failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleTypicalSpacing(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid spacing parameters: %v", err)), nil
	}

	series, err := core.LoadSeries(cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load series: %v", err)), nil
	}
	result, err := core.GetSpacingResult(cfg, series)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("spacing estimate failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleClassifyCharge(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid classification parameters: %v", err)), nil
	}

	series, err := core.LoadSeries(cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load series: %v", err)), nil
	}
	results, err := core.GetSegmentsResults(cfg, series)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("classification failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
