package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/chartwerk/line-chart/internal/contract"
	mcp_internal "github.com/chartwerk/line-chart/internal/mcp"
	"github.com/chartwerk/line-chart/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeries(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "series.json")
	content := `[{"target":"cpu","datapoints":[[1,0],[3,10],[2,20]]}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func callTool(t *testing.T, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(&contract.Config{Orientation: schema.Vertical, Precision: 2}, nil)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotEmpty(t, res.Content)
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		tool    string
		args    map[string]any
		wantErr string
	}{
		{
			name:    "probe_nearest missing x",
			tool:    "probe_nearest",
			args:    map[string]any{"series_file": "series.json"},
			wantErr: "invalid probe parameters",
		},
		{
			name:    "probe_nearest invalid orientation",
			tool:    "probe_nearest",
			args:    map[string]any{"x": 1.0, "orientation": "diagonal"},
			wantErr: "unknown crosshair orientation",
		},
		{
			name:    "typical_spacing missing series",
			tool:    "typical_spacing",
			args:    map[string]any{},
			wantErr: "a series file is required",
		},
		{
			name:    "classify_charge unreadable file",
			tool:    "classify_charge",
			args:    map[string]any{"series_file": filepath.Join(t.TempDir(), "missing.json")},
			wantErr: "failed to load series",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(res), tt.wantErr)
		})
	}
}

func TestMCPServerHandlers_Results(t *testing.T) {
	path := writeSeries(t)

	t.Run("probe_nearest", func(t *testing.T) {
		res := callTool(t, "probe_nearest", map[string]any{"series_file": path, "x": 9.0})
		require.False(t, res.IsError, resultText(res))

		var result schema.ProbeResult
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &result))
		assert.Equal(t, schema.CrosshairVisibleHit, result.Status)
		require.Len(t, result.Hits, 1)
		assert.Equal(t, 10.0, result.Hits[0].Nearest.Key)
		assert.True(t, result.Hits[0].Hit)
	})

	t.Run("typical_spacing horizontal", func(t *testing.T) {
		res := callTool(t, "typical_spacing", map[string]any{"series_file": path, "orientation": "horizontal"})
		require.False(t, res.IsError, resultText(res))

		var result schema.SpacingResult
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &result))
		assert.Equal(t, schema.AxisY, result.Axis)
		assert.True(t, result.Defined)
		assert.InDelta(t, 0.5, result.Spacing, 1e-9)
	})

	t.Run("classify_charge", func(t *testing.T) {
		res := callTool(t, "classify_charge", map[string]any{"series_file": path})
		require.False(t, res.IsError, resultText(res))

		var results []schema.SegmentsResult
		require.NoError(t, json.Unmarshal([]byte(resultText(res)), &results))
		require.Len(t, results, 1)
		require.Len(t, results[0].Segments, 2)
		assert.Equal(t, schema.Increasing, results[0].Segments[0].Direction)
		assert.Equal(t, schema.Decreasing, results[0].Segments[1].Direction)
	})
}
