package outwriter

import (
	"os"

	"github.com/chartwerk/line-chart/internal/contract"
	"golang.org/x/term"
)

// Bounds for the label column of text tables.
const (
	minLabelWidth = 12
	maxLabelWidth = 48
)

// GetMaxTableLabelWidth calculates the maximum width for series labels in table output
// from the terminal width and the space taken by the other columns.
func GetMaxTableLabelWidth(cfg *contract.Config, fixedColumns int) int {
	termWidth := cfg.Width
	if termWidth <= 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // CI and pipes
		} else {
			termWidth = detectedWidth
		}
	}

	// Borders, separators and padding
	available := termWidth - fixedColumns - 10
	if available < minLabelWidth {
		return minLabelWidth
	}
	if available > maxLabelWidth {
		return maxLabelWidth
	}
	return available
}
