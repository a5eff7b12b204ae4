package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chartwerk/line-chart/schema"
	"github.com/fatih/color"
)

// Color variables for console output.
var (
	IncreasingColor = color.New(color.FgGreen, color.Bold) // rising transition
	DecreasingColor = color.New(color.FgRed, color.Bold)   // falling transition
	FlatColor       = color.New(color.FgCyan)              // unchanged value
	HitColor        = color.New(color.FgGreen)             // accepted crosshair hit
	MissColor       = color.New(color.FgYellow)            // rejected candidate
)

// GetColorDirection returns a colored direction label for console output (table).
func GetColorDirection(d schema.Direction) string {
	switch d {
	case schema.Increasing:
		return IncreasingColor.Sprint(string(d))
	case schema.Decreasing:
		return DecreasingColor.Sprint(string(d))
	default:
		return FlatColor.Sprint(string(d))
	}
}

// GetPlainHitLabel returns "hit" or "miss".
func GetPlainHitLabel(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// GetColorHitLabel returns a colored hit/miss label for console output (table).
func GetColorHitLabel(hit bool) string {
	if hit {
		return HitColor.Sprint(GetPlainHitLabel(hit))
	}
	return MissColor.Sprint(GetPlainHitLabel(hit))
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetSnapshotDBFilePath returns the path to the SQLite DB file for snapshot storage.
func GetSnapshotDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".linechart_snapshots.db"
	}
	return filepath.Join(homeDir, ".linechart_snapshots.db")
}

// GetSessionDBFilePath returns the path to the SQLite DB file for session storage.
func GetSessionDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".linechart_sessions.db"
	}
	return filepath.Join(homeDir, ".linechart_sessions.db")
}

// TruncateLabel truncates a label to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 so there is room for "..." and at least one character.
func TruncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return label
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
