package iocache

import (
	"errors"
	"fmt"

	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/internal/parquet"
)

// ExecuteSessionExport exports sessions and probe hits from the store to Parquet files
// named outputFile + ".sessions.parquet" and outputFile + ".probe_hits.parquet".
func ExecuteSessionExport(store contract.SessionStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("session store is not configured")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get session status: %w", err)
	}
	if status.TotalSessions == 0 {
		return errors.New("no session data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total sessions: %d\n", status.TotalSessions)
	fmt.Printf("Total probe hits: %d\n", status.TableSizes[probeHitsTable])

	sessions, err := store.GetAllSessions()
	if err != nil {
		return fmt.Errorf("failed to retrieve sessions: %w", err)
	}
	hits, err := store.GetAllHits()
	if err != nil {
		return fmt.Errorf("failed to retrieve probe hits: %w", err)
	}

	sessionRows := parquet.ConvertSessionRecords(sessions)
	sessionsFile := outputFile + ".sessions.parquet"
	if err := parquet.WriteSessionsParquet(sessionRows, sessionsFile); err != nil {
		return fmt.Errorf("failed to write sessions: %w", err)
	}
	fmt.Printf("Exported %d sessions to: %s\n", len(sessionRows), sessionsFile)

	hitRows := parquet.ConvertHitRecords(hits)
	hitsFile := outputFile + ".probe_hits.parquet"
	if err := parquet.WriteProbeHitsParquet(hitRows, hitsFile); err != nil {
		return fmt.Errorf("failed to write probe hits: %w", err)
	}
	fmt.Printf("Exported %d probe hits to: %s\n", len(hitRows), hitsFile)

	return nil
}
