package iocache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/schema"
)

// snapshotFormatVersion is bumped whenever the stored series encoding changes.
const snapshotFormatVersion = 1

// ErrSnapshotNotFound is returned when a requested target has no snapshot.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SaveSeries stores each series under its target.
func SaveSeries(store contract.SnapshotStore, series []schema.Series, now time.Time) error {
	for _, s := range series {
		if s.Target == "" {
			return errors.New("cannot snapshot a series without a target")
		}
		value, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("failed to encode series %q: %w", s.Target, err)
		}
		if err := store.Set(s.Target, value, snapshotFormatVersion, now.Unix()); err != nil {
			return fmt.Errorf("failed to store series %q: %w", s.Target, err)
		}
	}
	return nil
}

// LoadSeries reads the named targets back, or every stored series when none are named.
func LoadSeries(store contract.SnapshotStore, targets ...string) ([]schema.Series, error) {
	if len(targets) == 0 {
		keys, err := store.Keys()
		if err != nil {
			return nil, err
		}
		targets = keys
	}

	series := make([]schema.Series, 0, len(targets))
	for _, target := range targets {
		value, version, _, err := store.Get(target)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, target)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read series %q: %w", target, err)
		}
		if version != snapshotFormatVersion {
			return nil, fmt.Errorf("series %q has snapshot version %d, expected %d", target, version, snapshotFormatVersion)
		}
		var s schema.Series
		if err := json.Unmarshal(value, &s); err != nil {
			return nil, fmt.Errorf("failed to decode series %q: %w", target, err)
		}
		series = append(series, s)
	}
	return series, nil
}
