// Package report persists a TOML snapshot of the most recent run: which
// selections ran, what they resolved to, and the removal totals. The state
// file lets a later invocation (or an operator) see what the last sweep did
// without replaying the telemetry stream.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// DefaultPath is the conventional location for the last-run state file.
const DefaultPath = ".housekeeper/lastrun.toml"

// SelectionRecord describes one resolved selection of the run.
type SelectionRecord struct {
	Pattern  string    `toml:"pattern"`
	RefTime  string    `toml:"ref_time"`
	Resolved time.Time `toml:"resolved"`
	Revert   bool      `toml:"revert,omitempty"`
}

// RunState is the persisted outcome of one run.
type RunState struct {
	StartedAt  time.Time         `toml:"started_at"`
	FinishedAt time.Time         `toml:"finished_at"`
	DryRun     bool              `toml:"dry_run"`
	Removed    int               `toml:"removed"`
	Kept       int               `toml:"kept"`
	Excluded   int               `toml:"excluded"`
	Skipped    int               `toml:"skipped"`
	Selections []SelectionRecord `toml:"selections"`
}

// Load reads the state file at path. If the file does not exist it returns
// (nil, nil), allowing callers to distinguish "no previous run".
func Load(path string) (*RunState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("report: reading %s: %w", path, err)
	}

	var st RunState
	if err := toml.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("report: parsing %s: %w", path, err)
	}
	return &st, nil
}

// Save writes the run state to the given path, creating parent directories
// as needed.
func Save(path string, st *RunState) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("report: creating directory %s: %w", dir, err)
	}

	data, err := toml.Marshal(st)
	if err != nil {
		return fmt.Errorf("report: marshaling state: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("report: writing %s: %w", path, err)
	}
	return nil
}
