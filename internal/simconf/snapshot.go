package simconf

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/google/renameio/v2"

	"github.com/mdprep/mdprep/internal/ptable"
)

// Snapshot represents a point-in-time capture of a resolved configuration.
// It records where the configuration came from and when it was resolved.
type Snapshot struct {
	Source     string    `json:"source,omitempty"`
	ResolvedAt time.Time `json:"resolved_at"`
	Config     Config    `json:"config"`
}

// NewSnapshot captures a resolved configuration with the current time.
func NewSnapshot(source string, cfg Config) Snapshot {
	return Snapshot{
		Source:     source,
		ResolvedAt: time.Now().UTC(),
		Config:     cfg,
	}
}

// ValidateSnapshot performs validation checks on a snapshot before it is
// re-ingested. It verifies that:
//   - All LJ parameters are finite numbers
//   - All elements are part of the compiled-in table
//
// Returns an error if validation fails, nil otherwise.
func ValidateSnapshot(snapshot Snapshot) error {
	lj := snapshot.Config.LJ
	for _, field := range []struct {
		name  string
		value float64
	}{
		{"epsilon", lj.Epsilon},
		{"sigma", lj.Sigma},
		{"cutoff", lj.Cutoff},
	} {
		if math.IsNaN(field.value) || math.IsInf(field.value, 0) {
			return fmt.Errorf("snapshot lj_params field '%s' is not finite: %v", field.name, field.value)
		}
	}

	for i, symbol := range snapshot.Config.Elements {
		if _, ok := ptable.AtomicNumber(symbol); !ok {
			return fmt.Errorf("snapshot element at index %d is unknown: %s", i, symbol)
		}
	}

	return nil
}

// EncodeSnapshotJSON encodes a snapshot to JSON format.
// Returns the JSON bytes and any encoding error.
func EncodeSnapshotJSON(snapshot Snapshot) ([]byte, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshotJSON decodes a snapshot from JSON format.
// Returns the decoded snapshot and any decoding error.
func DecodeSnapshotJSON(data []byte) (Snapshot, error) {
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snapshot, nil
}

// WriteSnapshotFile writes a snapshot atomically and durably: the data is
// synced to a temporary file which then replaces the target, so a crash
// never leaves a truncated snapshot behind.
func WriteSnapshotFile(path string, snapshot Snapshot) error {
	data, err := EncodeSnapshotJSON(snapshot)
	if err != nil {
		return err
	}

	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending snapshot file: %w", err)
	}
	defer func() {
		// Removes the temp file when the replace below never happened
		_ = pending.Cleanup()
	}()

	if _, err := pending.Write(data); err != nil {
		return fmt.Errorf("write snapshot data: %w", err)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace snapshot file: %w", err)
	}

	return nil
}

// ReadSnapshotFile reads and validates a snapshot written by
// WriteSnapshotFile.
func ReadSnapshotFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot file: %w", err)
	}
	snapshot, err := DecodeSnapshotJSON(data)
	if err != nil {
		return Snapshot{}, err
	}
	if err := ValidateSnapshot(snapshot); err != nil {
		return Snapshot{}, err
	}
	return snapshot, nil
}
