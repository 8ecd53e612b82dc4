// Package recovery implements Axiom's periodic state snapshotting and
// crash history (spec.md C9): a StateSnapshot of the window/column tree
// serialized to disk every ~30s, rotated by count, plus a CrashInfo
// record written when a termination signal is caught.
//
// Grounded on original_source/src/recovery.rs: the snapshot/crash shapes,
// the rotate-by-count policy, and the "most recent first" snapshot queue
// are carried over directly. Ids are github.com/google/uuid strings
// rather than the original's sequential counters (idiomatic Go avoids a
// process-global AtomicU64 for this); snapshot ordering for rotation and
// restore instead uses the Timestamp field and in-memory queue position.
package recovery

import (
	"encoding/json"
	"fmt"
)

// WindowSnapshot captures one window's recoverable state.
type WindowSnapshot struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Workspace int32  `json:"workspace"`
	Floating  bool   `json:"floating"`
	Focused   bool   `json:"focused"`
}

// ColumnSnapshot captures one workspace column's recoverable state.
type ColumnSnapshot struct {
	ID      int32    `json:"id"`
	Name    string   `json:"name"`
	Windows []uint64 `json:"windows"`
	Active  bool     `json:"active"`
}

// StateSnapshot is a complete point-in-time capture of the compositor's
// window/column tree, per spec.md 4.9.
type StateSnapshot struct {
	ID              string           `json:"id"`
	Timestamp       int64            `json:"timestamp"`
	Version         string           `json:"version"`
	Windows         []WindowSnapshot `json:"windows"`
	Columns         []ColumnSnapshot `json:"columns"`
	ActiveWindow    *uint64          `json:"active_window,omitempty"`
	ActiveWorkspace int32            `json:"active_workspace"`
}

// NewStateSnapshot creates an empty snapshot stamped with id, the current
// time, and version.
func NewStateSnapshot(id string, timestampUnix int64, version string) StateSnapshot {
	return StateSnapshot{
		ID:        id,
		Timestamp: timestampUnix,
		Version:   version,
	}
}

// ToJSON serializes the snapshot as pretty-printed JSON, per spec.md §6's
// snapshot file format.
func (s StateSnapshot) ToJSON() ([]byte, error) {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("recovery: marshal snapshot: %w", err)
	}
	return b, nil
}

// StateSnapshotFromJSON deserializes a snapshot previously produced by
// ToJSON.
func StateSnapshotFromJSON(data []byte) (StateSnapshot, error) {
	var s StateSnapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return StateSnapshot{}, fmt.Errorf("recovery: unmarshal snapshot: %w", err)
	}
	return s, nil
}

// Size estimates the snapshot's in-memory footprint, used only for
// diagnostics (nothing in the rotation policy depends on it; rotation is
// strictly by count per spec.md 4.9).
func (s StateSnapshot) Size() int {
	n := 0
	for _, w := range s.Windows {
		n += len(w.Title) + 64
	}
	n += len(s.Columns) * 48
	for _, c := range s.Columns {
		n += len(c.Windows) * 8
	}
	return n
}
