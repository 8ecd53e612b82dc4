package recovery

import (
	"encoding/json"
	"fmt"
)

// CrashInfo records one fatal signal caught by the compositor, per
// spec.md 4.9: the signal number, a message, and the most recent
// snapshot id available at the time (so an external restart can decide
// whether to restore from it).
type CrashInfo struct {
	ID             string   `json:"id"`
	Timestamp      int64    `json:"timestamp"`
	Signal         int      `json:"signal"`
	Message        string   `json:"message"`
	StackTrace     []string `json:"stack_trace,omitempty"`
	LastSnapshotID *string  `json:"last_snapshot_id,omitempty"`
}

// NewCrashInfo creates a crash record stamped with id, signal, message
// and the current time.
func NewCrashInfo(id string, timestampUnix int64, signal int, message string) CrashInfo {
	return CrashInfo{
		ID:        id,
		Timestamp: timestampUnix,
		Signal:    signal,
		Message:   message,
	}
}

// ToJSON serializes a single crash record as pretty-printed JSON.
func (c CrashInfo) ToJSON() ([]byte, error) {
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("recovery: marshal crash info: %w", err)
	}
	return b, nil
}
