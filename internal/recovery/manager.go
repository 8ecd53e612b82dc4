package recovery

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Config holds the snapshot manager's tunables (spec.md 4.9's "every
// ~30s (configurable)").
type Config struct {
	SnapshotInterval time.Duration
	MaxSnapshots     int
	StoragePath      string
}

// DefaultConfig returns Axiom's built-in recovery defaults.
func DefaultConfig() Config {
	return Config{
		SnapshotInterval: 30 * time.Second,
		MaxSnapshots:     10,
		StoragePath:      filepath.Join(os.TempDir(), "axiom", "snapshots"),
	}
}

// Stats reports recovery activity counters.
type Stats struct {
	TotalSnapshots     int
	TotalCrashes       int
	AvailableSnapshots int
}

const crashFileName = "crashes.json"

// Manager owns the on-disk snapshot queue and crash history.
type Manager struct {
	mu sync.Mutex

	config Config

	snapshots        []StateSnapshot // most recent first
	lastSnapshotTime time.Time
	crashes          []CrashInfo
	stats            Stats
}

// NewManager creates a recovery manager against config. Call Init before
// use.
func NewManager(config Config) *Manager {
	return &Manager{config: config}
}

// Init creates the storage directory and loads any snapshots/crash
// history left over from a previous run.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(m.config.StoragePath, 0o755); err != nil {
		return fmt.Errorf("recovery: create storage dir: %w", err)
	}
	if err := m.loadSnapshots(); err != nil {
		return err
	}
	return m.loadCrashes()
}

func (m *Manager) loadSnapshots() error {
	entries, err := os.ReadDir(m.config.StoragePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("recovery: read storage dir: %w", err)
	}

	var loaded []StateSnapshot
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || name == crashFileName {
			continue
		}
		data, err := os.ReadFile(filepath.Join(m.config.StoragePath, name))
		if err != nil {
			continue
		}
		snap, err := StateSnapshotFromJSON(data)
		if err != nil {
			continue
		}
		loaded = append(loaded, snap)
	}
	sort.Slice(loaded, func(i, j int) bool { return loaded[i].Timestamp > loaded[j].Timestamp })
	m.snapshots = loaded
	return nil
}

func (m *Manager) loadCrashes() error {
	path := filepath.Join(m.config.StoragePath, crashFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("recovery: read crash history: %w", err)
	}
	var crashes []CrashInfo
	if err := json.Unmarshal(data, &crashes); err != nil {
		return fmt.Errorf("recovery: parse crash history: %w", err)
	}
	m.crashes = crashes
	return nil
}

func snapshotFileName(id string) string {
	return fmt.Sprintf("snapshot_%s.json", id)
}

// Snapshot assigns s a fresh id and timestamp, writes it atomically to
// storage, and enqueues it, rotating out the oldest snapshot once
// MaxSnapshots is exceeded.
func (m *Manager) Snapshot(s StateSnapshot, now time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.ID = uuid.New().String()
	s.Timestamp = now.Unix()
	if s.Version == "" {
		s.Version = "1"
	}

	if err := m.writeAtomic(filepath.Join(m.config.StoragePath, snapshotFileName(s.ID)), mustJSON(s)); err != nil {
		return "", err
	}

	m.snapshots = append([]StateSnapshot{s}, m.snapshots...)
	for len(m.snapshots) > m.config.MaxSnapshots {
		old := m.snapshots[len(m.snapshots)-1]
		m.snapshots = m.snapshots[:len(m.snapshots)-1]
		_ = os.Remove(filepath.Join(m.config.StoragePath, snapshotFileName(old.ID)))
	}

	m.lastSnapshotTime = now
	m.stats.TotalSnapshots++
	return s.ID, nil
}

func mustJSON(s StateSnapshot) []byte {
	b, err := s.ToJSON()
	if err != nil {
		// ToJSON only fails on a type that cannot be marshaled, which
		// StateSnapshot's plain fields never are.
		panic(err)
	}
	return b
}

// writeAtomic writes data to path by writing a sibling temp file and
// renaming it into place, so a reader never observes a partially written
// snapshot (spec.md 4.9: "written atomically").
func (m *Manager) writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("recovery: write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("recovery: rename snapshot into place: %w", err)
	}
	return nil
}

// RestoreLatest returns the most recently taken snapshot, if any.
func (m *Manager) RestoreLatest() (StateSnapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.snapshots) == 0 {
		return StateSnapshot{}, false
	}
	return m.snapshots[0], true
}

// Restore returns the snapshot with the given id, if still retained.
func (m *Manager) Restore(id string) (StateSnapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.snapshots {
		if s.ID == id {
			return s, true
		}
	}
	return StateSnapshot{}, false
}

// RecordCrash appends a crash record (signal, message), tagging it with
// the most recent snapshot id if one exists, and persists the crash
// history to disk.
func (m *Manager) RecordCrash(signal int, message string, now time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	crash := NewCrashInfo(uuid.New().String(), now.Unix(), signal, message)
	if len(m.snapshots) > 0 {
		id := m.snapshots[0].ID
		crash.LastSnapshotID = &id
	}
	m.crashes = append(m.crashes, crash)
	m.stats.TotalCrashes++

	if err := m.saveCrashesLocked(); err != nil {
		return crash.ID, err
	}
	return crash.ID, nil
}

func (m *Manager) saveCrashesLocked() error {
	data, err := json.MarshalIndent(m.crashes, "", "  ")
	if err != nil {
		return fmt.Errorf("recovery: marshal crash history: %w", err)
	}
	return m.writeAtomic(filepath.Join(m.config.StoragePath, crashFileName), data)
}

// ShouldSnapshot reports whether at least SnapshotInterval has elapsed
// since the last snapshot (or none has ever been taken).
func (m *Manager) ShouldSnapshot(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastSnapshotTime.IsZero() {
		return true
	}
	return now.Sub(m.lastSnapshotTime) >= m.config.SnapshotInterval
}

// Stats returns a snapshot of recovery activity counters.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := m.stats
	stats.AvailableSnapshots = len(m.snapshots)
	return stats
}

// Crashes returns the recorded crash history, most-recent-last (append
// order), mirroring the on-disk order.
func (m *Manager) Crashes() []CrashInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]CrashInfo, len(m.crashes))
	copy(out, m.crashes)
	return out
}

// ClearOldCrashes drops crash records older than maxAge relative to now
// and persists the trimmed history.
func (m *Manager) ClearOldCrashes(maxAge time.Duration, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := now.Add(-maxAge).Unix()
	kept := m.crashes[:0:0]
	for _, c := range m.crashes {
		if c.Timestamp >= cutoff {
			kept = append(kept, c)
		}
	}
	m.crashes = kept
	return m.saveCrashesLocked()
}
