package recovery

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testConfig(t *testing.T) Config {
	return Config{
		SnapshotInterval: time.Second,
		MaxSnapshots:     3,
		StoragePath:      t.TempDir(),
	}
}

func TestSnapshotCreation(t *testing.T) {
	m := NewManager(testConfig(t))
	if err := m.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	id, err := m.Snapshot(StateSnapshot{}, time.Unix(100, 0))
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if id == "" {
		t.Fatal("expected a non-empty snapshot id")
	}
	if m.Stats().TotalSnapshots != 1 {
		t.Fatalf("expected TotalSnapshots=1, got %d", m.Stats().TotalSnapshots)
	}
}

func TestSnapshotRestore(t *testing.T) {
	m := NewManager(testConfig(t))
	if err := m.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	s := StateSnapshot{Windows: []WindowSnapshot{{ID: 1, Title: "Test", Width: 100, Height: 100, Focused: true}}}
	id, err := m.Snapshot(s, time.Unix(100, 0))
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	restored, ok := m.RestoreLatest()
	if !ok {
		t.Fatal("expected a latest snapshot")
	}
	if restored.ID != id || len(restored.Windows) != 1 {
		t.Fatalf("unexpected restored snapshot: %+v", restored)
	}
}

func TestMaxSnapshotsRotatesOldest(t *testing.T) {
	cfg := testConfig(t)
	m := NewManager(cfg)
	if err := m.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	var ids []string
	for i := 0; i < 5; i++ {
		id, err := m.Snapshot(StateSnapshot{}, time.Unix(int64(100+i), 0))
		if err != nil {
			t.Fatalf("Snapshot: %v", err)
		}
		ids = append(ids, id)
	}

	if m.Stats().AvailableSnapshots != cfg.MaxSnapshots {
		t.Fatalf("expected %d retained snapshots, got %d", cfg.MaxSnapshots, m.Stats().AvailableSnapshots)
	}
	// The earliest two should have been rotated out, including their files.
	for _, id := range ids[:2] {
		if _, err := os.Stat(filepath.Join(cfg.StoragePath, snapshotFileName(id))); !os.IsNotExist(err) {
			t.Fatalf("expected rotated-out snapshot file %s to be removed", id)
		}
	}
	if _, ok := m.Restore(ids[len(ids)-1]); !ok {
		t.Fatal("expected the most recent snapshot to still be retained")
	}
}

func TestCrashRecording(t *testing.T) {
	m := NewManager(testConfig(t))
	if err := m.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	id, err := m.RecordCrash(11, "test crash", time.Unix(100, 0))
	if err != nil {
		t.Fatalf("RecordCrash: %v", err)
	}
	if id == "" {
		t.Fatal("expected a non-empty crash id")
	}
	if len(m.Crashes()) != 1 || m.Stats().TotalCrashes != 1 {
		t.Fatalf("expected one recorded crash, got %+v", m.Crashes())
	}
}

func TestSnapshotPersistenceAcrossManagerInstances(t *testing.T) {
	cfg := testConfig(t)

	first := NewManager(cfg)
	if err := first.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := first.Snapshot(StateSnapshot{}, time.Unix(100, 0)); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	second := NewManager(cfg)
	if err := second.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if second.Stats().AvailableSnapshots != 1 {
		t.Fatalf("expected the snapshot written by the first manager to be loaded, got %d", second.Stats().AvailableSnapshots)
	}
}

func TestShouldSnapshot(t *testing.T) {
	cfg := testConfig(t)
	cfg.SnapshotInterval = 100 * time.Millisecond
	m := NewManager(cfg)
	if err := m.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	start := time.Unix(1000, 0)
	if !m.ShouldSnapshot(start) {
		t.Fatal("expected ShouldSnapshot to be true before any snapshot exists")
	}
	if _, err := m.Snapshot(StateSnapshot{}, start); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if m.ShouldSnapshot(start.Add(50 * time.Millisecond)) {
		t.Fatal("expected ShouldSnapshot to be false before the interval elapses")
	}
	if !m.ShouldSnapshot(start.Add(150 * time.Millisecond)) {
		t.Fatal("expected ShouldSnapshot to be true once the interval elapses")
	}
}

func TestClearOldCrashes(t *testing.T) {
	m := NewManager(testConfig(t))
	if err := m.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	base := time.Unix(1000, 0)
	if _, err := m.RecordCrash(11, "crash 1", base); err != nil {
		t.Fatalf("RecordCrash: %v", err)
	}
	if _, err := m.RecordCrash(11, "crash 2", base.Add(50*time.Second)); err != nil {
		t.Fatalf("RecordCrash: %v", err)
	}

	// Clearing anything older than 10 minutes from "now" should keep both.
	if err := m.ClearOldCrashes(10*time.Minute, base.Add(60*time.Second)); err != nil {
		t.Fatalf("ClearOldCrashes: %v", err)
	}
	if len(m.Crashes()) != 2 {
		t.Fatalf("expected both crashes retained, got %d", len(m.Crashes()))
	}

	// Clearing with maxAge=0 relative to "now" drops everything older
	// than now.
	if err := m.ClearOldCrashes(0, base.Add(60*time.Second)); err != nil {
		t.Fatalf("ClearOldCrashes: %v", err)
	}
	if len(m.Crashes()) != 0 {
		t.Fatalf("expected all crashes cleared, got %d", len(m.Crashes()))
	}
}

func TestSnapshotSerializationRoundTrip(t *testing.T) {
	active := uint64(7)
	s := StateSnapshot{
		ID:        "abc-123",
		Timestamp: 42,
		Version:   "1",
		Windows: []WindowSnapshot{
			{ID: 1, Title: "Editor", X: 10, Y: 20, Width: 800, Height: 600, Workspace: 2, Floating: true, Focused: true},
		},
		Columns: []ColumnSnapshot{
			{ID: 2, Name: "col-2", Windows: []uint64{1}, Active: true},
		},
		ActiveWindow:    &active,
		ActiveWorkspace: 2,
	}

	data, err := s.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	restored, err := StateSnapshotFromJSON(data)
	if err != nil {
		t.Fatalf("StateSnapshotFromJSON: %v", err)
	}

	if restored.ID != s.ID || restored.Timestamp != s.Timestamp || restored.Version != s.Version {
		t.Fatalf("scalar fields did not round-trip: %+v", restored)
	}
	if len(restored.Windows) != 1 || restored.Windows[0] != s.Windows[0] {
		t.Fatalf("windows did not round-trip: %+v", restored.Windows)
	}
	if len(restored.Columns) != 1 || restored.Columns[0].ID != 2 || len(restored.Columns[0].Windows) != 1 {
		t.Fatalf("columns did not round-trip: %+v", restored.Columns)
	}
	if restored.ActiveWindow == nil || *restored.ActiveWindow != active {
		t.Fatalf("active window did not round-trip: %+v", restored.ActiveWindow)
	}
	if restored.ActiveWorkspace != 2 {
		t.Fatalf("active workspace did not round-trip: %d", restored.ActiveWorkspace)
	}
}

func TestRestoreSpecificSnapshot(t *testing.T) {
	m := NewManager(testConfig(t))
	if err := m.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	id1, err := m.Snapshot(StateSnapshot{}, time.Unix(100, 0))
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	id2, err := m.Snapshot(StateSnapshot{}, time.Unix(101, 0))
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	if s, ok := m.Restore(id1); !ok || s.ID != id1 {
		t.Fatalf("expected to restore snapshot %s, got %+v ok=%v", id1, s, ok)
	}
	if s, ok := m.Restore(id2); !ok || s.ID != id2 {
		t.Fatalf("expected to restore snapshot %s, got %+v ok=%v", id2, s, ok)
	}
}

func TestCrashWithSnapshot(t *testing.T) {
	m := NewManager(testConfig(t))
	if err := m.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	snapshotID, err := m.Snapshot(StateSnapshot{}, time.Unix(100, 0))
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if _, err := m.RecordCrash(11, "test crash", time.Unix(101, 0)); err != nil {
		t.Fatalf("RecordCrash: %v", err)
	}

	crashes := m.Crashes()
	if len(crashes) != 1 {
		t.Fatalf("expected one crash, got %d", len(crashes))
	}
	if crashes[0].LastSnapshotID == nil || *crashes[0].LastSnapshotID != snapshotID {
		t.Fatalf("expected crash to reference snapshot %s, got %+v", snapshotID, crashes[0].LastSnapshotID)
	}
}
