package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	progression "forge/internal/modules/progression/domain"
	"forge/internal/modules/session/adapter/out"
	"forge/internal/modules/session/domain"
)

func TestFileSnapshotStoreRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	store := out.NewFileSnapshotStore(path)

	snapshot := domain.Snapshot{
		History: []domain.Record{{
			ID: "s1", Date: "2026-08-20", Timestamp: 1766264400000,
			DurationMin: 25, AverageIntensity: 40.5, TaskTitle: "thesis", Successful: true,
		}},
		Stats:  progression.Stats{TotalSessions: 1, TotalMinutes: 25, CurrentStreak: 1, LongestStreak: 1, XP: 101, Level: 2, LastActiveDate: "2026-08-20"},
		Badges: []string{"perfect"},
	}
	if err := store.Save(context.Background(), snapshot); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.History) != 1 || loaded.History[0].ID != "s1" {
		t.Fatalf("history lost in round trip: %+v", loaded.History)
	}
	if loaded.Stats != snapshot.Stats {
		t.Fatalf("stats mismatch: %+v", loaded.Stats)
	}
	if len(loaded.Badges) != 1 || loaded.Badges[0] != "perfect" {
		t.Fatalf("badges mismatch: %v", loaded.Badges)
	}
}

func TestFileSnapshotStoreMissingFileIsEmpty(t *testing.T) {
	t.Parallel()
	store := out.NewFileSnapshotStore(filepath.Join(t.TempDir(), "missing.json"))
	snapshot, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(snapshot.History) != 0 || snapshot.Stats.TotalSessions != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snapshot)
	}
}

func TestFileSnapshotStoreCorruptFileErrors(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := out.NewFileSnapshotStore(path).Load(context.Background()); err == nil {
		t.Fatal("corrupt snapshot should surface an error")
	}
}

func TestFileSnapshotStoreLeavesNoTempFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := out.NewFileSnapshotStore(filepath.Join(dir, "snapshot.json"))
	if err := store.Save(context.Background(), domain.Snapshot{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", entry.Name())
		}
	}
}
