package store

import (
	"fmt"
	"path/filepath"
	"testing"

	"tempo/internal/errors"
	"tempo/internal/model"
)

func tempSnapshotStore(t *testing.T, max int) *SnapshotStore {
	t.Helper()
	st, err := NewSnapshotStore(filepath.Join(t.TempDir(), "snapshots.json"), max)
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func snap(id string, pausedAt int64) model.SessionSnapshot {
	return model.SessionSnapshot{
		ID:       id,
		Routine:  model.RoutineRef{ID: "r1", Title: "Morning"},
		PausedAt: pausedAt,
	}
}

func TestSnapshotStore_AddGetRemove(t *testing.T) {
	st := tempSnapshotStore(t, 10)

	if err := st.Add(snap("s1", 1000)); err != nil {
		t.Fatal(err)
	}

	got, err := st.Get("s1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Routine.Title != "Morning" {
		t.Errorf("Snapshot round-trip mismatch: %+v", got)
	}

	if err := st.Remove("s1"); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Get("s1"); !errors.IsCategory(err, errors.ErrNotFound) {
		t.Errorf("Expected not found after remove, got %v", err)
	}
	if err := st.Remove("s1"); !errors.IsCategory(err, errors.ErrNotFound) {
		t.Errorf("Expected not found on double remove, got %v", err)
	}
}

func TestSnapshotStore_CapEvictsOldest(t *testing.T) {
	st := tempSnapshotStore(t, 3)

	for i := 1; i <= 5; i++ {
		if err := st.Add(snap(fmt.Sprintf("s%d", i), int64(i*1000))); err != nil {
			t.Fatal(err)
		}
	}

	list := st.List()
	if len(list) != 3 {
		t.Fatalf("Expected cap of 3, got %d", len(list))
	}
	for _, old := range []string{"s1", "s2"} {
		if _, err := st.Get(old); !errors.IsCategory(err, errors.ErrNotFound) {
			t.Errorf("Oldest snapshot %s should have been evicted", old)
		}
	}
	if _, err := st.Get("s5"); err != nil {
		t.Errorf("Newest snapshot missing: %v", err)
	}
}

func TestSnapshotStore_ListNewestFirst(t *testing.T) {
	st := tempSnapshotStore(t, 10)
	for i := 1; i <= 3; i++ {
		if err := st.Add(snap(fmt.Sprintf("s%d", i), int64(i*1000))); err != nil {
			t.Fatal(err)
		}
	}

	list := st.List()
	if list[0].ID != "s3" || list[2].ID != "s1" {
		t.Errorf("Wrong order: %s ... %s", list[0].ID, list[2].ID)
	}
}
