package store

import (
	"log/slog"
	"sort"
	"sync"

	"tempo/internal/errors"
	"tempo/internal/model"
)

type snapshotCollection struct {
	Snapshots []model.SessionSnapshot `json:"snapshots"`
}

// SnapshotStore persists suspended sessions. It keeps at most max
// entries, evicting the oldest by suspension time when the cap is hit.
type SnapshotStore struct {
	path string
	max  int
	data snapshotCollection
	mu   sync.RWMutex
}

func NewSnapshotStore(path string, max int) (*SnapshotStore, error) {
	s := &SnapshotStore{path: path, max: max}
	if err := loadJSON(path, &s.data); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SnapshotStore) Add(snap model.SessionSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Snapshots = append(s.data.Snapshots, snap)
	if s.max > 0 && len(s.data.Snapshots) > s.max {
		sort.Slice(s.data.Snapshots, func(i, j int) bool {
			return s.data.Snapshots[i].PausedAt < s.data.Snapshots[j].PausedAt
		})
		evicted := s.data.Snapshots[:len(s.data.Snapshots)-s.max]
		for _, old := range evicted {
			slog.Warn("evicting oldest session snapshot", "id", old.ID, "routine", old.Routine.Title)
		}
		s.data.Snapshots = append([]model.SessionSnapshot(nil), s.data.Snapshots[len(s.data.Snapshots)-s.max:]...)
	}
	return saveJSON(s.path, s.data)
}

func (s *SnapshotStore) Get(id string) (model.SessionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, snap := range s.data.Snapshots {
		if snap.ID == id {
			return snap, nil
		}
	}
	return model.SessionSnapshot{}, errors.NotFound("snapshot not found: " + id)
}

func (s *SnapshotStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, snap := range s.data.Snapshots {
		if snap.ID == id {
			s.data.Snapshots = append(s.data.Snapshots[:i], s.data.Snapshots[i+1:]...)
			return saveJSON(s.path, s.data)
		}
	}
	return errors.NotFound("snapshot not found: " + id)
}

// List returns snapshots newest first.
func (s *SnapshotStore) List() []model.SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]model.SessionSnapshot(nil), s.data.Snapshots...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].PausedAt > out[j].PausedAt
	})
	return out
}
