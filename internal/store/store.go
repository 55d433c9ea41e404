// Package store persists every collection as a JSON file under the data
// directory. Writes replace the whole file atomically; reads fall back to
// an empty collection when the file is missing or malformed, so a damaged
// file degrades to a fresh start instead of a crash.
package store

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/natefinch/atomic"
)

// loadJSON reads path into v. A missing file is fine; malformed content is
// logged and ignored so the caller keeps its empty default.
func loadJSON(path string, v interface{}) error {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(content) == 0 {
		return nil
	}
	if err := json.Unmarshal(content, v); err != nil {
		slog.Warn("Failed to parse collection, starting fresh", "path", path, "error", err)
	}
	return nil
}

func saveJSON(path string, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(b))
}

// Stores bundles every collection of the data directory behind one lock.
type Stores struct {
	Tasks     *TaskStore
	Habits    *HabitStore
	Routines  *RoutineStore
	Records   *RecordStore
	Snapshots *SnapshotStore

	lock *FileLock
}

// Open initializes the data directory, acquires its lock and loads every
// collection. maxSnapshots caps the suspended-session store.
func Open(dataDir string, lockCfg *FileLockConfig, maxSnapshots int) (*Stores, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	lock, err := NewFileLock(dataDir, lockCfg)
	if err != nil {
		return nil, err
	}

	tasks, err := NewTaskStore(tasksPath(dataDir))
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	habits, err := NewHabitStore(habitsPath(dataDir))
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	routines, err := NewRoutineStore(routinesPath(dataDir))
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	records, err := NewRecordStore(recordsPath(dataDir))
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	snapshots, err := NewSnapshotStore(snapshotsPath(dataDir), maxSnapshots)
	if err != nil {
		lock.Unlock()
		return nil, err
	}

	return &Stores{
		Tasks:     tasks,
		Habits:    habits,
		Routines:  routines,
		Records:   records,
		Snapshots: snapshots,
		lock:      lock,
	}, nil
}

// Close releases the data directory lock.
func (s *Stores) Close() {
	if s.lock != nil {
		s.lock.Unlock()
	}
}
