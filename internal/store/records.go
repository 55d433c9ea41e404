package store

import (
	"sync"

	"tempo/internal/model"
)

type recordCollection struct {
	Records []model.FocusSessionRecord `json:"records"`
}

// RecordStore holds finished session records. Append-only: records are
// never updated or removed once written.
type RecordStore struct {
	path string
	data recordCollection
	mu   sync.RWMutex
}

func NewRecordStore(path string) (*RecordStore, error) {
	s := &RecordStore{path: path}
	if err := loadJSON(path, &s.data); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *RecordStore) Append(rec model.FocusSessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Records = append(s.data.Records, rec)
	return saveJSON(s.path, s.data)
}

// List returns all records in the order they were written.
func (s *RecordStore) List() []model.FocusSessionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.FocusSessionRecord(nil), s.data.Records...)
}
