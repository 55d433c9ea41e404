package store

import (
	"sort"
	"sync"
	"time"

	"tempo/internal/errors"
	"tempo/internal/model"
)

type habitCollection struct {
	Habits map[string]*model.Habit `json:"habits"`
}

type HabitStore struct {
	path string
	data habitCollection
	mu   sync.RWMutex
}

func NewHabitStore(path string) (*HabitStore, error) {
	s := &HabitStore{
		path: path,
		data: habitCollection{Habits: make(map[string]*model.Habit)},
	}
	if err := loadJSON(path, &s.data); err != nil {
		return nil, err
	}
	if s.data.Habits == nil {
		s.data.Habits = make(map[string]*model.Habit)
	}
	return s, nil
}

func (s *HabitStore) save() error {
	return saveJSON(s.path, s.data)
}

func (s *HabitStore) Get(id string) (model.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.data.Habits[id]
	if !ok || h.Deleted {
		return model.Habit{}, errors.NotFound("habit " + id)
	}
	out := *h
	out.History = copyHistory(h.History)
	return out, nil
}

func (s *HabitStore) Add(h model.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data.Habits[h.ID]; exists {
		return errors.Conflict("habit " + h.ID + " already exists")
	}
	if h.History == nil {
		h.History = make(map[string]float64)
	}
	now := time.Now()
	h.CreatedAt = now
	h.UpdatedAt = now
	s.data.Habits[h.ID] = &h
	return s.save()
}

func (s *HabitStore) Update(h model.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.data.Habits[h.ID]
	if !ok || prev.Deleted {
		return errors.NotFound("habit " + h.ID)
	}
	h.CreatedAt = prev.CreatedAt
	h.UpdatedAt = time.Now()
	s.data.Habits[h.ID] = &h
	return s.save()
}

// UpdateHistory replaces the habit's history map and streak in one write.
func (s *HabitStore) UpdateHistory(id string, history map[string]float64, streakLen int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.data.Habits[id]
	if !ok || h.Deleted {
		return errors.NotFound("habit " + id)
	}
	h.History = copyHistory(history)
	h.Streak = streakLen
	h.UpdatedAt = time.Now()
	return s.save()
}

func (s *HabitStore) SoftDelete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.data.Habits[id]
	if !ok || h.Deleted {
		return errors.NotFound("habit " + id)
	}
	h.Deleted = true
	h.UpdatedAt = time.Now()
	return s.save()
}

// List returns non-deleted habits ordered by name.
func (s *HabitStore) List() []model.Habit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	habits := make([]model.Habit, 0, len(s.data.Habits))
	for _, h := range s.data.Habits {
		if h.Deleted {
			continue
		}
		out := *h
		out.History = copyHistory(h.History)
		habits = append(habits, out)
	}
	sort.Slice(habits, func(i, j int) bool {
		return habits[i].Name < habits[j].Name
	})
	return habits
}

func copyHistory(history map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(history))
	for k, v := range history {
		out[k] = v
	}
	return out
}
