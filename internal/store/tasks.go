package store

import (
	"sort"
	"sync"
	"time"

	"tempo/internal/errors"
	"tempo/internal/model"
)

type taskCollection struct {
	Tasks map[string]*model.Task `json:"tasks"`
}

type TaskStore struct {
	path string
	data taskCollection
	mu   sync.RWMutex
}

func NewTaskStore(path string) (*TaskStore, error) {
	s := &TaskStore{
		path: path,
		data: taskCollection{Tasks: make(map[string]*model.Task)},
	}
	if err := loadJSON(path, &s.data); err != nil {
		return nil, err
	}
	if s.data.Tasks == nil {
		s.data.Tasks = make(map[string]*model.Task)
	}
	return s, nil
}

func (s *TaskStore) save() error {
	return saveJSON(s.path, s.data)
}

func (s *TaskStore) Get(id string) (model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.data.Tasks[id]
	if !ok || t.Deleted {
		return model.Task{}, errors.NotFound("task " + id)
	}
	return *t, nil
}

func (s *TaskStore) Add(t model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data.Tasks[t.ID]; exists {
		return errors.Conflict("task " + t.ID + " already exists")
	}
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	s.data.Tasks[t.ID] = &t
	return s.save()
}

// AddAll inserts a batch in one write, used for recurrence expansion.
func (s *TaskStore) AddAll(tasks []model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, t := range tasks {
		if _, exists := s.data.Tasks[t.ID]; exists {
			return errors.Conflict("task " + t.ID + " already exists")
		}
		t.CreatedAt = now
		t.UpdatedAt = now
		task := t
		s.data.Tasks[t.ID] = &task
	}
	return s.save()
}

func (s *TaskStore) Update(t model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.data.Tasks[t.ID]
	if !ok || prev.Deleted {
		return errors.NotFound("task " + t.ID)
	}
	t.CreatedAt = prev.CreatedAt
	t.UpdatedAt = time.Now()
	s.data.Tasks[t.ID] = &t
	return s.save()
}

// ToggleComplete flips the completion state of a task.
func (s *TaskStore) ToggleComplete(id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.data.Tasks[id]
	if !ok || t.Deleted {
		return model.Task{}, errors.NotFound("task " + id)
	}
	if t.IsCompleted {
		t.IsCompleted = false
		t.CompletedAt = nil
	} else {
		now := time.Now()
		t.IsCompleted = true
		t.CompletedAt = &now
	}
	t.UpdatedAt = time.Now()
	if err := s.save(); err != nil {
		return model.Task{}, err
	}
	return *t, nil
}

// SoftDelete hides a task without destroying its history.
func (s *TaskStore) SoftDelete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.data.Tasks[id]
	if !ok || t.Deleted {
		return errors.NotFound("task " + id)
	}
	t.Deleted = true
	t.UpdatedAt = time.Now()
	return s.save()
}

// List returns non-deleted tasks ordered by date, then creation time.
func (s *TaskStore) List() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]model.Task, 0, len(s.data.Tasks))
	for _, t := range s.data.Tasks {
		if t.Deleted {
			continue
		}
		tasks = append(tasks, *t)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].Date != tasks[j].Date {
			return tasks[i].Date < tasks[j].Date
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks
}
