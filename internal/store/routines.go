package store

import (
	"sort"
	"sync"
	"time"

	"tempo/internal/errors"
	"tempo/internal/model"

	"github.com/robfig/cron/v3"
)

type routineCollection struct {
	Routines map[string]*model.Routine `json:"routines"`
}

type RoutineStore struct {
	path string
	data routineCollection
	mu   sync.RWMutex
}

func NewRoutineStore(path string) (*RoutineStore, error) {
	s := &RoutineStore{
		path: path,
		data: routineCollection{Routines: make(map[string]*model.Routine)},
	}
	if err := loadJSON(path, &s.data); err != nil {
		return nil, err
	}
	if s.data.Routines == nil {
		s.data.Routines = make(map[string]*model.Routine)
	}
	return s, nil
}

func (s *RoutineStore) save() error {
	return saveJSON(s.path, s.data)
}

func (s *RoutineStore) Get(id string) (model.Routine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.data.Routines[id]
	if !ok || r.Deleted {
		return model.Routine{}, errors.NotFound("routine " + id)
	}
	out := *r
	out.Steps = append([]model.StepDefinition(nil), r.Steps...)
	return out, nil
}

func (s *RoutineStore) Add(r model.Routine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data.Routines[r.ID]; exists {
		return errors.Conflict("routine " + r.ID + " already exists")
	}
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now
	s.data.Routines[r.ID] = &r
	return s.save()
}

func (s *RoutineStore) Update(r model.Routine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.data.Routines[r.ID]
	if !ok || prev.Deleted {
		return errors.NotFound("routine " + r.ID)
	}
	r.CreatedAt = prev.CreatedAt
	r.UpdatedAt = time.Now()
	s.data.Routines[r.ID] = &r
	return s.save()
}

// AppendStep adds a step definition to a routine template.
func (s *RoutineStore) AppendStep(id string, step model.StepDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.data.Routines[id]
	if !ok || r.Deleted {
		return errors.NotFound("routine " + id)
	}
	r.Steps = append(r.Steps, step)
	r.UpdatedAt = time.Now()
	return s.save()
}

// SetSchedule validates the cron spec, stores it and stamps NextRun.
func (s *RoutineStore) SetSchedule(id string, spec string) (time.Time, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return time.Time{}, errors.InvalidInput("invalid cron schedule " + spec)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.data.Routines[id]
	if !ok || r.Deleted {
		return time.Time{}, errors.NotFound("routine " + id)
	}
	r.Schedule = spec
	r.NextRun = schedule.Next(time.Now())
	r.UpdatedAt = time.Now()
	if err := s.save(); err != nil {
		return time.Time{}, err
	}
	return r.NextRun, nil
}

// MarkCompleted stamps the routine's completion time. Scheduled routines
// also get their NextRun advanced past now.
func (s *RoutineStore) MarkCompleted(id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.data.Routines[id]
	if !ok || r.Deleted {
		return errors.NotFound("routine " + id)
	}
	completedAt := at
	r.CompletedAt = &completedAt
	if r.Schedule != "" {
		if schedule, err := cron.ParseStandard(r.Schedule); err == nil {
			r.NextRun = schedule.Next(at)
		}
	}
	r.UpdatedAt = time.Now()
	return s.save()
}

func (s *RoutineStore) SoftDelete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.data.Routines[id]
	if !ok || r.Deleted {
		return errors.NotFound("routine " + id)
	}
	r.Deleted = true
	r.UpdatedAt = time.Now()
	return s.save()
}

// List returns non-deleted routines ordered by title.
func (s *RoutineStore) List() []model.Routine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	routines := make([]model.Routine, 0, len(s.data.Routines))
	for _, r := range s.data.Routines {
		if r.Deleted {
			continue
		}
		out := *r
		out.Steps = append([]model.StepDefinition(nil), r.Steps...)
		routines = append(routines, out)
	}
	sort.Slice(routines, func(i, j int) bool {
		return routines[i].Title < routines[j].Title
	})
	return routines
}
