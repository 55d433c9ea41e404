package model

import "time"

// StepDefinition is one timed unit of work inside a routine. Definitions are
// immutable once created; a running session always works on copies.
type StepDefinition struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	DurationSeconds int    `json:"duration_seconds"`
	LinkedTaskID    string `json:"linked_task_id,omitempty"`
	LinkedHabitID   string `json:"linked_habit_id,omitempty"`
}

type Routine struct {
	ID    string           `json:"id"`
	Title string           `json:"title"`
	Steps []StepDefinition `json:"steps"`
	// Schedule is an optional cron spec ("0 9 * * 1-5"). NextRun caches the
	// next fire time and is restamped when a scheduled routine completes.
	Schedule    string     `json:"schedule,omitempty"`
	NextRun     time.Time  `json:"next_run"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Deleted     bool       `json:"deleted,omitempty"`
}
