package model

import "time"

// SkipSentinel is the reserved history value meaning the day was explicitly
// marked as skipped. Distinct from 0 (attempted, no progress) and from an
// absent key (no data).
const SkipSentinel float64 = -1

type GoalKind string

const (
	// GoalDuration habits accumulate minutes of focused work.
	GoalDuration GoalKind = "duration"
	// GoalCount habits count discrete completions.
	GoalCount GoalKind = "count"
)

// ElasticTiers are the graduated targets of an elastic habit.
type ElasticTiers struct {
	Mini  float64 `json:"mini"`
	Plus  float64 `json:"plus"`
	Elite float64 `json:"elite"`
}

type Habit struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Goal    GoalKind      `json:"goal"`
	Target  float64       `json:"target"`
	Elastic bool          `json:"elastic"`
	Tiers   *ElasticTiers `json:"tiers,omitempty"`
	// Days restricts the habit to specific weekdays. Empty means every day.
	Days []time.Weekday `json:"days,omitempty"`
	// History maps local day keys (YYYY-MM-DD) to logged values.
	History   map[string]float64 `json:"history"`
	Streak    int                `json:"streak"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	Deleted   bool               `json:"deleted,omitempty"`
}

// ScheduledOn reports whether the habit is due on the given day.
func (h Habit) ScheduledOn(t time.Time) bool {
	if len(h.Days) == 0 {
		return true
	}
	wd := t.Local().Weekday()
	for _, d := range h.Days {
		if d == wd {
			return true
		}
	}
	return false
}
