package model

import "time"

// DateLayout is the local-calendar day format used for task dates and
// habit history keys.
const DateLayout = "2006-01-02"

// DayKey returns the habit-history key for the local calendar day of t.
func DayKey(t time.Time) string {
	return t.Local().Format(DateLayout)
}

type RecurrenceType string

const (
	RecurrenceDaily        RecurrenceType = "daily"
	RecurrenceWeekly       RecurrenceType = "weekly"
	RecurrenceMonthly      RecurrenceType = "monthly"
	RecurrenceSpecificDays RecurrenceType = "specific_days"
)

// RecurrenceRule describes how a task repeats. Generated instances carry a
// zeroed rule (InstancesToGenerate = 0) so they never re-expand.
type RecurrenceRule struct {
	Type                RecurrenceType `json:"type"`
	Interval            int            `json:"interval"`
	DaysOfWeek          []time.Weekday `json:"days_of_week,omitempty"`
	InstancesToGenerate int            `json:"instances_to_generate"`
}

type Task struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Notes       string          `json:"notes,omitempty"`
	Date        string          `json:"date"` // YYYY-MM-DD, local calendar day
	IsCompleted bool            `json:"is_completed"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	SeriesID    string          `json:"series_id,omitempty"`
	Recurrence  *RecurrenceRule `json:"recurrence,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Deleted     bool            `json:"deleted,omitempty"`
}
