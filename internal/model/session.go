package model

// StepLogEntry records one finalized step. Exactly one entry is produced per
// step that is ever completed, in step order.
type StepLogEntry struct {
	StepID           string `json:"step_id"`
	Title            string `json:"title"`
	ExpectedDuration int    `json:"expected_duration"`
	ActualDuration   int    `json:"actual_duration"`
}

// RoutineRef identifies what a session is running. OneShot marks a
// synthesized single-step wrapper around a lone task or habit, as opposed to
// a real stored routine.
type RoutineRef struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	OneShot bool   `json:"one_shot,omitempty"`
}

// SessionSnapshot is a paused session persisted for later resumption. It
// exists only while paused: created on save, consumed on resume, or
// discarded explicitly.
type SessionSnapshot struct {
	ID                string           `json:"id"`
	Routine           RoutineRef       `json:"routine"`
	Steps             []StepDefinition `json:"steps"`
	CurrentStepIndex  int              `json:"current_step_index"`
	TimeElapsedInStep int              `json:"time_elapsed_in_step"`
	StepLogs          []StepLogEntry   `json:"step_logs"`
	PausedAt          int64            `json:"paused_at"` // epoch millis
}

// FocusSessionRecord is the append-only outcome of a finished session.
// StartTime is derived as EndTime minus total actual duration, so it
// reflects worked time rather than when the session was opened.
type FocusSessionRecord struct {
	ID              string         `json:"id"`
	RoutineID       string         `json:"routine_id"`
	RoutineTitle    string         `json:"routine_title"`
	StartTime       int64          `json:"start_time"` // epoch millis
	EndTime         int64          `json:"end_time"`   // epoch millis
	DurationSeconds int            `json:"duration_seconds"`
	CompletedSteps  int            `json:"completed_steps"`
	TotalSteps      int            `json:"total_steps"`
	Logs            []StepLogEntry `json:"logs"`
}
