// Package completion turns a finished session into its durable side
// effects: the focus session record, task completion, routine stamping and
// habit progress. Planning is pure and returns an explicit command list;
// applying executes the commands against the repositories, so each
// collaborator's update logic is testable apart from session mechanics.
package completion

import (
	stderrors "errors"
	"log/slog"
	"math"
	"time"

	"tempo/internal/errors"
	"tempo/internal/model"
	"tempo/internal/streak"

	"github.com/oklog/ulid/v2"
)

// Command is one side-effect mutation produced by a finished session.
type Command interface {
	command()
}

// CompleteTask marks the task wrapped by a one-shot session as done.
type CompleteTask struct {
	TaskID string
}

// StampRoutine sets the routine's completion timestamp.
type StampRoutine struct {
	RoutineID string
}

// IncrementHabit adds a session's accumulated focus time to a habit's entry
// for today. Seconds is the sum of actual durations across every step
// linked to the habit.
type IncrementHabit struct {
	HabitID string
	Seconds int
}

func (CompleteTask) command()   {}
func (StampRoutine) command()   {}
func (IncrementHabit) command() {}

// TaskRepo is the slice of the task repository the handler needs.
type TaskRepo interface {
	Get(id string) (model.Task, error)
	Update(t model.Task) error
}

// HabitRepo is the slice of the habit repository the handler needs.
type HabitRepo interface {
	Get(id string) (model.Habit, error)
	UpdateHistory(id string, history map[string]float64, streakLen int) error
}

// RoutineRepo is the slice of the routine repository the handler needs.
type RoutineRepo interface {
	MarkCompleted(id string, at time.Time) error
}

// RecordSink receives finished session records, append-only.
type RecordSink interface {
	Append(rec model.FocusSessionRecord) error
}

// Plan computes the session record and the side-effect commands for a
// finished session. It never touches storage.
//
// The record's start time is derived backwards from the total actual
// duration so it reflects worked time, not when the session was opened.
func Plan(ref model.RoutineRef, steps []model.StepDefinition, logs []model.StepLogEntry, now time.Time) (model.FocusSessionRecord, []Command) {
	total := 0
	for _, l := range logs {
		total += l.ActualDuration
	}

	totalSteps := len(steps)
	if len(logs) > totalSteps {
		// Steps completed earlier can have been removed from the sequence
		// afterwards; the log is the authority on how many ran.
		totalSteps = len(logs)
	}

	rec := model.FocusSessionRecord{
		ID:              ulid.Make().String(),
		RoutineID:       ref.ID,
		RoutineTitle:    ref.Title,
		StartTime:       now.UnixMilli() - int64(total)*1000,
		EndTime:         now.UnixMilli(),
		DurationSeconds: total,
		CompletedSteps:  len(logs),
		TotalSteps:      totalSteps,
		Logs:            append([]model.StepLogEntry(nil), logs...),
	}

	var cmds []Command
	if ref.OneShot {
		if taskID := oneShotTaskID(steps); taskID != "" {
			cmds = append(cmds, CompleteTask{TaskID: taskID})
		}
	} else if ref.ID != "" {
		cmds = append(cmds, StampRoutine{RoutineID: ref.ID})
	}

	// A session can touch several habits when different steps link to
	// different ones; accumulate per habit, in first-seen order.
	habitSeconds := make(map[string]int)
	var habitOrder []string
	byStep := make(map[string]model.StepDefinition, len(steps))
	for _, s := range steps {
		byStep[s.ID] = s
	}
	for _, l := range logs {
		step, ok := byStep[l.StepID]
		if !ok || step.LinkedHabitID == "" {
			continue
		}
		if _, seen := habitSeconds[step.LinkedHabitID]; !seen {
			habitOrder = append(habitOrder, step.LinkedHabitID)
		}
		habitSeconds[step.LinkedHabitID] += l.ActualDuration
	}
	for _, id := range habitOrder {
		cmds = append(cmds, IncrementHabit{HabitID: id, Seconds: habitSeconds[id]})
	}

	return rec, cmds
}

func oneShotTaskID(steps []model.StepDefinition) string {
	for _, s := range steps {
		if s.LinkedTaskID != "" {
			return s.LinkedTaskID
		}
	}
	return ""
}

// Applier executes completion commands against the repositories.
type Applier struct {
	Tasks    TaskRepo
	Habits   HabitRepo
	Routines RoutineRepo
	Records  RecordSink
}

// Apply persists the record, then runs every command. A failing step is
// logged and does not stop the rest; the joined error reports everything
// that went wrong.
func (a *Applier) Apply(rec model.FocusSessionRecord, cmds []Command, now time.Time) error {
	var errs []error

	if a.Records != nil {
		if err := a.Records.Append(rec); err != nil {
			slog.Error("Failed to write session record", "record", rec.ID, "error", err)
			errs = append(errs, errors.Wrap(err, "append record"))
		}
	}

	for _, cmd := range cmds {
		if err := a.apply(cmd, now); err != nil {
			slog.Error("Completion side effect failed", "error", err)
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

func (a *Applier) apply(cmd Command, now time.Time) error {
	switch c := cmd.(type) {
	case CompleteTask:
		return a.completeTask(c.TaskID, now)
	case StampRoutine:
		if a.Routines == nil {
			return nil
		}
		return a.Routines.MarkCompleted(c.RoutineID, now)
	case IncrementHabit:
		return a.incrementHabit(c.HabitID, c.Seconds, now)
	default:
		return errors.Internal("unknown completion command")
	}
}

func (a *Applier) completeTask(taskID string, now time.Time) error {
	if a.Tasks == nil {
		return nil
	}
	t, err := a.Tasks.Get(taskID)
	if err != nil {
		return errors.Wrap(err, "load linked task")
	}
	t.IsCompleted = true
	t.CompletedAt = &now
	return a.Tasks.Update(t)
}

func (a *Applier) incrementHabit(habitID string, seconds int, now time.Time) error {
	if a.Habits == nil {
		return nil
	}
	h, err := a.Habits.Get(habitID)
	if err != nil {
		return errors.Wrap(err, "load linked habit")
	}

	history := make(map[string]float64, len(h.History)+1)
	for k, v := range h.History {
		history[k] = v
	}

	key := model.DayKey(now)
	prev := history[key]
	if prev == model.SkipSentinel {
		// An explicit skip is overridden by actual work.
		prev = 0
	}

	var next float64
	if h.Goal == model.GoalCount {
		next = prev + 1
	} else {
		next = prev + float64(seconds)/60.0
	}
	history[key] = math.Round(next*100) / 100

	streakLen := streak.WithHistory(h, history, now)
	return a.Habits.UpdateHistory(habitID, history, streakLen)
}
