// Package session implements the focus-session engine: an explicit state
// machine over an ordered sequence of timed steps, driven by clock ticks and
// user commands, with pause/suspend/resume semantics.
package session

import (
	"time"

	"tempo/internal/errors"
	"tempo/internal/model"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhasePaused
	PhaseFinished
	PhaseCanceled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseFinished:
		return "finished"
	case PhaseCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// State holds one live session. All fields are owned exclusively by the
// engine that created the state; mutation happens only through the
// transition methods below, which keep the invariants:
//
//	0 <= Index < len(Steps) while the session is active
//	Elapsed >= 0 (overtime past the planned duration is permitted)
//	exactly one log entry per step ever completed
type State struct {
	Phase   Phase
	Routine model.RoutineRef
	Steps   []model.StepDefinition
	Index   int
	Elapsed int
	Logs    []model.StepLogEntry
}

func NewState() *State {
	return &State{Phase: PhaseIdle}
}

// Start begins a session over a copy of the given steps. Valid only when no
// session is active.
func (s *State) Start(ref model.RoutineRef, steps []model.StepDefinition) error {
	if s.Phase == PhaseRunning || s.Phase == PhasePaused {
		return errors.Conflict("session already active")
	}
	if len(steps) == 0 {
		return errors.InvalidInput("routine has no steps")
	}

	// Copy so editing the sequence mid-session never touches the template.
	s.Steps = append([]model.StepDefinition(nil), steps...)
	s.Routine = ref
	s.Index = 0
	s.Elapsed = 0
	s.Logs = nil
	s.Phase = PhaseRunning
	return nil
}

// Tick adds one second of elapsed time to the current step. A tick arriving
// in any phase but Running is discarded, not queued: late ticks after a
// pause must not count.
func (s *State) Tick() {
	if s.Phase != PhaseRunning {
		return
	}
	s.Elapsed++
}

// CompleteStep finalizes the log entry for the current step and either
// advances to the next step or, on the last one, transitions to Finished.
func (s *State) CompleteStep() (finished bool, err error) {
	if s.Phase != PhaseRunning && s.Phase != PhasePaused {
		return false, errors.Conflict("no active session")
	}

	step := s.Steps[s.Index]
	s.Logs = append(s.Logs, model.StepLogEntry{
		StepID:           step.ID,
		Title:            step.Title,
		ExpectedDuration: step.DurationSeconds,
		ActualDuration:   s.Elapsed,
	})

	if s.Index == len(s.Steps)-1 {
		s.Phase = PhaseFinished
		return true, nil
	}

	s.Index++
	s.Elapsed = 0
	return false, nil
}

// AdjustTime subtracts delta seconds from the elapsed time of the current
// step, floored at zero. The high end is deliberately unbounded: overtime is
// displayed, not clamped.
func (s *State) AdjustTime(delta int) error {
	if s.Phase != PhaseRunning && s.Phase != PhasePaused {
		return errors.Conflict("no active session")
	}
	s.Elapsed -= delta
	if s.Elapsed < 0 {
		s.Elapsed = 0
	}
	return nil
}

// AppendStep adds a step to the end of the sequence.
func (s *State) AppendStep(step model.StepDefinition) error {
	if s.Phase != PhaseRunning && s.Phase != PhasePaused {
		return errors.Conflict("no active session")
	}
	s.Steps = append(s.Steps, step)
	return nil
}

// SpliceSteps inserts copies of steps from another collection at the given
// position. The current step keeps its identity: inserting at or before it
// shifts the index accordingly.
func (s *State) SpliceSteps(at int, steps []model.StepDefinition) error {
	if s.Phase != PhaseRunning && s.Phase != PhasePaused {
		return errors.Conflict("no active session")
	}
	if len(steps) == 0 {
		return nil
	}
	if at < 0 {
		at = 0
	}
	if at > len(s.Steps) {
		at = len(s.Steps)
	}

	next := make([]model.StepDefinition, 0, len(s.Steps)+len(steps))
	next = append(next, s.Steps[:at]...)
	next = append(next, steps...)
	next = append(next, s.Steps[at:]...)
	s.Steps = next

	if at <= s.Index {
		s.Index += len(steps)
	}
	return nil
}

// Reorder replaces the sequence with the given permutation of itself.
// order[i] names the old position of the step that ends up at position i.
// The step being timed stays current: the index follows it to its new
// position.
func (s *State) Reorder(order []int) error {
	if s.Phase != PhaseRunning && s.Phase != PhasePaused {
		return errors.Conflict("no active session")
	}
	if len(order) != len(s.Steps) {
		return errors.InvalidInput("reorder length mismatch")
	}

	seen := make([]bool, len(s.Steps))
	next := make([]model.StepDefinition, len(s.Steps))
	newIndex := s.Index
	for i, from := range order {
		if from < 0 || from >= len(s.Steps) || seen[from] {
			return errors.InvalidInput("reorder is not a permutation")
		}
		seen[from] = true
		next[i] = s.Steps[from]
		if from == s.Index {
			newIndex = i
		}
	}

	s.Steps = next
	s.Index = newIndex
	return nil
}

// RemoveStep deletes the step at the given index. Removing the only
// remaining step cancels the session outright. Removing a step before the
// current one shifts the index down so the same logical step stays current;
// removing the current step resets the elapsed timer for whatever step takes
// its place. Out-of-range indices are a guarded no-op.
func (s *State) RemoveStep(index int) error {
	if s.Phase != PhaseRunning && s.Phase != PhasePaused {
		return errors.Conflict("no active session")
	}
	if index < 0 || index >= len(s.Steps) {
		return errors.InvalidInput("step index out of range")
	}

	if len(s.Steps) == 1 {
		s.Cancel()
		return nil
	}

	s.Steps = append(s.Steps[:index], s.Steps[index+1:]...)

	switch {
	case index < s.Index:
		s.Index--
	case index == s.Index:
		s.Elapsed = 0
	}
	if s.Index >= len(s.Steps) {
		s.Index = len(s.Steps) - 1
	}
	return nil
}

// Pause freezes the session. The owning engine stops the clock alongside.
func (s *State) Pause() error {
	if s.Phase != PhaseRunning {
		return errors.Conflict("session is not running")
	}
	s.Phase = PhasePaused
	return nil
}

// Resume unfreezes a paused session.
func (s *State) Resume() error {
	if s.Phase != PhasePaused {
		return errors.Conflict("session is not paused")
	}
	s.Phase = PhaseRunning
	return nil
}

// Cancel discards the session from any phase. No record is written.
func (s *State) Cancel() {
	s.Phase = PhaseCanceled
	s.Steps = nil
	s.Index = 0
	s.Elapsed = 0
	s.Logs = nil
}

// CurrentStep returns the step being timed.
func (s *State) CurrentStep() (model.StepDefinition, bool) {
	if s.Phase != PhaseRunning && s.Phase != PhasePaused {
		return model.StepDefinition{}, false
	}
	return s.Steps[s.Index], true
}

// Snapshot serializes a paused session for later resumption.
func (s *State) Snapshot(id string, pausedAt time.Time) (model.SessionSnapshot, error) {
	if s.Phase != PhasePaused {
		return model.SessionSnapshot{}, errors.Conflict("only a paused session can be saved")
	}
	return model.SessionSnapshot{
		ID:                id,
		Routine:           s.Routine,
		Steps:             append([]model.StepDefinition(nil), s.Steps...),
		CurrentStepIndex:  s.Index,
		TimeElapsedInStep: s.Elapsed,
		StepLogs:          append([]model.StepLogEntry(nil), s.Logs...),
		PausedAt:          pausedAt.UnixMilli(),
	}, nil
}

// Restore rebuilds a paused session from a snapshot. The snapshot is
// validated defensively: a snapshot without steps is rejected and a
// corrupt index is clamped rather than trusted.
func Restore(snap model.SessionSnapshot) (*State, error) {
	if len(snap.Steps) == 0 {
		return nil, errors.InvalidInput("snapshot has no steps")
	}
	index := snap.CurrentStepIndex
	if index < 0 {
		index = 0
	}
	if index >= len(snap.Steps) {
		index = len(snap.Steps) - 1
	}
	elapsed := snap.TimeElapsedInStep
	if elapsed < 0 {
		elapsed = 0
	}
	return &State{
		Phase:   PhasePaused,
		Routine: snap.Routine,
		Steps:   append([]model.StepDefinition(nil), snap.Steps...),
		Index:   index,
		Elapsed: elapsed,
		Logs:    append([]model.StepLogEntry(nil), snap.StepLogs...),
	}, nil
}
