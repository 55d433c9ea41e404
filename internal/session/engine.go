package session

import (
	"log/slog"
	"sync"
	"time"

	"tempo/internal/clock"
	"tempo/internal/completion"
	"tempo/internal/concurrency"
	"tempo/internal/errors"
	"tempo/internal/model"

	"github.com/oklog/ulid/v2"
)

// SnapshotStore persists suspended sessions.
type SnapshotStore interface {
	Add(snap model.SessionSnapshot) error
	Get(id string) (model.SessionSnapshot, error)
	Remove(id string) error
}

// Engine owns the single active session: the state machine, the ticking
// clock and the completion fan-out. All mutation is serialized behind one
// mutex; the tick consumer goroutine goes through the same lock, so ticks
// and user commands never interleave mid-transition.
//
// The engine works without a ticker too (nil is accepted): every transition
// stays available and time advances only via explicit Tick calls. That is
// the degraded-but-alive mode for environments where no background ticking
// is wanted.
type Engine struct {
	mu        sync.Mutex
	state     *State
	ticker    *clock.Ticker
	snapshots SnapshotStore
	applier   *completion.Applier

	now  func() time.Time
	quit chan struct{}
	once sync.Once
}

// Status is a read-only view of the active session for display layers.
type Status struct {
	Phase          Phase
	Routine        model.RoutineRef
	Steps          []model.StepDefinition
	Index          int
	ElapsedSeconds int
	CompletedSteps int
}

func NewEngine(ticker *clock.Ticker, snapshots SnapshotStore, applier *completion.Applier) *Engine {
	e := &Engine{
		state:     NewState(),
		ticker:    ticker,
		snapshots: snapshots,
		applier:   applier,
		now:       time.Now,
		quit:      make(chan struct{}),
	}
	if ticker != nil {
		concurrency.SafeGo(e.consumeTicks, nil)
	}
	return e
}

func (e *Engine) consumeTicks() {
	for {
		select {
		case <-e.quit:
			return
		case <-e.ticker.Ticks():
			e.Tick()
		}
	}
}

// Tick applies one second of elapsed time. Safe to call from any phase;
// the state machine discards ticks outside Running.
func (e *Engine) Tick() {
	e.mu.Lock()
	e.state.Tick()
	e.mu.Unlock()
}

// StartRoutine begins a session over the routine's steps.
func (e *Engine) StartRoutine(r model.Routine) error {
	ref := model.RoutineRef{ID: r.ID, Title: r.Title}
	return e.start(ref, r.Steps)
}

// StartTask begins a one-shot session wrapping a single task as one step.
func (e *Engine) StartTask(t model.Task, durationSeconds int) error {
	ref := model.RoutineRef{ID: t.ID, Title: t.Title, OneShot: true}
	step := model.StepDefinition{
		ID:              ulid.Make().String(),
		Title:           t.Title,
		DurationSeconds: durationSeconds,
		LinkedTaskID:    t.ID,
	}
	return e.start(ref, []model.StepDefinition{step})
}

// StartHabit begins a one-shot session wrapping a single habit as one step.
func (e *Engine) StartHabit(h model.Habit, durationSeconds int) error {
	ref := model.RoutineRef{ID: h.ID, Title: h.Name, OneShot: true}
	step := model.StepDefinition{
		ID:              ulid.Make().String(),
		Title:           h.Name,
		DurationSeconds: durationSeconds,
		LinkedHabitID:   h.ID,
	}
	return e.start(ref, []model.StepDefinition{step})
}

func (e *Engine) start(ref model.RoutineRef, steps []model.StepDefinition) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.state.Start(ref, steps); err != nil {
		return err
	}
	e.startClock()
	slog.Info("Session started", "routine", ref.Title, "steps", len(steps))
	return nil
}

// Pause freezes the session and stops the clock synchronously. A tick
// already in flight is discarded by the state machine, never applied late.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.state.Pause(); err != nil {
		return err
	}
	e.stopClock()
	return nil
}

// Resume continues a paused session.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.state.Resume(); err != nil {
		return err
	}
	e.startClock()
	return nil
}

// Suspend pauses the session if needed, writes a snapshot and returns the
// engine to idle. The session can be picked up later via ResumeSnapshot.
func (e *Engine) Suspend() (model.SessionSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Phase == PhaseRunning {
		if err := e.state.Pause(); err != nil {
			return model.SessionSnapshot{}, err
		}
		e.stopClock()
	}

	snap, err := e.state.Snapshot(ulid.Make().String(), e.now())
	if err != nil {
		return model.SessionSnapshot{}, err
	}

	if e.snapshots != nil {
		if err := e.snapshots.Add(snap); err != nil {
			return model.SessionSnapshot{}, errors.Wrap(err, "persist snapshot")
		}
	}

	e.state = NewState()
	slog.Info("Session suspended", "snapshot", snap.ID)
	return snap, nil
}

// ResumeSnapshot restores a suspended session and consumes its snapshot:
// a session is never running while its snapshot is still stored.
func (e *Engine) ResumeSnapshot(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Phase == PhaseRunning || e.state.Phase == PhasePaused {
		return errors.Conflict("session already active")
	}
	if e.snapshots == nil {
		return errors.NotFound("no snapshot store configured")
	}

	snap, err := e.snapshots.Get(id)
	if err != nil {
		return err
	}

	// A damaged snapshot is rejected before it is consumed, so the user
	// can still inspect or discard it.
	restored, err := Restore(snap)
	if err != nil {
		return err
	}
	if err := e.snapshots.Remove(id); err != nil {
		// Resuming still proceeds; a stale snapshot is logged, not fatal.
		slog.Warn("Failed to consume snapshot", "snapshot", id, "error", err)
	}

	e.state = restored
	if err := e.state.Resume(); err != nil {
		return err
	}
	e.startClock()
	slog.Info("Session resumed", "snapshot", id, "routine", snap.Routine.Title)
	return nil
}

// CompleteStep finalizes the current step. When it was the last one, the
// session finishes: the record is written and side effects fan out, and the
// returned record is non-nil.
func (e *Engine) CompleteStep() (*model.FocusSessionRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	finished, err := e.state.CompleteStep()
	if err != nil {
		return nil, err
	}
	if !finished {
		return nil, nil
	}

	e.stopClock()
	rec, cmds := completion.Plan(e.state.Routine, e.state.Steps, e.state.Logs, e.now())
	if e.applier != nil {
		if err := e.applier.Apply(rec, cmds, e.now()); err != nil {
			// Side effects are best-effort past this point; the session is
			// over either way.
			slog.Error("Completion fan-out finished with errors", "record", rec.ID, "error", err)
		}
	}
	e.state = NewState()
	slog.Info("Session finished", "record", rec.ID, "duration_seconds", rec.DurationSeconds)
	return &rec, nil
}

// AdjustTime rewinds the current step's elapsed seconds, floored at zero.
func (e *Engine) AdjustTime(delta int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.AdjustTime(delta)
}

// AppendStep adds a step to the end of the running sequence.
func (e *Engine) AppendStep(step model.StepDefinition) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.AppendStep(step)
}

// SpliceSteps inserts steps from another routine into the running sequence.
func (e *Engine) SpliceSteps(at int, steps []model.StepDefinition) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.SpliceSteps(at, steps)
}

// ReorderSteps applies a permutation to the step sequence.
func (e *Engine) ReorderSteps(order []int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Reorder(order)
}

// RemoveStep removes the step at index. Removing the last remaining step
// cancels the session; the returned flag reports that.
func (e *Engine) RemoveStep(index int) (canceled bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.state.RemoveStep(index); err != nil {
		return false, err
	}
	if e.state.Phase == PhaseCanceled {
		e.stopClock()
		e.state = NewState()
		return true, nil
	}
	return false, nil
}

// Cancel discards the session without writing anything.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Cancel()
	e.stopClock()
	e.state = NewState()
	slog.Info("Session canceled")
}

// Status returns a copy of the current session view.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Status{
		Phase:          e.state.Phase,
		Routine:        e.state.Routine,
		Steps:          append([]model.StepDefinition(nil), e.state.Steps...),
		Index:          e.state.Index,
		ElapsedSeconds: e.state.Elapsed,
		CompletedSteps: len(e.state.Logs),
	}
}

// Active reports whether a session is running or paused.
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Phase == PhaseRunning || e.state.Phase == PhasePaused
}

// Close stops the clock and the tick consumer. Closing with a live session
// discards it, equivalent to Cancel.
func (e *Engine) Close() {
	e.once.Do(func() {
		close(e.quit)
	})
	e.mu.Lock()
	e.stopClock()
	e.state = NewState()
	e.mu.Unlock()
}

func (e *Engine) startClock() {
	if e.ticker != nil {
		e.ticker.Start()
	}
}

func (e *Engine) stopClock() {
	if e.ticker != nil {
		e.ticker.Stop()
	}
}
