package session

import (
	"testing"
	"time"

	"tempo/internal/errors"
	"tempo/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeSteps() []model.StepDefinition {
	return []model.StepDefinition{
		{ID: "a", Title: "Warmup", DurationSeconds: 300},
		{ID: "b", Title: "Deep work", DurationSeconds: 1500},
		{ID: "c", Title: "Review", DurationSeconds: 600},
	}
}

func startedState(t *testing.T) *State {
	t.Helper()
	s := NewState()
	require.NoError(t, s.Start(model.RoutineRef{ID: "r1", Title: "Morning"}, threeSteps()))
	return s
}

func TestStart_RejectsActiveAndEmpty(t *testing.T) {
	s := startedState(t)

	err := s.Start(model.RoutineRef{ID: "r2"}, threeSteps())
	assert.True(t, errors.IsCategory(err, errors.ErrConflict))

	empty := NewState()
	err = empty.Start(model.RoutineRef{ID: "r3"}, nil)
	assert.True(t, errors.IsCategory(err, errors.ErrInvalidInput))
}

func TestTick_OnlyCountsWhileRunning(t *testing.T) {
	s := startedState(t)

	for i := 0; i < 5; i++ {
		s.Tick()
	}
	assert.Equal(t, 5, s.Elapsed)

	require.NoError(t, s.Pause())
	s.Tick()
	s.Tick()
	assert.Equal(t, 5, s.Elapsed, "ticks during pause must be discarded")

	require.NoError(t, s.Resume())
	s.Tick()
	assert.Equal(t, 6, s.Elapsed)
}

func TestCompleteStep_AdvancesAndFinishes(t *testing.T) {
	s := startedState(t)
	s.Tick()
	s.Tick()

	finished, err := s.CompleteStep()
	require.NoError(t, err)
	assert.False(t, finished)
	assert.Equal(t, 1, s.Index)
	assert.Equal(t, 0, s.Elapsed, "elapsed resets for the next step")
	require.Len(t, s.Logs, 1)
	assert.Equal(t, "a", s.Logs[0].StepID)
	assert.Equal(t, 300, s.Logs[0].ExpectedDuration)
	assert.Equal(t, 2, s.Logs[0].ActualDuration)

	_, err = s.CompleteStep()
	require.NoError(t, err)
	finished, err = s.CompleteStep()
	require.NoError(t, err)
	assert.True(t, finished)
	assert.Equal(t, PhaseFinished, s.Phase)
	assert.Len(t, s.Logs, 3)
}

func TestAdjustTime_FlooredAtZeroUnboundedAbove(t *testing.T) {
	s := startedState(t)
	for i := 0; i < 10; i++ {
		s.Tick()
	}

	require.NoError(t, s.AdjustTime(4))
	assert.Equal(t, 6, s.Elapsed)

	require.NoError(t, s.AdjustTime(100))
	assert.Equal(t, 0, s.Elapsed)

	require.NoError(t, s.AdjustTime(-30))
	assert.Equal(t, 30, s.Elapsed)
}

func TestSpliceSteps_ShiftsIndexWhenInsertingBefore(t *testing.T) {
	s := startedState(t)
	_, err := s.CompleteStep()
	require.NoError(t, err)
	require.Equal(t, 1, s.Index)

	extra := []model.StepDefinition{{ID: "x", Title: "Stretch", DurationSeconds: 120}}
	require.NoError(t, s.SpliceSteps(0, extra))

	assert.Equal(t, 2, s.Index)
	cur, ok := s.CurrentStep()
	require.True(t, ok)
	assert.Equal(t, "b", cur.ID, "current step keeps its identity")

	require.NoError(t, s.SpliceSteps(99, extra))
	assert.Equal(t, "x", s.Steps[len(s.Steps)-1].ID, "out-of-range position clamps to the end")
	assert.Equal(t, 2, s.Index)
}

func TestReorder_IndexFollowsCurrentStep(t *testing.T) {
	s := startedState(t)
	_, err := s.CompleteStep()
	require.NoError(t, err)
	s.Tick()
	s.Tick()
	s.Tick()

	require.NoError(t, s.Reorder([]int{2, 0, 1}))

	cur, ok := s.CurrentStep()
	require.True(t, ok)
	assert.Equal(t, "b", cur.ID)
	assert.Equal(t, 2, s.Index)
	assert.Equal(t, 3, s.Elapsed, "reorder does not touch the timer")
}

func TestReorder_RejectsNonPermutations(t *testing.T) {
	s := startedState(t)

	err := s.Reorder([]int{0, 1})
	assert.True(t, errors.IsCategory(err, errors.ErrInvalidInput))

	err = s.Reorder([]int{0, 0, 1})
	assert.True(t, errors.IsCategory(err, errors.ErrInvalidInput))

	err = s.Reorder([]int{0, 1, 3})
	assert.True(t, errors.IsCategory(err, errors.ErrInvalidInput))
}

func TestRemoveStep(t *testing.T) {
	t.Run("before current shifts index down", func(t *testing.T) {
		s := startedState(t)
		_, err := s.CompleteStep()
		require.NoError(t, err)
		s.Tick()

		require.NoError(t, s.RemoveStep(0))
		assert.Equal(t, 0, s.Index)
		cur, _ := s.CurrentStep()
		assert.Equal(t, "b", cur.ID)
		assert.Equal(t, 1, s.Elapsed)
	})

	t.Run("current resets elapsed", func(t *testing.T) {
		s := startedState(t)
		s.Tick()
		s.Tick()

		require.NoError(t, s.RemoveStep(0))
		assert.Equal(t, 0, s.Elapsed)
		cur, _ := s.CurrentStep()
		assert.Equal(t, "b", cur.ID)
	})

	t.Run("last remaining step cancels the session", func(t *testing.T) {
		s := NewState()
		require.NoError(t, s.Start(model.RoutineRef{ID: "r"}, threeSteps()[:1]))

		require.NoError(t, s.RemoveStep(0))
		assert.Equal(t, PhaseCanceled, s.Phase)
	})

	t.Run("out of range is rejected", func(t *testing.T) {
		s := startedState(t)
		err := s.RemoveStep(7)
		assert.True(t, errors.IsCategory(err, errors.ErrInvalidInput))
	})
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	s := startedState(t)
	_, err := s.CompleteStep()
	require.NoError(t, err)
	s.Tick()
	s.Tick()
	require.NoError(t, s.Pause())

	pausedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	snap, err := s.Snapshot("snap-1", pausedAt)
	require.NoError(t, err)
	assert.Equal(t, pausedAt.UnixMilli(), snap.PausedAt)

	restored, err := Restore(snap)
	require.NoError(t, err)
	assert.Equal(t, PhasePaused, restored.Phase)
	assert.Equal(t, s.Index, restored.Index)
	assert.Equal(t, s.Elapsed, restored.Elapsed)
	assert.Equal(t, s.Steps, restored.Steps)
	assert.Equal(t, s.Logs, restored.Logs)
}

func TestSnapshot_RequiresPause(t *testing.T) {
	s := startedState(t)
	_, err := s.Snapshot("snap-1", time.Now())
	assert.True(t, errors.IsCategory(err, errors.ErrConflict))
}

func TestRestore_ClampsCorruptSnapshot(t *testing.T) {
	snap := model.SessionSnapshot{
		ID:                "bad",
		Steps:             threeSteps(),
		CurrentStepIndex:  12,
		TimeElapsedInStep: -5,
	}

	restored, err := Restore(snap)
	require.NoError(t, err)
	assert.Equal(t, 2, restored.Index)
	assert.Equal(t, 0, restored.Elapsed)
}

func TestRestore_RejectsEmptySnapshot(t *testing.T) {
	snap := model.SessionSnapshot{ID: "empty"}

	_, err := Restore(snap)
	assert.True(t, errors.IsCategory(err, errors.ErrInvalidInput))
}
