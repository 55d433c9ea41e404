package completion

import (
	"testing"
	"time"

	"tempo/internal/errors"
	"tempo/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var planNow = time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)

func TestPlan_RecordFields(t *testing.T) {
	steps := []model.StepDefinition{
		{ID: "a", Title: "Warmup", DurationSeconds: 300},
		{ID: "b", Title: "Deep work", DurationSeconds: 1500},
	}
	logs := []model.StepLogEntry{
		{StepID: "a", Title: "Warmup", ExpectedDuration: 300, ActualDuration: 280},
		{StepID: "b", Title: "Deep work", ExpectedDuration: 1500, ActualDuration: 1600},
	}

	rec, cmds := Plan(model.RoutineRef{ID: "r1", Title: "Morning"}, steps, logs, planNow)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "r1", rec.RoutineID)
	assert.Equal(t, "Morning", rec.RoutineTitle)
	assert.Equal(t, 1880, rec.DurationSeconds)
	assert.Equal(t, planNow.UnixMilli(), rec.EndTime)
	assert.Equal(t, planNow.UnixMilli()-1880*1000, rec.StartTime)
	assert.Equal(t, 2, rec.CompletedSteps)
	assert.Equal(t, 2, rec.TotalSteps)
	assert.Equal(t, logs, rec.Logs)

	require.Len(t, cmds, 1)
	assert.Equal(t, StampRoutine{RoutineID: "r1"}, cmds[0])
}

func TestPlan_LogsAreAuthorityOnTotalSteps(t *testing.T) {
	// Two steps completed, then one was removed from the sequence.
	steps := []model.StepDefinition{
		{ID: "c", Title: "Left over", DurationSeconds: 600},
	}
	logs := []model.StepLogEntry{
		{StepID: "a", ActualDuration: 100},
		{StepID: "b", ActualDuration: 100},
	}

	rec, _ := Plan(model.RoutineRef{ID: "r1"}, steps, logs, planNow)
	assert.Equal(t, 2, rec.CompletedSteps)
	assert.Equal(t, 2, rec.TotalSteps, "completed steps never exceed total")
}

func TestPlan_OneShotTaskCommand(t *testing.T) {
	steps := []model.StepDefinition{
		{ID: "s", Title: "Write report", DurationSeconds: 1500, LinkedTaskID: "t1"},
	}
	logs := []model.StepLogEntry{{StepID: "s", ActualDuration: 900}}

	_, cmds := Plan(model.RoutineRef{ID: "t1", Title: "Write report", OneShot: true}, steps, logs, planNow)

	require.Len(t, cmds, 1)
	assert.Equal(t, CompleteTask{TaskID: "t1"}, cmds[0])
}

func TestPlan_HabitSecondsAccumulatePerHabit(t *testing.T) {
	steps := []model.StepDefinition{
		{ID: "a", LinkedHabitID: "h1"},
		{ID: "b", LinkedHabitID: "h2"},
		{ID: "c", LinkedHabitID: "h1"},
	}
	logs := []model.StepLogEntry{
		{StepID: "a", ActualDuration: 120},
		{StepID: "b", ActualDuration: 300},
		{StepID: "c", ActualDuration: 60},
	}

	_, cmds := Plan(model.RoutineRef{ID: "r1"}, steps, logs, planNow)

	require.Len(t, cmds, 3)
	assert.Equal(t, StampRoutine{RoutineID: "r1"}, cmds[0])
	assert.Equal(t, IncrementHabit{HabitID: "h1", Seconds: 180}, cmds[1])
	assert.Equal(t, IncrementHabit{HabitID: "h2", Seconds: 300}, cmds[2])
}

type memTasks struct {
	tasks map[string]model.Task
}

func (m *memTasks) Get(id string) (model.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return model.Task{}, errors.NotFound("task not found: " + id)
	}
	return t, nil
}

func (m *memTasks) Update(t model.Task) error {
	m.tasks[t.ID] = t
	return nil
}

type memHabits struct {
	habits  map[string]model.Habit
	streaks map[string]int
}

func (m *memHabits) Get(id string) (model.Habit, error) {
	h, ok := m.habits[id]
	if !ok {
		return model.Habit{}, errors.NotFound("habit not found: " + id)
	}
	return h, nil
}

func (m *memHabits) UpdateHistory(id string, history map[string]float64, streakLen int) error {
	h := m.habits[id]
	h.History = history
	h.Streak = streakLen
	m.habits[id] = h
	m.streaks[id] = streakLen
	return nil
}

type memRoutines struct {
	completed map[string]time.Time
}

func (m *memRoutines) MarkCompleted(id string, at time.Time) error {
	m.completed[id] = at
	return nil
}

type memRecords struct {
	records []model.FocusSessionRecord
}

func (m *memRecords) Append(rec model.FocusSessionRecord) error {
	m.records = append(m.records, rec)
	return nil
}

func newApplier() (*Applier, *memTasks, *memHabits, *memRoutines, *memRecords) {
	tasks := &memTasks{tasks: map[string]model.Task{}}
	habits := &memHabits{habits: map[string]model.Habit{}, streaks: map[string]int{}}
	routines := &memRoutines{completed: map[string]time.Time{}}
	records := &memRecords{}
	return &Applier{Tasks: tasks, Habits: habits, Routines: routines, Records: records}, tasks, habits, routines, records
}

func TestApply_CompletesLinkedTask(t *testing.T) {
	applier, tasks, _, _, records := newApplier()
	tasks.tasks["t1"] = model.Task{ID: "t1", Title: "Write report"}

	rec := model.FocusSessionRecord{ID: "rec1"}
	err := applier.Apply(rec, []Command{CompleteTask{TaskID: "t1"}}, planNow)
	require.NoError(t, err)

	got := tasks.tasks["t1"]
	assert.True(t, got.IsCompleted)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, planNow, *got.CompletedAt)
	require.Len(t, records.records, 1)
}

func TestApply_StampsRoutine(t *testing.T) {
	applier, _, _, routines, _ := newApplier()

	err := applier.Apply(model.FocusSessionRecord{ID: "rec1"}, []Command{StampRoutine{RoutineID: "r1"}}, planNow)
	require.NoError(t, err)
	assert.Equal(t, planNow, routines.completed["r1"])
}

func TestApply_IncrementHabitDuration(t *testing.T) {
	applier, _, habits, _, _ := newApplier()
	habits.habits["h1"] = model.Habit{
		ID:     "h1",
		Name:   "Deep work",
		Goal:   model.GoalDuration,
		Target: 25,
		History: map[string]float64{
			model.DayKey(planNow): 10,
		},
	}

	err := applier.Apply(model.FocusSessionRecord{ID: "rec1"},
		[]Command{IncrementHabit{HabitID: "h1", Seconds: 930}}, planNow)
	require.NoError(t, err)

	// 930s = 15.5 minutes on top of the existing 10.
	got := habits.habits["h1"]
	assert.Equal(t, 25.5, got.History[model.DayKey(planNow)])
	assert.Equal(t, 1, got.Streak, "25.5 meets the 25 minute target")
}

func TestApply_IncrementHabitCount(t *testing.T) {
	applier, _, habits, _, _ := newApplier()
	habits.habits["h1"] = model.Habit{
		ID:      "h1",
		Name:    "Meditate",
		Goal:    model.GoalCount,
		Target:  2,
		History: map[string]float64{},
	}

	err := applier.Apply(model.FocusSessionRecord{ID: "rec1"},
		[]Command{IncrementHabit{HabitID: "h1", Seconds: 600}}, planNow)
	require.NoError(t, err)

	got := habits.habits["h1"]
	assert.Equal(t, 1.0, got.History[model.DayKey(planNow)], "count goals add one per session regardless of time")
}

func TestApply_WorkOverridesSkip(t *testing.T) {
	applier, _, habits, _, _ := newApplier()
	habits.habits["h1"] = model.Habit{
		ID:     "h1",
		Name:   "Deep work",
		Goal:   model.GoalDuration,
		Target: 5,
		History: map[string]float64{
			model.DayKey(planNow): model.SkipSentinel,
		},
	}

	err := applier.Apply(model.FocusSessionRecord{ID: "rec1"},
		[]Command{IncrementHabit{HabitID: "h1", Seconds: 600}}, planNow)
	require.NoError(t, err)

	assert.Equal(t, 10.0, habits.habits["h1"].History[model.DayKey(planNow)])
}

func TestApply_FailingCommandDoesNotStopOthers(t *testing.T) {
	applier, _, _, routines, records := newApplier()

	err := applier.Apply(model.FocusSessionRecord{ID: "rec1"}, []Command{
		CompleteTask{TaskID: "missing"},
		StampRoutine{RoutineID: "r1"},
	}, planNow)

	require.Error(t, err)
	assert.Equal(t, planNow, routines.completed["r1"], "later commands still run")
	assert.Len(t, records.records, 1, "the record is written regardless")
}
