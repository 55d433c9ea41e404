package store

import (
	"path/filepath"
	"testing"
	"time"

	"tempo/internal/errors"
	"tempo/internal/model"
)

func tempRoutineStore(t *testing.T) *RoutineStore {
	t.Helper()
	st, err := NewRoutineStore(filepath.Join(t.TempDir(), "routines.json"))
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func TestRoutineStore_AppendStep(t *testing.T) {
	st := tempRoutineStore(t)
	if err := st.Add(model.Routine{ID: "r1", Title: "Morning"}); err != nil {
		t.Fatal(err)
	}

	step := model.StepDefinition{ID: "s1", Title: "Warmup", DurationSeconds: 300}
	if err := st.AppendStep("r1", step); err != nil {
		t.Fatal(err)
	}

	got, err := st.Get("r1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Steps) != 1 || got.Steps[0].ID != "s1" {
		t.Errorf("Step not appended: %+v", got.Steps)
	}

	if err := st.AppendStep("missing", step); !errors.IsCategory(err, errors.ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestRoutineStore_SetSchedule(t *testing.T) {
	st := tempRoutineStore(t)
	if err := st.Add(model.Routine{ID: "r1", Title: "Morning"}); err != nil {
		t.Fatal(err)
	}

	next, err := st.SetSchedule("r1", "0 9 * * 1-5")
	if err != nil {
		t.Fatalf("Failed to set schedule: %v", err)
	}
	if !next.After(time.Now()) {
		t.Errorf("Next run should be in the future, got %v", next)
	}

	if _, err := st.SetSchedule("r1", "not a cron spec"); !errors.IsCategory(err, errors.ErrInvalidInput) {
		t.Errorf("Expected invalid input for bad spec, got %v", err)
	}
}

func TestRoutineStore_MarkCompletedRestampsNextRun(t *testing.T) {
	st := tempRoutineStore(t)
	if err := st.Add(model.Routine{ID: "r1", Title: "Morning"}); err != nil {
		t.Fatal(err)
	}
	first, err := st.SetSchedule("r1", "@daily")
	if err != nil {
		t.Fatal(err)
	}

	completedAt := first.Add(time.Hour)
	if err := st.MarkCompleted("r1", completedAt); err != nil {
		t.Fatal(err)
	}

	got, err := st.Get("r1")
	if err != nil {
		t.Fatal(err)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(completedAt) {
		t.Errorf("CompletedAt not stamped: %+v", got.CompletedAt)
	}
	if !got.NextRun.After(completedAt) {
		t.Errorf("NextRun not restamped past completion: %v", got.NextRun)
	}
}

func TestRoutineStore_MarkCompletedWithoutSchedule(t *testing.T) {
	st := tempRoutineStore(t)
	if err := st.Add(model.Routine{ID: "r1", Title: "Adhoc"}); err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	if err := st.MarkCompleted("r1", now); err != nil {
		t.Fatal(err)
	}
	got, _ := st.Get("r1")
	if !got.NextRun.IsZero() {
		t.Errorf("Unscheduled routine should keep a zero NextRun, got %v", got.NextRun)
	}
}
