package recurrence

import (
	"testing"
	"time"

	"tempo/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseTask(date string) model.Task {
	return model.Task{ID: "base", Title: "Water plants", Date: date}
}

func dates(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Date
	}
	return out
}

func TestExpand_Weekly(t *testing.T) {
	rule := model.RecurrenceRule{
		Type:                model.RecurrenceWeekly,
		Interval:            1,
		InstancesToGenerate: 3,
	}
	got := Expand(baseTask("2024-01-01"), rule)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"2024-01-01", "2024-01-08", "2024-01-15"}, dates(got))

	seriesID := got[0].SeriesID
	require.NotEmpty(t, seriesID)
	for _, task := range got {
		assert.Equal(t, seriesID, task.SeriesID, "every instance shares one series id")
	}
}

func TestExpand_InstancesAreIndependentCopies(t *testing.T) {
	base := baseTask("2024-01-01")
	base.IsCompleted = true
	now := time.Now()
	base.CompletedAt = &now

	rule := model.RecurrenceRule{
		Type:                model.RecurrenceDaily,
		Interval:            2,
		InstancesToGenerate: 3,
	}
	got := Expand(base, rule)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"2024-01-01", "2024-01-03", "2024-01-05"}, dates(got))

	for _, inst := range got[1:] {
		assert.NotEqual(t, base.ID, inst.ID, "instances get fresh ids")
		assert.False(t, inst.IsCompleted)
		assert.Nil(t, inst.CompletedAt)
		require.NotNil(t, inst.Recurrence)
		assert.Equal(t, 0, inst.Recurrence.InstancesToGenerate, "instances never re-expand")
	}
}

func TestExpand_MonthlyOverflowRolls(t *testing.T) {
	rule := model.RecurrenceRule{
		Type:                model.RecurrenceMonthly,
		Interval:            1,
		InstancesToGenerate: 3,
	}
	got := Expand(baseTask("2024-01-31"), rule)

	// AddDate arithmetic: Jan 31 + 1 month lands on Mar 2 in a leap year,
	// and the next hop follows from there.
	require.Len(t, got, 3)
	assert.Equal(t, []string{"2024-01-31", "2024-03-02", "2024-04-02"}, dates(got))
}

func TestExpand_SpecificDays(t *testing.T) {
	rule := model.RecurrenceRule{
		Type:                model.RecurrenceSpecificDays,
		DaysOfWeek:          []time.Weekday{time.Monday, time.Thursday},
		InstancesToGenerate: 4,
	}
	// 2024-01-01 is a Monday.
	got := Expand(baseTask("2024-01-01"), rule)

	require.Len(t, got, 4)
	assert.Equal(t, []string{"2024-01-01", "2024-01-04", "2024-01-08", "2024-01-11"}, dates(got))
}

func TestExpand_SpecificDaysWithoutDaysStopsEarly(t *testing.T) {
	rule := model.RecurrenceRule{
		Type:                model.RecurrenceSpecificDays,
		InstancesToGenerate: 5,
	}
	got := Expand(baseTask("2024-01-01"), rule)
	assert.Len(t, got, 1, "no scheduled weekdays means nothing to generate")
}

func TestExpand_SingleInstance(t *testing.T) {
	rule := model.RecurrenceRule{
		Type:                model.RecurrenceDaily,
		InstancesToGenerate: 1,
	}
	got := Expand(baseTask("2024-01-01"), rule)
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].SeriesID)
}

func TestExpand_MalformedDate(t *testing.T) {
	rule := model.RecurrenceRule{
		Type:                model.RecurrenceDaily,
		InstancesToGenerate: 5,
	}
	got := Expand(baseTask("not-a-date"), rule)
	assert.Len(t, got, 1)
}

func TestExpand_ZeroIntervalTreatedAsOne(t *testing.T) {
	rule := model.RecurrenceRule{
		Type:                model.RecurrenceDaily,
		Interval:            0,
		InstancesToGenerate: 2,
	}
	got := Expand(baseTask("2024-01-01"), rule)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-02", got[1].Date)
}
