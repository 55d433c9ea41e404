// Package recurrence expands a task with a repeat rule into a series of
// future task instances. Expansion runs once, synchronously, at creation
// time; generated instances never re-expand.
package recurrence

import (
	"time"

	"tempo/internal/model"

	"github.com/oklog/ulid/v2"
)

// scanWindowDays bounds the forward scan for specific_days rules.
const scanWindowDays = 365

// Expand returns the base task plus InstancesToGenerate-1 future instances.
// One series id is generated and stamped on every instance, base included.
// Instances are independent copies: fresh id, not completed, recurrence
// zeroed so they do not themselves re-expand. A specific_days rule that
// finds no scheduled weekday within a year stops generating early.
func Expand(base model.Task, rule model.RecurrenceRule) []model.Task {
	seriesID := ulid.Make().String()
	base.SeriesID = seriesID
	out := []model.Task{base}

	n := rule.InstancesToGenerate
	if n <= 1 {
		return out
	}

	cur, err := time.ParseInLocation(model.DateLayout, base.Date, time.Local)
	if err != nil {
		// Malformed base date: nothing sensible to generate from.
		return out
	}

	for i := 1; i < n; i++ {
		next, ok := advance(cur, rule)
		if !ok {
			break
		}
		cur = next

		inst := base
		inst.ID = ulid.Make().String()
		inst.Date = cur.Format(model.DateLayout)
		inst.IsCompleted = false
		inst.CompletedAt = nil
		zeroed := rule
		zeroed.InstancesToGenerate = 0
		inst.Recurrence = &zeroed
		out = append(out, inst)
	}
	return out
}

func advance(from time.Time, rule model.RecurrenceRule) (time.Time, bool) {
	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}

	switch rule.Type {
	case model.RecurrenceDaily:
		return from.AddDate(0, 0, interval), true
	case model.RecurrenceWeekly:
		return from.AddDate(0, 0, 7*interval), true
	case model.RecurrenceMonthly:
		// Standard calendar arithmetic: overflow days roll into the next
		// month (Jan 31 + 1 month = Mar 2/3).
		return from.AddDate(0, interval, 0), true
	case model.RecurrenceSpecificDays:
		return nextScheduledDay(from, rule.DaysOfWeek)
	default:
		return time.Time{}, false
	}
}

func nextScheduledDay(from time.Time, days []time.Weekday) (time.Time, bool) {
	if len(days) == 0 {
		return time.Time{}, false
	}
	cur := from
	for i := 0; i < scanWindowDays; i++ {
		cur = cur.AddDate(0, 0, 1)
		for _, d := range days {
			if cur.Weekday() == d {
				return cur, true
			}
		}
	}
	return time.Time{}, false
}
