// Package streak computes habit streak lengths from a sparse day->value
// history with explicit skip semantics.
package streak

import (
	"time"

	"tempo/internal/model"
)

// scanWindowDays bounds the backward walk.
const scanWindowDays = 365

// Current returns the habit's streak as of today using its own history.
func Current(h model.Habit, today time.Time) int {
	return WithHistory(h, h.History, today)
}

// WithHistory computes the streak against an explicit history map, which
// lets callers evaluate an updated history before persisting it.
//
// A day counts as completed when its value is present, is not the skip
// sentinel, and meets the goal (elastic habits: >= 1, otherwise >= target).
// The anchor is asymmetric: a streak alive through yesterday is still
// reported before today's entry has been logged, so the count does not
// visually reset at midnight. During the backward walk, skip-marked days
// and days the habit is not scheduled on are transparent; a scheduled day
// without a completion breaks the streak.
func WithHistory(h model.Habit, history map[string]float64, today time.Time) int {
	day := today.Local()

	var cursor time.Time
	switch {
	case completed(h, history, day):
		cursor = day.AddDate(0, 0, -1)
	case completed(h, history, day.AddDate(0, 0, -1)):
		cursor = day.AddDate(0, 0, -2)
	default:
		return 0
	}

	count := 1
	for i := 0; i < scanWindowDays; i++ {
		if skipped(history, cursor) || !h.ScheduledOn(cursor) {
			cursor = cursor.AddDate(0, 0, -1)
			continue
		}
		if !completed(h, history, cursor) {
			break
		}
		count++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return count
}

func completed(h model.Habit, history map[string]float64, day time.Time) bool {
	v, ok := history[model.DayKey(day)]
	if !ok || v == model.SkipSentinel {
		return false
	}
	if h.Elastic {
		return v >= 1
	}
	return v >= h.Target
}

func skipped(history map[string]float64, day time.Time) bool {
	v, ok := history[model.DayKey(day)]
	return ok && v == model.SkipSentinel
}
