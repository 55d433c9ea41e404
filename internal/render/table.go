package render

import (
	"fmt"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"tempo/internal/model"
	"tempo/internal/session"
)

type TableRenderer struct {
	headerStyle  lipgloss.Style
	cellStyle    lipgloss.Style
	oddRowStyle  lipgloss.Style
	evenRowStyle lipgloss.Style
	borderStyle  lipgloss.Style
}

func NewTableRenderer() *TableRenderer {
	purple := lipgloss.Color("99")
	gray := lipgloss.Color("245")
	lightGray := lipgloss.Color("241")

	return &TableRenderer{
		headerStyle: lipgloss.NewStyle().
			Foreground(purple).
			Bold(true).
			Align(lipgloss.Center).
			Padding(0, 1),
		cellStyle: lipgloss.NewStyle().
			Padding(0, 1),
		oddRowStyle: lipgloss.NewStyle().
			Foreground(gray).
			Padding(0, 1),
		evenRowStyle: lipgloss.NewStyle().
			Foreground(lightGray).
			Padding(0, 1),
		borderStyle: lipgloss.NewStyle().
			Foreground(purple),
	}
}

func (r *TableRenderer) newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return r.headerStyle
			case row%2 == 0:
				return r.evenRowStyle
			default:
				return r.oddRowStyle
			}
		}).
		Headers(headers...)
}

func (r *TableRenderer) Tasks(tasks []*model.Task) (string, error) {
	if len(tasks) == 0 {
		return "No tasks found", nil
	}

	t := r.newTable("ID", "Date", "Title", "Done", "Series")
	for _, task := range tasks {
		done := " "
		if task.IsCompleted {
			done = "x"
		}
		series := "-"
		if task.SeriesID != "" {
			series = truncateString(task.SeriesID, 9)
		}
		t.Row(task.ID, task.Date, truncateString(task.Title, 40), done, series)
	}
	return t.String(), nil
}

func (r *TableRenderer) Habits(habits []*model.Habit, today time.Time) (string, error) {
	if len(habits) == 0 {
		return "No habits found", nil
	}

	key := model.DayKey(today)
	t := r.newTable("ID", "Name", "Goal", "Today", "Streak")
	for _, h := range habits {
		t.Row(h.ID, truncateString(h.Name, 30), habitGoal(h), habitToday(h, key), fmt.Sprintf("%d", h.Streak))
	}
	return t.String(), nil
}

func (r *TableRenderer) Routines(routines []*model.Routine) (string, error) {
	if len(routines) == 0 {
		return "No routines found", nil
	}

	t := r.newTable("ID", "Title", "Steps", "Duration", "Next run")
	for _, rt := range routines {
		total := 0
		for _, s := range rt.Steps {
			total += s.DurationSeconds
		}
		next := "-"
		if rt.Schedule != "" && !rt.NextRun.IsZero() {
			next = rt.NextRun.Local().Format("2006-01-02 15:04")
		}
		t.Row(rt.ID, truncateString(rt.Title, 30), fmt.Sprintf("%d", len(rt.Steps)), fmtSeconds(total), next)
	}
	return t.String(), nil
}

func (r *TableRenderer) Records(records []model.FocusSessionRecord) (string, error) {
	if len(records) == 0 {
		return "No sessions recorded", nil
	}

	t := r.newTable("Ended", "Routine", "Duration", "Steps")
	for _, rec := range records {
		t.Row(
			fmtMillis(rec.EndTime),
			truncateString(rec.RoutineTitle, 30),
			fmtSeconds(rec.DurationSeconds),
			fmt.Sprintf("%d/%d", rec.CompletedSteps, rec.TotalSteps),
		)
	}
	return t.String(), nil
}

func (r *TableRenderer) Snapshots(snapshots []model.SessionSnapshot) (string, error) {
	if len(snapshots) == 0 {
		return "No suspended sessions", nil
	}

	t := r.newTable("ID", "Routine", "Step", "Elapsed", "Suspended")
	for _, s := range snapshots {
		t.Row(
			s.ID,
			truncateString(s.Routine.Title, 30),
			fmt.Sprintf("%d/%d", s.CurrentStepIndex+1, len(s.Steps)),
			fmtSeconds(s.TimeElapsedInStep),
			fmtMillis(s.PausedAt),
		)
	}
	return t.String(), nil
}

func (r *TableRenderer) Status(st session.Status) (string, error) {
	if st.Phase == session.PhaseIdle {
		return "No active session", nil
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return r.headerStyle
			}
			return r.cellStyle
		})

	t.Row("Phase", st.Phase.String())
	t.Row("Routine", st.Routine.Title)
	if st.Index < len(st.Steps) {
		step := st.Steps[st.Index]
		t.Row("Step", fmt.Sprintf("%d/%d  %s", st.Index+1, len(st.Steps), step.Title))
		t.Row("Elapsed", fmt.Sprintf("%s of %s", fmtSeconds(st.ElapsedSeconds), fmtSeconds(step.DurationSeconds)))
	}
	t.Row("Completed", fmt.Sprintf("%d", st.CompletedSteps))

	return t.String(), nil
}

func habitGoal(h *model.Habit) string {
	unit := "min"
	if h.Goal == model.GoalCount {
		unit = "times"
	}
	if h.Elastic && h.Tiers != nil {
		return fmt.Sprintf("%g/%g/%g %s", h.Tiers.Mini, h.Tiers.Plus, h.Tiers.Elite, unit)
	}
	return fmt.Sprintf("%g %s", h.Target, unit)
}

func habitToday(h *model.Habit, key string) string {
	v, ok := h.History[key]
	switch {
	case !ok:
		return "-"
	case v == model.SkipSentinel:
		return "skip"
	default:
		return fmt.Sprintf("%g", v)
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
