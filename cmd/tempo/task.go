package main

import (
	"fmt"
	"time"

	"tempo/internal/model"
	"tempo/internal/recurrence"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
	Long:  `Manage tasks including add, ls, done, and rm.`,
}

var taskAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := openStores()
		if err != nil {
			return err
		}
		defer stores.Close()

		date, _ := cmd.Flags().GetString("date")
		if date == "" {
			date = model.DayKey(time.Now())
		}
		if _, err := time.ParseInLocation(model.DateLayout, date, time.Local); err != nil {
			return fmt.Errorf("invalid date %q: want YYYY-MM-DD", date)
		}
		notes, _ := cmd.Flags().GetString("notes")

		now := time.Now()
		task := model.Task{
			ID:        ulid.Make().String(),
			Title:     args[0],
			Notes:     notes,
			Date:      date,
			CreatedAt: now,
			UpdatedAt: now,
		}

		rule, err := recurrenceRule(cmd)
		if err != nil {
			return err
		}
		if rule == nil {
			if err := stores.Tasks.Add(task); err != nil {
				return err
			}
			fmt.Printf("Added task %s\n", task.ID)
			return nil
		}

		task.Recurrence = rule
		instances := recurrence.Expand(task, *rule)
		if err := stores.Tasks.AddAll(instances); err != nil {
			return err
		}
		fmt.Printf("Added %d tasks in series %s\n", len(instances), instances[0].SeriesID)
		return nil
	},
}

var taskLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := openStores()
		if err != nil {
			return err
		}
		defer stores.Close()

		all, _ := cmd.Flags().GetBool("all")
		date, _ := cmd.Flags().GetString("date")

		tasks := stores.Tasks.List()
		filtered := make([]*model.Task, 0, len(tasks))
		for i := range tasks {
			t := &tasks[i]
			if !all && t.IsCompleted {
				continue
			}
			if date != "" && t.Date != date {
				continue
			}
			filtered = append(filtered, t)
		}

		r, err := newRenderer(cmd)
		if err != nil {
			return err
		}
		out, err := r.Tasks(filtered)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [id]",
	Short: "Toggle a task's completion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := openStores()
		if err != nil {
			return err
		}
		defer stores.Close()

		task, err := stores.Tasks.ToggleComplete(args[0])
		if err != nil {
			return err
		}
		state := "reopened"
		if task.IsCompleted {
			state = "completed"
		}
		fmt.Printf("Task %s %s\n", task.ID, state)
		return nil
	},
}

var taskRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Remove a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := openStores()
		if err != nil {
			return err
		}
		defer stores.Close()

		if err := stores.Tasks.SoftDelete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed task %s\n", args[0])
		return nil
	},
}

// recurrenceRule builds a rule from the add command's flags. Returns nil when
// the task does not repeat.
func recurrenceRule(cmd *cobra.Command) (*model.RecurrenceRule, error) {
	repeat, _ := cmd.Flags().GetString("repeat")
	if repeat == "" {
		return nil, nil
	}

	every, _ := cmd.Flags().GetInt("every")
	times, _ := cmd.Flags().GetInt("times")
	if times < 1 {
		return nil, fmt.Errorf("--times must be at least 1")
	}
	if times > cfg.Recurrence.MaxInstances {
		return nil, fmt.Errorf("--times exceeds the configured maximum of %d", cfg.Recurrence.MaxInstances)
	}

	rule := &model.RecurrenceRule{
		Interval:            every,
		InstancesToGenerate: times,
	}
	switch model.RecurrenceType(repeat) {
	case model.RecurrenceDaily:
		rule.Type = model.RecurrenceDaily
	case model.RecurrenceWeekly:
		rule.Type = model.RecurrenceWeekly
	case model.RecurrenceMonthly:
		rule.Type = model.RecurrenceMonthly
	case model.RecurrenceSpecificDays:
		rule.Type = model.RecurrenceSpecificDays
		names, _ := cmd.Flags().GetStringSlice("days")
		if len(names) == 0 {
			return nil, fmt.Errorf("--repeat specific_days requires --days")
		}
		days, err := parseWeekdays(names)
		if err != nil {
			return nil, err
		}
		rule.DaysOfWeek = days
	default:
		return nil, fmt.Errorf("invalid --repeat: %s (supported: daily, weekly, monthly, specific_days)", repeat)
	}
	return rule, nil
}

func init() {
	taskAddCmd.Flags().String("date", "", "due date (YYYY-MM-DD, default today)")
	taskAddCmd.Flags().String("notes", "", "free-form notes")
	taskAddCmd.Flags().String("repeat", "", "recurrence (daily|weekly|monthly|specific_days)")
	taskAddCmd.Flags().Int("every", 1, "recurrence interval")
	taskAddCmd.Flags().Int("times", 1, "number of instances to generate")
	taskAddCmd.Flags().StringSlice("days", nil, "weekdays for specific_days (mon,wed,fri)")

	taskLsCmd.Flags().Bool("all", false, "include completed tasks")
	taskLsCmd.Flags().String("date", "", "only tasks due on this day")
	taskLsCmd.Flags().StringP("output", "o", "", "Output format (table|json|yaml)")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskLsCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskRmCmd)
	rootCmd.AddCommand(taskCmd)
}
