package main

import (
	"fmt"
	"time"

	"tempo/internal/model"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
)

var routineCmd = &cobra.Command{
	Use:   "routine",
	Short: "Manage routines",
	Long:  `Manage routines including add, step, ls, schedule, and rm.`,
}

var routineAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a routine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := openStores()
		if err != nil {
			return err
		}
		defer stores.Close()

		now := time.Now()
		routine := model.Routine{
			ID:        ulid.Make().String(),
			Title:     args[0],
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := stores.Routines.Add(routine); err != nil {
			return err
		}
		fmt.Printf("Added routine %s\n", routine.ID)
		return nil
	},
}

var routineStepCmd = &cobra.Command{
	Use:   "step",
	Short: "Manage routine steps",
}

var routineStepAddCmd = &cobra.Command{
	Use:   "add [routine-id] [title]",
	Short: "Append a step to a routine",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := openStores()
		if err != nil {
			return err
		}
		defer stores.Close()

		seconds, err := stepSeconds(cmd)
		if err != nil {
			return err
		}
		taskID, _ := cmd.Flags().GetString("task")
		habitID, _ := cmd.Flags().GetString("habit")

		if taskID != "" {
			if _, err := stores.Tasks.Get(taskID); err != nil {
				return err
			}
		}
		if habitID != "" {
			if _, err := stores.Habits.Get(habitID); err != nil {
				return err
			}
		}

		step := model.StepDefinition{
			ID:              ulid.Make().String(),
			Title:           args[1],
			DurationSeconds: seconds,
			LinkedTaskID:    taskID,
			LinkedHabitID:   habitID,
		}
		if err := stores.Routines.AppendStep(args[0], step); err != nil {
			return err
		}
		fmt.Printf("Added step %s\n", step.ID)
		return nil
	},
}

var routineLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List routines",
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := openStores()
		if err != nil {
			return err
		}
		defer stores.Close()

		routines := stores.Routines.List()
		ptrs := make([]*model.Routine, len(routines))
		for i := range routines {
			ptrs[i] = &routines[i]
		}

		r, err := newRenderer(cmd)
		if err != nil {
			return err
		}
		out, err := r.Routines(ptrs)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

var routineScheduleCmd = &cobra.Command{
	Use:   "schedule [id] [cron-spec]",
	Short: "Schedule a routine",
	Long:  `Schedule a routine with a standard cron spec, e.g. "0 9 * * 1-5" for weekday mornings.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := openStores()
		if err != nil {
			return err
		}
		defer stores.Close()

		next, err := stores.Routines.SetSchedule(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Scheduled routine %s, next run %s\n", args[0], next.Local().Format("2006-01-02 15:04"))
		return nil
	},
}

var routineRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Remove a routine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := openStores()
		if err != nil {
			return err
		}
		defer stores.Close()

		if err := stores.Routines.SoftDelete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed routine %s\n", args[0])
		return nil
	},
}

func init() {
	routineStepAddCmd.Flags().String("for", "", "step duration (default from config, 25m)")
	routineStepAddCmd.Flags().String("task", "", "link the step to a task id")
	routineStepAddCmd.Flags().String("habit", "", "link the step to a habit id")

	routineLsCmd.Flags().StringP("output", "o", "", "Output format (table|json|yaml)")

	routineStepCmd.AddCommand(routineStepAddCmd)
	routineCmd.AddCommand(routineAddCmd)
	routineCmd.AddCommand(routineStepCmd)
	routineCmd.AddCommand(routineLsCmd)
	routineCmd.AddCommand(routineScheduleCmd)
	routineCmd.AddCommand(routineRmCmd)
	rootCmd.AddCommand(routineCmd)
}
