package main

import (
	"fmt"
	"strconv"
	"time"

	"tempo/internal/model"
	"tempo/internal/streak"

	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
)

var habitCmd = &cobra.Command{
	Use:   "habit",
	Short: "Manage habits",
	Long:  `Manage habits including add, ls, log, skip, and rm.`,
}

var habitAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := openStores()
		if err != nil {
			return err
		}
		defer stores.Close()

		goal, _ := cmd.Flags().GetString("goal")
		kind := model.GoalKind(goal)
		if kind != model.GoalDuration && kind != model.GoalCount {
			return fmt.Errorf("invalid --goal: %s (supported: duration, count)", goal)
		}
		target, _ := cmd.Flags().GetFloat64("target")
		if target <= 0 {
			return fmt.Errorf("--target must be positive")
		}

		now := time.Now()
		habit := model.Habit{
			ID:        ulid.Make().String(),
			Name:      args[0],
			Goal:      kind,
			Target:    target,
			History:   map[string]float64{},
			CreatedAt: now,
			UpdatedAt: now,
		}

		if elastic, _ := cmd.Flags().GetBool("elastic"); elastic {
			mini, _ := cmd.Flags().GetFloat64("mini")
			plus, _ := cmd.Flags().GetFloat64("plus")
			elite, _ := cmd.Flags().GetFloat64("elite")
			if !(mini > 0 && mini < plus && plus < elite) {
				return fmt.Errorf("elastic tiers must satisfy 0 < mini < plus < elite")
			}
			habit.Elastic = true
			habit.Tiers = &model.ElasticTiers{Mini: mini, Plus: plus, Elite: elite}
		}

		if names, _ := cmd.Flags().GetStringSlice("days"); len(names) > 0 {
			days, err := parseWeekdays(names)
			if err != nil {
				return err
			}
			habit.Days = days
		}

		if err := stores.Habits.Add(habit); err != nil {
			return err
		}
		fmt.Printf("Added habit %s\n", habit.ID)
		return nil
	},
}

var habitLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List habits",
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := openStores()
		if err != nil {
			return err
		}
		defer stores.Close()

		habits := stores.Habits.List()
		ptrs := make([]*model.Habit, len(habits))
		for i := range habits {
			ptrs[i] = &habits[i]
		}

		r, err := newRenderer(cmd)
		if err != nil {
			return err
		}
		out, err := r.Habits(ptrs, time.Now())
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	},
}

var habitLogCmd = &cobra.Command{
	Use:   "log [id] [value]",
	Short: "Log progress for today",
	Long:  `Log progress for today. The value adds to any progress already logged; a skip mark is overwritten.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil || value < 0 {
			return fmt.Errorf("invalid value %q: want a non-negative number", args[1])
		}
		return logHabit(args[0], func(current float64) float64 {
			if current == model.SkipSentinel {
				current = 0
			}
			return current + value
		})
	},
}

var habitSkipCmd = &cobra.Command{
	Use:   "skip [id]",
	Short: "Mark today as skipped",
	Long:  `Mark today as skipped. A skipped day is transparent to the streak: it neither extends nor breaks it.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return logHabit(args[0], func(float64) float64 {
			return model.SkipSentinel
		})
	},
}

var habitRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Remove a habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stores, err := openStores()
		if err != nil {
			return err
		}
		defer stores.Close()

		if err := stores.Habits.SoftDelete(args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed habit %s\n", args[0])
		return nil
	},
}

// logHabit applies fn to today's history value, recomputes the streak, and
// persists both.
func logHabit(id string, fn func(current float64) float64) error {
	stores, err := openStores()
	if err != nil {
		return err
	}
	defer stores.Close()

	habit, err := stores.Habits.Get(id)
	if err != nil {
		return err
	}

	now := time.Now()
	key := model.DayKey(now)
	history := make(map[string]float64, len(habit.History)+1)
	for k, v := range habit.History {
		history[k] = v
	}
	history[key] = fn(history[key])

	streakLen := streak.WithHistory(habit, history, now)
	if err := stores.Habits.UpdateHistory(id, history, streakLen); err != nil {
		return err
	}
	fmt.Printf("Habit %s: today=%g streak=%d\n", habit.Name, history[key], streakLen)
	return nil
}

func init() {
	habitAddCmd.Flags().String("goal", string(model.GoalDuration), "goal kind (duration|count)")
	habitAddCmd.Flags().Float64("target", 25, "daily target (minutes or count)")
	habitAddCmd.Flags().Bool("elastic", false, "use graduated mini/plus/elite targets")
	habitAddCmd.Flags().Float64("mini", 0, "elastic mini target")
	habitAddCmd.Flags().Float64("plus", 0, "elastic plus target")
	habitAddCmd.Flags().Float64("elite", 0, "elastic elite target")
	habitAddCmd.Flags().StringSlice("days", nil, "restrict to weekdays (mon,wed,fri)")

	habitLsCmd.Flags().StringP("output", "o", "", "Output format (table|json|yaml)")

	habitCmd.AddCommand(habitAddCmd)
	habitCmd.AddCommand(habitLsCmd)
	habitCmd.AddCommand(habitLogCmd)
	habitCmd.AddCommand(habitSkipCmd)
	habitCmd.AddCommand(habitRmCmd)
	rootCmd.AddCommand(habitCmd)
}
