package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"tempo/internal/clock"
	"tempo/internal/completion"
	"tempo/internal/config"
	"tempo/internal/model"
	"tempo/internal/render"
	"tempo/internal/session"
	"tempo/internal/store"

	"github.com/google/shlex"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
)

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Run a focus session",
	Long:  `Run a focus session on a routine, a single task, a habit, or a suspended snapshot.`,
}

var focusRoutineCmd = &cobra.Command{
	Use:   "routine [id]",
	Short: "Focus on a routine",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFocus(cmd, func(stores *store.Stores, engine *session.Engine) error {
			routine, err := stores.Routines.Get(args[0])
			if err != nil {
				return err
			}
			return engine.StartRoutine(routine)
		})
	},
}

var focusTaskCmd = &cobra.Command{
	Use:   "task [id]",
	Short: "Focus on a single task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFocus(cmd, func(stores *store.Stores, engine *session.Engine) error {
			task, err := stores.Tasks.Get(args[0])
			if err != nil {
				return err
			}
			seconds, err := stepSeconds(cmd)
			if err != nil {
				return err
			}
			return engine.StartTask(task, seconds)
		})
	},
}

var focusHabitCmd = &cobra.Command{
	Use:   "habit [id]",
	Short: "Focus on a habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFocus(cmd, func(stores *store.Stores, engine *session.Engine) error {
			habit, err := stores.Habits.Get(args[0])
			if err != nil {
				return err
			}
			seconds, err := stepSeconds(cmd)
			if err != nil {
				return err
			}
			return engine.StartHabit(habit, seconds)
		})
	},
}

var focusResumeCmd = &cobra.Command{
	Use:   "resume [snapshot-id]",
	Short: "Resume a suspended session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFocus(cmd, func(stores *store.Stores, engine *session.Engine) error {
			return engine.ResumeSnapshot(args[0])
		})
	},
}

// runFocus opens storage, builds the engine, starts the session via start,
// and hands control to the interactive loop until the session ends.
func runFocus(cmd *cobra.Command, start func(*store.Stores, *session.Engine) error) error {
	stores, err := openStores()
	if err != nil {
		return err
	}
	defer stores.Close()

	interval, err := config.DurationOrDefault(cfg.Session.TickInterval, config.DefaultSessionTickInterval)
	if err != nil {
		return err
	}
	ticker := clock.New(interval)
	defer ticker.Close()

	applier := &completion.Applier{
		Tasks:    stores.Tasks,
		Habits:   stores.Habits,
		Routines: stores.Routines,
		Records:  stores.Records,
	}
	engine := session.NewEngine(ticker, stores.Snapshots, applier)
	defer engine.Close()

	if err := start(stores, engine); err != nil {
		return err
	}
	return sessionLoop(engine)
}

func sessionLoop(engine *session.Engine) error {
	r := render.NewTableRenderer()
	printStatus(r, engine)
	fmt.Println("Commands: status, pause, resume, done, adjust <±dur>, add <title> [dur], insert <at> <title> [dur], reorder <i...>, remove <i>, save, cancel")

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				fmt.Println()
				return suspend(engine)
			}
			return err
		}

		parts, parseErr := shlex.Split(strings.TrimSpace(line))
		if parseErr != nil {
			parts = strings.Fields(line)
		}
		if len(parts) == 0 {
			continue
		}

		exit, err := dispatch(r, engine, parts[0], parts[1:])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if exit {
			return nil
		}
	}
}

func dispatch(r *render.TableRenderer, engine *session.Engine, cmd string, args []string) (exit bool, err error) {
	switch cmd {
	case "status", "st":
		printStatus(r, engine)
		return false, nil

	case "pause":
		if err := engine.Pause(); err != nil {
			return false, err
		}
		fmt.Println("Paused")
		return false, nil

	case "resume":
		if err := engine.Resume(); err != nil {
			return false, err
		}
		fmt.Println("Resumed")
		return false, nil

	case "done", "next":
		rec, err := engine.CompleteStep()
		if err != nil {
			return false, err
		}
		if rec == nil {
			printStatus(r, engine)
			return false, nil
		}
		fmt.Printf("Session complete: %d/%d steps in %s\n",
			rec.CompletedSteps, rec.TotalSteps, (time.Duration(rec.DurationSeconds) * time.Second).String())
		return true, nil

	case "adjust":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: adjust <±duration>, e.g. adjust -5m")
		}
		d, err := time.ParseDuration(args[0])
		if err != nil {
			return false, fmt.Errorf("invalid duration %q: %w", args[0], err)
		}
		if err := engine.AdjustTime(int(d / time.Second)); err != nil {
			return false, err
		}
		printStatus(r, engine)
		return false, nil

	case "add":
		step, err := parseStepArgs(args)
		if err != nil {
			return false, err
		}
		if err := engine.AppendStep(step); err != nil {
			return false, err
		}
		printStatus(r, engine)
		return false, nil

	case "insert":
		if len(args) < 2 {
			return false, fmt.Errorf("usage: insert <at> <title> [duration]")
		}
		at, err := strconv.Atoi(args[0])
		if err != nil {
			return false, fmt.Errorf("invalid position %q", args[0])
		}
		step, err := parseStepArgs(args[1:])
		if err != nil {
			return false, err
		}
		if err := engine.SpliceSteps(at, []model.StepDefinition{step}); err != nil {
			return false, err
		}
		printStatus(r, engine)
		return false, nil

	case "reorder":
		order := make([]int, 0, len(args))
		for _, a := range args {
			i, err := strconv.Atoi(a)
			if err != nil {
				return false, fmt.Errorf("invalid index %q", a)
			}
			order = append(order, i)
		}
		if err := engine.ReorderSteps(order); err != nil {
			return false, err
		}
		printStatus(r, engine)
		return false, nil

	case "remove", "rm":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: remove <index>")
		}
		i, err := strconv.Atoi(args[0])
		if err != nil {
			return false, fmt.Errorf("invalid index %q", args[0])
		}
		canceled, err := engine.RemoveStep(i)
		if err != nil {
			return false, err
		}
		if canceled {
			fmt.Println("Last step removed, session canceled")
			return true, nil
		}
		printStatus(r, engine)
		return false, nil

	case "save", "suspend":
		return true, suspend(engine)

	case "cancel", "quit", "exit":
		engine.Cancel()
		fmt.Println("Session canceled")
		return true, nil

	default:
		return false, fmt.Errorf("unknown command: %s", cmd)
	}
}

func suspend(engine *session.Engine) error {
	snap, err := engine.Suspend()
	if err != nil {
		return err
	}
	fmt.Printf("Session saved, resume with: tempo focus resume %s\n", snap.ID)
	return nil
}

func printStatus(r *render.TableRenderer, engine *session.Engine) {
	out, err := r.Status(engine.Status())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Println(out)
}

// parseStepArgs reads "<title> [duration]". The duration defaults to the
// configured step duration.
func parseStepArgs(args []string) (model.StepDefinition, error) {
	if len(args) == 0 {
		return model.StepDefinition{}, fmt.Errorf("missing step title")
	}
	d, err := config.DurationOrDefault(cfg.Session.DefaultStepDuration, config.DefaultSessionStepDuration)
	if err != nil {
		return model.StepDefinition{}, err
	}
	if len(args) > 1 {
		if parsed, perr := time.ParseDuration(args[len(args)-1]); perr == nil {
			d = parsed
			args = args[:len(args)-1]
		}
	}
	return model.StepDefinition{
		ID:              ulid.Make().String(),
		Title:           strings.Join(args, " "),
		DurationSeconds: int(d / time.Second),
	}, nil
}

func init() {
	focusTaskCmd.Flags().String("for", "", "session duration (default from config, 25m)")
	focusHabitCmd.Flags().String("for", "", "session duration (default from config, 25m)")

	focusCmd.AddCommand(focusRoutineCmd)
	focusCmd.AddCommand(focusTaskCmd)
	focusCmd.AddCommand(focusHabitCmd)
	focusCmd.AddCommand(focusResumeCmd)
	rootCmd.AddCommand(focusCmd)
}
