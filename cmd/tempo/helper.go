package main

import (
	"fmt"
	"strings"
	"time"

	"tempo/internal/config"
	"tempo/internal/render"
	"tempo/internal/store"

	"github.com/spf13/cobra"
)

func openStores() (*store.Stores, error) {
	dataDir, err := store.ResolveDataDir(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}

	lockTimeout, err := config.DurationOrDefault(cfg.Storage.LockTimeout, config.DefaultStorageLockTimeout)
	if err != nil {
		return nil, err
	}
	lockRetry, err := config.DurationOrDefault(cfg.Storage.LockRetry, config.DefaultStorageLockRetry)
	if err != nil {
		return nil, err
	}

	lockCfg := &store.FileLockConfig{
		LockTimeout:  lockTimeout,
		LockRetry:    lockRetry,
		LockMaxRetry: cfg.Storage.LockMaxRetry,
	}
	return store.Open(dataDir, lockCfg, cfg.Session.MaxSnapshots)
}

// newRenderer resolves the output format from the command's --output flag,
// falling back to the configured default.
func newRenderer(cmd *cobra.Command) (render.Renderer, error) {
	raw, _ := cmd.Flags().GetString("output")
	if raw == "" {
		raw = cfg.Output.Format
	}
	format, err := render.ParseOutputFormat(raw)
	if err != nil {
		return nil, err
	}
	return render.New(format)
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

func parseWeekdays(names []string) ([]time.Weekday, error) {
	out := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("invalid weekday: %s (use mon..sun)", name)
		}
		out = append(out, wd)
	}
	return out, nil
}

func stepSeconds(cmd *cobra.Command) (int, error) {
	raw, _ := cmd.Flags().GetString("for")
	if raw == "" {
		raw = cfg.Session.DefaultStepDuration
	}
	d, err := config.DurationOrDefault(raw, config.DefaultSessionStepDuration)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	return int(d / time.Second), nil
}
