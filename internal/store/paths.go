package store

import (
	"os"
	"path/filepath"
	"strings"

	"tempo/internal/pathutil"
)

// ResolveDataDir resolves the configured storage path. If empty, it falls
// back to ~/.tempo.
func ResolveDataDir(configured string) (string, error) {
	if trimmed := strings.TrimSpace(configured); trimmed != "" {
		return pathutil.Expand(trimmed)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tempo"), nil
}

func tasksPath(dir string) string     { return filepath.Join(dir, "tasks.json") }
func habitsPath(dir string) string    { return filepath.Join(dir, "habits.json") }
func routinesPath(dir string) string  { return filepath.Join(dir, "routines.json") }
func recordsPath(dir string) string   { return filepath.Join(dir, "sessions.json") }
func snapshotsPath(dir string) string { return filepath.Join(dir, "snapshots.json") }
