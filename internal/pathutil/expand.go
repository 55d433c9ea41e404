// Package pathutil expands user-supplied paths. Storage paths in the
// config file are typically written as "~/.tempo" or with env vars, so
// every path read from config goes through Expand before use.
package pathutil

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// Expand resolves $VAR references and the "~/" home shortcut, returning
// a cleaned path. An empty input stays empty.
func Expand(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}

	expanded := os.ExpandEnv(trimmed)
	switch {
	case expanded == "~":
		home, err := homeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		expanded = home
	case strings.HasPrefix(expanded, "~/"):
		home, err := homeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		expanded = filepath.Join(home, strings.TrimPrefix(expanded, "~/"))
	}

	return filepath.Clean(expanded), nil
}

// homeDir tries os.UserHomeDir, the passwd entry, then $HOME. A value
// that still contains "~" is treated as unresolved.
func homeDir() (string, error) {
	if home, err := os.UserHomeDir(); err == nil && usable(home) {
		return strings.TrimSpace(home), nil
	}
	if current, err := user.Current(); err == nil && usable(current.HomeDir) {
		return strings.TrimSpace(current.HomeDir), nil
	}

	envHome := strings.TrimSpace(os.Getenv("HOME"))
	if envHome == "" {
		return "", fmt.Errorf("HOME is not set")
	}
	if !usable(envHome) {
		return "", fmt.Errorf("HOME is not fully resolved: %s", envHome)
	}
	return envHome, nil
}

func usable(home string) bool {
	trimmed := strings.TrimSpace(home)
	return trimmed != "" && trimmed != "~" && !strings.HasPrefix(trimmed, "~/")
}
