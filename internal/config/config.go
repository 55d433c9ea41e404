package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tempo/internal/pathutil"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	Log        LogConfig        `koanf:"log"`
	Storage    StorageConfig    `koanf:"storage"`
	Session    SessionConfig    `koanf:"session"`
	Recurrence RecurrenceConfig `koanf:"recurrence"`
	Output     OutputConfig     `koanf:"output"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type StorageConfig struct {
	Path         string `koanf:"path"`
	LockTimeout  string `koanf:"lock_timeout"`
	LockRetry    string `koanf:"lock_retry"`
	LockMaxRetry int    `koanf:"lock_max_retry"`
}

type SessionConfig struct {
	TickInterval        string `koanf:"tick_interval"`
	MaxSnapshots        int    `koanf:"max_snapshots"`
	DefaultStepDuration string `koanf:"default_step_duration"`
}

type RecurrenceConfig struct {
	MaxInstances int `koanf:"max_instances"`
}

type OutputConfig struct {
	Format string `koanf:"format"`
}

const (
	DefaultLogLevel               = "info"
	DefaultStorageLockTimeout     = "5s"
	DefaultStorageLockRetry       = "100ms"
	DefaultStorageLockMaxRetry    = 50
	DefaultSessionTickInterval    = "1s"
	DefaultSessionMaxSnapshots    = 10
	DefaultSessionStepDuration    = "25m"
	DefaultRecurrenceMaxInstances = 60
	DefaultOutputFormat           = "table"
)

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	// Hardcoded Defaults
	defaults := map[string]interface{}{
		"log.level":                     DefaultLogLevel,
		"storage.path":                  "",
		"storage.lock_timeout":          DefaultStorageLockTimeout,
		"storage.lock_retry":            DefaultStorageLockRetry,
		"storage.lock_max_retry":        DefaultStorageLockMaxRetry,
		"session.tick_interval":         DefaultSessionTickInterval,
		"session.max_snapshots":         DefaultSessionMaxSnapshots,
		"session.default_step_duration": DefaultSessionStepDuration,
		"recurrence.max_instances":      DefaultRecurrenceMaxInstances,
		"output.format":                 DefaultOutputFormat,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	// Config file loading
	configPath := ""
	if cmd != nil {
		if flag := cmd.Flags().Lookup("config"); flag != nil {
			configPath = strings.TrimSpace(flag.Value.String())
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, err
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			globalPath := filepath.Join(home, ".tempo", "config.yaml")
			if err := k.Load(file.Provider(globalPath), yaml.Parser()); err != nil {
				slog.Debug("Global config not found or invalid", "path", globalPath, "error", err)
			}
		}
	}

	// Environment Variables
	k.Load(env.Provider("TEMPO_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "TEMPO_")), "_", ".", -1)
	}), nil)

	// CLI Flags
	if cmd != nil {
		k.Load(posflag.Provider(cmd.Flags(), ".", k), nil)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	storagePath, err := pathutil.Expand(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	cfg.Storage.Path = storagePath

	return &cfg, nil
}
