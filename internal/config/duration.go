package config

import (
	"fmt"
	"strings"
	"time"
)

// DurationOrDefault parses a configured duration, falling back to the
// built-in default when the value is unset. Durations use Go syntax
// ("25m", "1h30m").
func DurationOrDefault(value string, fallback string) (time.Duration, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		raw = strings.TrimSpace(fallback)
	}
	if raw == "" {
		return 0, fmt.Errorf("duration value is empty")
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", raw, err)
	}
	return d, nil
}
