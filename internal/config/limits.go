package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/rpsarena/engine/internal/executor"
)

// LoadLimits reads the resource-cap block from a TOML file, the way
// antonijn-wbot-server's BotConfig is loaded, and overlays it onto
// executor.DefaultLimits. A missing path returns the defaults unchanged.
func LoadLimits(path string) (executor.Limits, error) {
	limits := executor.DefaultLimits()
	if path == "" {
		return limits, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return limits, fmt.Errorf("config: read %q: %w", path, err)
	}

	var raw struct {
		DeadlineMS     int64  `toml:"deadline_ms"`
		Fuel           uint64 `toml:"fuel"`
		MaxMemoryPages uint32 `toml:"max_memory_pages"`
		MaxStdoutBytes int    `toml:"max_stdout_bytes"`
		MaxStderrBytes int    `toml:"max_stderr_bytes"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return limits, fmt.Errorf("config: parse %q: %w", path, err)
	}

	if raw.DeadlineMS > 0 {
		limits.Deadline = time.Duration(raw.DeadlineMS) * time.Millisecond
	}
	if raw.Fuel > 0 {
		limits.Fuel = raw.Fuel
	}
	if raw.MaxMemoryPages > 0 {
		limits.MaxMemoryPages = raw.MaxMemoryPages
	}
	if raw.MaxStdoutBytes > 0 {
		limits.MaxStdoutBytes = raw.MaxStdoutBytes
	}
	if raw.MaxStderrBytes > 0 {
		limits.MaxStderrBytes = raw.MaxStderrBytes
	}
	return limits, nil
}
