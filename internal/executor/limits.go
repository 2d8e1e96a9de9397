package executor

import "time"

// Limits is the per-run resource envelope every bot executes under (§6).
// It is loaded from TOML alongside the rest of the arena's resource-cap
// config, mirroring antonijn-wbot-server's BotConfig.
//
// The executor applies Deadline, Fuel and the two output caps per run.
// MaxMemoryPages is carried but not applied by the executor: the memory
// ceiling in force is the engine-wide sandboxrt.MaxMemoryPages fixed when
// the runtime is built.
type Limits struct {
	Deadline       time.Duration `toml:"deadline"`
	Fuel           uint64        `toml:"fuel"`
	MaxMemoryPages uint32        `toml:"max_memory_pages"`
	MaxStdoutBytes int           `toml:"max_stdout_bytes"`
	MaxStderrBytes int           `toml:"max_stderr_bytes"`
}

// DefaultLimits are the fixed values named throughout §6: a 1000ms wall
// clock, a billion-instruction fuel budget, a 100 MiB memory cap, and a
// 100 KiB cap on captured stdout/stderr each.
func DefaultLimits() Limits {
	return Limits{
		Deadline:       1000 * time.Millisecond,
		Fuel:           1_000_000_000,
		MaxMemoryPages: 1600, // 100 MiB / 64 KiB pages
		MaxStdoutBytes: 100 * 1024,
		MaxStderrBytes: 100 * 1024,
	}
}
