// Package sandboxrt is the process-wide WebAssembly sandbox runtime (C1):
// a singleton engine, WASI host, and pre-compiled interpreter module, built
// once and shared read-only for the life of the process.
//
// wazero is the engine, matching the reference corpus's idiomatic choice
// for embedded WASM (agentplexus-omniagent, codefionn-scriptschnell,
// ifruncillo-idlenet-agent all build sandboxes on it). wazero has no
// wasmtime-style fuel counter, so instruction metering is reconstructed on
// top of its experimental function-listener hook (fuel.go).
package sandboxrt

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// FuelPerRun is the instruction budget every bot invocation is metered
// against (§6).
const FuelPerRun = 1_000_000_000

// wasmPageSize is the fixed 64 KiB WebAssembly linear memory page size.
const wasmPageSize = 65536

// MaxMemoryPages caps total linear memory across all memories in a run at
// 100 MiB (§6). wazero enforces this engine-wide rather than per store, so
// every run shares the same ceiling — compatible here because the cap is a
// fixed system constant, not something that varies per bot.
const MaxMemoryPages = (100 * 1024 * 1024) / wasmPageSize

// MaxInstances, MaxTables and MaxTableElements are the remaining per-run
// caps from §6. wazero's public API has no knob for these, and nothing in
// this repository enforces them: they are documented values only. The
// executor instantiates a single guest module per run; table counts and
// table element counts are not checked.
const (
	MaxInstances     = 8
	MaxTables        = 4
	MaxTableElements = 20_000
)

// Runtime is the shared, read-only sandbox singleton. Nothing sandbox-side
// outlives a single bot run; Runtime itself lives until process exit.
type Runtime struct {
	engine              wazero.Runtime
	interpreter         wazero.CompiledModule
	interpreterEntry    string
}

var (
	once     sync.Once
	instance *Runtime
	initErr  error
)

// Config controls one-time sandbox initialisation.
type Config struct {
	// InterpreterPath is the filesystem path to the interpreter WASI
	// module (the scripting-language interpreter component), loaded once.
	InterpreterPath string
	// InterpreterEntry is the filename the interpreter expects to find
	// the bot's source under inside its pre-opened directory.
	InterpreterEntry string
}

// Get returns the process-wide Runtime, initialising it on first call.
// Initialisation failure is a configuration error: the caller should treat
// it as fatal (§4.1).
func Get(ctx context.Context, cfg Config) (*Runtime, error) {
	once.Do(func() {
		instance, initErr = newRuntime(ctx, cfg)
	})
	return instance, initErr
}

func newRuntime(ctx context.Context, cfg Config) (*Runtime, error) {
	if cfg.InterpreterEntry == "" {
		cfg.InterpreterEntry = "main.py"
	}

	engine := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().
		WithCloseOnContextDone(true).
		WithMemoryLimitPages(MaxMemoryPages))

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, engine); err != nil {
		engine.Close(ctx)
		return nil, fmt.Errorf("sandboxrt: instantiate WASI host: %w", err)
	}

	bytes, err := os.ReadFile(cfg.InterpreterPath)
	if err != nil {
		engine.Close(ctx)
		return nil, fmt.Errorf("sandboxrt: read interpreter module %q: %w", cfg.InterpreterPath, err)
	}

	compiled, err := engine.CompileModule(ctx, bytes)
	if err != nil {
		engine.Close(ctx)
		return nil, fmt.Errorf("sandboxrt: compile interpreter module: %w", err)
	}

	log.Info().Str("interpreter", cfg.InterpreterPath).Msg("sandbox runtime initialised")

	return &Runtime{
		engine:           engine,
		interpreter:      compiled,
		interpreterEntry: cfg.InterpreterEntry,
	}, nil
}

// BorrowEngine returns the shared wazero.Runtime handle used to compile
// per-run native bot modules. Compilation and instantiation of the result
// are entirely the caller's (the executor's) responsibility; the engine
// itself is never mutated.
func (r *Runtime) BorrowEngine() wazero.Runtime {
	return r.engine
}

// BorrowInterpreter returns the pre-compiled interpreter module handle used
// to run Scripted bots.
func (r *Runtime) BorrowInterpreter() wazero.CompiledModule {
	return r.interpreter
}

// InterpreterEntry is the filename the interpreter expects source under
// (e.g. "main.py").
func (r *Runtime) InterpreterEntry() string {
	return r.interpreterEntry
}

// CompileNative compiles raw WebAssembly bytes into a fresh compiled module
// for one native bot. Unlike the interpreter, native modules are not
// cached across runs (§4.2).
func (r *Runtime) CompileNative(ctx context.Context, wasmBytes []byte) (wazero.CompiledModule, error) {
	compiled, err := r.engine.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("sandboxrt: compile native module: %w", err)
	}
	return compiled, nil
}
