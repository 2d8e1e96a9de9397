// Package executor is the bot executor (C2): it takes one Bot and one
// stdin payload, runs it inside the sandbox runtime under a deadline and a
// fuel budget, and always returns a fully-populated rps.RunResult — a
// misbehaving bot is data, never a Go error (§4.2/§7).
package executor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tetratelabs/wazero"

	"github.com/rpsarena/engine/internal/rps"
	"github.com/rpsarena/engine/internal/sandboxrt"
)

// BlobLoader resolves a content-addressed blob key to its bytes, for
// Native bots persisted by key only; the bytes are loaded on every run of
// such a bot. The blobstore package satisfies this.
type BlobLoader interface {
	Load(ctx context.Context, key string) ([]byte, error)
}

// Executor runs bots against the shared sandbox runtime.
type Executor struct {
	runtime *sandboxrt.Runtime
	limits  Limits
	blobs   BlobLoader
}

// New builds an Executor. blobs may be nil if the caller only ever passes
// bots that already carry their bytes in memory.
func New(runtime *sandboxrt.Runtime, limits Limits, blobs BlobLoader) *Executor {
	return &Executor{runtime: runtime, limits: limits, blobs: blobs}
}

// Run executes one bot against stdin and returns its outcome. The returned
// error is non-nil only for infrastructure failures (blob store I/O,
// temp-dir creation) that have nothing to do with the bot's own behaviour;
// every other failure mode is reported as an Invalid RunResult.
func (e *Executor) Run(ctx context.Context, bot *rps.Bot, stdin []byte) (*rps.RunResult, error) {
	start := time.Now()

	wasmBytes, compiled, args, fsConfig, cleanup, err := e.prepare(ctx, bot)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		return nil, err
	}
	if compiled == nil {
		// Compile/adaptation failure: bot's own fault, not ours (§4.2).
		return invalidResult(stdin, nil, nil, time.Since(start), rps.ReasonWasmLoadFailed), nil
	}
	if bot.Kind == rps.Native {
		// Per-run native modules are released with the run; the shared
		// interpreter module is not.
		defer compiled.Close(context.Background())
	}
	_ = wasmBytes

	stdout := newLimitedBuffer(e.limits.MaxStdoutBytes)
	stderr := newLimitedBuffer(e.limits.MaxStderrBytes)

	runCtx, cancel := context.WithTimeout(ctx, e.limits.Deadline)
	defer cancel()
	fuelCtx, meter := sandboxrt.WithFuel(runCtx, e.limits.Fuel)

	modCfg := wazero.NewModuleConfig().
		WithStdin(bytes.NewReader(stdin)).
		WithStdout(stdout).
		WithStderr(stderr).
		WithArgs(args...)
	if fsConfig != nil {
		modCfg = modCfg.WithFSConfig(fsConfig)
	}

	mod, runErr := e.runtime.BorrowEngine().InstantiateModule(fuelCtx, compiled, modCfg)
	if mod != nil {
		defer mod.Close(context.Background())
	}
	duration := time.Since(start)

	switch {
	case runCtx.Err() == context.DeadlineExceeded:
		return invalidResult(stdin, stdout.Bytes(), stderr.Bytes(), duration, rps.ReasonTimeout), nil

	case meter.Exceeded():
		return invalidResult(stdin, stdout.Bytes(), stderr.Bytes(), duration, rps.ReasonFuelExhausted), nil

	case runErr != nil:
		// A trap before any instruction ran is treated as a load/link
		// failure for native bots (missing _start, bad imports); the
		// interpreter itself is pre-validated at sandbox start-up, so
		// scripted bots always fall through to the generic reason.
		if bot.Kind == rps.Native && meter.Consumed() == 0 {
			return invalidResult(stdin, stdout.Bytes(), stderr.Bytes(), duration, rps.ReasonWasmLoadFailed), nil
		}
		return invalidResult(stdin, stdout.Bytes(), stderr.Bytes(), duration, rps.ReasonRuntimeError), nil

	default:
		play := lastLinePlay(stdout.Bytes())
		reason := ""
		if play == rps.Invalid {
			reason = rps.ReasonNoValidPlay
		}
		return &rps.RunResult{
			StdinEcho:     stdin,
			Stdout:        stdout.Bytes(),
			Stderr:        stderr.Bytes(),
			Duration:      duration,
			Play:          play,
			InvalidReason: reason,
		}, nil
	}
}

// prepare resolves a bot into a compiled module, argv and (for Scripted
// bots) a read-only filesystem mount, ready for instantiation. A nil
// compiled module with a nil error signals a bot-side load failure rather
// than an infrastructure one.
func (e *Executor) prepare(ctx context.Context, bot *rps.Bot) (wasmBytes []byte, compiled wazero.CompiledModule, args []string, fsConfig wazero.FSConfig, cleanup func(), err error) {
	switch bot.Kind {
	case rps.Native:
		wasmBytes, err = e.loadNativeBytes(ctx, bot)
		if err != nil {
			return nil, nil, nil, nil, nil, err
		}
		compiled, compileErr := e.runtime.CompileNative(ctx, wasmBytes)
		if compileErr != nil {
			return wasmBytes, nil, nil, nil, nil, nil
		}
		return wasmBytes, compiled, []string{"wasmbot"}, nil, nil, nil

	case rps.Scripted:
		tmpDir, mkErr := os.MkdirTemp("", "rpsbot-")
		if mkErr != nil {
			return nil, nil, nil, nil, nil, fmt.Errorf("executor: create sandbox dir: %w", mkErr)
		}
		cleanup = func() { os.RemoveAll(tmpDir) }

		entry := filepath.Join(tmpDir, e.runtime.InterpreterEntry())
		if writeErr := os.WriteFile(entry, []byte(bot.SourceText), 0o444); writeErr != nil {
			return nil, nil, nil, nil, cleanup, fmt.Errorf("executor: write bot source: %w", writeErr)
		}

		mount := wazero.NewFSConfig().WithReadOnlyDirMount(tmpDir, "/")
		return nil, e.runtime.BorrowInterpreter(), []string{"python", e.runtime.InterpreterEntry()}, mount, cleanup, nil

	default:
		return nil, nil, nil, nil, nil, fmt.Errorf("executor: unknown bot kind %v", bot.Kind)
	}
}

func (e *Executor) loadNativeBytes(ctx context.Context, bot *rps.Bot) ([]byte, error) {
	if len(bot.Bytes) > 0 {
		return bot.Bytes, nil
	}
	if bot.BlobKey == "" {
		return nil, fmt.Errorf("executor: native bot has neither bytes nor a blob key")
	}
	if e.blobs == nil {
		return nil, fmt.Errorf("executor: no blob loader configured for lazy-loaded bot")
	}
	data, err := e.blobs.Load(ctx, bot.BlobKey)
	if err != nil {
		return nil, fmt.Errorf("executor: load blob %q: %w", bot.BlobKey, err)
	}
	return data, nil
}

func lastLinePlay(stdout []byte) rps.Play {
	lines := strings.Split(strings.TrimRight(string(stdout), "\n"), "\n")
	return rps.ParsePlay(lines[len(lines)-1])
}

func invalidResult(stdin, stdout, stderr []byte, d time.Duration, reason string) *rps.RunResult {
	return &rps.RunResult{
		StdinEcho:     stdin,
		Stdout:        stdout,
		Stderr:        stderr,
		Duration:      d,
		Play:          rps.Invalid,
		InvalidReason: reason,
	}
}
