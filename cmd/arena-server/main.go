// Package main is the entry point for the RPS arena server.
//
// Usage:
//
//	arena-server
//
// The server takes no command-line flags. It is configured through
// environment variables:
//
//	ARENA_CONFIG    Path to arena.yaml (default: none, built-in defaults)
//	ARENA_LIMITS    Path to the TOML resource-cap file (default: none)
//	ARENA_API_KEY   API key required on /v1 routes (default: none, auth off)
//	ARENA_ENV       "production" switches logging to JSON output
package main

import (
	"context"
	"math/rand/v2"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/coder/quartz"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpsarena/engine/internal/api"
	"github.com/rpsarena/engine/internal/blobstore"
	"github.com/rpsarena/engine/internal/bracket"
	"github.com/rpsarena/engine/internal/broadcast"
	"github.com/rpsarena/engine/internal/config"
	"github.com/rpsarena/engine/internal/executor"
	"github.com/rpsarena/engine/internal/match"
	"github.com/rpsarena/engine/internal/orchestrator"
	"github.com/rpsarena/engine/internal/registry"
	"github.com/rpsarena/engine/internal/rps"
	"github.com/rpsarena/engine/internal/sandboxrt"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	if os.Getenv("ARENA_ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}

	configPath := os.Getenv("ARENA_CONFIG")
	limitsPath := os.Getenv("ARENA_LIMITS")

	serverCfg, err := config.LoadServer(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load server config")
	}
	limits, err := config.LoadLimits(limitsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load resource limits")
	}
	if serverCfg.LogLevel != "" {
		if level, err := zerolog.ParseLevel(serverCfg.LogLevel); err == nil {
			zerolog.SetGlobalLevel(level)
		}
	}

	log.Info().Str("version", Version).Str("commit", GitCommit).Msg("arena server starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
		cancel()
	}()

	runtime, err := sandboxrt.Get(ctx, sandboxrt.Config{InterpreterPath: serverCfg.InterpreterPath})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise sandbox runtime")
	}

	blobs, err := blobstore.NewFSBlobStore(serverCfg.BlobStoreDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise blob store")
	}

	reg := registry.NewMemoryRegistry()
	hub := broadcast.NewHub()
	exec := executor.New(runtime, limits, blobs)

	h := api.NewHandler(exec, reg, blobs, hub, os.Getenv("ARENA_API_KEY"))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	h.RegisterRoutes(e)

	period, err := time.ParseDuration(serverCfg.TournamentPeriod)
	if err != nil {
		period = 30 * time.Second
	}
	go runScheduler(ctx, quartz.NewReal(), period, reg, exec, hub)

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", serverCfg.Port).Msg("server listening")
		serverErr <- e.Start(":" + serverCfg.Port)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server forced to shutdown")
		}
	case err := <-serverErr:
		log.Fatal().Err(err).Msg("server startup failed")
	}
}

// runScheduler builds and runs a new tournament from the registry's
// active bot list every period, using a fakeable quartz.Clock so the
// cadence can be driven deterministically in tests. At most one
// tournament runs at a time, per §5.
func runScheduler(ctx context.Context, clock quartz.Clock, period time.Duration, reg registry.Registry, exec *executor.Executor, hub *broadcast.Hub) {
	ticker := clock.NewTicker(period)
	defer ticker.Stop()

	var mu sync.Mutex
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go func() {
				mu.Lock()
				defer mu.Unlock()
				if err := launchTournament(ctx, reg, exec, hub); err != nil {
					log.Error().Err(err).Msg("scheduled tournament failed")
				}
			}()
		}
	}
}

func launchTournament(ctx context.Context, reg registry.Registry, exec *executor.Executor, hub *broadcast.Hub) error {
	bots, err := reg.ListActive(ctx)
	if err != nil {
		return err
	}
	if len(bots) < 2 {
		log.Info().Int("bots", len(bots)).Msg("skipping scheduled tournament, too few active bots")
		return nil
	}

	shuffle(bots)
	tournament := bracket.Build(bots)

	engine := match.New(exec, reg, hub, nil)
	driver := orchestrator.New(engine, hub)
	log.Info().Int("bots", len(bots)).Msg("running scheduled tournament")
	return driver.Run(ctx, tournament)
}

func shuffle(bots []*rps.Bot) {
	rand.Shuffle(len(bots), func(i, j int) { bots[i], bots[j] = bots[j], bots[i] })
}
