// Command kesko runs the simulation headless. External callers control it using MCP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oliverbestmann/kesko"
	"github.com/oliverbestmann/kesko/internal/config"
	"github.com/oliverbestmann/kesko/internal/runner"
	"github.com/oliverbestmann/kesko/remote"
)

func main() {
	if err := run(); err != nil {
		runner.ReportError("Simulation failed", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	runner.SetupLogging(cfg.LogLevel)

	flush, err := runner.SetupSentry(cfg.SentryDSN)
	if err != nil {
		return err
	}

	defer flush()
	defer runner.ReportPanic()

	defer runner.StartProfile(cfg.Profile).Stop()

	runner.StartStatsview(cfg.StatsviewAddr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sim, err := runner.NewSimulation(cfg)
	if err != nil {
		return err
	}

	defer func() {
		if err := sim.Close(); err != nil {
			slog.Warn("Failed to close simulation", slog.String("err", err.Error()))
		}
	}()

	if cfg.MCPTransport != "" {
		server := remote.NewServer(sim.Gateway)

		go func() {
			err := server.Run(ctx, remote.Config{Transport: cfg.MCPTransport, HTTPAddr: cfg.MCPAddr})
			if err != nil {
				runner.ReportError("MCP server failed", err)
			}

			// stdio transport ends when the caller goes away, so does the simulation
			cancel()
		}()
	}

	if cfg.StepMode == config.StepModeExternal {
		sim.App.RunWorld(remote.RunStepped(ctx, sim.Gateway))
	} else {
		sim.App.RunWorld(func(world *kesko.World) error {
			return runFrames(ctx, world, sim.Gateway.ShutdownRequested(), cfg.StepInterval, cfg.MaxFrames)
		})
	}

	slog.Info("Starting simulation",
		slog.String("stepMode", cfg.StepMode),
		slog.Duration("stepInterval", cfg.StepInterval),
		slog.Bool("lockstep", cfg.Lockstep),
	)

	err = sim.App.Run()
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

// runFrames runs one frame per interval until ctx is done, a shutdown was requested
// or maxFrames frames were executed.
func runFrames(ctx context.Context, world *kesko.World, shutdown <-chan struct{}, interval time.Duration, maxFrames uint64) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for frame := uint64(0); maxFrames == 0 || frame < maxFrames; frame++ {
		world.RunSchedule(kesko.Main)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-shutdown:
			return nil
		case <-ticker.C:
		}
	}

	return nil
}
