// Command kesko-viewer runs the simulation in a window.
package main

import (
	"log/slog"
	"os"

	"github.com/oliverbestmann/kesko"
	"github.com/oliverbestmann/kesko/internal/config"
	"github.com/oliverbestmann/kesko/internal/runner"
	"github.com/oliverbestmann/kesko/viewer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		runner.ReportError("Invalid configuration", err)
		os.Exit(1)
	}

	runner.SetupLogging(cfg.LogLevel)

	// the window drives the frames, the wall clock decides the number of physics steps
	cfg.Lockstep = false

	sim, err := runner.NewSimulation(cfg)
	if err != nil {
		runner.ReportError("Failed to create simulation", err)
		os.Exit(1)
	}

	defer func() {
		if err := sim.Close(); err != nil {
			slog.Warn("Failed to close simulation", slog.String("err", err.Error()))
		}
	}()

	sim.App.AddPlugin(kesko.PluginFunc(viewer.Plugin))

	if err := sim.App.Run(); err != nil {
		runner.ReportError("Viewer failed", err)
	}
}
