// Package runner contains the setup shared by the executables.
package runner

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/oliverbestmann/kesko"
	"github.com/oliverbestmann/kesko/gm"
	"github.com/oliverbestmann/kesko/internal/config"
	"github.com/oliverbestmann/kesko/internal/demo"
	"github.com/oliverbestmann/kesko/physics"
	"github.com/oliverbestmann/kesko/recorder"
	"github.com/oliverbestmann/kesko/remote"
	"github.com/pkg/profile"
)

// SetupLogging installs a text logger on stderr as the default logger.
// Stdout is left alone, it might be used by the MCP stdio transport.
func SetupLogging(level slog.Level) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// SetupSentry initializes error reporting if a dsn is configured.
// The returned function flushes pending reports.
func SetupSentry(dsn string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{Dsn: dsn})
	if err != nil {
		return nil, fmt.Errorf("init sentry: %w", err)
	}

	return func() { sentry.Flush(2 * time.Second) }, nil
}

// ReportPanic reports a panic to sentry and panics again. Use with defer.
func ReportPanic() {
	if err := recover(); err != nil {
		sentry.CurrentHub().Recover(err)
		sentry.Flush(2 * time.Second)
		panic(err)
	}
}

// ReportError logs the error and sends it to sentry.
func ReportError(msg string, err error) {
	slog.Error(msg, slog.String("err", err.Error()))
	sentry.CaptureException(err)
}

// StartStatsview serves runtime statistics on addr if it is not empty.
func StartStatsview(addr string) {
	if addr == "" {
		return
	}

	viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(addr))

	mgr := statsview.New()
	go mgr.Start()

	slog.Info("Serving runtime statistics", slog.String("addr", addr))
}

// StartProfile starts the configured profiler. Call Stop on the result to write the profile.
func StartProfile(mode string) interface{ Stop() } {
	switch mode {
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	case "mem":
		return profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	case "trace":
		return profile.Start(profile.TraceProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	default:
		return noProfile{}
	}
}

type noProfile struct{}

func (noProfile) Stop() {}

// Simulation is an app with everything wired that the executables need.
type Simulation struct {
	App     *kesko.App
	Gateway *remote.Gateway

	store *recorder.Store
}

// NewSimulation builds the app with physics, remote control, the journal and the demo scene.
func NewSimulation(cfg config.Config) (*Simulation, error) {
	app := &kesko.App{}

	// externally stepped frames always advance by exactly one fixed step
	lockstep := cfg.Lockstep || cfg.StepMode == config.StepModeExternal

	app.InsertResource(kesko.VirtualTime{Scale: 1, Lockstep: lockstep})
	app.InsertResource(kesko.FixedTime{StepInterval: cfg.StepInterval})

	physicsConfig := physics.DefaultPhysicsConfig()
	physicsConfig.Gravity = gm.Vec{X: cfg.GravityX, Y: cfg.GravityY}
	physicsConfig.Iterations = cfg.Iterations
	physicsConfig.ContactForceEvents = cfg.ContactForceEvents
	physicsConfig.Paused = cfg.StartPaused

	if cfg.ContactForceEvents {
		physicsConfig.ContactForces = logContactForce
	}

	app.AddPlugin(physics.PluginWith(physicsConfig))

	gateway := remote.NewGateway(cfg.CollisionHistory)
	app.AddPlugin(remote.Plugin(gateway))

	sim := &Simulation{App: app, Gateway: gateway}

	if cfg.RecorderPath != "" {
		store, err := recorder.Open(cfg.RecorderPath)
		if err != nil {
			return nil, err
		}

		app.AddPlugin(recorder.Plugin(store, cfg.SnapshotEvery))
		sim.store = store
	}

	app.AddPlugin(kesko.PluginFunc(demo.Plugin))

	return sim, nil
}

// Close releases the gateway and the journal.
func (s *Simulation) Close() error {
	s.Gateway.Close()

	if s.store == nil {
		return nil
	}

	return s.store.Close()
}

func logContactForce(event physics.ContactForceEvent) error {
	slog.Debug("Contact force",
		slog.Any("colliderA", event.ColliderA),
		slog.Any("colliderB", event.ColliderB),
		slog.Float64("magnitude", event.TotalForceMagnitude),
	)

	return nil
}
