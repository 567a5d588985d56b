// Package config loads the runner configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StepModeFree     = "free"
	StepModeExternal = "external"
)

type Config struct {
	LogLevel slog.Level `env:"KESKO_LOG_LEVEL" envDefault:"info"`

	// physics
	StepInterval       time.Duration `env:"KESKO_STEP_INTERVAL" envDefault:"15625us"`
	Lockstep           bool          `env:"KESKO_LOCKSTEP"`
	GravityX           float64       `env:"KESKO_GRAVITY_X" envDefault:"0"`
	GravityY           float64       `env:"KESKO_GRAVITY_Y" envDefault:"-9.81"`
	Iterations         uint          `env:"KESKO_ITERATIONS" envDefault:"10"`
	ContactForceEvents bool          `env:"KESKO_CONTACT_FORCE_EVENTS"`
	StartPaused        bool          `env:"KESKO_START_PAUSED"`

	// stop after this many frames, run forever if zero
	MaxFrames uint64 `env:"KESKO_MAX_FRAMES"`

	// free runs frames on a timer, external runs frames only when requested using the step tool
	StepMode string `env:"KESKO_STEP_MODE" envDefault:"free"`

	// remote control, disabled if empty
	MCPTransport string `env:"KESKO_MCP_TRANSPORT"`
	MCPAddr      string `env:"KESKO_MCP_ADDR" envDefault:"localhost:8081"`

	CollisionHistory int `env:"KESKO_COLLISION_HISTORY" envDefault:"256"`

	// journal, disabled if empty
	RecorderPath  string `env:"KESKO_RECORDER_PATH"`
	SnapshotEvery uint64 `env:"KESKO_SNAPSHOT_EVERY" envDefault:"64"`

	SentryDSN     string `env:"KESKO_SENTRY_DSN"`
	StatsviewAddr string `env:"KESKO_STATSVIEW_ADDR"`

	// one of cpu, mem or trace, disabled if empty
	Profile string `env:"KESKO_PROFILE"`
}

// Load parses the configuration from the environment variables.
func Load() (Config, error) {
	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := config.validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c Config) validate() error {
	if c.StepInterval <= 0 {
		return fmt.Errorf("step interval must be positive, got %s", c.StepInterval)
	}

	switch c.MCPTransport {
	case "", "stdio", "http":
	default:
		return fmt.Errorf("unknown mcp transport %q", c.MCPTransport)
	}

	switch c.StepMode {
	case StepModeFree:
	case StepModeExternal:
		if c.MCPTransport == "" {
			return fmt.Errorf("step mode %q requires an mcp transport", c.StepMode)
		}
	default:
		return fmt.Errorf("unknown step mode %q", c.StepMode)
	}

	switch c.Profile {
	case "", "cpu", "mem", "trace":
	default:
		return fmt.Errorf("unknown profile mode %q", c.Profile)
	}

	return nil
}
