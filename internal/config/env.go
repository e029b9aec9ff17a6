package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Settings is the process configuration, read from the environment.
type Settings struct {
	Port     string `env:"PORT" envDefault:"8080"`
	DataDir  string `env:"DATA_DIR" envDefault:"./data"`
	Storage  string `env:"STORAGE" envDefault:"memory"` // "memory" or "sqlite"
	GamePath string `env:"GAME_CONFIG" envDefault:"game.yaml"`

	TickInterval time.Duration `env:"TICK_INTERVAL" envDefault:"60s"`
	TickBudget   time.Duration `env:"TICK_BUDGET" envDefault:"55s"`

	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"24h"`
	SweepBudget   time.Duration `env:"SWEEP_BUDGET" envDefault:"23h"`

	// Ceiling on offline time applied by a single tick, so catch-up stays
	// O(1) no matter how long a vault sat untouched.
	MaxOfflineCatchup time.Duration `env:"MAX_OFFLINE_CATCHUP" envDefault:"24h"`
}

// ParseSettings loads Settings from the environment.
func ParseSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	if s.Storage != "memory" && s.Storage != "sqlite" {
		return Settings{}, fmt.Errorf("STORAGE must be memory or sqlite, got %q", s.Storage)
	}
	return s, nil
}
