// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file/env on top.
// - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// AuthToken is the bearer credential required on results routes.
	// Empty disables auth (local development only).
	AuthToken string `koanf:"auth_token"`

	// QueueSize bounds the in-memory submission queue.
	QueueSize int `koanf:"queue_size" validate:"min=1"`

	// WorkerCount sets the number of submission workers.
	WorkerCount int `koanf:"worker_count" validate:"min=1"`

	// DedupeSize sets the size of the submission idempotency cache.
	DedupeSize int `koanf:"dedupe_size" validate:"min=1"`

	// StoreDSN selects the SQL store when set; empty uses memory.
	StoreDSN string `koanf:"store_dsn"`

	// MaxLeaderboardLimit caps the number of ranked entries served.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit" validate:"min=1"`

	// RevealAutoWindowHours is how long after the results date the
	// podium still auto-reveals on load.
	RevealAutoWindowHours int `koanf:"reveal_auto_window_hours" validate:"min=1"`

	// RevealPhaseStepMS is the delay between consecutive podium phases.
	RevealPhaseStepMS int `koanf:"reveal_phase_step_ms" validate:"min=1"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9080",
		QueueSize:             10_000,
		WorkerCount:           runtime.NumCPU() * 2,
		DedupeSize:            50_000,
		MaxLeaderboardLimit:   100,
		RevealAutoWindowHours: 24,
		RevealPhaseStepMS:     300,
	}
}
