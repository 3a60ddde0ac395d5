// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Sentinel errors for missing required configuration.
var (
	// ErrMissingSupabaseURL is returned when SUPABASE_URL is not set.
	ErrMissingSupabaseURL = errors.New("missing SUPABASE_URL environment variable")

	// ErrMissingSupabaseKey is returned when SUPABASE_ANON_KEY is not set.
	ErrMissingSupabaseKey = errors.New("missing SUPABASE_ANON_KEY environment variable")

	// ErrMissingDatabaseURL is returned when DATABASE_URL is not set.
	ErrMissingDatabaseURL = errors.New("missing DATABASE_URL environment variable")
)

// Config holds all runtime configuration for the backend.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port int `env:"PORT" envDefault:"3000"`

	// SupabaseURL is the base URL of the Supabase project, e.g.
	// https://xyzcompany.supabase.co
	SupabaseURL string `env:"SUPABASE_URL"`

	// SupabaseAnonKey is the anonymous API key sent with every request to
	// the auth service.
	SupabaseAnonKey string `env:"SUPABASE_ANON_KEY"`

	// DatabaseURL is the Postgres connection string for the project's
	// data plane.
	DatabaseURL string `env:"DATABASE_URL"`

	// JWTSecret, when set, enables local verification of access tokens
	// without a round trip to the auth service.
	JWTSecret string `env:"SUPABASE_JWT_SECRET"`

	// SpotifyID and SpotifySecret enable the currently-playing fallback
	// fetch against the Spotify Web API. Optional.
	SpotifyID     string `env:"SPOTIFY_ID"`
	SpotifySecret string `env:"SPOTIFY_SECRET"`
}

// Load reads configuration from the environment and validates that all
// required values are present. It fails at startup rather than letting a
// half-configured process surface confusing errors at request time.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.SupabaseURL == "" {
		return nil, ErrMissingSupabaseURL
	}
	if cfg.SupabaseAnonKey == "" {
		return nil, ErrMissingSupabaseKey
	}
	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}

	return &cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
