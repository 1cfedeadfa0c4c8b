// Package config loads runtime settings from environment variables.
//
// Both binaries (the web server and the terminal shell) read the same struct,
// so STORE=memory or DB_PATH=... means the same thing everywhere.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Config holds every setting. Field tags name the variable and its default.
type Config struct {
	Port        int    `env:"PORT" envDefault:"8080"`
	Store       string `env:"STORE" envDefault:"sqlite"`
	DBPath      string `env:"DB_PATH" envDefault:"data/itemgraph.db"`
	SeedDemo    bool   `env:"SEED_DEMO" envDefault:"false"`
	TemplateDir string `env:"TEMPLATE_DIR" envDefault:"web/templates"`
	StaticDir   string `env:"STATIC_DIR" envDefault:"web/static"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HistoryFile string `env:"HISTORY_FILE" envDefault:"/tmp/itemgraph_history"`
}

// Load parses the environment into a Config and checks the values that have
// a fixed set of choices.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the app can't run with.
func (c Config) Validate() error {
	switch c.Store {
	case StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("config: STORE must be %q or %q, got %q", StoreSQLite, StoreMemory, c.Store)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT out of range: %d", c.Port)
	}
	if c.Store == StoreSQLite && c.DBPath == "" {
		return fmt.Errorf("config: DB_PATH is required when STORE=%s", StoreSQLite)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level converts LOG_LEVEL (debug, info, warn, error) to a slog.Level.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("config: invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
