package server

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the checkpoint server's runtime configuration.
// Values come from the environment; CLI flags override them.
type Config struct {
	// Addr is the listen address.
	Addr string `env:"DINOMINE_ADDR" envDefault:":8080"`

	// DBPath is the SQLite database path.
	DBPath string `env:"DINOMINE_DB" envDefault:"dinomine.db"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"DINOMINE_LOG_LEVEL" envDefault:"info"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
