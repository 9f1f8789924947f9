// Package config loads process configuration from the environment. Only
// connection material lives here; user preferences are persisted by the
// store package.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration.
type Config struct {
	// APIURL is the backend base URL, e.g. https://backend.example.com.
	APIURL string `env:"IDV_API_URL,required,notEmpty"`
	// APIToken is the bearer credential attached to every request. Empty
	// means requests go out unauthenticated.
	APIToken string `env:"IDV_API_TOKEN"`
	// LogLevel controls the file logger: debug, info, warn, error.
	LogLevel string `env:"IDV_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
