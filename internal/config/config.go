// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the service configuration.
type Config struct {
	// GraphQL
	Endpoint  string        `env:"GRAPHQL_ENDPOINT" envDefault:"https://rickandmortyapi.com/graphql"`
	UserAgent string        `env:"USER_AGENT" envDefault:"character-table/0.1.0"`
	Timeout   time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`

	// Caching
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"60s"`
	RedisURL string        `env:"REDIS_URL"`

	// Server
	Port string `env:"PORT" envDefault:"8080"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`
}

// Load parses the environment and validates the result.
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

// Validate checks value ranges the parser cannot express.
func (c Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("GRAPHQL_ENDPOINT must be an absolute http(s) URL (got %q)", c.Endpoint)
	}
	if c.UserAgent == "" {
		return fmt.Errorf("USER_AGENT must not be empty")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be >= 0 (got %s)", c.Timeout)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must be >= 0 (got %s)", c.CacheTTL)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	return nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}
