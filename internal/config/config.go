// Package config loads application configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all environment-driven settings
type Config struct {
	// Port the HTTP server listens on
	Port int `env:"PORT" envDefault:"3000"`

	// StorageType selects the storage backend ("memory" or "redis")
	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`

	// RedisURL is required when StorageType is "redis"
	RedisURL string `env:"REDIS_URL"`

	// JWTSecret signs bearer tokens
	JWTSecret string `env:"JWT_SECRET,required"`

	// JWTExpiry is how long issued tokens stay valid
	JWTExpiry time.Duration `env:"JWT_EXPIRES_IN" envDefault:"24h"`
}

// Load parses configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
