package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// dotEnvFiles is a var so tests can point it elsewhere.
var dotEnvFiles = []string{".env"}

// parseEnv loads .env (if present) without overriding variables that are
// already set, then overlays the environment onto config.
func parseEnv(config *Config) error {
	if err := godotenv.Load(dotEnvFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	if err := env.Parse(config); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
