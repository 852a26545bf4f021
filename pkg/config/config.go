package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/joshhills/logic-puzzle-generator/pkg/constants"
)

// Config holds the demo server's environment-derived settings.
type Config struct {
	Port              string
	GenerationTimeout time.Duration
}

// Load reads a .env file if present (a missing file is not an error) and
// then pulls settings from the environment, mirroring the teacher's
// Load() shape minus the JWT/auth checks this domain has no surface for.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	timeout, err := time.ParseDuration(getEnv("GENERATION_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("GENERATION_TIMEOUT: %w", err)
	}

	return &Config{
		Port:              getEnv("PORT", constants.DefaultPort),
		GenerationTimeout: timeout,
	}, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
