package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port            string
	ImageServiceURL string
	FetchTimeout    time.Duration
	// GridSeed makes grid sampling reproducible when set.
	GridSeed       *uint64
	ServeCatalog   bool
	AllowedOrigins []string
	Logging        bool
	LogLevel       string
	LogFile        string
}

// Load reads the environment, after merging in a .env file when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Failed to read .env file")
	}

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		ImageServiceURL: getEnv("IMAGE_SERVICE_URL", "http://localhost:5038/fruitbingoapp"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         getEnv("LOG_FILE", "fruitbingo.log"),
		Logging:         os.Getenv("LOGGING") == "true",
		ServeCatalog:    os.Getenv("SERVE_CATALOG") == "true",
		AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "*")),
	}

	timeout, err := time.ParseDuration(getEnv("FETCH_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("parse FETCH_TIMEOUT: %w", err)
	}
	cfg.FetchTimeout = timeout

	if raw := os.Getenv("GRID_SEED"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse GRID_SEED: %w", err)
		}
		cfg.GridSeed = &seed
	}

	return cfg, nil
}

// AllowsAnyOrigin reports whether the origin list is the wildcard.
func (c *Config) AllowsAnyOrigin() bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
