package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the CLI needs from the environment.
type Config struct {
	// Backend
	APIURL         string        `env:"BOOKDEN_API_URL" default:"http://localhost:8080/api"`
	RequestTimeout time.Duration `env:"BOOKDEN_REQUEST_TIMEOUT" default:"10s"`

	// Search provider quota (requests per second through the backend proxy)
	SearchRate  float64 `env:"BOOKDEN_SEARCH_RATE" default:"2"`
	SearchBurst int     `env:"BOOKDEN_SEARCH_BURST" default:"4"`

	// Logging
	LogLevel  string `env:"BOOKDEN_LOG_LEVEL" default:"info"`
	LogFormat string `env:"BOOKDEN_LOG_FORMAT" default:"text"`

	// Metrics exposition; empty disables the endpoint.
	MetricsAddr string `env:"BOOKDEN_METRICS_ADDR" default:""`
}

// Load reads configuration from the environment, with an optional .env file
// in the working directory. A missing .env is fine; system env vars still
// apply.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{}
	loadString(&cfg.APIURL, "BOOKDEN_API_URL", "http://localhost:8080/api")
	if err := loadDuration(&cfg.RequestTimeout, "BOOKDEN_REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if err := loadFloat(&cfg.SearchRate, "BOOKDEN_SEARCH_RATE", 2); err != nil {
		return nil, err
	}
	if err := loadInt(&cfg.SearchBurst, "BOOKDEN_SEARCH_BURST", 4); err != nil {
		return nil, err
	}
	loadString(&cfg.LogLevel, "BOOKDEN_LOG_LEVEL", "info")
	loadString(&cfg.LogFormat, "BOOKDEN_LOG_FORMAT", "text")
	loadString(&cfg.MetricsAddr, "BOOKDEN_METRICS_ADDR", "")

	if cfg.APIURL == "" {
		return nil, fmt.Errorf("BOOKDEN_API_URL must not be empty")
	}
	return cfg, nil
}

func loadString(dst *string, key, def string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
		return
	}
	*dst = def
}

func loadInt(dst *int, key string, def int) error {
	v := os.Getenv(key)
	if v == "" {
		*dst = def
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func loadFloat(dst *float64, key string, def float64) error {
	v := os.Getenv(key)
	if v == "" {
		*dst = def
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = f
	return nil
}

func loadDuration(dst *time.Duration, key string, def time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		*dst = def
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}
