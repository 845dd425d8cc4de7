package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/sgsy4c2zh7-tech/NO2-TEC/internal/atlas"
)

// DefaultDataBaseURL is the published data tree of the daily pipeline.
const DefaultDataBaseURL = "https://sgsy4c2zh7-tech.github.io/NO2-TEC/data"

type AppConfig struct {
	// DataBaseURL is the root of the static JSON resource tree
	// (the directory containing latest.json), without a trailing slash.
	DataBaseURL string

	// DefaultKind is the layer selected at boot.
	DefaultKind atlas.Kind

	// HTTPTimeout bounds each outbound resource fetch.
	HTTPTimeout time.Duration

	// RefreshInterval controls how often the displayed view is re-resolved
	// against the out-of-band data tree.
	RefreshInterval time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.DataBaseURL = strings.TrimSuffix(getenvDefault("DATA_BASE_URL", DefaultDataBaseURL), "/")

	kind, err := atlas.ParseKind(getenvDefault("DEFAULT_KIND", string(atlas.KindTEC)))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_KIND: %w", err)
	}
	cfg.DefaultKind = kind

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	// Refresh interval: default 15 minutes, matching the cadence at which
	// the producer publishes new snapshots within a cycle.
	intervalStr := getenvDefault("REFRESH_INTERVAL", "15m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = interval

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
