// Package config provides the league settings loaded from environment
// variables and the team roster loaded from TOML.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Database; empty keeps everything in memory
	DatabaseURL string

	// API server
	APIHost  string
	APIPort  int
	LogLevel slog.Level

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Simulation
	SimWorkers   int
	SimBatchSize int
	SimSeed      int64 // 0 picks a random seed
	OddsRuns     int

	// Events; no brokers disables publishing
	KafkaBrokers []string
	KafkaTopic   string

	// TeamsFile is a TOML roster; empty uses the built-in clubs.
	TeamsFile string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	level, err := parseLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		DatabaseURL: envOr("DATABASE_URL", ""),

		APIHost:  envOr("API_HOST", "0.0.0.0"),
		APIPort:  envInt("API_PORT", envInt("PORT", 8080)),
		LogLevel: level,

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		SimWorkers:   envInt("SIM_WORKERS", 0),
		SimBatchSize: envInt("SIM_BATCH_SIZE", 50),
		SimSeed:      int64(envInt("SIM_SEED", 0)),
		OddsRuns:     envInt("ODDS_RUNS", 1000),

		KafkaBrokers: envList("KAFKA_BROKERS", nil),
		KafkaTopic:   envOr("KAFKA_TOPIC", "league.match-played"),

		TeamsFile: envOr("TEAMS_FILE", ""),
	}
	if cfg.APIPort < 1 || cfg.APIPort > 65535 {
		return nil, fmt.Errorf("API_PORT out of range: %d", cfg.APIPort)
	}
	if cfg.SimBatchSize < 1 {
		return nil, fmt.Errorf("SIM_BATCH_SIZE must be positive, got %d", cfg.SimBatchSize)
	}
	if cfg.OddsRuns < 1 {
		return nil, fmt.Errorf("ODDS_RUNS must be positive, got %d", cfg.OddsRuns)
	}
	return cfg, nil
}

func (c *Config) Addr() string { return fmt.Sprintf("%s:%d", c.APIHost, c.APIPort) }

func (c *Config) InMemory() bool { return c.DatabaseURL == "" }

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return l, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
