// internal/config/config.go
//
// Environment-driven configuration. Values come from the process environment
// (main loads .env first via godotenv); every key has a default so the server
// starts with no configuration at all.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Puzzle sources.
const (
	SourceStatic = "static"
	SourceSQLite = "sqlite"
	SourceAI     = "ai"
)

// Puzzle selection modes.
const (
	ModeRandom = "random"
	ModeDaily  = "daily"
)

// Config holds application configuration.
type Config struct {
	Port         string
	LogLevel     string
	LogFormat    string // "json" | "console"
	ClientOrigin string

	PuzzleSource string
	PuzzleMode   string
	PuzzlesFile  string
	DailySalt    string
	DBPath       string

	AIEndpoint    string
	AITemperature float64
	AITimeout     time.Duration

	RevealInterval time.Duration
	RoundTTL       time.Duration

	TokenSecret string
	TokenTTL    time.Duration

	MetricsEnabled bool
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	c := &Config{
		Port:           getEnv("PORT", "5175"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		PuzzleSource:   strings.ToLower(getEnv("PUZZLE_SOURCE", SourceStatic)),
		PuzzleMode:     strings.ToLower(getEnv("PUZZLE_MODE", ModeRandom)),
		PuzzlesFile:    os.Getenv("PUZZLES_FILE"),
		DailySalt:      getEnv("DAILY_SALT", "local_dev_salt"),
		DBPath:         getEnv("DB_PATH", "./data/connections.db"),
		AIEndpoint:     getEnv("AI_ENDPOINT", "http://localhost:1234/v1/chat/completions"),
		AITemperature:  getFloat("AI_TEMPERATURE", 0.7),
		AITimeout:      getDuration("AI_TIMEOUT", 30*time.Second),
		RevealInterval: getDuration("REVEAL_INTERVAL", time.Second),
		RoundTTL:       getDuration("ROUND_TTL", 24*time.Hour),
		TokenSecret:    getEnv("TOKEN_SECRET", "dev_secret_change_me"),
		TokenTTL:       getDuration("TOKEN_TTL", 24*time.Hour),
		MetricsEnabled: getBool("METRICS_ENABLED", true),
	}
	return c, c.validate()
}

func (c *Config) validate() error {
	switch c.PuzzleSource {
	case SourceStatic, SourceSQLite, SourceAI:
	default:
		return fmt.Errorf("config: unknown PUZZLE_SOURCE %q", c.PuzzleSource)
	}
	switch c.PuzzleMode {
	case ModeRandom, ModeDaily:
	default:
		return fmt.Errorf("config: unknown PUZZLE_MODE %q", c.PuzzleMode)
	}
	if c.RevealInterval < 0 {
		return fmt.Errorf("config: REVEAL_INTERVAL must not be negative")
	}
	if c.RoundTTL <= 0 {
		return fmt.Errorf("config: ROUND_TTL must be positive")
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("config: AI_TIMEOUT must be positive")
	}
	return nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getDuration(k string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(k)); err == nil {
		return d
	}
	return def
}

func getFloat(k string, def float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(k), 64); err == nil {
		return f
	}
	return def
}

func getBool(k string, def bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(k)); err == nil {
		return b
	}
	return def
}
