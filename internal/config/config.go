package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the butler concierge service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	AllowAnyOrigin bool

	// Dialog semantics.
	SessionTimeout   time.Duration
	SessionRetention time.Duration
	HistoryCapacity  int
	WakeToken        string
	ExitPhrases      []string

	// 0 means seed the responder from the wall clock.
	ResponderSeed int64

	// Postgres URL for the exchange store; empty keeps exchanges in memory.
	DatabaseURL string
	// SQLite path for the booking ledger; empty keeps bookings in memory.
	BookingDBPath string
}

// defaultExitPhrases are matched as whole words against each utterance.
var defaultExitPhrases = []string{"goodbye", "bye", "exit", "quit", "stop", "sleep"}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "butler"),
		AllowAnyOrigin:   false,
		SessionTimeout:   5 * time.Minute,
		SessionRetention: time.Hour,
		HistoryCapacity:  5,
		WakeToken:        envOrDefault("APP_WAKE_TOKEN", "butler"),
		ExitPhrases:      defaultExitPhrases,
		ShutdownTimeout:  15 * time.Second,
		DatabaseURL:      stringsTrimSpace("DATABASE_URL"),
		BookingDBPath:    stringsTrimSpace("BOOKING_DB_PATH"),
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionTimeout, err = durationFromEnv("APP_SESSION_TIMEOUT", cfg.SessionTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionRetention, err = durationFromEnv("APP_SESSION_RETENTION", cfg.SessionRetention)
	if err != nil {
		return Config{}, err
	}
	cfg.HistoryCapacity, err = intFromEnv("APP_HISTORY_CAPACITY", cfg.HistoryCapacity)
	if err != nil {
		return Config{}, err
	}
	cfg.ResponderSeed, err = int64FromEnv("APP_RESPONDER_SEED", cfg.ResponderSeed)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	if raw := stringsTrimSpace("APP_EXIT_PHRASES"); raw != "" {
		phrases := make([]string, 0, 8)
		for _, p := range strings.Split(raw, ",") {
			p = strings.ToLower(strings.TrimSpace(p))
			if p != "" {
				phrases = append(phrases, p)
			}
		}
		cfg.ExitPhrases = phrases
	}

	cfg.WakeToken = strings.ToLower(strings.TrimSpace(cfg.WakeToken))

	if cfg.SessionTimeout < 5*time.Second {
		return Config{}, fmt.Errorf("APP_SESSION_TIMEOUT must be at least 5s")
	}
	if cfg.SessionRetention < cfg.SessionTimeout {
		return Config{}, fmt.Errorf("APP_SESSION_RETENTION must not be shorter than APP_SESSION_TIMEOUT")
	}
	if cfg.HistoryCapacity <= 0 {
		return Config{}, fmt.Errorf("APP_HISTORY_CAPACITY must be positive")
	}
	if cfg.WakeToken == "" {
		return Config{}, fmt.Errorf("APP_WAKE_TOKEN must not be empty")
	}
	if len(cfg.ExitPhrases) == 0 {
		return Config{}, fmt.Errorf("APP_EXIT_PHRASES must name at least one phrase")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func int64FromEnv(key string, fallback int64) (int64, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
