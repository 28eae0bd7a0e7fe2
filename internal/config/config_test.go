package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	setCoreEnvEmpty(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BindAddr != ":8080" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":8080")
	}
	if cfg.SessionTimeout != 5*time.Minute {
		t.Fatalf("SessionTimeout = %v, want %v", cfg.SessionTimeout, 5*time.Minute)
	}
	if cfg.SessionRetention != time.Hour {
		t.Fatalf("SessionRetention = %v, want %v", cfg.SessionRetention, time.Hour)
	}
	if cfg.HistoryCapacity != 5 {
		t.Fatalf("HistoryCapacity = %d, want 5", cfg.HistoryCapacity)
	}
	if cfg.WakeToken != "butler" {
		t.Fatalf("WakeToken = %q, want %q", cfg.WakeToken, "butler")
	}
	if len(cfg.ExitPhrases) != 6 {
		t.Fatalf("ExitPhrases = %v, want 6 defaults", cfg.ExitPhrases)
	}
}

func TestLoadCustomExitPhrases(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_EXIT_PHRASES", " Goodnight , dismissed ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.ExitPhrases) != 2 {
		t.Fatalf("ExitPhrases = %v, want 2 entries", cfg.ExitPhrases)
	}
	if cfg.ExitPhrases[0] != "goodnight" || cfg.ExitPhrases[1] != "dismissed" {
		t.Fatalf("ExitPhrases = %v, want lowercased trimmed entries", cfg.ExitPhrases)
	}
}

func TestLoadRejectsTinySessionTimeout(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_SESSION_TIMEOUT", "1s")

	if _, err := Load(); err == nil {
		t.Fatalf("Load() should reject sub-5s session timeout")
	}
}

func TestLoadRejectsRetentionBelowTimeout(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_SESSION_TIMEOUT", "10m")
	t.Setenv("APP_SESSION_RETENTION", "5m")

	if _, err := Load(); err == nil {
		t.Fatalf("Load() should reject retention shorter than timeout")
	}
}

func TestLoadLowercasesWakeToken(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_WAKE_TOKEN", "  Jarvis ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.WakeToken != "jarvis" {
		t.Fatalf("WakeToken = %q, want %q", cfg.WakeToken, "jarvis")
	}
}

func setCoreEnvEmpty(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_SESSION_TIMEOUT",
		"APP_SESSION_RETENTION",
		"APP_HISTORY_CAPACITY",
		"APP_WAKE_TOKEN",
		"APP_EXIT_PHRASES",
		"APP_RESPONDER_SEED",
		"APP_METRICS_NAMESPACE",
		"APP_ALLOW_ANY_ORIGIN",
		"DATABASE_URL",
		"BOOKING_DB_PATH",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}
