package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port default: got %s", cfg.Port)
	}
	if cfg.CacheTTL != 60*time.Second {
		t.Errorf("CacheTTL default: got %v", cfg.CacheTTL)
	}
	if cfg.RetryMaxAttempts != 3 || cfg.RetryBaseDelay != time.Second {
		t.Errorf("retry defaults: got %d %v", cfg.RetryMaxAttempts, cfg.RetryBaseDelay)
	}
	if cfg.MaxRecent != 10 {
		t.Errorf("MaxRecent default: got %d", cfg.MaxRecent)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9191")
	t.Setenv("CACHE_TTL", "30")
	t.Setenv("RETRY_BASE_DELAY_MS", "250")
	t.Setenv("RETRY_MAX_ATTEMPTS", "junk")

	cfg := Load()
	if cfg.Port != "9191" {
		t.Errorf("Port: got %s", cfg.Port)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("CacheTTL: got %v", cfg.CacheTTL)
	}
	if cfg.RetryBaseDelay != 250*time.Millisecond {
		t.Errorf("RetryBaseDelay: got %v", cfg.RetryBaseDelay)
	}
	if cfg.RetryMaxAttempts != 3 {
		t.Errorf("unparseable int must keep the default, got %d", cfg.RetryMaxAttempts)
	}
}
