package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoadServerDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DEFAULT_LIVES", "ROUND_TTL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer: %v", err)
	}
	if cfg.Port != "5175" || cfg.DefaultLives != 5 || cfg.RoundTTL != 2*time.Hour {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadServerOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DEFAULT_LIVES", "3")
	t.Setenv("ROUND_TTL", "15m")
	t.Setenv("QUOTES_FILE", "/tmp/quotes.yaml")
	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer: %v", err)
	}
	if cfg.Port != "9000" || cfg.DefaultLives != 3 || cfg.RoundTTL != 15*time.Minute || cfg.QuotesFile != "/tmp/quotes.yaml" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadServerRejectsBadValues(t *testing.T) {
	t.Setenv("DEFAULT_LIVES", "0")
	if _, err := LoadServer(); err == nil {
		t.Fatal("expected error for zero lives")
	}

	t.Setenv("DEFAULT_LIVES", "many")
	_, err := LoadServer()
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}
}

func TestLoadClient(t *testing.T) {
	t.Setenv("UNQUOTABLE_SERVER", "http://example.test")
	t.Setenv("UNQUOTABLE_DAILY", "true")
	cfg, err := LoadClient()
	if err != nil {
		t.Fatalf("LoadClient: %v", err)
	}
	if cfg.ServerURL != "http://example.test" || !cfg.Daily || cfg.Lives != 5 {
		t.Fatalf("unexpected client config: %+v", cfg)
	}
}
