package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	t.Setenv("ALPHAVANTAGE_API_KEY", "")
	t.Setenv("YAHOO_BASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("SYMBOLS_FILE", "")

	cfg := Default()

	if cfg.API.Port != 8080 {
		t.Errorf("API.Port = %d, want 8080", cfg.API.Port)
	}
	if cfg.Market.YahooBaseURL != "https://query1.finance.yahoo.com" {
		t.Errorf("YahooBaseURL = %q", cfg.Market.YahooBaseURL)
	}
	if cfg.Market.ChunkSize != 50 {
		t.Errorf("ChunkSize = %d, want 50", cfg.Market.ChunkSize)
	}
	if cfg.Market.LiveTTL() != 10*time.Second {
		t.Errorf("LiveTTL = %v, want 10s", cfg.Market.LiveTTL())
	}
	if cfg.Market.MockTTL() != 5*time.Second {
		t.Errorf("MockTTL = %v, want 5s", cfg.Market.MockTTL())
	}
	if cfg.Market.BucketSec != 5 {
		t.Errorf("BucketSec = %d, want 5", cfg.Market.BucketSec)
	}
	if cfg.Market.AlphaVantageKey != "" {
		t.Errorf("AlphaVantageKey = %q, want empty by default", cfg.Market.AlphaVantageKey)
	}
	if cfg.News.DefaultLimit != 20 {
		t.Errorf("News.DefaultLimit = %d, want 20", cfg.News.DefaultLimit)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ALPHAVANTAGE_API_KEY", "testkey123")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("YAHOO_BASE_URL", "http://localhost:9999")

	cfg := Default()

	if cfg.Market.AlphaVantageKey != "testkey123" {
		t.Errorf("AlphaVantageKey = %q", cfg.Market.AlphaVantageKey)
	}
	if cfg.Market.RedisURL != "redis://localhost:6379/1" {
		t.Errorf("RedisURL = %q", cfg.Market.RedisURL)
	}
	if cfg.Market.YahooBaseURL != "http://localhost:9999" {
		t.Errorf("YahooBaseURL = %q", cfg.Market.YahooBaseURL)
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("ALPHAVANTAGE_API_KEY", "")
	t.Setenv("YAHOO_BASE_URL", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  host: 127.0.0.1
  port: 9090
market:
  chunk_size: 10
  live_ttl_sec: 30
news:
  default_limit: 5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.API.Host != "127.0.0.1" || cfg.API.Port != 9090 {
		t.Errorf("API = %+v", cfg.API)
	}
	if cfg.Market.ChunkSize != 10 {
		t.Errorf("ChunkSize = %d, want 10", cfg.Market.ChunkSize)
	}
	if cfg.Market.LiveTTL() != 30*time.Second {
		t.Errorf("LiveTTL = %v, want 30s", cfg.Market.LiveTTL())
	}
	// Unset keys keep their defaults.
	if cfg.Market.MockTTLSec != 5 {
		t.Errorf("MockTTLSec = %d, want default 5", cfg.Market.MockTTLSec)
	}
	if cfg.News.DefaultLimit != 5 {
		t.Errorf("News.DefaultLimit = %d, want 5", cfg.News.DefaultLimit)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}
