// Package config handles configuration loading for RupeeWise.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	API    APIConfig    `mapstructure:"api"    yaml:"api"`
	Market MarketConfig `mapstructure:"market" yaml:"market"`
	News   NewsConfig   `mapstructure:"news"   yaml:"news"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// MarketConfig holds the market-data layer settings.
type MarketConfig struct {
	// YahooBaseURL overrides the bulk quote provider endpoint, mainly
	// for tests.
	YahooBaseURL string `mapstructure:"yahoo_base_url" yaml:"yahoo_base_url"`
	// AlphaVantageKey enables the single-symbol/search provider. Empty
	// means that provider path is silently skipped.
	AlphaVantageKey     string `mapstructure:"alphavantage_key"      yaml:"alphavantage_key"`
	AlphaVantageBaseURL string `mapstructure:"alphavantage_base_url" yaml:"alphavantage_base_url"`
	// SymbolsFile is the local symbol list (one per line), consulted
	// when MARKET_SYMBOLS is unset.
	SymbolsFile string `mapstructure:"symbols_file" yaml:"symbols_file"`
	RedisURL    string `mapstructure:"redis_url"    yaml:"redis_url"`

	ChunkSize      int `mapstructure:"chunk_size"       yaml:"chunk_size"`
	MaxQuoteBatch  int `mapstructure:"max_quote_batch"  yaml:"max_quote_batch"`
	LiveTTLSec     int `mapstructure:"live_ttl_sec"     yaml:"live_ttl_sec"`
	MockTTLSec     int `mapstructure:"mock_ttl_sec"     yaml:"mock_ttl_sec"`
	SearchTTLSec   int `mapstructure:"search_ttl_sec"   yaml:"search_ttl_sec"`
	BucketSec      int `mapstructure:"bucket_sec"       yaml:"bucket_sec"`
	RequestTimeout int `mapstructure:"request_timeout_sec" yaml:"request_timeout_sec"`
}

// NewsConfig holds the market news feed settings.
type NewsConfig struct {
	CacheTTLSec  int `mapstructure:"cache_ttl_sec" yaml:"cache_ttl_sec"`
	DefaultLimit int `mapstructure:"default_limit" yaml:"default_limit"`
}

// LiveTTL returns the cache TTL for live market payloads.
func (m MarketConfig) LiveTTL() time.Duration { return time.Duration(m.LiveTTLSec) * time.Second }

// MockTTL returns the cache TTL for synthesized market payloads.
func (m MarketConfig) MockTTL() time.Duration { return time.Duration(m.MockTTLSec) * time.Second }

// SearchTTL returns the cache TTL for search results.
func (m MarketConfig) SearchTTL() time.Duration { return time.Duration(m.SearchTTLSec) * time.Second }

// Timeout returns the outbound provider request timeout.
func (m MarketConfig) Timeout() time.Duration { return time.Duration(m.RequestTimeout) * time.Second }

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.rupeewise/config.yaml (home directory)
//  3. /etc/rupeewise/config.yaml (system)
//
// Environment variables override config file values, using the
// RUPEEWISE_<SECTION>_<KEY> form, e.g. RUPEEWISE_MARKET_REDIS_URL.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".rupeewise"))
	v.AddConfigPath("/etc/rupeewise")

	v.SetEnvPrefix("RUPEEWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file found: defaults plus env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("RUPEEWISE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// Default returns the configuration built purely from defaults and
// environment variables. Useful in tests.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	overrideFromEnv(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	v.SetDefault("market.yahoo_base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("market.alphavantage_base_url", "https://www.alphavantage.co")
	v.SetDefault("market.symbols_file", "config/symbols.txt")
	v.SetDefault("market.chunk_size", 50)
	v.SetDefault("market.max_quote_batch", 25)
	v.SetDefault("market.live_ttl_sec", 10)
	v.SetDefault("market.mock_ttl_sec", 5)
	v.SetDefault("market.search_ttl_sec", 60)
	v.SetDefault("market.bucket_sec", 5)
	v.SetDefault("market.request_timeout_sec", 10)

	v.SetDefault("news.cache_ttl_sec", 600)
	v.SetDefault("news.default_limit", 20)
}

// overrideFromEnv reads the plain (unprefixed) environment variables the
// deployment environment conventionally sets.
func overrideFromEnv(cfg *Config) {
	if key := os.Getenv("ALPHAVANTAGE_API_KEY"); key != "" {
		cfg.Market.AlphaVantageKey = key
	}
	if u := os.Getenv("YAHOO_BASE_URL"); u != "" {
		cfg.Market.YahooBaseURL = u
	}
	if u := os.Getenv("REDIS_URL"); u != "" {
		cfg.Market.RedisURL = u
	}
	if f := os.Getenv("SYMBOLS_FILE"); f != "" {
		cfg.Market.SymbolsFile = f
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
