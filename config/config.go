package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the analyzer.
type Config struct {
	Environment string          `mapstructure:"environment"`
	Browser     BrowserConfig   `mapstructure:"browser"`
	Fetch       FetchConfig     `mapstructure:"fetch"`
	Discovery   DiscoveryConfig `mapstructure:"discovery"`
	Keywords    KeywordConfig   `mapstructure:"keywords"`
	Cache       CacheConfig     `mapstructure:"cache"`
	DB          DBConfig        `mapstructure:"db"`
	OutFile     string          `mapstructure:"out_file"`
}

// BrowserConfig controls the shared automation engine.
type BrowserConfig struct {
	Headless  bool   `mapstructure:"headless"`
	UserAgent string `mapstructure:"user_agent"`
}

// FetchConfig controls navigation behavior per session.
type FetchConfig struct {
	// MinInterval is the hard minimum spacing between fetch starts on
	// one marketplace session. Violating it sharply raises the
	// challenge rate, so it is enforced, not advisory.
	MinInterval    time.Duration `mapstructure:"min_interval"`
	NavTimeout     time.Duration `mapstructure:"nav_timeout"`
	ContentTimeout time.Duration `mapstructure:"content_timeout"`
	SettleDelay    time.Duration `mapstructure:"settle_delay"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryBackoff   time.Duration `mapstructure:"retry_backoff"`
}

// DiscoveryConfig bounds the competitor discovery engine.
type DiscoveryConfig struct {
	MaxCompetitors int `mapstructure:"max_competitors"`
	ResolveWorkers int `mapstructure:"resolve_workers"`
}

// KeywordConfig controls the keyword-visibility scan.
type KeywordConfig struct {
	ScanPages int `mapstructure:"scan_pages"`
}

// CacheConfig controls the in-process analysis cache.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// DBConfig holds the optional Postgres snapshot store settings.
type DBConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// Load reads configuration from an optional config.yaml plus ASINAI_*
// environment variables, falling back to defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("ASINAI")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns the built-in configuration without touching files or
// the environment. Tests and the standalone tools use it.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("out_file", "analysis.json")

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.user_agent",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) "+
			"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36")

	v.SetDefault("fetch.min_interval", 2*time.Second)
	v.SetDefault("fetch.nav_timeout", 20*time.Second)
	v.SetDefault("fetch.content_timeout", 8*time.Second)
	v.SetDefault("fetch.settle_delay", 1500*time.Millisecond)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.retry_backoff", 500*time.Millisecond)

	v.SetDefault("discovery.max_competitors", 4)
	v.SetDefault("discovery.resolve_workers", 2)

	v.SetDefault("keywords.scan_pages", 3)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", 30*time.Minute)

	v.SetDefault("db.enabled", false)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "asinai")
	v.SetDefault("db.password", "asinai")
	v.SetDefault("db.name", "asinai")
	v.SetDefault("db.sslmode", "disable")
}

func validate(cfg *Config) error {
	if cfg.Fetch.MinInterval <= 0 {
		return fmt.Errorf("fetch.min_interval must be positive")
	}
	if cfg.Fetch.MaxRetries < 1 {
		return fmt.Errorf("fetch.max_retries must be at least 1")
	}
	if cfg.Discovery.MaxCompetitors < 1 {
		return fmt.Errorf("discovery.max_competitors must be at least 1")
	}
	if cfg.Discovery.ResolveWorkers < 1 {
		return fmt.Errorf("discovery.resolve_workers must be at least 1")
	}
	if cfg.Keywords.ScanPages < 1 {
		return fmt.Errorf("keywords.scan_pages must be at least 1")
	}
	if cfg.Cache.Enabled && cfg.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when the cache is enabled")
	}
	return nil
}
