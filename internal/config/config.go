// Package config loads application configuration from file and environment
// and owns global logger initialization.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Crawl     CrawlConfig     `yaml:"crawl" mapstructure:"crawl"`
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the tabular record stores and the fetch cache.
type StoreConfig struct {
	VenuesPath     string `yaml:"venues_path" mapstructure:"venues_path"`
	DiscoveredPath string `yaml:"discovered_path" mapstructure:"discovered_path"`
	CachePath      string `yaml:"cache_path" mapstructure:"cache_path"`
	CacheTTLHours  int    `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
}

// CrawlConfig configures the enrichment crawl.
type CrawlConfig struct {
	BatchSize      int `yaml:"batch_size" mapstructure:"batch_size"`
	VenueDelayMs   int `yaml:"venue_delay_ms" mapstructure:"venue_delay_ms"`
	BatchDelaySecs int `yaml:"batch_delay_secs" mapstructure:"batch_delay_secs"`
	NavTimeoutSecs int `yaml:"nav_timeout_secs" mapstructure:"nav_timeout_secs"`
	MaxAttempts    int `yaml:"max_attempts" mapstructure:"max_attempts"`
	RetryDelaySecs int `yaml:"retry_delay_secs" mapstructure:"retry_delay_secs"`
	FlushEvery     int `yaml:"flush_every" mapstructure:"flush_every"`
	QuickLimit     int `yaml:"quick_limit" mapstructure:"quick_limit"`
}

// VenueDelay returns the pause between venues within a batch.
func (c CrawlConfig) VenueDelay() time.Duration {
	return time.Duration(c.VenueDelayMs) * time.Millisecond
}

// BatchDelay returns the pause between batches.
func (c CrawlConfig) BatchDelay() time.Duration {
	return time.Duration(c.BatchDelaySecs) * time.Second
}

// NavTimeout returns the per-navigation timeout.
func (c CrawlConfig) NavTimeout() time.Duration {
	return time.Duration(c.NavTimeoutSecs) * time.Second
}

// RetryDelay returns the pause between fetch attempts on the same venue.
func (c CrawlConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySecs) * time.Second
}

// DiscoveryConfig configures search-derived venue discovery.
type DiscoveryConfig struct {
	MaxResults     int     `yaml:"max_results" mapstructure:"max_results"`
	QueriesPerSec  float64 `yaml:"queries_per_sec" mapstructure:"queries_per_sec"`
	SearchParallel int     `yaml:"search_parallel" mapstructure:"search_parallel"`
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ServerConfig configures the HTTP trigger surface.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("VENUE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.venues_path", "data/venues.csv")
	v.SetDefault("store.discovered_path", "data/discovered_venues.csv")
	v.SetDefault("store.cache_path", "data/venue-cli.db")
	v.SetDefault("store.cache_ttl_hours", 24)
	v.SetDefault("crawl.batch_size", 4)
	v.SetDefault("crawl.venue_delay_ms", 500)
	v.SetDefault("crawl.batch_delay_secs", 5)
	v.SetDefault("crawl.nav_timeout_secs", 8)
	v.SetDefault("crawl.max_attempts", 3)
	v.SetDefault("crawl.retry_delay_secs", 2)
	v.SetDefault("crawl.flush_every", 5)
	v.SetDefault("crawl.quick_limit", 10)
	v.SetDefault("discovery.max_results", 20)
	v.SetDefault("discovery.queries_per_sec", 0.5)
	v.SetDefault("discovery.search_parallel", 2)
	v.SetDefault("discovery.timeout_secs", 15)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
