package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"sauna-admin-backend/internal/classify"
)

// Config represents the overall application configuration.
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	Database       DatabaseConfig       `yaml:"database"`
	Classification ClassificationConfig `yaml:"classification"`
	Achievements   AchievementsConfig   `yaml:"achievements"`
	WorkerPool     WorkerPoolConfig     `yaml:"worker_pool"`
}

// Defaults for the HTTP middleware when the config file leaves them
// unset.
const (
	DefaultRateLimitPerSec = 10
	DefaultCacheTTLSeconds = 60
)

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RequestIPHeader string  `yaml:"request_ip_header"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	EnableTimescale        bool   `yaml:"enable_timescale"`
}

// ClassificationConfig holds the recency windows for the membership
// classifier. Both values are months.
type ClassificationConfig struct {
	FeeWindowMonths    int `yaml:"fee_window_months"`
	ActiveWindowMonths int `yaml:"active_window_months"`
}

// Classifier builds a classifier from the configured windows.
func (c ClassificationConfig) Classifier() classify.Classifier {
	return classify.Classifier{
		FeeWindowMonths:    c.FeeWindowMonths,
		ActiveWindowMonths: c.ActiveWindowMonths,
	}
}

// AchievementsConfig holds the configuration for the periodic badge
// recomputation service.
type AchievementsConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"` // Ignored by YAML parser
}

// WorkerPoolConfig holds the configuration for the badge recompute worker
// pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = DefaultRateLimitPerSec
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = DefaultCacheTTLSeconds
	}

	if cfg.Classification.FeeWindowMonths <= 0 {
		cfg.Classification.FeeWindowMonths = classify.DefaultFeeWindowMonths
	}
	if cfg.Classification.ActiveWindowMonths <= 0 {
		cfg.Classification.ActiveWindowMonths = classify.DefaultActiveWindowMonths
	}

	if cfg.Achievements.IntervalSeconds <= 0 {
		cfg.Achievements.IntervalSeconds = 3600
	}
	cfg.Achievements.Interval = time.Duration(cfg.Achievements.IntervalSeconds) * time.Second

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}
