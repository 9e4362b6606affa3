// Package config provides YAML-based configuration loading for the scheduler.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where commands look for configuration when -c is not given.
const DefaultPath = "sched.yaml"

// Config is the top-level configuration, loaded from sched.yaml.
type Config struct {
	Plant      string           `yaml:"plant"`
	Timezone   string           `yaml:"timezone"`
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Dashboard  DashboardConfig  `yaml:"dashboard"`
	Regenerate RegenerateConfig `yaml:"regenerate"`
	Redis      RedisConfig      `yaml:"redis"`

	location *time.Location
}

// DatabaseConfig selects and addresses the backing store.
type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // mysql or sqlite
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	Path     string `yaml:"path"` // sqlite file
}

// LogConfig controls process logging.
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // text or json
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// SchedulerConfig tunes the feasibility checker.
type SchedulerConfig struct {
	MaxSearchDays          int     `yaml:"max_search_days"`
	HighUtilizationPercent float64 `yaml:"high_utilization_percent"`
}

// DashboardConfig holds the JSON API settings.
type DashboardConfig struct {
	Port int `yaml:"port"`
}

// RegenerateConfig drives periodic schedule regeneration.
type RegenerateConfig struct {
	Cron  string `yaml:"cron"`
	Apply bool   `yaml:"apply"`
}

// RedisConfig enables the cross-process generation lock when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	LockTTL  time.Duration `yaml:"lock_ttl"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Location returns the plant's time zone; dates and shift times are
// interpreted in it.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// slug lowercases the plant name into something usable as a database name.
func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "mysql"
	}
	switch c.Database.Driver {
	case "mysql":
		if c.Database.Host == "" {
			c.Database.Host = "127.0.0.1"
		}
		if c.Database.Port == 0 {
			c.Database.Port = 3306
		}
		if c.Database.User == "" {
			c.Database.User = "root"
		}
		if c.Database.Database == "" && c.Plant != "" {
			c.Database.Database = "sched_" + slug(c.Plant)
		}
	case "sqlite":
		if c.Database.Path == "" {
			c.Database.Path = "sched.db"
		}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 100
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 3
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = 28
	}
	if c.Scheduler.MaxSearchDays == 0 {
		c.Scheduler.MaxSearchDays = 365
	}
	if c.Scheduler.HighUtilizationPercent == 0 {
		c.Scheduler.HighUtilizationPercent = 80
	}
	if c.Dashboard.Port == 0 {
		c.Dashboard.Port = 8080
	}
	if c.Regenerate.Cron == "" {
		c.Regenerate.Cron = "*/15 * * * *"
	}
	if c.Redis.LockTTL == 0 {
		c.Redis.LockTTL = 30 * time.Second
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Plant == "" {
		errs = append(errs, "plant is required")
	}
	if loc, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("timezone %q is not a known location", c.Timezone))
	} else {
		c.location = loc
	}
	switch c.Database.Driver {
	case "mysql":
		if c.Database.Database == "" {
			errs = append(errs, "database.database is required")
		}
	case "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q must be mysql or sqlite", c.Database.Driver))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format %q must be text or json", c.Log.Format))
	}
	if c.Scheduler.MaxSearchDays < 0 {
		errs = append(errs, "scheduler.max_search_days must not be negative")
	}
	if p := c.Scheduler.HighUtilizationPercent; p < 0 || p > 100 {
		errs = append(errs, "scheduler.high_utilization_percent must be between 0 and 100")
	}
	if c.Dashboard.Port < 0 || c.Dashboard.Port > 65535 {
		errs = append(errs, fmt.Sprintf("dashboard.port %d is out of range", c.Dashboard.Port))
	}
	if c.Redis.LockTTL < 0 {
		errs = append(errs, "redis.lock_ttl must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
