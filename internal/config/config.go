// Package config holds the YAML configuration shared by every calrepeat
// command, with CALREPEAT_* environment overrides applied through viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cyp0633/libcalrepeat/event"
	"github.com/samber/mo"
	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// StorageConfig selects the persistence gateway used by serve.
type StorageConfig struct {
	// Driver is "memory" or "sqlite".
	Driver string `yaml:"driver"`
	// Path is the SQLite database file.
	Path string `yaml:"path,omitempty"`
}

// RateLimitConfig limits requests per client address. RPS 0 disables it.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// UserConfig is one basic auth account.
type UserConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	ReadOnly bool   `yaml:"read_only,omitempty"`
}

// AuthConfig, if set, enables basic auth on everything except /health.
type AuthConfig struct {
	Realm string       `yaml:"realm"`
	Users []UserConfig `yaml:"users"`
}

// TelegramConfig sends notifications to one chat.
type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

// NotifyConfig lists the notification sinks besides the log.
type NotifyConfig struct {
	Telegram *TelegramConfig `yaml:"telegram,omitempty"`
}

// ReminderConfig controls the reminder scheduler.
type ReminderConfig struct {
	Enabled bool `yaml:"enabled"`
	// Spec is the cron schedule of the reminder check.
	Spec string `yaml:"spec"`
}

// ClientConfig is used by the commands that talk to a running server.
type ClientConfig struct {
	ServerURL string `yaml:"server_url"`
	Username  string `yaml:"username,omitempty"`
	Password  string `yaml:"password,omitempty"`
}

// FeedConfig describes the Atom export.
type FeedConfig struct {
	Title string `yaml:"title"`
	Link  string `yaml:"link"`
}

// LimitsConfig bounds the events accepted for saving.
type LimitsConfig struct {
	// MaxEndDate is the latest repeat end date, YYYY-MM-DD. Empty means no limit.
	MaxEndDate string `yaml:"max_end_date,omitempty"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address of serve.
	Listen string `yaml:"listen"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// LogFormat is text or json.
	LogFormat string `yaml:"log_format"`
	// Timezone is the IANA zone event dates and times are read in.
	Timezone string `yaml:"timezone"`

	Storage   StorageConfig   `yaml:"storage"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Auth      *AuthConfig     `yaml:"auth,omitempty"`
	Notify    NotifyConfig    `yaml:"notify"`
	Reminder  ReminderConfig  `yaml:"reminder"`
	Client    ClientConfig    `yaml:"client"`
	Feed      FeedConfig      `yaml:"feed"`
	Limits    LimitsConfig    `yaml:"limits"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:    "127.0.0.1:8080",
		LogLevel:  "info",
		LogFormat: "text",
		Timezone:  "UTC",
		Storage:   StorageConfig{Driver: DriverMemory},
		RateLimit: RateLimitConfig{RPS: 10, Burst: 20},
		Reminder:  ReminderConfig{Enabled: true, Spec: "* * * * *"},
		Client:    ClientConfig{ServerURL: "http://127.0.0.1:8080"},
		Feed:      FeedConfig{Title: "Events", Link: "http://127.0.0.1:8080/"},
	}
}

// Normalize fills in missing values with defaults so partially filled
// files still work.
func (c *Config) Normalize() {
	d := DefaultConfig()
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = d.LogFormat
	}
	if c.Timezone == "" {
		c.Timezone = d.Timezone
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = d.Storage.Driver
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		c.RateLimit.Burst = 1
	}
	if c.Reminder.Spec == "" {
		c.Reminder.Spec = d.Reminder.Spec
	}
	if c.Client.ServerURL == "" {
		c.Client.ServerURL = d.Client.ServerURL
	}
	if c.Feed.Title == "" {
		c.Feed.Title = d.Feed.Title
	}
	if c.Auth != nil && c.Auth.Realm == "" {
		c.Auth.Realm = "Events"
	}
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.Path == "" {
			return errors.New("storage.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.RateLimit.RPS < 0 {
		return errors.New("rate_limit.rps must not be negative")
	}
	if t := c.Notify.Telegram; t != nil && (t.Token == "" || t.ChatID == 0) {
		return errors.New("notify.telegram needs both token and chat_id")
	}
	if _, err := c.EventLimits(); err != nil {
		return err
	}
	return nil
}

// EventLimits converts the limits section for event validation.
func (c *Config) EventLimits() (event.Limits, error) {
	var limits event.Limits
	if c.Limits.MaxEndDate != "" {
		end, err := event.ParseDate(c.Limits.MaxEndDate)
		if err != nil {
			return limits, fmt.Errorf("limits.max_end_date: %w", err)
		}
		limits.MaxEndDate = mo.Some(end)
	}
	return limits, nil
}

// Location loads the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load reads the YAML file at path. A missing file is created with the
// default configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".calrepeat-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save writes c to path.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
