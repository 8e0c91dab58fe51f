/*
Package config loads and validates server configuration.

PURPOSE:
  Carries everything the server binary needs: listen port, database
  path, log level, and an optional seed calendar (default working window
  plus holidays) applied on first start when the store is empty.

SOURCES:
  A YAML file read via viper, with environment variables overriding and
  sane defaults when no file exists. An explicitly passed path that
  cannot be read is an error; a missing default config.yaml is not.

EXAMPLE (config.yaml):
  server:
    port: 8080
  database:
    path: workday.db
  log:
    level: info
  workday:
    start: "08:00"
    stop:  "16:00"
    holidays:
      - date: "2024-07-04"
      - date: "12-25"
        recurring: true
*/
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Workday  WorkdayConfig  `mapstructure:"workday"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DatabaseConfig holds SQLite settings. Use ":memory:" for an in-memory
// database.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// WorkdayConfig is the optional seed calendar. Start and Stop are "HH:MM"
// clock times; both must be present or both absent. Holidays use
// "YYYY-MM-DD" for one-time dates and "MM-DD" for recurring ones.
type WorkdayConfig struct {
	Start    string          `mapstructure:"start"`
	Stop     string          `mapstructure:"stop"`
	Holidays []HolidayConfig `mapstructure:"holidays"`
}

// HolidayConfig is a single seed holiday.
type HolidayConfig struct {
	Date      string `mapstructure:"date"`
	Recurring bool   `mapstructure:"recurring"`
}

// Load loads configuration from the given file path. An empty path falls
// back to config.yaml in the working directory, tolerating its absence.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("database.path", "workday.db")
	v.SetDefault("log.level", "info")

	explicit := configPath != ""
	if explicit {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Nested keys map to underscored variables: server.port -> SERVER_PORT.
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	// Seed window is all-or-nothing, same contract as the engine.
	if (c.Workday.Start == "") != (c.Workday.Stop == "") {
		return fmt.Errorf("workday.start and workday.stop must be set together")
	}
	if c.Workday.Start != "" {
		if _, _, err := ParseClock(c.Workday.Start); err != nil {
			return fmt.Errorf("workday.start: %w", err)
		}
		if _, _, err := ParseClock(c.Workday.Stop); err != nil {
			return fmt.Errorf("workday.stop: %w", err)
		}
	}

	for i, h := range c.Workday.Holidays {
		if h.Recurring {
			if _, _, err := ParseMonthDay(h.Date); err != nil {
				return fmt.Errorf("workday.holidays[%d]: %w", i, err)
			}
		} else {
			if _, _, _, err := ParseDate(h.Date); err != nil {
				return fmt.Errorf("workday.holidays[%d]: %w", i, err)
			}
		}
	}
	return nil
}

// HasSeedWindow reports whether a seed working window is configured.
func (c *Config) HasSeedWindow() bool {
	return c.Workday.Start != "" && c.Workday.Stop != ""
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

// ParseClock parses an "HH:MM" clock time.
func ParseClock(s string) (hour, minute int, err error) {
	n, err := fmt.Sscanf(s, "%d:%d", &hour, &minute)
	if err != nil || n != 2 {
		return 0, 0, fmt.Errorf("malformed clock time %q, want HH:MM", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("clock time %q out of range", s)
	}
	return hour, minute, nil
}

// ParseDate parses a "YYYY-MM-DD" date. Range checking beyond the
// obvious is the calendar's job.
func ParseDate(s string) (year, month, day int, err error) {
	n, err := fmt.Sscanf(s, "%d-%d-%d", &year, &month, &day)
	if err != nil || n != 3 {
		return 0, 0, 0, fmt.Errorf("malformed date %q, want YYYY-MM-DD", s)
	}
	if year < 0 || month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, 0, fmt.Errorf("date %q out of range", s)
	}
	return year, month, day, nil
}

// ParseMonthDay parses an "MM-DD" recurring holiday date.
func ParseMonthDay(s string) (month, day int, err error) {
	n, err := fmt.Sscanf(s, "%d-%d", &month, &day)
	if err != nil || n != 2 {
		return 0, 0, fmt.Errorf("malformed recurring date %q, want MM-DD", s)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, fmt.Errorf("recurring date %q out of range", s)
	}
	return month, day, nil
}
