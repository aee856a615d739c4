// Package config loads choreweek settings from an optional YAML file and
// CHOREWEEK_* environment variables. Environment values win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	yaml "go.yaml.in/yaml/v3"

	"github.com/dukerupert/choreweek/internal/logging"
)

const envPrefix = "CHOREWEEK_"

// CronParser accepts five-field specs and descriptors like @weekly.
var CronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

type Config struct {
	Port     string `yaml:"port"`
	DBPath   string `yaml:"db_path"`
	LogLevel string `yaml:"log_level"`
	Timezone string `yaml:"timezone"`
	// WeekStart is the weekday a schedule week begins on, e.g. "monday".
	WeekStart string `yaml:"week_start"`
	// TrustProxy honours CF-Connecting-IP and X-Forwarded-For. Enable only
	// behind a proxy that sets them.
	TrustProxy bool `yaml:"trust_proxy"`

	Admin        AdminConfig        `yaml:"admin"`
	AutoSchedule AutoScheduleConfig `yaml:"auto_schedule"`
}

// AdminConfig seeds the first admin account when no users exist.
type AdminConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type AutoScheduleConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Spec         string `yaml:"spec"`
	MaxPerMember int    `yaml:"max_per_member"`
}

func Default() Config {
	return Config{
		Port:      "8080",
		DBPath:    "choreweek.db",
		LogLevel:  "info",
		Timezone:  "Local",
		WeekStart: "monday",
		AutoSchedule: AutoScheduleConfig{
			Spec: "0 18 * * 0",
		},
	}
}

// Load reads the file named by CHOREWEEK_CONFIG, if set, then applies
// environment overrides and validates the result.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := map[string]*string{
		"PORT":               &c.Port,
		"DB_PATH":            &c.DBPath,
		"LOG_LEVEL":          &c.LogLevel,
		"TIMEZONE":           &c.Timezone,
		"WEEK_START":         &c.WeekStart,
		"ADMIN_EMAIL":        &c.Admin.Email,
		"ADMIN_PASSWORD":     &c.Admin.Password,
		"AUTO_SCHEDULE_SPEC": &c.AutoSchedule.Spec,
	}
	for key, dst := range str {
		if v := getenv(envPrefix + key); v != "" {
			*dst = v
		}
	}

	if v := getenv(envPrefix + "AUTO_SCHEDULE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sAUTO_SCHEDULE: %w", envPrefix, err)
		}
		c.AutoSchedule.Enabled = b
	}
	if v := getenv(envPrefix + "TRUST_PROXY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sTRUST_PROXY: %w", envPrefix, err)
		}
		c.TrustProxy = b
	}
	if v := getenv(envPrefix + "AUTO_SCHEDULE_MAX"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sAUTO_SCHEDULE_MAX: %w", envPrefix, err)
		}
		c.AutoSchedule.MaxPerMember = n
	}
	return nil
}

func (c Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := ParseWeekday(c.WeekStart); err != nil {
		return err
	}
	if (c.Admin.Email == "") != (c.Admin.Password == "") {
		return fmt.Errorf("admin email and password must be set together")
	}
	if c.AutoSchedule.Enabled {
		if _, err := CronParser.Parse(c.AutoSchedule.Spec); err != nil {
			return fmt.Errorf("auto_schedule.spec %q: %w", c.AutoSchedule.Spec, err)
		}
		if c.AutoSchedule.MaxPerMember < 0 {
			return fmt.Errorf("auto_schedule.max_per_member must not be negative")
		}
	}
	return nil
}

// Location resolves Timezone. "Local" and "" mean the host zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// FirstWeekday is the parsed WeekStart. Call Validate first.
func (c Config) FirstWeekday() time.Weekday {
	d, _ := ParseWeekday(c.WeekStart)
	return d
}

// ParseWeekday accepts full or three-letter English day names.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return time.Monday, fmt.Errorf("invalid week_start %q", s)
}
