package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.FirstWeekday() != time.Monday {
		t.Errorf("FirstWeekday = %v, want Monday", cfg.FirstWeekday())
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "choreweek.yaml")
	yamlDoc := `
port: "9090"
db_path: /var/lib/choreweek/data.db
week_start: sunday
auto_schedule:
  enabled: true
  spec: "@weekly"
  max_per_member: 6
admin:
  email: admin@example.com
  password: secret
`
	if err := os.WriteFile(path, []byte(yamlDoc), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CHOREWEEK_CONFIG", path)
	t.Setenv("CHOREWEEK_PORT", "7070")
	t.Setenv("CHOREWEEK_AUTO_SCHEDULE_MAX", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "7070" {
		t.Errorf("Port = %q, want env override 7070", cfg.Port)
	}
	if cfg.DBPath != "/var/lib/choreweek/data.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.FirstWeekday() != time.Sunday {
		t.Errorf("FirstWeekday = %v, want Sunday", cfg.FirstWeekday())
	}
	if !cfg.AutoSchedule.Enabled || cfg.AutoSchedule.Spec != "@weekly" {
		t.Errorf("AutoSchedule = %+v", cfg.AutoSchedule)
	}
	if cfg.AutoSchedule.MaxPerMember != 4 {
		t.Errorf("MaxPerMember = %d, want 4", cfg.AutoSchedule.MaxPerMember)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default info", cfg.LogLevel)
	}
}

func TestTrustProxy(t *testing.T) {
	if Default().TrustProxy {
		t.Error("proxy headers should not be trusted by default")
	}

	t.Setenv("CHOREWEEK_TRUST_PROXY", "true")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.TrustProxy {
		t.Error("TrustProxy = false, want true from env")
	}

	t.Setenv("CHOREWEEK_TRUST_PROXY", "maybe")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "TRUST_PROXY") {
		t.Fatalf("expected TRUST_PROXY error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CHOREWEEK_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadBadBool(t *testing.T) {
	t.Setenv("CHOREWEEK_AUTO_SCHEDULE", "sometimes")
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "AUTO_SCHEDULE") {
		t.Fatalf("expected AUTO_SCHEDULE error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port not a number", func(c *Config) { c.Port = "http" }},
		{"port out of range", func(c *Config) { c.Port = "70000" }},
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
		{"bad week start", func(c *Config) { c.WeekStart = "funday" }},
		{"admin email without password", func(c *Config) { c.Admin.Email = "a@example.com" }},
		{"bad cron spec", func(c *Config) {
			c.AutoSchedule.Enabled = true
			c.AutoSchedule.Spec = "every sunday"
		}},
		{"negative cap", func(c *Config) {
			c.AutoSchedule.Enabled = true
			c.AutoSchedule.MaxPerMember = -1
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestBadCronIgnoredWhenDisabled(t *testing.T) {
	cfg := Default()
	cfg.AutoSchedule.Spec = "garbage"
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled auto schedule should not validate spec: %v", err)
	}
}

func TestParseWeekday(t *testing.T) {
	tests := map[string]time.Weekday{
		"monday": time.Monday,
		"Sun":    time.Sunday,
		" SAT ":  time.Saturday,
		"wed":    time.Wednesday,
	}
	for in, want := range tests {
		got, err := ParseWeekday(in)
		if err != nil {
			t.Errorf("ParseWeekday(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseWeekday(%q) = %v, want %v", in, got, want)
		}
	}
}
