package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.DataBackend != "sqlite" {
		t.Errorf("expected default backend sqlite, got %s", cfg.DataBackend)
	}
	if cfg.SQLiteDBPath != "./data/fintrack.db" {
		t.Errorf("unexpected default db path %s", cfg.SQLiteDBPath)
	}
	if cfg.AMQPURL != "" {
		t.Errorf("AMQP should be disabled by default, got %s", cfg.AMQPURL)
	}
	if cfg.ImportMaxErrorsShown != 10 {
		t.Errorf("unexpected default max errors shown %d", cfg.ImportMaxErrorsShown)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("unexpected default log level %s", cfg.LogLevel)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATA_BACKEND", "postgres")
	t.Setenv("POSTGRES_URL", "postgres://localhost:5432/fintrack")
	t.Setenv("IMPORT_MAX_ERRORS_SHOWN", "3")

	cfg := Load()
	if cfg.DataBackend != "postgres" {
		t.Errorf("expected postgres, got %s", cfg.DataBackend)
	}
	if cfg.PostgresURL != "postgres://localhost:5432/fintrack" {
		t.Errorf("unexpected postgres url %s", cfg.PostgresURL)
	}
	if cfg.ImportMaxErrorsShown != 3 {
		t.Errorf("expected 3, got %d", cfg.ImportMaxErrorsShown)
	}
}

func TestValidateOK(t *testing.T) {
	cfg := &Config{
		DataBackend:          "sqlite",
		SQLiteDBPath:         filepath.Join(t.TempDir(), "test.db"),
		ReportOutputDir:      "./reports",
		ImportMaxErrorsShown: 10,
		LogLevel:             "info",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateFailures(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.DataBackend = "mongodb" },
			wantMsg: "invalid data backend",
		},
		{
			name:    "postgres without url",
			mutate:  func(c *Config) { c.DataBackend = "postgres"; c.PostgresURL = "" },
			wantMsg: "POSTGRES_URL is required",
		},
		{
			name:    "bad amqp scheme",
			mutate:  func(c *Config) { c.AMQPURL = "http://localhost:5672" },
			wantMsg: "invalid AMQP URL scheme",
		},
		{
			name:    "max errors too small",
			mutate:  func(c *Config) { c.ImportMaxErrorsShown = 0 },
			wantMsg: "must be at least 1",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantMsg: "invalid log level",
		},
		{
			name:    "empty report dir",
			mutate:  func(c *Config) { c.ReportOutputDir = "" },
			wantMsg: "report output directory",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{
				DataBackend:          "sqlite",
				SQLiteDBPath:         filepath.Join(t.TempDir(), "test.db"),
				ReportOutputDir:      "./reports",
				ImportMaxErrorsShown: 10,
				LogLevel:             "info",
			}
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("error %q does not mention %q", err, tc.wantMsg)
			}
		})
	}
}
