package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var allKeys = []string{
	"CALENDAR_HTTP_PORT",
	"CALENDAR_TIMEZONE",
	"CALENDAR_WEEK_START",
	"CALENDAR_SEED_FILE",
	"CALENDAR_VIEW_CACHE_SIZE",
	"CALENDAR_UPCOMING_DAYS",
	"CALENDAR_LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		// Setenv registers the restore; Unsetenv then removes the key for the test.
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearEnv(t)

		cfg, err := FromEnv()
		if err != nil {
			t.Fatalf("FromEnv returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.Location != time.Local {
			t.Fatalf("expected local time zone, got %v", cfg.Location)
		}
		if cfg.WeekStart != time.Sunday {
			t.Fatalf("expected Sunday week start, got %v", cfg.WeekStart)
		}
		if cfg.ViewCacheSize != 256 || cfg.UpcomingDays != 7 || cfg.LogLevel != "info" {
			t.Fatalf("unexpected defaults: %+v", cfg)
		}
		if cfg.SeedFile != "" {
			t.Fatalf("expected no seed file, got %q", cfg.SeedFile)
		}
		if cfg.Addr() != ":8080" {
			t.Fatalf("unexpected addr %q", cfg.Addr())
		}
	})

	t.Run("parses every supported variable", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CALENDAR_HTTP_PORT", "9090")
		t.Setenv("CALENDAR_TIMEZONE", "UTC")
		t.Setenv("CALENDAR_WEEK_START", "Monday")
		t.Setenv("CALENDAR_SEED_FILE", "testdata/events.yaml")
		t.Setenv("CALENDAR_VIEW_CACHE_SIZE", "32")
		t.Setenv("CALENDAR_UPCOMING_DAYS", "14")
		t.Setenv("CALENDAR_LOG_LEVEL", "DEBUG")

		cfg, err := FromEnv()
		if err != nil {
			t.Fatalf("FromEnv returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.Location.String() != "UTC" {
			t.Fatalf("expected UTC, got %v", cfg.Location)
		}
		if cfg.WeekStart != time.Monday {
			t.Fatalf("expected Monday week start, got %v", cfg.WeekStart)
		}
		if cfg.SeedFile != "testdata/events.yaml" {
			t.Fatalf("unexpected seed file %q", cfg.SeedFile)
		}
		if cfg.ViewCacheSize != 32 {
			t.Fatalf("expected cache size 32, got %d", cfg.ViewCacheSize)
		}
		if cfg.UpcomingDays != 14 {
			t.Fatalf("expected 14 upcoming days, got %d", cfg.UpcomingDays)
		}
		if cfg.LogLevel != "debug" {
			t.Fatalf("expected debug log level, got %q", cfg.LogLevel)
		}
	})

	t.Run("reports every invalid variable", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CALENDAR_HTTP_PORT", "http")
		t.Setenv("CALENDAR_TIMEZONE", "Mars/Olympus_Mons")
		t.Setenv("CALENDAR_WEEK_START", "friday")
		t.Setenv("CALENDAR_VIEW_CACHE_SIZE", "0")
		t.Setenv("CALENDAR_UPCOMING_DAYS", "0")
		t.Setenv("CALENDAR_LOG_LEVEL", "loud")

		_, err := FromEnv()
		if err == nil {
			t.Fatal("expected error for invalid values")
		}
		expected := "invalid environment variables: CALENDAR_HTTP_PORT, CALENDAR_TIMEZONE, CALENDAR_WEEK_START, CALENDAR_VIEW_CACHE_SIZE, CALENDAR_UPCOMING_DAYS, CALENDAR_LOG_LEVEL"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})
}

func TestLoad_DotEnv(t *testing.T) {

	t.Run("reads values from a .env file without overriding the environment", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()
		content := strings.Join([]string{
			"CALENDAR_HTTP_PORT=7070",
			"CALENDAR_WEEK_START=monday",
		}, "\n")
		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write .env: %v", err)
		}
		chdir(t, dir)
		t.Setenv("CALENDAR_HTTP_PORT", "6060")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.HTTPPort != 6060 {
			t.Fatalf("expected environment to win, got port %d", cfg.HTTPPort)
		}
		if cfg.WeekStart != time.Monday {
			t.Fatalf("expected week start from .env, got %v", cfg.WeekStart)
		}
	})

	t.Run("succeeds without a .env file", func(t *testing.T) {
		clearEnv(t)
		chdir(t, t.TempDir())

		if _, err := Load(); err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
	})
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to chdir to %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("failed to restore working directory: %v", err)
		}
	})
}
