package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/calendar-core/internal/calendar"
	"github.com/example/calendar-core/internal/logging"
)

// Config captures environment driven configuration values for the calendar service.
type Config struct {
	HTTPPort      int
	Location      *time.Location
	WeekStart     time.Weekday
	SeedFile      string
	ViewCacheSize int
	UpcomingDays  int
	LogLevel      string
}

// Load reads an optional .env file from the working directory and then parses
// the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv parses configuration values from the current process environment.
//
// Optional fields fall back to defaults. All invalid keys are reported together.
func FromEnv() (Config, error) {
	cfg := Config{
		HTTPPort:      8080,
		Location:      time.Local,
		WeekStart:     time.Sunday,
		ViewCacheSize: 256,
		UpcomingDays:  7,
		LogLevel:      "info",
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("CALENDAR_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "CALENDAR_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if tz := strings.TrimSpace(os.Getenv("CALENDAR_TIMEZONE")); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			invalid = append(invalid, "CALENDAR_TIMEZONE")
		} else {
			cfg.Location = loc
		}
	}

	if weekStart := strings.TrimSpace(os.Getenv("CALENDAR_WEEK_START")); weekStart != "" {
		day, err := calendar.ParseWeekStart(weekStart)
		if err != nil {
			invalid = append(invalid, "CALENDAR_WEEK_START")
		} else {
			cfg.WeekStart = day
		}
	}

	if seed := strings.TrimSpace(os.Getenv("CALENDAR_SEED_FILE")); seed != "" {
		cfg.SeedFile = seed
	}

	if sizeValue := strings.TrimSpace(os.Getenv("CALENDAR_VIEW_CACHE_SIZE")); sizeValue != "" {
		size, err := strconv.Atoi(sizeValue)
		if err != nil || size <= 0 {
			invalid = append(invalid, "CALENDAR_VIEW_CACHE_SIZE")
		} else {
			cfg.ViewCacheSize = size
		}
	}

	if daysValue := strings.TrimSpace(os.Getenv("CALENDAR_UPCOMING_DAYS")); daysValue != "" {
		days, err := strconv.Atoi(daysValue)
		if err != nil || days <= 0 {
			invalid = append(invalid, "CALENDAR_UPCOMING_DAYS")
		} else {
			cfg.UpcomingDays = days
		}
	}

	if level := strings.TrimSpace(os.Getenv("CALENDAR_LOG_LEVEL")); level != "" {
		if _, err := logging.ParseLevel(level); err != nil {
			invalid = append(invalid, "CALENDAR_LOG_LEVEL")
		} else {
			cfg.LogLevel = strings.ToLower(level)
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
