// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ironsheep/image-bgtools/internal/imaging"
	"github.com/ironsheep/image-bgtools/internal/logging"
)

// Environment variable names.
const (
	EnvHTTPAddr      = "IMAGE_TOOLS_HTTP_ADDR"
	EnvWorkDir       = "IMAGE_TOOLS_WORK_DIR"
	EnvMaxUploadMB   = "IMAGE_TOOLS_MAX_UPLOAD_MB"
	EnvSweepSchedule = "IMAGE_TOOLS_SWEEP_SCHEDULE"
	EnvFileMaxAge    = "IMAGE_TOOLS_FILE_MAX_AGE"
	EnvLogLevel      = logging.EnvLevel
)

// Defaults.
const (
	DefaultHTTPAddr      = ":8080"
	DefaultMaxUploadMB   = 50
	DefaultSweepSchedule = "@every 10m"
	DefaultFileMaxAge    = time.Hour
)

// Config holds the settings shared by the MCP and HTTP services.
type Config struct {
	// HTTPAddr is the listen address of the HTTP API.
	HTTPAddr string

	// WorkDir holds uploads and results while a request is in flight.
	WorkDir string

	// MaxUploadBytes caps the size of a single upload.
	MaxUploadBytes int64

	// SweepSchedule is a cron spec (five fields or a descriptor such as
	// "@every 10m") for removing stale files from WorkDir.
	SweepSchedule string

	// FileMaxAge is how old a file in WorkDir must be before the sweeper
	// removes it.
	FileMaxAge time.Duration

	LogLevel slog.Level
}

// Default returns the configuration used when no variable is set.
func Default() *Config {
	return &Config{
		HTTPAddr:       DefaultHTTPAddr,
		WorkDir:        filepath.Join(os.TempDir(), "image-tools"),
		MaxUploadBytes: DefaultMaxUploadMB << 20,
		SweepSchedule:  DefaultSweepSchedule,
		FileMaxAge:     DefaultFileMaxAge,
		LogLevel:       slog.LevelInfo,
	}
}

// Load builds a Config from getenv, usually os.Getenv. Unset or blank
// variables keep their defaults; malformed ones are reported as
// imaging.ErrConfiguration naming the variable.
func Load(getenv func(string) string) (*Config, error) {
	cfg := Default()

	if v := lookup(getenv, EnvHTTPAddr); v != "" {
		cfg.HTTPAddr = v
	}

	if v := lookup(getenv, EnvWorkDir); v != "" {
		cfg.WorkDir = filepath.Clean(v)
	}

	if v := lookup(getenv, EnvMaxUploadMB); v != "" {
		mb, err := strconv.Atoi(v)
		if err != nil || mb <= 0 {
			return nil, invalid(EnvMaxUploadMB, v, "a positive number of megabytes")
		}
		cfg.MaxUploadBytes = int64(mb) << 20
	}

	if v := lookup(getenv, EnvSweepSchedule); v != "" {
		if _, err := cron.ParseStandard(v); err != nil {
			return nil, invalid(EnvSweepSchedule, v, "a cron schedule")
		}
		cfg.SweepSchedule = v
	}

	if v := lookup(getenv, EnvFileMaxAge); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, invalid(EnvFileMaxAge, v, "a positive duration")
		}
		cfg.FileMaxAge = d
	}

	if v := lookup(getenv, EnvLogLevel); v != "" {
		level, err := logging.ParseLevel(v)
		if err != nil {
			return nil, invalid(EnvLogLevel, v, "debug, info, warn or error")
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

func lookup(getenv func(string) string, key string) string {
	return strings.TrimSpace(getenv(key))
}

func invalid(key, value, want string) error {
	return fmt.Errorf("%w: %s=%q, want %s", imaging.ErrConfiguration, key, value, want)
}
