// Package config loads driver configuration from a .env file and the
// environment: environment variables win, a .env file found by walking up
// to the nearest go.mod supplies defaults.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DriverConfig controls base-station selection, transport timeouts, and
// logging for a tracksync session.
type DriverConfig struct {
	Base          string // "fitbit" or "dynastream"
	ChannelID     byte
	ReadTimeoutMs int
	LogOutput     string
	LogLevel      string
}

const (
	defaultBase          = "fitbit"
	defaultChannelID     = 0
	defaultReadTimeoutMs = 1000
	defaultLogOutput     = "stderr"
	defaultLogLevel      = "info"
)

var (
	driverConfig *DriverConfig
	configLoaded bool
)

// Load returns the process-wide driver configuration, loading it from
// .env/environment on first call and caching the result.
func Load() *DriverConfig {
	if driverConfig != nil && configLoaded {
		return driverConfig
	}

	cfg := &DriverConfig{
		Base:          defaultBase,
		ChannelID:     defaultChannelID,
		ReadTimeoutMs: defaultReadTimeoutMs,
		LogOutput:     defaultLogOutput,
		LogLevel:      defaultLogLevel,
	}

	projectRoot := findProjectRoot()
	envPath := filepath.Join(projectRoot, ".env")

	if data, err := os.ReadFile(envPath); err == nil {
		parseEnvFile(string(data), cfg)
	}

	if v := os.Getenv("TRACKSYNC_BASE"); v != "" {
		cfg.Base = v
	}
	if v := os.Getenv("TRACKSYNC_CHANNEL_ID"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 255 {
			cfg.ChannelID = byte(n)
		}
	}
	if v := os.Getenv("TRACKSYNC_READ_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ReadTimeoutMs = n
		}
	}
	if v := os.Getenv("TRACKSYNC_LOG_OUTPUT"); v != "" {
		cfg.LogOutput = v
	}
	if v := os.Getenv("TRACKSYNC_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	driverConfig = cfg
	configLoaded = true
	return cfg
}

func parseEnvFile(content string, cfg *DriverConfig) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch key {
		case "TRACKSYNC_BASE":
			cfg.Base = value
		case "TRACKSYNC_CHANNEL_ID":
			if n, err := strconv.Atoi(value); err == nil && n >= 0 && n <= 255 {
				cfg.ChannelID = byte(n)
			}
		case "TRACKSYNC_READ_TIMEOUT_MS":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				cfg.ReadTimeoutMs = n
			}
		case "TRACKSYNC_LOG_OUTPUT":
			cfg.LogOutput = value
		case "TRACKSYNC_LOG_LEVEL":
			cfg.LogLevel = value
		}
	}
}

func findProjectRoot() string {
	cwd, _ := os.Getwd()
	if _, err := os.Stat(filepath.Join(cwd, ".env")); err == nil {
		return cwd
	}
	for {
		if _, err := os.Stat(filepath.Join(cwd, "go.mod")); err == nil {
			return cwd
		}
		parent := filepath.Dir(cwd)
		if parent == cwd {
			return cwd
		}
		cwd = parent
	}
}

// MustLoad panics if Base is not a recognized variant, for callers (cmd/)
// that want to fail fast on misconfiguration rather than at first USB open.
func MustLoad() DriverConfig {
	cfg := Load()
	if cfg.Base != "fitbit" && cfg.Base != "dynastream" {
		panic("TRACKSYNC_BASE must be \"fitbit\" or \"dynastream\"")
	}
	return *cfg
}

// ConfigError reports a misconfigured DriverConfig, mirroring the
// radio/session packages' structured error types.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return "config: " + e.Message }

// ErrUnknownBase reports a Base value that names neither recognized
// variant.
func ErrUnknownBase(base string) error {
	return &ConfigError{Message: "unknown base \"" + base + "\" (want \"fitbit\" or \"dynastream\")"}
}
