package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mdzio/go-logging"
	"gopkg.in/yaml.v3"
)

// Config holds the daemon configuration.
type Config struct {
	Host string
	Port string
	// DeviceHost is the renderer to control, optionally with a port.
	DeviceHost     string
	SonosTimeoutMs int
	// RequestTimeoutMs bounds a single HTTP API request, device calls included.
	RequestTimeoutMs int
	LogLevel         logging.LogLevel
	Schedule         []ScheduleEntry
}

// ScheduleEntry runs a transport action on a cron schedule. Which of the
// optional fields apply depends on Action.
type ScheduleEntry struct {
	Cron      string `yaml:"cron"`
	Action    string `yaml:"action"`
	Speed     string `yaml:"speed,omitempty"`
	Mode      string `yaml:"mode,omitempty"`
	URI       string `yaml:"uri,omitempty"`
	Metadata  string `yaml:"metadata,omitempty"`
	StationID string `yaml:"station_id,omitempty"`
	Title     string `yaml:"title,omitempty"`
	Track     int    `yaml:"track,omitempty"`
}

// fileConfig is the layout of the optional YAML config file.
type fileConfig struct {
	Host             string          `yaml:"host"`
	Port             string          `yaml:"port"`
	DeviceHost       string          `yaml:"device_host"`
	SonosTimeoutMs   int             `yaml:"sonos_timeout_ms"`
	RequestTimeoutMs int             `yaml:"request_timeout_ms"`
	LogLevel         string          `yaml:"log_level"`
	Schedule         []ScheduleEntry `yaml:"schedule"`
}

// Load reads configuration from environment variables with defaults. When
// CONFIG_FILE names a YAML file its values replace the defaults, and
// environment variables take precedence over both.
func Load() (Config, error) {
	file := fileConfig{
		Host:             "0.0.0.0",
		Port:             "9000",
		SonosTimeoutMs:   5000,
		RequestTimeoutMs: 15000,
		LogLevel:         "INFO",
	}
	if path := envString("CONFIG_FILE", ""); path != "" {
		if err := readFile(path, &file); err != nil {
			return Config{}, err
		}
	}

	cfg := Config{
		Host:             envString("HOST", file.Host),
		Port:             envString("PORT", file.Port),
		DeviceHost:       envString("DEVICE_HOST", file.DeviceHost),
		SonosTimeoutMs:   envInt("SONOS_TIMEOUT_MS", file.SonosTimeoutMs),
		RequestTimeoutMs: envInt("REQUEST_TIMEOUT_MS", file.RequestTimeoutMs),
		Schedule:         file.Schedule,
	}

	if err := cfg.LogLevel.Set(envString("LOG_LEVEL", file.LogLevel)); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if raw := envString("SCHEDULE", ""); raw != "" {
		var entries []ScheduleEntry
		if err := yaml.Unmarshal([]byte(raw), &entries); err != nil {
			return Config{}, fmt.Errorf("SCHEDULE must be a YAML list of entries: %w", err)
		}
		cfg.Schedule = entries
	}

	if strings.TrimSpace(cfg.DeviceHost) == "" {
		return Config{}, fmt.Errorf("DEVICE_HOST is required")
	}
	if cfg.SonosTimeoutMs <= 0 {
		return Config{}, fmt.Errorf("SONOS_TIMEOUT_MS must be positive")
	}
	if cfg.RequestTimeoutMs <= 0 {
		return Config{}, fmt.Errorf("REQUEST_TIMEOUT_MS must be positive")
	}
	return cfg, nil
}

func readFile(path string, dst *fileConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func envString(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func envInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
