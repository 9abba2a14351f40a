package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Configuration validation constants
const (
	MinInterval = 60    // Minimum polling interval in seconds
	MinPort     = 1     // Minimum valid port number
	MaxPort     = 65535 // Maximum valid port number

	// Default values
	DefaultHostname    = "localhost"
	DefaultInterval    = 3600 // 1 hour in seconds
	DefaultLogLevel    = "info"
	DefaultAPITimeout  = 10 // Per-request network timeout in seconds
	DefaultMaxAttempts = 5  // Fetch attempts per poll cycle
	DefaultBackoffStep = 60 // Linear backoff step in seconds
)

// ConfigFileName is the optional per-data-dir configuration file.
const ConfigFileName = "config.yaml"

// Config represents the application configuration. DataDir comes from the
// command line; everything else is layered file < environment < default.
type Config struct {
	DataDir     string `yaml:"-"`
	Hostname    string `yaml:"hostname"`
	Interval    int    `yaml:"interval"` // seconds
	LogLevel    string `yaml:"log_level"`
	HTTPPort    int    `yaml:"http_port"`    // 0 disables the HTTP server
	APITimeout  int    `yaml:"api_timeout"`  // seconds
	MaxAttempts int    `yaml:"max_attempts"` // fetch attempts per cycle
	BackoffStep int    `yaml:"backoff_step"` // seconds
}

// Load builds the configuration for a data directory. A config.yaml inside
// the directory is optional; its absence is not an error.
func Load(dataDir string) (*Config, error) {
	cfg := Config{DataDir: dataDir}

	path := filepath.Join(dataDir, ConfigFileName)
	// #nosec G304 -- Config file path is derived from the administrator-supplied data directory
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Override with environment variables
	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("environment variable error: %w", err)
	}

	// Apply defaults
	applyDefaults(&cfg)

	// Validate
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for configuration
func applyDefaults(cfg *Config) {
	if cfg.Hostname == "" {
		cfg.Hostname = DefaultHostname
	}
	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.APITimeout == 0 {
		cfg.APITimeout = DefaultAPITimeout
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.BackoffStep == 0 {
		cfg.BackoffStep = DefaultBackoffStep
	}
}

// applyEnvOverrides applies environment variable overrides to configuration.
// COLLECTD_HOSTNAME and COLLECTD_INTERVAL are the variables collectd sets
// for exec plugins.
func applyEnvOverrides(cfg *Config) error {
	if val := os.Getenv("COLLECTD_HOSTNAME"); val != "" {
		cfg.Hostname = val
	}

	if val := os.Getenv("COLLECTD_INTERVAL"); val != "" {
		// collectd exports the interval as a float
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid COLLECTD_INTERVAL: must be a number, got %q", val)
		}
		cfg.Interval = int(f)
	}

	if val := os.Getenv("USAGE_LOG_LEVEL"); val != "" {
		cfg.LogLevel = val
	}

	if val := os.Getenv("USAGE_HTTP_PORT"); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid USAGE_HTTP_PORT: must be an integer, got %q", val)
		}
		cfg.HTTPPort = i
	}

	if val := os.Getenv("USAGE_API_TIMEOUT"); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid USAGE_API_TIMEOUT: must be an integer, got %q", val)
		}
		cfg.APITimeout = i
	}

	return nil
}

// validate validates the configuration
func validate(cfg *Config) error {
	if cfg.DataDir == "" {
		return fmt.Errorf("data directory must not be empty")
	}

	if cfg.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %d", cfg.Interval)
	}

	if cfg.Interval < MinInterval {
		return fmt.Errorf("interval must be at least %d seconds", MinInterval)
	}

	// Port 0 disables the HTTP server entirely
	if cfg.HTTPPort != 0 && (cfg.HTTPPort < MinPort || cfg.HTTPPort > MaxPort) {
		return fmt.Errorf("http_port must be between %d and %d", MinPort, MaxPort)
	}

	if cfg.APITimeout <= 0 {
		return fmt.Errorf("api_timeout must be positive, got %d", cfg.APITimeout)
	}

	if cfg.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", cfg.MaxAttempts)
	}

	if cfg.BackoffStep < 0 {
		return fmt.Errorf("backoff_step cannot be negative, got %d", cfg.BackoffStep)
	}

	return nil
}
