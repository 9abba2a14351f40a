package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ValidConfig_Success(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	configContent := `
hostname: "gateway.example.net"
interval: 1800
log_level: "debug"
http_port: 9465
api_timeout: 20
max_attempts: 3
backoff_step: 30
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.DataDir != tmpDir {
		t.Errorf("DataDir = %v, want %v", cfg.DataDir, tmpDir)
	}
	if cfg.Hostname != "gateway.example.net" {
		t.Errorf("Hostname = %v, want gateway.example.net", cfg.Hostname)
	}
	if cfg.Interval != 1800 {
		t.Errorf("Interval = %v, want 1800", cfg.Interval)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.HTTPPort != 9465 {
		t.Errorf("HTTPPort = %v, want 9465", cfg.HTTPPort)
	}
	if cfg.APITimeout != 20 {
		t.Errorf("APITimeout = %v, want 20", cfg.APITimeout)
	}
	if cfg.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %v, want 3", cfg.MaxAttempts)
	}
	if cfg.BackoffStep != 30 {
		t.Errorf("BackoffStep = %v, want 30", cfg.BackoffStep)
	}
}

func TestLoad_NoConfigFile_AppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Hostname != DefaultHostname {
		t.Errorf("Hostname = %v, want %v", cfg.Hostname, DefaultHostname)
	}
	if cfg.Interval != DefaultInterval {
		t.Errorf("Interval = %v, want %v", cfg.Interval, DefaultInterval)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %v, want %v", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.HTTPPort != 0 {
		t.Errorf("HTTPPort = %v, want 0 (server disabled)", cfg.HTTPPort)
	}
	if cfg.APITimeout != DefaultAPITimeout {
		t.Errorf("APITimeout = %v, want %v", cfg.APITimeout, DefaultAPITimeout)
	}
	if cfg.MaxAttempts != DefaultMaxAttempts {
		t.Errorf("MaxAttempts = %v, want %v", cfg.MaxAttempts, DefaultMaxAttempts)
	}
	if cfg.BackoffStep != DefaultBackoffStep {
		t.Errorf("BackoffStep = %v, want %v", cfg.BackoffStep, DefaultBackoffStep)
	}
}

func TestLoad_EnvOverrides_Success(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	configContent := `
hostname: "from-file"
interval: 1800
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}

	t.Setenv("COLLECTD_HOSTNAME", "from-env")
	t.Setenv("COLLECTD_INTERVAL", "900.0")
	t.Setenv("USAGE_LOG_LEVEL", "warn")
	t.Setenv("USAGE_HTTP_PORT", "9100")

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Hostname != "from-env" {
		t.Errorf("Hostname = %v, want from-env (env should beat file)", cfg.Hostname)
	}
	if cfg.Interval != 900 {
		t.Errorf("Interval = %v, want 900", cfg.Interval)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %v, want warn", cfg.LogLevel)
	}
	if cfg.HTTPPort != 9100 {
		t.Errorf("HTTPPort = %v, want 9100", cfg.HTTPPort)
	}
}

func TestLoad_InvalidEnvInterval_Error(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("COLLECTD_INTERVAL", "not-a-number")

	if _, err := Load(tmpDir); err == nil {
		t.Error("Load() should fail with non-numeric COLLECTD_INTERVAL")
	}
}

func TestValidate_IntervalTooLow_Error(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	if err := os.WriteFile(configPath, []byte("interval: 10\n"), 0644); err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Errorf("Load() should fail with interval below %d", MinInterval)
	}
}

func TestValidate_InvalidHTTPPort_Error(t *testing.T) {
	tests := []struct {
		name string
		port int
	}{
		{"negative port", -1},
		{"port too high", 70000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				DataDir:     "/tmp",
				Interval:    3600,
				HTTPPort:    tt.port,
				APITimeout:  10,
				MaxAttempts: 5,
			}
			if err := validate(cfg); err == nil {
				t.Errorf("validate() should fail with http_port %d", tt.port)
			}
		})
	}
}

func TestValidate_ZeroHTTPPort_Allowed(t *testing.T) {
	cfg := &Config{
		DataDir:     "/tmp",
		Interval:    3600,
		HTTPPort:    0,
		APITimeout:  10,
		MaxAttempts: 5,
	}
	if err := validate(cfg); err != nil {
		t.Errorf("validate() error = %v, want nil (port 0 disables the server)", err)
	}
}

func TestValidate_MaxAttemptsTooLow_Error(t *testing.T) {
	cfg := &Config{
		DataDir:     "/tmp",
		Interval:    3600,
		APITimeout:  10,
		MaxAttempts: 0,
	}
	// validate sees the post-default value in production; check directly here
	if err := validate(cfg); err == nil {
		t.Error("validate() should fail with max_attempts 0")
	}
}

func TestLoad_MalformedYAML_Error(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	if err := os.WriteFile(configPath, []byte("interval: [not closed\n"), 0644); err != nil {
		t.Fatalf("Failed to create test config: %v", err)
	}

	if _, err := Load(tmpDir); err == nil {
		t.Error("Load() should fail with malformed YAML")
	}
}
