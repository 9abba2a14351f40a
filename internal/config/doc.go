// Package config provides configuration management for the usage exporter.
//
// All state lives under a single data directory supplied on the command
// line. The directory may contain an optional config.yaml; environment
// variables override the file, and built-in defaults fill the rest.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (highest priority)
//  2. YAML configuration file (<data-dir>/config.yaml)
//  3. Default values (lowest priority)
//
// Supported environment variables:
//   - COLLECTD_HOSTNAME: hostname embedded in PUTVAL identifiers (set by
//     collectd for exec plugins; defaults to "localhost")
//   - COLLECTD_INTERVAL: polling interval in seconds (minimum: 60)
//   - USAGE_LOG_LEVEL: log level (debug, info, warn, error)
//   - USAGE_HTTP_PORT: Prometheus HTTP server port (0 disables the server)
//   - USAGE_API_TIMEOUT: per-request network timeout in seconds
//
// Example configuration file (config.yaml):
//
//	hostname: "gateway.example.net"
//	interval: 3600
//	log_level: "info"
//	http_port: 9465
//	api_timeout: 10
//	max_attempts: 5
//	backoff_step: 60
//
// Example usage:
//
//	cfg, err := config.Load("/var/lib/internode-usage")
//	if err != nil {
//		log.Fatalf("Failed to load config: %v", err)
//	}
//
//	fmt.Printf("Polling every %d seconds\n", cfg.Interval)
package config
