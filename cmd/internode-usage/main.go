package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/zgpcy/internode-usage-exporter/internal/auth"
	"github.com/zgpcy/internode-usage-exporter/internal/cache"
	"github.com/zgpcy/internode-usage-exporter/internal/collector"
	"github.com/zgpcy/internode-usage-exporter/internal/config"
	"github.com/zgpcy/internode-usage-exporter/internal/internode"
	"github.com/zgpcy/internode-usage-exporter/internal/logger"
	"github.com/zgpcy/internode-usage-exporter/internal/putval"
	"github.com/zgpcy/internode-usage-exporter/internal/scheduler"
	"github.com/zgpcy/internode-usage-exporter/internal/server"
)

const (
	// ExitMissingArg is returned when the data directory argument is absent
	ExitMissingArg = 10

	// DefaultShutdownTimeout is the maximum time to wait for graceful shutdown
	DefaultShutdownTimeout = 30 * time.Second
)

var appVersion = "dev"

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		// Usage goes to stdout, exit code 10, per the collectd plugin contract
		fmt.Printf("usage: %s <data-dir>\n", os.Args[0])
		os.Exit(ExitMissingArg)
	}
	dataDir := flag.Arg(0)

	// Load configuration first (need log level from config)
	cfg, err := config.Load(dataDir)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logger (stderr; stdout carries the PUTVAL stream)
	logger := logger.New(cfg.LogLevel)
	logger.Info("Internode usage exporter starting",
		"version", appVersion,
		"data_dir", cfg.DataDir)

	logger.Info("Configuration loaded successfully",
		"hostname", cfg.Hostname,
		"interval_seconds", cfg.Interval,
		"http_port", cfg.HTTPPort,
		"api_timeout_seconds", cfg.APITimeout,
		"max_attempts", cfg.MaxAttempts,
		"backoff_step_seconds", cfg.BackoffStep)

	// Load credentials; unreadable credentials are fatal
	creds, err := auth.Load(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to load credentials", "error", err)
		os.Exit(1)
	}

	client := internode.NewClient(cfg, creds, logger)

	// Resolve the usage resource URL: cached if available, discovered once
	// otherwise. No URL obtainable is fatal.
	resourceURL, err := cache.Load(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to read service cache", "error", err)
		os.Exit(1)
	}
	if resourceURL == "" {
		logger.Info("No cached usage resource, running discovery")
		resourceURL, err = client.Discover(context.Background())
		if err != nil {
			logger.Error("Service discovery failed and no cache exists", "error", err)
			os.Exit(1)
		}
		if err := cache.Store(cfg.DataDir, resourceURL); err != nil {
			logger.Error("Failed to write service cache", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Info("Using cached usage resource", "resource_url", resourceURL)
	}

	emitter := putval.NewEmitter(os.Stdout, cfg.Hostname, cfg.Interval)
	coll := collector.NewUsageCollector(client.Source(resourceURL), emitter, cfg, logger)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-shutdown
		logger.Info("Received shutdown signal", "signal", sig.String())
		cancel()
	}()

	// Optional Prometheus surface
	var srv *server.Server
	if cfg.HTTPPort > 0 {
		if err := prometheus.Register(coll); err != nil {
			logger.Error("Failed to register collector", "error", err)
			os.Exit(1)
		}
		if err := prometheus.Register(prometheus.NewGoCollector()); err != nil {
			logger.Warn("Failed to register Go collector", "error", err)
		}
		if err := prometheus.Register(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{})); err != nil {
			logger.Warn("Failed to register process collector", "error", err)
		}

		srv = server.NewServer(cfg, coll, logger)
		go func() {
			if err := srv.Start(); err != nil {
				logger.Error("HTTP server error", "error", err)
				cancel()
			}
		}()
	}

	// Main poll loop: runs until the context is cancelled
	sched := scheduler.New(cfg.Interval, coll.RunCycle, logger)
	sched.Run(ctx)

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error during server shutdown", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("Stopped gracefully")
}
