// Package server provides the optional HTTP surface of the exporter.
//
// The primary output channel is the collectd PUTVAL stream on stdout; this
// server only runs when a nonzero http_port is configured and adds a
// pull-based view of the same values.
//
// Available endpoints:
//   - /           : status page (readiness, last poll, current quota/used)
//   - /metrics    : Prometheus metrics endpoint
//   - /health     : liveness probe (always returns 200)
//   - /ready      : readiness probe (200 only after a successful poll cycle)
//
// The server is configured with sensible timeout defaults:
//   - Read timeout: 15 seconds
//   - Write timeout: 15 seconds
//   - Idle timeout: 60 seconds
//
// Example usage:
//
//	srv := server.NewServer(cfg, coll, log)
//
//	serverErrors := make(chan error, 1)
//	go func() {
//		serverErrors <- srv.Start()
//	}()
//
//	// later, on shutdown
//	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
//	defer cancel()
//	if err := srv.Shutdown(ctx); err != nil {
//		log.Error("Error during shutdown", "error", err)
//	}
package server
