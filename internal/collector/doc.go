// Package collector runs the poll cycle and exposes its results.
//
// UsageCollector is the heart of a cycle: it fetches a usage snapshot
// through a UsageFetcher (which carries the bounded retry policy), derives
// the linear projected target and writes the four PUTVAL gauge lines to
// stdout. The latest snapshot is cached under a RWMutex and additionally
// served as Prometheus metrics via the prometheus.Collector interface:
//   - internode_usage_quota_bytes
//   - internode_usage_used_bytes
//   - internode_usage_target_bytes
//   - internode_usage_remaining_bytes
//   - up: 1 when the last cycle succeeded, 0 otherwise
//   - internode_usage_cycle_duration_seconds
//   - internode_usage_cycle_errors_total
//   - internode_usage_last_cycle_timestamp_seconds
//   - internode_usage_exporter_build_info
//
// A failed cycle (all fetch attempts exhausted) emits nothing, increments
// the error counter and leaves the process running; only the scheduler
// decides when the next cycle starts.
//
// Example usage:
//
//	source := client.Source(resourceURL)
//	emitter := putval.NewEmitter(os.Stdout, cfg.Hostname, cfg.Interval)
//	coll := collector.NewUsageCollector(source, emitter, cfg, log)
//
//	prometheus.MustRegister(coll)
//	sched := scheduler.New(cfg.Interval, coll.RunCycle, log)
//	sched.Run(ctx)
package collector
