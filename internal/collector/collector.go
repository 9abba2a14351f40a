package collector

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/zgpcy/internode-usage-exporter/internal/clock"
	"github.com/zgpcy/internode-usage-exporter/internal/config"
	"github.com/zgpcy/internode-usage-exporter/internal/internode"
	"github.com/zgpcy/internode-usage-exporter/internal/logger"
	"github.com/zgpcy/internode-usage-exporter/internal/projector"
	"github.com/zgpcy/internode-usage-exporter/internal/putval"
	"github.com/zgpcy/internode-usage-exporter/internal/version"
)

// UsageFetcher retrieves a usage snapshot, typically with retries baked in
type UsageFetcher interface {
	Fetch(ctx context.Context) (internode.UsageSnapshot, error)
}

// UsageCollector runs the poll cycle (fetch → project → emit) and exposes
// the latest values as Prometheus metrics.
type UsageCollector struct {
	fetcher UsageFetcher
	emitter *putval.Emitter
	cfg     *config.Config
	logger  *logger.Logger
	clock   clock.Clock // Time provider for testing

	// Metrics
	quotaMetric         *prometheus.Desc
	usedMetric          *prometheus.Desc
	targetMetric        *prometheus.Desc
	remainingMetric     *prometheus.Desc
	upMetric            *prometheus.Desc
	cycleDurationMetric *prometheus.Desc
	cycleErrorsTotal    prometheus.Counter
	lastCycleTimeMetric *prometheus.Desc
	buildInfo           *prometheus.GaugeVec

	// State
	mu                sync.RWMutex
	lastSnapshot      internode.UsageSnapshot
	lastTarget        int64
	hasData           bool
	lastError         error
	lastCycle         time.Time
	lastCycleDuration time.Duration
	isReady           bool
}

// NewUsageCollector creates a new UsageCollector
func NewUsageCollector(fetcher UsageFetcher, emitter *putval.Emitter, cfg *config.Config, log *logger.Logger) *UsageCollector {
	cycleErrorsTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "internode_usage_cycle_errors_total",
			Help: "Total number of poll cycles that exhausted all fetch attempts since startup",
		},
	)

	buildInfo := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "internode_usage_exporter_build_info",
			Help: "Build version information",
		},
		[]string{"version", "git_commit", "build_date", "go_version"},
	)

	versionInfo := version.Info()
	buildInfo.With(prometheus.Labels{
		"version":    versionInfo["version"],
		"git_commit": versionInfo["git_commit"],
		"build_date": versionInfo["build_date"],
		"go_version": versionInfo["go_version"],
	}).Set(1)

	return &UsageCollector{
		fetcher: fetcher,
		emitter: emitter,
		cfg:     cfg,
		logger:  log,
		clock:   clock.RealClock{}, // Use real system time by default
		quotaMetric: prometheus.NewDesc(
			"internode_usage_quota_bytes",
			"Total traffic allowance for the current billing cycle",
			nil, nil,
		),
		usedMetric: prometheus.NewDesc(
			"internode_usage_used_bytes",
			"Cumulative traffic used in the current billing cycle",
			nil, nil,
		),
		targetMetric: prometheus.NewDesc(
			"internode_usage_target_bytes",
			"Expected cumulative usage under uniform consumption across the cycle",
			nil, nil,
		),
		remainingMetric: prometheus.NewDesc(
			"internode_usage_remaining_bytes",
			"Unused traffic allowance (quota minus used)",
			nil, nil,
		),
		upMetric: prometheus.NewDesc(
			"up",
			"Was the last poll cycle successful (1 = success, 0 = failure)",
			nil, nil,
		),
		cycleDurationMetric: prometheus.NewDesc(
			"internode_usage_cycle_duration_seconds",
			"Duration of the last poll cycle in seconds, including retry backoff",
			nil, nil,
		),
		cycleErrorsTotal: cycleErrorsTotal,
		lastCycleTimeMetric: prometheus.NewDesc(
			"internode_usage_last_cycle_timestamp_seconds",
			"Unix timestamp of the last poll cycle",
			nil, nil,
		),
		buildInfo: buildInfo,
	}
}

// Describe implements prometheus.Collector
func (c *UsageCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.quotaMetric
	ch <- c.usedMetric
	ch <- c.targetMetric
	ch <- c.remainingMetric
	ch <- c.upMetric
	ch <- c.cycleDurationMetric
	c.cycleErrorsTotal.Describe(ch)
	ch <- c.lastCycleTimeMetric
	c.buildInfo.Describe(ch)
}

// Collect implements prometheus.Collector
func (c *UsageCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.hasData {
		ch <- prometheus.MustNewConstMetric(c.quotaMetric, prometheus.GaugeValue, float64(c.lastSnapshot.Quota))
		ch <- prometheus.MustNewConstMetric(c.usedMetric, prometheus.GaugeValue, float64(c.lastSnapshot.Used))
		ch <- prometheus.MustNewConstMetric(c.targetMetric, prometheus.GaugeValue, float64(c.lastTarget))
		ch <- prometheus.MustNewConstMetric(c.remainingMetric, prometheus.GaugeValue, float64(c.lastSnapshot.Remaining()))
	}

	upValue := 0.0
	if c.lastError == nil && c.hasData {
		upValue = 1.0
	}
	ch <- prometheus.MustNewConstMetric(c.upMetric, prometheus.GaugeValue, upValue)

	ch <- prometheus.MustNewConstMetric(c.cycleDurationMetric, prometheus.GaugeValue, c.lastCycleDuration.Seconds())

	c.cycleErrorsTotal.Collect(ch)

	if !c.lastCycle.IsZero() {
		ch <- prometheus.MustNewConstMetric(c.lastCycleTimeMetric, prometheus.GaugeValue, float64(c.lastCycle.Unix()))
	}

	c.buildInfo.Collect(ch)
}

// RunCycle executes one poll cycle: fetch the snapshot (with the bounded
// retry policy), derive the projected target and emit the PUTVAL lines.
// A cycle whose fetch attempts are all exhausted emits nothing and is not
// fatal; the scheduler proceeds to the next interval.
func (c *UsageCollector) RunCycle(ctx context.Context) {
	c.logger.Info("Polling usage")
	start := time.Now()

	snapshot, err := c.fetcher.Fetch(ctx)
	duration := time.Since(start)

	now := c.clock.Now()

	c.mu.Lock()
	c.lastCycle = now
	c.lastCycleDuration = duration
	c.lastError = err

	if err != nil {
		c.mu.Unlock()
		c.cycleErrorsTotal.Inc()
		c.logger.Error("Poll cycle failed, skipping until next interval", "error", err)
		return
	}

	target := projector.Target(snapshot.Quota, snapshot.Rollover, now)
	c.lastSnapshot = snapshot
	c.lastTarget = target
	c.hasData = true
	c.isReady = true
	c.mu.Unlock()

	if err := c.emitter.Emit(snapshot.Quota, target, snapshot.Used); err != nil {
		c.logger.Error("Failed to emit metrics", "error", err)
		return
	}

	c.logger.Info("Poll cycle complete",
		"quota_bytes", snapshot.Quota,
		"used_bytes", snapshot.Used,
		"target_bytes", target,
		"remaining_bytes", snapshot.Remaining(),
		"rollover", snapshot.Rollover.Format("2006-01-02"),
		"duration_seconds", duration.Seconds())
}

// IsReady returns true once at least one cycle has succeeded
func (c *UsageCollector) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isReady
}

// LastError returns the error of the most recent cycle, nil on success
func (c *UsageCollector) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

// LastCycleTime returns the time of the last poll cycle
func (c *UsageCollector) LastCycleTime() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastCycle
}

// Snapshot returns the last successful snapshot, its projected target and
// whether any data has been fetched yet.
func (c *UsageCollector) Snapshot() (internode.UsageSnapshot, int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSnapshot, c.lastTarget, c.hasData
}
