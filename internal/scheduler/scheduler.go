// Package scheduler drives the poll cycle on wall-clock-aligned boundaries.
//
// Instead of sleeping a fixed delay between cycles, the scheduler computes
// interval − (now mod interval) after each cycle, so cycles land near
// interval-aligned clock ticks regardless of how long the previous cycle
// took. The loop alternates forever between running a cycle and sleeping;
// the only way out is context cancellation.
package scheduler

import (
	"context"
	"time"

	"github.com/zgpcy/internode-usage-exporter/internal/clock"
	"github.com/zgpcy/internode-usage-exporter/internal/logger"
)

// CycleFunc runs one poll cycle. Failures are the cycle's own business; the
// scheduler proceeds to the next boundary either way.
type CycleFunc func(ctx context.Context)

// Scheduler runs a cycle once per interval, aligned to wall-clock boundaries
type Scheduler struct {
	interval time.Duration
	cycle    CycleFunc
	clock    clock.Clock
	logger   *logger.Logger
}

// New creates a scheduler with the given interval in seconds
func New(intervalSeconds int, cycle CycleFunc, log *logger.Logger) *Scheduler {
	return &Scheduler{
		interval: time.Duration(intervalSeconds) * time.Second,
		cycle:    cycle,
		clock:    clock.RealClock{},
		logger:   log,
	}
}

// NextDelay returns the time until the next interval-aligned wall-clock
// boundary: interval − (now mod interval). Exactly on a boundary the full
// interval is returned.
func NextDelay(now time.Time, interval time.Duration) time.Duration {
	elapsed := time.Duration(now.Unix()%int64(interval/time.Second)) * time.Second
	return interval - elapsed
}

// Run executes the cycle loop until the context is cancelled. The first
// cycle runs immediately; each subsequent cycle waits for the next aligned
// boundary.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		s.cycle(ctx)

		delay := NextDelay(s.clock.Now(), s.interval)
		s.logger.Debug("Sleeping until next interval boundary",
			"delay_seconds", delay.Seconds())

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Scheduler stopping")
			return
		case <-timer.C:
		}
	}
}
