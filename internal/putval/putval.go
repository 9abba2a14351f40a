// Package putval emits metrics in the collectd exec plugin text protocol.
//
// Each successful poll cycle produces four lines on stdout:
//
//	PUTVAL "<host>/usage/gauge-quota" interval=<N> N:<value>
//	PUTVAL "<host>/usage/gauge-target" interval=<N> N:<value>
//	PUTVAL "<host>/usage/gauge-used" interval=<N> N:<value>
//	PUTVAL "<host>/usage/gauge-remain" interval=<N> N:<value>
//
// The interval doubles as a staleness hint for the receiving collectd. The
// emission is fire-and-forget: no acknowledgement is expected.
package putval

import (
	"fmt"
	"io"
)

// Metric names within the usage plugin family
const (
	MetricQuota  = "gauge-quota"
	MetricTarget = "gauge-target"
	MetricUsed   = "gauge-used"
	MetricRemain = "gauge-remain"
)

// Emitter formats PUTVAL lines for a fixed host and interval
type Emitter struct {
	w        io.Writer
	host     string
	interval int
}

// NewEmitter creates an emitter writing to w, typically os.Stdout
func NewEmitter(w io.Writer, host string, interval int) *Emitter {
	return &Emitter{w: w, host: host, interval: interval}
}

// Emit writes the four gauge lines for one poll cycle. The remaining value
// is derived as quota−used.
func (e *Emitter) Emit(quota, target, used int64) error {
	values := []struct {
		name  string
		value int64
	}{
		{MetricQuota, quota},
		{MetricTarget, target},
		{MetricUsed, used},
		{MetricRemain, quota - used},
	}

	for _, v := range values {
		if _, err := fmt.Fprintf(e.w, "PUTVAL \"%s/usage/%s\" interval=%d N:%d\n",
			e.host, v.name, e.interval, v.value); err != nil {
			return fmt.Errorf("failed to emit %s: %w", v.name, err)
		}
	}

	return nil
}
