package internode

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// linearBackOff implements backoff.BackOff with a delay that grows linearly
// with the number of failed attempts: step, 2×step, 3×step, ...
type linearBackOff struct {
	step     time.Duration
	attempts int
}

var _ backoff.BackOff = (*linearBackOff)(nil)

func newLinearBackOff(step time.Duration) *linearBackOff {
	return &linearBackOff{step: step}
}

// NextBackOff returns the delay before the next attempt
func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempts++
	return time.Duration(b.attempts) * b.step
}

// Reset restarts the attempt counter
func (b *linearBackOff) Reset() {
	b.attempts = 0
}
