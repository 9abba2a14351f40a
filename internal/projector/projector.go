// Package projector derives the expected-usage baseline for a billing cycle.
//
// The model is purely linear: consumption is assumed uniform between the
// cycle start (rollover date minus one calendar month, at midnight) and the
// cycle end (rollover date at midnight). The projected target is the usage
// an account tracking that line exactly would have accumulated by now.
package projector

import "time"

// CycleBounds returns the start and end of the billing cycle that ends at
// the rollover date. Both boundaries are at midnight in the rollover's
// location; the start is exactly one calendar month earlier (Go's AddDate
// normalization applies for overflow days).
func CycleBounds(rollover time.Time) (start, end time.Time) {
	end = time.Date(rollover.Year(), rollover.Month(), rollover.Day(), 0, 0, 0, 0, rollover.Location())
	start = end.AddDate(0, -1, 0)
	return start, end
}

// Target returns the expected cumulative usage at now, assuming the quota is
// consumed at a constant rate across the cycle. The result is truncated to
// an integer. Values outside [CycleStart, CycleEnd) are not clamped: clock
// skew or a stale rollover date can produce a negative target or one above
// the quota, and the value is emitted as computed.
func Target(quota int64, rollover, now time.Time) int64 {
	start, end := CycleBounds(rollover)
	rate := float64(quota) / end.Sub(start).Seconds()
	return int64(rate * now.Sub(start).Seconds())
}
