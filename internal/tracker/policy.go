package tracker

import (
	"math"
	"time"
)

// fractionEpsilon absorbs float error in health deltas, so a drop from 100
// to 90 counts as a change of 0.1.
const fractionEpsilon = 1e-9

// Policy decides when a sampled health value is worth announcing.
type Policy struct {
	Timeout      time.Duration
	HealthChange float64
	RequireBoth  bool
}

// ShouldAnnounce applies the elapsed-time and health-delta thresholds to a
// fresh health fraction. With RequireBoth both must hold, otherwise either.
func (p Policy) ShouldAnnounce(now time.Time, state AnnounceState, fraction float64) bool {
	timeoutPassed := elapsed(now, state.LastAt) >= p.Timeout
	healthChangePassed := math.Abs(state.LastFraction-fraction) >= p.HealthChange-fractionEpsilon

	if p.RequireBoth {
		return timeoutPassed && healthChangePassed
	}
	return timeoutPassed || healthChangePassed
}

// elapsed measures from the Unix epoch when last is the zero time, so a
// record that never announced is always past any finite timeout.
func elapsed(now, last time.Time) time.Duration {
	if last.IsZero() {
		last = time.UnixMilli(0)
	}
	return now.Sub(last)
}
