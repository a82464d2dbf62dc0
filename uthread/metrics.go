package uthread

import "sync/atomic"

// schedulerMetrics holds atomic activity counters. Simple monotonic
// totals are all a fixed-256-slot thread table calls for; there is no
// latency distribution worth tracking when every operation is a handful
// of list manipulations.
type schedulerMetrics struct {
	creates     atomic.Uint64
	yields      atomic.Uint64
	preemptions atomic.Uint64
	reaps       atomic.Uint64
	sleeps      atomic.Uint64
	wakes       atomic.Uint64
	joins       atomic.Uint64
}

// Metrics is a point-in-time snapshot of scheduler activity counters.
type Metrics struct {
	Creates     uint64
	Yields      uint64
	Preemptions uint64
	Reaps       uint64
	Sleeps      uint64
	Wakes       uint64
	Joins       uint64
}

// Metrics returns a snapshot of the scheduler's activity counters.
func (s *Scheduler) Metrics() Metrics {
	return Metrics{
		Creates:     s.metrics.creates.Load(),
		Yields:      s.metrics.yields.Load(),
		Preemptions: s.metrics.preemptions.Load(),
		Reaps:       s.metrics.reaps.Load(),
		Sleeps:      s.metrics.sleeps.Load(),
		Wakes:       s.metrics.wakes.Load(),
		Joins:       s.metrics.joins.Load(),
	}
}
