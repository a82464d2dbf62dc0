package uthread

import (
	"time"

	"github.com/joeycumines/go-uthread/interrupts"
)

// Spin busy-waits for at least d, yielding the caller's claim on the CPU
// to nothing in particular -- it simply burns time, the way the original
// library's spin helper polls a clock in a tight loop. Each iteration is
// also a preemption checkpoint: if interrupts are enabled and a tick has
// arrived since the last check, the calling thread voluntarily yields
// before continuing to spin, so a busy thread cannot starve the rest of
// the scheduler the way an uninterruptible tight loop otherwise would.
func Spin(d time.Duration) { defaultScheduler().Spin(d) }

func (s *Scheduler) Spin(d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if interrupts.AreEnabled() && s.preemptPending.CompareAndSwap(true, false) {
			s.metrics.preemptions.Add(1)
			s.Yield()
		}
	}
}
