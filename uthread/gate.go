package uthread

import "github.com/joeycumines/go-uthread/interrupts"

// gate masks interrupt-driven preemption for the duration of a scheduler
// critical section, then restores whatever the mask was before the call --
// never an unconditional re-enable. defer s.gate()() at the top of every
// public operation guarantees interrupts are restored after returning from
// a context switch in the successor's frame, never mid-switch, matching
// the mask discipline this library's critical sections rely on.
func (s *Scheduler) gate() func() {
	prior := interrupts.Disable()
	return func() { interrupts.Set(prior) }
}

// checkpoint is the cooperative preemption safe point: if the interrupt
// collaborator has posted a pending preemption request and interrupts are
// currently enabled, it is consumed here and turned into a voluntary
// Yield, standing in for the asynchronous mid-instruction preemption a
// real signal handler would otherwise perform.
func (s *Scheduler) checkpoint() {
	if !interrupts.AreEnabled() {
		return
	}
	if s.preemptPending.CompareAndSwap(true, false) {
		s.metrics.preemptions.Add(1)
		s.Yield()
	}
}
