package uthread

// state represents the lifecycle stage of a thread control block slot.
//
// State machine:
//
//	Empty    -> Ready       [Create]
//	Ready    -> Running     [dispatch]
//	Running  -> Ready       [Yield / YieldTo of another thread / preemption]
//	Running  -> Blocked     [Sleep]
//	Blocked  -> Ready       [WakeNext / WakeAll]
//	Running  -> Exited      [Exit, or fall off the thread function]
//	Ready    -> Killed      [Kill by another thread]
//	Blocked  -> Killed      [Kill by another thread]
//	Exited, Killed -> Empty [reap, once no longer the running thread; a
//	                         woken Joiner reads the exit code from the tcb
//	                         it captured, so reaping does not wait for it]
//
// Slot state is never subject to concurrent CAS races: only the thread
// currently holding the baton ever mutates its own state or that of a
// thread it directly targets (Create, Kill, Yield,
// WakeNext, WakeAll), and the baton discipline in context.go guarantees
// that thread is unique at any instant. A plain field guarded by the
// single-runner invariant is therefore sufficient.
type state int

const (
	stateEmpty state = iota
	stateReady
	stateRunning
	stateBlocked
	stateExited
	stateKilled
)

func (s state) String() string {
	switch s {
	case stateEmpty:
		return "empty"
	case stateReady:
		return "ready"
	case stateRunning:
		return "running"
	case stateBlocked:
		return "blocked"
	case stateExited:
		return "exited"
	case stateKilled:
		return "killed"
	default:
		return "unknown"
	}
}
