// Package interrupts is the preemption collaborator the uthread scheduler
// relies on: a periodic timer, delivered as a real OS signal on Linux
// and simulated with a ticker elsewhere, paired with an
// enable/disable mask that callers use to bracket critical sections. The
// contract mirrors the interrupts.h collaborator of the thread library
// this package accompanies, including its verbosity-gated Printf, which is
// for client use and is never called by the scheduler itself.
package interrupts

import (
	"fmt"
	"sync/atomic"
)

// Level controls the interrupt subsystem's own diagnostic output (each
// delivered tick, when verbose). It does not gate Printf.
type Level int32

const (
	LevelQuiet Level = iota
	LevelVerbose
)

var (
	enabledFlag atomic.Bool
	logLevel    atomic.Int32
	callback    atomic.Pointer[func()]
)

func init() {
	enabledFlag.Store(true)
}

// Enable turns interrupt delivery on and returns the previous state.
func Enable() bool { return Set(true) }

// Disable turns interrupt delivery off and returns the previous state.
func Disable() bool { return Set(false) }

// Set installs the given enabled state and returns the previous one. This
// is the save/restore primitive a critical-section guard is built on:
// save := Set(false); defer Set(save).
func Set(enabled bool) bool {
	return enabledFlag.Swap(enabled)
}

// AreEnabled reports whether interrupt delivery is currently enabled.
func AreEnabled() bool { return enabledFlag.Load() }

// SetLogLevel controls whether each delivered tick is logged.
func SetLogLevel(l Level) { logLevel.Store(int32(l)) }

// Printf writes to stdout without a tick being delivered mid-print, by
// bracketing the write with Disable/Set. Client code only; the scheduler
// never calls this itself.
func Printf(format string, args ...any) {
	prior := Disable()
	defer Set(prior)
	fmt.Printf(format, args...)
}

// deliver runs the registered callback if interrupts are currently
// enabled. A tick that arrives while interrupts are disabled is simply
// dropped -- the timer is periodic and will fire again shortly, so no
// tick needs to be queued for later delivery.
func deliver() {
	if AreEnabled() {
		if Level(logLevel.Load()) == LevelVerbose {
			fmt.Println("interrupts: tick")
		}
		if cb := callback.Load(); cb != nil {
			(*cb)()
		}
	}
}

func setCallback(cb func()) {
	callback.Store(&cb)
}
