package uthread

import "fmt"

// ThreadError is a small negative error code, matching the error taxonomy
// of the thread library this package re-implements. Its underlying value
// is stable and comparable; callers that need the raw code (e.g. to match
// behavior with the original C library) can convert it with int(err).
type ThreadError int

const (
	// ErrTidInvalid indicates a tid argument outside [0, MaxThreads), or a
	// wait queue argument that is nil or unknown to the scheduler.
	ErrTidInvalid ThreadError = -1
	// ErrThreadBad indicates an operation was attempted against a thread
	// in a state that does not permit it (e.g. joining a running thread).
	ErrThreadBad ThreadError = -2
	// ErrSysThread indicates a scheduler-level resource limit was hit, an
	// operation would have deadlocked the calling thread against itself,
	// or an in-range tid does not name a live thread (Kill, Join).
	ErrSysThread ThreadError = -3
	// ErrSysMem is reserved for an allocation failure constructing a new
	// resource (a TCB or a wait queue). The Go runtime aborts rather
	// than reporting a failed allocation, so no operation currently
	// returns it; the code is kept so the numeric error taxonomy stays
	// complete for callers matching on it.
	ErrSysMem ThreadError = -4
	// ErrOther is a catch-all for conditions not covered above.
	ErrOther ThreadError = -5
)

func (e ThreadError) Error() string {
	switch e {
	case ErrTidInvalid:
		return "uthread: invalid tid"
	case ErrThreadBad:
		return "uthread: thread in wrong state for operation"
	case ErrSysThread:
		return "uthread: thread system resource exhausted or would deadlock"
	case ErrSysMem:
		return "uthread: allocation failed"
	case ErrOther:
		return "uthread: error"
	default:
		return fmt.Sprintf("uthread: error %d", int(e))
	}
}
