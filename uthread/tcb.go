package uthread

// Tid identifies a thread control block slot. Tid 0 always names the
// bootstrap thread that called Init (or New); it never has a stack
// allocation and is never reaped.
type Tid int

// ThreadFunc is the entry point of a thread started with Create. arg is
// passed through unmodified; a thread function that returns is equivalent
// to calling Exit(ExitCodeNormal).
type ThreadFunc func(arg any)

// tcb is a thread control block. Only the thread currently holding the
// baton (see context.go) ever mutates a tcb's fields, including those of
// another tcb it is directly operating on (Create, Kill, YieldTo, WakeNext,
// WakeAll) -- the single-runner invariant enforced by the baton protocol
// is what makes that safe without a separate mutex.
type tcb struct {
	tid      Tid
	state    state
	resume   chan struct{} // capacity 1; the baton, see context.go
	stack    []byte        // bookkeeping only; nil for tid 0
	exitCode int
	fn       ThreadFunc
	arg      any

	// next links this tcb into whichever single queue currently holds it
	// (the scheduler's ready queue, or exactly one WaitQueue) -- a thread
	// is never in more than one queue at a time, so an intrusive field
	// suffices in place of a separately allocated list node.
	next *tcb
}
