package uthread

import "github.com/joeycumines/go-uthread/interrupts"

// This file implements the "returns twice" context-switch semantics of the
// thread library this package re-implements, without resorting to cgo or
// assembly register manipulation (Go offers no user-level equivalent of
// ucontext(3)/setcontext(3)).
//
// Each tcb owns a resume channel of capacity 1, used as a binary
// semaphore: a thread that is not currently running is always parked
// receiving from its own resume channel. switchTo hands the baton to the
// next thread (an unconditional, non-blocking send, since the invariant
// "a thread is sent to only when it is the unique thread about to be
// resumed" always holds) and then parks the caller on its own channel,
// exactly mirroring save_context_here/switch_to: the call does not
// logically return until some later switchTo wakes this thread again, at
// which point it continues with every local variable and the call stack
// intact, since those are simply the calling goroutine's own -- nothing
// needed to be saved or restored by hand.

// switchTo parks self and wakes next. It returns once, later, when some
// other switchTo call wakes self again.
func (s *Scheduler) switchTo(self, next *tcb) {
	next.resume <- struct{}{}
	<-self.resume
}

// switchToFinal wakes next and parks the caller forever. It is used by
// Exit, whose goroutine is being abandoned rather than resumed.
func (s *Scheduler) switchToFinal(next *tcb) {
	next.resume <- struct{}{}
	select {}
}

// stub is the function every non-bootstrap thread's goroutine runs. It
// blocks until first dispatched, then runs the thread function to
// completion and exits with ExitCodeNormal if the function returns
// normally. The unconditional Enable is deliberate and unique to this
// spot: a fresh thread materialises out of a switch performed with
// interrupts masked, and there is no caller's frame whose deferred
// restore could ever re-enable them.
func (s *Scheduler) stub(t *tcb) {
	<-t.resume
	interrupts.Enable()
	t.fn(t.arg)
	s.Exit(ExitCodeNormal)
}
