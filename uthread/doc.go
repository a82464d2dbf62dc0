// Package uthread provides a user-level cooperative/preemptive thread
// library that multiplexes many logical threads of execution onto a single
// goroutine of control.
//
// # Architecture
//
// A [Scheduler] owns a fixed-size table of thread control blocks ([Tid] 0
// through [MaxThreads]-1), a FIFO ready queue, and a set of caller-created
// [WaitQueue] values for blocking synchronization. Exactly one thread is
// ever logically running at a time; every other thread's goroutine is
// parked on its own context, a capacity-1 channel used as a baton (see
// context.go) rather than a raw stack/register switch, since Go offers no
// safe user-level equivalent of ucontext(3). [Create] starts a new
// goroutine that blocks immediately until dispatched; [Yield], [YieldTo],
// [Sleep], and [Exit] hand the baton to another thread; [Kill] marks a
// ready or blocked thread Killed at once, and that thread is never
// scheduled again.
//
// A periodic interrupt, delivered by the sibling package
// [github.com/joeycumines/go-uthread/interrupts], requests cooperative
// preemption: rather than truly interrupting arbitrary user code
// mid-instruction (impossible to do safely in Go without cgo and
// assembly), the scheduler checks a pending-preemption flag at safe points
// -- the top of [Create], [YieldTo], [Kill], and [Join], and each
// iteration of [Spin] -- and
// voluntarily yields when one is set and interrupts are enabled.
//
// # Process-wide default scheduler
//
// [Init] installs a single package-level default [Scheduler] and the
// package-level functions ([Id], [Create], [Yield], ...) operate on it,
// mirroring how the thread library this package is modeled on exposes a
// single global table. Tests and embedders that want an isolated scheduler
// should use [New] directly.
package uthread

// MaxThreads bounds the number of thread control block slots, matching the
// fixed-size TCB table semantics this library implements.
const MaxThreads = 256

// ThreadStackSize is the size, in bytes, of the bookkeeping stack
// allocation made for every thread other than tid 0. Go goroutines manage
// their own growable call stacks; this allocation exists purely so the
// lifecycle and ownership invariants (a stack is allocated exactly while a
// slot is non-empty, and tid 0 never owns one) hold the same way they do
// in the library this API is modeled on.
const ThreadStackSize = 32768

// Exit codes recognized by Join callers.
const (
	ExitCodeNormal = 0
	ExitCodeFatal  = -1
	ExitCodeKill   = -999
)
