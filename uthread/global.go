package uthread

import "sync"

var (
	defaultMu  sync.Mutex
	defaultSch *Scheduler
)

// Init installs the process-wide default Scheduler used by the
// package-level functions (Id, Create, Yield, ...). It must be called
// once, from the thread that will be known as tid 0, before any other
// package-level operation.
func Init(opts ...Option) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	s, err := New(opts...)
	if err != nil {
		return err
	}
	defaultSch = s
	return nil
}

func defaultScheduler() *Scheduler {
	defaultMu.Lock()
	s := defaultSch
	defaultMu.Unlock()
	if s == nil {
		panic("uthread: Init must be called before using the package-level API")
	}
	return s
}

// Id returns the calling thread's tid on the default scheduler.
func Id() Tid { return defaultScheduler().Id() }

// Create starts a new thread on the default scheduler.
func Create(f ThreadFunc, arg any) (Tid, error) { return defaultScheduler().Create(f, arg) }

// Yield gives up the baton on the default scheduler.
func Yield() Tid { return defaultScheduler().Yield() }

// YieldTo dispatches a specific ready thread on the default scheduler.
func YieldTo(tid Tid) (Tid, error) { return defaultScheduler().YieldTo(tid) }

// Exit terminates the calling thread on the default scheduler.
func Exit(code int) { defaultScheduler().Exit(code) }

// Kill asynchronously terminates tid on the default scheduler.
func Kill(tid Tid) (Tid, error) { return defaultScheduler().Kill(tid) }
