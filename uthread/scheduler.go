package uthread

import (
	"os"
	"sync/atomic"

	"github.com/joeycumines/go-uthread/interrupts"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Scheduler owns a fixed-size TCB table, a FIFO ready queue, and the
// caller-created wait queues threads can Sleep on. Exactly one thread is
// logically running at any instant; see context.go for how control passes
// between threads.
type Scheduler struct {
	table      [MaxThreads]*tcb
	ready      queue
	running    Tid
	waitQueues map[*WaitQueue]struct{}
	joinQueues map[Tid]*WaitQueue

	preemptPending atomic.Bool
	logger         *logiface.Logger[*stumpy.Event]
	metrics        schedulerMetrics
	stackSize      int
}

// New constructs an independent Scheduler, with tid 0 bound to the calling
// goroutine. Most programs should use the package-level default scheduler
// installed by Init instead; New exists for tests and embedders that want
// isolation.
func New(opts ...Option) (*Scheduler, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	s := &Scheduler{
		waitQueues: make(map[*WaitQueue]struct{}),
		joinQueues: make(map[Tid]*WaitQueue),
		stackSize:  cfg.stackSize,
	}
	if cfg.logger != nil {
		s.logger = cfg.logger
	} else {
		s.logger = defaultLogger()
	}
	s.table[0] = &tcb{tid: 0, state: stateRunning, resume: make(chan struct{}, 1)}
	s.running = 0
	if err := interrupts.Init(cfg.interruptInterval, func() {
		s.preemptPending.Store(true)
	}); err != nil {
		return nil, err
	}
	return s, nil
}

// Id returns the calling thread's tid.
func (s *Scheduler) Id() Tid {
	return s.running
}

// Create allocates a new thread slot, appends it to the ready queue, and
// returns its tid. The thread does not run until the scheduler dispatches
// it via Yield, YieldTo, Sleep, or Exit.
func (s *Scheduler) Create(f ThreadFunc, arg any) (Tid, error) {
	s.checkpoint()
	defer s.gate()()
	s.reap()
	if f == nil {
		return 0, ErrOther
	}
	slot := Tid(-1)
	for i := 1; i < MaxThreads; i++ {
		if s.table[i] == nil || s.table[i].state == stateEmpty {
			slot = Tid(i)
			break
		}
	}
	if slot < 0 {
		return 0, ErrSysThread
	}
	t := &tcb{
		tid:    slot,
		state:  stateReady,
		resume: make(chan struct{}, 1),
		stack:  make([]byte, s.stackSize),
		fn:     f,
		arg:    arg,
	}
	s.table[slot] = t
	s.ready.append(t)
	go s.stub(t)
	s.metrics.creates.Add(1)
	s.log("create", slot)
	return slot, nil
}

// Yield voluntarily gives up the baton. If another thread is ready, it
// runs next and this thread is appended to the ready queue; once this
// thread is dispatched again, Yield returns the tid of the thread it
// switched to. If no other thread is ready, Yield returns this thread's
// own tid immediately without switching.
func (s *Scheduler) Yield() Tid {
	defer s.gate()()
	s.reap()
	self := s.table[s.running]
	next := s.ready.popHead()
	if next == nil {
		return self.tid
	}
	self.state = stateReady
	s.ready.append(self)
	next.state = stateRunning
	s.running = next.tid
	nextTid := next.tid
	s.metrics.yields.Add(1)
	s.logf("yield", self.tid, "to", int(nextTid))
	s.switchTo(self, next)
	return nextTid
}

// YieldTo behaves like Yield but dispatches a specific ready thread rather
// than the head of the ready queue.
func (s *Scheduler) YieldTo(tid Tid) (Tid, error) {
	s.checkpoint()
	defer s.gate()()
	s.reap()
	if tid < 0 || int(tid) >= MaxThreads {
		return 0, ErrTidInvalid
	}
	self := s.table[s.running]
	if tid == self.tid {
		return self.tid, nil
	}
	target := s.table[tid]
	if target == nil || target.state != stateReady {
		return 0, ErrThreadBad
	}
	s.ready.removeByTid(tid)
	self.state = stateReady
	s.ready.append(self)
	target.state = stateRunning
	s.running = target.tid
	nextTid := target.tid
	s.metrics.yields.Add(1)
	s.logf("yieldto", self.tid, "to", int(nextTid))
	s.switchTo(self, target)
	return nextTid, nil
}

// Exit terminates the calling thread with the given exit code and never
// returns. Any thread blocked in Join on this tid is woken. If no other
// thread is ready to run, the process itself terminates with code.
func (s *Scheduler) Exit(code int) {
	defer s.gate()()
	self := s.table[s.running]
	self.exitCode = code
	if jq, ok := s.joinQueues[self.tid]; ok {
		for {
			t := jq.q.popHead()
			if t == nil {
				break
			}
			t.state = stateReady
			s.ready.append(t)
		}
	}
	// Defensive: self should never actually be a member of the ready
	// queue or any wait queue while running, but mirrors the original
	// library's unconditional remove_from_all_wait_queues call.
	s.ready.removeByTid(self.tid)
	for q := range s.waitQueues {
		q.q.removeByTid(self.tid)
	}
	s.reap()
	next := s.ready.popHead()
	if next == nil {
		self.state = stateExited
		s.logf("exit", self.tid, "code", code)
		os.Exit(code)
	}
	self.state = stateExited
	next.state = stateRunning
	s.running = next.tid
	s.logf("exit", self.tid, "code", code)
	s.switchToFinal(next)
}

// Kill asynchronously marks tid for termination: if it is ready or
// blocked, it is removed from its queue, marked Killed, and any joiners
// are woken; its goroutine is left parked forever (it will never be
// resumed, since it is never placed back on the ready queue). Killing the
// caller itself, or a tid that is not live, is an error.
func (s *Scheduler) Kill(tid Tid) (Tid, error) {
	s.checkpoint()
	defer s.gate()()
	if tid < 0 || int(tid) >= MaxThreads {
		return 0, ErrTidInvalid
	}
	if tid == s.running {
		return 0, ErrThreadBad
	}
	target := s.table[tid]
	if target == nil || target.state == stateEmpty || target.state == stateExited || target.state == stateKilled {
		return 0, ErrSysThread
	}
	switch target.state {
	case stateReady:
		s.ready.removeByTid(tid)
	case stateBlocked:
		// tid may be parked on a caller-created WaitQueue, or on the
		// implicit queue another thread's Join is using to wait for
		// some third tid to finish; search both.
		found := false
		for q := range s.waitQueues {
			if q.q.removeByTid(tid) != nil {
				found = true
				break
			}
		}
		if !found {
			for _, jq := range s.joinQueues {
				if jq.q.removeByTid(tid) != nil {
					break
				}
			}
		}
	}
	target.state = stateKilled
	target.exitCode = ExitCodeKill
	s.logf("kill", s.running, "target", int(tid))
	if jq, ok := s.joinQueues[tid]; ok {
		for {
			t := jq.q.popHead()
			if t == nil {
				break
			}
			t.state = stateReady
			s.ready.append(t)
		}
	}
	return tid, nil
}

// reap scans the whole table for slots in Exited or Killed that are not
// the currently-running thread, freeing their stack and resetting their
// state to Empty. The tcb struct itself is left in place (unlike freeing
// a C heap allocation, there is no pointer to invalidate) so that a
// thread already parked in Join, woken but not yet rescheduled, can still
// safely read the target's exit code after this runs. Callers must hold
// the gate.
func (s *Scheduler) reap() {
	for i := 0; i < MaxThreads; i++ {
		t := s.table[i]
		if t == nil || Tid(i) == s.running {
			continue
		}
		if t.state != stateExited && t.state != stateKilled {
			continue
		}
		t.stack = nil
		t.state = stateEmpty
		delete(s.joinQueues, t.tid)
		s.metrics.reaps.Add(1)
		s.log("reap", t.tid)
	}
}
