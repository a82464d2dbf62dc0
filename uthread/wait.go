package uthread

// WaitQueue is a caller-visible FIFO of blocked threads, created with
// WaitQueueCreate and used with Sleep, WakeNext, and WakeAll to build
// higher-level synchronization primitives (mutexes, condition variables,
// barriers) on top of the scheduler.
type WaitQueue struct {
	q queue
}

// WaitQueueCreate allocates a new, empty wait queue.
func WaitQueueCreate() (*WaitQueue, error) { return defaultScheduler().WaitQueueCreate() }

// WaitQueueDestroy releases a wait queue. It is an error to destroy a
// queue that still has blocked threads in it.
func WaitQueueDestroy(q *WaitQueue) error { return defaultScheduler().WaitQueueDestroy(q) }

// Sleep blocks the calling thread on q until a later WakeNext or WakeAll.
// It returns the tid of the thread the scheduler switched to, or an error
// if there is no other ready thread to run in the meantime (which would
// otherwise deadlock the process).
func Sleep(q *WaitQueue) (Tid, error) { return defaultScheduler().Sleep(q) }

// WakeNext moves the head of q to the ready queue, if any, and returns the
// number of threads woken (0 or 1).
func WakeNext(q *WaitQueue) int { return defaultScheduler().WakeNext(q) }

// WakeAll moves every thread on q to the ready queue and returns the count.
func WakeAll(q *WaitQueue) int { return defaultScheduler().WakeAll(q) }

// Join blocks until the thread named by tid exits or is killed, then
// writes its exit code into *exitCode (when non-nil). Unlike a
// POSIX-style join, a tid that has already exited is not joinable: a
// caller only observes a target's exit code if it was already blocked in
// Join at the moment that target exited or was killed. Joining self, an
// out-of-range tid, or a tid that is not currently live (never created,
// already a zombie, or already reaped) is an error.
func Join(tid Tid, exitCode *int) (Tid, error) { return defaultScheduler().Join(tid, exitCode) }

func (s *Scheduler) WaitQueueCreate() (*WaitQueue, error) {
	defer s.gate()()
	wq := &WaitQueue{}
	s.waitQueues[wq] = struct{}{}
	return wq, nil
}

func (s *Scheduler) WaitQueueDestroy(q *WaitQueue) error {
	defer s.gate()()
	if _, ok := s.waitQueues[q]; !ok {
		return ErrTidInvalid
	}
	if !q.q.isEmpty() {
		return ErrOther
	}
	delete(s.waitQueues, q)
	return nil
}

// Sleep does not service a pending preemption on entry the way the other
// public operations do: it is itself a suspension point, and a checkpoint
// yield here would run other threads before self is enqueued on q -- a
// WakeNext dispatched in that window would find q empty and the wakeup
// would be lost. The decide-and-enqueue sequence below must stay free of
// suspension points for the same reason.
func (s *Scheduler) Sleep(q *WaitQueue) (Tid, error) {
	defer s.gate()()
	s.reap()
	if q == nil {
		return 0, ErrTidInvalid
	}
	self := s.table[s.running]
	next := s.ready.popHead()
	if next == nil {
		// No other thread could ever wake us: sleeping here would
		// deadlock the scheduler forever.
		return 0, ErrSysThread
	}
	self.state = stateBlocked
	q.q.append(self)
	next.state = stateRunning
	s.running = next.tid
	nextTid := next.tid
	s.metrics.sleeps.Add(1)
	s.log("sleep", self.tid)
	s.switchTo(self, next)
	return nextTid, nil
}

func (s *Scheduler) WakeNext(q *WaitQueue) int {
	defer s.gate()()
	if q == nil {
		return 0
	}
	t := q.q.popHead()
	if t == nil {
		return 0
	}
	t.state = stateReady
	s.ready.append(t)
	s.metrics.wakes.Add(1)
	return 1
}

func (s *Scheduler) WakeAll(q *WaitQueue) int {
	defer s.gate()()
	if q == nil {
		return 0
	}
	n := 0
	for {
		t := q.q.popHead()
		if t == nil {
			break
		}
		t.state = stateReady
		s.ready.append(t)
		n++
	}
	s.metrics.wakes.Add(uint64(n))
	return n
}

func (s *Scheduler) Join(tid Tid, exitCode *int) (Tid, error) {
	s.checkpoint()
	if tid < 0 || int(tid) >= MaxThreads {
		return 0, ErrTidInvalid
	}
	if tid == s.running {
		return 0, ErrThreadBad
	}
	target, err := func() (*tcb, error) {
		defer s.gate()()
		target := s.table[tid]
		if target == nil || target.state == stateEmpty || target.state == stateExited || target.state == stateKilled {
			return nil, ErrSysThread
		}
		return target, nil
	}()
	if err != nil {
		return 0, err
	}
	// gate is not a mutex -- it only saves/restores the interrupt mask --
	// so calling Sleep here, which acquires and releases its own gate,
	// nests safely with no risk of deadlock. Critically, there is no
	// suspension point between the liveness check above and Sleep's
	// enqueue: Sleep services no checkpoint, so the target cannot run to
	// Exit (draining its join queue while this thread is still absent
	// from it) before this thread is parked on it.
	jq := s.joinQueue(tid)
	if _, err := s.Sleep(jq); err != nil {
		return 0, err
	}
	defer s.gate()()
	// By the time this thread is rescheduled the slot may already have
	// been reaped, and even reused by a newer Create; the tcb captured
	// above still holds the exit code the target died with, so read it
	// from there rather than back through the table.
	if exitCode != nil {
		*exitCode = target.exitCode
	}
	s.metrics.joins.Add(1)
	return tid, nil
}

// joinQueue returns the lazily-created implicit wait queue joiners of tid
// block on.
func (s *Scheduler) joinQueue(tid Tid) *WaitQueue {
	if q, ok := s.joinQueues[tid]; ok {
		return q
	}
	q := &WaitQueue{}
	s.joinQueues[tid] = q
	return q
}
