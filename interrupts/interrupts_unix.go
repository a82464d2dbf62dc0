//go:build linux

package interrupts

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

var (
	initMu  sync.Mutex
	stopSig chan os.Signal
	stopCh  chan struct{}
)

// Init arms a real ITIMER_REAL, delivered as SIGALRM, firing every
// interval. onTick is invoked (synchronously, on the signal-watching
// goroutine) each time the mask in Set/Enable/Disable is found enabled at
// delivery time.
func Init(interval time.Duration, onTick func()) error {
	initMu.Lock()
	defer initMu.Unlock()

	if stopCh != nil {
		close(stopCh)
		signal.Stop(stopSig)
	}

	setCallback(onTick)

	it := unix.Itimerval{
		Interval: unix.NsecToTimeval(interval.Nanoseconds()),
		Value:    unix.NsecToTimeval(interval.Nanoseconds()),
	}
	if _, err := unix.Setitimer(unix.ITIMER_REAL, it); err != nil {
		return fmt.Errorf("interrupts: setitimer: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGALRM)
	done := make(chan struct{})
	stopSig, stopCh = sigCh, done

	go func() {
		for {
			select {
			case <-done:
				return
			case <-sigCh:
				deliver()
			}
		}
	}()
	return nil
}
