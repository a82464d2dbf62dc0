//go:build !linux

package interrupts

import (
	"sync"
	"time"
)

var (
	initMu sync.Mutex
	ticker *time.Ticker
	stopCh chan struct{}
)

// Init simulates the periodic interrupt with a time.Ticker, for platforms
// where golang.org/x/sys/unix does not expose setitimer(2).
func Init(interval time.Duration, onTick func()) error {
	initMu.Lock()
	defer initMu.Unlock()

	if stopCh != nil {
		close(stopCh)
		ticker.Stop()
	}

	setCallback(onTick)

	t := time.NewTicker(interval)
	done := make(chan struct{})
	ticker, stopCh = t, done

	go func() {
		for {
			select {
			case <-done:
				return
			case <-t.C:
				deliver()
			}
		}
	}()
	return nil
}
