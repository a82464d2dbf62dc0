package uthread

import (
	"time"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

const defaultInterruptInterval = 200 * time.Microsecond

// schedulerOptions holds configuration resolved from a list of Option
// values.
type schedulerOptions struct {
	logger            *logiface.Logger[*stumpy.Event]
	interruptInterval time.Duration
	stackSize         int
}

// Option configures a Scheduler at construction time.
type Option interface {
	applyScheduler(*schedulerOptions) error
}

type schedulerOptionImpl struct {
	fn func(*schedulerOptions) error
}

func (o *schedulerOptionImpl) applyScheduler(opts *schedulerOptions) error {
	return o.fn(opts)
}

// WithLogger installs a structured logger for scheduler trace events
// (create, yield, yieldto, sleep, exit, kill, reap). WakeNext and WakeAll
// log no event. The default is a no-op logger.
func WithLogger(l *logiface.Logger[*stumpy.Event]) Option {
	return &schedulerOptionImpl{func(opts *schedulerOptions) error {
		opts.logger = l
		return nil
	}}
}

// WithInterruptInterval overrides the default ~200us preemption tick.
func WithInterruptInterval(d time.Duration) Option {
	return &schedulerOptionImpl{func(opts *schedulerOptions) error {
		opts.interruptInterval = d
		return nil
	}}
}

// WithStackSize overrides ThreadStackSize for the bookkeeping stack
// allocation made on every Create.
func WithStackSize(bytes int) Option {
	return &schedulerOptionImpl{func(opts *schedulerOptions) error {
		opts.stackSize = bytes
		return nil
	}}
}

func resolveOptions(opts []Option) (*schedulerOptions, error) {
	cfg := &schedulerOptions{
		interruptInterval: defaultInterruptInterval,
		stackSize:         ThreadStackSize,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyScheduler(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
