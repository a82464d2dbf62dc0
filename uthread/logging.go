package uthread

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// defaultLogger returns a disabled logiface logger -- constructed the same
// way a real one would be (via the stumpy factory), just gated off, so the
// zero-configuration path costs nothing beyond a level check per call.
func defaultLogger() *logiface.Logger[*stumpy.Event] {
	return stumpy.L.New(logiface.WithLevel[*stumpy.Event](logiface.LevelDisabled))
}

// log emits a Trace-level structured event for a scheduler transition. It
// is a no-op whenever the configured logger's level has Trace disabled,
// which is the default.
func (s *Scheduler) log(event string, tid Tid) {
	s.logger.Trace().Str(`event`, event).Int(`tid`, int(tid)).Log(`thread transition`)
}

// logf is used for transitions that carry an extra integer field (e.g. the
// exit code on Exit, or the tid of the thread a call switched to).
func (s *Scheduler) logf(event string, tid Tid, field string, value int) {
	s.logger.Trace().
		Str(`event`, event).
		Int(`tid`, int(tid)).
		Int(field, value).
		Log(`thread transition`)
}
