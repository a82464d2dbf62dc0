package uthread

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageLevelAPI_roundTrip(t *testing.T) {
	require.NoError(t, Init(WithInterruptInterval(time.Hour)))
	assert.Equal(t, Tid(0), Id())

	done := make(chan struct{})
	tid, err := Create(func(any) { close(done) }, nil)
	require.NoError(t, err)

	got := Yield()
	assert.Equal(t, tid, got)
	<-done
}

func TestDefaultScheduler_panicsBeforeInit(t *testing.T) {
	defaultMu.Lock()
	saved := defaultSch
	defaultSch = nil
	defaultMu.Unlock()
	defer func() {
		defaultMu.Lock()
		defaultSch = saved
		defaultMu.Unlock()
	}()

	assert.Panics(t, func() { Id() })
}
