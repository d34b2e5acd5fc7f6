package simulator

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerSchedulerFires(t *testing.T) {
	s := NewTimerScheduler()
	defer s.StopAll()

	done := make(chan struct{})
	id := s.ScheduleAfter(time.Millisecond, func() { close(done) })
	require.NotEmpty(t, id)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduled callback never fired")
	}
}

func TestTimerSchedulerCancel(t *testing.T) {
	s := NewTimerScheduler()
	defer s.StopAll()

	var fired atomic.Bool
	id := s.ScheduleAfter(50*time.Millisecond, func() { fired.Store(true) })
	s.Cancel(id)

	time.Sleep(100 * time.Millisecond)
	assert.False(t, fired.Load())
	assert.Equal(t, 0, s.Active())
}

func TestTimerSchedulerStopAll(t *testing.T) {
	s := NewTimerScheduler()

	var fired atomic.Int32
	for i := 0; i < 5; i++ {
		s.ScheduleAfter(50*time.Millisecond, func() { fired.Add(1) })
	}
	assert.Equal(t, 5, s.Active())

	s.StopAll()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
	assert.Equal(t, 0, s.Active())
}

func TestTimerSchedulerCancelUnknownID(t *testing.T) {
	s := NewTimerScheduler()
	defer s.StopAll()

	s.Cancel("no-such-id")
	assert.Equal(t, 0, s.Active())
}
