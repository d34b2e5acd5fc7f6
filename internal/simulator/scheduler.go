package simulator

import (
	"fmt"
	"sync"
	"time"
)

// Scheduler runs functions after a delay. Every handle is cancellable so a
// session restart can invalidate in-flight callbacks instead of merely
// resetting the state they would have written into.
type Scheduler interface {
	// ScheduleAfter schedules fn to run after delay and returns a handle.
	ScheduleAfter(delay time.Duration, fn func()) string

	// Cancel stops a scheduled function by handle. Unknown handles are ignored.
	Cancel(id string)

	// StopAll cancels every outstanding scheduled function.
	StopAll()
}

// TimerScheduler implements Scheduler on top of time.AfterFunc.
type TimerScheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	nextID int64
}

// NewTimerScheduler creates a TimerScheduler.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{timers: make(map[string]*time.Timer)}
}

// ScheduleAfter schedules fn to run after delay.
func (s *TimerScheduler) ScheduleAfter(delay time.Duration, fn func()) string {
	s.mu.Lock()
	s.nextID++
	id := fmt.Sprintf("timer_%d", s.nextID)
	s.mu.Unlock()

	timer := time.AfterFunc(delay, func() {
		fn()
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()
	})

	s.mu.Lock()
	s.timers[id] = timer
	s.mu.Unlock()
	return id
}

// Cancel stops a scheduled function by handle.
func (s *TimerScheduler) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if timer, ok := s.timers[id]; ok {
		timer.Stop()
		delete(s.timers, id)
	}
}

// StopAll cancels every outstanding timer.
func (s *TimerScheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

// Active reports how many timers are pending.
func (s *TimerScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
