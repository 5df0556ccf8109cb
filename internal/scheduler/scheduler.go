package scheduler

import (
	"sync"
	"time"
)

// Scheduler runs callbacks once at an absolute time. Jobs are process
// scoped and lost on restart, matching the delayed-job contract.
type Scheduler interface {
	At(fireTime time.Time, fn func())
	Stop()
}

type timerScheduler struct {
	mu     sync.Mutex
	timers []*time.Timer
	closed bool
}

// New builds a timer-backed scheduler.
func New() Scheduler {
	return &timerScheduler{}
}

// At schedules fn once at fireTime. Times already past are skipped.
func (s *timerScheduler) At(fireTime time.Time, fn func()) {
	delay := time.Until(fireTime)
	if delay <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.timers = append(s.timers, time.AfterFunc(delay, fn))
}

// Stop cancels all pending jobs.
func (s *timerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}
