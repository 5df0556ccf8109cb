package scheduler

import (
	"testing"
	"time"
)

func TestAtFiresOnce(t *testing.T) {
	s := New()
	defer s.Stop()

	fired := make(chan struct{}, 1)
	s.At(time.Now().Add(10*time.Millisecond), func() {
		fired <- struct{}{}
	})

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("job did not fire")
	}
}

func TestAtSkipsPastTimes(t *testing.T) {
	s := New()
	defer s.Stop()

	fired := make(chan struct{}, 1)
	s.At(time.Now().Add(-time.Minute), func() {
		fired <- struct{}{}
	})

	select {
	case <-fired:
		t.Fatal("past job must not fire")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStopCancelsPendingJobs(t *testing.T) {
	s := New()

	fired := make(chan struct{}, 1)
	s.At(time.Now().Add(30*time.Millisecond), func() {
		fired <- struct{}{}
	})
	s.Stop()

	select {
	case <-fired:
		t.Fatal("cancelled job must not fire")
	case <-time.After(100 * time.Millisecond):
	}

	// jobs scheduled after Stop are dropped
	s.At(time.Now().Add(5*time.Millisecond), func() {
		fired <- struct{}{}
	})
	select {
	case <-fired:
		t.Fatal("job scheduled after Stop must not fire")
	case <-time.After(50 * time.Millisecond):
	}
}
