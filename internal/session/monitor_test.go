package session

import (
	"testing"
	"time"

	"sala-quiz-service/internal/domain"
)

func TestMonitorInvalidatesOnSignal(t *testing.T) {
	s := New("energia", twoOptionQuestions(3))
	signals := make(chan struct{}, 1)
	violated := make(chan Snapshot, 1)

	monitor := NewMonitor(s, signals, func(snap Snapshot, _ []Effect) {
		violated <- snap
	})
	go monitor.Run()
	defer monitor.Stop()

	signals <- struct{}{}

	select {
	case snap := <-violated:
		if snap.Phase != domain.PhaseInvalidated {
			t.Fatalf("expected invalidated, got %s", snap.Phase)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("violation callback never fired")
	}
}

func TestMonitorSilentWhenGated(t *testing.T) {
	s := New("energia", twoOptionQuestions(3))
	if _, _, err := s.Dispatch(AnswerChosen{Option: 1}); err != nil {
		t.Fatalf("answer: %v", err)
	}

	signals := make(chan struct{}, 1)
	violated := make(chan Snapshot, 1)
	monitor := NewMonitor(s, signals, func(snap Snapshot, _ []Effect) {
		violated <- snap
	})
	go monitor.Run()
	defer monitor.Stop()

	signals <- struct{}{}

	select {
	case <-violated:
		t.Fatalf("locked session must not trigger the violation callback")
	case <-time.After(100 * time.Millisecond):
	}
	if s.Snapshot().Invalidated {
		t.Fatalf("locked session must not invalidate")
	}
}

func TestStoppedMonitorIgnoresSignals(t *testing.T) {
	s := New("energia", twoOptionQuestions(3))
	signals := make(chan struct{}, 1)

	monitor := NewMonitor(s, signals, nil)
	done := make(chan struct{})
	go func() {
		defer close(done)
		monitor.Run()
	}()
	monitor.Stop()
	<-done

	signals <- struct{}{}
	time.Sleep(50 * time.Millisecond)
	if s.Snapshot().Invalidated {
		t.Fatalf("stopped monitor must not touch the session")
	}
}
