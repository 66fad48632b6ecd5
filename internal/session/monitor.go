package session

import "sync"

// Dispatcher is the slice of the session (or an attempt wrapping one) the
// monitor drives.
type Dispatcher interface {
	Dispatch(ev Event) (Snapshot, []Effect, error)
}

// Monitor subscribes once, for the lifetime of one attempt, to the kiosk's
// focus-loss signal and applies it as a fatal violation. The invalidated
// gate inside the session makes repeated signals a no-op, and a stopped
// monitor never touches a discarded session again.
type Monitor struct {
	target      Dispatcher
	signals     <-chan struct{}
	onViolation func(Snapshot, []Effect)
	done        chan struct{}
	stopOnce    sync.Once
}

func NewMonitor(target Dispatcher, signals <-chan struct{}, onViolation func(Snapshot, []Effect)) *Monitor {
	return &Monitor{
		target:      target,
		signals:     signals,
		onViolation: onViolation,
		done:        make(chan struct{}),
	}
}

// Run consumes signals until Stop. Call in its own goroutine.
func (m *Monitor) Run() {
	for {
		select {
		case _, ok := <-m.signals:
			if !ok {
				return
			}
			snap, effects, err := m.target.Dispatch(FocusLost{})
			if err != nil {
				continue
			}
			// Effects are only produced when the signal actually
			// invalidated the session; gated repeats stay silent.
			if snap.Invalidated && len(effects) > 0 && m.onViolation != nil {
				m.onViolation(snap, effects)
			}
		case <-m.done:
			return
		}
	}
}

// Stop detaches the monitor from the (possibly abandoned) session.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
}
