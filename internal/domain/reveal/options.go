package reveal

import "time"

// Option applies a configuration option to the Machine.
type Option func(*Machine)

// WithClock sets the clock used for phase timers.
func WithClock(c Clock) Option {
	return func(m *Machine) {
		if c != nil {
			m.clock = c
		}
	}
}

// WithPhaseStep sets the delay between consecutive podium phases.
func WithPhaseStep(step time.Duration) Option {
	return func(m *Machine) {
		if step > 0 {
			m.phaseStep = step
		}
	}
}

// WithAutoRevealWindow sets how long after the results date the podium
// still auto-reveals on load.
func WithAutoRevealWindow(window time.Duration) Option {
	return func(m *Machine) {
		if window > 0 {
			m.autoWindow = window
		}
	}
}
