package reveal

import (
	"sync"
	"time"

	"github.com/romeirofernandes/vhack-sub001/internal/domain/model"
	"github.com/romeirofernandes/vhack-sub001/internal/domain/scoring"
)

// Default reveal configuration constants.
const (
	defaultPhaseStep  = 300 * time.Millisecond
	defaultAutoWindow = 24 * time.Hour

	// autoRevealMinEntries is the minimum number of scored entries for
	// the podium to auto-reveal. Below this the podium stays collapsed
	// awaiting a manual expand.
	autoRevealMinEntries = 3
)

// revealPhases lists the podium phases in firing order. The n-th phase
// fires n*phaseStep after the reveal starts.
var revealPhases = [...]Phase{PhaseThird, PhaseSecond, PhaseFirst, PhaseCelebration}

// Machine tracks the reveal state for a single hackathon. All methods
// are safe for concurrent use by HTTP handlers.
//
// The phase sequence is driven by timers scheduled on the configured
// Clock. (Re)starting a reveal invalidates every pending timer from
// the prior run via a generation counter, so a stale callback can
// never advance the new run.
type Machine struct {
	mu sync.Mutex

	clock      Clock
	phaseStep  time.Duration
	autoWindow time.Duration

	availability    Availability
	scoredEntries   int
	leaderboardOpen bool

	phase  Phase
	timers []Timer
	gen    uint64
}

// NewMachine creates a reveal machine with configuration options.
func NewMachine(opts ...Option) *Machine {
	m := &Machine{
		clock:      systemClock{},
		phaseStep:  defaultPhaseStep,
		autoWindow: defaultAutoWindow,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Sync applies a freshly loaded results snapshot to the machine and
// returns the resulting availability. Falling back out of Available
// collapses everything; entering Available auto-starts the podium when
// the hackathon has at least three scored entries and the results date
// is within the auto-reveal window of now.
func (m *Machine) Sync(now time.Time, hackathon model.Hackathon, results []model.RankedResult) Availability {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.availability = Gate(now, hackathon.ResultsDate, results)
	m.scoredEntries = scoring.ScoredCount(results)

	if m.availability != Available {
		m.cancelRunLocked()
		m.phase = PhaseNone
		m.leaderboardOpen = false
		return m.availability
	}

	if m.phase == PhaseNone && len(m.timers) == 0 &&
		m.scoredEntries >= autoRevealMinEntries &&
		now.Sub(hackathon.ResultsDate) <= m.autoWindow {
		m.startRunLocked()
	}
	return m.availability
}

// ExpandPodium opens the podium. With animated set the four phases
// fire sequentially; otherwise the podium jumps straight to revealed.
// Starting an animated reveal cancels any pending phases from a prior
// run first.
func (m *Machine) ExpandPodium(animated bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.availability != Available {
		return ErrNotAvailable
	}
	if animated {
		m.startRunLocked()
		return nil
	}
	m.cancelRunLocked()
	m.phase = PhaseCelebration
	return nil
}

// CollapsePodium hides the podium, cancelling any in-flight phase
// timers and resetting the phase. Collapsing is the only way to abort
// a reveal mid-sequence.
func (m *Machine) CollapsePodium() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.availability != Available {
		return ErrNotAvailable
	}
	m.cancelRunLocked()
	m.phase = PhaseNone
	return nil
}

// ToggleLeaderboard flips the leaderboard visibility and returns the
// new value. Unlike the podium it has no minimum entry count.
func (m *Machine) ToggleLeaderboard() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.availability != Available {
		return false, ErrNotAvailable
	}
	m.leaderboardOpen = !m.leaderboardOpen
	return m.leaderboardOpen, nil
}

// Snapshot returns the current reveal state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		Availability:    m.availability,
		Podium:          m.podiumLocked(),
		Phase:           m.phase,
		LeaderboardOpen: m.leaderboardOpen,
	}
}

// Close cancels any pending timers. The machine may not be reused.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelRunLocked()
}

func (m *Machine) podiumLocked() PodiumState {
	switch {
	case len(m.timers) > 0:
		return PodiumRevealing
	case m.phase == PhaseNone:
		return PodiumCollapsed
	default:
		return PodiumRevealed
	}
}

// startRunLocked schedules the phase timers for a fresh run. Must be
// called with m.mu held.
func (m *Machine) startRunLocked() {
	m.cancelRunLocked()
	m.phase = PhaseNone

	gen := m.gen
	m.timers = make([]Timer, 0, len(revealPhases))
	for i, phase := range revealPhases {
		delay := m.phaseStep * time.Duration(i+1)
		m.timers = append(m.timers, m.clock.AfterFunc(delay, func() {
			m.advance(gen, phase)
		}))
	}
}

// cancelRunLocked stops pending timers and bumps the generation so
// callbacks already in flight become no-ops. Must be called with m.mu
// held.
func (m *Machine) cancelRunLocked() {
	for _, t := range m.timers {
		t.Stop()
	}
	m.timers = nil
	m.gen++
}

// advance is the timer callback for one phase.
func (m *Machine) advance(gen uint64, phase Phase) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.gen {
		return // timer belongs to a cancelled run
	}
	if phase > m.phase {
		m.phase = phase
	}
	if phase == PhaseCelebration {
		m.timers = nil
	}
}
