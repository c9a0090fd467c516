// Package reveal decides whether a hackathon's ranked results may be
// shown and drives the timed podium reveal once they are.
//
// Two layers share one availability check: the podium sub-machine
// (collapsed -> revealing -> revealed) and the leaderboard visibility
// toggle. Both only operate while results are available.
package reveal

import (
	"time"

	"github.com/romeirofernandes/vhack-sub001/internal/domain/model"
	"github.com/romeirofernandes/vhack-sub001/internal/domain/scoring"
)

// Availability is the outcome of the reveal guard.
type Availability int

const (
	// Locked means the results date is unset or still in the future.
	// Only the scheduled date may be shown.
	Locked Availability = iota
	// Empty means the guard passed but zero projects have been scored.
	Empty
	// Available means ranked results may be shown.
	Available
)

func (a Availability) String() string {
	switch a {
	case Locked:
		return "locked"
	case Empty:
		return "empty"
	case Available:
		return "available"
	default:
		return "unknown"
	}
}

// Phase is one step of the podium's timed reveal sequence. Phases are
// additive: once a phase has fired its visuals stay shown.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseThird
	PhaseSecond
	PhaseFirst
	PhaseCelebration
)

func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "none"
	case PhaseThird:
		return "third"
	case PhaseSecond:
		return "second"
	case PhaseFirst:
		return "first"
	case PhaseCelebration:
		return "celebration"
	default:
		return "unknown"
	}
}

// PodiumState is the podium sub-machine state derived from the active
// run and the highest phase reached.
type PodiumState int

const (
	PodiumCollapsed PodiumState = iota
	PodiumRevealing
	PodiumRevealed
)

func (s PodiumState) String() string {
	switch s {
	case PodiumCollapsed:
		return "collapsed"
	case PodiumRevealing:
		return "revealing"
	case PodiumRevealed:
		return "revealed"
	default:
		return "unknown"
	}
}

// Snapshot is the externally visible reveal state for one hackathon.
type Snapshot struct {
	Availability    Availability `json:"availability"`
	Podium          PodiumState  `json:"podium"`
	Phase           Phase        `json:"phase"`
	LeaderboardOpen bool         `json:"leaderboard_open"`
}

// Gate applies the reveal guard: results may leave Locked only once
// the results date has been reached, and the view is Empty until at
// least one project carries a score.
func Gate(now, resultsDate time.Time, results []model.RankedResult) Availability {
	if resultsDate.IsZero() || now.Before(resultsDate) {
		return Locked
	}
	if scoring.ScoredCount(results) == 0 {
		return Empty
	}
	return Available
}
