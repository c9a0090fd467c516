package reveal_test

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/romeirofernandes/vhack-sub001/internal/domain/model"
	reveal "github.com/romeirofernandes/vhack-sub001/internal/domain/reveal"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeClock is a virtual-time clock. Advance moves time forward and
// fires due timers in deadline order, so phase sequences can be walked
// without sleeping.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock    *fakeClock
	deadline time.Time
	f        func()
	fired    bool
	stopped  bool
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) reveal.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, deadline: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves virtual time forward and fires every timer whose
// deadline has been reached, outside the clock lock.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.fired && !t.stopped && !t.deadline.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].deadline.Before(due[j].deadline) })
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

func scoredResults(n int) []model.RankedResult {
	results := make([]model.RankedResult, 0, n)
	for i := 0; i < n; i++ {
		v := float64(10 - i)
		results = append(results, model.RankedResult{
			Project:    model.Project{ID: string(rune('a' + i))},
			FinalScore: &v,
			Rank:       i + 1,
		})
	}
	return results
}

func TestGate(t *testing.T) {
	Convey("Given the reveal guard", t, func() {
		now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

		Convey("When the results date is unset", func() {
			So(reveal.Gate(now, time.Time{}, scoredResults(3)), ShouldEqual, reveal.Locked)
		})

		Convey("When the results date is in the future", func() {
			So(reveal.Gate(now, now.Add(time.Hour), scoredResults(3)), ShouldEqual, reveal.Locked)
		})

		Convey("When the date has passed but nothing is scored", func() {
			So(reveal.Gate(now, now.Add(-time.Hour), nil), ShouldEqual, reveal.Empty)
			unscored := []model.RankedResult{{Project: model.Project{ID: "a"}, Rank: 1}}
			So(reveal.Gate(now, now.Add(-time.Hour), unscored), ShouldEqual, reveal.Empty)
		})

		Convey("When the date has passed and at least one project is scored", func() {
			So(reveal.Gate(now, now.Add(-time.Hour), scoredResults(1)), ShouldEqual, reveal.Available)
		})

		Convey("When now equals the results date exactly", func() {
			So(reveal.Gate(now, now, scoredResults(1)), ShouldEqual, reveal.Available)
		})
	})
}

func TestMachineGuard(t *testing.T) {
	Convey("Given a machine whose results are still locked", t, func() {
		now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
		clock := newFakeClock(now)
		m := reveal.NewMachine(reveal.WithClock(clock))
		defer m.Close()

		hack := model.Hackathon{ID: "h1", ResultsDate: now.Add(time.Hour)}
		So(m.Sync(now, hack, scoredResults(3)), ShouldEqual, reveal.Locked)

		Convey("Then the podium cannot be expanded", func() {
			So(m.ExpandPodium(true), ShouldEqual, reveal.ErrNotAvailable)
			So(m.ExpandPodium(false), ShouldEqual, reveal.ErrNotAvailable)
		})

		Convey("Then the podium cannot be collapsed", func() {
			So(m.CollapsePodium(), ShouldEqual, reveal.ErrNotAvailable)
		})

		Convey("Then the leaderboard cannot be toggled", func() {
			_, err := m.ToggleLeaderboard()
			So(err, ShouldEqual, reveal.ErrNotAvailable)
		})

		Convey("Then the snapshot shows everything closed", func() {
			snap := m.Snapshot()
			So(snap.Availability, ShouldEqual, reveal.Locked)
			So(snap.Podium, ShouldEqual, reveal.PodiumCollapsed)
			So(snap.Phase, ShouldEqual, reveal.PhaseNone)
			So(snap.LeaderboardOpen, ShouldBeFalse)
		})
	})
}

func TestMachineAutoReveal(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	hack := model.Hackathon{ID: "h1", ResultsDate: now.Add(-time.Hour)}

	Convey("Given available results with three scored entries inside the window", t, func() {
		clock := newFakeClock(now)
		m := reveal.NewMachine(reveal.WithClock(clock))
		defer m.Close()

		So(m.Sync(now, hack, scoredResults(3)), ShouldEqual, reveal.Available)

		Convey("Then the podium reveal starts on its own", func() {
			So(m.Snapshot().Podium, ShouldEqual, reveal.PodiumRevealing)
		})

		Convey("When virtual time advances through the phase schedule", func() {
			clock.Advance(300 * time.Millisecond)
			So(m.Snapshot().Phase, ShouldEqual, reveal.PhaseThird)

			clock.Advance(300 * time.Millisecond)
			So(m.Snapshot().Phase, ShouldEqual, reveal.PhaseSecond)

			clock.Advance(300 * time.Millisecond)
			So(m.Snapshot().Phase, ShouldEqual, reveal.PhaseFirst)

			clock.Advance(300 * time.Millisecond)
			snap := m.Snapshot()
			So(snap.Phase, ShouldEqual, reveal.PhaseCelebration)
			So(snap.Podium, ShouldEqual, reveal.PodiumRevealed)
		})

		Convey("When the snapshot is re-synced mid-run", func() {
			clock.Advance(300 * time.Millisecond)
			So(m.Sync(clock.Now(), hack, scoredResults(3)), ShouldEqual, reveal.Available)

			Convey("Then the running reveal is not restarted", func() {
				So(m.Snapshot().Phase, ShouldEqual, reveal.PhaseThird)
				clock.Advance(300 * time.Millisecond)
				So(m.Snapshot().Phase, ShouldEqual, reveal.PhaseSecond)
			})
		})
	})

	Convey("Given only two scored entries", t, func() {
		clock := newFakeClock(now)
		m := reveal.NewMachine(reveal.WithClock(clock))
		defer m.Close()

		So(m.Sync(now, hack, scoredResults(2)), ShouldEqual, reveal.Available)

		Convey("Then the podium never auto-reveals", func() {
			So(m.Snapshot().Podium, ShouldEqual, reveal.PodiumCollapsed)
			clock.Advance(5 * time.Second)
			So(m.Snapshot().Phase, ShouldEqual, reveal.PhaseNone)
		})

		Convey("But a manual expand still works", func() {
			So(m.ExpandPodium(true), ShouldBeNil)
			So(m.Snapshot().Podium, ShouldEqual, reveal.PodiumRevealing)
		})
	})

	Convey("Given a results date older than the auto-reveal window", t, func() {
		clock := newFakeClock(now)
		m := reveal.NewMachine(reveal.WithClock(clock), reveal.WithAutoRevealWindow(24*time.Hour))
		defer m.Close()

		stale := model.Hackathon{ID: "h1", ResultsDate: now.Add(-25 * time.Hour)}
		So(m.Sync(now, stale, scoredResults(3)), ShouldEqual, reveal.Available)

		Convey("Then the podium stays collapsed until expanded by hand", func() {
			So(m.Snapshot().Podium, ShouldEqual, reveal.PodiumCollapsed)
		})
	})
}

func TestMachinePodiumControls(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	hack := model.Hackathon{ID: "h1", ResultsDate: now.Add(-time.Hour)}

	Convey("Given an available machine with a collapsed podium", t, func() {
		clock := newFakeClock(now)
		m := reveal.NewMachine(reveal.WithClock(clock))
		defer m.Close()
		So(m.Sync(now, hack, scoredResults(2)), ShouldEqual, reveal.Available)

		Convey("When expanded without animation", func() {
			So(m.ExpandPodium(false), ShouldBeNil)

			Convey("Then the podium jumps straight to revealed", func() {
				snap := m.Snapshot()
				So(snap.Podium, ShouldEqual, reveal.PodiumRevealed)
				So(snap.Phase, ShouldEqual, reveal.PhaseCelebration)
			})
		})

		Convey("When an animated reveal is restarted mid-sequence", func() {
			So(m.ExpandPodium(true), ShouldBeNil)
			clock.Advance(300 * time.Millisecond)
			So(m.Snapshot().Phase, ShouldEqual, reveal.PhaseThird)

			So(m.ExpandPodium(true), ShouldBeNil)

			Convey("Then the phase resets and the old run's timers are dead", func() {
				So(m.Snapshot().Phase, ShouldEqual, reveal.PhaseNone)
				// Old run's remaining deadlines pass; only the new run counts.
				clock.Advance(300 * time.Millisecond)
				So(m.Snapshot().Phase, ShouldEqual, reveal.PhaseThird)
				clock.Advance(900 * time.Millisecond)
				So(m.Snapshot().Phase, ShouldEqual, reveal.PhaseCelebration)
			})
		})

		Convey("When collapsed mid-reveal", func() {
			So(m.ExpandPodium(true), ShouldBeNil)
			clock.Advance(600 * time.Millisecond)
			So(m.Snapshot().Phase, ShouldEqual, reveal.PhaseSecond)

			So(m.CollapsePodium(), ShouldBeNil)

			Convey("Then the phase resets and no further phases fire", func() {
				So(m.Snapshot().Podium, ShouldEqual, reveal.PodiumCollapsed)
				So(m.Snapshot().Phase, ShouldEqual, reveal.PhaseNone)
				clock.Advance(time.Minute)
				So(m.Snapshot().Phase, ShouldEqual, reveal.PhaseNone)
			})
		})

		Convey("When results fall back out of availability mid-reveal", func() {
			So(m.ExpandPodium(true), ShouldBeNil)
			clock.Advance(300 * time.Millisecond)
			_, err := m.ToggleLeaderboard()
			So(err, ShouldBeNil)

			So(m.Sync(clock.Now(), hack, nil), ShouldEqual, reveal.Empty)

			Convey("Then everything collapses and timers stop", func() {
				snap := m.Snapshot()
				So(snap.Podium, ShouldEqual, reveal.PodiumCollapsed)
				So(snap.Phase, ShouldEqual, reveal.PhaseNone)
				So(snap.LeaderboardOpen, ShouldBeFalse)
				clock.Advance(time.Minute)
				So(m.Snapshot().Phase, ShouldEqual, reveal.PhaseNone)
			})
		})
	})
}

func TestMachineLeaderboardToggle(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	hack := model.Hackathon{ID: "h1", ResultsDate: now.Add(-time.Hour)}

	Convey("Given an available machine", t, func() {
		clock := newFakeClock(now)
		m := reveal.NewMachine(reveal.WithClock(clock))
		defer m.Close()
		So(m.Sync(now, hack, scoredResults(2)), ShouldEqual, reveal.Available)

		Convey("When the leaderboard is toggled", func() {
			open, err := m.ToggleLeaderboard()
			So(err, ShouldBeNil)
			So(open, ShouldBeTrue)

			Convey("Then toggling again closes it", func() {
				open, err = m.ToggleLeaderboard()
				So(err, ShouldBeNil)
				So(open, ShouldBeFalse)
			})

			Convey("And the podium state is unaffected", func() {
				So(m.Snapshot().Podium, ShouldEqual, reveal.PodiumCollapsed)
			})
		})
	})
}

func TestStateStrings(t *testing.T) {
	Convey("Given the reveal state enums", t, func() {
		So(reveal.Locked.String(), ShouldEqual, "locked")
		So(reveal.Empty.String(), ShouldEqual, "empty")
		So(reveal.Available.String(), ShouldEqual, "available")

		So(reveal.PhaseNone.String(), ShouldEqual, "none")
		So(reveal.PhaseThird.String(), ShouldEqual, "third")
		So(reveal.PhaseSecond.String(), ShouldEqual, "second")
		So(reveal.PhaseFirst.String(), ShouldEqual, "first")
		So(reveal.PhaseCelebration.String(), ShouldEqual, "celebration")

		So(reveal.PodiumCollapsed.String(), ShouldEqual, "collapsed")
		So(reveal.PodiumRevealing.String(), ShouldEqual, "revealing")
		So(reveal.PodiumRevealed.String(), ShouldEqual, "revealed")
	})
}
