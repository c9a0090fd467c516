package reveal

import "time"

// Clock abstracts timer scheduling so tests can advance virtual time
// instead of sleeping through wall-clock phase delays.
type Clock interface {
	Now() time.Time
	// AfterFunc schedules f to run after d and returns its timer.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellable scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing. Returns false if it
	// already fired or was stopped.
	Stop() bool
}

// SystemClock returns the wall-clock implementation used outside tests.
func SystemClock() Clock { return systemClock{} }

// systemClock is the wall-clock implementation used outside tests.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
