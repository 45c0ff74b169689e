package clock

import "time"

// Clock provides the current time. Injected instead of calling
// time.Now directly so date-dependent behavior (daily rotation,
// month/year filters) is testable.
type Clock interface {
	Now() time.Time
}

// System reads the system wall clock.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Fixed always returns the same instant. For tests.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time {
	return f.T
}
