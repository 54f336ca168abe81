package shared

import "time"

// Clock supplies the current time. Month prefixes and token days are derived from it.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

// NewSystemClock returns a clock for the given location, falling back to time.Local.
func NewSystemClock(loc *time.Location) SystemClock {
	if loc == nil {
		loc = time.Local
	}
	return SystemClock{Location: loc}
}

// Now returns the current time in the clock's location.
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant. Used in tests.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.T
}
