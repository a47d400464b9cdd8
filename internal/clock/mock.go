package clock

import "time"

// MockClock is a Clock implementation for testing that returns a fixed time.
type MockClock struct {
	FixedTime time.Time
}

// Now returns the fixed time.
func (m MockClock) Now() time.Time {
	return m.FixedTime
}

// Since returns the elapsed time relative to the fixed time.
func (m MockClock) Since(t time.Time) time.Duration {
	return m.FixedTime.Sub(t)
}
