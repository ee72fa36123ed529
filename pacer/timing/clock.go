package timing

import "time"

// Clock is the time source used by every timing component.
// Production code uses SystemClock; tests drive a ManualClock.
type Clock interface {
	Now() time.Time

	// SleepUntil blocks until t. Returns immediately if t is not in the future.
	SleepUntil(t time.Time)
}

// SystemClock reads the monotonic wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) SleepUntil(t time.Time) {
	if d := time.Until(t); d > 0 {
		time.Sleep(d)
	}
}

// ManualClock only moves when told to. SleepUntil jumps straight to the
// deadline, so loops driven by it run as fast as the CPU allows while still
// observing exact deadlines.
type ManualClock struct {
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (m *ManualClock) Now() time.Time {
	return m.now
}

func (m *ManualClock) SleepUntil(t time.Time) {
	if t.After(m.now) {
		m.now = t
	}
}

// Advance moves the clock forward by d.
func (m *ManualClock) Advance(d time.Duration) {
	m.now = m.now.Add(d)
}

// Set moves the clock to t, even backwards.
func (m *ManualClock) Set(t time.Time) {
	m.now = t
}
