package timing

import (
	"log/slog"
	"time"
)

// Throttle is a deadline scheduler: the next wake instant is derived from a
// fixed origin plus whole target periods, so imprecise sleeps do not
// accumulate drift. When a frame runs late the deadline snaps to now and the
// caller is told to proceed without waiting until it regains the cadence.
type Throttle struct {
	target  TargetFrameRate
	next    time.Time
	waiting bool
	started bool

	late  uint64
	early uint64
}

func NewThrottle(target TargetFrameRate) *Throttle {
	return &Throttle{target: target}
}

// SetTarget changes the target rate. The throttle restarts on the next Frame.
func (t *Throttle) SetTarget(target TargetFrameRate) {
	t.target = target
	t.started = false
	t.waiting = false
}

func (t *Throttle) Target() TargetFrameRate {
	return t.target
}

// Start seeds the deadline at now.
func (t *Throttle) Start(now time.Time) error {
	if t.started {
		return ErrAlreadyStarted
	}
	t.started = true
	t.next = now
	t.waiting = true
	return nil
}

func (t *Throttle) Started() bool {
	return t.started
}

// Frame records the end of a presented frame at now.
func (t *Throttle) Frame(now time.Time) {
	if t.target.Unlimited() {
		return
	}

	if !t.started {
		_ = t.Start(now)
		return
	}

	if now.Before(t.next) {
		t.early++
		slog.Debug("Frame ended before deadline", "early_by", t.next.Sub(now))
		return
	}

	period := t.target.Period()
	frameDuration := now.Sub(t.next)
	if frameDuration > period {
		t.late++
		slog.Debug("Frame late, catching up", "lag", frameDuration-period)
		t.waiting = false
		t.next = now
		return
	}

	t.waiting = true
	t.next = t.next.Add(period)
}

// WaitUntil reports the instant to sleep until, or false when the caller
// should run the next iteration immediately.
func (t *Throttle) WaitUntil() (time.Time, bool) {
	if t.target.Unlimited() || !t.waiting {
		return time.Time{}, false
	}
	return t.next, true
}

// Late is the number of frames that triggered catch-up.
func (t *Throttle) Late() uint64 {
	return t.late
}

// Early is the number of frames that ended before their deadline.
func (t *Throttle) Early() uint64 {
	return t.early
}
