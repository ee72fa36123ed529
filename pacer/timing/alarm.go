package timing

import "time"

// Alarm is a reusable one-shot timer for sleep-until deadlines. Platforms
// select on C() alongside their native event channel.
type Alarm struct {
	timer *time.Timer
	armed bool
}

func NewAlarm() *Alarm {
	t := time.NewTimer(time.Hour)
	t.Stop()
	return &Alarm{timer: t}
}

// Arm schedules the alarm at deadline. A zero deadline leaves it disarmed,
// so C() never fires.
func (a *Alarm) Arm(deadline time.Time) {
	a.Stop()
	if deadline.IsZero() {
		return
	}
	d := time.Until(deadline)
	if d < 0 {
		d = 0
	}
	a.timer.Reset(d)
	a.armed = true
}

func (a *Alarm) C() <-chan time.Time {
	if !a.armed {
		return nil
	}
	return a.timer.C
}

// Fired marks the alarm as consumed after a receive on C().
func (a *Alarm) Fired() {
	a.armed = false
}

func (a *Alarm) Stop() {
	if a.armed && !a.timer.Stop() {
		select {
		case <-a.timer.C:
		default:
		}
	}
	a.armed = false
}
