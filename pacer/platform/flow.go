package platform

import (
	"fmt"
	"time"
)

// Mode is the scheduling directive applied once an iteration ends.
type Mode int

const (
	// ModePoll starts the next iteration immediately.
	ModePoll Mode = iota
	// ModeWait sleeps until the next input event.
	ModeWait
	// ModeWaitUntil sleeps until the deadline or the next input event.
	ModeWaitUntil
	// ModeExit ends the loop.
	ModeExit
)

// ControlFlow is the directive sink handed to the handler with every event.
// The last value set when an iteration ends wins, except Exit which sticks.
type ControlFlow struct {
	Mode     Mode
	Deadline time.Time
}

func (f *ControlFlow) Poll() {
	if f.Mode == ModeExit {
		return
	}
	f.Mode = ModePoll
	f.Deadline = time.Time{}
}

func (f *ControlFlow) Wait() {
	if f.Mode == ModeExit {
		return
	}
	f.Mode = ModeWait
	f.Deadline = time.Time{}
}

func (f *ControlFlow) WaitUntil(t time.Time) {
	if f.Mode == ModeExit {
		return
	}
	f.Mode = ModeWaitUntil
	f.Deadline = t
}

func (f *ControlFlow) Exit() {
	f.Mode = ModeExit
	f.Deadline = time.Time{}
}

func (f *ControlFlow) Exiting() bool {
	return f.Mode == ModeExit
}

func (f ControlFlow) String() string {
	switch f.Mode {
	case ModePoll:
		return "Poll"
	case ModeWait:
		return "Wait"
	case ModeWaitUntil:
		return fmt.Sprintf("WaitUntil(%s)", f.Deadline.Format("15:04:05.000000"))
	case ModeExit:
		return "Exit"
	}
	return fmt.Sprintf("Mode(%d)", int(f.Mode))
}
