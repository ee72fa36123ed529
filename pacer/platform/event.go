package platform

import (
	"fmt"
	"time"
)

// Kind tags an event with the loop phase or input it represents.
type Kind int

const (
	// NewEvents opens an iteration; Cause tells why the loop woke up.
	NewEvents Kind = iota
	Key
	Pointer
	Focus
	Resized
	CloseRequested
	// MainEventsCleared fires once all pending input has been dispatched.
	MainEventsCleared
	RedrawRequested
	// RedrawEventsCleared closes the iteration.
	RedrawEventsCleared
	LoopDestroyed
)

var kindNames = map[Kind]string{
	NewEvents:           "NewEvents",
	Key:                 "Key",
	Pointer:             "Pointer",
	Focus:               "Focus",
	Resized:             "Resized",
	CloseRequested:      "CloseRequested",
	MainEventsCleared:   "MainEventsCleared",
	RedrawRequested:     "RedrawRequested",
	RedrawEventsCleared: "RedrawEventsCleared",
	LoopDestroyed:       "LoopDestroyed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsInput reports whether the event comes from the user or the window system
// rather than from the loop itself.
func (k Kind) IsInput() bool {
	switch k {
	case Key, Pointer, Focus, Resized, CloseRequested:
		return true
	}
	return false
}

// StartCause explains why an iteration started.
type StartCause int

const (
	CauseInit StartCause = iota
	CausePoll
	CauseResumeTimeReached
	CauseWaitCancelled
)

func (c StartCause) String() string {
	switch c {
	case CauseInit:
		return "Init"
	case CausePoll:
		return "Poll"
	case CauseResumeTimeReached:
		return "ResumeTimeReached"
	case CauseWaitCancelled:
		return "WaitCancelled"
	}
	return fmt.Sprintf("StartCause(%d)", int(c))
}

type Size struct {
	Width  int
	Height int
}

// Empty reports a zero-area size, which platforms use to signal minimize.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Event is a single item of the platform event stream. Only the fields
// relevant to Kind are set.
type Event struct {
	Kind  Kind
	Cause StartCause
	Time  time.Time

	// Key
	Key     string // key name, see input.DefaultKeyMap
	Pressed bool

	// Pointer
	X, Y int

	// Focus
	Focused bool

	// Resized
	Size Size
}

func (e Event) String() string {
	switch e.Kind {
	case NewEvents:
		return fmt.Sprintf("NewEvents(%s)", e.Cause)
	case Key:
		state := "released"
		if e.Pressed {
			state = "pressed"
		}
		return fmt.Sprintf("Key(%s %s)", e.Key, state)
	case Pointer:
		return fmt.Sprintf("Pointer(%d,%d)", e.X, e.Y)
	case Focus:
		return fmt.Sprintf("Focus(%t)", e.Focused)
	case Resized:
		return fmt.Sprintf("Resized(%s)", e.Size)
	}
	return e.Kind.String()
}

// KeyPress builds a pressed key event.
func KeyPress(name string) Event {
	return Event{Kind: Key, Key: name, Pressed: true}
}

// KeyRelease builds a released key event.
func KeyRelease(name string) Event {
	return Event{Kind: Key, Key: name}
}

// Resize builds a resize event. A zero-area size means minimized.
func Resize(width, height int) Event {
	return Event{Kind: Resized, Size: Size{Width: width, Height: height}}
}

// Close builds a close request.
func Close() Event {
	return Event{Kind: CloseRequested}
}
