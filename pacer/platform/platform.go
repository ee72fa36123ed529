// Package platform models the host event source that drives the loop:
// a phase-tagged event stream in, a scheduling directive out.
package platform

import (
	"context"
	"time"
)

// Source is a concrete platform (headless, terminal, SDL2 window).
// Sources are responsible for:
// - Creating their surface in Init; a failure there aborts startup
// - Translating native input into Events, including the resize that most
// window systems report right after creation
// - Blocking in Wait until input arrives, the deadline passes or ctx ends
type Source interface {
	// Init creates the window or screen. Errors are fatal.
	Init(config Config) error

	// Pending drains the input events queued since the last call, without blocking.
	Pending() []Event

	// Wait blocks until an input event is pending, the deadline passes or
	// ctx is done. A zero deadline waits for input only. It reports true
	// when woken by input.
	Wait(ctx context.Context, deadline time.Time) bool

	// Close releases the surface.
	Close() error
}

// Config holds the surface settings shared by all sources.
type Config struct {
	Title  string
	Width  int
	Height int
}

// Handler receives every event of the stream in order and updates the
// directive through flow.
type Handler interface {
	HandleEvent(ev Event, flow *ControlFlow)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ev Event, flow *ControlFlow)

func (f HandlerFunc) HandleEvent(ev Event, flow *ControlFlow) {
	f(ev, flow)
}

// Window is the part of the event loop a consumer may call back into.
type Window interface {
	RequestRedraw()
	Size() Size
}
