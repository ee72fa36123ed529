package loop

import (
	"time"

	"github.com/valerio/go-framepace/pacer/platform"
	"github.com/valerio/go-framepace/pacer/stats"
)

// Game is the capability set the controller drives. All hooks are called
// from the loop goroutine, one at a time, never re-entrantly.
type Game interface {
	// OnInit runs once when the platform reports its first iteration.
	OnInit() error
	// OnStart runs right after OnInit, before any event is dispatched.
	OnStart() error

	// OnEvent receives every input and window event, including close requests.
	OnEvent(ev platform.Event) error

	// OnFixedUpdate advances the simulation by exactly one period.
	// simTime is the simulation time at the start of the tick.
	OnFixedUpdate(simTime, period time.Duration) error
	// OnUpdate runs once per iteration after the fixed ticks, with the
	// simulation time extended by the residual lag.
	OnUpdate(simTime time.Duration) error
	// OnRender draws a frame. lag/period is the interpolation factor.
	OnRender(lag, period time.Duration) error
	// OnResized is called for size changes, except the startup resize.
	OnResized(size platform.Size) error

	// RequestRedraw asks the platform for a RedrawRequested event.
	RequestRedraw()

	// OnDestroy runs exactly once, on every exit path.
	OnDestroy()

	// OnStats receives the telemetry of every iteration.
	OnStats(s stats.GameStats)
}

// NopGame implements every hook as a no-op. Embed it and override what you need.
type NopGame struct{}

func (NopGame) OnInit() error                          { return nil }
func (NopGame) OnStart() error                         { return nil }
func (NopGame) OnEvent(platform.Event) error           { return nil }
func (NopGame) OnFixedUpdate(_, _ time.Duration) error { return nil }
func (NopGame) OnUpdate(time.Duration) error           { return nil }
func (NopGame) OnRender(_, _ time.Duration) error      { return nil }
func (NopGame) OnResized(platform.Size) error          { return nil }
func (NopGame) RequestRedraw()                         {}
func (NopGame) OnDestroy()                             {}
func (NopGame) OnStats(stats.GameStats)                {}

var _ Game = NopGame{}
