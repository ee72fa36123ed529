package loop

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/valerio/go-framepace/pacer/platform"
	"github.com/valerio/go-framepace/pacer/stats"
	"github.com/valerio/go-framepace/pacer/timing"
)

// Controller sequences one loop iteration per platform batch:
// events, fixed ticks, variable update, render, stats and pacing.
// It implements platform.Handler.
type Controller struct {
	game   Game
	clock  timing.Clock
	logger *slog.Logger

	updatePeriod time.Duration
	maxTicks     int
	target       timing.TargetFrameRate
	cancelKey    string
	statsEvery   uint64

	sim      *timing.SimulationClock
	frames   *timing.FrameClock
	throttle *timing.Throttle
	recorder *stats.Recorder

	phase       Phase
	flags       flags
	size        platform.Size
	tick        timing.TickResult
	initialized bool
	exiting     bool
	destroyed   bool
	err         error
}

var _ platform.Handler = (*Controller)(nil)

func New(game Game, initializers ...Initializer) (*Controller, error) {
	if game == nil {
		return nil, ErrNilGame
	}

	c := &Controller{
		game:         game,
		clock:        timing.SystemClock{},
		logger:       slog.Default(),
		updatePeriod: DefaultUpdatePeriod,
		maxTicks:     timing.DefaultMaxTicks,
		target:       timing.Unlimited(),
		cancelKey:    DefaultCancelKey,
	}

	for _, init := range initializers {
		init(c)
	}

	sim, err := timing.NewSimulationClock(c.updatePeriod, timing.WithMaxTicks(c.maxTicks))
	if err != nil {
		return nil, err
	}

	c.sim = sim
	c.frames = timing.NewFrameClock()
	c.throttle = timing.NewThrottle(c.target)
	c.recorder = stats.NewRecorder(c.clock)

	return c, nil
}

// HandleEvent advances the state machine by one platform event.
func (c *Controller) HandleEvent(ev platform.Event, flow *platform.ControlFlow) {
	if ev.Kind == platform.LoopDestroyed {
		c.Close()
		flow.Exit()
		return
	}

	if c.exiting {
		flow.Exit()
		return
	}

	switch ev.Kind {
	case platform.NewEvents:
		c.newEvents(ev.Cause, &c.flags)
	case platform.MainEventsCleared:
		c.iterationBegin(&c.flags)
	case platform.RedrawRequested:
		c.render(&c.flags)
	case platform.RedrawEventsCleared:
		c.iterationEnd(&c.flags, flow)
	default:
		c.dispatch(ev, &c.flags)
	}

	if c.exiting {
		flow.Exit()
	}
}

func (c *Controller) newEvents(cause platform.StartCause, f *flags) {
	c.recorder.BeginIteration()

	if cause == platform.CauseInit && !c.initialized {
		c.initialized = true
		c.phase = PhaseInit
		f.reset(true)
		f.suppressResize = true

		c.logger.Info("Loop starting",
			"update_period", c.updatePeriod,
			"max_ticks", c.maxTicks,
			"target", c.target)

		if err := c.call(PhaseInit, c.game.OnInit); err != nil {
			return
		}
		if err := c.call(PhaseInit, c.game.OnStart); err != nil {
			return
		}
		// seeded after the init hooks so their cost is not simulated
		c.sim.Tick(c.clock.Now())
	} else {
		// an input-only wake does not make a new frame due
		f.reset(cause != platform.CauseWaitCancelled)
	}

	c.phase = PhaseEventDispatch
}

func (c *Controller) dispatch(ev platform.Event, f *flags) {
	c.phase = PhaseEventDispatch
	c.recorder.CountEvent()

	if err := c.call(PhaseEventDispatch, func() error { return c.game.OnEvent(ev) }); err != nil {
		return
	}

	switch ev.Kind {
	case platform.CloseRequested:
		c.requestExit("close requested")
	case platform.Key:
		if ev.Pressed && c.cancelKey != "" && ev.Key == c.cancelKey {
			c.requestExit("cancel key pressed")
		}
	case platform.Resized:
		c.resize(ev.Size, f)
	}
}

func (c *Controller) resize(size platform.Size, f *flags) {
	c.size = size
	wasMinimized := f.minimized
	f.minimized = size.Empty()

	if f.minimized != wasMinimized {
		c.logger.Debug("Window minimized state changed", "minimized", f.minimized)
	}

	if f.suppressResize {
		f.suppressResize = false
		c.logger.Debug("Ignoring startup resize", "size", size)
		return
	}

	if f.minimized {
		return
	}

	if err := c.call(PhaseEventDispatch, func() error { return c.game.OnResized(size) }); err != nil {
		return
	}
	f.resized = true
	f.invalidated = true
}

func (c *Controller) iterationBegin(f *flags) {
	c.phase = PhaseIterationBegin
	c.recorder.End(stats.PhaseEvents)
	c.recorder.Begin(stats.PhaseUpdate)
	defer c.recorder.End(stats.PhaseUpdate)

	res := c.sim.Tick(c.clock.Now())
	c.tick = res
	c.recorder.CountTicks(res.Ticks)

	if res.Discarded > 0 {
		c.logger.Warn("Simulation fell behind, dropping time",
			"discarded", res.Discarded,
			"max_ticks", c.sim.MaxTicks())
	}

	c.phase = PhaseFixedUpdate
	period := c.sim.Period()
	for i := uint32(0); i < res.Ticks; i++ {
		simTime := res.Start + time.Duration(i)*period
		if err := c.call(PhaseFixedUpdate, func() error { return c.game.OnFixedUpdate(simTime, period) }); err != nil {
			return
		}
	}
	if res.Ticks > 0 {
		f.invalidated = true
	}

	c.phase = PhaseVariableUpdate
	if err := c.call(PhaseVariableUpdate, func() error { return c.game.OnUpdate(c.sim.Time() + res.Lag) }); err != nil {
		return
	}

	if f.invalidated && !f.minimized {
		c.phase = PhaseRenderPending
		c.call(PhaseRenderPending, func() error {
			c.game.RequestRedraw()
			return nil
		})
	}
}

func (c *Controller) render(f *flags) {
	if f.minimized {
		return
	}

	c.phase = PhaseRender
	c.recorder.Begin(stats.PhaseRender)
	defer c.recorder.End(stats.PhaseRender)

	if err := c.call(PhaseRender, func() error { return c.game.OnRender(c.tick.Lag, c.sim.Period()) }); err != nil {
		return
	}
	f.rendered = true
}

func (c *Controller) iterationEnd(f *flags, flow *platform.ControlFlow) {
	c.phase = PhaseIterationEnd
	now := c.clock.Now()

	if f.invalidated && !f.minimized {
		c.frames.Frame(now)
		c.throttle.Frame(now)
	}

	var deadline time.Time
	if f.minimized {
		// keep ticking at the simulation rate without spinning
		deadline = now.Add(c.sim.Period())
		flow.WaitUntil(deadline)
	} else if t, ok := c.throttle.WaitUntil(); ok {
		deadline = t
		flow.WaitUntil(deadline)
	} else {
		flow.Poll()
	}

	s := c.recorder.Snapshot(stats.GameStats{
		FrameRate:      c.frames.FrameRate(),
		TargetFPS:      c.throttle.Target().FPS(),
		SimulationTime: c.sim.Time(),
		UpdatePeriod:   c.sim.Period(),
		Lag:            c.tick.Lag,
		Alpha:          c.sim.Alpha(),
		Ticks:          c.tick.Ticks,
		Discarded:      c.tick.Discarded,
		LateFrames:     c.throttle.Late(),
		Invalidated:    f.invalidated,
		Resized:        f.resized,
		Minimized:      f.minimized,
		Rendered:       f.rendered,
		WaitUntil:      deadline,
	})

	if c.statsEvery > 0 && s.FrameID%c.statsEvery == 0 {
		c.logger.Info("Frame stats", "stats", s.String(), "late_frames", s.LateFrames)
	}

	c.call(PhaseIterationEnd, func() error {
		c.game.OnStats(s)
		return nil
	})
}

func (c *Controller) requestExit(reason string) {
	if c.exiting {
		return
	}
	c.logger.Info("Loop exit requested", "reason", reason)
	c.exiting = true
}

// RequestExit asks the loop to stop at the next event. Game hooks use it to
// quit without reporting an error.
func (c *Controller) RequestExit() {
	c.requestExit("requested by game")
}

// call runs a hook, turning returned errors and panics into the loop error.
func (c *Controller) call(phase Phase, hook func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Phase: phase, Value: r, Stack: debug.Stack()}
			c.fail(phase, err)
		}
	}()

	if err = hook(); err != nil {
		c.fail(phase, err)
	}
	return err
}

func (c *Controller) fail(phase Phase, err error) {
	if c.err == nil {
		c.err = fmt.Errorf("%s: %w", phase, err)
	}
	c.logger.Error("Game hook failed", "phase", phase, "error", err)
	c.exiting = true
}

// Close runs the destroy hook once. The event loop calls it through
// LoopDestroyed; callers that drive HandleEvent by hand should defer it.
func (c *Controller) Close() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.exiting = true
	c.phase = PhaseExit

	c.call(PhaseExit, func() error {
		c.game.OnDestroy()
		return nil
	})
	c.logger.Info("Loop destroyed",
		"frames", c.frames.FrameCount(),
		"simulation_time", c.sim.Time(),
		"error", c.err)
}

// Err returns the first hook failure, if any.
func (c *Controller) Err() error {
	return c.err
}

// SetTargetFrameRate changes the throttle target; it restarts on the next frame.
func (c *Controller) SetTargetFrameRate(target timing.TargetFrameRate) {
	c.target = target
	c.throttle.SetTarget(target)
	c.logger.Info("Target frame rate changed", "target", target)
}

func (c *Controller) TargetFrameRate() timing.TargetFrameRate {
	return c.throttle.Target()
}

func (c *Controller) FrameRate() float32 {
	return c.frames.FrameRate()
}

func (c *Controller) SimulationTime() time.Duration {
	return c.sim.Time()
}

func (c *Controller) Phase() Phase {
	return c.phase
}

func (c *Controller) Minimized() bool {
	return c.flags.minimized
}

func (c *Controller) Size() platform.Size {
	return c.size
}

func (c *Controller) Exiting() bool {
	return c.exiting
}
