package timing

import (
	"time"

	"github.com/chewxy/math32"
)

// DefaultMaxTicks bounds how many fixed ticks a single Tick call may run.
// Without a bound a slow simulation falls further behind every frame.
const DefaultMaxTicks = 8

// TickResult is the outcome of converting elapsed wall time into ticks.
type TickResult struct {
	// Ticks is the number of fixed updates to run this iteration.
	Ticks uint32
	// Lag is the residual accumulator, always less than the period.
	Lag time.Duration
	// Discarded is wall time dropped because the tick cap was reached.
	Discarded time.Duration
	// Start is the simulation time before the first tick of this batch.
	Start time.Duration
}

// SimulationOption configures a SimulationClock.
type SimulationOption = func(*SimulationClock)

// WithMaxTicks caps the ticks run per call. 0 removes the cap.
func WithMaxTicks(n int) SimulationOption {
	return func(c *SimulationClock) {
		if n < 0 {
			n = 0
		}
		c.maxTicks = uint32(n)
	}
}

// SimulationClock turns wall-clock time into whole fixed-size simulation
// ticks plus a leftover lag.
type SimulationClock struct {
	period   time.Duration
	maxTicks uint32

	last        time.Time
	started     bool
	accumulator time.Duration
	simTime     time.Duration
	discarded   time.Duration
}

func NewSimulationClock(period time.Duration, options ...SimulationOption) (*SimulationClock, error) {
	if period <= 0 {
		return nil, ErrInvalidPeriod
	}

	c := &SimulationClock{
		period:   period,
		maxTicks: DefaultMaxTicks,
	}

	for _, init := range options {
		init(c)
	}

	return c, nil
}

// Tick consumes the wall time elapsed since the previous call. The first call
// only seeds the clock and never produces ticks.
func (c *SimulationClock) Tick(now time.Time) TickResult {
	if !c.started {
		c.started = true
		c.last = now
		return TickResult{Lag: c.accumulator, Start: c.simTime}
	}

	elapsed := now.Sub(c.last)
	if elapsed < 0 {
		elapsed = 0
	}
	c.last = c.last.Add(elapsed)
	c.accumulator += elapsed

	result := TickResult{Start: c.simTime}
	for c.accumulator >= c.period {
		if c.maxTicks > 0 && result.Ticks == c.maxTicks {
			break
		}
		result.Ticks++
		c.accumulator -= c.period
		c.simTime += c.period
	}

	if c.accumulator >= c.period {
		excess := c.accumulator - c.accumulator%c.period
		c.accumulator -= excess
		c.discarded += excess
		result.Discarded = excess
	}

	result.Lag = c.accumulator
	return result
}

// Time is the simulated time consumed by ticks so far.
func (c *SimulationClock) Time() time.Duration {
	return c.simTime
}

func (c *SimulationClock) Period() time.Duration {
	return c.period
}

// Lag is the wall time not yet consumed by a tick.
func (c *SimulationClock) Lag() time.Duration {
	return c.accumulator
}

// Alpha is Lag as a fraction of the period, in [0, 1).
func (c *SimulationClock) Alpha() float32 {
	alpha := float32(c.accumulator) / float32(c.period)
	return math32.Max(0, math32.Min(alpha, 1))
}

// TotalDiscarded is all wall time dropped by the tick cap.
func (c *SimulationClock) TotalDiscarded() time.Duration {
	return c.discarded
}

func (c *SimulationClock) Started() bool {
	return c.started
}

func (c *SimulationClock) MaxTicks() uint32 {
	return c.maxTicks
}
