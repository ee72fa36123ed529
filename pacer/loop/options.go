package loop

import (
	"log/slog"
	"time"

	"github.com/valerio/go-framepace/pacer/timing"
)

const (
	// DefaultUpdatePeriod is the fixed simulation step.
	DefaultUpdatePeriod = 10 * time.Millisecond
	// DefaultCancelKey exits the loop when pressed.
	DefaultCancelKey = "Escape"
)

type Initializer = func(*Controller)

func WithClock(clock timing.Clock) Initializer {
	return func(c *Controller) {
		c.clock = clock
	}
}

func WithUpdatePeriod(period time.Duration) Initializer {
	return func(c *Controller) {
		c.updatePeriod = period
	}
}

// WithMaxTicks caps the fixed ticks per iteration, 0 for no cap.
func WithMaxTicks(n int) Initializer {
	return func(c *Controller) {
		c.maxTicks = n
	}
}

func WithTargetFrameRate(target timing.TargetFrameRate) Initializer {
	return func(c *Controller) {
		c.target = target
	}
}

// WithCancelKey sets the key name that exits the loop. Empty disables it.
func WithCancelKey(key string) Initializer {
	return func(c *Controller) {
		c.cancelKey = key
	}
}

func WithLogger(logger *slog.Logger) Initializer {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithStatsEvery logs the frame stats every n frames, 0 disables it.
func WithStatsEvery(n uint64) Initializer {
	return func(c *Controller) {
		c.statsEvery = n
	}
}
