package timing

import (
	"fmt"
	"time"
)

// SampleCount is the size of the sliding window used for the FPS estimate.
const SampleCount = 5

// FrameClock measures the realised frame rate as a moving average over the
// last SampleCount frame durations.
type FrameClock struct {
	last    time.Time
	count   uint64
	fps     float32
	samples [SampleCount]time.Duration
	started bool
}

func NewFrameClock() *FrameClock {
	return &FrameClock{}
}

// Start captures the initial frame boundary.
func (c *FrameClock) Start(now time.Time) error {
	if c.started {
		return ErrAlreadyStarted
	}
	c.started = true
	c.last = now
	c.count = 0
	c.fps = 0
	c.samples = [SampleCount]time.Duration{}
	return nil
}

func (c *FrameClock) Started() bool {
	return c.started
}

// Frame records a frame boundary at now. The first call only starts the clock.
func (c *FrameClock) Frame(now time.Time) {
	if !c.started {
		_ = c.Start(now)
		return
	}

	frameDuration := now.Sub(c.last)
	if frameDuration < 0 {
		frameDuration = 0
	}

	c.count++
	c.samples[c.count%SampleCount] = frameDuration

	filled := c.count
	if filled > SampleCount {
		filled = SampleCount
	}

	var total time.Duration
	for _, s := range c.samples {
		total += s
	}

	if total <= 0 {
		c.fps = 0
	} else {
		c.fps = float32(filled) / float32(total.Seconds())
	}

	// advance by the measured duration rather than re-reading the clock
	c.last = c.last.Add(frameDuration)
}

// FrameRate returns the smoothed frames per second, 0 before two frames.
func (c *FrameClock) FrameRate() float32 {
	return c.fps
}

func (c *FrameClock) FrameCount() uint64 {
	return c.count
}

func (c *FrameClock) String() string {
	return fmt.Sprintf("FPS %7.2f (%d frames)", c.fps, c.count)
}
