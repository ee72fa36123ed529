package stats

import (
	"fmt"
	"time"
)

type Timings struct {
	StartAt  time.Time
	Duration time.Duration
}

// GameStats is the per-iteration telemetry handed to the consumer. It is a
// value: the consumer may keep it, the loop never mutates it afterwards.
type GameStats struct {
	FrameID       uint64
	FrameDuration time.Duration // wall time since the previous iteration began
	FrameRate     float32       // smoothed presented frames per second
	TargetFPS     uint32        // 0 when unlimited

	SimulationTime time.Duration
	UpdatePeriod   time.Duration
	Lag            time.Duration
	Alpha          float32
	Ticks          uint32
	Discarded      time.Duration

	Events TimingsWithCount
	Update Timings
	Render Timings
	Loop   Timings

	TotalEvents uint64
	TotalTicks  uint64
	LateFrames  uint64

	Invalidated bool
	Resized     bool
	Minimized   bool
	Rendered    bool

	// WaitUntil is the deadline issued at the end of the iteration,
	// zero when the loop polls or exits.
	WaitUntil time.Time
}

type TimingsWithCount struct {
	Timings
	Count int
}

func (s GameStats) String() string {
	return fmt.Sprintf("frame %d | %6.2f fps | ticks %d | lag %s | events %d/%s | update %s | render %s | loop %s",
		s.FrameID,
		s.FrameRate,
		s.Ticks,
		s.Lag,
		s.Events.Count, s.Events.Duration,
		s.Update.Duration,
		s.Render.Duration,
		s.Loop.Duration,
	)
}
