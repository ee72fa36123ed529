package timing

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrAlreadyStarted is returned when a clock or throttle is started twice.
	ErrAlreadyStarted = errors.New("timing: already started")
	// ErrInvalidPeriod is returned for a non-positive update period.
	ErrInvalidPeriod = errors.New("timing: update period must be positive")
)

// TargetFrameRate selects how fast the loop is allowed to present frames.
// The zero value is Unlimited.
type TargetFrameRate struct {
	fps uint32
}

// Unlimited disables throttling.
func Unlimited() TargetFrameRate {
	return TargetFrameRate{}
}

// FramesPerSecond throttles to n frames per second. n == 0 is Unlimited.
func FramesPerSecond(n uint32) TargetFrameRate {
	return TargetFrameRate{fps: n}
}

func (t TargetFrameRate) Unlimited() bool {
	return t.fps == 0
}

func (t TargetFrameRate) FPS() uint32 {
	return t.fps
}

// Period returns the target duration of a single frame, 0 when unlimited.
func (t TargetFrameRate) Period() time.Duration {
	if t.fps == 0 {
		return 0
	}
	return time.Second / time.Duration(t.fps)
}

func (t TargetFrameRate) String() string {
	if t.fps == 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%d fps", t.fps)
}
