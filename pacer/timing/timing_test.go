package timing

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStart() time.Time {
	return time.Date(2000, 01, 01, 12, 15, 0, 0, time.UTC)
}

func TestSimulationClock_FirstTickSeedsOnly(t *testing.T) {
	c, err := NewSimulationClock(10 * time.Millisecond)
	require.NoError(t, err)

	res := c.Tick(testStart().Add(time.Hour))
	assert.Equal(t, uint32(0), res.Ticks)
	assert.Equal(t, time.Duration(0), c.Time())
	assert.True(t, c.Started())
}

func TestSimulationClock_ThirtyFiveMillisecondJump(t *testing.T) {
	c, err := NewSimulationClock(10 * time.Millisecond)
	require.NoError(t, err)

	start := testStart()
	c.Tick(start)
	res := c.Tick(start.Add(35 * time.Millisecond))

	assert.Equal(t, uint32(3), res.Ticks)
	assert.Equal(t, 5*time.Millisecond, res.Lag)
	assert.Equal(t, time.Duration(0), res.Start)
	assert.Equal(t, 30*time.Millisecond, c.Time())
	assert.Equal(t, time.Duration(0), res.Discarded)
}

func TestSimulationClock_InvalidPeriod(t *testing.T) {
	_, err := NewSimulationClock(0)
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = NewSimulationClock(-time.Second)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestSimulationClock_AccumulatorInvariant(t *testing.T) {
	const period = 7 * time.Millisecond

	for _, maxTicks := range []int{0, 1, DefaultMaxTicks} {
		c, err := NewSimulationClock(period, WithMaxTicks(maxTicks))
		require.NoError(t, err)

		rng := rand.New(rand.NewSource(42))
		now := testStart()
		c.Tick(now)

		var ticks uint64
		prev := c.Time()
		for i := 0; i < 2000; i++ {
			now = now.Add(time.Duration(rng.Int63n(int64(40 * time.Millisecond))))
			res := c.Tick(now)
			ticks += uint64(res.Ticks)

			assert.GreaterOrEqual(t, res.Lag, time.Duration(0))
			assert.Less(t, res.Lag, period)
			assert.Equal(t, c.Lag(), res.Lag)
			assert.GreaterOrEqual(t, c.Time(), prev, "simulation time went backwards")
			prev = c.Time()

			if maxTicks > 0 {
				assert.LessOrEqual(t, res.Ticks, uint32(maxTicks))
			}
		}

		assert.Equal(t, time.Duration(ticks)*period, c.Time(), "max ticks %d", maxTicks)
	}
}

func TestSimulationClock_CapDiscardsExcess(t *testing.T) {
	c, err := NewSimulationClock(10*time.Millisecond, WithMaxTicks(2))
	require.NoError(t, err)

	start := testStart()
	c.Tick(start)
	res := c.Tick(start.Add(57 * time.Millisecond))

	assert.Equal(t, uint32(2), res.Ticks)
	assert.Equal(t, 30*time.Millisecond, res.Discarded)
	assert.Equal(t, 7*time.Millisecond, res.Lag)
	assert.Equal(t, 20*time.Millisecond, c.Time())
	assert.Equal(t, 30*time.Millisecond, c.TotalDiscarded())
}

func TestSimulationClock_BackwardsTimeIsIgnored(t *testing.T) {
	c, err := NewSimulationClock(10 * time.Millisecond)
	require.NoError(t, err)

	start := testStart()
	c.Tick(start)
	res := c.Tick(start.Add(-time.Second))
	assert.Equal(t, uint32(0), res.Ticks)
	assert.Equal(t, time.Duration(0), res.Lag)
}

func TestSimulationClock_Alpha(t *testing.T) {
	c, err := NewSimulationClock(10 * time.Millisecond)
	require.NoError(t, err)

	start := testStart()
	c.Tick(start)
	c.Tick(start.Add(12500 * time.Microsecond))
	assert.InDelta(t, 0.25, c.Alpha(), 1e-6)
}

func TestFrameClock_SixtyFPS(t *testing.T) {
	c := NewFrameClock()
	now := testStart()
	c.Frame(now)
	assert.Equal(t, float32(0), c.FrameRate())

	frame := 16670 * time.Microsecond
	for i := 0; i < SampleCount; i++ {
		now = now.Add(frame)
		c.Frame(now)
	}

	assert.InDelta(t, 60.0, c.FrameRate(), 0.5)
	assert.Equal(t, uint64(SampleCount), c.FrameCount())
	assert.Contains(t, c.String(), "5 frames")
}

func TestFrameClock_SlidingWindowForgetsOldFrames(t *testing.T) {
	c := NewFrameClock()
	now := testStart()
	c.Frame(now)

	for i := 0; i < SampleCount; i++ {
		now = now.Add(100 * time.Millisecond)
		c.Frame(now)
	}
	assert.InDelta(t, 10.0, c.FrameRate(), 0.01)

	for i := 0; i < SampleCount; i++ {
		now = now.Add(10 * time.Millisecond)
		c.Frame(now)
	}
	assert.InDelta(t, 100.0, c.FrameRate(), 0.01)
}

func TestFrameClock_ZeroDurations(t *testing.T) {
	c := NewFrameClock()
	now := testStart()
	c.Frame(now)
	c.Frame(now)
	c.Frame(now)
	assert.Equal(t, float32(0), c.FrameRate())

	// one nanosecond over three frames is a huge but finite rate
	c.Frame(now.Add(time.Nanosecond))
	assert.InDelta(t, 3e9, c.FrameRate(), 1e3)
}

func TestFrameClock_DoubleStart(t *testing.T) {
	c := NewFrameClock()
	require.NoError(t, c.Start(testStart()))
	assert.ErrorIs(t, c.Start(testStart()), ErrAlreadyStarted)
}

func TestThrottle_OnTimeFramesAdvanceWithoutDrift(t *testing.T) {
	th := NewThrottle(FramesPerSecond(60))
	period := FramesPerSecond(60).Period()
	start := testStart()

	th.Frame(start)
	deadline, ok := th.WaitUntil()
	require.True(t, ok)
	assert.Equal(t, start, deadline)

	for i := 1; i <= 1000; i++ {
		th.Frame(deadline)
		next, ok := th.WaitUntil()
		require.True(t, ok, "frame %d", i)
		assert.Equal(t, period, next.Sub(deadline))
		deadline = next
	}

	assert.Equal(t, start.Add(1000*period), deadline)
	assert.Equal(t, uint64(0), th.Late())
}

func TestThrottle_Unlimited(t *testing.T) {
	th := NewThrottle(Unlimited())
	now := testStart()

	for i := 0; i < 10; i++ {
		th.Frame(now)
		_, ok := th.WaitUntil()
		assert.False(t, ok)
		now = now.Add(time.Duration(i) * time.Millisecond)
	}
	assert.False(t, th.Started())
}

func TestThrottle_LateFrameCatchesUp(t *testing.T) {
	th := NewThrottle(FramesPerSecond(60))
	period := FramesPerSecond(60).Period()
	start := testStart()

	th.Frame(start)
	th.Frame(start)
	deadline, ok := th.WaitUntil()
	require.True(t, ok)

	late := deadline.Add(period + time.Millisecond)
	th.Frame(late)
	_, ok = th.WaitUntil()
	assert.False(t, ok, "late frame should not wait")
	assert.Equal(t, uint64(1), th.Late())

	// back on cadence: deadline restarts from the late instant
	th.Frame(late.Add(time.Millisecond))
	next, ok := th.WaitUntil()
	require.True(t, ok)
	assert.Equal(t, late.Add(period), next)
}

func TestThrottle_EarlyFrameKeepsDeadline(t *testing.T) {
	th := NewThrottle(FramesPerSecond(30))
	start := testStart()

	th.Frame(start)
	th.Frame(start)
	deadline, _ := th.WaitUntil()

	th.Frame(deadline.Add(-time.Millisecond))
	again, ok := th.WaitUntil()
	assert.True(t, ok)
	assert.Equal(t, deadline, again)
	assert.Equal(t, uint64(1), th.Early())
}

func TestThrottle_DoubleStartAndRetarget(t *testing.T) {
	th := NewThrottle(FramesPerSecond(60))
	require.NoError(t, th.Start(testStart()))
	assert.ErrorIs(t, th.Start(testStart()), ErrAlreadyStarted)

	th.SetTarget(FramesPerSecond(30))
	assert.False(t, th.Started())
	assert.Equal(t, uint32(30), th.Target().FPS())
	require.NoError(t, th.Start(testStart()))
}

func TestTargetFrameRate(t *testing.T) {
	tests := []struct {
		name   string
		target TargetFrameRate
		period time.Duration
		str    string
	}{
		{"unlimited", Unlimited(), 0, "unlimited"},
		{"zero fps is unlimited", FramesPerSecond(0), 0, "unlimited"},
		{"60 fps", FramesPerSecond(60), 16666666 * time.Nanosecond, "60 fps"},
		{"240 fps", FramesPerSecond(240), 4166666 * time.Nanosecond, "240 fps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.period, tt.target.Period())
			assert.Equal(t, tt.str, tt.target.String())
			assert.Equal(t, tt.period == 0, tt.target.Unlimited())
		})
	}
}

func TestManualClock(t *testing.T) {
	start := testStart()
	c := NewManualClock(start)

	c.SleepUntil(start.Add(-time.Second))
	assert.Equal(t, start, c.Now())

	c.SleepUntil(start.Add(time.Second))
	assert.Equal(t, start.Add(time.Second), c.Now())

	c.Advance(time.Millisecond)
	assert.Equal(t, start.Add(time.Second+time.Millisecond), c.Now())
}

func TestAlarm(t *testing.T) {
	a := NewAlarm()
	assert.Nil(t, a.C(), "disarmed alarm has no channel")

	a.Arm(time.Now().Add(time.Millisecond))
	select {
	case <-a.C():
		a.Fired()
	case <-time.After(time.Second):
		t.Fatal("alarm did not fire")
	}
	assert.Nil(t, a.C())

	a.Arm(time.Now().Add(time.Hour))
	a.Stop()
	assert.Nil(t, a.C())

	a.Arm(time.Time{})
	assert.Nil(t, a.C())
}
