package stats

import (
	"time"

	"github.com/valerio/go-framepace/pacer/timing"
)

type Phase uint8

const (
	PhaseEvents Phase = iota
	PhaseUpdate
	PhaseRender
	phaseCount
)

type timeRange struct {
	from time.Time
	to   time.Time
	open bool
}

func (tr *timeRange) start(now time.Time) {
	tr.from = now
	tr.to = now
	tr.open = true
}

func (tr *timeRange) finish(now time.Time) {
	if !tr.open {
		return
	}
	tr.to = now
	tr.open = false
}

func (tr *timeRange) timings() Timings {
	return Timings{StartAt: tr.from, Duration: tr.to.Sub(tr.from)}
}

// Recorder measures the phases of one loop iteration.
type Recorder struct {
	clock timing.Clock

	frameID       uint64
	iteration     timeRange
	prevIteration time.Time
	frameDuration time.Duration
	phases        [phaseCount]timeRange
	events        int
	totalEvents   uint64
	totalTicks    uint64
}

func NewRecorder(clock timing.Clock) *Recorder {
	return &Recorder{clock: clock}
}

// BeginIteration starts a new frame and clears the per-iteration timings.
func (r *Recorder) BeginIteration() {
	now := r.clock.Now()
	r.frameID++
	if !r.prevIteration.IsZero() {
		r.frameDuration = now.Sub(r.prevIteration)
	}
	r.prevIteration = now
	r.iteration.start(now)
	r.phases = [phaseCount]timeRange{}
	r.events = 0

	// event dispatch starts with the iteration
	r.phases[PhaseEvents].start(now)
}

func (r *Recorder) Begin(p Phase) {
	r.phases[p].start(r.clock.Now())
}

func (r *Recorder) End(p Phase) {
	r.phases[p].finish(r.clock.Now())
}

func (r *Recorder) CountEvent() {
	r.events++
	r.totalEvents++
}

func (r *Recorder) CountTicks(n uint32) {
	r.totalTicks += uint64(n)
}

func (r *Recorder) FrameID() uint64 {
	return r.frameID
}

// Snapshot closes the iteration and fills the timing fields of base.
func (r *Recorder) Snapshot(base GameStats) GameStats {
	now := r.clock.Now()
	for i := range r.phases {
		r.phases[i].finish(now)
	}
	r.iteration.finish(now)

	base.FrameID = r.frameID
	base.FrameDuration = r.frameDuration
	base.Events = TimingsWithCount{Timings: r.phases[PhaseEvents].timings(), Count: r.events}
	base.Update = r.phases[PhaseUpdate].timings()
	base.Render = r.phases[PhaseRender].timings()
	base.Loop = r.iteration.timings()
	base.TotalEvents = r.totalEvents
	base.TotalTicks = r.totalTicks
	return base
}
