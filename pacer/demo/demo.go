// Package demo is a small particle simulation driven by the loop: physics in
// fixed ticks, interpolated drawing in render, and a stats overlay.
package demo

import (
	"log/slog"
	"time"

	"github.com/chewxy/math32"
	"github.com/valerio/go-framepace/pacer/input"
	"github.com/valerio/go-framepace/pacer/logbuf"
	"github.com/valerio/go-framepace/pacer/loop"
	"github.com/valerio/go-framepace/pacer/platform"
	"github.com/valerio/go-framepace/pacer/stats"
	"github.com/valerio/go-framepace/pacer/timing"
)

// Canvas is the character surface the demo draws on. Every platform
// provides one.
type Canvas interface {
	Size() (width, height int)
	Clear()
	SetCell(x, y int, ch rune)
	DrawText(x, y int, text string)
	Show()
}

// Pacer is the part of the loop controller the demo steers.
type Pacer interface {
	SetTargetFrameRate(target timing.TargetFrameRate)
	TargetFrameRate() timing.TargetFrameRate
	RequestExit()
}

var _ Pacer = (*loop.Controller)(nil)

const DefaultParticles = 64

// rateSteps are the targets +/- cycle through.
var rateSteps = []uint32{15, 24, 30, 60, 90, 120, 144, 240}

// Demo implements loop.Game.
type Demo struct {
	window platform.Window
	canvas Canvas
	pacer  Pacer
	logger *slog.Logger
	input  *input.Manager

	logs     *logbuf.Buffer
	logLevel *slog.LevelVar

	system    *System
	particles int
	seed      int64

	paused    bool
	showHUD   bool
	lastRate  timing.TargetFrameRate
	simTime   time.Duration
	lastStats stats.GameStats
	rendered  uint64
}

var _ loop.Game = (*Demo)(nil)

type Option = func(*Demo)

func WithParticles(n int) Option {
	return func(d *Demo) {
		d.particles = n
	}
}

func WithSeed(seed int64) Option {
	return func(d *Demo) {
		d.seed = seed
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *Demo) {
		d.logger = logger
	}
}

// WithLogs shows the newest entries of buffer in the overlay. level, when
// not nil, is stepped by the log level keys.
func WithLogs(buffer *logbuf.Buffer, level *slog.LevelVar) Option {
	return func(d *Demo) {
		d.logs = buffer
		d.logLevel = level
	}
}

func New(window platform.Window, canvas Canvas, options ...Option) *Demo {
	d := &Demo{
		window:    window,
		canvas:    canvas,
		logger:    slog.Default(),
		input:     input.NewManager(),
		particles: DefaultParticles,
		seed:      1,
		showHUD:   true,
		lastRate:  timing.FramesPerSecond(60),
	}

	for _, opt := range options {
		opt(d)
	}

	d.system = NewSystem(d.seed)
	d.bindActions()
	return d
}

// SetPacer connects the demo to the controller once both exist.
func (d *Demo) SetPacer(p Pacer) {
	d.pacer = p
}

func (d *Demo) bindActions() {
	d.input.On(input.FrameRateUp, func() { d.stepRate(1) })
	d.input.On(input.FrameRateDown, func() { d.stepRate(-1) })
	d.input.On(input.FrameRateUnlimited, d.toggleUnlimited)
	d.input.On(input.PauseToggle, func() {
		d.paused = !d.paused
		d.system.Freeze()
		d.logger.Info("Particles paused", "paused", d.paused)
	})
	d.input.On(input.HUDToggle, func() { d.showHUD = !d.showHUD })
	d.input.On(input.SpawnBurst, func() { d.system.Spawn(d.particles / 4) })
	d.input.On(input.LogLevelIncrease, func() { d.stepLogLevel(1) })
	d.input.On(input.LogLevelDecrease, func() { d.stepLogLevel(-1) })
	d.input.On(input.Quit, func() {
		if d.pacer != nil {
			d.pacer.RequestExit()
		}
	})
}

func (d *Demo) OnInit() error {
	d.fitCanvas()
	d.system.Spawn(d.particles)
	return nil
}

func (d *Demo) OnStart() error {
	d.logger.Info("Demo started", "particles", d.system.Len(), "seed", d.seed)
	return nil
}

func (d *Demo) OnEvent(ev platform.Event) error {
	d.input.Handle(ev)
	return nil
}

func (d *Demo) OnFixedUpdate(simTime, period time.Duration) error {
	if d.paused {
		return nil
	}
	d.system.Step(float32(period.Seconds()))
	return nil
}

func (d *Demo) OnUpdate(simTime time.Duration) error {
	d.simTime = simTime
	return nil
}

func (d *Demo) OnRender(lag, period time.Duration) error {
	alpha := float32(0)
	if period > 0 && !d.paused {
		alpha = math32.Min(float32(lag)/float32(period), 1)
	}

	d.canvas.Clear()
	d.drawParticles(alpha)
	if d.showHUD {
		d.drawHUD()
	}
	d.canvas.Show()
	d.rendered++
	return nil
}

func (d *Demo) OnResized(size platform.Size) error {
	d.fitCanvas()
	d.logger.Debug("Demo resized", "size", size, "bounds", d.system.Bounds())
	return nil
}

// fitCanvas keeps particle positions on the last cell of each axis at most.
func (d *Demo) fitCanvas() {
	w, h := d.canvas.Size()
	d.system.Resize(float32(max(w-1, 0)), float32(max(h-1, 0)))
}

func (d *Demo) RequestRedraw() {
	d.window.RequestRedraw()
}

func (d *Demo) OnDestroy() {
	d.logger.Info("Demo finished",
		"frames", d.rendered,
		"simulation_time", d.simTime,
		"last_fps", d.lastStats.FrameRate)
}

func (d *Demo) OnStats(s stats.GameStats) {
	d.lastStats = s
}

func (d *Demo) Paused() bool {
	return d.paused
}

func (d *Demo) HUDVisible() bool {
	return d.showHUD
}

func (d *Demo) Particles() *System {
	return d.system
}

func (d *Demo) stepRate(direction int) {
	if d.pacer == nil {
		return
	}
	current := d.pacer.TargetFrameRate()
	next := nextRate(current, direction)
	if next == current {
		return
	}
	d.pacer.SetTargetFrameRate(next)
	if !next.Unlimited() {
		d.lastRate = next
	}
}

func (d *Demo) toggleUnlimited() {
	if d.pacer == nil {
		return
	}
	current := d.pacer.TargetFrameRate()
	if current.Unlimited() {
		d.pacer.SetTargetFrameRate(d.lastRate)
		return
	}
	d.lastRate = current
	d.pacer.SetTargetFrameRate(timing.Unlimited())
}

func (d *Demo) stepLogLevel(direction int) {
	if d.logLevel == nil {
		return
	}
	old := d.logLevel.Level()
	d.logLevel.Set(logbuf.StepLevel(old, direction))
	if old != d.logLevel.Level() {
		d.logger.Info("Log filter changed", "from", old, "to", d.logLevel.Level())
	}
}

// nextRate moves one step along rateSteps. Stepping down from unlimited
// lands on the fastest step.
func nextRate(current timing.TargetFrameRate, direction int) timing.TargetFrameRate {
	if current.Unlimited() {
		if direction < 0 {
			return timing.FramesPerSecond(rateSteps[len(rateSteps)-1])
		}
		return current
	}

	fps := current.FPS()
	if direction > 0 {
		for _, step := range rateSteps {
			if step > fps {
				return timing.FramesPerSecond(step)
			}
		}
		return current
	}

	for i := len(rateSteps) - 1; i >= 0; i-- {
		if rateSteps[i] < fps {
			return timing.FramesPerSecond(rateSteps[i])
		}
	}
	return current
}
