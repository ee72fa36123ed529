package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/urfave/cli"
	"github.com/valerio/go-framepace/pacer/config"
	"github.com/valerio/go-framepace/pacer/demo"
	"github.com/valerio/go-framepace/pacer/logbuf"
	"github.com/valerio/go-framepace/pacer/loop"
	"github.com/valerio/go-framepace/pacer/platform"
	"github.com/valerio/go-framepace/pacer/platform/headless"
	"github.com/valerio/go-framepace/pacer/platform/sdl2"
	"github.com/valerio/go-framepace/pacer/platform/terminal"
	"github.com/valerio/go-framepace/pacer/timeres"
)

const (
	// headless canvases use the cell size of the sdl2 platform
	cellWidth  = 8
	cellHeight = 16

	logBufferSize = 200
	sentryFlush   = 5 * time.Second
)

// setup is everything a platform needs to start a run.
type setup struct {
	source platform.Source
	canvas demo.Canvas
	config platform.Config
}

func runDemo(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	level := new(slog.LevelVar)
	level.Set(cfg.SlogLevel())

	name := c.String("platform")
	logs := logbuf.New(logBufferSize)
	logger := newLogger(name, level, logs)
	slog.SetDefault(logger)

	if dsn := c.String("sentry-dsn"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn, Release: "framepace@" + c.App.Version}); err != nil {
			logger.Warn("Sentry disabled", "error", err)
		} else {
			defer sentry.Flush(sentryFlush)
			defer sentry.Recover()
		}
	}

	if addr := c.String("statsview"); addr != "" {
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(addr))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
		logger.Info("Serving runtime charts", "addr", "http://"+addr+"/debug/statsview")
	}

	res, err := timeres.Raise()
	if err != nil {
		logger.Warn("Timer resolution unchanged, deadlines may be late", "error", err)
	}
	defer res.Release()

	s, err := newSetup(c, name, cfg, logger)
	if err != nil {
		return err
	}

	events := platform.NewEventLoop(s.source, s.config, platform.WithLogger(logger))

	options := []demo.Option{
		demo.WithLogger(logger),
		demo.WithParticles(cfg.Particles),
		demo.WithSeed(time.Now().UnixNano()),
	}
	if name == "terminal" {
		options = append(options, demo.WithLogs(logs, level))
	}
	game := demo.New(events, s.canvas, options...)

	ctl, err := loop.New(game,
		loop.WithLogger(logger),
		loop.WithUpdatePeriod(cfg.UpdatePeriod),
		loop.WithMaxTicks(cfg.MaxTicks),
		loop.WithTargetFrameRate(cfg.TargetFrameRate()),
		loop.WithCancelKey(cfg.CancelKey),
		loop.WithStatsEvery(cfg.StatsEvery),
	)
	if err != nil {
		return err
	}
	game.SetPacer(ctl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := events.Run(ctx, ctl); err != nil {
		report(err, name)
		return err
	}

	logger.Info("Run finished",
		"frame_rate", fmt.Sprintf("%.2f", ctl.FrameRate()),
		"simulation_time", ctl.SimulationTime())
	return nil
}

// loadConfig reads the config file, if any, and applies the flag overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if fps := c.Int("fps"); fps >= 0 {
		cfg.TargetFPS = uint32(fps)
	}
	if period := c.Duration("update-period"); period != 0 {
		cfg.UpdatePeriod = period
	}
	if ticks := c.Int("max-ticks"); ticks >= 0 {
		cfg.MaxTicks = ticks
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLogger writes to stderr, except in the terminal where stderr is the
// screen and records go to the overlay buffer.
func newLogger(platformName string, level *slog.LevelVar, logs *logbuf.Buffer) *slog.Logger {
	if platformName == "terminal" {
		return slog.New(logbuf.NewHandler(logs, level))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newSetup(c *cli.Context, name string, cfg config.Config, logger *slog.Logger) (setup, error) {
	frames := c.Int("frames")
	window := platform.Config{Title: cfg.Window.Title, Width: cfg.Window.Width, Height: cfg.Window.Height}

	switch name {
	case "headless":
		snapshots, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), cfg.Window.Title)
		if err != nil {
			return setup{}, err
		}
		if frames <= 0 {
			logger.Warn("Headless run without --frames, interrupt to stop")
		}
		backend := headless.New(frames, headless.WithLogger(logger), headless.WithSnapshots(snapshots))
		window.Width /= cellWidth
		window.Height /= cellHeight
		return setup{source: backend, canvas: backend.Canvas(), config: window}, nil

	case "terminal":
		backend := terminal.New(terminal.WithLogger(logger))
		return setup{source: backend, canvas: backend.Canvas(), config: window}, nil

	case "sdl2":
		backend := sdl2.New(sdl2.WithLogger(logger))
		return setup{source: backend, canvas: backend.Canvas(), config: window}, nil
	}

	return setup{}, fmt.Errorf("unknown platform %q, want headless, terminal or sdl2", name)
}

// report sends a failed run to Sentry when it is configured.
func report(err error, platformName string) {
	hub := sentry.CurrentHub().Clone()
	if hub.Client() == nil {
		return
	}

	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("platform", platformName)
		var panicErr *loop.PanicError
		if errors.As(err, &panicErr) {
			scope.SetTag("phase", panicErr.Phase.String())
			scope.SetExtra("stack", string(panicErr.Stack))
		}
	})
	hub.CaptureException(err)
	hub.Flush(sentryFlush)
}
