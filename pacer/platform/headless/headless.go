// Package headless is a platform without a screen, for automated runs,
// benchmarks and tests. Frames are drawn on an in-memory Canvas and can be
// written to disk as text snapshots.
package headless

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/valerio/go-framepace/pacer/platform"
	"github.com/valerio/go-framepace/pacer/timing"
)

// Backend implements platform.Source for automated testing and batch runs.
type Backend struct {
	config    platform.Config
	clock     timing.Clock
	alarm     *timing.Alarm
	logger    *slog.Logger
	maxFrames int
	snapshots SnapshotConfig

	canvas   *Canvas
	pending  []platform.Event
	quitSent bool
}

var _ platform.Source = (*Backend)(nil)

// SnapshotConfig holds configuration for frame snapshots
type SnapshotConfig struct {
	Enabled   bool
	Interval  int    // Save snapshot every N frames
	Directory string // Directory to save snapshots
}

type Option = func(*Backend)

// WithClock makes Wait jump a manual clock to the deadline instead of sleeping.
func WithClock(clock timing.Clock) Option {
	return func(h *Backend) {
		h.clock = clock
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(h *Backend) {
		h.logger = logger
	}
}

// WithSnapshots writes the canvas to dir every interval frames.
// A non-positive interval disables snapshots.
func WithSnapshots(config SnapshotConfig) Option {
	return func(h *Backend) {
		config.Enabled = config.Enabled && config.Interval > 0
		h.snapshots = config
	}
}

// New creates a headless backend that requests close after maxFrames
// presented frames. 0 runs until something else stops the loop.
func New(maxFrames int, options ...Option) *Backend {
	h := &Backend{
		maxFrames: maxFrames,
		clock:     timing.SystemClock{},
		logger:    slog.Default(),
		canvas:    NewCanvas(0, 0),
	}
	h.canvas.onShow = h.frameDone

	for _, opt := range options {
		opt(h)
	}

	return h
}

func (h *Backend) Init(config platform.Config) error {
	if config.Width < 0 || config.Height < 0 {
		return fmt.Errorf("invalid headless size %dx%d", config.Width, config.Height)
	}

	h.config = config
	h.alarm = timing.NewAlarm()
	h.canvas.Resize(config.Width, config.Height)
	h.quitSent = false

	// a window system reports the initial size right after creation
	h.pending = append(h.pending, platform.Resize(config.Width, config.Height))

	h.logger.Info("Running headless mode",
		"frames", h.maxFrames,
		"size", platform.Size{Width: config.Width, Height: config.Height},
		"snapshot_interval", h.snapshots.Interval,
		"snapshot_dir", h.snapshots.Directory)

	return nil
}

// Inject queues events for the next iteration, as if the user produced them.
func (h *Backend) Inject(events ...platform.Event) {
	for _, ev := range events {
		if ev.Kind == platform.Resized && !ev.Size.Empty() {
			h.canvas.Resize(ev.Size.Width, ev.Size.Height)
		}
		h.pending = append(h.pending, ev)
	}
}

func (h *Backend) Pending() []platform.Event {
	events := h.pending
	h.pending = nil
	return events
}

func (h *Backend) Wait(ctx context.Context, deadline time.Time) bool {
	if len(h.pending) > 0 {
		return true
	}

	if _, system := h.clock.(timing.SystemClock); !system {
		// manual clocks jump to the deadline
		if !deadline.IsZero() {
			h.clock.SleepUntil(deadline)
		}
		return false
	}

	if deadline.IsZero() {
		// no input can arrive without a screen
		h.logger.Debug("Headless wait without deadline, resuming")
		return false
	}

	h.alarm.Arm(deadline)
	defer h.alarm.Stop()

	select {
	case <-ctx.Done():
	case <-h.alarm.C():
		h.alarm.Fired()
	}
	return false
}

func (h *Backend) Close() error {
	if h.alarm != nil {
		h.alarm.Stop()
	}
	return nil
}

// Canvas is the drawing surface for this backend. It is sized by Init.
func (h *Backend) Canvas() *Canvas {
	return h.canvas
}

// FrameCount is the number of presented frames.
func (h *Backend) FrameCount() int {
	return h.canvas.Frames()
}

func (h *Backend) frameDone() {
	frameCount := h.canvas.Frames()

	due := h.snapshotDue(frameCount)
	if due {
		h.saveSnapshot(frameCount)
	}

	if frameCount%100 == 0 {
		h.logger.Info("Frame progress", "completed", frameCount, "total", h.maxFrames)
	}

	if h.maxFrames <= 0 || h.quitSent || frameCount < h.maxFrames {
		return
	}

	// the last frame is always kept
	if h.snapshots.Enabled && !due {
		h.saveSnapshot(frameCount)
	}

	h.logger.Info("Headless execution completed", "frames", frameCount, "snapshot_dir", h.snapshots.Directory)
	h.quitSent = true
	h.pending = append(h.pending, platform.Close())
}

func (h *Backend) snapshotDue(frameCount int) bool {
	return h.snapshots.Enabled && h.snapshots.Interval > 0 && frameCount%h.snapshots.Interval == 0
}

// CreateSnapshotConfig prepares the snapshot directory for a run. An empty
// directory means a fresh temporary one named after the window title.
func CreateSnapshotConfig(interval int, directory, title string) (SnapshotConfig, error) {
	if interval <= 0 {
		return SnapshotConfig{}, nil
	}

	config := SnapshotConfig{Enabled: true, Interval: interval, Directory: directory}

	var err error
	if directory == "" {
		config.Directory, err = os.MkdirTemp("", snapshotPrefix(title)+"-frames-*")
	} else {
		err = os.MkdirAll(directory, 0755)
	}
	if err != nil {
		return SnapshotConfig{}, fmt.Errorf("snapshot directory: %w", err)
	}

	return config, nil
}

// snapshotPrefix turns a window title into a file name prefix.
func snapshotPrefix(title string) string {
	prefix := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return unicode.ToLower(r)
		case r == '-' || r == '_':
			return r
		case unicode.IsSpace(r):
			return '-'
		}
		return -1
	}, strings.TrimSpace(title))

	if prefix == "" {
		return "framepace"
	}
	return prefix
}

func (h *Backend) saveSnapshot(frameCount int) {
	path := filepath.Join(h.snapshots.Directory, fmt.Sprintf("frame_%06d.txt", frameCount))

	if err := os.WriteFile(path, []byte(h.canvas.String()), 0644); err != nil {
		h.logger.Error("Failed to save snapshot", "frame", frameCount, "error", err)
		return
	}
	h.logger.Debug("Snapshot saved", "path", path)
}
