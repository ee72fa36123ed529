// Package terminal runs the loop inside a terminal, using tcell for the
// screen, keyboard, mouse and resize events.
package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-framepace/pacer/platform"
	"github.com/valerio/go-framepace/pacer/timing"
)

// Backend implements platform.Source on a tcell screen.
type Backend struct {
	screen  tcell.Screen
	logger  *slog.Logger
	canvas  *Canvas
	alarm   *timing.Alarm
	signals chan os.Signal

	events  chan tcell.Event
	quit    chan struct{}
	pending []platform.Event
	size    platform.Size
}

var _ platform.Source = (*Backend)(nil)

type Option = func(*Backend)

// WithScreen uses screen instead of the real terminal. Tests pass a
// tcell simulation screen.
func WithScreen(screen tcell.Screen) Option {
	return func(t *Backend) {
		t.screen = screen
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(t *Backend) {
		t.logger = logger
	}
}

// New creates a new terminal backend
func New(options ...Option) *Backend {
	t := &Backend{
		logger: slog.Default(),
		canvas: &Canvas{style: defaultStyle},
	}

	for _, opt := range options {
		opt(t)
	}

	return t
}

// Init takes over the terminal. The window title is used when the terminal
// supports it; width and height are ignored, the terminal decides.
func (t *Backend) Init(config platform.Config) error {
	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %w", err)
		}
		t.screen = screen
	}

	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}

	t.screen.SetTitle(config.Title)
	t.screen.SetStyle(defaultStyle)
	t.screen.EnableMouse()
	t.screen.EnableFocus()
	t.screen.Clear()

	t.canvas.screen = t.screen
	t.alarm = timing.NewAlarm()
	t.events = make(chan tcell.Event, 64)
	t.quit = make(chan struct{})
	go t.screen.ChannelEvents(t.events, t.quit)

	// Set up signal handling for graceful shutdown
	t.signals = make(chan os.Signal, 1)
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM)

	// tcell reports the initial size on some screens only, so report it here
	// and drop the duplicate if it arrives
	w, h := t.screen.Size()
	t.size = platform.Size{Width: w, Height: h}
	t.pending = append(t.pending, platform.Resize(w, h))

	t.logger.Info("Terminal backend initialized", "size", t.size)
	return nil
}

func (t *Backend) Pending() []platform.Event {
	for {
		select {
		case ev, ok := <-t.events:
			if !ok {
				return t.take()
			}
			t.translate(ev)
		case sig := <-t.signals:
			t.interrupted(sig)
		default:
			return t.take()
		}
	}
}

func (t *Backend) take() []platform.Event {
	events := t.pending
	t.pending = nil
	return events
}

func (t *Backend) Wait(ctx context.Context, deadline time.Time) bool {
	if len(t.pending) > 0 {
		return true
	}

	t.alarm.Arm(deadline)
	defer t.alarm.Stop()

	select {
	case ev, ok := <-t.events:
		if ok {
			t.translate(ev)
		}
		return true
	case sig := <-t.signals:
		t.interrupted(sig)
		return true
	case <-t.alarm.C():
		t.alarm.Fired()
		return false
	case <-ctx.Done():
		return false
	}
}

// Close restores the terminal
func (t *Backend) Close() error {
	if t.signals != nil {
		signal.Stop(t.signals)
	}
	if t.alarm != nil {
		t.alarm.Stop()
	}
	if t.quit != nil {
		close(t.quit)
		t.quit = nil
	}
	if t.screen != nil {
		t.logger.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	return nil
}

// Canvas draws on the terminal screen once Init succeeded.
func (t *Backend) Canvas() *Canvas {
	return t.canvas
}

// Sync redraws the whole terminal, for when it was corrupted by other output.
func (t *Backend) Sync() {
	t.screen.Sync()
}

func (t *Backend) interrupted(sig os.Signal) {
	t.logger.Info("Signal received, closing", "signal", sig)
	t.pending = append(t.pending, platform.Close())
}

func (t *Backend) translate(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			t.pending = append(t.pending, platform.Close())
			return
		}
		name, ok := keyName(ev)
		if !ok {
			t.logger.Debug("Unmapped key", "key", ev.Name())
			return
		}
		// terminals only report presses
		pressed := platform.KeyPress(name)
		pressed.Time = ev.When()
		t.pending = append(t.pending, pressed)

	case *tcell.EventResize:
		w, h := ev.Size()
		size := platform.Size{Width: w, Height: h}
		if size == t.size {
			return
		}
		t.size = size
		t.screen.Sync()
		t.pending = append(t.pending, platform.Resize(w, h))

	case *tcell.EventMouse:
		x, y := ev.Position()
		t.pending = append(t.pending, platform.Event{Kind: platform.Pointer, X: x, Y: y, Pressed: ev.Buttons()&tcell.Button1 != 0})

	case *tcell.EventFocus:
		t.pending = append(t.pending, platform.Event{Kind: platform.Focus, Focused: ev.Focused})
	}
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyEnter:     "Enter",
	tcell.KeyUp:        "Up",
	tcell.KeyDown:      "Down",
	tcell.KeyLeft:      "Left",
	tcell.KeyRight:     "Right",
	tcell.KeyEscape:    "Escape",
	tcell.KeyTab:       "Tab",
	tcell.KeyBackspace: "Backspace",
	tcell.KeyF1:        "F1",
	tcell.KeyF2:        "F2",
	tcell.KeyF3:        "F3",
	tcell.KeyF4:        "F4",
	tcell.KeyF5:        "F5",
	tcell.KeyF9:        "F9",
	tcell.KeyF10:       "F10",
	tcell.KeyF11:       "F11",
	tcell.KeyF12:       "F12",
}

// keyName converts a tcell key event to a key name; runes map to themselves.
func keyName(ev *tcell.EventKey) (string, bool) {
	if ev.Key() == tcell.KeyRune {
		if ev.Rune() == ' ' {
			return "Space", true
		}
		return string(ev.Rune()), true
	}
	name, ok := tcellKeyNameMap[ev.Key()]
	return name, ok
}
