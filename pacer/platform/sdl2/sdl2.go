//go:build sdl2

package sdl2

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/valerio/go-framepace/pacer/platform"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	cellWidth  = 8
	cellHeight = 16

	// waitSlice bounds each blocking SDL wait so ctx cancellation is noticed.
	waitSlice = 100 * time.Millisecond
)

func init() {
	// SDL video calls must stay on the thread that initialised it
	runtime.LockOSThread()
}

// Backend implements platform.Source with an SDL2 window.
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stub, see build tags (sdl2)
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	canvas   *Canvas
	logger   *slog.Logger
	pending  []platform.Event
	size     sizeTracker
}

var _ platform.Source = (*Backend)(nil)

type Option = func(*Backend)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Backend) {
		s.logger = logger
	}
}

// New creates a new SDL2 backend
func New(options ...Option) *Backend {
	s := &Backend{logger: slog.Default(), canvas: newCanvas(0, 0)}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Init initializes the SDL2 backend
func (s *Backend) Init(config platform.Config) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(config.Width),
		int32(config.Height),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %w", err)
	}
	s.window = window

	// no vsync: the loop paces presentation itself
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	s.renderer = renderer

	s.canvas.resize(config.Width/cellWidth, config.Height/cellHeight)
	s.canvas.present = s.present

	// some drivers report the initial size, others do not; report it here
	// and drop the duplicate if it arrives
	s.size.update(platform.Size{Width: config.Width, Height: config.Height})
	s.pending = append(s.pending, platform.Resize(config.Width, config.Height))

	s.logger.Info("SDL2 backend initialized", "size", platform.Size{Width: config.Width, Height: config.Height})
	return nil
}

func (s *Backend) Pending() []platform.Event {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		s.handleEvent(event)
	}
	events := s.pending
	s.pending = nil
	return events
}

func (s *Backend) Wait(ctx context.Context, deadline time.Time) bool {
	if len(s.pending) > 0 {
		return true
	}

	for ctx.Err() == nil {
		timeout := waitSlice
		if !deadline.IsZero() {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return false
			}
			if remaining < time.Millisecond {
				// SDL waits in whole milliseconds
				time.Sleep(remaining)
				return false
			}
			if remaining < timeout {
				timeout = remaining
			}
		}

		if event := sdl.WaitEventTimeout(int(timeout / time.Millisecond)); event != nil {
			s.handleEvent(event)
			return true
		}
	}
	return false
}

// Close cleans up SDL2 resources
func (s *Backend) Close() error {
	s.logger.Info("Cleaning up SDL2 backend")

	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()

	return nil
}

func (s *Backend) Canvas() *Canvas {
	return s.canvas
}

func (s *Backend) handleEvent(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		s.pending = append(s.pending, platform.Close())

	case *sdl.WindowEvent:
		s.handleWindowEvent(e)

	case *sdl.KeyboardEvent:
		// Ignore key repeat events
		if e.Repeat != 0 {
			return
		}
		name, ok := keyName(e.Keysym.Sym)
		if !ok {
			return
		}
		if e.Type == sdl.KEYDOWN {
			s.pending = append(s.pending, platform.KeyPress(name))
		} else {
			s.pending = append(s.pending, platform.KeyRelease(name))
		}

	case *sdl.MouseMotionEvent:
		s.pending = append(s.pending, platform.Event{Kind: platform.Pointer, X: int(e.X), Y: int(e.Y)})

	case *sdl.MouseButtonEvent:
		s.pending = append(s.pending, platform.Event{
			Kind:    platform.Pointer,
			X:       int(e.X),
			Y:       int(e.Y),
			Pressed: e.State == sdl.PRESSED,
		})
	}
}

func (s *Backend) handleWindowEvent(e *sdl.WindowEvent) {
	switch e.Event {
	case sdl.WINDOWEVENT_SIZE_CHANGED:
		s.resized(int(e.Data1), int(e.Data2))
	case sdl.WINDOWEVENT_MINIMIZED:
		if s.size.update(platform.Size{}) {
			s.pending = append(s.pending, platform.Resize(0, 0))
		}
	case sdl.WINDOWEVENT_RESTORED, sdl.WINDOWEVENT_MAXIMIZED:
		w, h := s.window.GetSize()
		s.resized(int(w), int(h))
	case sdl.WINDOWEVENT_FOCUS_GAINED:
		s.pending = append(s.pending, platform.Event{Kind: platform.Focus, Focused: true})
	case sdl.WINDOWEVENT_FOCUS_LOST:
		s.pending = append(s.pending, platform.Event{Kind: platform.Focus, Focused: false})
	}
}

func (s *Backend) resized(w, h int) {
	if !s.size.update(platform.Size{Width: w, Height: h}) {
		return
	}
	s.canvas.resize(w/cellWidth, h/cellHeight)
	s.pending = append(s.pending, platform.Resize(w, h))
}

func (s *Backend) present(c *Canvas) {
	s.renderer.SetDrawColor(0, 0, 0, 255)
	s.renderer.Clear()

	c.occupied(func(x, y int, ch rune) {
		r, g, b := cellColor(ch)
		s.renderer.SetDrawColor(r, g, b, 255)
		s.renderer.FillRect(&sdl.Rect{
			X: int32(x * cellWidth),
			Y: int32(y * cellHeight),
			W: cellWidth - 1,
			H: cellHeight - 1,
		})
	})

	s.renderer.Present()
}

// cellColor picks a stable color per glyph so different glyphs stay apart.
func cellColor(ch rune) (uint8, uint8, uint8) {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		return 200, 200, 200
	case ch == '*' || ch == '.':
		return 255, 200, 60
	default:
		return 90, 160, 255
	}
}

// sdlKeyNameMap converts SDL key names to the names used in default mappings
var sdlKeyNameMap = map[string]string{
	"Return":    "Enter",
	"Escape":    "Escape",
	"Space":     "Space",
	"Up":        "Up",
	"Down":      "Down",
	"Left":      "Left",
	"Right":     "Right",
	"Tab":       "Tab",
	"Backspace": "Backspace",
	"Keypad +":  "+",
	"Keypad -":  "-",
}

func keyName(sym sdl.Keycode) (string, bool) {
	name := sdl.GetKeyName(sym)
	if mapped, ok := sdlKeyNameMap[name]; ok {
		return mapped, true
	}
	if strings.HasPrefix(name, "F") && len(name) <= 3 && len(name) > 1 {
		return name, true
	}
	if len([]rune(name)) == 1 {
		return strings.ToLower(name), true
	}
	return "", false
}
