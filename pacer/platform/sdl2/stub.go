//go:build !sdl2

package sdl2

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/valerio/go-framepace/pacer/platform"
)

// ErrUnavailable is returned by Init when the binary was built without SDL2.
var ErrUnavailable = errors.New("SDL2 backend not available - build with -tags sdl2 to enable")

// Backend stub for when SDL2 is not available
type Backend struct {
	logger *slog.Logger
}

var _ platform.Source = (*Backend)(nil)

type Option = func(*Backend)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Backend) {
		s.logger = logger
	}
}

// New creates a stub SDL2 backend whose Init fails
func New(options ...Option) *Backend {
	s := &Backend{logger: slog.Default()}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Init returns an error indicating SDL2 is not available
func (s *Backend) Init(config platform.Config) error {
	return ErrUnavailable
}

func (s *Backend) Pending() []platform.Event {
	return nil
}

func (s *Backend) Wait(ctx context.Context, deadline time.Time) bool {
	return false
}

// Close does nothing
func (s *Backend) Close() error {
	return nil
}

// Canvas is never shown.
func (s *Backend) Canvas() *Canvas {
	return newCanvas(0, 0)
}
