// Package timeres raises the operating system timer resolution for the
// duration of a run, so sleep-until deadlines are met within a millisecond
// or so instead of the default scheduler tick.
package timeres

import (
	"errors"
	"log/slog"
	"time"
)

// ErrUnsupported is returned by Raise on systems without a known mechanism.
var ErrUnsupported = errors.New("timer resolution control not supported on this platform")

// Handle is a scoped timer resolution request. Release it when done.
type Handle struct {
	resolution time.Duration
	release    func() error
	released   bool
}

// Resolution is the timer granularity in effect while the handle is held.
func (h *Handle) Resolution() time.Duration {
	if h == nil {
		return 0
	}
	return h.resolution
}

// Release restores the previous resolution. It is safe to call more than
// once and on a nil handle.
func (h *Handle) Release() error {
	if h == nil || h.released {
		return nil
	}
	h.released = true
	if h.release == nil {
		return nil
	}
	return h.release()
}

// Raise requests the finest timer resolution available.
func Raise() (*Handle, error) {
	h, err := raise()
	if err != nil {
		return nil, err
	}
	slog.Debug("Timer resolution raised", "resolution", h.resolution)
	return h, nil
}
