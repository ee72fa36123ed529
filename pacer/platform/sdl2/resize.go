package sdl2

import "github.com/valerio/go-framepace/pacer/platform"

// sizeTracker drops window size reports that repeat the last known size.
// SDL drivers differ on whether they report the size at window creation,
// and restore often arrives as both RESTORED and SIZE_CHANGED.
type sizeTracker struct {
	last platform.Size
}

// update records size and reports whether it differs from the previous one.
func (t *sizeTracker) update(size platform.Size) bool {
	if size == t.last {
		return false
	}
	t.last = size
	return true
}
