package sdl2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-framepace/pacer/platform"
)

func TestSizeTracker(t *testing.T) {
	var tracker sizeTracker

	assert.True(t, tracker.update(platform.Size{Width: 640, Height: 360}), "startup size")
	assert.False(t, tracker.update(platform.Size{Width: 640, Height: 360}), "creation report of the same size")

	assert.True(t, tracker.update(platform.Size{}), "minimize")
	assert.True(t, tracker.update(platform.Size{Width: 640, Height: 360}), "restore to the old size")
	assert.False(t, tracker.update(platform.Size{Width: 640, Height: 360}), "restore reported twice")

	assert.True(t, tracker.update(platform.Size{Width: 800, Height: 600}))
}
