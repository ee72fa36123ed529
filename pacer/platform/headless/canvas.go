package headless

import (
	"strings"
)

// Canvas is an in-memory character grid. Rows are stored as runes so the
// snapshot text keeps its shape even with multi-byte glyphs.
type Canvas struct {
	width  int
	height int
	cells  []rune
	frames int

	onShow func()
}

func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Resize reallocates the grid and clears it.
func (c *Canvas) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c.width = width
	c.height = height
	c.cells = make([]rune, width*height)
	c.Clear()
}

func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = ' '
	}
}

// SetCell writes ch at (x, y). Out of bounds writes are dropped.
func (c *Canvas) SetCell(x, y int, ch rune) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.cells[y*c.width+x] = ch
}

func (c *Canvas) Cell(x, y int) rune {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return 0
	}
	return c.cells[y*c.width+x]
}

// DrawText writes text left to right from (x, y), clipped to the row.
func (c *Canvas) DrawText(x, y int, text string) {
	for _, ch := range text {
		c.SetCell(x, y, ch)
		x++
	}
}

// Show presents the current grid. For the headless backend that only
// counts the frame and lets the backend take snapshots.
func (c *Canvas) Show() {
	c.frames++
	if c.onShow != nil {
		c.onShow()
	}
}

// Frames is the number of Show calls so far.
func (c *Canvas) Frames() int {
	return c.frames
}

// String renders the grid as newline separated rows, trailing spaces trimmed.
func (c *Canvas) String() string {
	var sb strings.Builder
	for y := 0; y < c.height; y++ {
		row := c.cells[y*c.width : (y+1)*c.width]
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}
