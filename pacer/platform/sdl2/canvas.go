package sdl2

// Canvas is a character grid presented as colored blocks, one block per
// cell. SDL2 has no text rendering without extra libraries, so glyphs only
// show up as occupied cells.
type Canvas struct {
	cols  int
	rows  int
	cells []rune

	present func(c *Canvas)
}

func newCanvas(cols, rows int) *Canvas {
	c := &Canvas{}
	c.resize(cols, rows)
	return c
}

func (c *Canvas) resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	c.cols = cols
	c.rows = rows
	c.cells = make([]rune, cols*rows)
	c.Clear()
}

// Size is measured in cells.
func (c *Canvas) Size() (int, int) {
	return c.cols, c.rows
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = ' '
	}
}

func (c *Canvas) SetCell(x, y int, ch rune) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return
	}
	c.cells[y*c.cols+x] = ch
}

func (c *Canvas) DrawText(x, y int, text string) {
	for _, ch := range text {
		c.SetCell(x, y, ch)
		x++
	}
}

func (c *Canvas) Show() {
	if c.present != nil {
		c.present(c)
	}
}

// occupied calls fn for every non-blank cell.
func (c *Canvas) occupied(fn func(x, y int, ch rune)) {
	for i, ch := range c.cells {
		if ch != ' ' && ch != 0 {
			fn(i%c.cols, i/c.cols, ch)
		}
	}
}
