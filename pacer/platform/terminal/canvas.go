package terminal

import (
	"github.com/gdamore/tcell/v2"
)

var defaultStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)

// Canvas draws characters on the tcell screen with a current style.
// Before Init it has zero size and drops every draw.
type Canvas struct {
	screen tcell.Screen
	style  tcell.Style
}

func (c *Canvas) Size() (int, int) {
	if c.screen == nil {
		return 0, 0
	}
	return c.screen.Size()
}

func (c *Canvas) Clear() {
	if c.screen != nil {
		c.screen.Clear()
	}
}

func (c *Canvas) SetCell(x, y int, ch rune) {
	if c.screen != nil {
		c.screen.SetContent(x, y, ch, nil, c.style)
	}
}

func (c *Canvas) DrawText(x, y int, text string) {
	w, h := c.Size()
	if y < 0 || y >= h {
		return
	}
	for _, ch := range text {
		if x >= w {
			return
		}
		c.screen.SetContent(x, y, ch, nil, c.style)
		x++
	}
}

// SetColor changes the foreground used by later draws.
func (c *Canvas) SetColor(color tcell.Color) {
	c.style = c.style.Foreground(color)
}

func (c *Canvas) Show() {
	if c.screen != nil {
		c.screen.Show()
	}
}
