package demo

import (
	"fmt"
	"log/slog"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/valerio/go-framepace/pacer/logbuf"
)

// fastSpeed separates the two particle glyphs.
const fastSpeed = 15

func (d *Demo) drawParticles(alpha float32) {
	d.system.Each(alpha, func(pos, vel mgl32.Vec2) {
		glyph := '.'
		if vel.Len() > fastSpeed {
			glyph = '*'
		}
		d.canvas.SetCell(int(math32.Round(pos.X())), int(math32.Round(pos.Y())), glyph)
	})
}

func (d *Demo) drawHUD() {
	width, height := d.canvas.Size()
	if width <= 0 || height <= 0 {
		return
	}

	s := d.lastStats
	lines := []string{
		s.String(),
		fmt.Sprintf("target %s | sim %s | alpha %.2f | late %d | particles %d",
			d.targetLabel(), d.simTime.Truncate(1e6), s.Alpha, s.LateFrames, d.system.Len()),
	}
	if d.paused {
		lines = append(lines, "paused")
	}

	for y, line := range lines {
		if y >= height {
			return
		}
		d.canvas.DrawText(0, y, clip(line, width))
	}

	d.drawLogs(width, height, len(lines))
}

func (d *Demo) drawLogs(width, height, top int) {
	if d.logs == nil {
		return
	}

	available := height - top - 1
	if available <= 0 {
		return
	}
	available = min(available, 5)

	level := slog.LevelInfo
	if d.logLevel != nil {
		level = d.logLevel.Level()
	}

	// newest at the bottom
	entries := d.logs.Recent(available, level)
	for i, entry := range entries {
		d.canvas.DrawText(0, height-1-i, clip(logbuf.Format(entry), width))
	}
}

func (d *Demo) targetLabel() string {
	if d.pacer == nil {
		return "-"
	}
	return d.pacer.TargetFrameRate().String()
}

func clip(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width > 3 {
		return string(runes[:width-3]) + "..."
	}
	return string(runes[:width])
}
