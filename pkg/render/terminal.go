package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// TerminalSize returns the framebuffer size that fills a terminal of the
// given cell dimensions. Each cell shows two vertically stacked pixels.
func TerminalSize(cols, rows int) (width, height int) {
	return max(cols, 1), max(rows, 1) * 2
}

// Draw paints the framebuffer onto a terminal screen.
// The framebuffer height should be 2x the terminal height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each terminal row represents 2 framebuffer rows
	// We use ▀ (upper half block) with fg=top color and bg=bottom color
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1
		if topY >= fb.Height {
			break
		}

		for col := area.Min.X; col < area.Max.X && col-area.Min.X < fb.Width; col++ {
			x := col - area.Min.X
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(x, topY)),
					Bg: cellColor(fb.GetPixel(x, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// cellColor converts a pixel to a terminal color; transparent pixels
// (outside the framebuffer) leave the terminal default.
func cellColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}
