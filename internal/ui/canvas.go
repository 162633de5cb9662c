// Package ui draws script output and option panels onto a terminal backend.
package ui

import (
	"image/color"

	"github.com/dshills/modloader/internal/renderer/backend"
	"github.com/dshills/modloader/internal/renderer/core"
)

// Canvas is the full-screen surface scripts draw on.
type Canvas struct {
	b backend.Backend
}

// NewCanvas creates a canvas over b.
func NewCanvas(b backend.Backend) *Canvas {
	return &Canvas{b: b}
}

// Size returns the drawable area in cells.
func (c *Canvas) Size() (int, int) {
	return c.b.Size()
}

// DrawText draws text starting at x, y. Text outside the screen is
// clipped.
func (c *Canvas) DrawText(x, y int, text string, fg color.Color) {
	w, h := c.b.Size()
	cells := core.CellsFromString(text, core.NewStyle(core.ColorFrom(fg)))
	drawCells(c.b, x, y, cells, core.RectFromSize(0, 0, h, w))
}

// drawCells writes cells from x, y, skipping any outside clip. A wide
// cell is dropped whole when it does not fit.
func drawCells(b backend.Backend, x, y int, cells []core.Cell, clip core.ScreenRect) int {
	if y < clip.Top || y >= clip.Bottom {
		return 0
	}
	drawn := 0
	for i, cell := range cells {
		cx := x + i
		if cell.IsContinuation() {
			continue
		}
		if cx < clip.Left || cx+cell.Width > clip.Right {
			continue
		}
		b.SetCell(cx, y, cell)
		for j := 1; j < cell.Width; j++ {
			b.SetCell(cx+j, y, core.ContinuationCell(cell.Style))
		}
		drawn += cell.Width
	}
	return drawn
}
