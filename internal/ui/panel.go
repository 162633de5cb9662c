package ui

import (
	"image/color"

	"github.com/dshills/modloader/internal/renderer/backend"
	"github.com/dshills/modloader/internal/renderer/core"
)

// Panel styles.
var (
	panelStyle   = core.NewStyle(core.ColorWhite).WithBackground(core.ColorFromRGB(24, 24, 32))
	titleStyle   = panelStyle.WithAttributes(core.AttrBold)
	ruleStyle    = core.NewStyle(core.ColorGray).WithBackground(panelStyle.Background)
	focusedStyle = panelStyle.WithAttributes(core.AttrReverse)
)

type point struct{ x, y int }

// Panel is an immediate-mode widget panel. Each frame starts with Begin,
// issues widget calls top to bottom and ends with End. Input delivered
// between frames is applied to the widgets of the next frame.
type Panel struct {
	b     backend.Backend
	title string

	// Frame layout.
	rect     core.ScreenRect
	content  core.ScreenRect
	y        int // row of the next widget
	lastX    int // end of the last widget on its row
	lastY    int
	sameLine bool
	rows     int

	scroll int

	// Input.
	clicks     []point
	focus      int
	activate   bool
	checkboxes int
	prevBoxes  int
}

// NewPanel creates a panel drawing to b.
func NewPanel(b backend.Backend, title string) *Panel {
	return &Panel{b: b, title: title, focus: -1}
}

// Begin starts a frame inside rect.
func (p *Panel) Begin(rect core.ScreenRect) {
	p.rect = rect
	p.b.Fill(rect, core.Cell{Text: " ", Width: 1, Style: panelStyle})
	drawCells(p.b, rect.Left+1, rect.Top, core.CellsFromString(p.title, titleStyle), rect)

	p.content = core.ScreenRect{Top: rect.Top + 1, Left: rect.Left + 1, Bottom: rect.Bottom, Right: rect.Right - 1}
	p.y = p.content.Top - p.scroll
	p.lastX, p.lastY = p.content.Left, p.y
	p.sameLine = false
	p.rows = 0
	p.checkboxes = 0
}

// End finishes the frame and drops input that no widget used.
func (p *Panel) End() {
	p.clicks = p.clicks[:0]
	p.activate = false
	p.prevBoxes = p.checkboxes

	overflow := p.rows - p.content.Height()
	p.scroll = max(min(p.scroll, overflow), 0)
}

// Click records a mouse click at screen coordinates.
func (p *Panel) Click(x, y int) {
	p.clicks = append(p.clicks, point{x, y})
}

// Contains reports whether x, y lies inside the panel drawn last frame.
func (p *Panel) Contains(x, y int) bool {
	return p.rect.Contains(x, y)
}

// FocusNext moves keyboard focus to the next checkbox.
func (p *Panel) FocusNext() {
	if p.prevBoxes == 0 {
		p.focus = -1
		return
	}
	p.focus = (p.focus + 1) % p.prevBoxes
}

// FocusPrev moves keyboard focus to the previous checkbox.
func (p *Panel) FocusPrev() {
	if p.prevBoxes == 0 {
		p.focus = -1
		return
	}
	if p.focus <= 0 {
		p.focus = p.prevBoxes
	}
	p.focus--
}

// Activate toggles the focused checkbox on the next frame.
func (p *Panel) Activate() {
	p.activate = true
}

// Scroll moves the content by n rows.
func (p *Panel) Scroll(n int) {
	p.scroll = max(p.scroll+n, 0)
}

// place returns the position for a widget of the given width and
// advances the layout.
func (p *Panel) place(width int) (int, int) {
	x, y := p.content.Left, p.y
	if p.sameLine {
		x, y = p.lastX+1, p.lastY
		p.sameLine = false
	}
	p.lastX, p.lastY = x+width, y
	if y >= p.y {
		p.y = y + 1
		p.rows++
	}
	return x, y
}

func (p *Panel) draw(x, y int, text string, style core.Style) {
	drawCells(p.b, x, y, core.CellsFromString(text, style), p.content)
}

// Text draws a line of text.
func (p *Panel) Text(text string) {
	x, y := p.place(core.StringWidth(text))
	p.draw(x, y, text, panelStyle)
}

// TextColored draws a line of text in fg. The text wraps.
func (p *Panel) TextColored(fg color.Color, text string) {
	style := panelStyle
	if c := core.ColorFrom(fg); !c.IsDefault() {
		style.Foreground = c
	}
	p.wrapped(text, style)
}

// TextWrapped draws text wrapped to the panel width.
func (p *Panel) TextWrapped(text string) {
	p.wrapped(text, panelStyle)
}

func (p *Panel) wrapped(text string, style core.Style) {
	p.sameLine = false
	for _, line := range wrap(text, p.content.Width()) {
		x, y := p.place(core.StringWidth(line))
		p.draw(x, y, line, style)
	}
}

// TextRight draws text right-aligned on the current line, or on a new
// line when it would overlap.
func (p *Panel) TextRight(text string) {
	w := core.StringWidth(text)
	x := p.content.Right - w
	y := p.lastY
	if x <= p.lastX || p.rows == 0 {
		_, y = p.place(w)
		x = max(p.content.Right-w, p.content.Left)
	}
	p.sameLine = false
	p.lastX = x + w
	p.draw(x, y, text, panelStyle)
}

// Separator draws a horizontal rule.
func (p *Panel) Separator() {
	p.sameLine = false
	_, y := p.place(p.content.Width())
	for x := p.content.Left; x < p.content.Right; x++ {
		p.draw(x, y, "─", ruleStyle)
	}
}

// SameLine places the next widget on the current line.
func (p *Panel) SameLine() {
	p.sameLine = true
}

// Checkbox draws a checkbox and reports whether it was clicked or
// activated with the keyboard.
func (p *Panel) Checkbox(label string, checked bool) bool {
	mark := "[ ] "
	if checked {
		mark = "[x] "
	}
	text := mark + label
	w := core.StringWidth(text)
	x, y := p.place(w)

	index := p.checkboxes
	p.checkboxes++

	style := panelStyle
	focused := index == p.focus
	if focused {
		style = focusedStyle
	}
	p.draw(x, y, text, style)

	if focused && p.activate {
		p.activate = false
		return true
	}
	if y < p.content.Top || y >= p.content.Bottom {
		return false
	}
	for i, c := range p.clicks {
		if c.y == y && c.x >= x && c.x < x+w {
			p.clicks = append(p.clicks[:i], p.clicks[i+1:]...)
			p.focus = index
			return true
		}
	}
	return false
}
