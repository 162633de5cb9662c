package console

import (
	"fmt"

	"github.com/dshills/modloader/internal/script"
)

// Draw renders the console over the top half of the surface when it is
// open.
func (c *Console) Draw(s script.Surface) {
	if !c.toggled {
		return
	}
	_, height := s.Size()
	rows := height / 2
	if rows < 2 {
		rows = min(height, 2)
	}
	if rows == 0 {
		return
	}

	// Last row is the prompt.
	visible := rows - 1
	start := max(len(c.scrollback)-visible, 0)
	y := 0
	for _, l := range c.scrollback[start:] {
		s.DrawText(0, y, l.text, l.fg)
		y++
	}
	s.DrawText(0, rows-1, prompt+string(c.input)+"_", inputColor)
}

// DrawOptions renders the console's settings in the options window.
func (c *Console) DrawOptions(w script.Widgets) {
	if w.Checkbox("Show console", c.toggled) {
		c.Toggle()
	}
	w.SameLine()
	w.Text("(toggle with `)")
	w.Text(fmt.Sprintf("History: %d of %d commands", len(c.history), c.maxHistory))
	if w.Checkbox("Clear output", false) {
		c.scrollback = nil
	}
}
