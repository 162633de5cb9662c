package mod

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	disabledNotice = "Script mods are currently unavailable in this build. " +
		"Other mods still load normally."

	unsafeWarning = "Warning: This mod uses unsafe commands, it could delete your files " +
		"and download viruses. It probably doesn't, but it could. " +
		"Only enable this mod if you trust the author."
)

var warningColor = colorful.Color{R: 1}

// WindowDraw draws the options window: the console panel and one section
// per live mod. It also shows the cursor while the window is visible.
func (m *Manager) WindowDraw(w Widgets) {
	if m.empty() {
		return
	}

	if !m.optionsVisible() {
		if m.cursorShown {
			m.host.HideCursor()
			m.cursorShown = false
		}
		return
	}
	if !m.cursorShown {
		m.host.ShowCursor()
		m.cursorShown = true
	}

	if m.scriptModsDisabled {
		w.Separator()
		w.TextWrapped(disabledNotice)
	}

	if m.console != nil {
		w.Separator()
		w.Text("Dev-Console")
		m.console.DrawOptions(w)
	}

	for _, rec := range m.records {
		if !rec.enabled || rec.handle == nil {
			continue
		}
		m.guard(rec, func() { m.drawModOptions(w, rec) })
	}
}

func (m *Manager) drawModOptions(w Widgets, rec *Record) {
	s := rec.handle.Script()
	meta := s.Meta()

	name := meta.Name
	if name == "" {
		name = rec.name
	}

	w.Separator()
	if w.Checkbox(name, rec.scriptEnabled) {
		m.SetScriptEnabled(rec.name, !rec.scriptEnabled)
	}
	if meta.Version != "" {
		w.SameLine()
		w.Text("|")
		w.SameLine()
		w.Text(fmt.Sprintf("Version %s", meta.Version))
	}
	w.TextRight("by " + meta.Author)

	if rec.unsafe && !rec.scriptEnabled {
		w.TextColored(warningColor, unsafeWarning)
	}
	if meta.Description != "" {
		w.TextWrapped(meta.Description)
	}
	if rec.scriptEnabled {
		s.DrawOptions(w)
	}
}
