package app

import (
	"github.com/dshills/modloader/internal/renderer/backend"
)

// handleEvent routes a backend event. It returns ErrQuit when the user
// asks to exit.
func (app *Application) handleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		return app.handleKey(ev)
	case backend.EventMouse:
		app.handleMouse(ev)
	case backend.EventResize:
		app.render()
	}
	return nil
}

func (app *Application) handleKey(ev backend.Event) error {
	if ev.Key == backend.KeyCtrlC {
		return ErrQuit
	}
	if app.manager.IsConsoleToggled() && app.console != nil {
		app.handleConsoleKey(ev)
		return nil
	}

	switch ev.Key {
	case backend.KeyRune:
		return app.handleRune(ev.Rune)
	case backend.KeyF1:
		app.showLog = !app.showLog
	case backend.KeyF4:
		app.manager.SetForceShowOptions(!app.manager.ForceShowOptions())
	case backend.KeyF5:
		app.refresh()
	case backend.KeyTab, backend.KeyDown:
		app.panel.FocusNext()
	case backend.KeyBacktab, backend.KeyUp:
		app.panel.FocusPrev()
	case backend.KeyEnter:
		app.panel.Activate()
	case backend.KeyEscape:
		app.manager.SetForceShowOptions(false)
	}
	return nil
}

func (app *Application) handleRune(r rune) error {
	if s, ok := screenForRune(r); ok {
		app.host.SetScreen(s)
		return nil
	}
	switch r {
	case 'q':
		return ErrQuit
	case '`':
		app.manager.ToggleConsole()
	case ' ':
		app.panel.Activate()
	}
	return nil
}

// handleConsoleKey edits the console prompt.
func (app *Application) handleConsoleKey(ev backend.Event) {
	c := app.console
	switch ev.Key {
	case backend.KeyRune:
		if ev.Rune == '`' {
			app.manager.ToggleConsole()
			return
		}
		c.Type(ev.Rune)
	case backend.KeyBackspace:
		c.Backspace()
	case backend.KeyEnter:
		c.Submit()
	case backend.KeyUp:
		c.HistoryPrev()
	case backend.KeyDown:
		c.HistoryNext()
	case backend.KeyEscape:
		app.manager.ToggleConsole()
	}
}

func (app *Application) handleMouse(ev backend.Event) {
	app.pointerX, app.pointerY = ev.MouseX, ev.MouseY

	// Motion with the button held reports it again.
	pressed := ev.MouseButton == backend.MouseLeft && !app.mouseDown
	app.mouseDown = ev.MouseButton == backend.MouseLeft

	if !app.host.CursorVisible() || !app.panel.Contains(ev.MouseX, ev.MouseY) {
		return
	}
	switch ev.MouseButton {
	case backend.MouseLeft:
		if pressed {
			app.panel.Click(ev.MouseX, ev.MouseY)
		}
	case backend.MouseWheelUp:
		app.panel.Scroll(-1)
	case backend.MouseWheelDown:
		app.panel.Scroll(1)
	}
}
