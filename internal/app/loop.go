package app

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/modloader/internal/host"
	"github.com/dshills/modloader/internal/logging"
	"github.com/dshills/modloader/internal/renderer/backend"
	"github.com/dshills/modloader/internal/renderer/core"
)

// panelWidth is the options window width in cells.
const panelWidth = 48

var (
	statusStyle = core.NewStyle(core.ColorBlack).WithBackground(core.ColorFromRGB(120, 160, 220))
	logStyles   = map[zapcore.Level]core.Style{
		zapcore.DebugLevel: core.NewStyle(core.ColorGray),
		zapcore.InfoLevel:  core.NewStyle(core.ColorWhite),
		zapcore.WarnLevel:  core.NewStyle(core.ColorYellow),
		zapcore.ErrorLevel: core.NewStyle(core.ColorRed),
	}
)

// Run drives the frame loop until Shutdown is called or the user quits.
// Components are released when Run returns.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)
	defer app.close()

	app.mu.Lock()
	b := app.backend
	app.mu.Unlock()

	var events <-chan backend.Event
	if b != nil {
		if err := b.Init(); err != nil {
			return &InitError{Component: "backend", Err: err}
		}
		defer b.Shutdown()
		defer app.Shutdown()
		events = app.pollEvents(b)
	}

	err := app.eventLoop(events)
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}

// pollEvents reads backend events on their own goroutine so the loop can
// keep its frame rate.
func (app *Application) pollEvents(b backend.Backend) <-chan backend.Event {
	ch := make(chan backend.Event, 64)
	go func() {
		defer close(ch)
		for {
			ev := b.PollEvent()
			select {
			case <-app.done:
				return
			default:
			}
			if ev.Type == backend.EventInterrupt {
				continue
			}
			select {
			case ch <- ev:
			case <-app.done:
				return
			}
		}
	}()
	return ch
}

func (app *Application) eventLoop(events <-chan backend.Event) error {
	ticker := time.NewTicker(app.frameTime())
	defer ticker.Stop()

	for {
		select {
		case <-app.done:
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := app.handleEvent(ev); err != nil {
				return err
			}

		case <-ticker.C:
			app.frame()
		}
	}
}

// frame runs one tick: reload if files changed, update and draw.
func (app *Application) frame() {
	if app.watcher != nil && app.watcher.Pending() {
		app.refresh()
	}
	app.manager.Update()
	app.render()
}

func (app *Application) refresh() {
	if err := app.manager.Refresh(); err != nil {
		app.logger.Warn("refresh failed", zap.Error(err))
		return
	}
	app.logger.Info("scripts reloaded")
}

func (app *Application) render() {
	if app.backend == nil {
		return
	}
	b := app.backend
	b.Clear()

	app.manager.Draw(app.canvas)

	w, h := b.Size()
	if app.manager.NeedsWindow() {
		width := min(panelWidth, w)
		app.panel.Begin(core.RectFromSize(0, w-width, max(h-1, 0), width))
		app.manager.WindowDraw(app.panel)
		app.panel.End()
	} else {
		// Lets the manager hide the cursor when the window closes.
		app.manager.WindowDraw(app.panel)
	}

	if app.showLog {
		app.drawLog(w, h)
	}
	app.drawStatus(w, h)

	if app.host.CursorVisible() {
		b.ShowCursor(app.pointerX, app.pointerY)
	} else {
		b.HideCursor()
	}
	b.Show()
}

func (app *Application) drawStatus(w, h int) {
	if h == 0 {
		return
	}
	b := app.backend
	y := h - 1
	b.Fill(core.RectFromSize(y, 0, 1, w), core.Cell{Text: " ", Width: 1, Style: statusStyle})

	enabled := 0
	mods := app.manager.Mods()
	for _, m := range mods {
		if m.ScriptEnabled {
			enabled++
		}
	}
	text := fmt.Sprintf(" %s | %d/%d scripts | 1-3 screen  F1 log  F4 options  F5 reload  ` console  q quit",
		app.host.Screen(), enabled, len(mods))
	for i, c := range core.CellsFromString(text, statusStyle) {
		if i >= w {
			break
		}
		b.SetCell(i, y, c)
	}
}

// drawLog shows the most recent log entries above the status line.
func (app *Application) drawLog(w, h int) {
	entries := app.ring.Entries()
	rows := min(len(entries), h/3)
	y := h - 1 - rows
	for _, e := range entries[len(entries)-rows:] {
		app.canvasLine(y, formatEntry(e), logStyles[e.Level], w)
		y++
	}
}

func (app *Application) canvasLine(y int, text string, style core.Style, w int) {
	if style == (core.Style{}) {
		style = core.DefaultStyle()
	}
	app.backend.Fill(core.RectFromSize(y, 0, 1, w), core.EmptyCell())
	for i, c := range core.CellsFromString(text, style) {
		if i >= w {
			break
		}
		app.backend.SetCell(i, y, c)
	}
}

func formatEntry(e logging.Entry) string {
	if e.Tag != "" {
		return fmt.Sprintf("%s %-5s [%s] %s", e.Time.Format("15:04:05"), e.Level.CapitalString(), e.Tag, e.Message)
	}
	return fmt.Sprintf("%s %-5s %s", e.Time.Format("15:04:05"), e.Level.CapitalString(), e.Message)
}

// screenForRune maps the number keys to host screens.
func screenForRune(r rune) (host.Screen, bool) {
	switch r {
	case '1':
		return host.ScreenMenu, true
	case '2':
		return host.ScreenGame, true
	case '3':
		return host.ScreenOnline, true
	default:
		return 0, false
	}
}
