package app

import (
	"sync"

	"github.com/dshills/modloader/internal/host"
)

// terminalHost is the host.Host of the terminal application. The screen
// state is switched from the keyboard and the cursor is the mouse pointer
// used to click the options window.
type terminalHost struct {
	mu       sync.Mutex
	screen   host.Screen
	cursor   bool
	modTypes map[host.ModType]bool
}

var _ host.Host = (*terminalHost)(nil)

func newTerminalHost() *terminalHost {
	return &terminalHost{
		screen:   host.ScreenMenu,
		modTypes: make(map[host.ModType]bool),
	}
}

func (h *terminalHost) Screen() host.Screen {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.screen
}

func (h *terminalHost) SetScreen(s host.Screen) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.screen = s
}

func (h *terminalHost) RegisterModType(t host.ModType) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.modTypes[t] = true
}

// HasModType reports whether RegisterModType was called with t.
func (h *terminalHost) HasModType(t host.ModType) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.modTypes[t]
}

func (h *terminalHost) ShowCursor() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cursor = true
}

func (h *terminalHost) HideCursor() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cursor = false
}

// CursorVisible reports whether the pointer is shown.
func (h *terminalHost) CursorVisible() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor
}
