// Package backend provides the terminal abstraction the host draws through.
package backend

import (
	"strings"
	"sync"

	"github.com/dshills/modloader/internal/renderer/core"
)

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventInterrupt
)

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune
	Mod  ModMask

	// Mouse event fields
	MouseX, MouseY int
	MouseButton    MouseButton

	// Resize event fields
	Width, Height int

	// Interrupt payload
	Data any
}

// Key represents a keyboard key.
type Key int

// Key constants for special keys.
const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyCtrlC
	KeyCtrlL
)

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// MouseButton represents mouse button state.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// Backend defines the interface for terminal backends.
type Backend interface {
	// Init initializes the backend for use.
	// Must be called before any other methods.
	Init() error

	// Shutdown releases backend resources and restores terminal state.
	Shutdown()

	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// SetCell sets a single cell at the given position.
	// Positions outside the terminal are silently ignored.
	SetCell(x, y int, cell core.Cell)

	// Fill fills a rectangular region with the given cell.
	Fill(rect core.ScreenRect, cell core.Cell)

	// Clear clears the entire screen with the default style.
	Clear()

	// Show flushes pending changes to the display.
	Show()

	// ShowCursor positions and displays the cursor.
	ShowCursor(x, y int)

	// HideCursor hides the cursor.
	HideCursor()

	// PollEvent waits for and returns the next terminal event.
	PollEvent() Event

	// Interrupt wakes PollEvent with an EventInterrupt carrying data.
	Interrupt(data any)
}

// Memory is an in-memory backend for tests and headless runs.
type Memory struct {
	mu            sync.Mutex
	width, height int
	cells         [][]core.Cell
	cursorX       int
	cursorY       int
	cursorVisible bool
	shows         int
	events        chan Event
}

// NewMemory creates a memory backend with the given dimensions.
func NewMemory(width, height int) *Memory {
	b := &Memory{
		width:  width,
		height: height,
		events: make(chan Event, 100),
	}
	b.cells = blankCells(width, height)
	return b
}

func blankCells(width, height int) [][]core.Cell {
	cells := make([][]core.Cell, height)
	for i := range cells {
		cells[i] = make([]core.Cell, width)
		for j := range cells[i] {
			cells[i][j] = core.EmptyCell()
		}
	}
	return cells
}

func (b *Memory) Init() error { return nil }
func (b *Memory) Shutdown()   {}

func (b *Memory) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *Memory) SetCell(x, y int, cell core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		b.cells[y][x] = cell
	}
}

// Cell returns the cell at the given position.
// Returns an empty cell for positions outside the screen.
func (b *Memory) Cell(x, y int) core.Cell {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x >= 0 && x < b.width && y >= 0 && y < b.height {
		return b.cells[y][x]
	}
	return core.EmptyCell()
}

// Row returns the text of row y with trailing spaces trimmed.
func (b *Memory) Row(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y < 0 || y >= b.height {
		return ""
	}
	return strings.TrimRight(core.StringFromCells(b.cells[y]), " ")
}

func (b *Memory) Fill(rect core.ScreenRect, cell core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	rect = rect.Intersection(core.RectFromSize(0, 0, b.height, b.width))
	for y := rect.Top; y < rect.Bottom; y++ {
		for x := rect.Left; x < rect.Right; x++ {
			b.cells[y][x] = cell
		}
	}
}

func (b *Memory) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cells = blankCells(b.width, b.height)
}

func (b *Memory) Show() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shows++
}

// Shows returns how many times Show was called.
func (b *Memory) Shows() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shows
}

func (b *Memory) ShowCursor(x, y int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorX, b.cursorY = x, y
	b.cursorVisible = true
}

func (b *Memory) HideCursor() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorVisible = false
}

// CursorPosition returns the current cursor position for testing.
func (b *Memory) CursorPosition() (x, y int, visible bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursorX, b.cursorY, b.cursorVisible
}

func (b *Memory) PollEvent() Event {
	return <-b.events
}

// Post queues an event for PollEvent. The event is dropped when the queue
// is full.
func (b *Memory) Post(event Event) {
	select {
	case b.events <- event:
	default:
	}
}

func (b *Memory) Interrupt(data any) {
	b.Post(Event{Type: EventInterrupt, Data: data})
}

// Resize simulates a terminal resize and queues an EventResize.
func (b *Memory) Resize(width, height int) {
	b.mu.Lock()
	b.width, b.height = width, height
	b.cells = blankCells(width, height)
	b.mu.Unlock()
	b.Post(Event{Type: EventResize, Width: width, Height: height})
}
