package script

import "image/color"

// Result strings that report success rather than an error.
const (
	// ResultMetadataFetched is reported after a script was loaded and its
	// metadata read.
	ResultMetadataFetched = "metadata fetched successfully"

	// ResultOK is reported after a successful update tick.
	ResultOK = "ok"
)

// IsSentinel reports whether res is one of the non-error result strings.
func IsSentinel(res string) bool {
	return res == ResultMetadataFetched || res == ResultOK
}

// Engine creates scripts from files.
type Engine interface {
	// Create loads the script at path. A non-nil error means no script
	// exists; errors raised by the script's own code are reported through
	// Result instead.
	Create(path string, enabled bool) (Script, error)
}

// Script is one loaded script instance.
//
// Scripts are driven from a single goroutine; implementations need not be
// safe for concurrent use.
type Script interface {
	// Update advances the script by one tick. Disabled scripts do nothing.
	Update()

	// Messages returns the messages the script currently retains, oldest
	// first. Messages stay visible for several ticks, so callers filter on
	// Timestamp to avoid processing one twice.
	Messages() []Message

	// Result returns the outcome of the last operation. ok is false when
	// nothing has been reported yet.
	Result() (res string, ok bool)

	// Meta returns the metadata the script declared.
	Meta() Meta

	// SetEnabled switches the script's logic on or off.
	SetEnabled(enabled bool)

	// Enabled reports the current logic toggle.
	Enabled() bool

	// DrawOptions renders the script's own settings.
	DrawOptions(w Widgets)

	// Draw renders the script onto the shared surface. It runs whether or
	// not the script is enabled.
	Draw(s Surface)

	// Close releases every resource held by the script.
	Close() error
}

// Message is a line of text emitted by a script.
type Message struct {
	Text string

	// Timestamp is in milliseconds on the engine's clock.
	Timestamp int64
}

// Meta describes a script as declared by its author.
type Meta struct {
	Name        string
	Author      string
	Version     string
	Description string

	// Unsafe is set when the script asks for libraries that can touch the
	// filesystem or the operating system.
	Unsafe bool
}

// Surface is the shared drawing target scripts render onto each frame.
type Surface interface {
	// Size returns the drawable area in cells.
	Size() (width, height int)

	// DrawText draws text starting at x, y. Text outside the surface is
	// clipped.
	DrawText(x, y int, text string, fg color.Color)
}

// Widgets is the immediate-mode widget set offered to option panels.
type Widgets interface {
	Text(text string)
	TextColored(fg color.Color, text string)
	TextWrapped(text string)
	Separator()
	SameLine()

	// Checkbox draws a checkbox and reports whether the user toggled it
	// during this frame. It never changes state itself.
	Checkbox(label string, checked bool) (toggled bool)
}
