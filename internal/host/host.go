// Package host defines what the mod manager needs from the program that
// embeds it.
package host

// Screen is the host's current top-level state.
type Screen int

const (
	// ScreenMenu is any menu where the options window may be shown.
	ScreenMenu Screen = iota
	// ScreenGame is local play.
	ScreenGame
	// ScreenOnline is online play. Script mods still run but the user is
	// warned.
	ScreenOnline
)

// String returns a string representation of the screen.
func (s Screen) String() string {
	switch s {
	case ScreenMenu:
		return "menu"
	case ScreenGame:
		return "game"
	case ScreenOnline:
		return "online"
	default:
		return "unknown"
	}
}

// ModType names a kind of mod the host may gate features on.
type ModType int

const (
	// ModTypeScript is reported once any enabled script mod is registered.
	ModTypeScript ModType = iota
)

// String returns a string representation of the mod type.
func (t ModType) String() string {
	switch t {
	case ModTypeScript:
		return "script"
	default:
		return "unknown"
	}
}

// Host is implemented by the embedding program.
type Host interface {
	// Screen returns the current screen state.
	Screen() Screen

	// RegisterModType records that at least one mod of type t exists.
	RegisterModType(t ModType)

	// ShowCursor and HideCursor switch the UI cursor. The manager calls
	// each once per transition.
	ShowCursor()
	HideCursor()
}
