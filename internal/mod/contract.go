package mod

import "github.com/dshills/modloader/internal/script"

// Console is the developer console the manager drives when it is enabled.
type Console interface {
	// Update advances the console by one frame.
	Update()

	// Messages returns output that has not been consumed yet.
	Messages() []script.Message

	// ConsumeMessages drops every message returned by Messages.
	ConsumeMessages()

	Draw(s script.Surface)
	DrawOptions(w script.Widgets)

	// HasNewHistory reports whether a command was entered since the last
	// save.
	HasNewHistory() bool
	SaveHistory(path string) error
	LoadHistory(path string) error
	SetMaxHistory(n int)

	IsToggled() bool
	Toggle()

	Close() error
}

// ConsoleFactory builds a console at Commit.
type ConsoleFactory func() (Console, error)

// Settings answers section and key lookups with defaults.
type Settings interface {
	GetBool(section, key string, def bool) bool
	GetInt(section, key string, def int) int
}

// Widgets is the widget set the options window is drawn with.
type Widgets interface {
	script.Widgets

	// TextRight draws text right-aligned on the current line.
	TextRight(text string)
}

// Settings sections and keys read by the manager.
const (
	SectionGeneral = "general_settings"
	SectionScript  = "script_settings"

	KeySpeedrunMode       = "speedrun_mode"
	KeyDeveloperConsole   = "enable_developer_console"
	KeyConsoleHistorySize = "console_history_size"

	DefaultConsoleHistorySize = 20
)

// HistoryFile is the console history file name inside the data directory.
const HistoryFile = "console_history.txt"
