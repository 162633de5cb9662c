package config

import "time"

// Section and key names.
const (
	SectionGeneral = "general_settings"
	SectionScript  = "script_settings"
	SectionPaths   = "paths"
	SectionLogging = "logging"
)

// Section accessor methods return snapshot structs. Mutating the returned
// struct does not modify the configuration; use Set.

// GeneralConfig holds general_settings.
type GeneralConfig struct {
	// SpeedrunMode disables the developer console.
	SpeedrunMode bool
}

// ScriptConfig holds script_settings.
type ScriptConfig struct {
	EnableDeveloperConsole bool
	ConsoleHistorySize     int

	// ExecutionTimeout bounds every call into a script.
	ExecutionTimeout time.Duration

	// AutoReload refreshes scripts when files under the mods directory
	// change.
	AutoReload bool

	// DisableScriptMods keeps every script mod unloaded.
	DisableScriptMods bool
}

// PathsConfig holds paths.
type PathsConfig struct {
	ModsDir string
	DataDir string
}

// LoggingConfig holds logging.
type LoggingConfig struct {
	Level string
	File  string
}

// defaults returns the built-in settings.
func defaults() map[string]any {
	return map[string]any{
		SectionGeneral: map[string]any{
			"speedrun_mode": false,
		},
		SectionScript: map[string]any{
			"enable_developer_console": false,
			"console_history_size":     int64(20),
			"execution_timeout_ms":     int64(250),
			"auto_reload":              false,
			"disable_script_mods":      false,
		},
		SectionPaths: map[string]any{
			"mods_dir": "Mods",
			"data_dir": ".",
		},
		SectionLogging: map[string]any{
			"level": "info",
			"file":  "modloader.log",
		},
	}
}

// General returns general_settings.
func (c *Config) General() GeneralConfig {
	return GeneralConfig{
		SpeedrunMode: c.GetBool(SectionGeneral, "speedrun_mode", false),
	}
}

// Script returns script_settings.
func (c *Config) Script() ScriptConfig {
	return ScriptConfig{
		EnableDeveloperConsole: c.GetBool(SectionScript, "enable_developer_console", false),
		ConsoleHistorySize:     c.GetInt(SectionScript, "console_history_size", 20),
		ExecutionTimeout:       c.GetMillis(SectionScript, "execution_timeout_ms", 250*time.Millisecond),
		AutoReload:             c.GetBool(SectionScript, "auto_reload", false),
		DisableScriptMods:      c.GetBool(SectionScript, "disable_script_mods", false),
	}
}

// Paths returns paths.
func (c *Config) Paths() PathsConfig {
	return PathsConfig{
		ModsDir: c.GetString(SectionPaths, "mods_dir", "Mods"),
		DataDir: c.GetString(SectionPaths, "data_dir", "."),
	}
}

// Logging returns logging.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level: c.GetString(SectionLogging, "level", "info"),
		File:  c.GetString(SectionLogging, "file", "modloader.log"),
	}
}
