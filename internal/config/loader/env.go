package loader

import (
	"os"
	"strconv"
	"strings"
)

// EnvLoader loads settings from environment variables.
//
// Mapped variables (MODLOADER_SPEEDRUN_MODE) go to their mapped path. Any
// other variable of the form PREFIX<SECTION>__<KEY> is set at
// section.key, lowercased, so MODLOADER_SCRIPT_SETTINGS__AUTO_RELOAD sets
// script_settings.auto_reload.
type EnvLoader struct {
	prefix  string
	mapping map[string]string
}

// NewEnvLoader creates an environment loader. The prefix includes the
// trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
	}
}

// NewEnvLoaderWithMapping creates a loader with custom variable mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: mapping,
	}
}

func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "SPEEDRUN_MODE":        "general_settings.speedrun_mode",
		prefix + "DEVELOPER_CONSOLE":    "script_settings.enable_developer_console",
		prefix + "CONSOLE_HISTORY_SIZE": "script_settings.console_history_size",
		prefix + "EXECUTION_TIMEOUT_MS": "script_settings.execution_timeout_ms",
		prefix + "AUTO_RELOAD":          "script_settings.auto_reload",
		prefix + "MODS_DIR":             "paths.mods_dir",
		prefix + "DATA_DIR":             "paths.data_dir",
		prefix + "LOG_LEVEL":            "logging.level",
		prefix + "LOG_FILE":             "logging.file",
	}
}

// Load reads the environment. Empty values count as set.
func (l *EnvLoader) Load() (map[string]any, error) {
	settings := make(map[string]any)

	for env, path := range l.mapping {
		if val, ok := os.LookupEnv(env); ok {
			SetByPath(settings, path, ParseValue(val))
		}
	}

	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		if _, mapped := l.mapping[name]; mapped {
			continue
		}
		path, ok := l.envToPath(name)
		if !ok {
			continue
		}
		SetByPath(settings, path, ParseValue(value))
	}

	return settings, nil
}

// AddMapping adds a variable mapping.
func (l *EnvLoader) AddMapping(envVar, path string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = path
}

// envToPath converts PREFIX_SCRIPT_SETTINGS__AUTO_RELOAD to
// script_settings.auto_reload.
func (l *EnvLoader) envToPath(env string) (string, bool) {
	name := strings.TrimPrefix(env, l.prefix)
	section, key, ok := strings.Cut(name, "__")
	if !ok || section == "" || key == "" {
		return "", false
	}
	return strings.ToLower(section) + "." + strings.ToLower(key), true
}

// ParseValue converts an environment string into a bool, an int64, a
// float64 or leaves it as a string.
func ParseValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
