// Package config provides modloader's settings.
//
// Settings are organized in sections and keys, read from three layers with
// higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← MODLOADER_*
//	├─────────────────────────────┤
//	│  2. Settings File           │  ← modloader.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// # Basic Usage
//
//	cfg, err := config.Load("modloader.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	history := cfg.GetInt("script_settings", "console_history_size", 20)
//	scripts := cfg.Script()
//	fmt.Println(scripts.ExecutionTimeout)
//
// A missing settings file is not an error; defaults and the environment
// still apply.
//
// # Environment
//
// Common settings have short names (MODLOADER_SPEEDRUN_MODE,
// MODLOADER_DEVELOPER_CONSOLE, MODLOADER_LOG_LEVEL, ...). Any setting can
// be set as MODLOADER_<SECTION>__<KEY>.
package config
