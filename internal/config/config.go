package config

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/dshills/modloader/internal/config/loader"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "MODLOADER_"

// DefaultFile is the settings file name.
const DefaultFile = "modloader.toml"

// Config holds merged settings. It is safe for concurrent use.
type Config struct {
	mu   sync.RWMutex
	data map[string]any
}

// New returns a Config holding only the built-in defaults.
func New() *Config {
	return &Config{data: defaults()}
}

// Load reads path over the defaults and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := New()

	file, err := loader.NewTOMLLoader(path).Load()
	if err != nil {
		return nil, err
	}
	loader.DeepMerge(cfg.data, file)

	env, err := loader.NewEnvLoader(EnvPrefix).Load()
	if err != nil {
		return nil, err
	}
	loader.DeepMerge(cfg.data, env)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Get returns the raw value at section.key.
func (c *Config) Get(section, key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return loader.GetByPath(c.data, section+"."+key)
}

// Set stores a value.
func (c *Config) Set(section, key string, value any) error {
	if section == "" || key == "" {
		return ErrInvalidPath
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	loader.SetByPath(c.data, section+"."+key, value)
	return nil
}

// GetBool returns a bool setting or def.
func (c *Config) GetBool(section, key string, def bool) bool {
	v, ok := c.Get(section, key)
	if !ok {
		return def
	}
	if b, ok := toBool(v); ok {
		return b
	}
	return def
}

// GetInt returns an integer setting or def.
func (c *Config) GetInt(section, key string, def int) int {
	v, ok := c.Get(section, key)
	if !ok {
		return def
	}
	if i, ok := toInt(v); ok {
		return i
	}
	return def
}

// GetString returns a string setting or def.
func (c *Config) GetString(section, key string, def string) string {
	v, ok := c.Get(section, key)
	if !ok {
		return def
	}
	switch s := v.(type) {
	case string:
		return s
	case bool, int64, float64:
		// Environment values that look like numbers or bools.
		return fmt.Sprint(s)
	}
	return def
}

// GetMillis returns an integer setting in milliseconds as a duration.
func (c *Config) GetMillis(section, key string, def time.Duration) time.Duration {
	ms := c.GetInt(section, key, int(def/time.Millisecond))
	return time.Duration(ms) * time.Millisecond
}

// validate checks the type of every known setting.
func (c *Config) validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for section, keys := range defaults() {
		for key, def := range keys.(map[string]any) {
			v, ok := loader.GetByPath(c.data, section+"."+key)
			if !ok {
				continue
			}
			var valid bool
			switch def.(type) {
			case bool:
				_, valid = toBool(v)
			case int64:
				_, valid = toInt(v)
			case string:
				_, isTable := v.(map[string]any)
				valid = !isTable
			default:
				valid = true
			}
			if !valid {
				return fmt.Errorf("%s.%s = %v (%T): %w", section, key, v, v, ErrTypeMismatch)
			}
		}
	}
	return nil
}

func toBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(b)
		return parsed, err == nil
	case int64:
		return b != 0, true
	}
	return false, false
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}
