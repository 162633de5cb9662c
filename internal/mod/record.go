package mod

import (
	"math"

	"github.com/dshills/modloader/internal/script"
)

// noMessages is the timestamp of a record that has not logged a message.
const noMessages int64 = math.MinInt64

// Record is one registered mod.
type Record struct {
	name     string
	path     string
	priority int64

	// enabled decides whether Commit instantiates the script at all.
	enabled bool

	// scriptEnabled is the user's toggle.
	scriptEnabled bool

	unsafe bool

	handle *script.Handle

	lastError            string
	lastMessageTimestamp int64
}

func newRecord(name, path string, priority int64, enabled bool) *Record {
	return &Record{
		name:                 name,
		path:                 path,
		priority:             priority,
		enabled:              enabled,
		scriptEnabled:        enabled,
		lastMessageTimestamp: noMessages,
	}
}

// Name returns the mod's unique name.
func (r *Record) Name() string { return r.name }

// Path returns the mod's entry point.
func (r *Record) Path() string { return r.path }

// Priority returns the mod's priority.
func (r *Record) Priority() int64 { return r.priority }

// Enabled reports whether the mod is instantiated at commit.
func (r *Record) Enabled() bool { return r.enabled }

// ScriptEnabled reports the user's toggle.
func (r *Record) ScriptEnabled() bool { return r.scriptEnabled }

// Unsafe reports whether the script declared itself unsafe.
func (r *Record) Unsafe() bool { return r.unsafe }

// LastError returns the last error logged for the mod.
func (r *Record) LastError() string { return r.lastError }

// LastMessageTimestamp returns the newest message timestamp logged.
func (r *Record) LastMessageTimestamp() int64 { return r.lastMessageTimestamp }

// Script returns the live script, or nil when the mod is inert.
func (r *Record) Script() script.Script {
	return r.handle.Script()
}

// release frees the script handle if there is one.
func (r *Record) release() {
	if r.handle == nil {
		return
	}
	r.handle.Release()
	r.handle = nil
}

// ModInfo is a snapshot of a record.
type ModInfo struct {
	Name          string
	Path          string
	Priority      int64
	Enabled       bool
	ScriptEnabled bool
	Unsafe        bool
	LastError     string
	HasScript     bool
}

func (r *Record) info() ModInfo {
	return ModInfo{
		Name:          r.name,
		Path:          r.path,
		Priority:      r.priority,
		Enabled:       r.enabled,
		ScriptEnabled: r.scriptEnabled,
		Unsafe:        r.unsafe,
		LastError:     r.lastError,
		HasScript:     r.handle != nil,
	}
}
