package script

import (
	"fmt"
	"sync"
)

// noCopy marks a struct that must not be copied after first use.
// go vet's copylocks check reports copies.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Handle exclusively owns one Script and closes it exactly once.
//
// A Handle is always used through a pointer. Ownership moves by passing
// the pointer; the previous owner must drop its reference.
type Handle struct {
	_ noCopy

	script   Script
	once     sync.Once
	released bool
	err      error
}

// NewHandle takes ownership of s. It returns nil when s is nil.
func NewHandle(s Script) *Handle {
	if s == nil {
		return nil
	}
	return &Handle{script: s}
}

// Open creates a script through engine and wraps it in a Handle.
func Open(engine Engine, path string, enabled bool) (*Handle, error) {
	s, err := engine.Create(path, enabled)
	if err != nil {
		return nil, fmt.Errorf("create script %s: %w", path, err)
	}
	if s == nil {
		return nil, fmt.Errorf("create script %s: %w", path, ErrNoScript)
	}
	return NewHandle(s), nil
}

// Script returns the owned script, or nil once the handle was released.
func (h *Handle) Script() Script {
	if h == nil || h.released {
		return nil
	}
	return h.script
}

// Released reports whether Release has been called.
func (h *Handle) Released() bool {
	return h == nil || h.released
}

// Release closes the owned script. Calls after the first return the
// result of the first call.
func (h *Handle) Release() error {
	if h == nil {
		return nil
	}
	h.once.Do(func() {
		h.err = h.script.Close()
		h.script = nil
		h.released = true
	})
	return h.err
}
