package mod

import "errors"

// Manager errors.
var (
	ErrAlreadyCommitted = errors.New("mod manager already committed")
	ErrNotCommitted     = errors.New("mod manager not committed")
)

// Discovery errors.
var (
	ErrNoEntryPoint    = errors.New("mod has no main.lua")
	ErrInvalidManifest = errors.New("invalid mod manifest")
)
