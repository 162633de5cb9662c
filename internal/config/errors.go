package config

import "errors"

// Errors returned by configuration operations.
var (
	// ErrInvalidPath indicates an empty section or key.
	ErrInvalidPath = errors.New("invalid setting path")

	// ErrTypeMismatch indicates a value has the wrong type for its key.
	ErrTypeMismatch = errors.New("type mismatch")
)
