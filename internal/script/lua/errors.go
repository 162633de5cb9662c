package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrNotAFile is returned when a script path names a directory.
	ErrNotAFile = errors.New("script path is not a regular file")
)
