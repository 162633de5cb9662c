package script

import "errors"

// ErrNoScript is returned when an engine reports success without a script.
var ErrNoScript = errors.New("engine returned no script")
