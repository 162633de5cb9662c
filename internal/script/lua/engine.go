package lua

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dshills/modloader/internal/script"
)

// Engine creates Lua scripts and owns the message clock they share.
type Engine struct {
	executionTimeout time.Duration
	maxMessages      int

	mu    sync.Mutex
	clock func() int64
	last  int64
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithScriptTimeout bounds each call into a script.
func WithScriptTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.executionTimeout = d
	}
}

// WithMaxMessages sets how many messages each script retains.
func WithMaxMessages(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxMessages = n
		}
	}
}

// WithClock replaces the millisecond clock used to stamp messages.
func WithClock(clock func() int64) EngineOption {
	return func(e *Engine) {
		e.clock = clock
	}
}

// DefaultMaxMessages is the per-script message retention.
const DefaultMaxMessages = 32

// NewEngine creates an engine whose clock starts at zero.
func NewEngine(opts ...EngineOption) *Engine {
	start := time.Now()
	e := &Engine{
		executionTimeout: DefaultExecutionTimeout,
		maxMessages:      DefaultMaxMessages,
		clock: func() int64 {
			return time.Since(start).Milliseconds()
		},
		last: -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Create implements script.Engine. Missing or unreadable files are errors;
// Lua errors in the file are reported through the script's Result.
func (e *Engine) Create(path string, enabled bool) (script.Script, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotAFile)
	}
	return newScript(e, path, enabled), nil
}

// stamp returns a timestamp strictly greater than every previous one.
func (e *Engine) stamp() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	if now <= e.last {
		now = e.last + 1
	}
	e.last = now
	return now
}
