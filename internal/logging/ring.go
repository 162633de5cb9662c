package logging

import (
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

// Entry is one line of the on-screen log.
type Entry struct {
	Time    time.Time
	Level   zapcore.Level
	Message string

	// Tag is the mod name or message source, if the entry had one.
	Tag string
}

// Ring is a zapcore.Core that keeps the most recent entries in memory.
type Ring struct {
	zapcore.LevelEnabler

	buf    *ringBuffer
	fields []zapcore.Field
}

type ringBuffer struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

var _ zapcore.Core = (*Ring)(nil)

// NewRing creates a ring holding size entries at or above enab.
func NewRing(size int, enab zapcore.LevelEnabler) *Ring {
	return &Ring{
		LevelEnabler: enab,
		buf:          &ringBuffer{entries: make([]Entry, size)},
	}
}

// With implements zapcore.Core.
func (r *Ring) With(fields []zapcore.Field) zapcore.Core {
	clone := *r
	clone.fields = append(append([]zapcore.Field(nil), r.fields...), fields...)
	return &clone
}

// Check implements zapcore.Core.
func (r *Ring) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if r.Enabled(ent.Level) {
		return ce.AddCore(ent, r)
	}
	return ce
}

// Write implements zapcore.Core.
func (r *Ring) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	r.buf.add(Entry{
		Time:    ent.Time,
		Level:   ent.Level,
		Message: ent.Message,
		Tag:     tagOf(r.fields, fields),
	})
	return nil
}

// Sync implements zapcore.Core.
func (r *Ring) Sync() error {
	return nil
}

// Entries returns the kept entries, oldest first.
func (r *Ring) Entries() []Entry {
	return r.buf.snapshot()
}

// tagOf returns the value of the last mod or source field.
func tagOf(sets ...[]zapcore.Field) string {
	tag := ""
	for _, fields := range sets {
		for _, f := range fields {
			if (f.Key == "mod" || f.Key == "source") && f.Type == zapcore.StringType {
				tag = f.String
			}
		}
	}
	return tag
}

func (b *ringBuffer) add(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[b.next] = e
	b.next = (b.next + 1) % len(b.entries)
	if b.next == 0 {
		b.full = true
	}
}

func (b *ringBuffer) snapshot() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.full {
		out := make([]Entry, b.next)
		copy(out, b.entries[:b.next])
		return out
	}
	out := make([]Entry, 0, len(b.entries))
	out = append(out, b.entries[b.next:]...)
	return append(out, b.entries[:b.next]...)
}
