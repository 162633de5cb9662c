// Package logging builds the zap logger and keeps recent entries for the
// on-screen log.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel parses a level name. Unknown names give info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Config configures New.
type Config struct {
	// Level is the minimum level, by name.
	Level string

	// File receives JSON log lines. Empty disables the file.
	File string

	// RingSize is how many entries the on-screen log keeps.
	RingSize int
}

// DefaultRingSize is the on-screen log length.
const DefaultRingSize = 200

// New builds a logger that writes to cfg.File and to the returned ring.
// The terminal belongs to the UI, so nothing is written to stderr. The
// returned func closes the log file; call it after the final Sync.
func New(cfg Config) (*zap.Logger, *Ring, func(), error) {
	level := zap.NewAtomicLevelAt(ParseLevel(cfg.Level))

	size := cfg.RingSize
	if size <= 0 {
		size = DefaultRingSize
	}
	ring := NewRing(size, level)

	cores := []zapcore.Core{ring}
	closeFile := func() {}
	if cfg.File != "" {
		if dir := filepath.Dir(cfg.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, nil, fmt.Errorf("create log directory: %w", err)
			}
		}
		sink, closeSink, err := zap.Open(cfg.File)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open log file: %w", err)
		}
		closeFile = closeSink
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig()),
			sink,
			level,
		))
	}

	return zap.New(zapcore.NewTee(cores...)), ring, closeFile, nil
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}
