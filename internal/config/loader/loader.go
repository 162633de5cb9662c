// Package loader reads settings from TOML files and the environment into
// nested maps keyed by section.
package loader

import (
	"io/fs"
	"os"
	"strings"
)

// Loader is the interface for settings sources.
type Loader interface {
	// Load reads the source. It returns nil, nil if the source doesn't
	// exist.
	Load() (map[string]any, error)
}

// FileSystem is the file access a file loader needs.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the OS file system.
func DefaultFS() FileSystem {
	return OSFS{}
}

// DeepMerge merges src into dst and returns dst. Tables merge
// recursively; every other value in src replaces the one in dst.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
			continue
		}
		if srcIsMap {
			dst[key] = DeepMerge(nil, srcMap)
			continue
		}
		dst[key] = srcVal
	}
	return dst
}

// GetByPath reads a value from a nested map using a dot-separated path.
func GetByPath(data map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	current := data
	for i, part := range parts {
		val, ok := current[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return val, true
		}
		if current, ok = val.(map[string]any); !ok {
			return nil, false
		}
	}
	return nil, false
}

// SetByPath sets a value in a nested map using a dot-separated path,
// creating intermediate tables.
func SetByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
