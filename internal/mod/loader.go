package mod

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PacksDir is where mods live below the mods root.
const PacksDir = "Packs"

// ModDir is one mod found on disk.
type ModDir struct {
	// Name is the directory name. The load order refers to mods by it.
	Name string

	Dir        string
	EntryPoint string
	Manifest   *Manifest

	// Error is set when the mod cannot be registered.
	Error error
}

// Loader discovers mods below a mods root.
type Loader struct {
	root string
}

// NewLoader creates a loader for root (the "Mods" directory).
func NewLoader(root string) *Loader {
	return &Loader{root: root}
}

// Root returns the mods root.
func (l *Loader) Root() string {
	return l.root
}

// PacksPath returns the directory holding one subdirectory per mod.
func (l *Loader) PacksPath() string {
	return filepath.Join(l.root, PacksDir)
}

// Discover lists every mod directory, sorted by name. A missing packs
// directory yields no mods.
func (l *Loader) Discover() ([]*ModDir, error) {
	entries, err := os.ReadDir(l.PacksPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read mods: %w", err)
	}

	mods := make([]*ModDir, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		mods = append(mods, l.inspect(entry.Name()))
	}

	sort.Slice(mods, func(i, j int) bool {
		return mods[i].Name < mods[j].Name
	})
	return mods, nil
}

// inspect examines one mod directory.
func (l *Loader) inspect(name string) *ModDir {
	dir := filepath.Join(l.PacksPath(), name)
	md := &ModDir{Name: name, Dir: dir}

	manifest, err := LoadManifest(dir)
	if err != nil {
		md.Error = err
		return md
	}
	md.Manifest = manifest

	entry := filepath.Join(dir, manifest.Main)
	if !fileExists(entry) {
		md.Error = fmt.Errorf("%s: %w", name, ErrNoEntryPoint)
		return md
	}
	md.EntryPoint = entry
	return md
}

// Scripted reports whether the mod can be registered.
func (md *ModDir) Scripted() bool {
	return md.Error == nil && md.EntryPoint != ""
}

// RegisterAll registers every scripted mod with m using priorities and
// toggles from order. It returns the number of mods registered.
func RegisterAll(m *Manager, mods []*ModDir, order *LoadOrder) int {
	n := 0
	for _, md := range mods {
		if !md.Scripted() {
			continue
		}
		enabled := order.Enabled(md.Name) && !md.Manifest.Disabled
		if m.Register(md.Name, md.EntryPoint, order.Priority(md.Name), enabled) {
			n++
		}
	}
	return n
}
