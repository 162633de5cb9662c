package mod

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// DefaultEntryPoint is the script a mod runs when its manifest names none.
const DefaultEntryPoint = "main.lua"

// Manifest file names, checked in order.
const (
	ManifestJSON = "mod.json"
	ManifestYAML = "mod.yaml"
)

// Manifest describes a mod on disk. Every field is optional.
type Manifest struct {
	Name        string `yaml:"name"`
	Main        string `yaml:"main"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	Version     string `yaml:"version"`

	// Disabled mods are registered but never instantiated.
	Disabled bool `yaml:"disabled"`
}

// LoadManifest reads the manifest in dir. A directory without a manifest
// gets an empty one.
func LoadManifest(dir string) (*Manifest, error) {
	var (
		m   *Manifest
		err error
	)
	switch {
	case fileExists(filepath.Join(dir, ManifestJSON)):
		m, err = loadJSONManifest(filepath.Join(dir, ManifestJSON))
	case fileExists(filepath.Join(dir, ManifestYAML)):
		m, err = loadYAMLManifest(filepath.Join(dir, ManifestYAML))
	default:
		m = &Manifest{}
	}
	if err != nil {
		return nil, err
	}

	m.applyDefaults()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func loadJSONManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s: %w: not valid JSON", path, ErrInvalidManifest)
	}

	doc := gjson.ParseBytes(data)
	return &Manifest{
		Name:        doc.Get("name").String(),
		Main:        doc.Get("main").String(),
		Description: doc.Get("description").String(),
		Author:      doc.Get("author").String(),
		Version:     doc.Get("version").String(),
		Disabled:    doc.Get("disabled").Bool(),
	}, nil
}

func loadYAMLManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrInvalidManifest, err)
	}
	return &m, nil
}

func (m *Manifest) applyDefaults() {
	if m.Main == "" {
		m.Main = DefaultEntryPoint
	}
}

// Validate checks that the entry point is a Lua file inside the mod.
func (m *Manifest) Validate() error {
	if filepath.Ext(m.Main) != ".lua" {
		return fmt.Errorf("%w: main must be a .lua file", ErrInvalidManifest)
	}
	if filepath.IsAbs(m.Main) || strings.HasPrefix(filepath.Clean(m.Main), "..") {
		return fmt.Errorf("%w: main must be inside the mod directory", ErrInvalidManifest)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
