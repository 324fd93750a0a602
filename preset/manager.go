// Package preset manages the directory of named generation presets and the
// temporary switch to a diary-specific preset around a generation call.
package preset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/EtafCisky/sillytavernDIARY/internal/fsstore"
	"gopkg.in/yaml.v3"
)

var ErrPresetNotFound = errors.New("preset: not found")

const selectionFilename = "selection.json"

// Manager exposes the preset directory: YAML preset documents plus a small
// JSON file recording which preset is currently selected.
type Manager struct {
	Dir string
}

func NewManager(dir string) *Manager {
	return &Manager{Dir: dir}
}

type selection struct {
	Selected string `json:"selected"`
}

func (m *Manager) presetPath(name string) string {
	return filepath.Join(m.Dir, name+".yaml")
}

func (m *Manager) selectionPath() string {
	return filepath.Join(m.Dir, selectionFilename)
}

// List returns the preset names present in the directory, sorted.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("preset: read dir %s: %w", m.Dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".yaml") {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".yaml"))
	}
	sort.Strings(names)
	return names, nil
}

// Find reports whether a preset with the given name exists.
func (m *Manager) Find(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	_, err := os.Stat(m.presetPath(name))
	return err == nil
}

// Load parses one preset document.
func (m *Manager) Load(name string) (map[string]any, error) {
	data, err := os.ReadFile(m.presetPath(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
		}
		return nil, fmt.Errorf("preset: read %s: %w", name, err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("preset: parse %s: %w", name, err)
	}
	return doc, nil
}

// SelectedName returns the currently selected preset name, empty when none
// has been selected yet.
func (m *Manager) SelectedName() string {
	var sel selection
	ok, err := fsstore.ReadJSON(m.selectionPath(), &sel)
	if err != nil || !ok {
		return ""
	}
	return sel.Selected
}

// Select makes the named preset current. The preset must exist.
func (m *Manager) Select(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("preset: empty name")
	}
	if !m.Find(name) {
		return fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	return fsstore.WriteJSONAtomic(m.selectionPath(), selection{Selected: name}, fsstore.FileOptions{})
}

// Clear drops the current selection. Clearing an empty selection is a no-op.
func (m *Manager) Clear() error {
	err := os.Remove(m.selectionPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("preset: clear selection: %w", err)
	}
	return nil
}
