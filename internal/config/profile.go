package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrProfileNotFound is returned when a named profile does not exist.
var ErrProfileNotFound = errors.New("profile not found")

// Profile is a saved crop/resize combination for a family of scans.
type Profile struct {
	Cut    CropMargin `json:"cut" yaml:"cut"`
	Resize Resize     `json:"resize" yaml:"resize"`
}

// Profiles stores profiles as JSON files inside a directory.
type Profiles struct {
	dir string
}

// NewProfiles returns a store rooted at dir.
func NewProfiles(dir string) *Profiles {
	return &Profiles{dir: dir}
}

func (p *Profiles) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid profile name %q", name)
	}
	if reserved(name) {
		return "", fmt.Errorf("profile name %q is reserved for settings", name)
	}
	return filepath.Join(p.dir, name), nil
}

// Save writes prof under name, replacing any existing profile.
func (p *Profiles) Save(name string, prof Profile) error {
	path, err := p.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}
	data, err := json.Marshal(prof)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write profile %s: %w", name, err)
	}
	return nil
}

// Load reads the profile called name.
func (p *Profiles) Load(name string) (Profile, error) {
	path, err := p.path(name)
	if err != nil {
		return Profile{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
		}
		return Profile{}, err
	}
	var prof Profile
	if err := json.Unmarshal(data, &prof); err != nil {
		return Profile{}, fmt.Errorf("parse profile %s: %w", name, err)
	}
	return prof, nil
}

// List returns the stored profile names in sorted order. Settings files
// share the directory and are left out.
func (p *Profiles) List() ([]string, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") || reserved(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// reserved reports whether name would be picked up by LoadSettings.
func reserved(name string) bool {
	return strings.EqualFold(strings.TrimSuffix(name, filepath.Ext(name)), settingsName)
}
