package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// PrefsPath is the path to the viewer preferences file, relative to the
// process working directory.
const PrefsPath = "config/viewer.json"

// ViewerPrefs holds viewer-only preferences (overlays, camera behavior).
// Persisted across runs; separate from the table configuration itself.
type ViewerPrefs struct {
	ShowDimensions bool `json:"show_dimensions"`
	AutoRotate     bool `json:"auto_rotate"`
}

// DefaultPrefs returns default viewer preferences (dimensions on, rotation off).
func DefaultPrefs() ViewerPrefs {
	return ViewerPrefs{ShowDimensions: true, AutoRotate: false}
}

// LoadPrefs reads viewer preferences from PrefsPath. If the file is missing
// or invalid, returns DefaultPrefs() and does not create a file.
func LoadPrefs() ViewerPrefs {
	data, err := os.ReadFile(PrefsPath)
	if err != nil {
		return DefaultPrefs()
	}
	var p ViewerPrefs
	if err := json.Unmarshal(data, &p); err != nil {
		return DefaultPrefs()
	}
	return p
}

// SavePrefs writes viewer preferences to PrefsPath, creating the config
// directory if needed.
func SavePrefs(p ViewerPrefs) error {
	dir := filepath.Dir(PrefsPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(PrefsPath, data, 0644)
}
