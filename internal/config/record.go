package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ConfigPath is the path the current table configuration is persisted to,
// relative to the process working directory.
const ConfigPath = "config/table.json"

// Record flattens the configuration to a string key-value map, the format
// used for persistence. Features are comma-joined under a single key.
func (c Configuration) Record() map[string]string {
	r := map[string]string{
		"width_cm":     formatFloat(c.WidthCm),
		"length_cm":    formatFloat(c.LengthCm),
		"height_cm":    formatFloat(c.HeightCm),
		"thickness_cm": formatFloat(c.ThicknessCm),
		"material_id":  c.MaterialID,
		"edge_style":   c.Edge.String(),
		"leg_style":    c.Leg.String(),
	}
	if len(c.Features) > 0 {
		r["features"] = strings.Join(c.Features, ",")
	}
	return r
}

// FromRecord rebuilds a Configuration from a flat record. It only parses;
// a restored value is not trusted until the caller re-runs Validate.
func FromRecord(r map[string]string) (Configuration, error) {
	var c Configuration
	var err error
	if c.WidthCm, err = parseFloat(r, "width_cm"); err != nil {
		return c, err
	}
	if c.LengthCm, err = parseFloat(r, "length_cm"); err != nil {
		return c, err
	}
	if c.HeightCm, err = parseFloat(r, "height_cm"); err != nil {
		return c, err
	}
	if c.ThicknessCm, err = parseFloat(r, "thickness_cm"); err != nil {
		return c, err
	}
	c.MaterialID = r["material_id"]
	if c.Edge, err = ParseEdgeStyle(r["edge_style"]); err != nil {
		return c, err
	}
	if c.Leg, err = ParseLegStyle(r["leg_style"]); err != nil {
		return c, err
	}
	if f := r["features"]; f != "" {
		c = c.WithFeatures(strings.Split(f, ",")...)
	}
	return c, nil
}

// Save writes the configuration record to ConfigPath, creating the config
// directory if needed.
func Save(c Configuration) error {
	dir := filepath.Dir(ConfigPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c.Record(), "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(ConfigPath, data, 0644)
}

// Load reads the persisted configuration from ConfigPath. If the file is
// missing, unreadable, or fails validation, it returns Default(); a stored
// record is never trusted blindly.
func Load() Configuration {
	data, err := os.ReadFile(ConfigPath)
	if err != nil {
		return Default()
	}
	var r map[string]string
	if err := json.Unmarshal(data, &r); err != nil {
		return Default()
	}
	c, err := FromRecord(r)
	if err != nil {
		return Default()
	}
	if err := Validate(c); err != nil {
		return Default()
	}
	return c
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

func parseFloat(r map[string]string, key string) (float32, error) {
	s, ok := r[key]
	if !ok {
		return 0, fmt.Errorf("record missing %s", key)
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, fmt.Errorf("record %s: %w", key, err)
	}
	return float32(v), nil
}
