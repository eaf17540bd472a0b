package config

import (
	"fmt"
	"sort"
)

// Dimension limits in centimeters. Inputs outside these ranges are rejected
// by Validate; the UI exposes the same values as slider min/max.
const (
	MinWidthCm     = 80
	MaxWidthCm     = 180
	MinLengthCm    = 100
	MaxLengthCm    = 240
	MinHeightCm    = 65
	MaxHeightCm    = 85
	MinThicknessCm = 0.3
	MaxThicknessCm = 5
)

// Configuration is one immutable snapshot of the user's table parameters.
// Dimensions are stored in centimeters; the geometry builder converts to
// meters at its boundary (see CmToM). A Configuration that came from user
// input or from disk must pass Validate before it drives a rebuild.
type Configuration struct {
	WidthCm     float32 `json:"width_cm" yaml:"width_cm"`
	LengthCm    float32 `json:"length_cm" yaml:"length_cm"`
	HeightCm    float32 `json:"height_cm" yaml:"height_cm"`
	ThicknessCm float32 `json:"thickness_cm" yaml:"thickness_cm"`

	MaterialID string    `json:"material_id" yaml:"material_id"`
	Edge       EdgeStyle `json:"edge_style" yaml:"edge_style"`
	Leg        LegStyle  `json:"leg_style" yaml:"leg_style"`

	// Features holds selected add-on feature ids (e.g. "cable_grommet").
	// Kept sorted so two configurations with the same selection compare equal.
	Features []string `json:"features,omitempty" yaml:"features,omitempty"`
}

// Default returns the configuration shown before the user changes anything.
func Default() Configuration {
	return Configuration{
		WidthCm:     100,
		LengthCm:    160,
		HeightCm:    75,
		ThicknessCm: 3,
		MaterialID:  "oak",
		Edge:        EdgeStraight,
		Leg:         LegStandard,
	}
}

// WithFeatures returns a copy of c with the given add-on feature ids,
// deduplicated and sorted.
func (c Configuration) WithFeatures(ids ...string) Configuration {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	c.Features = out
	return c
}

// Equal reports whether two configurations request the same table.
func (c Configuration) Equal(o Configuration) bool {
	if c.WidthCm != o.WidthCm || c.LengthCm != o.LengthCm ||
		c.HeightCm != o.HeightCm || c.ThicknessCm != o.ThicknessCm ||
		c.MaterialID != o.MaterialID || c.Edge != o.Edge || c.Leg != o.Leg {
		return false
	}
	if len(c.Features) != len(o.Features) {
		return false
	}
	for i := range c.Features {
		if c.Features[i] != o.Features[i] {
			return false
		}
	}
	return true
}

// ScalarsOnlyChangedFrom reports whether c differs from o in dimensions only
// (material and styles unchanged). The lifecycle coordinator uses this to pick
// the annotation fast path.
func (c Configuration) ScalarsOnlyChangedFrom(o Configuration) bool {
	if c.MaterialID != o.MaterialID || c.Edge != o.Edge || c.Leg != o.Leg {
		return false
	}
	if len(c.Features) != len(o.Features) {
		return false
	}
	for i := range c.Features {
		if c.Features[i] != o.Features[i] {
			return false
		}
	}
	return true
}

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
	Value  float32
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s (got %g)", e.Field, e.Reason, e.Value)
}

// Validate checks each dimension against its legal range and then the
// cross-field constraint thickness < height (the leg height, height minus
// thickness, must stay positive). It stops at the first violation so the UI
// can point at exactly one control per input event. A nil return means the
// configuration may drive a rebuild.
func Validate(c Configuration) error {
	if c.WidthCm < MinWidthCm || c.WidthCm > MaxWidthCm {
		return &ValidationError{
			Field:  "width",
			Reason: fmt.Sprintf("must be between %d and %d cm", MinWidthCm, MaxWidthCm),
			Value:  c.WidthCm,
		}
	}
	if c.LengthCm < MinLengthCm || c.LengthCm > MaxLengthCm {
		return &ValidationError{
			Field:  "length",
			Reason: fmt.Sprintf("must be between %d and %d cm", MinLengthCm, MaxLengthCm),
			Value:  c.LengthCm,
		}
	}
	if c.HeightCm < MinHeightCm || c.HeightCm > MaxHeightCm {
		return &ValidationError{
			Field:  "height",
			Reason: fmt.Sprintf("must be between %d and %d cm", MinHeightCm, MaxHeightCm),
			Value:  c.HeightCm,
		}
	}
	if c.ThicknessCm < MinThicknessCm || c.ThicknessCm > MaxThicknessCm {
		return &ValidationError{
			Field:  "thickness",
			Reason: fmt.Sprintf("must be between %g and %g cm", float32(MinThicknessCm), float32(MaxThicknessCm)),
			Value:  c.ThicknessCm,
		}
	}
	if c.ThicknessCm >= c.HeightCm {
		return &ValidationError{
			Field:  "thickness",
			Reason: fmt.Sprintf("must be less than the table height (%g cm)", c.HeightCm),
			Value:  c.ThicknessCm,
		}
	}
	return nil
}
