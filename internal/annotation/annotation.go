// Package annotation derives the dimension-line overlay: one indicator per
// table dimension (width, length, height), each a main line, two end-cap
// ticks, and a text label billboard. The overlay tracks the same
// configuration as the mesh assembly but is built independently of it.
package annotation

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Meloken/mas2/internal/config"
)

// Line offset constants: each indicator sits outside the tabletop edge by a
// fraction of the dimension it measures against, with a fixed floor (meters).
const (
	widthOffsetFrac  = 0.10
	widthOffsetMinM  = 0.12
	lengthOffsetFrac = 0.08
	lengthOffsetMinM = 0.12
	heightOffsetFrac = 0.12
	heightOffsetMinM = 0.15

	// capLengthM is the length of the perpendicular end-cap ticks.
	capLengthM = 0.06
	// lineLiftM keeps the width/length lines slightly above the floor plane.
	lineLiftM = 0.01
	// labelClearM is the gap between a line and its label billboard.
	labelClearM = 0.06
)

// Axis identifies which table dimension an indicator measures.
type Axis int

const (
	AxisWidth Axis = iota
	AxisLength
	AxisHeight
)

// String returns the axis name.
func (a Axis) String() string {
	switch a {
	case AxisWidth:
		return "width"
	case AxisLength:
		return "length"
	case AxisHeight:
		return "height"
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

// Segment is one overlay line in scene space.
type Segment struct {
	Start, End [3]float32
}

// Indicator is one dimension's visualization: main line, two end caps, label.
type Indicator struct {
	Axis  Axis
	Line  Segment
	Caps  [2]Segment
	Label *Label
}

// Set is the full overlay for one configuration. The lifecycle coordinator
// owns it exclusively; there is no hidden state. When the overlay is
// toggled off the Set is disposed, and toggling on builds a fresh one.
type Set struct {
	Indicators [3]Indicator
	disposed   bool
}

// Build derives a fresh overlay from a validated configuration.
func Build(cfg config.Configuration) *Set {
	s := &Set{}
	for i := range s.Indicators {
		s.Indicators[i].Axis = Axis(i)
		s.Indicators[i].Label = newLabel(labelText(cfg, Axis(i)), [3]float32{})
	}
	s.layout(cfg)
	return s
}

// Refresh is the fast path for scalar-only edits: it updates line geometry,
// transforms, and label text in place. Label backing images are redrawn, not
// reallocated, so rapid slider edits cause no per-edit texture churn.
func (s *Set) Refresh(cfg config.Configuration) {
	for i := range s.Indicators {
		s.Indicators[i].Label.SetText(labelText(cfg, Axis(i)))
	}
	s.layout(cfg)
}

// FaceCamera rotates each label billboard about Y to face the camera
// position. Called once per frame; touches transforms only, never geometry.
func (s *Set) FaceCamera(camPos [3]float32) {
	for i := range s.Indicators {
		l := s.Indicators[i].Label
		dx := camPos[0] - l.Position[0]
		dz := camPos[2] - l.Position[2]
		l.Yaw = math32.Atan2(dx, dz)
	}
}

// Dispose releases the overlay. Backing images are dropped; the render
// backend unloads the matching textures when the overlay group detaches.
func (s *Set) Dispose() {
	for i := range s.Indicators {
		s.Indicators[i].Label = nil
	}
	s.disposed = true
}

// Disposed reports whether Dispose has run (used by tests and the renderer).
func (s *Set) Disposed() bool {
	return s.disposed
}

// labelText formats a dimension value as shown on its billboard.
func labelText(cfg config.Configuration, axis Axis) string {
	var v float32
	switch axis {
	case AxisWidth:
		v = cfg.WidthCm
	case AxisLength:
		v = cfg.LengthCm
	case AxisHeight:
		v = cfg.HeightCm
	}
	return fmt.Sprintf("%g cm", v)
}

// layout recomputes all line segments and label positions for the given
// configuration. Shared by Build and Refresh.
func (s *Set) layout(cfg config.Configuration) {
	w := config.CmToM(cfg.WidthCm)
	l := config.CmToM(cfg.LengthCm)
	h := config.CmToM(cfg.HeightCm)

	// Width: line parallel to X, offset outward past the +Z edge.
	wOff := max32(widthOffsetFrac*l, widthOffsetMinM)
	wz := l/2 + wOff
	s.Indicators[AxisWidth].Line = Segment{
		Start: [3]float32{-w / 2, lineLiftM, wz},
		End:   [3]float32{w / 2, lineLiftM, wz},
	}
	s.Indicators[AxisWidth].Caps = [2]Segment{
		{Start: [3]float32{-w / 2, lineLiftM, wz - capLengthM / 2}, End: [3]float32{-w / 2, lineLiftM, wz + capLengthM / 2}},
		{Start: [3]float32{w / 2, lineLiftM, wz - capLengthM / 2}, End: [3]float32{w / 2, lineLiftM, wz + capLengthM / 2}},
	}
	s.Indicators[AxisWidth].Label.Position = [3]float32{0, lineLiftM + labelClearM, wz + labelClearM}

	// Length: line parallel to Z, offset outward past the +X edge.
	lOff := max32(lengthOffsetFrac*w, lengthOffsetMinM)
	lx := w/2 + lOff
	s.Indicators[AxisLength].Line = Segment{
		Start: [3]float32{lx, lineLiftM, -l / 2},
		End:   [3]float32{lx, lineLiftM, l / 2},
	}
	s.Indicators[AxisLength].Caps = [2]Segment{
		{Start: [3]float32{lx - capLengthM/2, lineLiftM, -l / 2}, End: [3]float32{lx + capLengthM/2, lineLiftM, -l / 2}},
		{Start: [3]float32{lx - capLengthM/2, lineLiftM, l / 2}, End: [3]float32{lx + capLengthM/2, lineLiftM, l / 2}},
	}
	s.Indicators[AxisLength].Label.Position = [3]float32{lx + labelClearM, lineLiftM + labelClearM, 0}

	// Height: vertical line at the (+X, -Z) corner, offset outward on X.
	hOff := max32(heightOffsetFrac*w, heightOffsetMinM)
	hx := w/2 + hOff
	hz := -l / 2
	s.Indicators[AxisHeight].Line = Segment{
		Start: [3]float32{hx, 0, hz},
		End:   [3]float32{hx, h, hz},
	}
	s.Indicators[AxisHeight].Caps = [2]Segment{
		{Start: [3]float32{hx - capLengthM/2, 0, hz}, End: [3]float32{hx + capLengthM/2, 0, hz}},
		{Start: [3]float32{hx - capLengthM/2, h, hz}, End: [3]float32{hx + capLengthM/2, h, hz}},
	}
	s.Indicators[AxisHeight].Label.Position = [3]float32{hx + labelClearM, h / 2, hz}
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
