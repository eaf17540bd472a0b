package geometry

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Meloken/mas2/internal/config"
	"github.com/Meloken/mas2/internal/material"
)

// Leg sizing constants: fractions of the smaller plan dimension with fixed
// floors, all in meters.
const (
	standardLegInsetFrac = 0.10
	standardLegInsetMinM = 0.10
	standardLegSideFrac  = 0.05
	standardLegSideMinM  = 0.04

	uLegInsetFrac = 0.08
	uLegInsetMinM = 0.08
	uLegSideFrac  = 0.04
	uLegSideMinM  = 0.04
	// uConnectorDropFrac sets how far below the leg top the connector bar
	// sits, as a fraction of leg height.
	uConnectorDropFrac = 0.12
	uConnectorDropMinM = 0.06

	xFrameInsetFrac = 0.08
	xFrameInsetMinM = 0.08
	xBarSideFrac    = 0.04
	xBarSideMinM    = 0.04

	// L-shape arm proportions: main arm spans this fraction of the length at
	// full width; the side arm spans the full length at the complementary
	// fraction of width.
	lMainArmLengthFrac = 0.60
	lSideArmWidthFrac  = 0.40
)

// Transform places a part in scene space: a translation plus Euler rotation
// in radians (applied X, then Y, then Z). Only the x_shape frame bars rotate.
type Transform struct {
	Position [3]float32
	Rotation [3]float32
}

// Part is one mesh of the assembly. Role is a stable structural name
// ("tabletop", "leg_0", ...) for lookup and debugging, not identity logic.
// Surface is a shared reference; the lifecycle coordinator owns the handles.
type Part struct {
	Role      string
	Mesh      *Mesh
	Transform Transform
	Surface   *material.SurfaceHandle
}

// Assembly is the full set of parts derived from one configuration. It is
// plain data until the render backend uploads it; the lifecycle coordinator
// owns it exclusively.
type Assembly struct {
	Config config.Configuration
	Parts  []Part
}

// Part returns the part with the given role, or nil.
func (a *Assembly) Part(role string) *Part {
	for i := range a.Parts {
		if a.Parts[i].Role == role {
			return &a.Parts[i]
		}
	}
	return nil
}

// Build derives the complete mesh assembly from a validated configuration.
// The tabletop uses topSurface, structural parts use legSurface. Build is
// deterministic: identical inputs produce identical geometry and transforms.
// If either surface is nil (synchronous material construction failed
// upstream) the affected parts get the diagnostic surface instead, so the
// assembly is never partially materialized.
func Build(cfg config.Configuration, topSurface, legSurface *material.SurfaceHandle) *Assembly {
	if topSurface == nil {
		topSurface = material.Diagnostic()
	}
	if legSurface == nil {
		legSurface = material.Diagnostic()
	}

	w := config.CmToM(cfg.WidthCm)
	l := config.CmToM(cfg.LengthCm)
	h := config.CmToM(cfg.HeightCm)
	t := config.CmToM(cfg.ThicknessCm)

	a := &Assembly{Config: cfg}

	// The L-shaped desk replaces the whole tabletop-then-legs sequence.
	if cfg.Leg == config.LegLShape {
		buildLShape(a, w, l, h, t, topSurface, legSurface)
		return a
	}

	a.Parts = append(a.Parts, Part{
		Role:      "tabletop",
		Mesh:      buildTabletop(cfg.Edge, w, l, t),
		Transform: Transform{Position: [3]float32{0, h - t, 0}},
		Surface:   topSurface,
	})

	legHeight := h - t
	switch cfg.Leg {
	case config.LegStandard:
		buildStandardLegs(a, w, l, legHeight, legSurface)
	case config.LegUShape:
		buildULegs(a, w, l, legHeight, legSurface)
	case config.LegXShape:
		buildXLegs(a, w, l, legHeight, legSurface)
	case config.LegLShape:
		// handled above
	}
	return a
}

// buildTabletop produces the top slab mesh for the selected edge profile.
// The mesh's local space runs y ∈ [0, thickness] and is centered in XZ, so
// every profile's bounding box is exactly width × length × thickness.
func buildTabletop(edge config.EdgeStyle, w, l, t float32) *Mesh {
	switch edge {
	case config.EdgeBeveled:
		outline := filletedOutline(w, l, beveledCornerRadiusM, beveledArcSegs)
		return ExtrudeOutline(outline, t, t*beveledBevelDepthFrac, t*beveledBevelSizeFrac)
	case config.EdgeRounded:
		radius := roundedCornerFrac * min32(w, l)
		outline := roundedOutline(w, l, radius, roundedCurveSegs)
		return ExtrudeOutline(outline, t, t*roundedBevelDepthFrac, t*roundedBevelSizeFrac)
	default: // straight
		outline := [][2]float32{{w / 2, l / 2}, {w / 2, -l / 2}, {-w / 2, -l / 2}, {-w / 2, l / 2}}
		return ExtrudeOutline(outline, t, 0, 0)
	}
}

// buildStandardLegs adds four vertical corner posts, inset proportionally
// from each edge.
func buildStandardLegs(a *Assembly, w, l, legHeight float32, surface *material.SurfaceHandle) {
	span := min32(w, l)
	inset := max32(standardLegInsetFrac*span, standardLegInsetMinM)
	side := max32(standardLegSideFrac*span, standardLegSideMinM)
	px, pz := w/2-inset, l/2-inset
	corners := [4][2]float32{{px, pz}, {px, -pz}, {-px, -pz}, {-px, pz}}
	for i, c := range corners {
		a.Parts = append(a.Parts, Part{
			Role:      legRole("leg", i),
			Mesh:      Box(side, legHeight, side),
			Transform: Transform{Position: [3]float32{c[0], legHeight / 2, c[1]}},
			Surface:   surface,
		})
	}
}

// buildULegs adds two opposing post pairs near the length-ends, each pair
// joined near the top by a horizontal connector bar. Six parts total.
func buildULegs(a *Assembly, w, l, legHeight float32, surface *material.SurfaceHandle) {
	span := min32(w, l)
	inset := max32(uLegInsetFrac*span, uLegInsetMinM)
	side := max32(uLegSideFrac*span, uLegSideMinM)
	px, pz := w/2-inset, l/2-inset
	for i := 0; i < 4; i++ {
		sx := float32(1)
		if i%2 == 1 {
			sx = -1
		}
		sz := float32(1)
		if i >= 2 {
			sz = -1
		}
		a.Parts = append(a.Parts, Part{
			Role:      legRole("u_post", i),
			Mesh:      Box(side, legHeight, side),
			Transform: Transform{Position: [3]float32{sx * px, legHeight / 2, sz * pz}},
			Surface:   surface,
		})
	}
	drop := max32(uConnectorDropFrac*legHeight, uConnectorDropMinM)
	connY := legHeight - drop
	for i, sz := range []float32{1, -1} {
		a.Parts = append(a.Parts, Part{
			Role:      legRole("u_connector", i),
			Mesh:      Box(2*px, side, side),
			Transform: Transform{Position: [3]float32{0, connY, sz * pz}},
			Surface:   surface,
		})
	}
}

// buildXLegs adds a diagonal cross frame at each length-end: two bars per
// frame, tilted by the angle of the right triangle formed by the top span
// and the leg height. Four parts total.
func buildXLegs(a *Assembly, w, l, legHeight float32, surface *material.SurfaceHandle) {
	span := min32(w, l)
	inset := max32(xFrameInsetFrac*span, xFrameInsetMinM)
	side := max32(xBarSideFrac*span, xBarSideMinM)
	topSpan := w - 2*inset
	diag := math32.Hypot(topSpan, legHeight)
	angle := math32.Atan2(legHeight, topSpan)
	pz := l/2 - inset
	i := 0
	for _, sz := range []float32{1, -1} {
		for _, tilt := range []float32{angle, -angle} {
			a.Parts = append(a.Parts, Part{
				Role:      legRole("x_bar", i),
				Mesh:      Box(diag, side, side),
				Transform: Transform{Position: [3]float32{0, legHeight / 2, sz * pz}, Rotation: [3]float32{0, 0, tilt}},
				Surface:   surface,
			})
			i++
		}
	}
}

// buildLShape produces the L-shaped desk: two overlapping slabs (a main arm
// spanning most of the length at full width plus a side arm spanning the
// full length at reduced width) and six support legs at the outline's
// structural corners.
func buildLShape(a *Assembly, w, l, h, t float32, topSurface, legSurface *material.SurfaceHandle) {
	mainLen := lMainArmLengthFrac * l
	sideWidth := lSideArmWidthFrac * w
	// Main arm occupies z ∈ [-l/2, -l/2+mainLen]; side arm x ∈ [-w/2, -w/2+sideWidth].
	mainZ := -l/2 + mainLen/2
	sideX := -w/2 + sideWidth/2

	a.Parts = append(a.Parts,
		Part{
			Role:      "slab_main",
			Mesh:      Box(w, t, mainLen),
			Transform: Transform{Position: [3]float32{0, h - t/2, mainZ}},
			Surface:   topSurface,
		},
		Part{
			Role:      "slab_side",
			Mesh:      Box(sideWidth, t, l),
			Transform: Transform{Position: [3]float32{sideX, h - t/2, 0}},
			Surface:   topSurface,
		},
	)

	legHeight := h - t
	span := min32(w, l)
	inset := max32(standardLegInsetFrac*span, standardLegInsetMinM)
	side := max32(standardLegSideFrac*span, standardLegSideMinM)

	innerX := -w/2 + sideWidth // inner edge of the side arm
	innerZ := -l/2 + mainLen   // far edge of the main arm
	// Structural corners of the L footprint, each inset toward the interior
	// of its corner.
	positions := [6][2]float32{
		{w/2 - inset, -l/2 + inset},      // main arm, outer far corner
		{-w/2 + inset, -l/2 + inset},     // shared outer corner of both arms
		{w/2 - inset, innerZ - inset},    // main arm, inner far corner
		{-w/2 + inset, l/2 - inset},      // side arm, outer end corner
		{innerX - inset, l/2 - inset},    // side arm, inner end corner
		{innerX - inset, innerZ - inset}, // re-entrant corner of the L
	}
	for i, p := range positions {
		a.Parts = append(a.Parts, Part{
			Role:      legRole("leg", i),
			Mesh:      Box(side, legHeight, side),
			Transform: Transform{Position: [3]float32{p[0], legHeight / 2, p[1]}},
			Surface:   legSurface,
		})
	}
}

func legRole(prefix string, i int) string {
	return fmt.Sprintf("%s_%d", prefix, i)
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
