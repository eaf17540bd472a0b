package geometry

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outlineExtents(pts [][2]float32) (maxX, maxZ float32) {
	for _, p := range pts {
		maxX = max32(maxX, math32.Abs(p[0]))
		maxZ = max32(maxZ, math32.Abs(p[1]))
	}
	return
}

func TestFilletedOutlineStaysInEnvelope(t *testing.T) {
	pts := filletedOutline(1.09, 1.50, beveledCornerRadiusM, beveledArcSegs)
	require.Len(t, pts, 4*(beveledArcSegs+1))
	maxX, maxZ := outlineExtents(pts)
	assert.InDelta(t, 1.09/2, maxX, 1e-5, "arc apex touches the width envelope")
	assert.InDelta(t, 1.50/2, maxZ, 1e-5, "arc apex touches the length envelope")
	for _, p := range pts {
		assert.LessOrEqual(t, math32.Abs(p[0]), float32(1.09/2)+1e-5)
		assert.LessOrEqual(t, math32.Abs(p[1]), float32(1.50/2)+1e-5)
	}
}

func TestRoundedOutlineStaysInEnvelope(t *testing.T) {
	radius := float32(roundedCornerFrac * 1.09)
	pts := roundedOutline(1.09, 1.50, radius, roundedCurveSegs)
	require.Len(t, pts, 4*(roundedCurveSegs+1))
	maxX, maxZ := outlineExtents(pts)
	assert.InDelta(t, 1.09/2, maxX, 1e-5)
	assert.InDelta(t, 1.50/2, maxZ, 1e-5)
	for _, p := range pts {
		assert.LessOrEqual(t, math32.Abs(p[0]), float32(1.09/2)+1e-5)
		assert.LessOrEqual(t, math32.Abs(p[1]), float32(1.50/2)+1e-5)
	}
}

func TestClampCornerRadius(t *testing.T) {
	assert.Zero(t, clampCornerRadius(-0.1, 1, 1))
	assert.InDelta(t, 0.02, clampCornerRadius(0.02, 1.09, 1.50), 1e-6)
	// A radius larger than the plan allows is clamped so opposing corners
	// never touch across the smaller dimension.
	clamped := clampCornerRadius(10, 0.8, 2.4)
	assert.Less(t, clamped, float32(0.4))
	assert.Greater(t, clamped, float32(0))
}

func TestExtrudeOutlineNormalsAndEnvelope(t *testing.T) {
	outline := [][2]float32{{0.5, 0.75}, {0.5, -0.75}, {-0.5, -0.75}, {-0.5, 0.75}}
	m := ExtrudeOutline(outline, 0.03, 0, 0)
	size := m.Bounds().Size()
	assert.InDelta(t, 1.0, size[0], 1e-5)
	assert.InDelta(t, 0.03, size[1], 1e-5)
	assert.InDelta(t, 1.5, size[2], 1e-5)

	// Every triangle carries a unit flat normal, and the cap normals point
	// straight up or down.
	require.Equal(t, len(m.Positions), len(m.Normals))
	up, down := 0, 0
	for _, n := range m.Normals {
		mag := math32.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
		assert.InDelta(t, 1.0, mag, 1e-4)
		if n[1] > 0.999 {
			up++
		}
		if n[1] < -0.999 {
			down++
		}
	}
	assert.NotZero(t, up, "top cap faces +Y")
	assert.NotZero(t, down, "bottom cap faces -Y")
}

func TestExtrudeOutlineBeveledKeepsEnvelope(t *testing.T) {
	outline := filletedOutline(1.0, 1.5, 0.02, beveledArcSegs)
	m := ExtrudeOutline(outline, 0.03, 0.03*beveledBevelDepthFrac, 0.03*beveledBevelSizeFrac)
	size := m.Bounds().Size()
	// The bevel insets the top cap; the wall below still spans the envelope.
	assert.InDelta(t, 1.0, size[0], 1e-5)
	assert.InDelta(t, 0.03, size[1], 1e-5)
	assert.InDelta(t, 1.5, size[2], 1e-5)
}

func TestBoxCenteredAtOrigin(t *testing.T) {
	m := Box(0.04, 0.72, 0.04)
	b := m.Bounds()
	assert.InDelta(t, -0.02, b.Min[0], 1e-6)
	assert.InDelta(t, 0.02, b.Max[0], 1e-6)
	assert.InDelta(t, -0.36, b.Min[1], 1e-6)
	assert.InDelta(t, 0.36, b.Max[1], 1e-6)
	assert.Len(t, m.Indices, 36, "twelve triangles")
}
