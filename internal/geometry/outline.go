package geometry

import "github.com/chewxy/math32"

// Edge profile constants, in meters or fractions of the relevant dimension.
// All corner treatments are inset: the outline's envelope stays exactly
// width × length.
const (
	// beveledCornerRadiusM is the fixed fillet radius of the beveled profile.
	beveledCornerRadiusM = 0.02
	// beveledArcSegs is the number of segments per circular corner fillet.
	beveledArcSegs = 4
	// beveledBevelDepthFrac and beveledBevelSizeFrac scale the extrusion
	// bevel from the tabletop thickness.
	beveledBevelDepthFrac = 0.15
	beveledBevelSizeFrac  = 0.10

	// roundedCornerFrac sets the rounded-corner radius as a fraction of the
	// smaller plan dimension.
	roundedCornerFrac = 0.08
	// roundedCurveSegs is the number of segments per quadratic corner curve.
	roundedCurveSegs = 6
	// roundedBevelDepthFrac and roundedBevelSizeFrac: shallower bevel than
	// the beveled profile.
	roundedBevelDepthFrac = 0.10
	roundedBevelSizeFrac  = 0.08
)

// cornerSigns orders the four corners so the outline is wound for a +Y
// extrusion normal: (+x,+z) → (+x,−z) → (−x,−z) → (−x,+z).
var cornerSigns = [4][2]float32{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}

// clampCornerRadius keeps a corner radius strictly below half the smaller
// plan dimension so opposing corners never meet.
func clampCornerRadius(r, w, l float32) float32 {
	limit := 0.49 * min32(w, l) / 2
	switch {
	case r < 0:
		return 0
	case r > limit:
		return limit
	}
	return r
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// filletedOutline returns a width × length rectangle in the XZ plane with
// circular corner fillets of the given radius, sampled at segs points per
// quarter arc. Used by the beveled edge profile.
func filletedOutline(width, length, radius float32, segs int) [][2]float32 {
	radius = clampCornerRadius(radius, width, length)
	hx, hz := width/2, length/2
	pts := make([][2]float32, 0, 4*(segs+1))
	for i, s := range cornerSigns {
		cx, cz := s[0]*(hx-radius), s[1]*(hz-radius)
		start := math32.Pi/2 - float32(i)*math32.Pi/2
		for k := 0; k <= segs; k++ {
			theta := start - math32.Pi/2*float32(k)/float32(segs)
			pts = append(pts, [2]float32{
				cx + radius*math32.Cos(theta),
				cz + radius*math32.Sin(theta),
			})
		}
	}
	return pts
}

// roundedOutline returns a width × length rectangle in the XZ plane with
// quadratic-curve corners of the given radius, sampled at segs points per
// corner. The curve's control point is the square corner itself, so the
// curve stays inside the envelope. Used by the rounded edge profile.
func roundedOutline(width, length, radius float32, segs int) [][2]float32 {
	radius = clampCornerRadius(radius, width, length)
	hx, hz := width/2, length/2
	pts := make([][2]float32, 0, 4*(segs+1))
	for i, s := range cornerSigns {
		cx, cz := s[0]*(hx-radius), s[1]*(hz-radius)
		start := math32.Pi/2 - float32(i)*math32.Pi/2
		end := start - math32.Pi/2
		p0 := [2]float32{cx + radius*math32.Cos(start), cz + radius*math32.Sin(start)}
		p1 := [2]float32{cx + radius*math32.Cos(end), cz + radius*math32.Sin(end)}
		ctrl := [2]float32{s[0] * hx, s[1] * hz}
		for k := 0; k <= segs; k++ {
			t := float32(k) / float32(segs)
			u := 1 - t
			pts = append(pts, [2]float32{
				u*u*p0[0] + 2*u*t*ctrl[0] + t*t*p1[0],
				u*u*p0[1] + 2*u*t*ctrl[1] + t*t*p1[1],
			})
		}
	}
	return pts
}
