package geometry

import "github.com/chewxy/math32"

// Mesh is flat-shaded triangle geometry in local part space: three positions
// and a shared face normal per triangle, indexed sequentially. Meshes are
// plain data; GPU residency belongs to the render backend.
type Mesh struct {
	Positions [][3]float32
	Normals   [][3]float32
	Indices   []uint32
}

// BBox is an axis-aligned bounding box in local part space.
type BBox struct {
	Min, Max [3]float32
}

// Size returns the box extents along each axis.
func (b BBox) Size() [3]float32 {
	return [3]float32{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}

// Bounds computes the mesh's bounding box from its positions.
func (m *Mesh) Bounds() BBox {
	if len(m.Positions) == 0 {
		return BBox{}
	}
	b := BBox{Min: m.Positions[0], Max: m.Positions[0]}
	for _, p := range m.Positions[1:] {
		for i := 0; i < 3; i++ {
			if p[i] < b.Min[i] {
				b.Min[i] = p[i]
			}
			if p[i] > b.Max[i] {
				b.Max[i] = p[i]
			}
		}
	}
	return b
}

// addTri appends one triangle with a flat face normal computed from the
// winding (counterclockwise seen from the normal side).
func (m *Mesh) addTri(a, b, c [3]float32) {
	n := faceNormal(a, b, c)
	base := uint32(len(m.Positions))
	m.Positions = append(m.Positions, a, b, c)
	m.Normals = append(m.Normals, n, n, n)
	m.Indices = append(m.Indices, base, base+1, base+2)
}

// addQuad appends a quad as two triangles sharing the face normal of the
// first. Vertices in counterclockwise order seen from the normal side.
func (m *Mesh) addQuad(a, b, c, d [3]float32) {
	m.addTri(a, b, c)
	m.addTri(a, c, d)
}

func faceNormal(a, b, c [3]float32) [3]float32 {
	u := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	v := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	n := [3]float32{
		u[1]*v[2] - u[2]*v[1],
		u[2]*v[0] - u[0]*v[2],
		u[0]*v[1] - u[1]*v[0],
	}
	len := math32.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if len == 0 {
		return [3]float32{0, 1, 0}
	}
	return [3]float32{n[0] / len, n[1] / len, n[2] / len}
}

// Box returns a rectangular prism of the given size, centered at the origin.
func Box(sx, sy, sz float32) *Mesh {
	hx, hy, hz := sx/2, sy/2, sz/2
	m := &Mesh{}
	// +Y (top), seen from above
	m.addQuad([3]float32{-hx, hy, -hz}, [3]float32{-hx, hy, hz}, [3]float32{hx, hy, hz}, [3]float32{hx, hy, -hz})
	// -Y (bottom)
	m.addQuad([3]float32{-hx, -hy, -hz}, [3]float32{hx, -hy, -hz}, [3]float32{hx, -hy, hz}, [3]float32{-hx, -hy, hz})
	// +X
	m.addQuad([3]float32{hx, -hy, -hz}, [3]float32{hx, hy, -hz}, [3]float32{hx, hy, hz}, [3]float32{hx, -hy, hz})
	// -X
	m.addQuad([3]float32{-hx, -hy, hz}, [3]float32{-hx, hy, hz}, [3]float32{-hx, hy, -hz}, [3]float32{-hx, -hy, -hz})
	// +Z
	m.addQuad([3]float32{hx, -hy, hz}, [3]float32{hx, hy, hz}, [3]float32{-hx, hy, hz}, [3]float32{-hx, -hy, hz})
	// -Z
	m.addQuad([3]float32{-hx, -hy, -hz}, [3]float32{-hx, hy, -hz}, [3]float32{hx, hy, -hz}, [3]float32{hx, -hy, -hz})
	return m
}

// ExtrudeOutline extrudes a convex 2D outline (XZ plane, counterclockwise
// seen from above) from y=0 to y=thickness, with an inward bevel on the top
// edge: the side wall runs at the full outline up to thickness-bevelDepth,
// then slopes inward by bevelSize to the top cap. The bevel is inset only,
// so the mesh's bounding box equals the outline's envelope by thickness.
func ExtrudeOutline(outline [][2]float32, thickness, bevelDepth, bevelSize float32) *Mesh {
	m := &Mesh{}
	n := len(outline)
	if n < 3 || thickness <= 0 {
		return m
	}
	if bevelDepth < 0 {
		bevelDepth = 0
	}
	if bevelDepth > thickness/2 {
		bevelDepth = thickness / 2
	}
	if bevelSize <= 0 {
		bevelDepth = 0
	}
	wallTop := thickness - bevelDepth
	top := insetOutline(outline, bevelSize)

	// Bottom cap (normal -Y): fan around the centroid, wound clockwise from
	// above so the normal points down.
	cb := centroid(outline)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		m.addTri(
			[3]float32{cb[0], 0, cb[1]},
			[3]float32{outline[j][0], 0, outline[j][1]},
			[3]float32{outline[i][0], 0, outline[i][1]},
		)
	}
	// Side wall: full outline, y 0 → wallTop.
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		m.addQuad(
			[3]float32{outline[i][0], 0, outline[i][1]},
			[3]float32{outline[j][0], 0, outline[j][1]},
			[3]float32{outline[j][0], wallTop, outline[j][1]},
			[3]float32{outline[i][0], wallTop, outline[i][1]},
		)
	}
	// Bevel ring: outline at wallTop → inset outline at thickness. Skipped
	// entirely for the straight profile (no bevel), where the wall already
	// reaches the top.
	if bevelDepth > 0 || bevelSize > 0 {
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			m.addQuad(
				[3]float32{outline[i][0], wallTop, outline[i][1]},
				[3]float32{outline[j][0], wallTop, outline[j][1]},
				[3]float32{top[j][0], thickness, top[j][1]},
				[3]float32{top[i][0], thickness, top[i][1]},
			)
		}
	}
	// Top cap (normal +Y): fan around the inset centroid, counterclockwise
	// from above.
	ct := centroid(top)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		m.addTri(
			[3]float32{ct[0], thickness, ct[1]},
			[3]float32{top[i][0], thickness, top[i][1]},
			[3]float32{top[j][0], thickness, top[j][1]},
		)
	}
	return m
}

// centroid returns the average of the outline points. Good enough as a fan
// anchor for the convex outlines produced here.
func centroid(pts [][2]float32) [2]float32 {
	var c [2]float32
	for _, p := range pts {
		c[0] += p[0]
		c[1] += p[1]
	}
	c[0] /= float32(len(pts))
	c[1] /= float32(len(pts))
	return c
}

// insetOutline moves each vertex of a convex counterclockwise outline inward
// by dist along the miter of its two edge normals.
func insetOutline(pts [][2]float32, dist float32) [][2]float32 {
	n := len(pts)
	out := make([][2]float32, n)
	if dist == 0 {
		copy(out, pts)
		return out
	}
	for i := 0; i < n; i++ {
		prev := pts[(i+n-1)%n]
		cur := pts[i]
		next := pts[(i+1)%n]
		n0 := edgeInwardNormal(prev, cur)
		n1 := edgeInwardNormal(cur, next)
		mx, mz := n0[0]+n1[0], n0[1]+n1[1]
		ml := math32.Hypot(mx, mz)
		if ml == 0 {
			out[i] = cur
			continue
		}
		// Scale so the offset is dist measured perpendicular to each edge.
		dot := (n0[0]*mx + n0[1]*mz) / ml
		scale := dist
		if dot > 1e-6 {
			scale = dist / dot
		}
		out[i] = [2]float32{cur[0] + mx/ml*scale, cur[1] + mz/ml*scale}
	}
	return out
}

// edgeInwardNormal returns the unit normal of edge a→b pointing into a
// counterclockwise (from above, XZ plane) outline.
func edgeInwardNormal(a, b [2]float32) [2]float32 {
	dx, dz := b[0]-a[0], b[1]-a[1]
	l := math32.Hypot(dx, dz)
	if l == 0 {
		return [2]float32{0, 0}
	}
	// For outlines wound so the extrusion normal is +Y, the interior lies to
	// the left of the direction of travel in (x, z).
	return [2]float32{dz / l, -dx / l}
}
