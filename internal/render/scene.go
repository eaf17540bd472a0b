// Package render is the raylib backend for the configurator core: it
// implements the lifecycle.Scene interface, owning all GPU residency. The
// core packages never import raylib; they hand over plain mesh data, surface
// handles, and overlay segments, and this package uploads, draws, and frees
// them.
package render

import (
	"image"
	"image/color"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/Meloken/mas2/internal/annotation"
	"github.com/Meloken/mas2/internal/geometry"
	"github.com/Meloken/mas2/internal/lifecycle"
)

// Backend draws attached groups and frees their GPU resources on detach.
// GPU uploads are deferred to the first Draw after attach so they always run
// once the window/GL context exists.
type Backend struct {
	log    *zap.Logger
	groups map[*lifecycle.Group]*uploadedGroup

	shaders     shaderSet
	labelQuad   rl.Mesh
	labelMtl    rl.Material
	quadLoaded  bool
	GridVisible bool
}

// uploadedGroup is the GPU state of one attached group.
type uploadedGroup struct {
	src      *lifecycle.Group
	uploaded bool
	parts    []uploadedPart
	labels   map[*annotation.Label]rl.Texture2D
}

type uploadedPart struct {
	mesh      rl.Mesh
	mtl       rl.Material
	transform rl.Matrix
	part      *geometry.Part
}

// NewBackend returns an empty backend. The grid is visible by default.
func NewBackend(log *zap.Logger) *Backend {
	if log == nil {
		log = zap.NewNop()
	}
	return &Backend{
		log:         log,
		groups:      make(map[*lifecycle.Group]*uploadedGroup),
		GridVisible: true,
	}
}

// Attach registers a group for drawing. Upload happens on the next Draw.
func (b *Backend) Attach(g *lifecycle.Group) {
	b.groups[g] = &uploadedGroup{
		src:    g,
		labels: make(map[*annotation.Label]rl.Texture2D),
	}
}

// Detach unloads all GPU resources of a group and removes it. After this
// call nothing of the group remains referenced by the backend.
func (b *Backend) Detach(g *lifecycle.Group) {
	ug, ok := b.groups[g]
	if !ok {
		return
	}
	for _, p := range ug.parts {
		rl.UnloadMesh(&p.mesh)
		unloadMaterial(p.mtl)
	}
	for _, tex := range ug.labels {
		rl.UnloadTexture(tex)
	}
	delete(b.groups, g)
}

// Draw renders all attached groups. Call between BeginMode3D and EndMode3D.
// camPos feeds the lit shader's view position.
func (b *Backend) Draw(cam rl.Camera3D) {
	b.shaders.ensure()
	b.shaders.setFrameUniforms(cam.Position)
	if b.GridVisible {
		drawFloorGrid()
	}
	for _, ug := range b.groups {
		if ug.src.Assembly != nil {
			b.drawAssembly(ug)
		}
		if ug.src.Overlay != nil {
			b.drawOverlay(cam, ug)
		}
	}
}

// drawAssembly uploads the group's parts on first use, then draws them.
func (b *Backend) drawAssembly(ug *uploadedGroup) {
	if !ug.uploaded {
		asm := ug.src.Assembly
		for i := range asm.Parts {
			part := &asm.Parts[i]
			ug.parts = append(ug.parts, uploadedPart{
				mesh:      uploadMesh(part.Mesh),
				mtl:       b.shaders.materialFor(part.Surface),
				transform: partTransform(part.Transform),
				part:      part,
			})
		}
		ug.uploaded = true
	}
	for i := range ug.parts {
		p := &ug.parts[i]
		b.applyTexture(p)
		setSpecular(p.mtl.Shader, p.part.Surface.Finish)
		rl.DrawMesh(p.mesh, p.mtl, p.transform)
	}
}

// applyTexture installs an arrived texture onto the part's material. The
// surface handle flags new pixels exactly once; re-uploads reuse the same
// GPU texture object.
func (b *Backend) applyTexture(p *uploadedPart) {
	img, dirty := p.part.Surface.Texture()
	if img == nil || !dirty {
		return
	}
	rlImg := rl.NewImageFromImage(img)
	tex := rl.LoadTextureFromImage(rlImg)
	rl.UnloadImage(rlImg)
	if !rl.IsTextureValid(tex) {
		b.log.Warn("texture upload failed", zap.String("material_id", p.part.Surface.SpecID))
		return
	}
	rl.SetTextureWrap(tex, rl.WrapRepeat)
	rl.SetTextureFilter(tex, rl.FilterBilinear)
	if albedo := p.mtl.GetMap(rl.MapAlbedo); albedo != nil && rl.IsTextureValid(albedo.Texture) {
		rl.UnloadTexture(albedo.Texture)
	}
	rl.SetMaterialTexture(&p.mtl, rl.MapAlbedo, tex)
	p.mtl.Shader = b.shaders.litTextured
}

// drawOverlay draws the dimension lines immediately and the label
// billboards from per-label textures that are re-uploaded in place when the
// backing image changed.
func (b *Backend) drawOverlay(cam rl.Camera3D, ug *uploadedGroup) {
	set := ug.src.Overlay
	if set.Disposed() {
		return
	}
	lineColor := rl.NewColor(235, 235, 240, 255)
	for i := range set.Indicators {
		ind := &set.Indicators[i]
		drawSegment(ind.Line, lineColor)
		drawSegment(ind.Caps[0], lineColor)
		drawSegment(ind.Caps[1], lineColor)
		b.drawLabel(ug, ind.Label)
	}
}

func drawSegment(s annotation.Segment, c rl.Color) {
	rl.DrawLine3D(
		rl.NewVector3(s.Start[0], s.Start[1], s.Start[2]),
		rl.NewVector3(s.End[0], s.End[1], s.End[2]),
		c,
	)
}

// drawLabel draws one label billboard, yawed toward the camera by the
// overlay's per-frame FaceCamera step.
func (b *Backend) drawLabel(ug *uploadedGroup, l *annotation.Label) {
	img, dirty := l.Backing()
	tex, ok := ug.labels[l]
	if !ok {
		rlImg := rl.NewImageFromImage(img)
		tex = rl.LoadTextureFromImage(rlImg)
		rl.UnloadImage(rlImg)
		ug.labels[l] = tex
	} else if dirty {
		rl.UpdateTexture(tex, rgbaPixels(img))
	}
	if !b.quadLoaded {
		b.labelQuad = rl.GenMeshPlane(1, 1, 1, 1)
		b.labelMtl = rl.LoadMaterialDefault()
		b.quadLoaded = true
	}
	w, h := l.WorldSize()
	rl.SetMaterialTexture(&b.labelMtl, rl.MapAlbedo, tex)
	// Stand the XZ plane upright, size it, yaw toward the camera, place it.
	m := rl.MatrixScale(w, 1, h)
	m = rl.MatrixMultiply(m, rl.MatrixRotateX(rl.Pi/2))
	m = rl.MatrixMultiply(m, rl.MatrixRotateY(l.Yaw))
	m = rl.MatrixMultiply(m, rl.MatrixTranslate(l.Position[0], l.Position[1], l.Position[2]))
	rl.DrawMesh(b.labelQuad, b.labelMtl, m)
}

// unloadMaterial frees a part material's textures. The lit shaders are
// shared across materials and stay loaded for the window's lifetime.
func unloadMaterial(mtl rl.Material) {
	if albedo := mtl.GetMap(rl.MapAlbedo); albedo != nil && rl.IsTextureValid(albedo.Texture) {
		rl.UnloadTexture(albedo.Texture)
	}
}

// texTilesPerMeter sets how often a material texture repeats across a
// surface. UVs are planar-mapped from local XZ so the pattern is continuous
// across the tabletop regardless of its size.
const texTilesPerMeter = 2

// uploadMesh copies a core mesh to the GPU. The Go slices only need to live
// until UploadMesh returns; raylib keeps its own copy.
func uploadMesh(m *geometry.Mesh) rl.Mesh {
	verts := make([]float32, 0, len(m.Positions)*3)
	norms := make([]float32, 0, len(m.Normals)*3)
	uvs := make([]float32, 0, len(m.Positions)*2)
	for _, p := range m.Positions {
		verts = append(verts, p[0], p[1], p[2])
		uvs = append(uvs, p[0]*texTilesPerMeter, p[2]*texTilesPerMeter)
	}
	for _, n := range m.Normals {
		norms = append(norms, n[0], n[1], n[2])
	}
	idx := make([]uint16, len(m.Indices))
	for i, v := range m.Indices {
		idx[i] = uint16(v)
	}
	var mesh rl.Mesh
	mesh.VertexCount = int32(len(m.Positions))
	mesh.TriangleCount = int32(len(m.Indices) / 3)
	mesh.Vertices = (*float32)(unsafe.Pointer(&verts[0]))
	mesh.Normals = (*float32)(unsafe.Pointer(&norms[0]))
	mesh.Texcoords = (*float32)(unsafe.Pointer(&uvs[0]))
	mesh.Indices = (*uint16)(unsafe.Pointer(&idx[0]))
	rl.UploadMesh(&mesh, false)
	return mesh
}

// partTransform builds the draw matrix for a part: Euler rotation (X, Y, Z)
// then translation.
func partTransform(t geometry.Transform) rl.Matrix {
	rot := rl.MatrixRotateXYZ(rl.NewVector3(t.Rotation[0], t.Rotation[1], t.Rotation[2]))
	trans := rl.MatrixTranslate(t.Position[0], t.Position[1], t.Position[2])
	return rl.MatrixMultiply(rot, trans)
}

// rgbaPixels converts an RGBA image to the color slice UpdateTexture wants.
func rgbaPixels(img *image.RGBA) []color.RGBA {
	b := img.Bounds()
	out := make([]color.RGBA, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out = append(out, img.RGBAAt(x, y))
		}
	}
	return out
}

// drawFloorGrid draws a simple grid on the XZ plane under the table.
func drawFloorGrid() {
	const extent = 4
	const step = 0.5
	minor := rl.NewColor(128, 128, 128, 60)
	for x := float32(-extent); x <= extent; x += step {
		rl.DrawLine3D(rl.NewVector3(x, 0, -extent), rl.NewVector3(x, 0, extent), minor)
		rl.DrawLine3D(rl.NewVector3(-extent, 0, x), rl.NewVector3(extent, 0, x), minor)
	}
}
