package material

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealizeMergesOverrides(t *testing.T) {
	spec := Spec{ID: "oak", BaseColor: RGB{177, 144, 98}, Finish: WoodFinish()}
	rough := float32(0.2)
	metal := float32(0.9)
	h := Realize(spec, Overrides{Roughness: &rough, Metalness: &metal})

	assert.InDelta(t, 0.2, h.Finish.Roughness, 1e-6, "override wins")
	assert.InDelta(t, 0.9, h.Finish.Metalness, 1e-6)
	assert.InDelta(t, WoodFinish().Reflectivity, h.Finish.Reflectivity, 1e-6, "unset fields keep the spec default")
	assert.Equal(t, spec.BaseColor, h.BaseColor)
}

func TestRealizeHandlesAreIndependent(t *testing.T) {
	spec := Spec{ID: "oak", TexturePath: "textures/oak.png", Finish: WoodFinish()}
	a := Realize(spec, Overrides{})
	b := Realize(spec, Overrides{})

	assert.NotEqual(t, a.ID, b.ID)
	a.Release()
	assert.True(t, a.Released())
	assert.False(t, b.Released(), "releasing one handle never touches another")
	assert.Equal(t, TextureLoading, b.State())
}

func TestRealizeWithoutTextureStaysFlat(t *testing.T) {
	h := Realize(Spec{ID: "white-lacquer"}, Overrides{})
	assert.Equal(t, TextureNone, h.State())
	img, dirty := h.Texture()
	assert.Nil(t, img)
	assert.False(t, dirty)
}

func TestTextureClearsDirtyOnRead(t *testing.T) {
	h := Realize(Spec{ID: "oak", TexturePath: "textures/oak.png"}, Overrides{})
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	require.True(t, h.setTexture(img))

	got, dirty := h.Texture()
	assert.Same(t, img, got)
	assert.True(t, dirty, "first read after arrival reports new pixels")
	_, dirty = h.Texture()
	assert.False(t, dirty, "subsequent reads are clean")
}

func TestReleasedHandleDiscardsLateTexture(t *testing.T) {
	h := Realize(Spec{ID: "oak", TexturePath: "textures/oak.png"}, Overrides{})
	h.Release()
	assert.False(t, h.setTexture(image.NewRGBA(image.Rect(0, 0, 1, 1))))
	img, _ := h.Texture()
	assert.Nil(t, img)
}

func TestDiagnosticSurface(t *testing.T) {
	h := Diagnostic()
	assert.Equal(t, "diagnostic", h.SpecID)
	assert.Equal(t, RGB{255, 0, 255}, h.BaseColor)
	assert.Equal(t, TextureNone, h.State())
}

func writeTestPNG(t *testing.T, dir, rel string, w, h int) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(0, 0, color.RGBA{177, 144, 98, 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestLoaderDeliversTexture(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "textures/oak.png", 4, 4)

	spec := Spec{ID: "oak", TexturePath: "textures/oak.png"}
	h := Realize(spec, Overrides{})
	l := NewLoader(dir, nil)
	l.Begin(h, spec)
	assert.Equal(t, 1, l.Pending())

	require.Eventually(t, func() bool {
		l.Poll()
		return h.State() == TextureReady
	}, 2*time.Second, 5*time.Millisecond)

	assert.Zero(t, l.Pending())
	img, dirty := h.Texture()
	require.NotNil(t, img)
	assert.True(t, dirty)
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestLoaderMissingFileDegradesToFlatColor(t *testing.T) {
	spec := Spec{ID: "oak", TexturePath: "textures/missing.png"}
	h := Realize(spec, Overrides{})
	l := NewLoader(t.TempDir(), nil)
	l.Begin(h, spec)

	require.Eventually(t, func() bool {
		l.Poll()
		return h.State() == TextureFailed
	}, 2*time.Second, 5*time.Millisecond)

	img, _ := h.Texture()
	assert.Nil(t, img, "failed load leaves the handle on flat color")
}

func TestLoaderDiscardsResultForReleasedHandle(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "textures/oak.png", 4, 4)

	spec := Spec{ID: "oak", TexturePath: "textures/oak.png"}
	h := Realize(spec, Overrides{})
	l := NewLoader(dir, nil)
	l.Begin(h, spec)
	h.Release()

	require.Eventually(t, func() bool {
		l.Poll()
		return l.Pending() == 0
	}, 2*time.Second, 5*time.Millisecond)

	img, _ := h.Texture()
	assert.Nil(t, img, "a texture arriving after release is discarded")
	assert.True(t, h.Released())
}
