package material

import (
	"image"
	"sync"

	"github.com/google/uuid"
)

// WoodFinish returns the finish defaults for wood-like tabletop surfaces.
func WoodFinish() Finish {
	return Finish{
		Roughness:          0.65,
		Metalness:          0,
		Reflectivity:       0.25,
		Clearcoat:          0.15,
		ClearcoatRoughness: 0.35,
	}
}

// MetalFinish returns the fixed preset for structural parts (legs, frames).
func MetalFinish() Finish {
	return Finish{
		Roughness:    0.45,
		Metalness:    0.85,
		Reflectivity: 0.5,
	}
}

// Structural returns the fixed spec used for legs and frames. It is not a
// catalog entry; the structural parts do not follow the tabletop material.
func Structural() Spec {
	return Spec{
		ID:          "steel",
		DisplayName: "Powder-coated steel",
		BaseColor:   RGB{58, 58, 62},
		Finish:      MetalFinish(),
	}
}

// Overrides holds partial finish parameters merged over a spec's defaults in
// Realize. Nil fields keep the default.
type Overrides struct {
	Roughness          *float32
	Metalness          *float32
	Reflectivity       *float32
	Clearcoat          *float32
	ClearcoatRoughness *float32
}

// merge applies the non-nil override fields over base.
func (o Overrides) merge(base Finish) Finish {
	if o.Roughness != nil {
		base.Roughness = *o.Roughness
	}
	if o.Metalness != nil {
		base.Metalness = *o.Metalness
	}
	if o.Reflectivity != nil {
		base.Reflectivity = *o.Reflectivity
	}
	if o.Clearcoat != nil {
		base.Clearcoat = *o.Clearcoat
	}
	if o.ClearcoatRoughness != nil {
		base.ClearcoatRoughness = *o.ClearcoatRoughness
	}
	return base
}

// TextureState tracks the asynchronous texture of a handle.
type TextureState int

const (
	// TextureNone means the material has no texture; flat base color only.
	TextureNone TextureState = iota
	// TextureLoading means a fetch is in flight; the handle renders with its
	// base color until the image arrives.
	TextureLoading
	// TextureReady means the image arrived and is waiting for (or has had)
	// GPU upload.
	TextureReady
	// TextureFailed means the load failed; the handle stays on flat color.
	TextureFailed
)

// SurfaceHandle is one realized, renderable material instance: base color,
// finish, and optional texture. Handles are independent per Realize call:
// two handles for the same id never share texture state, so disposing one
// while another configuration's load is still in flight is safe.
//
// The texture image lives on the handle until the render backend uploads it;
// Dirty flips true when new pixels are waiting for upload.
type SurfaceHandle struct {
	ID        uuid.UUID
	SpecID    string
	BaseColor RGB
	Finish    Finish

	mu       sync.Mutex
	state    TextureState
	img      *image.RGBA
	dirty    bool
	released bool
}

// Realize produces an independent surface handle from a spec, merging the
// given partial overrides over the spec's finish defaults. If the spec names
// a texture, the caller starts the asynchronous load via Loader.Begin; the
// handle is usable immediately with the base color.
func Realize(spec Spec, overrides Overrides) *SurfaceHandle {
	h := &SurfaceHandle{
		ID:        uuid.New(),
		SpecID:    spec.ID,
		BaseColor: spec.BaseColor,
		Finish:    overrides.merge(spec.Finish),
	}
	if spec.TexturePath != "" {
		h.state = TextureLoading
	}
	return h
}

// Diagnostic returns the bright placeholder surface used when a synchronous
// material construction fails, so the scene never holds a part without a
// material.
func Diagnostic() *SurfaceHandle {
	return &SurfaceHandle{
		ID:        uuid.New(),
		SpecID:    "diagnostic",
		BaseColor: RGB{255, 0, 255},
		Finish:    Finish{Roughness: 1},
	}
}

// State returns the handle's texture state.
func (h *SurfaceHandle) State() TextureState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Texture returns the decoded texture image and whether new pixels are
// waiting for upload, clearing the dirty flag. Returns nil while no image
// has arrived.
func (h *SurfaceHandle) Texture() (img *image.RGBA, dirty bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	img, dirty = h.img, h.dirty
	h.dirty = false
	return img, dirty
}

// Release disposes the handle's texture resources. A released handle stays
// on flat color forever; a texture arriving after release is discarded by
// the loader (stale by identity).
func (h *SurfaceHandle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.released = true
	h.img = nil
	h.dirty = false
}

// Released reports whether the handle has been disposed.
func (h *SurfaceHandle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// setTexture installs an arrived texture image; no-op if the handle was
// released while the load was in flight.
func (h *SurfaceHandle) setTexture(img *image.RGBA) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return false
	}
	h.img = img
	h.state = TextureReady
	h.dirty = true
	return true
}

// markTextureFailed degrades the handle to flat base-color rendering.
func (h *SurfaceHandle) markTextureFailed() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return
	}
	h.state = TextureFailed
}
