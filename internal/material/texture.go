package material

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/transform"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxTextureDim is the largest texture edge kept at load time; bigger images
// are downscaled to bound GPU memory during rapid reconfiguration.
const maxTextureDim = 1024

// resultBuffer sizes the loader's result channel; enough that decode
// goroutines never block on a busy frame loop.
const resultBuffer = 8

// LoadResult is one finished texture fetch, delivered to the frame loop via
// Loader.Poll. HandleID identifies the requesting surface handle so a result
// arriving after that handle was disposed can be detected as stale.
type LoadResult struct {
	HandleID uuid.UUID
	Image    *image.RGBA
	Err      error
}

// Loader decodes texture images off the frame loop and applies them on it.
// Begin spawns the fetch; Poll (called once per frame) installs arrived
// images onto their handles. There is no cancellation: a superseded fetch
// simply arrives late and is discarded because its handle was released.
type Loader struct {
	assetDir string
	results  chan LoadResult
	inflight map[uuid.UUID]*SurfaceHandle
	log      *zap.Logger
}

// NewLoader returns a loader resolving texture paths under assetDir.
func NewLoader(assetDir string, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		assetDir: assetDir,
		results:  make(chan LoadResult, resultBuffer),
		inflight: make(map[uuid.UUID]*SurfaceHandle),
		log:      log,
	}
}

// Begin starts the asynchronous texture fetch for a handle realized from a
// spec with a texture path. No-op when the spec has no texture.
func (l *Loader) Begin(h *SurfaceHandle, spec Spec) {
	if spec.TexturePath == "" {
		return
	}
	l.inflight[h.ID] = h
	path := filepath.Join(l.assetDir, filepath.Clean(spec.TexturePath))
	go func(id uuid.UUID, path string) {
		img, err := decodeTexture(path)
		l.results <- LoadResult{HandleID: id, Image: img, Err: err}
	}(h.ID, path)
}

// Poll drains finished fetches and applies them to their handles. Called
// once per frame on the frame loop, so handle mutation stays on one
// goroutine's cadence. Results for released or unknown handles are discarded
// harmlessly; failures degrade the handle to flat color and are logged, never
// retried.
func (l *Loader) Poll() {
	for {
		select {
		case res := <-l.results:
			h, ok := l.inflight[res.HandleID]
			delete(l.inflight, res.HandleID)
			if !ok || h.Released() {
				continue // stale: the assembly it belonged to is gone
			}
			if res.Err != nil {
				h.markTextureFailed()
				l.log.Warn("texture load failed, using flat color",
					zap.String("material_id", h.SpecID), zap.Error(res.Err))
				continue
			}
			if !h.setTexture(res.Image) {
				continue
			}
		default:
			return
		}
	}
}

// Pending reports how many fetches are still in flight (for tests).
func (l *Loader) Pending() int {
	return len(l.inflight)
}

// decodeTexture reads and decodes an image file, converting to RGBA and
// downscaling when an edge exceeds maxTextureDim.
func decodeTexture(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	b := src.Bounds()
	if b.Dx() > maxTextureDim || b.Dy() > maxTextureDim {
		w, h := b.Dx(), b.Dy()
		if w >= h {
			h = h * maxTextureDim / w
			w = maxTextureDim
		} else {
			w = w * maxTextureDim / h
			h = maxTextureDim
		}
		return transform.Resize(src, w, h, transform.Linear), nil
	}
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, src, b.Min, draw.Src)
	return rgba, nil
}
