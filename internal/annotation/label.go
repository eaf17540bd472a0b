package annotation

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Label backing image size in pixels. Fixed so the backing can be redrawn
// in place on every refresh instead of reallocated.
const (
	labelImageW = 128
	labelImageH = 32
)

// labelWorldHeightM is the billboard height in scene units; width follows
// the backing image's aspect ratio.
const labelWorldHeightM = 0.07

// Label is one dimension text billboard. The backing image is allocated once
// and redrawn in place when the text changes; Dirty flips true so the render
// backend knows to re-upload the same texture rather than create a new one.
// Yaw is the per-frame camera-facing rotation and never touches the backing.
type Label struct {
	Text     string
	Position [3]float32
	Yaw      float32

	backing *image.RGBA
	dirty   bool
}

// newLabel allocates the backing image and draws the initial text.
func newLabel(text string, pos [3]float32) *Label {
	l := &Label{
		Position: pos,
		backing:  image.NewRGBA(image.Rect(0, 0, labelImageW, labelImageH)),
	}
	l.SetText(text)
	return l
}

// SetText redraws the text onto the existing backing image and marks it for
// re-upload. No-op when the text is unchanged.
func (l *Label) SetText(text string) {
	if text == l.Text {
		return
	}
	l.Text = text
	draw.Draw(l.backing, l.backing.Bounds(), image.NewUniform(color.RGBA{20, 20, 24, 230}), image.Point{}, draw.Src)
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	d := font.Drawer{
		Dst:  l.backing,
		Src:  image.White,
		Face: face,
		Dot: fixed.P(
			(labelImageW-width)/2,
			(labelImageH+face.Metrics().Ascent.Ceil())/2,
		),
	}
	d.DrawString(text)
	l.dirty = true
}

// Backing returns the label's image and whether it changed since the last
// call, clearing the dirty flag. The returned pointer is stable for the
// label's lifetime.
func (l *Label) Backing() (img *image.RGBA, dirty bool) {
	img, dirty = l.backing, l.dirty
	l.dirty = false
	return img, dirty
}

// WorldSize returns the billboard's width and height in scene units.
func (l *Label) WorldSize() (w, h float32) {
	h = labelWorldHeightM
	w = h * float32(labelImageW) / float32(labelImageH)
	return w, h
}
