package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/chewxy/math32"
)

// autoRotateRadPerSec is the orbit speed when auto-rotate is on.
const autoRotateRadPerSec = 0.4

// Camera is an orbit camera around the table, with optional auto-rotate.
// The annotation overlay polls Position once per frame to face its labels.
type Camera struct {
	cam        rl.Camera3D
	angle      float32
	distance   float32
	height     float32
	AutoRotate bool
}

// NewCamera returns a perspective camera orbiting the origin.
func NewCamera() *Camera {
	c := &Camera{
		angle:    rl.Pi / 4,
		distance: 3.2,
		height:   1.7,
	}
	c.cam.Target = rl.NewVector3(0, 0.5, 0)
	c.cam.Up = rl.NewVector3(0, 1, 0)
	c.cam.Fovy = 45
	c.cam.Projection = rl.CameraPerspective
	c.place()
	return c
}

// Update advances the orbit: auto-rotate when enabled, plus mouse wheel zoom
// and left/right keys for manual orbiting.
func (c *Camera) Update(dt float32) {
	if c.AutoRotate {
		c.angle += autoRotateRadPerSec * dt
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		c.angle -= 1.5 * dt
	}
	if rl.IsKeyDown(rl.KeyRight) {
		c.angle += 1.5 * dt
	}
	c.distance -= rl.GetMouseWheelMove() * 0.2
	if c.distance < 1.2 {
		c.distance = 1.2
	}
	if c.distance > 8 {
		c.distance = 8
	}
	c.place()
}

func (c *Camera) place() {
	c.cam.Position = rl.NewVector3(
		c.distance*math32.Cos(c.angle),
		c.height,
		c.distance*math32.Sin(c.angle),
	)
}

// RL returns the raylib camera for BeginMode3D.
func (c *Camera) RL() rl.Camera3D { return c.cam }

// Position returns the camera position for label orientation.
func (c *Camera) Position() [3]float32 {
	return [3]float32{c.cam.Position.X, c.cam.Position.Y, c.cam.Position.Z}
}
