// Package camera provides the free-flying camera used to explore the scene.
package camera

import (
	gomath "math"

	"github.com/Faultbox/orrery/pkg/math"
)

// Limits applied by Look and Zoom.
const (
	MaxPitch = 89.0
	MinFov   = 1.0
	MaxFov   = 90.0
)

var worldUp = math.Vec3{Y: 1}

// Direction is one of the six movement directions.
type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
	Up
	Down
)

// FlyCamera is a yaw/pitch camera that moves freely in world space.
// Angles are in degrees.
type FlyCamera struct {
	position math.Vec3
	yaw      float32
	pitch    float32
	fov      float32
	aspect   float32

	Near float32
	Far  float32

	// Speed is in world units per second, Sensitivity in degrees per pixel.
	Speed       float32
	Sensitivity float32

	front, right, up math.Vec3
}

// NewFlyCamera creates a camera at position looking down -Z.
func NewFlyCamera(position math.Vec3, aspect float32) *FlyCamera {
	c := &FlyCamera{
		position:    position,
		yaw:         -90,
		fov:         45,
		aspect:      aspect,
		Near:        0.1,
		Far:         10000,
		Speed:       60,
		Sensitivity: 0.1,
	}
	c.updateVectors()
	return c
}

// Position returns the camera position.
func (c *FlyCamera) Position() math.Vec3 { return c.position }

// SetPosition moves the camera without changing its orientation.
func (c *FlyCamera) SetPosition(p math.Vec3) { c.position = p }

// Front returns the unit view direction.
func (c *FlyCamera) Front() math.Vec3 { return c.front }

// Right returns the unit right vector.
func (c *FlyCamera) Right() math.Vec3 { return c.right }

// Up returns the unit up vector of the view.
func (c *FlyCamera) Up() math.Vec3 { return c.up }

func (c *FlyCamera) Yaw() float32   { return c.yaw }
func (c *FlyCamera) Pitch() float32 { return c.pitch }
func (c *FlyCamera) Fov() float32   { return c.fov }
func (c *FlyCamera) Aspect() float32 {
	return c.aspect
}

// SetOrientation sets yaw and pitch; pitch is clamped to ±MaxPitch.
func (c *FlyCamera) SetOrientation(yaw, pitch float32) {
	c.yaw = yaw
	c.pitch = clamp(pitch, -MaxPitch, MaxPitch)
	c.updateVectors()
}

// SetFov sets the vertical field of view, clamped to [MinFov, MaxFov].
func (c *FlyCamera) SetFov(fov float32) {
	c.fov = clamp(fov, MinFov, MaxFov)
}

// SetAspect updates the aspect ratio, e.g. after a window resize.
// Non-positive values are ignored.
func (c *FlyCamera) SetAspect(aspect float32) {
	if aspect > 0 {
		c.aspect = aspect
	}
}

// Move translates the camera by Speed*dt along dir.
func (c *FlyCamera) Move(dir Direction, dt float32) {
	step := c.Speed * dt
	switch dir {
	case Forward:
		c.position = c.position.Add(c.front.Scale(step))
	case Backward:
		c.position = c.position.Sub(c.front.Scale(step))
	case Left:
		c.position = c.position.Sub(c.right.Scale(step))
	case Right:
		c.position = c.position.Add(c.right.Scale(step))
	case Up:
		c.position = c.position.Add(c.up.Scale(step))
	case Down:
		c.position = c.position.Sub(c.up.Scale(step))
	}
}

// Look turns the camera by a mouse delta in pixels. Positive dy looks down.
func (c *FlyCamera) Look(dx, dy float32) {
	c.SetOrientation(c.yaw+dx*c.Sensitivity, c.pitch-dy*c.Sensitivity)
}

// Zoom narrows the field of view by a wheel delta.
func (c *FlyCamera) Zoom(delta float32) {
	c.SetFov(c.fov - delta)
}

// FocusOn places the camera distance units in front of target, keeping its
// orientation so target ends up in the center of the view.
func (c *FlyCamera) FocusOn(target math.Vec3, distance float32) {
	c.position = target.Sub(c.front.Scale(distance))
}

// ViewMatrix returns the world-to-view transform.
func (c *FlyCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.position, c.position.Add(c.front), c.up)
}

// ProjectionMatrix returns the perspective projection.
func (c *FlyCamera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(math.Radians(c.fov), c.aspect, c.Near, c.Far)
}

func (c *FlyCamera) updateVectors() {
	yaw := float64(math.Radians(c.yaw))
	pitch := float64(math.Radians(c.pitch))

	c.front = math.Vec3{
		X: float32(gomath.Cos(pitch) * gomath.Cos(yaw)),
		Y: float32(gomath.Sin(pitch)),
		Z: float32(gomath.Cos(pitch) * gomath.Sin(yaw)),
	}.Normalize()
	c.right = c.front.Cross(worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
