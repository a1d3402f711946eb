// Package picking provides ray casting for selecting bodies on screen.
package picking

import (
	gomath "math"

	"github.com/Faultbox/orrery/pkg/math"
)

// Camera is the view a ray is cast from. Fov is the vertical field of view
// in degrees.
type Camera interface {
	Position() math.Vec3
	Front() math.Vec3
	Right() math.Vec3
	Up() math.Vec3
	Fov() float32
	Aspect() float32
}

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// At returns the point t units along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// ScreenToRay converts window coordinates to a world-space ray through the
// camera. screenX, screenY are pixel coordinates with the origin at the top
// left; viewportW/H are the window dimensions.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, cam Camera) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	halfH := float32(gomath.Tan(float64(math.Radians(cam.Fov())) / 2))
	halfW := halfH * cam.Aspect()

	dir := cam.Front().
		Add(cam.Right().Scale(ndcX * halfW)).
		Add(cam.Up().Scale(ndcY * halfH))

	return Ray{Origin: cam.Position(), Direction: dir.Normalize()}
}

// IntersectSphere tests the ray against a sphere.
// Returns the distance to the nearest intersection in front of the origin.
// If the ray starts inside the sphere, returns the exit distance.
func (r Ray) IntersectSphere(center math.Vec3, radius float32) (t float32, hit bool) {
	// |O + tD - C|^2 = r^2 with |D| = 1
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius

	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sq := float32(gomath.Sqrt(float64(disc)))

	t = -b - sq
	if t < 0 {
		t = -b + sq // inside the sphere
	}
	if t < 0 {
		return 0, false // sphere behind the origin
	}
	return t, true
}

// Sphere is a pickable sphere.
type Sphere struct {
	Center math.Vec3
	Radius float32
}

// Nearest returns the index of the closest sphere hit by the ray, or -1.
func (r Ray) Nearest(spheres []Sphere) int {
	best := -1
	bestT := float32(gomath.MaxFloat32)
	for i, s := range spheres {
		if t, ok := r.IntersectSphere(s.Center, s.Radius); ok && t < bestT {
			best, bestT = i, t
		}
	}
	return best
}
