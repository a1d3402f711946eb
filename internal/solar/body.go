package solar

import (
	gomath "math"

	"github.com/Faultbox/orrery/internal/catalog"
	"github.com/Faultbox/orrery/internal/engine/lighting"
	"github.com/Faultbox/orrery/internal/engine/mesh"
	"github.com/Faultbox/orrery/pkg/math"
)

const twoPi = 2 * gomath.Pi

// WrapMode selects how accumulated angles are brought back into [0, 2π).
type WrapMode int

const (
	// WrapModulo reduces the angle modulo 2π, so any step size lands in range.
	WrapModulo WrapMode = iota
	// WrapOnce subtracts 2π at most once per tick when the angle exceeds it.
	// A step larger than 2π leaves the angle out of range.
	WrapOnce
)

// Body is one celestial body: a node of the scene hierarchy.
type Body struct {
	Name string

	Radius         float32
	Distance       float32 // from the parent's center
	RotationPeriod float32 // hours, 0 = no spin
	OrbitalPeriod  float32 // days, 0 = no orbit
	AxialTilt      float32 // degrees

	// DrawOrbit and DrawAxis toggle the guides.
	DrawOrbit bool
	DrawAxis  bool

	// TrackParent keeps the ring centered on the parent's current position.
	TrackParent bool

	Color math.Vec3 // for untextured styles
	Focus float32   // camera distance factor for FocusOn

	style      Style
	technique  lighting.Technique
	parent     int // index into the system table, -1 for roots
	background bool
	wrap       WrapMode

	orbitalAngle  float32
	rotationAngle float32
	world         math.Mat4

	sphere *mesh.Sphere
	ring   *mesh.Ring
	axis   *mesh.Axis
}

// newBody creates an unplaced body from a catalog entry.
func newBody(e catalog.Entry, style Style, wrap WrapMode) *Body {
	return &Body{
		Name:           e.Name,
		Radius:         e.Radius,
		Distance:       e.Distance,
		RotationPeriod: e.RotationPeriod,
		OrbitalPeriod:  e.OrbitalPeriod,
		AxialTilt:      e.AxialTilt,
		Color:          math.Splat(1),
		style:          style,
		technique:      style.Technique(),
		parent:         -1,
		wrap:           wrap,
		world:          math.Identity(),
	}
}

// Style returns the shading style.
func (b *Body) Style() Style { return b.style }

// Technique returns the lighting technique resolved from the style.
func (b *Body) Technique() lighting.Technique { return b.technique }

// HasParent reports whether the body orbits another body.
func (b *Body) HasParent() bool { return b.parent >= 0 }

// Parent returns the parent's index in the system, or -1.
func (b *Body) Parent() int { return b.parent }

// Background reports whether this is the scene's background body.
func (b *Body) Background() bool { return b.background }

// OrbitalAngle returns the orbital phase in radians.
func (b *Body) OrbitalAngle() float32 { return b.orbitalAngle }

// RotationAngle returns the spin phase in radians.
func (b *Body) RotationAngle() float32 { return b.rotationAngle }

// World returns the world transform.
func (b *Body) World() math.Mat4 { return b.world }

// Position returns the world position.
func (b *Body) Position() math.Vec3 { return b.world.Translation() }

// Ring returns the orbit ring, nil for roots.
func (b *Body) Ring() *mesh.Ring { return b.ring }

// Advance moves the body forward by dt real seconds at hoursPerSecond
// simulated hours per second. parentPos is the parent's world position for
// this frame and is ignored by roots.
func (b *Body) Advance(dt, hoursPerSecond float32, parentPos math.Vec3) {
	deltaHours := hoursPerSecond * dt
	deltaDays := deltaHours / 24

	if b.OrbitalPeriod != 0 {
		b.orbitalAngle = b.wrapAngle(b.orbitalAngle + deltaDays/b.OrbitalPeriod*twoPi)
	}
	if b.RotationPeriod != 0 {
		b.rotationAngle = b.wrapAngle(b.rotationAngle + deltaHours/b.RotationPeriod*twoPi)
	}

	// Spin about the local Y axis, then tilt the spin axis about X.
	local := math.RotateX(math.Radians(b.AxialTilt)).Mul(math.RotateY(b.rotationAngle))

	if b.parent < 0 {
		b.world = local
		return
	}

	angle := float64(b.orbitalAngle)
	b.world = local.WithTranslation(math.Vec3{
		X: b.Distance*float32(gomath.Cos(angle)) + parentPos.X,
		Y: 0,
		Z: b.Distance*float32(gomath.Sin(angle)) + parentPos.Z,
	})

	if b.TrackParent && b.ring != nil {
		b.ring.UpdatePosition(parentPos)
	}
}

func (b *Body) wrapAngle(a float32) float32 {
	if b.wrap == WrapOnce {
		if a > twoPi {
			a -= twoPi
		}
		return a
	}
	a = float32(gomath.Mod(float64(a), twoPi))
	if a < 0 {
		a += twoPi
	}
	if a >= twoPi {
		a = 0
	}
	return a
}

func (b *Body) dispose() {
	if b.sphere != nil {
		b.sphere.Dispose()
		b.sphere = nil
	}
	if b.ring != nil {
		b.ring.Dispose()
		b.ring = nil
	}
	if b.axis != nil {
		b.axis.Dispose()
		b.axis = nil
	}
}
