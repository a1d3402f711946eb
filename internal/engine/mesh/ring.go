package mesh

import (
	gomath "math"

	"github.com/Faultbox/orrery/internal/engine/gpu"
	"github.com/Faultbox/orrery/pkg/math"
)

// RingSides is the number of vertices of an orbit ring.
const RingSides = 120

// GenerateRing returns sides vertices on a circle of radius in the XZ plane,
// centered at the origin. Format: [x, y, z] per vertex.
func GenerateRing(radius float32, sides int) []float32 {
	verts := make([]float32, 0, sides*3)
	step := 2 * gomath.Pi / float64(sides)
	for i := 0; i < sides; i++ {
		alpha := float64(i) * step
		verts = append(verts,
			float32(float64(radius)*gomath.Cos(alpha)),
			0,
			float32(float64(radius)*gomath.Sin(alpha)),
		)
	}
	return verts
}

// Ring is an orbit guide drawn as a closed line loop. Its geometry is fixed at
// construction; only the translation follows the orbit center.
type Ring struct {
	Radius float32

	vao       *gpu.VertexArray
	center    math.Vec3
	transform math.Mat4
}

// NewRing uploads a ring of RingSides vertices around center.
func NewRing(dev gpu.Device, center math.Vec3, radius float32) (*Ring, error) {
	vao, err := gpu.NewVertexArray(dev, gpu.Attr3(GenerateRing(radius, RingSides)))
	if err != nil {
		return nil, err
	}
	r := &Ring{Radius: radius, vao: vao}
	r.UpdatePosition(center)
	return r, nil
}

// UpdatePosition moves the ring to a new center.
func (r *Ring) UpdatePosition(center math.Vec3) {
	r.center = center
	r.transform = math.TranslateVec3(center)
}

// Center returns the current ring center.
func (r *Ring) Center() math.Vec3 {
	return r.center
}

// Transform returns the ring's model matrix (translation only).
func (r *Ring) Transform() math.Mat4 {
	return r.transform
}

// Draw draws the ring as a line loop.
func (r *Ring) Draw() error {
	return r.vao.Draw(gpu.LineLoop)
}

// Dispose releases the GPU buffers.
func (r *Ring) Dispose() {
	r.vao.Dispose()
}
