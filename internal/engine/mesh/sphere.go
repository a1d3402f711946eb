// Package mesh generates the procedural geometry of the orrery:
// UV spheres for bodies, orbit rings and axis indicators.
package mesh

import (
	gomath "math"

	"github.com/Faultbox/orrery/internal/engine/gpu"
)

// Default sphere tessellation.
const (
	DefaultSectors = 100
	DefaultStacks  = 30
)

// Geometry is CPU-side mesh data ready for upload.
type Geometry struct {
	Positions []float32 // xyz per vertex
	Normals   []float32 // xyz per vertex
	TexCoords []float32 // uv per vertex
	Indices   []uint32
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// TriangleCount returns the number of indexed triangles.
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// GenerateSphere builds a UV sphere of stacks+1 rings from the north pole (+Z)
// to the south pole, each ring holding sectors+1 vertices. The first and last
// vertex of a ring share position and normal but not texture coordinate, so
// the texture wraps without a seam.
func GenerateSphere(radius float32, sectors, stacks int) Geometry {
	n := (stacks + 1) * (sectors + 1)
	g := Geometry{
		Positions: make([]float32, 0, n*3),
		Normals:   make([]float32, 0, n*3),
		TexCoords: make([]float32, 0, n*2),
	}

	lengthInv := 1 / radius
	sectorStep := 2 * gomath.Pi / float64(sectors)
	stackStep := gomath.Pi / float64(stacks)

	for i := 0; i <= stacks; i++ {
		stackAngle := gomath.Pi/2 - float64(i)*stackStep
		xy := float64(radius) * gomath.Cos(stackAngle)
		z := float32(float64(radius) * gomath.Sin(stackAngle))

		for j := 0; j <= sectors; j++ {
			sectorAngle := float64(j) * sectorStep
			x := float32(xy * gomath.Cos(sectorAngle))
			y := float32(xy * gomath.Sin(sectorAngle))

			g.Positions = append(g.Positions, x, y, z)
			g.Normals = append(g.Normals, x*lengthInv, y*lengthInv, z*lengthInv)
			g.TexCoords = append(g.TexCoords, float32(j)/float32(sectors), float32(i)/float32(stacks))
		}
	}

	g.Indices = sphereIndices(sectors, stacks)
	return g
}

// sphereIndices emits two triangles per quad between adjacent stacks, except
// the first triangle on the top stack and the second on the bottom stack,
// which would collapse to zero area at the poles.
func sphereIndices(sectors, stacks int) []uint32 {
	indices := make([]uint32, 0, 6*sectors*(stacks-1))

	for i := 0; i < stacks; i++ {
		k1 := uint32(i * (sectors + 1)) // beginning of current stack
		k2 := k1 + uint32(sectors) + 1  // beginning of next stack

		for j := 0; j < sectors; j, k1, k2 = j+1, k1+1, k2+1 {
			if i != 0 {
				indices = append(indices, k1, k2, k1+1)
			}
			if i != stacks-1 {
				indices = append(indices, k1+1, k2, k2+1)
			}
		}
	}

	return indices
}

// Sphere is an uploaded UV sphere with an optional texture.
type Sphere struct {
	Radius float32

	dev     gpu.Device
	vao     *gpu.VertexArray
	texture uint32
}

// NewSphere uploads a default-resolution sphere. tex may be gpu.NoTexture.
func NewSphere(dev gpu.Device, radius float32, tex uint32) (*Sphere, error) {
	g := GenerateSphere(radius, DefaultSectors, DefaultStacks)

	vao, err := gpu.NewVertexArray(dev,
		gpu.Attr3(g.Positions),
		gpu.Attr3(g.Normals),
		gpu.Attr2(g.TexCoords),
	)
	if err != nil {
		return nil, err
	}
	if err := vao.AttachIndices(g.Indices); err != nil {
		vao.Dispose()
		return nil, err
	}

	return &Sphere{Radius: radius, dev: dev, vao: vao, texture: tex}, nil
}

// SetTexture replaces the texture handle. The sphere does not own textures.
func (s *Sphere) SetTexture(tex uint32) {
	s.texture = tex
}

// Textured reports whether a texture was applied.
func (s *Sphere) Textured() bool {
	return s.texture != gpu.NoTexture
}

// UseTexture binds the texture to unit. No-op without a texture.
func (s *Sphere) UseTexture(unit uint32) {
	if s.texture == gpu.NoTexture {
		return
	}
	s.dev.BindTexture(unit, s.texture)
}

// Draw draws the sphere as indexed triangles.
func (s *Sphere) Draw() error {
	return s.vao.Draw(gpu.Triangles)
}

// Dispose releases the GPU buffers.
func (s *Sphere) Dispose() {
	s.vao.Dispose()
}
