package mesh

import "github.com/Faultbox/orrery/internal/engine/gpu"

// DefaultAxisHalfLength is the half length of a body's axis indicator.
const DefaultAxisHalfLength = 70.0

// GenerateAxis returns the two endpoints of a segment along local Y
// through the origin.
func GenerateAxis(halfLength float32) []float32 {
	return []float32{
		0, -halfLength, 0,
		0, halfLength, 0,
	}
}

// Axis is an axis indicator line drawn in the owning body's local space.
type Axis struct {
	vao *gpu.VertexArray
}

// NewAxis uploads an axis segment.
func NewAxis(dev gpu.Device, halfLength float32) (*Axis, error) {
	vao, err := gpu.NewVertexArray(dev, gpu.Attr3(GenerateAxis(halfLength)))
	if err != nil {
		return nil, err
	}
	return &Axis{vao: vao}, nil
}

// Draw draws the axis as a line segment.
func (a *Axis) Draw() error {
	return a.vao.Draw(gpu.Lines)
}

// Dispose releases the GPU buffers.
func (a *Axis) Dispose() {
	a.vao.Dispose()
}
