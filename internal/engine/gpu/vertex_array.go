package gpu

import (
	"fmt"
)

// Attribute is one vertex attribute stream: a flat array of Size-float vectors.
type Attribute struct {
	Size int32 // floats per vertex (1, 2 or 3)
	Data []float32
}

// Attr3 wraps a flat xyz array.
func Attr3(data []float32) Attribute { return Attribute{Size: 3, Data: data} }

// Attr2 wraps a flat uv array.
func Attr2(data []float32) Attribute { return Attribute{Size: 2, Data: data} }

// Attr1 wraps a flat scalar array.
func Attr1(data []float32) Attribute { return Attribute{Size: 1, Data: data} }

// count returns the number of vertices in the attribute.
func (a Attribute) count() int {
	return len(a.Data) / int(a.Size)
}

// VertexArray owns the attribute buffers and optional index buffer of one mesh.
// The owner must call Dispose; nothing is reclaimed implicitly.
type VertexArray struct {
	dev      Device
	vao      uint32
	buffers  []uint32
	ebo      uint32
	count    int32
	indexed  bool
	disposed bool
}

// NewVertexArray uploads attribs to slots 0, 1, 2... in argument order.
// All attributes must hold the same number of vertices.
func NewVertexArray(dev Device, attribs ...Attribute) (*VertexArray, error) {
	if len(attribs) == 0 {
		return nil, fmt.Errorf("vertex array needs at least one attribute")
	}

	n := -1
	for i, a := range attribs {
		if a.Size < 1 || a.Size > 4 {
			return nil, fmt.Errorf("attribute %d: invalid vector size %d", i, a.Size)
		}
		if len(a.Data)%int(a.Size) != 0 {
			return nil, fmt.Errorf("attribute %d: %d floats is not a multiple of %d", i, len(a.Data), a.Size)
		}
		if n >= 0 && a.count() != n {
			return nil, fmt.Errorf("attribute %d: %d vertices, want %d", i, a.count(), n)
		}
		n = a.count()
	}

	va := &VertexArray{
		dev:   dev,
		vao:   dev.CreateVertexArray(),
		count: int32(n),
	}

	dev.BindVertexArray(va.vao)
	for slot, a := range attribs {
		buf := dev.CreateBuffer()
		dev.UploadAttribute(buf, uint32(slot), a.Size, a.Data)
		va.buffers = append(va.buffers, buf)
	}
	dev.BindVertexArray(0)

	return va, nil
}

// AttachIndices uploads an index buffer; draws then use the index count.
func (va *VertexArray) AttachIndices(indices []uint32) error {
	if va.disposed {
		return ErrDisposed
	}

	va.dev.BindVertexArray(va.vao)
	if va.ebo == 0 {
		va.ebo = va.dev.CreateBuffer()
	}
	va.dev.UploadIndices(va.ebo, indices)
	va.dev.BindVertexArray(0)

	va.count = int32(len(indices))
	va.indexed = true
	return nil
}

// Draw binds the array, issues one draw call and unbinds again.
func (va *VertexArray) Draw(p Primitive) error {
	if va.disposed {
		return ErrDisposed
	}

	va.dev.BindVertexArray(va.vao)
	if va.indexed {
		va.dev.DrawElements(p, va.count)
	} else {
		va.dev.DrawArrays(p, va.count)
	}
	va.dev.BindVertexArray(0)
	return nil
}

// Count returns the number of vertices (or indices, once attached) drawn per call.
func (va *VertexArray) Count() int {
	return int(va.count)
}

// Indexed reports whether an index buffer is attached.
func (va *VertexArray) Indexed() bool {
	return va.indexed
}

// Disposed reports whether Dispose has been called.
func (va *VertexArray) Disposed() bool {
	return va.disposed
}

// Dispose releases all buffers and the array object. Calling it again is a no-op.
func (va *VertexArray) Dispose() {
	if va.disposed {
		return
	}
	va.disposed = true

	for _, buf := range va.buffers {
		va.dev.DeleteBuffer(buf)
	}
	if va.ebo != 0 {
		va.dev.DeleteBuffer(va.ebo)
	}
	va.dev.DeleteVertexArray(va.vao)
	va.buffers = nil
	va.ebo = 0
	va.vao = 0
}
