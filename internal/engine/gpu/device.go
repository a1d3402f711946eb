// Package gpu provides the minimal GPU abstraction used by meshes and shaders.
//
// The Device interface is the only place that talks to the graphics API.
// Production code uses the OpenGL implementation in package opengl;
// tests use the recording fake in package gputest.
package gpu

import (
	"errors"
	"fmt"
	"image"
)

// Primitive is the primitive kind passed to draw calls.
type Primitive int

const (
	Triangles Primitive = iota
	Lines
	LineLoop
	LineStrip
)

// String returns the primitive name.
func (p Primitive) String() string {
	switch p {
	case Triangles:
		return "triangles"
	case Lines:
		return "lines"
	case LineLoop:
		return "line_loop"
	case LineStrip:
		return "line_strip"
	default:
		return fmt.Sprintf("primitive(%d)", int(p))
	}
}

// Stage identifies a shader pipeline stage.
type Stage string

const (
	StageVertex   Stage = "vertex"
	StageFragment Stage = "fragment"
	StageLink     Stage = "link"
)

// NoTexture is the texture handle of "no texture".
const NoTexture uint32 = 0

// ErrDisposed is returned when a disposed resource is used.
var ErrDisposed = errors.New("gpu: resource used after dispose")

// CompileError reports a failed shader compile or program link.
type CompileError struct {
	Stage Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s stage failed: %s", e.Stage, e.Log)
}

// Device is the set of GPU operations the engine relies on.
// All methods must be called from the thread that owns the GL context.
type Device interface {
	// Vertex arrays and buffers
	CreateVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)
	CreateBuffer() uint32
	DeleteBuffer(buf uint32)
	UploadAttribute(buf uint32, slot uint32, size int32, data []float32)
	UploadIndices(buf uint32, data []uint32)
	DrawArrays(p Primitive, count int32)
	DrawElements(p Primitive, count int32)

	// Programs and uniforms
	CompileProgram(vertexSrc, fragmentSrc string) (uint32, error)
	UseProgram(program uint32)
	DeleteProgram(program uint32)
	UniformLocation(program uint32, name string) int32
	Uniform1f(loc int32, v float32)
	Uniform1i(loc int32, v int32)
	Uniform3f(loc int32, x, y, z float32)
	UniformMatrix4(loc int32, m *[16]float32)

	// Textures
	CreateTexture(img *image.RGBA) uint32
	BindTexture(unit uint32, tex uint32)
	DeleteTexture(tex uint32)

	// ReadPixels returns the RGBA contents of the current framebuffer,
	// bottom row first.
	ReadPixels(width, height int) []byte
}
