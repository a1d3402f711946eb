// Package opengl implements gpu.Device on top of OpenGL 4.1 core.
package opengl

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/orrery/internal/engine/gpu"
)

// Device is the OpenGL gpu.Device.
// IMPORTANT: gl.Init must have succeeded on the calling thread.
type Device struct {
	anisotropy float32
}

// New creates an OpenGL device. anisotropy <= 1 disables anisotropic filtering.
func New(anisotropy float32) *Device {
	return &Device{anisotropy: anisotropy}
}

func primitive(p gpu.Primitive) uint32 {
	switch p {
	case gpu.Lines:
		return gl.LINES
	case gpu.LineLoop:
		return gl.LINE_LOOP
	case gpu.LineStrip:
		return gl.LINE_STRIP
	default:
		return gl.TRIANGLES
	}
}

func (d *Device) CreateVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (d *Device) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (d *Device) DeleteVertexArray(vao uint32) {
	gl.DeleteVertexArrays(1, &vao)
}

func (d *Device) CreateBuffer() uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return buf
}

func (d *Device) DeleteBuffer(buf uint32) {
	gl.DeleteBuffers(1, &buf)
}

// UploadAttribute fills buf and wires it to slot of the bound vertex array.
func (d *Device) UploadAttribute(buf uint32, slot uint32, size int32, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	}
	gl.EnableVertexAttribArray(slot)
	gl.VertexAttribPointerWithOffset(slot, size, gl.FLOAT, false, 0, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// UploadIndices fills buf as the element buffer of the bound vertex array.
// The element binding is part of the vertex array state, so it is not reset here.
func (d *Device) UploadIndices(buf uint32, data []uint32) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf)
	if len(data) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)
	}
}

func (d *Device) DrawArrays(p gpu.Primitive, count int32) {
	gl.DrawArrays(primitive(p), 0, count)
}

func (d *Device) DrawElements(p gpu.Primitive, count int32) {
	gl.DrawElementsWithOffset(primitive(p), count, gl.UNSIGNED_INT, 0)
}

func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	return compileProgram(vertexSrc, fragmentSrc)
}

func (d *Device) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (d *Device) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *Device) Uniform1f(loc int32, v float32) {
	gl.Uniform1f(loc, v)
}

func (d *Device) Uniform1i(loc int32, v int32) {
	gl.Uniform1i(loc, v)
}

func (d *Device) Uniform3f(loc int32, x, y, z float32) {
	gl.Uniform3f(loc, x, y, z)
}

func (d *Device) UniformMatrix4(loc int32, m *[16]float32) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

// CreateTexture uploads img as a mipmapped, repeating 2D texture.
func (d *Device) CreateTexture(img *image.RGBA) uint32 {
	if img == nil || len(img.Pix) == 0 {
		return gpu.NoTexture
	}

	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	if d.anisotropy > 1 {
		gl.TexParameterf(gl.TEXTURE_2D, gl.TEXTURE_MAX_ANISOTROPY, d.anisotropy)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texID
}

func (d *Device) BindTexture(unit uint32, tex uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, tex)
}

func (d *Device) DeleteTexture(tex uint32) {
	gl.DeleteTextures(1, &tex)
}

func (d *Device) ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

// CheckError returns the pending OpenGL error, if any.
func CheckError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%s: gl error 0x%x", op, code)
	}
	return nil
}

var _ gpu.Device = (*Device)(nil)
