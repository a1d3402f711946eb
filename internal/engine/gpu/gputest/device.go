// Package gputest provides a recording gpu.Device for tests.
package gputest

import (
	"fmt"
	"image"
	"strings"

	"github.com/Faultbox/orrery/internal/engine/gpu"
)

// Draw records one draw call.
type Draw struct {
	VAO       uint32
	Program   uint32
	Primitive gpu.Primitive
	Count     int32
	Indexed   bool
	Texture   uint32 // bound to unit 0 at draw time
}

// Uniform records one uniform write.
type Uniform struct {
	Program uint32
	Name    string
	Value   any // float32, int32, [3]float32 or [16]float32
}

// Device is an in-memory gpu.Device that records every call.
// FailSource makes CompileProgram fail for any source containing the string.
type Device struct {
	FailSource string
	FailStage  gpu.Stage

	nextID uint32

	boundVAO     uint32
	program      uint32
	textureUnits map[uint32]uint32

	LiveVAOs     map[uint32]bool
	LiveBuffers  map[uint32]bool
	LivePrograms map[uint32]bool
	LiveTextures map[uint32]bool

	Attributes map[uint32][]float32 // buffer -> data
	Slots      map[uint32]int32     // slot -> vector size, last upload
	Indices    map[uint32][]uint32  // buffer -> data

	// Programs maps a program id to its vertex and fragment source.
	Programs map[uint32][2]string

	Draws    []Draw
	Uniforms []Uniform

	locations map[int32]uniformLoc
	nextLoc   int32

	DeletedBuffers int
	DeletedVAOs    int
}

type uniformLoc struct {
	program uint32
	name    string
}

// New returns an empty recording device.
func New() *Device {
	return &Device{
		textureUnits: make(map[uint32]uint32),
		LiveVAOs:     make(map[uint32]bool),
		LiveBuffers:  make(map[uint32]bool),
		LivePrograms: make(map[uint32]bool),
		LiveTextures: make(map[uint32]bool),
		Attributes:   make(map[uint32][]float32),
		Slots:        make(map[uint32]int32),
		Indices:      make(map[uint32][]uint32),
		Programs:     make(map[uint32][2]string),
		locations:    make(map[int32]uniformLoc),
	}
}

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

func (d *Device) CreateVertexArray() uint32 {
	id := d.id()
	d.LiveVAOs[id] = true
	return id
}

func (d *Device) BindVertexArray(vao uint32) { d.boundVAO = vao }

// BoundVertexArray returns the currently bound array (0 when none).
func (d *Device) BoundVertexArray() uint32 { return d.boundVAO }

func (d *Device) DeleteVertexArray(vao uint32) {
	if !d.LiveVAOs[vao] {
		panic(fmt.Sprintf("gputest: double delete of vertex array %d", vao))
	}
	delete(d.LiveVAOs, vao)
	d.DeletedVAOs++
}

func (d *Device) CreateBuffer() uint32 {
	id := d.id()
	d.LiveBuffers[id] = true
	return id
}

func (d *Device) DeleteBuffer(buf uint32) {
	if !d.LiveBuffers[buf] {
		panic(fmt.Sprintf("gputest: double delete of buffer %d", buf))
	}
	delete(d.LiveBuffers, buf)
	d.DeletedBuffers++
}

func (d *Device) UploadAttribute(buf uint32, slot uint32, size int32, data []float32) {
	d.Attributes[buf] = append([]float32(nil), data...)
	d.Slots[slot] = size
}

func (d *Device) UploadIndices(buf uint32, data []uint32) {
	d.Indices[buf] = append([]uint32(nil), data...)
}

func (d *Device) DrawArrays(p gpu.Primitive, count int32) {
	d.Draws = append(d.Draws, Draw{VAO: d.boundVAO, Program: d.program, Primitive: p, Count: count, Texture: d.textureUnits[0]})
}

func (d *Device) DrawElements(p gpu.Primitive, count int32) {
	d.Draws = append(d.Draws, Draw{VAO: d.boundVAO, Program: d.program, Primitive: p, Count: count, Indexed: true, Texture: d.textureUnits[0]})
}

func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	if d.FailSource != "" && (strings.Contains(vertexSrc, d.FailSource) || strings.Contains(fragmentSrc, d.FailSource)) {
		stage := d.FailStage
		if stage == "" {
			stage = gpu.StageFragment
		}
		return 0, &gpu.CompileError{Stage: stage, Log: "0:1: syntax error"}
	}
	id := d.id()
	d.LivePrograms[id] = true
	d.Programs[id] = [2]string{vertexSrc, fragmentSrc}
	return id, nil
}

func (d *Device) UseProgram(program uint32) { d.program = program }

// CurrentProgram returns the program bound by the last UseProgram.
func (d *Device) CurrentProgram() uint32 { return d.program }

func (d *Device) DeleteProgram(program uint32) {
	delete(d.LivePrograms, program)
}

// UniformLocation hands out a location for every name except those
// starting with "missing", which report -1 like an inactive uniform.
func (d *Device) UniformLocation(program uint32, name string) int32 {
	if strings.HasPrefix(name, "missing") {
		return -1
	}
	d.nextLoc++
	d.locations[d.nextLoc] = uniformLoc{program: program, name: name}
	return d.nextLoc
}

func (d *Device) record(loc int32, v any) {
	if loc < 0 {
		return
	}
	u := d.locations[loc]
	d.Uniforms = append(d.Uniforms, Uniform{Program: u.program, Name: u.name, Value: v})
}

func (d *Device) Uniform1f(loc int32, v float32)       { d.record(loc, v) }
func (d *Device) Uniform1i(loc int32, v int32)         { d.record(loc, v) }
func (d *Device) Uniform3f(loc int32, x, y, z float32) { d.record(loc, [3]float32{x, y, z}) }
func (d *Device) UniformMatrix4(loc int32, m *[16]float32) {
	d.record(loc, *m)
}

func (d *Device) CreateTexture(img *image.RGBA) uint32 {
	id := d.id()
	d.LiveTextures[id] = true
	return id
}

func (d *Device) BindTexture(unit uint32, tex uint32) { d.textureUnits[unit] = tex }

// TextureAt returns the texture bound to unit.
func (d *Device) TextureAt(unit uint32) uint32 { return d.textureUnits[unit] }

func (d *Device) DeleteTexture(tex uint32) { delete(d.LiveTextures, tex) }

func (d *Device) ReadPixels(width, height int) []byte {
	return make([]byte, width*height*4)
}

// Last returns the most recent write of the named uniform.
func (d *Device) Last(name string) (any, bool) {
	for i := len(d.Uniforms) - 1; i >= 0; i-- {
		if d.Uniforms[i].Name == name {
			return d.Uniforms[i].Value, true
		}
	}
	return nil, false
}

// Names returns uniform names in write order, starting at index from.
func (d *Device) Names(from int) []string {
	var names []string
	for _, u := range d.Uniforms[from:] {
		names = append(names, u.Name)
	}
	return names
}

// Reset clears recorded draws and uniforms, keeping live resources.
func (d *Device) Reset() {
	d.Draws = nil
	d.Uniforms = nil
}

var _ gpu.Device = (*Device)(nil)
