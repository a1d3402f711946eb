package lighting

import (
	"errors"
	"fmt"

	"github.com/Faultbox/orrery/internal/engine/shader"
	"github.com/Faultbox/orrery/pkg/math"
)

// Camera is the view the techniques need.
type Camera interface {
	Position() math.Vec3
	Front() math.Vec3
	Right() math.Vec3
	Up() math.Vec3
	ViewMatrix() math.Mat4
	ProjectionMatrix() math.Mat4
}

// Params carries everything a technique may read for one draw.
type Params struct {
	Model  math.Mat4
	Camera Camera

	LightPosition  math.Vec3
	LightDirection math.Vec3

	ObjectColor math.Vec3
	LightColor  math.Vec3
}

// ErrNoCamera is returned by Apply when Params has no camera.
var ErrNoCamera = errors.New("lighting: no camera")

// Dispatcher applies techniques through a shader library.
type Dispatcher struct {
	lib *shader.Library
}

// NewDispatcher creates a dispatcher compiling through lib.
func NewDispatcher(lib *shader.Library) *Dispatcher {
	return &Dispatcher{lib: lib}
}

// Program returns the compiled program of t.
func (d *Dispatcher) Program(t Technique) (*shader.Program, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("lighting: unknown technique %v", t)
	}
	r := table[t]
	p, err := d.lib.Program(r.vertex, r.fragment)
	if err != nil {
		return nil, fmt.Errorf("technique %s: %w", t, err)
	}
	return p, nil
}

// Preload compiles every technique so shader errors surface at startup.
func (d *Dispatcher) Preload() error {
	for _, t := range Techniques() {
		if _, err := d.Program(t); err != nil {
			return err
		}
	}
	return nil
}

// Apply makes t's program current and writes model, view and projection
// followed by the technique's own uniforms.
func (d *Dispatcher) Apply(t Technique, in Params) (*shader.Program, error) {
	if in.Camera == nil {
		return nil, ErrNoCamera
	}
	p, err := d.Program(t)
	if err != nil {
		return nil, err
	}

	p.Use()
	p.SetMat4("model", in.Model)
	p.SetMat4("view", in.Camera.ViewMatrix())
	p.SetMat4("projection", in.Camera.ProjectionMatrix())
	for _, b := range table[t].bindings {
		b.set(p, b.name, &in)
	}
	return p, nil
}
