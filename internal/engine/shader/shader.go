// Package shader loads, compiles and caches shader programs and provides
// typed uniform setters.
package shader

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/engine/gpu"
	"github.com/Faultbox/orrery/internal/logger"
	"github.com/Faultbox/orrery/pkg/math"
)

// Key names one shader source: a file within a category folder.
type Key struct {
	Name     string // e.g. "point.frag"
	Category string // e.g. "lighting"
}

// Path returns the slash path of the source, "<category>/<lower(name)>".
func (k Key) Path() string {
	return strings.ToLower(k.Category) + "/" + strings.ToLower(k.Name)
}

func (k Key) String() string {
	return k.Path()
}

// Loader resolves a source path to its contents. *assets.Manager satisfies it.
type Loader interface {
	Load(path string) ([]byte, error)
}

// Program is a linked shader program.
type Program struct {
	dev  gpu.Device
	id   uint32
	name string

	locations map[string]int32
}

// ID returns the GPU program handle.
func (p *Program) ID() uint32 {
	return p.id
}

// Name returns "<vertex> + <fragment>".
func (p *Program) Name() string {
	return p.name
}

// Use makes the program current.
func (p *Program) Use() {
	p.dev.UseProgram(p.id)
}

// location returns the cached uniform location. Unknown names resolve to -1
// and are reported once.
func (p *Program) location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := p.dev.UniformLocation(p.id, name)
	if loc < 0 {
		logger.Named("shader").Debug("uniform not found",
			zap.String("program", p.name),
			zap.String("uniform", name),
		)
	}
	p.locations[name] = loc
	return loc
}

// SetFloat sets a float uniform. Unknown names are ignored.
func (p *Program) SetFloat(name string, v float32) {
	if loc := p.location(name); loc >= 0 {
		p.dev.Uniform1f(loc, v)
	}
}

// SetInt sets an int (or sampler) uniform.
func (p *Program) SetInt(name string, v int32) {
	if loc := p.location(name); loc >= 0 {
		p.dev.Uniform1i(loc, v)
	}
}

// SetVec3 sets a vec3 uniform.
func (p *Program) SetVec3(name string, v math.Vec3) {
	if loc := p.location(name); loc >= 0 {
		p.dev.Uniform3f(loc, v.X, v.Y, v.Z)
	}
}

// SetMat4 sets a mat4 uniform.
func (p *Program) SetMat4(name string, m math.Mat4) {
	if loc := p.location(name); loc >= 0 {
		arr := [16]float32(m)
		p.dev.UniformMatrix4(loc, &arr)
	}
}

// pair identifies a program by its two sources.
type pair struct {
	vertex, fragment Key
}

// Library compiles programs on first use and caches them by source pair.
// It is used from the render thread only.
type Library struct {
	dev      gpu.Device
	loader   Loader
	programs map[pair]*Program
}

// NewLibrary creates a library reading sources through loader.
func NewLibrary(dev gpu.Device, loader Loader) *Library {
	return &Library{
		dev:      dev,
		loader:   loader,
		programs: make(map[pair]*Program),
	}
}

// Program returns the program linking vertex and fragment, compiling it on first use.
// Errors name the failing stage and source file.
func (l *Library) Program(vertex, fragment Key) (*Program, error) {
	k := pair{vertex, fragment}
	if p, ok := l.programs[k]; ok {
		return p, nil
	}

	vs, err := l.loader.Load(vertex.Path())
	if err != nil {
		return nil, fmt.Errorf("loading vertex shader %s: %w", vertex, err)
	}
	fs, err := l.loader.Load(fragment.Path())
	if err != nil {
		return nil, fmt.Errorf("loading fragment shader %s: %w", fragment, err)
	}

	id, err := l.dev.CompileProgram(string(vs), string(fs))
	if err != nil {
		var ce *gpu.CompileError
		if errors.As(err, &ce) {
			file := vertex.Path()
			switch ce.Stage {
			case gpu.StageFragment:
				file = fragment.Path()
			case gpu.StageLink:
				file = vertex.Path() + " + " + fragment.Path()
			}
			return nil, fmt.Errorf("shader %s: %w", file, err)
		}
		return nil, fmt.Errorf("shader %s + %s: %w", vertex, fragment, err)
	}

	p := &Program{
		dev:       l.dev,
		id:        id,
		name:      vertex.Path() + " + " + fragment.Path(),
		locations: make(map[string]int32),
	}
	l.programs[k] = p

	logger.Named("shader").Debug("program compiled", zap.String("program", p.name), zap.Uint32("id", id))
	return p, nil
}

// Len returns the number of compiled programs.
func (l *Library) Len() int {
	return len(l.programs)
}

// Invalidate deletes every compiled program; the next Program call recompiles.
func (l *Library) Invalidate() {
	for k, p := range l.programs {
		l.dev.DeleteProgram(p.id)
		delete(l.programs, k)
	}
}

// Close releases all programs.
func (l *Library) Close() {
	l.Invalidate()
}
