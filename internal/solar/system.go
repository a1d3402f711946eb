// Package solar is the scene graph of the planetary system: bodies, their
// hierarchy and the per-frame update and render passes.
package solar

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/catalog"
	"github.com/Faultbox/orrery/internal/engine/gpu"
	"github.com/Faultbox/orrery/internal/engine/lighting"
	"github.com/Faultbox/orrery/internal/engine/mesh"
	"github.com/Faultbox/orrery/internal/engine/shader"
	"github.com/Faultbox/orrery/internal/logger"
	"github.com/Faultbox/orrery/pkg/math"
)

var (
	ErrUnknownParent = errors.New("unknown parent body")
	ErrCycle         = errors.New("parent chain forms a cycle")
	ErrDuplicateBody = errors.New("duplicate body")
)

// MaxFocusTargets is the number of bodies reachable by focus keys.
const MaxFocusTargets = 10

// DefaultFocus is the camera distance factor used when a body sets none.
const DefaultFocus = 0.5

// BodySpec places one catalog body in the scene.
type BodySpec struct {
	Name        string
	Parent      string
	Style       Style
	TrackParent bool
	Color       []float32
	Focus       float32
}

// Textures resolves body names to texture handles. *texture.Loader satisfies it.
type Textures interface {
	LoadOrNone(name string) uint32
}

// Shading applies a lighting technique. *lighting.Dispatcher satisfies it.
type Shading interface {
	Apply(t lighting.Technique, in lighting.Params) (*shader.Program, error)
}

// BuildOptions configures Build.
type BuildOptions struct {
	Device   gpu.Device
	Catalog  *catalog.Catalog
	Textures Textures // optional
	Shading  Shading

	// Background is drawn first, never orbits and has no axis. Optional.
	Background *BodySpec
	Bodies     []BodySpec

	// LegacyWrap selects WrapOnce instead of WrapModulo.
	LegacyWrap bool
}

// System owns every body and runs the update and render passes.
type System struct {
	dev     gpu.Device
	shading Shading

	bodies     []*Body
	order      []int // parents strictly before children
	byName     map[string]int
	background int

	showOrbits bool
	showAxes   bool
	disposed   bool
}

// Build creates all bodies, resolves the hierarchy and uploads their meshes.
func Build(opts BuildOptions) (*System, error) {
	if opts.Device == nil || opts.Catalog == nil || opts.Shading == nil {
		return nil, errors.New("solar: device, catalog and shading are required")
	}

	wrap := WrapModulo
	if opts.LegacyWrap {
		wrap = WrapOnce
	}

	s := &System{
		dev:        opts.Device,
		shading:    opts.Shading,
		byName:     make(map[string]int),
		background: -1,
		showOrbits: true,
		showAxes:   true,
	}

	specs := opts.Bodies
	if opts.Background != nil {
		specs = append([]BodySpec{*opts.Background}, specs...)
	}

	for i, spec := range specs {
		key := strings.ToLower(strings.TrimSpace(spec.Name))
		if _, dup := s.byName[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateBody, spec.Name)
		}
		e, err := opts.Catalog.Lookup(spec.Name)
		if err != nil {
			return nil, fmt.Errorf("building %q: %w", spec.Name, err)
		}

		b := newBody(e, spec.Style, wrap)
		b.TrackParent = spec.TrackParent
		b.Focus = spec.Focus
		if b.Focus == 0 {
			b.Focus = DefaultFocus
		}
		if len(spec.Color) == 3 {
			b.Color = math.Vec3Of([3]float32(spec.Color))
		}
		if i == 0 && opts.Background != nil {
			b.background = true
			s.background = 0
		}

		s.byName[key] = len(s.bodies)
		s.bodies = append(s.bodies, b)
	}

	for i, spec := range specs {
		if spec.Parent == "" {
			continue
		}
		if s.bodies[i].background {
			return nil, fmt.Errorf("background %q cannot have a parent", spec.Name)
		}
		p, ok := s.byName[strings.ToLower(strings.TrimSpace(spec.Parent))]
		if !ok {
			return nil, fmt.Errorf("%w: %q (parent of %q)", ErrUnknownParent, spec.Parent, spec.Name)
		}
		s.bodies[i].parent = p
	}

	order, err := updateOrder(s.bodies)
	if err != nil {
		return nil, err
	}
	s.order = order

	// Place everything once so rings start centered on their parents.
	s.UpdateAll(0, 0)

	if err := s.upload(opts.Device, opts.Textures); err != nil {
		s.Dispose()
		return nil, err
	}

	logger.Named("solar").Info("system built",
		zap.Int("bodies", len(s.bodies)),
		zap.Bool("background", s.background >= 0),
	)
	return s, nil
}

// updateOrder returns body indices with every parent before its children,
// keeping table order where the hierarchy allows.
func updateOrder(bodies []*Body) ([]int, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(bodies))
	order := make([]int, 0, len(bodies))

	var visit func(i int, path []string) error
	visit = func(i int, path []string) error {
		switch state[i] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: %s", ErrCycle, strings.Join(append(path, bodies[i].Name), " -> "))
		}
		state[i] = visiting
		if p := bodies[i].parent; p >= 0 {
			if err := visit(p, append(path, bodies[i].Name)); err != nil {
				return err
			}
		}
		state[i] = done
		order = append(order, i)
		return nil
	}

	for i := range bodies {
		if err := visit(i, nil); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func (s *System) upload(dev gpu.Device, textures Textures) error {
	for _, b := range s.bodies {
		tex := gpu.NoTexture
		if textures != nil {
			tex = textures.LoadOrNone(b.Name)
		}

		var err error
		if b.sphere, err = mesh.NewSphere(dev, b.Radius, tex); err != nil {
			return fmt.Errorf("sphere for %q: %w", b.Name, err)
		}
		if !b.background {
			if b.axis, err = mesh.NewAxis(dev, mesh.DefaultAxisHalfLength); err != nil {
				return fmt.Errorf("axis for %q: %w", b.Name, err)
			}
			b.DrawAxis = true
		}
		if b.parent >= 0 {
			center := s.bodies[b.parent].Position()
			if b.ring, err = mesh.NewRing(dev, center, b.Distance); err != nil {
				return fmt.Errorf("orbit for %q: %w", b.Name, err)
			}
			b.DrawOrbit = true
		}
	}
	return nil
}

// Len returns the number of bodies, background included.
func (s *System) Len() int { return len(s.bodies) }

// Body returns the body at index i.
func (s *System) Body(i int) *Body { return s.bodies[i] }

// Order returns the update order as body indices.
func (s *System) Order() []int { return append([]int(nil), s.order...) }

// Index returns the index of the named body, ignoring case.
func (s *System) Index(name string) (int, bool) {
	i, ok := s.byName[strings.ToLower(strings.TrimSpace(name))]
	return i, ok
}

// Lookup returns the named body, ignoring case.
func (s *System) Lookup(name string) (*Body, bool) {
	i, ok := s.Index(name)
	if !ok {
		return nil, false
	}
	return s.bodies[i], true
}

// Background returns the background body, or nil.
func (s *System) Background() *Body {
	if s.background < 0 {
		return nil
	}
	return s.bodies[s.background]
}

// FocusTargets returns up to MaxFocusTargets non-background bodies in
// declaration order.
func (s *System) FocusTargets() []*Body {
	var out []*Body
	for _, b := range s.bodies {
		if b.background {
			continue
		}
		out = append(out, b)
		if len(out) == MaxFocusTargets {
			break
		}
	}
	return out
}

// UpdateAll advances every body, parents first.
func (s *System) UpdateAll(dt, hoursPerSecond float32) {
	for _, i := range s.order {
		s.Step(i, dt, hoursPerSecond)
	}
}

// Step advances body i alone, reading its parent's position as it is now.
// Stepping a child before its parent in a frame leaves the child one frame
// behind.
func (s *System) Step(i int, dt, hoursPerSecond float32) {
	b := s.bodies[i]
	var parentPos math.Vec3
	if b.parent >= 0 {
		parentPos = s.bodies[b.parent].Position()
	}
	b.Advance(dt, hoursPerSecond, parentPos)
}

// ShowOrbits reports whether orbit rings are drawn.
func (s *System) ShowOrbits() bool { return s.showOrbits }

// ShowAxes reports whether axis indicators are drawn.
func (s *System) ShowAxes() bool { return s.showAxes }

// ToggleOrbits flips orbit drawing for every body and returns the new state.
func (s *System) ToggleOrbits() bool {
	s.showOrbits = !s.showOrbits
	for _, b := range s.bodies {
		b.DrawOrbit = s.showOrbits && b.ring != nil
	}
	return s.showOrbits
}

// ToggleAxes flips axis drawing for every body and returns the new state.
func (s *System) ToggleAxes() bool {
	s.showAxes = !s.showAxes
	for _, b := range s.bodies {
		b.DrawAxis = s.showAxes && b.axis != nil
	}
	return s.showAxes
}

// Dispose releases every mesh. Calling it again is a no-op.
func (s *System) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	for _, b := range s.bodies {
		b.dispose()
	}
}
