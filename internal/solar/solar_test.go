package solar

import (
	"errors"
	gomath "math"
	"reflect"
	"testing"

	"github.com/Faultbox/orrery/internal/assets"
	"github.com/Faultbox/orrery/internal/catalog"
	"github.com/Faultbox/orrery/internal/engine/gpu"
	"github.com/Faultbox/orrery/internal/engine/gpu/gputest"
	"github.com/Faultbox/orrery/internal/engine/lighting"
	"github.com/Faultbox/orrery/internal/engine/shader"
	"github.com/Faultbox/orrery/internal/engine/shader/glsl"
	"github.com/Faultbox/orrery/pkg/math"
)

const tol = 1e-3

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < tol
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(
		catalog.Entry{Name: "sky", Radius: 1500},
		catalog.Entry{Name: "sun", Radius: 20, RotationPeriod: 609.12},
		catalog.Entry{Name: "earth", Radius: 4, Distance: 100, RotationPeriod: 24, OrbitalPeriod: 365, AxialTilt: 23.4},
		catalog.Entry{Name: "moon", Radius: 1, Distance: 8, RotationPeriod: 655.7, OrbitalPeriod: 27.3, AxialTilt: 6.7},
		catalog.Entry{Name: "mars", Radius: 2, Distance: 130, RotationPeriod: 24.6, OrbitalPeriod: 687, AxialTilt: 25.2},
	)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func newDispatcher(t *testing.T, dev gpu.Device) *lighting.Dispatcher {
	t.Helper()
	m := assets.NewManager()
	m.AddFS("embedded", glsl.FS)
	t.Cleanup(m.Close)
	return lighting.NewDispatcher(shader.NewLibrary(dev, m))
}

type fakeTextures map[string]uint32

func (f fakeTextures) LoadOrNone(name string) uint32 { return f[name] }

func defaultSpecs() []BodySpec {
	return []BodySpec{
		{Name: "sun", Style: Emissive, Focus: 1.5},
		{Name: "earth", Parent: "sun"},
		{Name: "moon", Parent: "earth", TrackParent: true, Focus: 0.3},
		{Name: "mars", Parent: "sun", Style: Directional},
	}
}

func build(t *testing.T, specs []BodySpec, legacy bool) (*System, *gputest.Device) {
	t.Helper()
	dev := gputest.New()
	s, err := Build(BuildOptions{
		Device:     dev,
		Catalog:    testCatalog(t),
		Textures:   fakeTextures{},
		Shading:    newDispatcher(t, dev),
		Background: &BodySpec{Name: "sky", Style: Emissive},
		Bodies:     specs,
		LegacyWrap: legacy,
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	t.Cleanup(s.Dispose)
	return s, dev
}

func body(t *testing.T, s *System, name string) *Body {
	t.Helper()
	b, ok := s.Lookup(name)
	if !ok {
		t.Fatalf("no body %q", name)
	}
	return b
}

func TestEarthScenario(t *testing.T) {
	s, _ := build(t, defaultSpecs(), false)
	earth := body(t, s, "earth")

	// 24 simulated hours per second for 36.5 seconds is 36.5 days
	s.UpdateAll(36.5, 24)

	if want := float32(0.2 * gomath.Pi); !near(earth.OrbitalAngle(), want) {
		t.Errorf("orbital angle = %v, want %v", earth.OrbitalAngle(), want)
	}
	pos := earth.Position()
	wantX := float32(100 * gomath.Cos(0.2*gomath.Pi))
	wantZ := float32(100 * gomath.Sin(0.2*gomath.Pi))
	if !near(pos.X, wantX) || pos.Y != 0 || !near(pos.Z, wantZ) {
		t.Errorf("position = %v, want (%v, 0, %v)", pos, wantX, wantZ)
	}
	// 36.5 days of 24 h spins leave half a turn
	if !near(earth.RotationAngle(), gomath.Pi) {
		t.Errorf("rotation angle = %v, want π", earth.RotationAngle())
	}
}

func TestFullPeriodReturns(t *testing.T) {
	s, _ := build(t, defaultSpecs(), false)
	earth := body(t, s, "earth")
	start := earth.OrbitalAngle()

	for i := 0; i < 365; i++ {
		s.UpdateAll(1, 24)
	}

	d := gomath.Mod(float64(earth.OrbitalAngle()-start)+2*gomath.Pi, 2*gomath.Pi)
	if d > tol && 2*gomath.Pi-d > tol {
		t.Errorf("after one period angle moved by %v", d)
	}
}

func TestAngleWrap(t *testing.T) {
	tests := []struct {
		name    string
		legacy  bool
		inRange bool
	}{
		{"modulo", false, true},
		{"single subtraction", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := build(t, defaultSpecs(), tt.legacy)
			earth := body(t, s, "earth")

			// 1000 days in one tick is almost three orbits
			s.UpdateAll(1000, 24)

			a := earth.OrbitalAngle()
			got := a >= 0 && a < 2*gomath.Pi
			if got != tt.inRange {
				t.Errorf("angle %v in [0, 2π) = %v, want %v", a, got, tt.inRange)
			}
		})
	}
}

func TestNegativePeriodWrapsIntoRange(t *testing.T) {
	c, err := catalog.New(
		catalog.Entry{Name: "sun", Radius: 20},
		catalog.Entry{Name: "venus", Radius: 3.5, Distance: 60, RotationPeriod: -5832.5, OrbitalPeriod: 224.7},
	)
	if err != nil {
		t.Fatal(err)
	}
	dev := gputest.New()
	s, err := Build(BuildOptions{
		Device:  dev,
		Catalog: c,
		Shading: newDispatcher(t, dev),
		Bodies:  []BodySpec{{Name: "sun"}, {Name: "venus", Parent: "sun"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Dispose()

	s.UpdateAll(10, 24)
	if a := body(t, s, "venus").RotationAngle(); a < 0 || a >= 2*gomath.Pi {
		t.Errorf("rotation angle = %v, want [0, 2π)", a)
	}
}

func TestZeroRotationPeriod(t *testing.T) {
	s, _ := build(t, defaultSpecs(), false)
	sky := s.Background()

	for _, dt := range []float32{0.016, 1, 5000} {
		s.UpdateAll(dt, 24)
		if sky.RotationAngle() != 0 || sky.OrbitalAngle() != 0 {
			t.Fatalf("background moved: rotation %v orbit %v", sky.RotationAngle(), sky.OrbitalAngle())
		}
	}
}

func TestChildFollowsParent(t *testing.T) {
	s, _ := build(t, defaultSpecs(), false)
	earth, moon := body(t, s, "earth"), body(t, s, "moon")

	for i := 0; i < 50; i++ {
		s.UpdateAll(0.5, 24)

		ep, mp := earth.Position(), moon.Position()
		a := float64(moon.OrbitalAngle())
		wantX := 8*float32(gomath.Cos(a)) + ep.X
		wantZ := 8*float32(gomath.Sin(a)) + ep.Z
		if !near(mp.X, wantX) || !near(mp.Z, wantZ) || mp.Y != 0 {
			t.Fatalf("tick %d: moon = %v, want (%v, 0, %v)", i, mp, wantX, wantZ)
		}
	}
}

func TestOnlyTranslationIsInherited(t *testing.T) {
	s, _ := build(t, defaultSpecs(), false)
	s.UpdateAll(3, 24)

	moon := body(t, s, "moon")
	want := math.RotateX(math.Radians(moon.AxialTilt)).Mul(math.RotateY(moon.RotationAngle()))
	got := moon.World()
	for i := 0; i < 12; i++ {
		if !near(got[i], want[i]) {
			t.Fatalf("rotation part [%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestUpdateOrderLag(t *testing.T) {
	s, _ := build(t, defaultSpecs(), false)
	ei, _ := s.Index("earth")
	mi, _ := s.Index("moon")
	earth, moon := s.Body(ei), s.Body(mi)

	s.UpdateAll(1, 24)
	before := earth.Position()

	// Child first: the moon reads last frame's earth
	s.Step(mi, 1, 24)
	s.Step(ei, 1, 24)

	a := float64(moon.OrbitalAngle())
	stale := 8*float32(gomath.Cos(a)) + before.X
	fresh := 8*float32(gomath.Cos(a)) + earth.Position().X
	if !near(moon.Position().X, stale) {
		t.Errorf("moon x = %v, want stale %v", moon.Position().X, stale)
	}
	if near(stale, fresh) {
		t.Fatal("earth did not move between frames")
	}

	// The ordered pass catches up
	s.UpdateAll(0, 24)
	if !near(moon.Position().X, fresh) {
		t.Errorf("moon x after ordered pass = %v, want %v", moon.Position().X, fresh)
	}
}

func TestOrderPutsParentsFirst(t *testing.T) {
	specs := []BodySpec{
		{Name: "moon", Parent: "earth"},
		{Name: "earth", Parent: "sun"},
		{Name: "sun"},
	}
	s, _ := build(t, specs, false)

	pos := make(map[int]int)
	for n, i := range s.Order() {
		pos[i] = n
	}
	for i := 0; i < s.Len(); i++ {
		b := s.Body(i)
		if b.HasParent() && pos[b.Parent()] >= pos[i] {
			t.Errorf("%s updated before its parent", b.Name)
		}
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		specs []BodySpec
		want  error
	}{
		{"unknown parent", []BodySpec{{Name: "earth", Parent: "vulcan"}}, ErrUnknownParent},
		{"cycle", []BodySpec{{Name: "earth", Parent: "moon"}, {Name: "moon", Parent: "earth"}}, ErrCycle},
		{"self parent", []BodySpec{{Name: "earth", Parent: "Earth"}}, ErrCycle},
		{"duplicate", []BodySpec{{Name: "earth"}, {Name: "EARTH"}}, ErrDuplicateBody},
		{"not in catalog", []BodySpec{{Name: "pluto"}}, catalog.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := gputest.New()
			_, err := Build(BuildOptions{
				Device:  dev,
				Catalog: testCatalog(t),
				Shading: newDispatcher(t, dev),
				Bodies:  tt.specs,
			})
			if !errors.Is(err, tt.want) {
				t.Errorf("Build() error = %v, want %v", err, tt.want)
			}
			if len(dev.LiveVAOs) != 0 {
				t.Errorf("failed build left %d vertex arrays", len(dev.LiveVAOs))
			}
		})
	}
}

func TestRingTracking(t *testing.T) {
	s, _ := build(t, defaultSpecs(), false)
	earth, moon, mars := body(t, s, "earth"), body(t, s, "moon"), body(t, s, "mars")
	marsCenter := mars.Ring().Center()

	for i := 0; i < 10; i++ {
		s.UpdateAll(2, 24)
		if moon.Ring().Center() != earth.Position() {
			t.Fatalf("moon ring at %v, earth at %v", moon.Ring().Center(), earth.Position())
		}
	}
	if mars.Ring().Center() != marsCenter {
		t.Errorf("untracked ring moved from %v to %v", marsCenter, mars.Ring().Center())
	}
	if s.Background().Ring() != nil || body(t, s, "sun").Ring() != nil {
		t.Error("root bodies have orbit rings")
	}
}

func TestStylesResolveOnce(t *testing.T) {
	s, _ := build(t, defaultSpecs(), false)
	tests := map[string]lighting.Technique{
		"sky":   lighting.TexturedPoint,
		"sun":   lighting.TexturedPoint,
		"earth": lighting.PointLight,
		"mars":  lighting.Directional,
	}
	for name, want := range tests {
		if got := body(t, s, name).Technique(); got != want {
			t.Errorf("%s technique = %v, want %v", name, got, want)
		}
	}
}

func TestRenderAllOrder(t *testing.T) {
	s, dev := build(t, defaultSpecs(), false)
	s.UpdateAll(1, 24)
	dev.Reset()

	cam := stubCamera{}
	if err := s.RenderAll(Frame{Camera: cam, Light: math.Vec3{X: 37, Y: 3, Z: 23}, EmissiveLight: lighting.EmissiveLightPosition}); err != nil {
		t.Fatalf("RenderAll() error = %v", err)
	}

	// sky: sphere only; sun: sphere + axis; three orbiting bodies: sphere + axis + ring
	want := []gpu.Primitive{gpu.Triangles, gpu.Triangles, gpu.Lines}
	for i := 0; i < 3; i++ {
		want = append(want, gpu.Triangles, gpu.Lines, gpu.LineLoop)
	}
	if len(dev.Draws) != len(want) {
		t.Fatalf("%d draws, want %d", len(dev.Draws), len(want))
	}
	for i, p := range want {
		if dev.Draws[i].Primitive != p {
			t.Errorf("draw %d = %v, want %v", i, dev.Draws[i].Primitive, p)
		}
	}
	if !dev.Draws[0].Indexed {
		t.Error("background sphere not drawn indexed")
	}
}

func TestUntexturedBodyUnbindsTexture(t *testing.T) {
	dev := gputest.New()
	s, err := Build(BuildOptions{
		Device:     dev,
		Catalog:    testCatalog(t),
		Textures:   fakeTextures{"sun": 77},
		Shading:    newDispatcher(t, dev),
		Background: &BodySpec{Name: "sky", Style: Emissive},
		Bodies:     defaultSpecs(),
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	t.Cleanup(s.Dispose)

	dev.Reset()
	if err := s.RenderAll(Frame{Camera: stubCamera{}}); err != nil {
		t.Fatalf("RenderAll() error = %v", err)
	}

	var got []uint32
	for _, d := range dev.Draws {
		if d.Primitive == gpu.Triangles {
			got = append(got, d.Texture)
		}
	}
	// sky, sun, earth, moon, mars
	want := []uint32{gpu.NoTexture, 77, gpu.NoTexture, gpu.NoTexture, gpu.NoTexture}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sphere textures = %v, want %v", got, want)
	}
}

func TestRenderUsesFrameLights(t *testing.T) {
	s, dev := build(t, defaultSpecs(), false)
	dev.Reset()
	light := math.Vec3{X: 37, Y: 3, Z: 23}

	if err := s.RenderAll(Frame{Camera: stubCamera{}, Light: light, EmissiveLight: lighting.EmissiveLightPosition}); err != nil {
		t.Fatal(err)
	}

	var emissive, lit int
	for _, u := range dev.Uniforms {
		if u.Name != "light.position" {
			continue
		}
		switch u.Value {
		case [3]float32{100, 100, 100}:
			emissive++
		case [3]float32{37, 3, 23}:
			lit++
		default:
			t.Errorf("unexpected light.position %v", u.Value)
		}
	}
	// sky and sun are emissive; earth and moon are point lit
	if emissive != 2 || lit != 2 {
		t.Errorf("emissive writes = %d, lit writes = %d, want 2 and 2", emissive, lit)
	}
	if v, ok := dev.Last("light.direction"); !ok || v != [3]float32{-37, -3, -23} {
		t.Errorf("mars light.direction = %v, want the scene light reversed", v)
	}
}

type failingShading struct {
	calls, failAt int
}

func (f *failingShading) Apply(t lighting.Technique, in lighting.Params) (*shader.Program, error) {
	f.calls++
	if f.calls == f.failAt {
		return nil, errors.New("program unavailable")
	}
	return nil, nil
}

func TestRenderAllAbortsOnFirstError(t *testing.T) {
	dev := gputest.New()
	shading := &failingShading{failAt: 3}
	s, err := Build(BuildOptions{
		Device:     dev,
		Catalog:    testCatalog(t),
		Shading:    shading,
		Background: &BodySpec{Name: "sky", Style: Emissive},
		Bodies:     defaultSpecs(),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Dispose()

	// sky sphere, sun sphere, then the sun's axis fails
	if err := s.RenderAll(Frame{Camera: stubCamera{}}); err == nil {
		t.Fatal("RenderAll() error = nil")
	}
	if len(dev.Draws) != 2 {
		t.Errorf("%d draws after failure, want 2", len(dev.Draws))
	}
}

func TestToggles(t *testing.T) {
	s, dev := build(t, defaultSpecs(), false)

	if s.ToggleOrbits() {
		t.Error("ToggleOrbits() = true, want false")
	}
	if s.ToggleAxes() {
		t.Error("ToggleAxes() = true, want false")
	}
	dev.Reset()
	if err := s.RenderAll(Frame{Camera: stubCamera{}}); err != nil {
		t.Fatal(err)
	}
	for _, d := range dev.Draws {
		if d.Primitive != gpu.Triangles {
			t.Errorf("guide drawn while hidden: %v", d.Primitive)
		}
	}

	s.ToggleOrbits()
	if !body(t, s, "earth").DrawOrbit || body(t, s, "sun").DrawOrbit {
		t.Error("orbit flags not restored only for orbiting bodies")
	}
}

func TestFocusTargets(t *testing.T) {
	s, _ := build(t, defaultSpecs(), false)
	targets := s.FocusTargets()

	if len(targets) != 4 {
		t.Fatalf("%d focus targets, want 4", len(targets))
	}
	if targets[0].Name != "sun" || targets[0].Focus != 1.5 {
		t.Errorf("first target = %s focus %v", targets[0].Name, targets[0].Focus)
	}
	if body(t, s, "earth").Focus != DefaultFocus {
		t.Errorf("default focus = %v", body(t, s, "earth").Focus)
	}
	for _, b := range targets {
		if b.Background() {
			t.Error("background is a focus target")
		}
	}
}

func TestDispose(t *testing.T) {
	s, dev := build(t, defaultSpecs(), false)
	if len(dev.LiveVAOs) == 0 {
		t.Fatal("no vertex arrays uploaded")
	}

	s.Dispose()
	s.Dispose()

	if len(dev.LiveVAOs) != 0 || len(dev.LiveBuffers) != 0 {
		t.Errorf("left %d arrays and %d buffers", len(dev.LiveVAOs), len(dev.LiveBuffers))
	}
	if err := s.RenderAll(Frame{Camera: stubCamera{}}); !errors.Is(err, ErrDisposed) {
		t.Errorf("RenderAll() after Dispose error = %v", err)
	}
}

func TestRate(t *testing.T) {
	r := NewRate(1, 0.1, 1)

	r.Decrease()
	if r.HoursPerSecond() != 1 {
		t.Errorf("Decrease() at minimum = %v", r.HoursPerSecond())
	}
	r.Increase()
	r.Increase()
	if !near(r.HoursPerSecond(), 1.2) {
		t.Errorf("after two increases = %v", r.HoursPerSecond())
	}
	r.Decrease()
	r.Decrease()
	r.Decrease()
	if r.HoursPerSecond() != 1 {
		t.Errorf("Decrease() went below minimum: %v", r.HoursPerSecond())
	}
	r.Increase()
	r.Reset()
	if r.HoursPerSecond() != 1 {
		t.Errorf("Reset() = %v", r.HoursPerSecond())
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    Style
		wantErr bool
	}{
		{"", Lit, false},
		{"Emissive", Emissive, false},
		{" spot ", Spot, false},
		{"phong", Phong, false},
		{"neon", Lit, true},
	}
	for _, tt := range tests {
		got, err := ParseStyle(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseStyle(%q) = %v, %v", tt.in, got, err)
		}
	}

	var s Style
	if err := s.UnmarshalText([]byte("flat")); err != nil || s != Flat {
		t.Errorf("UnmarshalText(flat) = %v, %v", s, err)
	}
	if Flat.Technique() != lighting.FlatColor {
		t.Errorf("Flat technique = %v", Flat.Technique())
	}
}

type stubCamera struct{}

func (stubCamera) Position() math.Vec3         { return math.Vec3{Z: 300} }
func (stubCamera) Front() math.Vec3            { return math.Vec3{Z: -1} }
func (stubCamera) Right() math.Vec3            { return math.Vec3{X: 1} }
func (stubCamera) Up() math.Vec3               { return math.Vec3{Y: 1} }
func (stubCamera) ViewMatrix() math.Mat4       { return math.Translate(0, 0, -300) }
func (stubCamera) ProjectionMatrix() math.Mat4 { return math.Perspective(math.Radians(45), 1, 0.1, 10000) }
