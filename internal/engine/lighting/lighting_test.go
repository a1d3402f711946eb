package lighting

import (
	"errors"
	"io/fs"
	"reflect"
	"testing"

	"github.com/Faultbox/orrery/internal/assets"
	"github.com/Faultbox/orrery/internal/engine/gpu/gputest"
	"github.com/Faultbox/orrery/internal/engine/shader"
	"github.com/Faultbox/orrery/internal/engine/shader/glsl"
	"github.com/Faultbox/orrery/pkg/math"
)

type stubCamera struct {
	pos, front math.Vec3
}

func (c stubCamera) Position() math.Vec3 { return c.pos }
func (c stubCamera) Front() math.Vec3    { return c.front }
func (c stubCamera) Right() math.Vec3    { return math.Vec3{X: 1} }
func (c stubCamera) Up() math.Vec3       { return math.Vec3{Y: 1} }
func (c stubCamera) ViewMatrix() math.Mat4 {
	return math.Translate(-c.pos.X, -c.pos.Y, -c.pos.Z)
}
func (c stubCamera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(math.Radians(45), 16.0/9.0, 0.1, 1000)
}

func newDispatcher(t *testing.T) (*Dispatcher, *gputest.Device) {
	t.Helper()
	m := assets.NewManager()
	m.AddFS("embedded", glsl.FS)
	t.Cleanup(m.Close)

	dev := gputest.New()
	return NewDispatcher(shader.NewLibrary(dev, m)), dev
}

func TestEmbeddedSourcesExist(t *testing.T) {
	for _, tech := range Techniques() {
		vs, frag := Sources(tech)
		for _, k := range []shader.Key{vs, frag} {
			if _, err := fs.Stat(glsl.FS, k.Path()); err != nil {
				t.Errorf("%s: source %s missing: %v", tech, k, err)
			}
		}
	}
}

func TestPreloadCompilesEveryPair(t *testing.T) {
	d, dev := newDispatcher(t)
	if err := d.Preload(); err != nil {
		t.Fatalf("Preload() error = %v", err)
	}

	pairs := make(map[[2]shader.Key]bool)
	for _, tech := range Techniques() {
		vs, frag := Sources(tech)
		pairs[[2]shader.Key{vs, frag}] = true
	}
	if len(dev.LivePrograms) != len(pairs) {
		t.Errorf("compiled %d programs, want %d", len(dev.LivePrograms), len(pairs))
	}
}

func TestApplyWritesTransformsFirst(t *testing.T) {
	d, dev := newDispatcher(t)
	cam := stubCamera{pos: math.Vec3{X: 1, Y: 2, Z: 3}, front: math.Vec3{Z: -1}}

	for _, tech := range Techniques() {
		t.Run(tech.String(), func(t *testing.T) {
			dev.Reset()
			p, err := d.Apply(tech, Params{Model: math.Translate(5, 0, 0), Camera: cam})
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if dev.CurrentProgram() != p.ID() {
				t.Errorf("program %d not current", p.ID())
			}

			got := dev.Names(0)
			want := UniformNames(tech)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("uniform order = %v, want %v", got, want)
			}
			if !reflect.DeepEqual(got[:3], []string{"model", "view", "projection"}) {
				t.Errorf("first uniforms = %v", got[:3])
			}
		})
	}
}

func TestSpotFollowsCamera(t *testing.T) {
	d, dev := newDispatcher(t)
	cam := stubCamera{pos: math.Vec3{X: -32, Y: 97, Z: 265}, front: math.Vec3{X: 0.6, Y: -0.3, Z: -0.7}}

	if _, err := d.Apply(Spot, Params{Model: math.Identity(), Camera: cam}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		want any
	}{
		{"light.position", [3]float32{-32, 97, 265}},
		{"light.direction", [3]float32{0.6, -0.3, -0.7}},
		{"viewPos", [3]float32{-32, 97, 265}},
		{"light.cutOff", SpotCutOff},
		{"light.outerCutOff", SpotOuterCutOff},
		{"light.quadratic", float32(0.032)},
		{"material.specular", [3]float32{0.5, 0.5, 0.5}},
	}
	for _, tt := range tests {
		got, ok := dev.Last(tt.name)
		if !ok {
			t.Errorf("%s not written", tt.name)
			continue
		}
		if got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}
	if SpotCutOff <= SpotOuterCutOff {
		t.Errorf("inner cone cos %v must exceed outer %v", SpotCutOff, SpotOuterCutOff)
	}
}

func TestTechniqueDefaults(t *testing.T) {
	tests := []struct {
		tech Technique
		name string
		want any
	}{
		{Directional, "material.shininess", float32(32)},
		{Directional, "light.ambient", [3]float32{0.25, 0.25, 0.25}},
		{Directional, "light.direction", [3]float32{0, 50, 0}},
		{PointLight, "material.shininess", float32(16)},
		{PointLight, "light.constant", float32(0.9)},
		{PointLight, "light.linear", float32(0.0014)},
		{PointLight, "light.position", [3]float32{0, 50, 0}},
		{TexturedPoint, "light.position", [3]float32{0, 50, 0}},
		{TexturedPoint, "light.specular", [3]float32{2, 2, 2}},
		{FlatColor, "objectColor", [3]float32{1, 0.5, 0.31}},
		{PhongColor, "lightPos", [3]float32{0, 50, 0}},
	}

	d, dev := newDispatcher(t)
	in := Params{
		Model:          math.Identity(),
		Camera:         stubCamera{},
		LightPosition:  math.Vec3{Y: 50},
		LightDirection: math.Vec3{Y: 50},
		ObjectColor:    math.Vec3{X: 1, Y: 0.5, Z: 0.31},
		LightColor:     math.Splat(1),
	}
	for _, tt := range tests {
		dev.Reset()
		if _, err := d.Apply(tt.tech, in); err != nil {
			t.Fatalf("Apply(%s) error = %v", tt.tech, err)
		}
		if got, _ := dev.Last(tt.name); got != tt.want {
			t.Errorf("%s %s = %v, want %v", tt.tech, tt.name, got, tt.want)
		}
	}
}

func TestApplyErrors(t *testing.T) {
	d, _ := newDispatcher(t)

	if _, err := d.Apply(Spot, Params{}); !errors.Is(err, ErrNoCamera) {
		t.Errorf("Apply() without camera error = %v, want ErrNoCamera", err)
	}
	if _, err := d.Apply(Technique(42), Params{Camera: stubCamera{}}); err == nil {
		t.Error("Apply() with unknown technique succeeded")
	}
}

func TestParseTechnique(t *testing.T) {
	for _, tech := range Techniques() {
		got, err := ParseTechnique(tech.String())
		if err != nil || got != tech {
			t.Errorf("ParseTechnique(%q) = %v, %v", tech.String(), got, err)
		}
	}
	if _, err := ParseTechnique("Phong "); err != nil {
		t.Errorf("ParseTechnique() should ignore case and spaces: %v", err)
	}
	if _, err := ParseTechnique("toon"); err == nil {
		t.Error("ParseTechnique(toon) succeeded")
	}
}
