package lighting

import (
	stdmath "math"

	"github.com/Faultbox/orrery/internal/engine/shader"
	"github.com/Faultbox/orrery/pkg/math"
)

// Spot cone, as cosines of the inner and outer half angles.
var (
	SpotCutOff      = float32(stdmath.Cos(float64(math.Radians(42.5))))
	SpotOuterCutOff = float32(stdmath.Cos(float64(math.Radians(57.5))))
)

// EmissiveLightPosition is the default light for TexturedPoint.
var EmissiveLightPosition = math.Vec3{X: 100, Y: 100, Z: 100}

// binding writes one uniform from the frame parameters.
type binding struct {
	name string
	set  func(p *shader.Program, name string, in *Params)
}

// row describes one technique: its shader sources and the uniforms written
// after model, view and projection, in order.
type row struct {
	vertex   shader.Key
	fragment shader.Key
	bindings []binding
}

func lit(name string) shader.Key { return shader.Key{Name: name, Category: "lighting"} }

func float(name string, v float32) binding {
	return binding{name, func(p *shader.Program, n string, _ *Params) { p.SetFloat(n, v) }}
}

func integer(name string, v int32) binding {
	return binding{name, func(p *shader.Program, n string, _ *Params) { p.SetInt(n, v) }}
}

func vec3(name string, v math.Vec3) binding {
	return binding{name, func(p *shader.Program, n string, _ *Params) { p.SetVec3(n, v) }}
}

func from(name string, get func(in *Params) math.Vec3) binding {
	return binding{name, func(p *shader.Program, n string, in *Params) { p.SetVec3(n, get(in)) }}
}

func viewPos(in *Params) math.Vec3        { return in.Camera.Position() }
func cameraFront(in *Params) math.Vec3    { return in.Camera.Front() }
func lightPosition(in *Params) math.Vec3  { return in.LightPosition }
func lightDirection(in *Params) math.Vec3 { return in.LightDirection }
func objectColor(in *Params) math.Vec3    { return in.ObjectColor }
func lightColor(in *Params) math.Vec3     { return in.LightColor }

var table = [...]row{
	Directional: {
		vertex:   lit("textured.vert"),
		fragment: lit("directional.frag"),
		bindings: []binding{
			from("viewPos", viewPos),
			integer("material.diffuse", 0),
			integer("material.specular", 0),
			float("material.shininess", 32),
			from("light.direction", lightDirection),
			vec3("light.ambient", math.Splat(0.25)),
			vec3("light.diffuse", math.Splat(1)),
			vec3("light.specular", math.Splat(0.25)),
		},
	},
	PointLight: {
		vertex:   lit("textured.vert"),
		fragment: lit("point.frag"),
		bindings: []binding{
			from("viewPos", viewPos),
			integer("material.diffuse", 0),
			integer("material.specular", 0),
			float("material.shininess", 16),
			from("light.position", lightPosition),
			float("light.constant", 0.9),
			float("light.linear", 0.0014),
			float("light.quadratic", 0.000007),
			vec3("light.ambient", math.Splat(0.45)),
			vec3("light.diffuse", math.Splat(1.5)),
			vec3("light.specular", math.Splat(0.25)),
		},
	},
	Spot: {
		vertex:   lit("textured.vert"),
		fragment: lit("spot.frag"),
		bindings: []binding{
			from("viewPos", viewPos),
			integer("material.diffuse", 0),
			vec3("material.specular", math.Splat(0.5)),
			float("material.shininess", 32),
			from("light.position", viewPos),
			from("light.direction", cameraFront),
			float("light.cutOff", SpotCutOff),
			float("light.outerCutOff", SpotOuterCutOff),
			float("light.constant", 1),
			float("light.linear", 0.09),
			float("light.quadratic", 0.032),
			vec3("light.ambient", math.Splat(0.2)),
			vec3("light.diffuse", math.Splat(0.5)),
			vec3("light.specular", math.Splat(1)),
		},
	},
	TexturedPoint: {
		vertex:   lit("textured.vert"),
		fragment: lit("emissive.frag"),
		bindings: []binding{
			from("viewPos", viewPos),
			integer("material.diffuse", 0),
			vec3("material.specular", math.Splat(0.5)),
			float("material.shininess", 32),
			from("light.position", lightPosition),
			vec3("light.ambient", math.Splat(0.9)),
			vec3("light.diffuse", math.Splat(0.8)),
			vec3("light.specular", math.Splat(2)),
		},
	},
	FlatColor: {
		vertex:   lit("plain.vert"),
		fragment: lit("flat.frag"),
		bindings: []binding{
			from("objectColor", objectColor),
			from("lightColor", lightColor),
		},
	},
	PhongColor: {
		vertex:   lit("phong.vert"),
		fragment: lit("phong.frag"),
		bindings: []binding{
			from("objectColor", objectColor),
			from("lightColor", lightColor),
			from("lightPos", lightPosition),
			from("viewPos", viewPos),
		},
	},
	Unlit: {
		vertex:   lit("plain.vert"),
		fragment: shader.Key{Name: "unlit.frag", Category: "basic"},
	},
}

// transformUniforms are written first by every technique.
var transformUniforms = []string{"model", "view", "projection"}

// Sources returns the vertex and fragment keys of t.
func Sources(t Technique) (vertex, fragment shader.Key) {
	r := table[t]
	return r.vertex, r.fragment
}

// UniformNames returns the uniforms t writes, in write order.
func UniformNames(t Technique) []string {
	names := append([]string(nil), transformUniforms...)
	for _, b := range table[t].bindings {
		names = append(names, b.name)
	}
	return names
}
