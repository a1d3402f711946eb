// Package lighting maps each lighting technique to its shader pair and the
// uniforms it needs, and applies them before a draw.
package lighting

import (
	"fmt"
	"strings"
)

// Technique is one way of shading a body.
type Technique int

const (
	Directional   Technique = iota // textured, light from a fixed direction
	PointLight                     // textured, attenuated point light
	Spot                           // textured, flashlight from the camera
	TexturedPoint                  // textured, bright fixed light for emissive bodies
	FlatColor                      // untextured, objectColor * lightColor
	PhongColor                     // untextured Phong with lightPos/viewPos
	Unlit                          // transforms only, used for guides
)

var techniqueNames = [...]string{
	Directional:   "directional",
	PointLight:    "point",
	Spot:          "spot",
	TexturedPoint: "textured-point",
	FlatColor:     "flat",
	PhongColor:    "phong",
	Unlit:         "unlit",
}

func (t Technique) String() string {
	if t < 0 || int(t) >= len(techniqueNames) {
		return fmt.Sprintf("Technique(%d)", int(t))
	}
	return techniqueNames[t]
}

// Valid reports whether t is one of the defined techniques.
func (t Technique) Valid() bool {
	return t >= 0 && int(t) < len(techniqueNames)
}

// Techniques returns every technique in declaration order.
func Techniques() []Technique {
	all := make([]Technique, len(techniqueNames))
	for i := range all {
		all[i] = Technique(i)
	}
	return all
}

// ParseTechnique resolves a technique by its String form, ignoring case.
func ParseTechnique(s string) (Technique, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range techniqueNames {
		if name == s {
			return Technique(i), nil
		}
	}
	return 0, fmt.Errorf("unknown lighting technique %q", s)
}
