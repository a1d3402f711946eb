package solar

import (
	"fmt"
	"strings"

	"github.com/Faultbox/orrery/internal/engine/lighting"
)

// Style is how a body is shaded. It is fixed when the body is built and
// resolved once to a lighting technique.
type Style int

const (
	Lit         Style = iota // lit by the scene light (point light)
	Emissive                 // self-lit, for the sun and the sky
	Directional              // lit from a fixed direction
	Spot                     // lit by a flashlight at the camera
	Flat                     // untextured solid color
	Phong                    // untextured color with Phong shading
)

var styles = [...]struct {
	name      string
	technique lighting.Technique
}{
	Lit:         {"lit", lighting.PointLight},
	Emissive:    {"emissive", lighting.TexturedPoint},
	Directional: {"directional", lighting.Directional},
	Spot:        {"spot", lighting.Spot},
	Flat:        {"flat", lighting.FlatColor},
	Phong:       {"phong", lighting.PhongColor},
}

func (s Style) String() string {
	if s < 0 || int(s) >= len(styles) {
		return fmt.Sprintf("Style(%d)", int(s))
	}
	return styles[s].name
}

// Technique returns the lighting technique that renders s.
func (s Style) Technique() lighting.Technique {
	if s < 0 || int(s) >= len(styles) {
		return lighting.PointLight
	}
	return styles[s].technique
}

// ParseStyle parses a style name, ignoring case. The empty string is Lit.
func ParseStyle(name string) (Style, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Lit, nil
	}
	for i, s := range styles {
		if s.name == name {
			return Style(i), nil
		}
	}
	return Lit, fmt.Errorf("unknown body style %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Style) UnmarshalText(text []byte) error {
	v, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
