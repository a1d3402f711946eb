package solar

import (
	"errors"
	"fmt"

	"github.com/Faultbox/orrery/internal/engine/gpu"
	"github.com/Faultbox/orrery/internal/engine/lighting"
	"github.com/Faultbox/orrery/pkg/math"
)

// ErrDisposed is returned by RenderAll after Dispose.
var ErrDisposed = errors.New("solar: system disposed")

// Frame is the per-frame input of the render pass.
type Frame struct {
	Camera lighting.Camera

	// Light lights Lit, Directional and Phong bodies. Directional bodies are
	// lit along the direction from Light toward the origin.
	Light math.Vec3

	// EmissiveLight is the light used by Emissive bodies.
	EmissiveLight math.Vec3

	LightColor math.Vec3
}

// RenderAll draws the background and then every body in update order.
// The first failure aborts the frame.
func (s *System) RenderAll(f Frame) error {
	if s.disposed {
		return ErrDisposed
	}
	if s.background >= 0 {
		if err := s.render(s.bodies[s.background], f); err != nil {
			return err
		}
	}
	for _, i := range s.order {
		if i == s.background {
			continue
		}
		if err := s.render(s.bodies[i], f); err != nil {
			return err
		}
	}
	return nil
}

func (s *System) render(b *Body, f Frame) error {
	in := lighting.Params{
		Model:          b.world,
		Camera:         f.Camera,
		LightPosition:  f.Light,
		LightDirection: f.Light.Neg(),
		ObjectColor:    b.Color,
		LightColor:     f.LightColor,
	}
	if b.style == Emissive {
		in.LightPosition = f.EmissiveLight
	}

	if b.sphere.Textured() {
		b.sphere.UseTexture(0)
	} else {
		s.dev.BindTexture(0, gpu.NoTexture)
	}
	if _, err := s.shading.Apply(b.technique, in); err != nil {
		return fmt.Errorf("rendering %s: %w", b.Name, err)
	}
	if err := b.sphere.Draw(); err != nil {
		return fmt.Errorf("rendering %s: %w", b.Name, err)
	}

	if b.DrawAxis && b.axis != nil && !b.background {
		if _, err := s.shading.Apply(lighting.Unlit, lighting.Params{Model: b.world, Camera: f.Camera}); err != nil {
			return fmt.Errorf("rendering %s axis: %w", b.Name, err)
		}
		if err := b.axis.Draw(); err != nil {
			return fmt.Errorf("rendering %s axis: %w", b.Name, err)
		}
	}

	if b.DrawOrbit && b.ring != nil {
		if _, err := s.shading.Apply(lighting.Unlit, lighting.Params{Model: b.ring.Transform(), Camera: f.Camera}); err != nil {
			return fmt.Errorf("rendering %s orbit: %w", b.Name, err)
		}
		if err := b.ring.Draw(); err != nil {
			return fmt.Errorf("rendering %s orbit: %w", b.Name, err)
		}
	}
	return nil
}
