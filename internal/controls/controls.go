// Package controls maps user actions onto the camera, the simulation clock
// and the scene toggles.
package controls

import (
	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/engine/camera"
	"github.com/Faultbox/orrery/internal/engine/picking"
	"github.com/Faultbox/orrery/internal/logger"
	"github.com/Faultbox/orrery/internal/solar"
)

// Action is a one-shot command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionToggleOrbits
	ActionToggleAxes
	ActionResetRate
	ActionIncreaseRate
	ActionDecreaseRate
	ActionToggleMouseLook
	ActionToggleFullscreen
	ActionScreenshot
	ActionQuit

	// ActionFocus0 focuses the first focus target; ActionFocus0+k the k-th.
	ActionFocus0
)

// Focus returns the action focusing target k (0-based).
func Focus(k int) Action {
	if k < 0 || k >= solar.MaxFocusTargets {
		return ActionNone
	}
	return ActionFocus0 + Action(k)
}

// FocusIndex returns the target index of a focus action.
func (a Action) FocusIndex() (int, bool) {
	k := int(a - ActionFocus0)
	if a < ActionFocus0 || k >= solar.MaxFocusTargets {
		return 0, false
	}
	return k, true
}

// Controller applies actions to one scene. It is driven from the main loop.
type Controller struct {
	Camera *camera.FlyCamera
	System *solar.System
	Rate   *solar.Rate

	mouseLook bool
	log       *zap.Logger
}

// New creates a controller.
func New(cam *camera.FlyCamera, sys *solar.System, rate *solar.Rate) *Controller {
	return &Controller{
		Camera: cam,
		System: sys,
		Rate:   rate,
		log:    logger.Named("controls"),
	}
}

// MouseLook reports whether mouse motion turns the camera.
func (c *Controller) MouseLook() bool {
	return c.mouseLook
}

// Trigger applies a one-shot action and reports whether it handled it.
// Window actions (fullscreen, screenshot, quit) are left to the caller.
func (c *Controller) Trigger(a Action) bool {
	switch a {
	case ActionToggleOrbits:
		c.log.Debug("orbits toggled", zap.Bool("visible", c.System.ToggleOrbits()))
	case ActionToggleAxes:
		c.log.Debug("axes toggled", zap.Bool("visible", c.System.ToggleAxes()))
	case ActionResetRate:
		c.Rate.Reset()
		c.logRate()
	case ActionIncreaseRate:
		c.Rate.Increase()
		c.logRate()
	case ActionDecreaseRate:
		c.Rate.Decrease()
		c.logRate()
	case ActionToggleMouseLook:
		c.mouseLook = !c.mouseLook
	default:
		k, ok := a.FocusIndex()
		if !ok {
			return false
		}
		c.FocusTarget(k)
	}
	return true
}

func (c *Controller) logRate() {
	c.log.Debug("simulation rate", zap.Float32("hours_per_second", c.Rate.HoursPerSecond()))
}

// FocusTarget moves the camera in front of focus target k, keeping its
// orientation. It reports false when there is no such target.
func (c *Controller) FocusTarget(k int) bool {
	targets := c.System.FocusTargets()
	if k < 0 || k >= len(targets) {
		return false
	}
	c.focus(targets[k])
	return true
}

// focus places the camera in front of b. The distance scales with the
// camera speed and the body's focus factor.
func (c *Controller) focus(b *solar.Body) {
	f := b.Focus
	if f <= 0 {
		f = solar.DefaultFocus
	}
	c.Camera.FocusOn(b.Position(), c.Camera.Speed*f)
	c.log.Debug("focus", zap.String("body", b.Name))
}

// Pick focuses the body under window position (x, y) of a width x height
// window and returns it, or nil when the ray hits nothing. Every body but
// the background can be picked.
func (c *Controller) Pick(x, y, width, height int) *solar.Body {
	if width <= 0 || height <= 0 {
		return nil
	}
	ray := picking.ScreenToRay(float32(x), float32(y), float32(width), float32(height), c.Camera)

	var (
		bodies  []*solar.Body
		spheres []picking.Sphere
	)
	for i := 0; i < c.System.Len(); i++ {
		b := c.System.Body(i)
		if b.Background() {
			continue
		}
		bodies = append(bodies, b)
		spheres = append(spheres, picking.Sphere{Center: b.Position(), Radius: b.Radius})
	}
	k := ray.Nearest(spheres)
	if k < 0 {
		return nil
	}
	c.focus(bodies[k])
	return bodies[k]
}

// Move moves the camera along every held direction.
func (c *Controller) Move(held []camera.Direction, dt float32) {
	for _, d := range held {
		c.Camera.Move(d, dt)
	}
}

// Look turns the camera by a mouse delta while mouse look is on.
func (c *Controller) Look(dx, dy int) {
	if !c.mouseLook || (dx == 0 && dy == 0) {
		return
	}
	c.Camera.Look(float32(dx), float32(dy))
}

// Zoom narrows the field of view by a wheel delta.
func (c *Controller) Zoom(wheel float32) {
	if wheel != 0 {
		c.Camera.Zoom(wheel)
	}
}

// Update advances the simulation by dt real seconds at the current rate.
func (c *Controller) Update(dt float32) {
	c.System.UpdateAll(dt, c.Rate.HoursPerSecond())
}
