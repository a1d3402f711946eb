package app

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/orrery/internal/config"
	"github.com/Faultbox/orrery/internal/controls"
	"github.com/Faultbox/orrery/internal/engine/camera"
	"github.com/Faultbox/orrery/internal/solar"
)

// actionKeys binds one-shot actions to key presses.
var actionKeys = map[sdl.Scancode]controls.Action{
	sdl.SCANCODE_O:      controls.ActionToggleOrbits,
	sdl.SCANCODE_P:      controls.ActionToggleAxes,
	sdl.SCANCODE_R:      controls.ActionResetRate,
	sdl.SCANCODE_M:      controls.ActionToggleMouseLook,
	sdl.SCANCODE_F11:    controls.ActionToggleFullscreen,
	sdl.SCANCODE_F12:    controls.ActionScreenshot,
	sdl.SCANCODE_ESCAPE: controls.ActionQuit,
	sdl.SCANCODE_1:      controls.Focus(0),
	sdl.SCANCODE_2:      controls.Focus(1),
	sdl.SCANCODE_3:      controls.Focus(2),
	sdl.SCANCODE_4:      controls.Focus(3),
	sdl.SCANCODE_5:      controls.Focus(4),
	sdl.SCANCODE_6:      controls.Focus(5),
	sdl.SCANCODE_7:      controls.Focus(6),
	sdl.SCANCODE_8:      controls.Focus(7),
	sdl.SCANCODE_9:      controls.Focus(8),
	sdl.SCANCODE_0:      controls.Focus(9),
}

// repeatKeys binds actions applied once per frame while the key is held.
var repeatKeys = []struct {
	key    sdl.Scancode
	action controls.Action
}{
	{sdl.SCANCODE_F1, controls.ActionIncreaseRate},
	{sdl.SCANCODE_F2, controls.ActionDecreaseRate},
}

// moveKeys binds held keys to camera directions.
var moveKeys = []struct {
	key sdl.Scancode
	dir camera.Direction
}{
	{sdl.SCANCODE_W, camera.Forward},
	{sdl.SCANCODE_S, camera.Backward},
	{sdl.SCANCODE_A, camera.Left},
	{sdl.SCANCODE_D, camera.Right},
	{sdl.SCANCODE_SPACE, camera.Up},
	{sdl.SCANCODE_LSHIFT, camera.Down},
}

// heldActions appends the repeat actions whose keys are held to dst.
func heldActions(held func(sdl.Scancode) bool, dst []controls.Action) []controls.Action {
	for _, rk := range repeatKeys {
		if held(rk.key) {
			dst = append(dst, rk.action)
		}
	}
	return dst
}

// heldDirections appends the directions whose keys are held to dst.
func heldDirections(held func(sdl.Scancode) bool, dst []camera.Direction) []camera.Direction {
	for _, mk := range moveKeys {
		if held(mk.key) {
			dst = append(dst, mk.dir)
		}
	}
	return dst
}

// bodySpecs converts the configured layout into scene specs.
func bodySpecs(bodies []config.BodyConfig) ([]solar.BodySpec, error) {
	specs := make([]solar.BodySpec, 0, len(bodies))
	for _, b := range bodies {
		style, err := solar.ParseStyle(b.Style)
		if err != nil {
			return nil, fmt.Errorf("body %q: %w", b.Name, err)
		}
		specs = append(specs, solar.BodySpec{
			Name:        b.Name,
			Parent:      b.Parent,
			Style:       style,
			TrackParent: b.TrackParent,
			Color:       append([]float32(nil), b.Color...),
			Focus:       b.Focus,
		})
	}
	return specs, nil
}
