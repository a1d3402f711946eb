package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/orrery/pkg/math"
)

const eps = 1e-3

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < eps
}

func nearVec(a, b math.Vec3) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

func TestDefaultOrientation(t *testing.T) {
	c := NewFlyCamera(math.Vec3{}, 1)

	if !nearVec(c.Front(), math.Vec3{Z: -1}) {
		t.Errorf("Front() = %v, want (0,0,-1)", c.Front())
	}
	if !nearVec(c.Right(), math.Vec3{X: 1}) {
		t.Errorf("Right() = %v, want (1,0,0)", c.Right())
	}
	if !nearVec(c.Up(), math.Vec3{Y: 1}) {
		t.Errorf("Up() = %v, want (0,1,0)", c.Up())
	}
}

func TestBasisIsOrthonormal(t *testing.T) {
	c := NewFlyCamera(math.Vec3{X: -32.406296, Y: 97.20163, Z: 265.43283}, 16.0/9.0)
	c.SetOrientation(-59.195007, -19.698872)

	for name, v := range map[string]math.Vec3{"front": c.Front(), "right": c.Right(), "up": c.Up()} {
		if !near(v.Length(), 1) {
			t.Errorf("%s length = %v, want 1", name, v.Length())
		}
	}
	if !near(c.Front().Dot(c.Right()), 0) || !near(c.Front().Dot(c.Up()), 0) || !near(c.Right().Dot(c.Up()), 0) {
		t.Error("basis vectors are not orthogonal")
	}
	if c.Front().Y >= 0 {
		t.Errorf("negative pitch should look down, front = %v", c.Front())
	}
}

func TestPitchClamp(t *testing.T) {
	tests := []struct {
		pitch, want float32
	}{
		{120, MaxPitch},
		{-120, -MaxPitch},
		{30, 30},
	}
	for _, tt := range tests {
		c := NewFlyCamera(math.Vec3{}, 1)
		c.SetOrientation(0, tt.pitch)
		if c.Pitch() != tt.want {
			t.Errorf("SetOrientation(0, %v) pitch = %v, want %v", tt.pitch, c.Pitch(), tt.want)
		}
	}
}

func TestLook(t *testing.T) {
	c := NewFlyCamera(math.Vec3{}, 1)
	c.Look(100, 50)

	if !near(c.Yaw(), -80) {
		t.Errorf("yaw = %v, want -80", c.Yaw())
	}
	if !near(c.Pitch(), -5) {
		t.Errorf("pitch = %v, want -5", c.Pitch())
	}
}

func TestZoomClamp(t *testing.T) {
	tests := []struct {
		delta, want float32
	}{
		{5, 40},
		{100, MinFov},
		{-100, MaxFov},
	}
	for _, tt := range tests {
		c := NewFlyCamera(math.Vec3{}, 1)
		c.Zoom(tt.delta)
		if c.Fov() != tt.want {
			t.Errorf("Zoom(%v) fov = %v, want %v", tt.delta, c.Fov(), tt.want)
		}
	}
}

func TestMove(t *testing.T) {
	tests := []struct {
		dir  Direction
		want math.Vec3
	}{
		{Forward, math.Vec3{Z: -60}},
		{Backward, math.Vec3{Z: 60}},
		{Left, math.Vec3{X: -60}},
		{Right, math.Vec3{X: 60}},
		{Up, math.Vec3{Y: 60}},
		{Down, math.Vec3{Y: -60}},
	}
	for _, tt := range tests {
		c := NewFlyCamera(math.Vec3{}, 1)
		c.Move(tt.dir, 1)
		if !nearVec(c.Position(), tt.want) {
			t.Errorf("Move(%d) position = %v, want %v", tt.dir, c.Position(), tt.want)
		}
	}
}

func TestFocusOn(t *testing.T) {
	c := NewFlyCamera(math.Vec3{X: 500}, 1)
	c.SetOrientation(-45, -20)
	target := math.Vec3{X: 100, Z: 30}

	c.FocusOn(target, 30)

	if !near(c.Position().Distance(target), 30) {
		t.Errorf("distance to target = %v, want 30", c.Position().Distance(target))
	}
	// Target must be straight ahead
	view := c.ViewMatrix().TransformPoint(target)
	if !near(view.X, 0) || !near(view.Y, 0) || !near(view.Z, -30) {
		t.Errorf("target in view space = %v, want (0,0,-30)", view)
	}
}

func TestSetAspectIgnoresInvalid(t *testing.T) {
	c := NewFlyCamera(math.Vec3{}, 1.5)
	c.SetAspect(0)
	if c.Aspect() != 1.5 {
		t.Errorf("aspect = %v, want 1.5", c.Aspect())
	}
	c.SetAspect(2)
	if c.Aspect() != 2 {
		t.Errorf("aspect = %v, want 2", c.Aspect())
	}
}
