package math

import "math"

// Mat4 is a 4x4 matrix stored column by column, the layout glUniformMatrix4fv
// expects without transposition. Element (row r, column c) is m[c*4+r], so
// the translation lives in m[12], m[13], m[14].
type Mat4 [16]float32

// Identity returns an identity matrix.
func Identity() Mat4 {
	var m Mat4
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
	return m
}

func (m Mat4) at(row, col int) float32 {
	return m[col*4+row]
}

// Perspective returns an OpenGL perspective projection with clip depth
// -1..1. fovY is in radians, aspect is width/height.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := float32(1 / math.Tan(float64(fovY)/2))
	depth := 1 / (near - far)

	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) * depth
	m[11] = -1
	m[14] = 2 * far * near * depth
	return m
}

// LookAt returns the view matrix of an eye at eye looking at center.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	return Identity().WithTranslation(Vec3{x, y, z})
}

// TranslateVec3 returns a translation matrix moving the origin to v.
func TranslateVec3(v Vec3) Mat4 {
	return Identity().WithTranslation(v)
}

// RotateX returns a right-handed rotation by angle radians about +X.
func RotateX(angle float32) Mat4 {
	s, c := sincos(angle)
	m := Identity()
	m[5], m[6] = c, s
	m[9], m[10] = -s, c
	return m
}

// RotateY returns a right-handed rotation by angle radians about +Y.
func RotateY(angle float32) Mat4 {
	s, c := sincos(angle)
	m := Identity()
	m[0], m[2] = c, -s
	m[8], m[10] = s, c
	return m
}

func sincos(angle float32) (s, c float32) {
	sin, cos := math.Sincos(float64(angle))
	return float32(sin), float32(cos)
}

// Mul returns m * o; applied to a point, o acts first.
func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m.at(r, k) * o.at(k, c)
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// TransformPoint applies m to the point p (w = 1), dividing by the
// resulting w when it is not 1.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	var v [4]float32
	for r := 0; r < 4; r++ {
		v[r] = m.at(r, 0)*p.X + m.at(r, 1)*p.Y + m.at(r, 2)*p.Z + m.at(r, 3)
	}
	if w := v[3]; w != 0 && w != 1 {
		return Vec3{v[0] / w, v[1] / w, v[2] / w}
	}
	return Vec3{v[0], v[1], v[2]}
}

// Translation returns the translation column.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// WithTranslation returns a copy of m with its translation column replaced by t.
func (m Mat4) WithTranslation(t Vec3) Mat4 {
	m[12], m[13], m[14], m[15] = t.X, t.Y, t.Z, 1
	return m
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 {
	return deg * math.Pi / 180
}
