package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the length below which a direction is treated as degenerate.
const Epsilon = 1e-9

var (
	Up      = mgl64.Vec3{0, 1, 0}
	Forward = mgl64.Vec3{0, 0, -1}
	Right   = mgl64.Vec3{1, 0, 0}
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Finite reports whether every component of v is a finite number.
func Finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// FiniteQuat reports whether every component of q is a finite number.
func FiniteQuat(q mgl64.Quat) bool {
	return Finite(q.V) && !math.IsNaN(q.W) && !math.IsInf(q.W, 0)
}

// FlattenXZ drops the vertical component of v and normalizes the result.
// ok is false when the horizontal part is too short to carry a direction.
func FlattenXZ(v mgl64.Vec3) (mgl64.Vec3, bool) {
	flat := mgl64.Vec3{v.X(), 0, v.Z()}
	l := flat.Len()
	if l < Epsilon || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl64.Vec3{}, false
	}
	return flat.Mul(1 / l), true
}

// Yaw returns the rotation about +Y that turns Forward toward the horizontal
// projection of q's forward axis. ok is false when q points straight up or
// down, or is not finite.
func Yaw(q mgl64.Quat) (float64, bool) {
	if !FiniteQuat(q) || q.Len() < Epsilon {
		return 0, false
	}
	f, ok := FlattenXZ(q.Normalize().Rotate(Forward))
	if !ok {
		return 0, false
	}
	return math.Atan2(-f.X(), -f.Z()), true
}

// YawQuat is a pure heading rotation about +Y.
func YawQuat(yaw float64) mgl64.Quat {
	return mgl64.QuatRotate(yaw, Up)
}

// EulerXYZ decomposes q into intrinsic X, Y, Z angles such that
// q == Rx(x) * Ry(y) * Rz(z).
func EulerXYZ(q mgl64.Quat) (x, y, z float64) {
	m := q.Normalize().Mat4()
	m13 := mgl64.Clamp(m.At(0, 2), -1, 1)
	y = math.Asin(m13)
	if math.Abs(m13) < 0.9999999 {
		x = math.Atan2(-m.At(1, 2), m.At(2, 2))
		z = math.Atan2(-m.At(0, 1), m.At(0, 0))
	} else {
		x = math.Atan2(m.At(2, 1), m.At(1, 1))
		z = 0
	}
	return x, y, z
}

// FromEulerXYZ composes Rx(x) * Ry(y) * Rz(z).
func FromEulerXYZ(x, y, z float64) mgl64.Quat {
	qx := mgl64.QuatRotate(x, mgl64.Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(y, mgl64.Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(z, mgl64.Vec3{0, 0, 1})
	return qx.Mul(qy).Mul(qz).Normalize()
}

// FacingQuat returns the rotation that takes Forward onto dir. Degenerate
// directions yield the identity.
func FacingQuat(dir mgl64.Vec3) mgl64.Quat {
	l := dir.Len()
	if l < Epsilon || !Finite(dir) {
		return mgl64.QuatIdent()
	}
	d := dir.Mul(1 / l)
	if d.ApproxEqualThreshold(Forward.Mul(-1), 1e-9) {
		// antiparallel: any half turn about a perpendicular axis works
		return mgl64.QuatRotate(math.Pi, Up)
	}
	return mgl64.QuatBetweenVectors(Forward, d)
}
