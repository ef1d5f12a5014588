package dynamics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Gravity is a constant downward acceleration of 9.82 m/s^2, suitable as
// a body's accelerator.
var Gravity = mgl32.Vec3{0, -9.82, 0}

// Pitch returns the elevation angle of v above the horizontal XZ plane,
// in radians. A straight-up vector pitches +pi/2, straight down -pi/2,
// and the zero vector pitches 0.
func Pitch(v mgl32.Vec3) float32 {
	fdist := math.Sqrt(float64(v.X())*float64(v.X()) + float64(v.Z())*float64(v.Z()))
	if fdist == 0 {
		switch {
		case v.Y() > 0:
			return math.Pi / 2
		case v.Y() < 0:
			return -math.Pi / 2
		default:
			return 0
		}
	}
	return float32(math.Atan(float64(v.Y()) / fdist))
}

// Yaw returns the heading angle of v in the horizontal plane, measured
// from the +X axis. The sign is chosen so rotating from +X toward +Z
// yields increasing yaw magnitude with negative sign, i.e. yaw(+Z) = -pi/2.
func Yaw(v mgl32.Vec3) float32 {
	return float32(-math.Atan2(float64(v.Z()), float64(v.X())))
}

// Direction returns a quaternion orienting the +X axis along v: a yaw
// rotation about Y composed with a pitch rotation about Z, no roll.
// The zero vector has no direction and maps to the identity rotation.
func Direction(v mgl32.Vec3) mgl32.Quat {
	if v.Len() <= degenerateLength {
		return mgl32.QuatIdent()
	}

	yaw := mgl32.QuatRotate(Yaw(v), mgl32.Vec3{0, 1, 0})
	pitch := mgl32.QuatRotate(Pitch(v), mgl32.Vec3{0, 0, 1})
	return yaw.Mul(pitch)
}
