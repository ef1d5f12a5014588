// Package dynamics provides the numeric building blocks for rigid-body
// simulation: force/torque decomposition of off-center loads, inertia
// tensors for canonical shapes, and velocity heading helpers.
//
// Everything in this package is pure: values in, values out, no state.
// Vectors and quaternions come from mgl32 and use world coordinates
// unless noted otherwise.
package dynamics

import "github.com/go-gl/mathgl/mgl32"

// Force is the translational part of an applied load.
type Force mgl32.Vec3

// Torque is the rotational part of an applied load, expressed as a vector
// about which angular acceleration is induced.
type Torque mgl32.Vec3

// Vec3 returns the force as a plain vector.
func (f Force) Vec3() mgl32.Vec3 { return mgl32.Vec3(f) }

// Add returns the sum of two forces.
func (f Force) Add(o Force) Force { return Force(mgl32.Vec3(f).Add(mgl32.Vec3(o))) }

// Sub returns the difference of two forces.
func (f Force) Sub(o Force) Force { return Force(mgl32.Vec3(f).Sub(mgl32.Vec3(o))) }

// Scale returns the force scaled by k.
func (f Force) Scale(k float32) Force { return Force(mgl32.Vec3(f).Mul(k)) }

// Vec3 returns the torque as a plain vector.
func (t Torque) Vec3() mgl32.Vec3 { return mgl32.Vec3(t) }

// Add returns the sum of two torques.
func (t Torque) Add(o Torque) Torque { return Torque(mgl32.Vec3(t).Add(mgl32.Vec3(o))) }

// Sub returns the difference of two torques.
func (t Torque) Sub(o Torque) Torque { return Torque(mgl32.Vec3(t).Sub(mgl32.Vec3(o))) }

// Scale returns the torque scaled by k.
func (t Torque) Scale(k float32) Torque { return Torque(mgl32.Vec3(t).Mul(k)) }

// Moment is a force applied at a point offset from a body's center of mass.
type Moment struct {
	// Offset of the application point from the center of mass.
	Offset mgl32.Vec3

	// Force being applied at that point.
	Force mgl32.Vec3
}

// ZeroMoment applies no force anywhere.
var ZeroMoment = Moment{}

// NewMoment returns a moment from an offset and a force.
func NewMoment(offset, force mgl32.Vec3) Moment {
	return Moment{Offset: offset, Force: force}
}

// MomentFromForce returns a moment acting straight through the center of
// mass. Such a moment never produces torque.
func MomentFromForce(force mgl32.Vec3) Moment {
	return Moment{Force: force}
}

// Decompose splits the moment into its rotational and translational parts.
//
// The translational part is the projection of the force onto the offset
// direction (the radial component, which acts through the center of mass
// and contributes no torque). The rotational part is the cross product of
// the offset with the tangential residual.
//
// A zero or near-zero offset has no lever arm: the torque is zero and the
// full force is returned unchanged.
func (m Moment) Decompose() (Torque, Force) {
	n, ok := tryNormalize(m.Offset)
	if !ok {
		return Torque{}, Force(m.Force)
	}

	radial := n.Mul(m.Force.Dot(n))
	torque := m.Offset.Cross(m.Force.Sub(radial))

	return Torque(torque), Force(radial)
}

// TorquePart returns only the rotational part of the moment.
func (m Moment) TorquePart() Torque {
	t, _ := m.Decompose()
	return t
}

// ForcePart returns only the translational part of the moment.
func (m Moment) ForcePart() Force {
	_, f := m.Decompose()
	return f
}

// degenerateLength is the vector length below which a direction cannot be
// recovered and geometric fallbacks kick in.
const degenerateLength = 1e-6

func tryNormalize(v mgl32.Vec3) (mgl32.Vec3, bool) {
	l := v.Len()
	if l <= degenerateLength {
		return mgl32.Vec3{}, false
	}
	return v.Mul(1 / l), true
}
