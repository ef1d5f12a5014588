package dynamics

import "github.com/go-gl/mathgl/mgl32"

// Inertia is a body's inertia tensor in body-local axes. It describes the
// body's resistance to angular acceleration about each axis.
//
// The tensor must be invertible for AngularAcceleration to be meaningful.
// Callers are expected to guarantee that at construction time (see
// Invertible); a singular tensor is a contract breach, not a runtime error.
type Inertia struct {
	tensor mgl32.Mat3
}

// InertiaFromTensor wraps an arbitrary body-frame tensor.
func InertiaFromTensor(m mgl32.Mat3) Inertia {
	return Inertia{tensor: m}
}

// CylinderX returns the inertia of a solid cylinder whose length runs
// along the X axis.
func CylinderX(height, radius, mass float32) Inertia {
	front, side := cylinderMoments(height, radius, mass)
	return Inertia{tensor: mgl32.Diag3(mgl32.Vec3{front, side, side})}
}

// CylinderY returns the inertia of a solid cylinder whose length runs
// along the Y axis.
func CylinderY(height, radius, mass float32) Inertia {
	front, side := cylinderMoments(height, radius, mass)
	return Inertia{tensor: mgl32.Diag3(mgl32.Vec3{side, front, side})}
}

// CylinderZ returns the inertia of a solid cylinder whose length runs
// along the Z axis.
func CylinderZ(height, radius, mass float32) Inertia {
	front, side := cylinderMoments(height, radius, mass)
	return Inertia{tensor: mgl32.Diag3(mgl32.Vec3{side, side, front})}
}

func cylinderMoments(height, radius, mass float32) (front, side float32) {
	h2 := height * height
	r2 := radius * radius

	front = mass * r2 / 2
	side = mass*h2/12 + mass*r2/4
	return front, side
}

// Tensor returns the raw tensor.
func (i Inertia) Tensor() mgl32.Mat3 { return i.tensor }

// Invertible reports whether the tensor can be inverted. Spawning a body
// with a non-invertible tensor is rejected up front so the integrator
// never has to deal with one.
func (i Inertia) Invertible() bool {
	return !mgl32.FloatEqual(i.tensor.Det(), 0)
}

// AngularAcceleration returns the angular acceleration induced by applying
// the given torque, i.e. the inverse tensor times the torque vector.
func (i Inertia) AngularAcceleration(t Torque) mgl32.Vec3 {
	return i.tensor.Inv().Mul3x1(t.Vec3())
}
