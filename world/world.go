// Package world stores per-body simulation state in structure-of-arrays
// form with stable indices. Dense state (spatial transform, velocities,
// inertia) lives in parallel slices; sparse state (the Simulated marker,
// the optional Accelerator and Moment components) lives in integer-keyed
// maps on the side.
//
// The store gives exclusive per-body access within a tick: no body's
// fields alias another's, so callers may fan the per-body update out
// across goroutines without locking.
package world

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/kamstrup/intmap"

	"github.com/plus3/rigid/dynamics"
)

// BodyID is a stable index into the world's body arrays. IDs stay valid
// until the body is despawned; despawned IDs are recycled.
type BodyID uint32

// Body is the full initial state for a spawned body.
type Body struct {
	Position mgl32.Vec3

	// Rotation is normalized on spawn. The zero quaternion is treated as
	// "unset" and replaced with the identity.
	Rotation mgl32.Quat

	Velocity        mgl32.Vec3
	AngularVelocity mgl32.Vec3

	// Inertia must be invertible; Spawn rejects singular tensors.
	Inertia dynamics.Inertia
}

// World holds all bodies known to the simulation.
type World struct {
	positions  []mgl32.Vec3
	rotations  []mgl32.Quat
	velocities []mgl32.Vec3
	angVels    []mgl32.Vec3
	inertias   []dynamics.Inertia

	alive []bool
	free  []BodyID
	live  int

	simulated    *intmap.Map[BodyID, struct{}]
	accelerators *intmap.Map[BodyID, mgl32.Vec3]
	moments      *intmap.Map[BodyID, dynamics.Moment]
}

// New creates an empty world sized for the given number of bodies.
func New(capacity int) *World {
	return &World{
		positions:    make([]mgl32.Vec3, 0, capacity),
		rotations:    make([]mgl32.Quat, 0, capacity),
		velocities:   make([]mgl32.Vec3, 0, capacity),
		angVels:      make([]mgl32.Vec3, 0, capacity),
		inertias:     make([]dynamics.Inertia, 0, capacity),
		alive:        make([]bool, 0, capacity),
		simulated:    intmap.New[BodyID, struct{}](capacity),
		accelerators: intmap.New[BodyID, mgl32.Vec3](capacity),
		moments:      intmap.New[BodyID, dynamics.Moment](capacity),
	}
}

// Spawn adds a body to the world and marks it simulated. It returns an
// error if any field is non-finite or the inertia tensor is singular;
// rejecting bad state here is what lets the integrator run untested
// preconditions per tick.
func (w *World) Spawn(b Body) (BodyID, error) {
	if err := validate(b); err != nil {
		return 0, err
	}

	rot := b.Rotation
	if rot.Len() == 0 {
		rot = mgl32.QuatIdent()
	} else {
		rot = rot.Normalize()
	}

	var id BodyID
	if n := len(w.free); n > 0 {
		id = w.free[n-1]
		w.free = w.free[:n-1]

		w.positions[id] = b.Position
		w.rotations[id] = rot
		w.velocities[id] = b.Velocity
		w.angVels[id] = b.AngularVelocity
		w.inertias[id] = b.Inertia
		w.alive[id] = true
	} else {
		id = BodyID(len(w.positions))

		w.positions = append(w.positions, b.Position)
		w.rotations = append(w.rotations, rot)
		w.velocities = append(w.velocities, b.Velocity)
		w.angVels = append(w.angVels, b.AngularVelocity)
		w.inertias = append(w.inertias, b.Inertia)
		w.alive = append(w.alive, true)
	}

	w.live++
	w.simulated.Put(id, struct{}{})
	return id, nil
}

// Despawn removes a body and all of its sparse components. The index is
// recycled by a later Spawn.
func (w *World) Despawn(id BodyID) {
	if int(id) >= len(w.alive) || !w.alive[id] {
		return
	}

	w.alive[id] = false
	w.live--
	w.free = append(w.free, id)

	w.simulated.Del(id)
	w.accelerators.Del(id)
	w.moments.Del(id)
}

// Alive reports whether id refers to a live body.
func (w *World) Alive(id BodyID) bool {
	return int(id) < len(w.alive) && w.alive[id]
}

// Len returns the number of live bodies.
func (w *World) Len() int { return w.live }

// SetSimulated toggles the body's participation in integration. A frozen
// body keeps all of its state; it just stops advancing.
func (w *World) SetSimulated(id BodyID, on bool) {
	if !w.Alive(id) {
		return
	}
	if on {
		w.simulated.Put(id, struct{}{})
	} else {
		w.simulated.Del(id)
	}
}

// Simulated reports whether the body currently participates in integration.
func (w *World) Simulated(id BodyID) bool {
	_, ok := w.simulated.Get(id)
	return ok
}

// SimulatedCount returns the number of bodies carrying the marker.
func (w *World) SimulatedCount() int { return w.simulated.Len() }

// SetAccelerator attaches a constant world-frame acceleration to the body.
func (w *World) SetAccelerator(id BodyID, acc mgl32.Vec3) {
	if w.Alive(id) {
		w.accelerators.Put(id, acc)
	}
}

// ClearAccelerator detaches the body's accelerator.
func (w *World) ClearAccelerator(id BodyID) { w.accelerators.Del(id) }

// AcceleratorOf returns the body's constant acceleration. Absence of the
// component reads as the zero vector.
func (w *World) AcceleratorOf(id BodyID) mgl32.Vec3 {
	acc, _ := w.accelerators.Get(id)
	return acc
}

// ApplyMoment attaches an off-center force to the body. It replaces any
// moment already applied.
func (w *World) ApplyMoment(id BodyID, m dynamics.Moment) {
	if w.Alive(id) {
		w.moments.Put(id, m)
	}
}

// ClearMoment detaches the body's applied moment.
func (w *World) ClearMoment(id BodyID) { w.moments.Del(id) }

// MomentOf returns the moment currently driving the body, if any.
func (w *World) MomentOf(id BodyID) (dynamics.Moment, bool) {
	return w.moments.Get(id)
}

// Position returns the body's world position.
func (w *World) Position(id BodyID) mgl32.Vec3 { return w.positions[id] }

// SetPosition overwrites the body's world position.
func (w *World) SetPosition(id BodyID, p mgl32.Vec3) { w.positions[id] = p }

// Rotation returns the body's orientation.
func (w *World) Rotation(id BodyID) mgl32.Quat { return w.rotations[id] }

// SetRotation overwrites the body's orientation. Callers are expected to
// keep it unit length.
func (w *World) SetRotation(id BodyID, q mgl32.Quat) { w.rotations[id] = q }

// Velocity returns the body's linear velocity.
func (w *World) Velocity(id BodyID) mgl32.Vec3 { return w.velocities[id] }

// SetVelocity overwrites the body's linear velocity.
func (w *World) SetVelocity(id BodyID, v mgl32.Vec3) { w.velocities[id] = v }

// AngularVelocity returns the body's angular velocity in rad/s per axis.
func (w *World) AngularVelocity(id BodyID) mgl32.Vec3 { return w.angVels[id] }

// SetAngularVelocity overwrites the body's angular velocity.
func (w *World) SetAngularVelocity(id BodyID, v mgl32.Vec3) { w.angVels[id] = v }

// InertiaOf returns the body's inertia tensor.
func (w *World) InertiaOf(id BodyID) dynamics.Inertia { return w.inertias[id] }

// Each calls f for every live body in index order until f returns false.
func (w *World) Each(f func(BodyID) bool) {
	for i := range w.alive {
		if !w.alive[i] {
			continue
		}
		if !f(BodyID(i)) {
			return
		}
	}
}

// EachSimulated calls f for every live body carrying the Simulated marker,
// in index order, until f returns false.
func (w *World) EachSimulated(f func(BodyID) bool) {
	for i := range w.alive {
		id := BodyID(i)
		if !w.alive[i] || !w.Simulated(id) {
			continue
		}
		if !f(id) {
			return
		}
	}
}

func validate(b Body) error {
	for name, v := range map[string]mgl32.Vec3{
		"position":         b.Position,
		"velocity":         b.Velocity,
		"angular velocity": b.AngularVelocity,
	} {
		if !finiteVec(v) {
			return fmt.Errorf("world: body %s is not finite: %v", name, v)
		}
	}

	if !finiteVec(b.Rotation.V) || !finite(b.Rotation.W) {
		return fmt.Errorf("world: body rotation is not finite: %v", b.Rotation)
	}

	for _, e := range b.Inertia.Tensor() {
		if !finite(e) {
			return fmt.Errorf("world: inertia tensor is not finite: %v", b.Inertia.Tensor())
		}
	}
	if !b.Inertia.Invertible() {
		return fmt.Errorf("world: inertia tensor is singular: %v", b.Inertia.Tensor())
	}

	return nil
}

func finiteVec(v mgl32.Vec3) bool {
	return finite(v.X()) && finite(v.Y()) && finite(v.Z())
}

func finite(f float32) bool {
	f64 := float64(f)
	return !math.IsNaN(f64) && !math.IsInf(f64, 0)
}
