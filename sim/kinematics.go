package sim

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/plus3/rigid/world"
)

// Kinematics advances every body carrying the Simulated marker by one
// leapfrog step per tick. Bodies are updated independently of each other,
// so the work can be sharded across goroutines.
type Kinematics struct {
	// Shards is the number of goroutines used per tick. Values below 2
	// keep the update on the calling goroutine.
	Shards int

	scratch []world.BodyID
}

// Execute implements System.
func (k *Kinematics) Execute(frame *Frame) {
	if k.Shards > 1 {
		k.executeSharded(frame.World, frame.Delta)
		return
	}

	frame.World.EachSimulated(func(id world.BodyID) bool {
		Step(frame.World, id, frame.Delta)
		return true
	})
}

func (k *Kinematics) executeSharded(w *world.World, delta float32) {
	k.scratch = k.scratch[:0]
	w.EachSimulated(func(id world.BodyID) bool {
		k.scratch = append(k.scratch, id)
		return true
	})

	if len(k.scratch) == 0 {
		return
	}

	chunk := (len(k.scratch) + k.Shards - 1) / k.Shards

	var wg sync.WaitGroup
	for start := 0; start < len(k.scratch); start += chunk {
		end := min(start+chunk, len(k.scratch))

		wg.Add(1)
		go func(ids []world.BodyID) {
			defer wg.Done()
			for _, id := range ids {
				Step(w, id, delta)
			}
		}(k.scratch[start:end])
	}
	wg.Wait()
}

// Step advances a single body by delta seconds using velocity-Verlet style
// half-steps: half the acceleration before moving, half after. With the
// acceleration constant over the tick this keeps velocity growth exact
// across any sub-step split. A delta of zero leaves the body untouched.
func Step(w *world.World, id world.BodyID, delta float32) {
	half := delta / 2

	acc := w.AcceleratorOf(id)

	var angAcc mgl32.Vec3
	if m, ok := w.MomentOf(id); ok {
		torque, _ := m.Decompose()
		angAcc = w.InertiaOf(id).AngularAcceleration(torque)
	}

	vel := w.Velocity(id).Add(acc.Mul(half))
	angVel := w.AngularVelocity(id).Add(angAcc.Mul(half))

	w.SetPosition(id, w.Position(id).Add(vel.Mul(delta)))
	rotate(w, id, angVel, delta)

	w.SetVelocity(id, vel.Add(acc.Mul(half)))
	w.SetAngularVelocity(id, angVel.Add(angAcc.Mul(half)))
}

// rotate composes a small-angle delta rotation from the angular velocity
// onto the body's orientation and renormalizes against drift. A degenerate
// axis is the identity rotation, so the orientation is left alone.
func rotate(w *world.World, id world.BodyID, angVel mgl32.Vec3, delta float32) {
	axis := angVel.Mul(delta)

	angle := axis.Len()
	if angle <= degenerateRotation {
		return
	}

	deltaRot := mgl32.QuatRotate(angle, axis.Mul(1/angle))
	w.SetRotation(id, deltaRot.Mul(w.Rotation(id)).Normalize())
}

// degenerateRotation is the rotation angle in radians below which a tick's
// delta rotation cannot produce a meaningful axis.
const degenerateRotation = 1e-9
