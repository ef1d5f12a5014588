package sim_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/rigid/dynamics"
	"github.com/plus3/rigid/sim"
	"github.com/plus3/rigid/world"
)

func newTestWorld(t *testing.T, bodies ...world.Body) (*world.World, []world.BodyID) {
	t.Helper()

	w := world.New(len(bodies))
	ids := make([]world.BodyID, len(bodies))
	for i, b := range bodies {
		id, err := w.Spawn(b)
		require.NoError(t, err)
		ids[i] = id
	}
	return w, ids
}

func assertVec3(t *testing.T, want, got mgl32.Vec3, msgAndArgs ...any) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], 1e-2,
			"component %d: want %v, got %v %v", i, want, got, msgAndArgs)
	}
}

func cylinder() dynamics.Inertia { return dynamics.CylinderX(4, 0.5, 20) }

func TestPureTranslation(t *testing.T) {
	w, ids := newTestWorld(t, world.Body{
		Position: mgl32.Vec3{1, 0, 0},
		Velocity: mgl32.Vec3{2, -1, 0.5},
		Inertia:  cylinder(),
	})

	sim.Step(w, ids[0], 2)

	assertVec3(t, mgl32.Vec3{5, -2, 2}, w.Position(ids[0]))
	assertVec3(t, mgl32.Vec3{2, -1, 0.5}, w.Velocity(ids[0]), "velocity unchanged")
	assert.Equal(t, mgl32.QuatIdent(), w.Rotation(ids[0]), "no spin, no rotation")
}

func TestConstantAccelerationNoSubStepDrift(t *testing.T) {
	const total = float32(2.0)

	for _, steps := range []int{1, 4, 64, 1000} {
		w, ids := newTestWorld(t, world.Body{Inertia: cylinder()})
		w.SetAccelerator(ids[0], dynamics.Gravity)

		dt := total / float32(steps)
		for i := 0; i < steps; i++ {
			sim.Step(w, ids[0], dt)
		}

		// The half-step scheme reproduces v = a*T and x = a*T^2/2 exactly
		// for a constant field, no matter how the interval is split.
		assertVec3(t, dynamics.Gravity.Mul(total), w.Velocity(ids[0]), "steps", steps)
		assertVec3(t, dynamics.Gravity.Mul(total*total/2), w.Position(ids[0]), "steps", steps)
	}
}

func TestZeroDeltaIsNoOp(t *testing.T) {
	w, ids := newTestWorld(t, world.Body{
		Position:        mgl32.Vec3{1, 2, 3},
		Rotation:        mgl32.QuatRotate(0.5, mgl32.Vec3{0, 1, 0}),
		Velocity:        mgl32.Vec3{5, 5, 5},
		AngularVelocity: mgl32.Vec3{1, 0, 0},
		Inertia:         cylinder(),
	})
	id := ids[0]
	w.SetAccelerator(id, dynamics.Gravity)
	w.ApplyMoment(id, dynamics.NewMoment(mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 10, 0}))

	pos, rot := w.Position(id), w.Rotation(id)
	vel, angVel := w.Velocity(id), w.AngularVelocity(id)

	sim.Step(w, id, 0)

	assert.Equal(t, pos, w.Position(id))
	assert.Equal(t, rot, w.Rotation(id))
	assert.Equal(t, vel, w.Velocity(id))
	assert.Equal(t, angVel, w.AngularVelocity(id))
}

func TestMomentInducesSpin(t *testing.T) {
	w, ids := newTestWorld(t, world.Body{Inertia: cylinder()})
	id := ids[0]

	// Force +Y applied one unit out along +Z: the lever arm turns it into
	// torque about -X.
	w.ApplyMoment(id, dynamics.NewMoment(mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 10, 0}))

	const dt = float32(0.25)
	sim.Step(w, id, dt)

	torque := dynamics.Torque{-10, 0, 0}
	wantAngVel := cylinder().AngularAcceleration(torque).Mul(dt)
	assertVec3(t, wantAngVel, w.AngularVelocity(id))
	assert.Negative(t, w.AngularVelocity(id).X())

	// The orientation moved off identity about the same axis.
	assert.NotEqual(t, mgl32.QuatIdent(), w.Rotation(id))
	assert.InDelta(t, 1.0, float64(w.Rotation(id).Len()), 1e-5)
}

func TestRadialMomentDoesNotSpin(t *testing.T) {
	w, ids := newTestWorld(t, world.Body{Inertia: cylinder()})
	id := ids[0]

	// Pulling straight along the offset rotates nothing.
	w.ApplyMoment(id, dynamics.NewMoment(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 7, 0}))

	sim.Step(w, id, 0.5)

	assertVec3(t, mgl32.Vec3{}, w.AngularVelocity(id))
	assert.Equal(t, mgl32.QuatIdent(), w.Rotation(id))
}

func TestOrientationStaysUnitOverManyTicks(t *testing.T) {
	w, ids := newTestWorld(t, world.Body{
		AngularVelocity: mgl32.Vec3{0.7, -1.3, 2.1},
		Inertia:         cylinder(),
	})

	for i := 0; i < 10000; i++ {
		sim.Step(w, ids[0], 1.0/60.0)
	}

	assert.InDelta(t, 1.0, float64(w.Rotation(ids[0]).Len()), 1e-4)
}

func TestSpinMatchesKnownRotation(t *testing.T) {
	// One radian per second about Y for one second, in small steps, lands
	// within tolerance of a one-radian Y rotation.
	w, ids := newTestWorld(t, world.Body{
		AngularVelocity: mgl32.Vec3{0, 1, 0},
		Inertia:         cylinder(),
	})

	const steps = 100
	for i := 0; i < steps; i++ {
		sim.Step(w, ids[0], 1.0/steps)
	}

	want := mgl32.QuatRotate(1, mgl32.Vec3{0, 1, 0})
	assert.True(t, w.Rotation(ids[0]).OrientationEqualThreshold(want, 1e-3),
		"want %v, got %v", want, w.Rotation(ids[0]))
}

func TestFrozenBodyDoesNotAdvance(t *testing.T) {
	moving := world.Body{Velocity: mgl32.Vec3{1, 0, 0}, Inertia: cylinder()}
	w, ids := newTestWorld(t, moving, moving)
	frozen, active := ids[0], ids[1]

	w.SetSimulated(frozen, false)

	k := &sim.Kinematics{}
	k.Execute(&sim.Frame{Delta: 1, World: w})

	assertVec3(t, mgl32.Vec3{}, w.Position(frozen), "frozen body stays put")
	assertVec3(t, mgl32.Vec3{1, 0, 0}, w.Velocity(frozen), "frozen state preserved")
	assertVec3(t, mgl32.Vec3{1, 0, 0}, w.Position(active))

	// Thawing resumes from the stored state.
	w.SetSimulated(frozen, true)
	k.Execute(&sim.Frame{Delta: 1, World: w})
	assertVec3(t, mgl32.Vec3{1, 0, 0}, w.Position(frozen))
}

func TestShardedMatchesSerial(t *testing.T) {
	spawn := func() (*world.World, []world.BodyID) {
		w := world.New(64)
		ids := make([]world.BodyID, 0, 64)
		for i := 0; i < 64; i++ {
			f := float32(i)
			id, err := w.Spawn(world.Body{
				Position:        mgl32.Vec3{f, -f, f * 0.5},
				Velocity:        mgl32.Vec3{1, f * 0.1, 0},
				AngularVelocity: mgl32.Vec3{0, f * 0.01, 0.2},
				Inertia:         cylinder(),
			})
			require.NoError(t, err)
			if i%2 == 0 {
				w.SetAccelerator(id, dynamics.Gravity)
			}
			if i%3 == 0 {
				w.ApplyMoment(id, dynamics.NewMoment(mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 10, 0}))
			}
			ids = append(ids, id)
		}
		return w, ids
	}

	serial, ids := spawn()
	sharded, _ := spawn()

	serialK := &sim.Kinematics{}
	shardedK := &sim.Kinematics{Shards: 8}

	for i := 0; i < 10; i++ {
		serialK.Execute(&sim.Frame{Delta: 1.0 / 60.0, World: serial})
		shardedK.Execute(&sim.Frame{Delta: 1.0 / 60.0, World: sharded})
	}

	for _, id := range ids {
		assert.Equal(t, serial.Position(id), sharded.Position(id))
		assert.Equal(t, serial.Rotation(id), sharded.Rotation(id))
		assert.Equal(t, serial.Velocity(id), sharded.Velocity(id))
		assert.Equal(t, serial.AngularVelocity(id), sharded.AngularVelocity(id))
	}
}

func BenchmarkKinematics(b *testing.B) {
	w := world.New(1024)
	for i := 0; i < 1024; i++ {
		id, err := w.Spawn(world.Body{
			Velocity:        mgl32.Vec3{1, 0, 0},
			AngularVelocity: mgl32.Vec3{0, 0.5, 0},
			Inertia:         dynamics.CylinderX(4, 0.5, 20),
		})
		if err != nil {
			b.Fatal(err)
		}
		w.SetAccelerator(id, dynamics.Gravity)
	}

	k := &sim.Kinematics{}
	frame := &sim.Frame{Delta: 1.0 / 60.0, World: w}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k.Execute(frame)
	}
}
